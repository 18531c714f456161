package image

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
	"github.com/toolverse-app/toolverse/internal/infra/storage"
)

func newProcessor(t *testing.T) *Processor {
	t.Helper()
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	return New(store)
}

func pngUpload(t *testing.T, w, h int) domain.Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	fi, err := os.Stat(path)
	require.NoError(t, err)
	return domain.Upload{OriginalName: "in.png", Path: path, Size: fi.Size()}
}

func decodeArtifact(t *testing.T, p *Processor, res *domain.Result) image.Image {
	t.Helper()
	require.Len(t, res.Files, 1)
	path, err := p.store.Resolve(res.Files[0].Filename)
	require.NoError(t, err)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, _, err := image.Decode(f)
	require.NoError(t, err)
	return img
}

func TestResizeKeepsAspect(t *testing.T) {
	p := newProcessor(t)

	res, err := p.Resize(context.Background(), []domain.Upload{pngUpload(t, 200, 100)}, domain.Options{
		"width":          float64(100),
		"height":         float64(100),
		"maintainAspect": true,
	})
	require.NoError(t, err)
	out := decodeArtifact(t, p, res)
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())
}

func TestResizeStretchesWithoutAspect(t *testing.T) {
	p := newProcessor(t)

	res, err := p.Resize(context.Background(), []domain.Upload{pngUpload(t, 200, 100)}, domain.Options{
		"width":          float64(80),
		"height":         float64(80),
		"maintainAspect": false,
	})
	require.NoError(t, err)
	out := decodeArtifact(t, p, res)
	assert.Equal(t, 80, out.Bounds().Dx())
	assert.Equal(t, 80, out.Bounds().Dy())
}

func TestCompressEncodesJPEG(t *testing.T) {
	p := newProcessor(t)

	res, err := p.Compress(context.Background(), []domain.Upload{pngUpload(t, 64, 64)}, domain.Options{
		"quality": float64(50),
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)

	path, err := p.store.Resolve(res.Files[0].Filename)
	require.NoError(t, err)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = jpeg.Decode(f)
	assert.NoError(t, err)
}

func TestCropValidatesBounds(t *testing.T) {
	p := newProcessor(t)

	_, err := p.Crop(context.Background(), []domain.Upload{pngUpload(t, 50, 50)}, domain.Options{
		"x": float64(40), "y": float64(40), "width": float64(30), "height": float64(30),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupported)
}

func TestCropCutsRectangle(t *testing.T) {
	p := newProcessor(t)

	res, err := p.Crop(context.Background(), []domain.Upload{pngUpload(t, 50, 50)}, domain.Options{
		"x": float64(10), "y": float64(10), "width": float64(20), "height": float64(15),
	})
	require.NoError(t, err)
	out := decodeArtifact(t, p, res)
	assert.Equal(t, 20, out.Bounds().Dx())
	assert.Equal(t, 15, out.Bounds().Dy())
}

func TestConvertRejectsUnknownFormat(t *testing.T) {
	p := newProcessor(t)

	_, err := p.Convert(context.Background(), []domain.Upload{pngUpload(t, 10, 10)}, domain.Options{
		"format": "webp",
	})
	assert.ErrorIs(t, err, domain.ErrUnsupported)
}

func TestConvertToBMP(t *testing.T) {
	p := newProcessor(t)

	res, err := p.Convert(context.Background(), []domain.Upload{pngUpload(t, 10, 10)}, domain.Options{
		"format": "bmp",
	})
	require.NoError(t, err)
	assert.Equal(t, "bmp", res.Data["to"])
	out := decodeArtifact(t, p, res)
	assert.Equal(t, 10, out.Bounds().Dx())
}

func TestGrayscaleFilterEqualizesChannels(t *testing.T) {
	p := newProcessor(t)

	res, err := p.ApplyFilter(context.Background(), []domain.Upload{pngUpload(t, 16, 16)}, domain.Options{
		"filter": "grayscale",
	})
	require.NoError(t, err)
	out := decodeArtifact(t, p, res)
	r, g, b, _ := out.At(8, 8).RGBA()
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}

func TestFilterNames(t *testing.T) {
	assert.ElementsMatch(t, []string{"grayscale", "sepia", "saturate", "cool", "warm"}, FilterNames())
}

func TestApplyFilterRejectsUnknown(t *testing.T) {
	p := newProcessor(t)

	_, err := p.ApplyFilter(context.Background(), []domain.Upload{pngUpload(t, 8, 8)}, domain.Options{
		"filter": "vaporwave",
	})
	assert.ErrorIs(t, err, domain.ErrUnsupported)
}

func TestRemoveBackgroundIsDemo(t *testing.T) {
	p := newProcessor(t)

	res, err := p.RemoveBackground(context.Background(), []domain.Upload{pngUpload(t, 32, 32)}, domain.Options{})
	require.NoError(t, err)
	assert.True(t, res.Demo)
	require.Len(t, res.Files, 1)
}

func TestResizeProcessesEveryUpload(t *testing.T) {
	p := newProcessor(t)

	uploads := []domain.Upload{
		pngUpload(t, 200, 100),
		pngUpload(t, 200, 100),
		pngUpload(t, 200, 100),
	}
	res, err := p.Resize(context.Background(), uploads, domain.Options{
		"width":          float64(100),
		"height":         float64(100),
		"maintainAspect": true,
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 3)
	for _, out := range res.Files {
		path, err := p.store.Resolve(out.Filename)
		require.NoError(t, err)
		f, err := os.Open(path)
		require.NoError(t, err)
		img, _, err := image.Decode(f)
		require.NoError(t, f.Close())
		require.NoError(t, err)
		assert.Equal(t, 100, img.Bounds().Dx())
		assert.Equal(t, 50, img.Bounds().Dy())
	}
}

func TestBatchAbortsOnFirstBadUpload(t *testing.T) {
	p := newProcessor(t)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))

	res, err := p.ApplyFilter(context.Background(), []domain.Upload{
		pngUpload(t, 8, 8),
		{OriginalName: "bad.png", Path: bad, Size: 12},
		pngUpload(t, 8, 8),
	}, domain.Options{"filter": "sepia"})
	require.Error(t, err)
	assert.Nil(t, res)
}

func TestConvertProcessesEveryUpload(t *testing.T) {
	p := newProcessor(t)

	res, err := p.Convert(context.Background(), []domain.Upload{
		pngUpload(t, 10, 10),
		pngUpload(t, 12, 12),
	}, domain.Options{"format": "bmp"})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
}

func TestCompressReportsBatchSaving(t *testing.T) {
	p := newProcessor(t)

	res, err := p.Compress(context.Background(), []domain.Upload{
		pngUpload(t, 64, 64),
		pngUpload(t, 64, 64),
	}, domain.Options{"quality": float64(40)})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	assert.Contains(t, res.Data, "savedPercent")
}
