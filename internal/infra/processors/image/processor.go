// Package image implements the raster image tools with the standard
// image codecs plus the x/image scalers and extra formats.
package image

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"

	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
)

type Processor struct {
	store domain.ArtifactStore
}

func New(store domain.ArtifactStore) *Processor {
	return &Processor{store: store}
}

// Resize scales every upload to the requested dimensions. With
// maintainAspect each image is fitted inside the box instead of
// stretched.
func (p *Processor) Resize(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	reqW := opts.Int("width", 0)
	reqH := opts.Int("height", 0)
	keep := opts.Bool("maintainAspect", true)

	var outW, outH int
	outs, err := p.mapUploads(files, "image-resize", func(img image.Image) (image.Image, error) {
		w, h := reqW, reqH
		if w == 0 {
			w = img.Bounds().Dx()
		}
		if h == 0 {
			h = img.Bounds().Dy()
		}
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("invalid dimensions %dx%d: %w", w, h, domain.ErrUnsupported)
		}
		if keep {
			w, h = fitInside(img.Bounds().Dx(), img.Bounds().Dy(), w, h)
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
		outW, outH = w, h
		return dst, nil
	})
	if err != nil {
		return nil, err
	}
	return batchResult("Image resized", outs, map[string]any{
		"width":  outW,
		"height": outH,
	}), nil
}

// Compress re-encodes every upload as JPEG at the requested quality and
// reports the byte saving across the batch.
func (p *Processor) Compress(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	quality := opts.Int("quality", 75)
	if quality < 1 || quality > 100 {
		quality = 75
	}

	var before, after int64
	outs := make([]domain.OutputFile, 0, len(files))
	for _, up := range files {
		img, _, err := decodeUpload(up)
		if err != nil {
			return nil, err
		}
		art, err := p.store.Stage("image-compress", ".jpg")
		if err != nil {
			return nil, err
		}
		f, err := os.Create(art.Path)
		if err != nil {
			return nil, err
		}
		err = jpeg.Encode(f, flattenAlpha(img), &jpeg.Options{Quality: quality})
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		out := outputFile(art)
		before += up.Size
		after += out.Size
		outs = append(outs, out)
	}

	var saved float64
	if before > 0 {
		saved = float64(before-after) / float64(before) * 100
	}
	return batchResult("Image compressed", outs, map[string]any{
		"originalSize":   before,
		"compressedSize": after,
		"savedPercent":   fmt.Sprintf("%.1f", saved),
		"quality":        quality,
	}), nil
}

// Crop cuts the requested rectangle out of every upload.
func (p *Processor) Crop(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	x := opts.Int("x", 0)
	y := opts.Int("y", 0)
	w := opts.Int("width", 0)
	h := opts.Int("height", 0)

	outs, err := p.mapUploads(files, "image-crop", func(img image.Image) (image.Image, error) {
		b := img.Bounds()
		rect := image.Rect(b.Min.X+x, b.Min.Y+y, b.Min.X+x+w, b.Min.Y+y+h)
		if w <= 0 || h <= 0 || !rect.In(b) {
			return nil, fmt.Errorf("crop rectangle outside image bounds: %w", domain.ErrUnsupported)
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
		return dst, nil
	})
	if err != nil {
		return nil, err
	}
	return batchResult("Image cropped", outs, map[string]any{
		"width":  w,
		"height": h,
	}), nil
}

// Convert re-encodes every upload into the requested format.
func (p *Processor) Convert(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	format := strings.ToLower(opts.String("format", "png"))
	ext, encode, ok := encoderFor(format)
	if !ok {
		return nil, fmt.Errorf("unsupported target format %q: %w", format, domain.ErrUnsupported)
	}

	var from string
	outs := make([]domain.OutputFile, 0, len(files))
	for _, up := range files {
		img, src, err := decodeUpload(up)
		if err != nil {
			return nil, err
		}
		from = src
		art, err := p.store.Stage("image-convert", ext)
		if err != nil {
			return nil, err
		}
		f, err := os.Create(art.Path)
		if err != nil {
			return nil, err
		}
		err = encode(f, img)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", format, err)
		}
		outs = append(outs, outputFile(art))
	}
	return batchResult(fmt.Sprintf("Converted %s to %s", from, format), outs, map[string]any{
		"from": from,
		"to":   format,
	}), nil
}

// RemoveBackground approximates background removal by making pixels
// close to the dominant corner color transparent. A segmentation model
// would do better, so the result is marked demo.
func (p *Processor) RemoveBackground(_ context.Context, files []domain.Upload, _ domain.Options) (*domain.Result, error) {
	outs, err := p.mapUploads(files, "background-remove", func(img image.Image) (image.Image, error) {
		b := img.Bounds()
		bg := img.At(b.Min.X, b.Min.Y)
		br, bgG, bb, _ := bg.RGBA()

		dst := image.NewNRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, a := img.At(x, y).RGBA()
				if colorDistance(r, g, bl, br, bgG, bb) < 0x2000 {
					a = 0
				}
				dst.SetNRGBA(x, y, color.NRGBA{
					R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: uint8(a >> 8),
				})
			}
		}
		return dst, nil
	})
	if err != nil {
		return nil, err
	}
	res := batchResult("Background removed", outs, map[string]any{
		"note": "corner-color matting; complex backgrounds need a segmentation model",
	})
	res.Demo = true
	return res, nil
}

// Watermark draws semi-transparent text near the bottom-right corner of
// every upload.
func (p *Processor) Watermark(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	text := opts.String("watermarkText", "© watermark")

	outs, err := p.mapUploads(files, "image-watermark", func(img image.Image) (image.Image, error) {
		b := img.Bounds()
		dst := image.NewRGBA(b)
		draw.Draw(dst, b, img, b.Min, draw.Src)

		face := basicfont.Face7x13
		width := font.MeasureString(face, text).Ceil()
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 180}),
			Face: face,
			Dot:  fixed.P(b.Max.X-width-12, b.Max.Y-12),
		}
		d.DrawString(text)
		return dst, nil
	})
	if err != nil {
		return nil, err
	}
	return batchResult("Watermark added", outs, map[string]any{
		"watermarkText": text,
	}), nil
}

func (p *Processor) encodePNG(operation string, img image.Image) (domain.Artifact, error) {
	art, err := p.store.Stage(operation, ".png")
	if err != nil {
		return domain.Artifact{}, err
	}
	f, err := os.Create(art.Path)
	if err != nil {
		return domain.Artifact{}, err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return domain.Artifact{}, fmt.Errorf("encode png: %w", err)
	}
	return art, nil
}

// mapUploads decodes every upload, applies fn and stages the result as
// PNG, one output per input. The first failing upload aborts the whole
// batch.
func (p *Processor) mapUploads(files []domain.Upload, operation string, fn func(image.Image) (image.Image, error)) ([]domain.OutputFile, error) {
	outs := make([]domain.OutputFile, 0, len(files))
	for _, up := range files {
		img, _, err := decodeUpload(up)
		if err != nil {
			return nil, err
		}
		dst, err := fn(img)
		if err != nil {
			return nil, err
		}
		art, err := p.encodePNG(operation, dst)
		if err != nil {
			return nil, err
		}
		outs = append(outs, outputFile(art))
	}
	return outs, nil
}

func outputFile(art domain.Artifact) domain.OutputFile {
	var size int64
	if fi, err := os.Stat(art.Path); err == nil {
		size = fi.Size()
	}
	return domain.OutputFile{
		Filename:    art.Name,
		DownloadURL: art.DownloadURL(),
		Size:        size,
	}
}

func batchResult(msg string, files []domain.OutputFile, data map[string]any) *domain.Result {
	return &domain.Result{
		Success: true,
		Message: msg,
		Files:   files,
		Data:    data,
	}
}

func decodeUpload(up domain.Upload) (image.Image, string, error) {
	f, err := os.Open(up.Path)
	if err != nil {
		return nil, "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// fitInside shrinks (or grows) srcW x srcH to the largest size that
// fits in maxW x maxH while keeping the aspect ratio.
func fitInside(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW*maxH > srcH*maxW {
		h := srcH * maxW / srcW
		if h < 1 {
			h = 1
		}
		return maxW, h
	}
	w := srcW * maxH / srcH
	if w < 1 {
		w = 1
	}
	return w, maxH
}

// flattenAlpha composites onto white, since JPEG has no alpha channel.
func flattenAlpha(img image.Image) image.Image {
	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Over)
	return dst
}

func colorDistance(r1, g1, b1, r2, g2, b2 uint32) uint32 {
	d := func(a, b uint32) uint32 {
		if a > b {
			return a - b
		}
		return b - a
	}
	return (d(r1, r2) + d(g1, g2) + d(b1, b2)) / 3
}

func encoderFor(format string) (string, func(io.Writer, image.Image) error, bool) {
	switch format {
	case "jpg", "jpeg":
		return ".jpg", func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, flattenAlpha(img), &jpeg.Options{Quality: 90})
		}, true
	case "png":
		return ".png", func(w io.Writer, img image.Image) error {
			return png.Encode(w, img)
		}, true
	case "gif":
		return ".gif", func(w io.Writer, img image.Image) error {
			return gif.Encode(w, img, nil)
		}, true
	case "bmp":
		return ".bmp", bmp.Encode, true
	case "tiff", "tif":
		return ".tiff", func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, nil)
		}, true
	default:
		return "", nil, false
	}
}
