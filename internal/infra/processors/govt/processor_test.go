package govt

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
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

func TestValidatePAN(t *testing.T) {
	p := newProcessor(t)

	res, err := p.ValidatePAN(context.Background(), nil, domain.Options{"panNumber": "AAAPL1234C"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, true, res.Data["isValid"])
	assert.Equal(t, "Individual", res.Data["type"])
	assert.Equal(t, "AAAPL1234C", res.Data["pan"])
}

func TestValidatePANLowercaseInput(t *testing.T) {
	p := newProcessor(t)

	res, err := p.ValidatePAN(context.Background(), nil, domain.Options{"panNumber": "aaacl1234c"})
	require.NoError(t, err)
	assert.Equal(t, true, res.Data["isValid"])
	assert.Equal(t, "AAACL1234C", res.Data["pan"])
	assert.Equal(t, "Company", res.Data["type"])
}

func TestValidatePANRejectsBadFormat(t *testing.T) {
	p := newProcessor(t)

	for _, pan := range []string{"", "ABCDE12345", "1AAPL1234C", "AAAPL1234"} {
		res, err := p.ValidatePAN(context.Background(), nil, domain.Options{"panNumber": pan})
		require.NoError(t, err)
		assert.Equal(t, false, res.Data["isValid"], "pan %q", pan)
	}
}

func TestCalculateGST(t *testing.T) {
	p := newProcessor(t)

	res, err := p.CalculateGST(context.Background(), nil, domain.Options{
		"amount":  float64(1000),
		"gstRate": float64(18),
	})
	require.NoError(t, err)
	assert.Equal(t, "180.00", res.Data["gstAmount"])
	assert.Equal(t, "1180.00", res.Data["totalAmount"])

	breakdown := res.Data["breakdown"].(map[string]any)
	assert.Equal(t, "90.00", breakdown["cgst"])
	assert.Equal(t, "90.00", breakdown["sgst"])
}

func TestCalculateEMIZeroRate(t *testing.T) {
	p := newProcessor(t)

	res, err := p.CalculateEMI(context.Background(), nil, domain.Options{
		"principal": float64(120000),
		"rate":      float64(0),
		"tenure":    float64(12),
	})
	require.NoError(t, err)
	assert.Equal(t, "10000.00", res.Data["emi"])
}

func TestMaskAadhaarImage(t *testing.T) {
	p := newProcessor(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "card.png")
	writeTestPNG(t, path, 400, 250)

	res, err := p.MaskAadhaar(context.Background(), []domain.Upload{{
		OriginalName: "card.png",
		Path:         path,
	}}, domain.Options{"aadhaarNumber": "1234 5678 9012"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "XXXX XXXX 9012", res.Data["maskedNumber"])
}

func TestMaskAadhaarNonImagePassesThrough(t *testing.T) {
	p := newProcessor(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "card.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 not really"), 0o644))

	res, err := p.MaskAadhaar(context.Background(), []domain.Upload{{
		OriginalName: "card.pdf",
		Path:         path,
	}}, domain.Options{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Files, 1)
	assert.NotEmpty(t, res.Data["note"])
}

func TestPassportPhotoSize(t *testing.T) {
	p := newProcessor(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "face.png")
	writeTestPNG(t, path, 900, 700)

	res, err := p.PassportPhoto(context.Background(), []domain.Upload{{
		OriginalName: "face.png",
		Path:         path,
	}}, domain.Options{"size": "2x2"})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, 600, res.Data["width"])
	assert.Equal(t, 600, res.Data["height"])
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestFindIFSCFromConcurrentRequests(t *testing.T) {
	p := newProcessor(t)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := p.FindIFSC(context.Background(), nil, domain.Options{"bankName": "SBI"})
			assert.NoError(t, err)
			code, _ := res.Data["ifscCode"].(string)
			assert.Len(t, code, 11)
		}()
	}
	wg.Wait()
}
