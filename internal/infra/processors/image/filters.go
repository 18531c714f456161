package image

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
)

// pixelFilter maps one RGB sample to another; alpha passes through.
type pixelFilter func(r, g, b float64) (float64, float64, float64)

var filters = map[string]pixelFilter{
	"grayscale": func(r, g, b float64) (float64, float64, float64) {
		y := 0.299*r + 0.587*g + 0.114*b
		return y, y, y
	},
	"sepia": func(r, g, b float64) (float64, float64, float64) {
		return 0.393*r + 0.769*g + 0.189*b,
			0.349*r + 0.686*g + 0.168*b,
			0.272*r + 0.534*g + 0.131*b
	},
	"saturate": func(r, g, b float64) (float64, float64, float64) {
		y := 0.299*r + 0.587*g + 0.114*b
		const k = 1.4
		return y + (r-y)*k, y + (g-y)*k, y + (b-y)*k
	},
	"cool": func(r, g, b float64) (float64, float64, float64) {
		return r * 0.9, g, b * 1.1
	},
	"warm": func(r, g, b float64) (float64, float64, float64) {
		return r * 1.1, g, b * 0.9
	},
}

// ApplyFilter runs the named color filter over every pixel of every
// upload.
func (p *Processor) ApplyFilter(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	name := strings.ToLower(opts.String("filter", "grayscale"))
	filter, ok := filters[name]
	if !ok {
		return nil, fmt.Errorf("unknown filter %q: %w", name, domain.ErrUnsupported)
	}

	outs, err := p.mapUploads(files, "image-filter", func(img image.Image) (image.Image, error) {
		b := img.Bounds()
		dst := image.NewNRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, a := img.At(x, y).RGBA()
				fr, fg, fb := filter(float64(r>>8), float64(g>>8), float64(bl>>8))
				dst.SetNRGBA(x, y, color.NRGBA{
					R: clamp8(fr), G: clamp8(fg), B: clamp8(fb), A: uint8(a >> 8),
				})
			}
		}
		return dst, nil
	})
	if err != nil {
		return nil, err
	}
	return batchResult(fmt.Sprintf("Applied %s filter", name), outs, map[string]any{
		"filter": name,
	}), nil
}

// FilterNames lists the supported filters, for the tool descriptor.
func FilterNames() []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	return names
}

func clamp8(f float64) uint8 {
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f)
}
