package image

import (
	"context"
	"image"
	"image/color"

	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
)

var blurKernel = [9]float64{
	1.0 / 16, 2.0 / 16, 1.0 / 16,
	2.0 / 16, 4.0 / 16, 2.0 / 16,
	1.0 / 16, 2.0 / 16, 1.0 / 16,
}

var sharpenKernel = [9]float64{
	0, -1, 0,
	-1, 5, -1,
	0, -1, 0,
}

// Blur applies a gaussian 3x3 kernel, repeated for stronger radii.
func (p *Processor) Blur(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	radius := opts.Int("radius", 2)
	if radius < 1 {
		radius = 1
	}
	if radius > 20 {
		radius = 20
	}

	outs, err := p.mapUploads(files, "image-blur", func(img image.Image) (image.Image, error) {
		out := img
		for i := 0; i < radius; i++ {
			out = convolve(out, blurKernel)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return batchResult("Blur applied", outs, map[string]any{"radius": radius}), nil
}

// Sharpen applies an unsharp 3x3 kernel once.
func (p *Processor) Sharpen(_ context.Context, files []domain.Upload, _ domain.Options) (*domain.Result, error) {
	outs, err := p.mapUploads(files, "image-sharpen", func(img image.Image) (image.Image, error) {
		return convolve(img, sharpenKernel), nil
	})
	if err != nil {
		return nil, err
	}
	return batchResult("Image sharpened", outs, nil), nil
}

func convolve(img image.Image, k [9]float64) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			var sr, sg, sb float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					sx := clampInt(x+kx, 0, b.Dx()-1)
					sy := clampInt(y+ky, 0, b.Dy()-1)
					r, g, bl, _ := img.At(b.Min.X+sx, b.Min.Y+sy).RGBA()
					w := k[(ky+1)*3+(kx+1)]
					sr += float64(r>>8) * w
					sg += float64(g>>8) * w
					sb += float64(bl>>8) * w
				}
			}
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			dst.SetNRGBA(x, y, color.NRGBA{
				R: clamp8(sr), G: clamp8(sg), B: clamp8(sb), A: uint8(a >> 8),
			})
		}
	}
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
