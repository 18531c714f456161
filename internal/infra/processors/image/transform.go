package image

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
)

// Rotate turns the image by an arbitrary angle in degrees, clockwise.
// Right angles stay pixel-exact; anything else goes through an affine
// transform into an enlarged canvas.
func (p *Processor) Rotate(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	angle := opts.Float("angle", 90)

	outs, err := p.mapUploads(files, "image-rotate", func(img image.Image) (image.Image, error) {
		var dst *image.RGBA
		switch normalized := math.Mod(math.Mod(angle, 360)+360, 360); normalized {
		case 0:
			dst = image.NewRGBA(img.Bounds())
			draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
		case 90, 180, 270:
			dst = rotateRight(img, int(normalized))
		default:
			dst = rotateArbitrary(img, normalized)
		}
		return dst, nil
	})
	if err != nil {
		return nil, err
	}
	return batchResult(fmt.Sprintf("Rotated %.0f degrees", angle), outs, map[string]any{
		"angle": angle,
	}), nil
}

// Flip mirrors the image horizontally or vertically.
func (p *Processor) Flip(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	direction := strings.ToLower(opts.String("direction", "horizontal"))
	if direction != "horizontal" && direction != "vertical" {
		return nil, fmt.Errorf("direction must be horizontal or vertical: %w", domain.ErrUnsupported)
	}

	outs, err := p.mapUploads(files, "image-flip", func(img image.Image) (image.Image, error) {
		b := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				sx, sy := x, y
				if direction == "horizontal" {
					sx = b.Dx() - 1 - x
				} else {
					sy = b.Dy() - 1 - y
				}
				dst.Set(x, y, img.At(b.Min.X+sx, b.Min.Y+sy))
			}
		}
		return dst, nil
	})
	if err != nil {
		return nil, err
	}
	return batchResult(fmt.Sprintf("Flipped %s", direction), outs, map[string]any{
		"direction": direction,
	}), nil
}

func rotateRight(img image.Image, angle int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	if angle == 180 {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			switch angle {
			case 90:
				dst.Set(h-1-y, x, c)
			case 180:
				dst.Set(w-1-x, h-1-y, c)
			case 270:
				dst.Set(y, w-1-x, c)
			}
		}
	}
	return dst
}

func rotateArbitrary(img image.Image, degrees float64) *image.RGBA {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)

	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	newW := math.Abs(w*cos) + math.Abs(h*sin)
	newH := math.Abs(w*sin) + math.Abs(h*cos)

	dst := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(newW)), int(math.Ceil(newH))))

	// Rotate about the source center, then translate to the new center.
	cx, cy := w/2, h/2
	ncx, ncy := newW/2, newH/2
	m := f64.Aff3{
		cos, -sin, ncx - cx*cos + cy*sin,
		sin, cos, ncy - cx*sin - cy*cos,
	}
	xdraw.CatmullRom.Transform(dst, m, img, b, xdraw.Over, nil)
	return dst
}
