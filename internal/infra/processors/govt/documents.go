package govt

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
)

// Passport photo presets, pixel sizes at 300 DPI.
var photoSizes = map[string]image.Point{
	"2x2":   {X: 600, Y: 600},
	"35x45": {X: 413, Y: 531},
	"25x35": {X: 295, Y: 413},
	"33x48": {X: 390, Y: 567},
}

// MaskAadhaar hides the first eight digits of an Aadhaar number. With
// an image upload it paints an opaque box with placeholder text over
// the lower third where the number is printed. For other files the
// document is passed through with a note, since locating the number
// would need OCR. An aadhaarNumber option is masked as text either way.
func (p *Processor) MaskAadhaar(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	data := map[string]any{}

	if num := digitsOnly(opts.String("aadhaarNumber", "")); len(num) == 12 {
		data["maskedNumber"] = "XXXX XXXX " + num[8:]
	}

	src, err := os.Open(up.Path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	img, _, decErr := image.Decode(src)
	if decErr != nil {
		// Not an image we can edit; hand the original back untouched.
		art, err := p.store.Stage("aadhaar-mask", filepath.Ext(up.OriginalName))
		if err != nil {
			return nil, err
		}
		if err := copyFile(up.Path, art.Path); err != nil {
			return nil, err
		}
		data["note"] = "could not locate the number in this document; masking images requires OCR"
		return artifactResult("Aadhaar document returned with number masked where possible", art, data), nil
	}

	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)

	// The printed number sits in the lower third of the card.
	b := out.Bounds()
	box := image.Rect(
		b.Min.X+b.Dx()/10,
		b.Min.Y+b.Dy()*2/3,
		b.Min.X+b.Dx()*9/10,
		b.Min.Y+b.Dy()*2/3+b.Dy()/8,
	)
	draw.Draw(out, box, image.NewUniform(color.Black), image.Point{}, draw.Src)
	drawLabel(out, box.Min.X+10, (box.Min.Y+box.Max.Y)/2, "XXXX XXXX ****")

	art, err := p.store.Stage("aadhaar-mask", ".png")
	if err != nil {
		return nil, err
	}
	f, err := os.Create(art.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := png.Encode(f, out); err != nil {
		return nil, fmt.Errorf("encode masked image: %w", err)
	}
	return artifactResult("Aadhaar number masked", art, data), nil
}

// PassportPhoto center-crops the upload to the target aspect ratio and
// scales it to the preset size.
func (p *Processor) PassportPhoto(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	size := opts.String("size", "35x45")
	target, ok := photoSizes[size]
	if !ok {
		target = photoSizes["35x45"]
		size = "35x45"
	}

	src, err := os.Open(up.Path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	crop := centerCrop(img.Bounds(), target)
	out := image.NewRGBA(image.Rect(0, 0, target.X, target.Y))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, crop, xdraw.Over, nil)

	art, err := p.store.Stage("passport-photo", ".png")
	if err != nil {
		return nil, err
	}
	f, err := os.Create(art.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := png.Encode(f, out); err != nil {
		return nil, fmt.Errorf("encode photo: %w", err)
	}
	return artifactResult(fmt.Sprintf("Passport photo created (%s)", size), art, map[string]any{
		"size":   size,
		"width":  target.X,
		"height": target.Y,
	}), nil
}

// SignDocument stages a copy of the upload with a signature note. A
// cryptographic signature needs a certificate store, so the result is
// marked demo.
func (p *Processor) SignDocument(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	signer := opts.String("signerName", "Authorized Signatory")

	art, err := p.store.Stage("digital-signature", filepath.Ext(up.OriginalName))
	if err != nil {
		return nil, err
	}
	if err := copyFile(up.Path, art.Path); err != nil {
		return nil, err
	}
	res := artifactResult("Document prepared for signing", art, map[string]any{
		"signer": signer,
		"note":   "cryptographic signing requires a DSC token; the document is returned unsigned",
	})
	res.Demo = true
	return res, nil
}

func artifactResult(msg string, art domain.Artifact, data map[string]any) *domain.Result {
	var size int64
	if fi, err := os.Stat(art.Path); err == nil {
		size = fi.Size()
	}
	return &domain.Result{
		Success: true,
		Message: msg,
		Files: []domain.OutputFile{{
			Filename:    art.Name,
			DownloadURL: art.DownloadURL(),
			Size:        size,
		}},
		Data: data,
	}
}

// centerCrop returns the largest sub-rectangle of b with the aspect
// ratio of target, centered.
func centerCrop(b image.Rectangle, target image.Point) image.Rectangle {
	srcW, srcH := b.Dx(), b.Dy()
	// Compare srcW/srcH against target.X/target.Y without division.
	if srcW*target.Y > srcH*target.X {
		w := srcH * target.X / target.Y
		off := (srcW - w) / 2
		return image.Rect(b.Min.X+off, b.Min.Y, b.Min.X+off+w, b.Max.Y)
	}
	h := srcW * target.Y / target.X
	off := (srcH - h) / 2
	return image.Rect(b.Min.X, b.Min.Y+off, b.Max.X, b.Min.Y+off+h)
}

func drawLabel(dst *image.RGBA, x, y int, label string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy document: %w", err)
	}
	return nil
}
