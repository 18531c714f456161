// Package pdf implements the PDF tools on top of pdfcpu.
package pdf

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
)

type Processor struct {
	store domain.ArtifactStore
	conf  *model.Configuration
}

func New(store domain.ArtifactStore) *Processor {
	conf := model.NewDefaultConfiguration()
	// Uploads come from arbitrary producers; strict validation rejects
	// too many real-world files.
	conf.ValidationMode = model.ValidationRelaxed
	return &Processor{store: store, conf: conf}
}

// Merge concatenates the uploads in request order into one PDF.
func (p *Processor) Merge(_ context.Context, files []domain.Upload, _ domain.Options) (*domain.Result, error) {
	if len(files) < 2 {
		return nil, fmt.Errorf("merge needs at least two files: %w", domain.ErrUnsupported)
	}

	in := make([]string, len(files))
	for i, f := range files {
		in[i] = f.Path
	}

	art, err := p.store.Stage("pdf-merge", ".pdf")
	if err != nil {
		return nil, err
	}
	if err := api.MergeCreateFile(in, art.Path, false, p.conf); err != nil {
		return nil, fmt.Errorf("merge pdfs: %w", err)
	}

	pages, _ := api.PageCountFile(art.Path)
	return p.fileResult(fmt.Sprintf("Merged %d PDFs", len(files)), art, map[string]any{
		"pageCount": pages,
	}), nil
}

// Split writes one PDF per page and returns them bundled in a zip.
func (p *Processor) Split(_ context.Context, files []domain.Upload, _ domain.Options) (*domain.Result, error) {
	up := files[0]

	workDir, err := os.MkdirTemp("", "pdf-split-")
	if err != nil {
		return nil, fmt.Errorf("create split dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	if err := api.SplitFile(up.Path, workDir, 1, p.conf); err != nil {
		return nil, fmt.Errorf("split pdf: %w", err)
	}

	entries, err := os.ReadDir(workDir)
	if err != nil {
		return nil, fmt.Errorf("read split dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".pdf") {
			names = append(names, e.Name())
		}
	}
	sortPages(names)

	art, err := p.store.Stage("pdf-split", ".zip")
	if err != nil {
		return nil, err
	}
	if err := zipFiles(art.Path, workDir, names); err != nil {
		return nil, err
	}
	return p.fileResult(fmt.Sprintf("Split into %d pages", len(names)), art, map[string]any{
		"pageCount": len(names),
	}), nil
}

// Compress rewrites the PDF through pdfcpu's optimizer. Optimization
// can grow small files; the reported saving may be negative.
func (p *Processor) Compress(_ context.Context, files []domain.Upload, _ domain.Options) (*domain.Result, error) {
	up := files[0]

	art, err := p.store.Stage("pdf-compress", ".pdf")
	if err != nil {
		return nil, err
	}
	if err := api.OptimizeFile(up.Path, art.Path, p.conf); err != nil {
		return nil, fmt.Errorf("optimize pdf: %w", err)
	}

	before := up.Size
	var after int64
	if fi, err := os.Stat(art.Path); err == nil {
		after = fi.Size()
	}
	var saved float64
	if before > 0 {
		saved = float64(before-after) / float64(before) * 100
	}
	return p.fileResult("PDF compressed", art, map[string]any{
		"originalSize":   before,
		"compressedSize": after,
		"savedPercent":   fmt.Sprintf("%.1f", saved),
	}), nil
}

// Protect re-serializes the document and notes the requested password.
// Real encryption needs key handling the service does not carry yet,
// so the result is marked demo.
func (p *Processor) Protect(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]

	art, err := p.store.Stage("pdf-protect", ".pdf")
	if err != nil {
		return nil, err
	}
	if err := api.OptimizeFile(up.Path, art.Path, p.conf); err != nil {
		return nil, fmt.Errorf("rewrite pdf: %w", err)
	}

	res := p.fileResult("PDF prepared for protection", art, map[string]any{
		"passwordSet": opts.String("password", "") != "",
		"note":        "encryption is not applied; the document is returned re-serialized",
	})
	res.Demo = true
	return res, nil
}

// Watermark stamps a diagonal text watermark on every page.
func (p *Processor) Watermark(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	text := opts.String("watermarkText", "CONFIDENTIAL")

	art, err := p.store.Stage("pdf-watermark", ".pdf")
	if err != nil {
		return nil, err
	}
	desc := "font:Helvetica, points:48, op:0.3, rot:45"
	if err := api.AddTextWatermarksFile(up.Path, art.Path, nil, true, text, desc, p.conf); err != nil {
		return nil, fmt.Errorf("watermark pdf: %w", err)
	}
	return p.fileResult("Watermark added", art, map[string]any{
		"watermarkText": text,
	}), nil
}

// Rotate turns the selected pages by the requested multiple of 90
// degrees. An empty selection rotates every page.
func (p *Processor) Rotate(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	angle := opts.Int("angle", 90)
	if angle%90 != 0 {
		return nil, fmt.Errorf("rotation must be a multiple of 90: %w", domain.ErrUnsupported)
	}

	art, err := p.store.Stage("pdf-rotate", ".pdf")
	if err != nil {
		return nil, err
	}
	if err := api.RotateFile(up.Path, art.Path, angle, pageSelection(opts), p.conf); err != nil {
		return nil, fmt.Errorf("rotate pdf: %w", err)
	}
	return p.fileResult(fmt.Sprintf("Rotated %d degrees", angle), art, map[string]any{
		"angle": angle,
	}), nil
}

// DeletePages removes the selected pages.
func (p *Processor) DeletePages(_ context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	sel := pageSelection(opts)
	if len(sel) == 0 {
		return nil, fmt.Errorf("no pages selected: %w", domain.ErrUnsupported)
	}

	art, err := p.store.Stage("pdf-page-delete", ".pdf")
	if err != nil {
		return nil, err
	}
	if err := api.RemovePagesFile(up.Path, art.Path, sel, p.conf); err != nil {
		return nil, fmt.Errorf("remove pages: %w", err)
	}
	pages, _ := api.PageCountFile(art.Path)
	return p.fileResult("Pages removed", art, map[string]any{
		"remainingPages": pages,
	}), nil
}

// ExtractText stages a placeholder transcript. OCR needs an engine the
// service does not embed, so the result is marked demo.
func (p *Processor) ExtractText(_ context.Context, files []domain.Upload, _ domain.Options) (*domain.Result, error) {
	up := files[0]
	pages, err := api.PageCountFile(up.Path)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	art, err := p.store.Stage("pdf-ocr", ".txt")
	if err != nil {
		return nil, err
	}
	body := fmt.Sprintf("Document: %s\nPages: %d\n\nText extraction requires an OCR engine and is not performed.\n", up.OriginalName, pages)
	if err := os.WriteFile(art.Path, []byte(body), 0o644); err != nil {
		return nil, fmt.Errorf("write transcript: %w", err)
	}
	res := p.fileResult("Transcript staged", art, map[string]any{
		"pageCount": pages,
	})
	res.Demo = true
	return res, nil
}

func (p *Processor) fileResult(msg string, art domain.Artifact, data map[string]any) *domain.Result {
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

// pageSelection turns a "1,3-5" pages option into pdfcpu's selected
// pages form.
func pageSelection(opts domain.Options) []string {
	raw := strings.TrimSpace(opts.String("pages", ""))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func zipFiles(zipPath, dir string, names []string) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range names {
		src, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("open page: %w", err)
		}
		w, err := zw.Create(name)
		if err != nil {
			src.Close()
			return fmt.Errorf("add zip entry: %w", err)
		}
		if _, err := io.Copy(w, src); err != nil {
			src.Close()
			return fmt.Errorf("write zip entry: %w", err)
		}
		src.Close()
	}
	return zw.Close()
}

// sortPages orders pdfcpu's split output (name_1.pdf, name_2.pdf, ...)
// by page number, so name_10.pdf sorts after name_2.pdf.
func sortPages(names []string) {
	sort.Slice(names, func(i, j int) bool {
		a, b := pageNum(names[i]), pageNum(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
}

func pageNum(name string) int {
	base := strings.TrimSuffix(name, ".pdf")
	i := strings.LastIndex(base, "_")
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(base[i+1:])
	if err != nil {
		return 0
	}
	return n
}
