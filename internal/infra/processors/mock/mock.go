// Package mock fabricates plausible responses for tools that are
// listed in the catalog but have no real processor yet. Nothing is
// written to disk; results carry the demo marker so callers can tell.
package mock

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
)

type Fallback struct{}

func New() *Fallback {
	return &Fallback{}
}

// Execute fabricates a success for the given slug: the message is the
// slug title-cased, the file descriptor points at a download that was
// never staged, its extension guessed from the slug, and the
// processing time is synthetic.
func (f *Fallback) Execute(_ context.Context, slug string, _ []domain.Upload, _ domain.Options) (*domain.Result, error) {
	elapsed := 500 + rand.Intn(2500)
	name := fmt.Sprintf("%s-%d%s", slug, time.Now().UnixMilli(), guessExt(slug))
	return &domain.Result{
		Success:        true,
		Message:        fmt.Sprintf("%s completed successfully", titleFromSlug(slug)),
		Demo:           true,
		ProcessingTime: int64(elapsed),
		Files: []domain.OutputFile{{
			Filename:    name,
			DownloadURL: "/api/download/" + name,
		}},
		Data: map[string]any{
			"note": "demo response; this tool is not wired to a processor yet",
		},
	}, nil
}

// Operation binds the fallback to a slug so it satisfies the same
// interface as a real processor.
func (f *Fallback) Operation(slug string) domain.Operation {
	return domain.OperationFunc(func(ctx context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
		return f.Execute(ctx, slug, files, opts)
	})
}

func titleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func guessExt(slug string) string {
	switch {
	case strings.Contains(slug, "pdf"):
		return ".pdf"
	case strings.Contains(slug, "image"), strings.Contains(slug, "qr"), strings.Contains(slug, "barcode"):
		return ".png"
	case strings.Contains(slug, "audio"):
		return ".mp3"
	case strings.Contains(slug, "video"), strings.Contains(slug, "gif"):
		return ".mp4"
	default:
		return ".zip"
	}
}
