package process

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/toolverse-app/toolverse/internal/application"
	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
)

// Mirror is an optional secondary store (object bucket) that receives a
// copy of every staged output file.
type Mirror interface {
	MirrorArtifact(ctx context.Context, localPath, key string) (string, error)
}

// Service implements the dispatch use-case: slug in, result out.
// Safe for concurrent use; all state is injected and read-only or
// internally synchronized.
type Service struct {
	Catalog  domain.Catalog
	Registry *domain.Registry
	Store    domain.ArtifactStore
	Usage    domain.UsageSink
	Clock    application.Clock
	Mirror   Mirror // nil when mirroring is disabled
}

// Request is one processing call.
type Request struct {
	Slug      string
	SessionID string
	Files     []domain.Upload
	RawOpts   string // options form field, parsed best-effort
}

// Process dispatches a request to the matching operation, records a
// usage entry, and removes the uploaded temp files regardless of
// outcome.
func (s *Service) Process(ctx context.Context, req Request) (*domain.Result, error) {
	// uploads are transient; unlink them whatever happens
	defer func() {
		for _, f := range req.Files {
			if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
				log.Printf("upload cleanup failed path=%s err=%v", f.Path, err)
			}
		}
	}()

	tool, known := s.Catalog.BySlug(req.Slug)
	if !known {
		return nil, domain.ErrToolNotFound
	}
	if len(req.Files) == 0 {
		return nil, domain.ErrNoFiles
	}

	opts := domain.ParseOptions(req.RawOpts)
	op, _ := s.Registry.Resolve(req.Slug)

	start := s.Clock.Now()
	result, err := op.Execute(ctx, req.Files, opts)
	elapsed := s.Clock.Now().Sub(start).Milliseconds()

	s.record(ctx, tool.ID, req.SessionID, elapsed, err == nil && result != nil && result.Success)

	if err != nil {
		return nil, err
	}
	if result.ProcessingTime == 0 {
		result.ProcessingTime = elapsed
	}
	if s.Mirror != nil && !result.Demo {
		s.mirrorFiles(tool.Slug, result.Files)
	}
	return result, nil
}

// record is best-effort: a failed usage write never fails the request.
func (s *Service) record(ctx context.Context, toolID int, sessionID string, elapsed int64, ok bool) {
	u := domain.Usage{
		ToolID:         toolID,
		SessionID:      sessionID,
		ProcessingTime: elapsed,
		Success:        ok,
		Timestamp:      s.Clock.Now(),
	}
	if err := s.Usage.Record(ctx, u); err != nil {
		log.Printf("usage record failed tool=%d err=%v", toolID, err)
	}
}

// mirrorFiles copies staged outputs to the bucket in the background.
// The local file stays in place for the download endpoint.
func (s *Service) mirrorFiles(slug string, files []domain.OutputFile) {
	for _, f := range files {
		localPath, err := s.Store.Resolve(f.Filename)
		if err != nil {
			continue
		}
		key := slug + "/" + f.Filename
		go func(path, key string) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if _, err := s.Mirror.MirrorArtifact(ctx, path, key); err != nil {
				log.Printf("artifact mirror failed key=%s err=%v", key, err)
			}
		}(localPath, key)
	}
}
