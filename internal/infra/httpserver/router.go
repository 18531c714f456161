package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/toolverse-app/toolverse/internal/application/process"
	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
	"github.com/toolverse-app/toolverse/internal/middleware"
)

// Options tunes the HTTP surface.
type Options struct {
	UploadsDir     string
	MaxUploadBytes int64
	MaxFiles       int
	// DeleteDelay is how long after a download finishes the artifact
	// is removed. Injectable so tests do not sleep a full second.
	DeleteDelay time.Duration
}

type Router struct {
	svc     *process.Service
	catalog domain.Catalog
	store   domain.ArtifactStore
	opts    Options
}

func NewRouter(svc *process.Service, catalog domain.Catalog, store domain.ArtifactStore, health *middleware.HealthChecker, metrics *middleware.Metrics, opts Options) http.Handler {
	if opts.DeleteDelay <= 0 {
		opts.DeleteDelay = time.Second
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = 10
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 500 << 20
	}
	r := &Router{svc: svc, catalog: catalog, store: store, opts: opts}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Session-Id"},
	}))
	mux.Use(middleware.RequestLogger)
	mux.Use(metrics.Middleware)

	mux.Route("/api", func(rt chi.Router) {
		rt.Get("/health", health.Handler)
		rt.Get("/metrics", metrics.Handler)
		rt.Get("/tools", r.wrap(r.handleListTools))
		rt.Get("/tools/{slug}", r.wrap(r.handleGetTool))
		rt.Post("/tools/{slug}/process", r.wrap(r.handleProcess))
		rt.Get("/download/{filename}", r.wrap(r.handleDownload))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, domain.ErrToolNotFound), errors.Is(err, domain.ErrFileNotFound):
				writeError(w, http.StatusNotFound, err.Error())
			case errors.Is(err, domain.ErrNoFiles):
				writeError(w, http.StatusBadRequest, "no files uploaded")
			case errors.Is(err, domain.ErrUnsupported):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				// Clients render this message verbatim, so keep it.
				log.Printf("request failed method=%s path=%s err=%v", req.Method, req.URL.Path, err)
				writeError(w, http.StatusInternalServerError, err.Error())
			}
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   msg,
	})
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// GET /api/tools
func (r *Router) handleListTools(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, map[string][]domain.Tool{
		"pdf":        r.catalog.ByCategory(domain.CategoryPDF),
		"image":      r.catalog.ByCategory(domain.CategoryImage),
		"audio":      r.catalog.ByCategory(domain.CategoryAudio),
		"government": r.catalog.ByCategory(domain.CategoryGovernment),
	})
}

// GET /api/tools/{slug}
func (r *Router) handleGetTool(w http.ResponseWriter, req *http.Request) error {
	slug := chi.URLParam(req, "slug")
	tool, ok := r.catalog.BySlug(slug)
	if !ok {
		return domain.ErrToolNotFound
	}
	return writeJSON(w, map[string]any{
		"id":               tool.ID,
		"name":             tool.Name,
		"slug":             tool.Slug,
		"category":         tool.Category,
		"description":      tool.Description,
		"icon":             tool.Icon,
		"popular":          tool.Popular,
		"features":         domain.CategoryFeatures[tool.Category],
		"supportedFormats": domain.SupportedFormats[tool.Category],
	})
}

// POST /api/tools/{slug}/process
func (r *Router) handleProcess(w http.ResponseWriter, req *http.Request) error {
	slug := chi.URLParam(req, "slug")

	req.Body = http.MaxBytesReader(w, req.Body, r.opts.MaxUploadBytes)
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		return domain.ErrNoFiles
	}
	defer func() {
		_ = req.MultipartForm.RemoveAll()
	}()

	headers := req.MultipartForm.File["files"]
	if len(headers) > r.opts.MaxFiles {
		return fmt.Errorf("too many files (max %d): %w", r.opts.MaxFiles, domain.ErrUnsupported)
	}
	files, err := r.saveUploads(headers)
	if err != nil {
		return err
	}

	result, err := r.svc.Process(req.Context(), process.Request{
		Slug:      slug,
		SessionID: sessionID(req),
		Files:     files,
		RawOpts:   req.FormValue("options"),
	})
	if err != nil {
		return err
	}
	return writeJSON(w, result)
}

// GET /api/download/{filename}
func (r *Router) handleDownload(w http.ResponseWriter, req *http.Request) error {
	filename := chi.URLParam(req, "filename")
	path, err := r.store.Resolve(filename)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, req, path)

	// One-shot download: drop the artifact shortly after the response.
	store := r.store
	time.AfterFunc(r.opts.DeleteDelay, func() {
		if err := store.Remove(filename); err != nil {
			log.Printf("artifact cleanup failed file=%s err=%v", filename, err)
		}
	})
	return nil
}

// saveUploads spools the multipart parts into the uploads directory so
// processors work with real paths. On failure every file spooled so
// far is unlinked; the dispatch service only cleans up uploads it was
// actually handed.
func (r *Router) saveUploads(headers []*multipart.FileHeader) (uploads []domain.Upload, err error) {
	defer func() {
		if err != nil {
			for _, u := range uploads {
				_ = os.Remove(u.Path)
			}
			uploads = nil
		}
	}()

	for _, h := range headers {
		src, err := h.Open()
		if err != nil {
			return uploads, fmt.Errorf("open upload part: %w", err)
		}

		name := uuid.New().String() + filepath.Ext(h.Filename)
		path := filepath.Join(r.opts.UploadsDir, name)
		dst, err := os.Create(path)
		if err != nil {
			src.Close()
			return uploads, fmt.Errorf("spool upload: %w", err)
		}
		n, err := io.Copy(dst, src)
		src.Close()
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
			return uploads, fmt.Errorf("spool upload: %w", err)
		}

		uploads = append(uploads, domain.Upload{
			OriginalName: h.Filename,
			Path:         path,
			Size:         n,
			ContentType:  h.Header.Get("Content-Type"),
		})
	}
	return uploads, nil
}

func sessionID(req *http.Request) string {
	if id := req.Header.Get("X-Session-Id"); id != "" {
		return id
	}
	if id := req.FormValue("sessionId"); id != "" {
		return id
	}
	return uuid.New().String()
}
