package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolverse-app/toolverse/internal/application"
	"github.com/toolverse-app/toolverse/internal/application/process"
	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
	"github.com/toolverse-app/toolverse/internal/infra/memstore"
	"github.com/toolverse-app/toolverse/internal/infra/processors/govt"
	"github.com/toolverse-app/toolverse/internal/infra/processors/mock"
	"github.com/toolverse-app/toolverse/internal/infra/storage"
	"github.com/toolverse-app/toolverse/internal/middleware"
)

func newTestServer(t *testing.T) (http.Handler, *storage.Local) {
	t.Helper()
	return newTestServerOpts(t, Options{
		MaxUploadBytes: 8 << 20,
		MaxFiles:       5,
		DeleteDelay:    10 * time.Millisecond,
	}, nil)
}

func newTestServerOpts(t *testing.T, opts Options, register func(*domain.Registry)) (http.Handler, *storage.Local) {
	t.Helper()

	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	reg := domain.NewRegistry(mock.New().Operation)
	gov := govt.New(store)
	reg.Register("pan-validation", domain.OperationFunc(gov.ValidatePAN))
	reg.Register("gst-calculator", domain.OperationFunc(gov.CalculateGST))
	if register != nil {
		register(reg)
	}

	catalog := domain.NewStaticCatalog()
	svc := &process.Service{
		Catalog:  catalog,
		Registry: reg,
		Store:    store,
		Usage:    memstore.NewUsageLog(),
		Clock:    application.SystemClock{},
	}

	health := middleware.NewHealthChecker(map[string]middleware.Checker{
		"downloads": &middleware.DirChecker{Path: store.Dir()},
	})
	if opts.UploadsDir == "" {
		opts.UploadsDir = t.TempDir()
	}
	handler := NewRouter(svc, catalog, store, health, middleware.NewMetrics(), opts)
	return handler, store
}

func multipartBody(t *testing.T, options string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if options != "" {
		require.NoError(t, w.WriteField("options", options))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestListTools(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/tools", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body["pdf"], 20)
	assert.Len(t, body["image"], 20)
	assert.Len(t, body["audio"], 20)
	assert.Len(t, body["government"], 20)
}

func TestGetToolDetail(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/tools/pan-validation", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pan-validation", body["slug"])
	assert.NotEmpty(t, body["icon"])
	assert.NotEmpty(t, body["features"])
	assert.NotEmpty(t, body["supportedFormats"])
}

func TestGetToolUnknownSlug(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/tools/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestProcessPANValidation(t *testing.T) {
	handler, _ := newTestServer(t)

	buf, ctype := multipartBody(t, `{"panNumber":"AAAPL1234C"}`, map[string][]byte{
		"pan.txt": []byte("ignored"),
	})
	req := httptest.NewRequest("POST", "/api/tools/pan-validation/process", buf)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, true, body.Data["isValid"])
	assert.Equal(t, "Individual", body.Data["type"])
}

func TestProcessMalformedOptionsIgnored(t *testing.T) {
	handler, _ := newTestServer(t)

	buf, ctype := multipartBody(t, `{not json`, map[string][]byte{
		"x.txt": []byte("x"),
	})
	req := httptest.NewRequest("POST", "/api/tools/gst-calculator/process", buf)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "0.00", body.Data["gstAmount"])
}

func TestProcessRequiresFiles(t *testing.T) {
	handler, _ := newTestServer(t)

	buf, ctype := multipartBody(t, `{"panNumber":"AAAPL1234C"}`, nil)
	req := httptest.NewRequest("POST", "/api/tools/pan-validation/process", buf)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no files uploaded", body["error"])
}

func TestProcessUnknownSlug(t *testing.T) {
	handler, _ := newTestServer(t)

	buf, ctype := multipartBody(t, "", map[string][]byte{"a.txt": []byte("a")})
	req := httptest.NewRequest("POST", "/api/tools/not-a-tool/process", buf)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProcessFallbackSlug(t *testing.T) {
	handler, _ := newTestServer(t)

	buf, ctype := multipartBody(t, "", map[string][]byte{"a.png": []byte("png")})
	req := httptest.NewRequest("POST", "/api/tools/meme-generator/process", buf)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool `json:"success"`
		Demo    bool `json:"demo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, body.Demo)
}

func TestDownloadOnce(t *testing.T) {
	handler, store := newTestServer(t)

	art, err := store.Stage("pdf-merge", ".pdf")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(art.Path, []byte("%PDF-1.4 content"), 0o644))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/download/"+art.Name, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	data, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 content", string(data))

	// Deleted shortly after the first download finishes.
	require.Eventually(t, func() bool {
		_, err := store.Resolve(art.Name)
		return err != nil
	}, time.Second, 10*time.Millisecond)

	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, httptest.NewRequest("GET", "/api/download/"+art.Name, nil))
	assert.Equal(t, http.StatusNotFound, rec2.Code)
}

func TestDownloadMissingFile(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/download/nope.pdf", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body middleware.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	handler, _ := newTestServer(t)

	// Generate one request first so counters are non-zero.
	rec0 := httptest.NewRecorder()
	handler.ServeHTTP(rec0, httptest.NewRequest("GET", "/api/tools", nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.GreaterOrEqual(t, body["requests_total"].(float64), float64(1))
}

func TestProcessFailureKeepsOperationMessage(t *testing.T) {
	handler, _ := newTestServerOpts(t, Options{
		MaxUploadBytes: 8 << 20,
		DeleteDelay:    10 * time.Millisecond,
	}, func(reg *domain.Registry) {
		reg.Register("pdf-merge", domain.OperationFunc(func(_ context.Context, _ []domain.Upload, _ domain.Options) (*domain.Result, error) {
			return nil, errors.New("merge pdf: document is encrypted")
		}))
	})

	body, ct := multipartBody(t, "", map[string][]byte{"a.pdf": []byte("x")})
	req := httptest.NewRequest("POST", "/api/tools/pdf-merge/process", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "merge pdf: document is encrypted", resp["error"])
}

func TestDefaultUploadLimitAcceptsBody(t *testing.T) {
	// Zero MaxUploadBytes falls back to the 500MB default instead of
	// rejecting every request body.
	handler, _ := newTestServerOpts(t, Options{DeleteDelay: 10 * time.Millisecond}, nil)

	body, ct := multipartBody(t, `{"panNumber":"AAAPL1234C"}`, map[string][]byte{"pan.txt": []byte("AAAPL1234C")})
	req := httptest.NewRequest("POST", "/api/tools/pan-validation/process", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSaveUploadsRemovesSpooledFilesOnFailure(t *testing.T) {
	dir := t.TempDir()
	r := &Router{opts: Options{UploadsDir: dir}}

	body, ct := multipartBody(t, "", map[string][]byte{"a.txt": []byte("hello")})
	_, params, err := mime.ParseMediaType(ct)
	require.NoError(t, err)
	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(32 << 20)
	require.NoError(t, err)
	defer form.RemoveAll()

	// A zero-value header has no backing file, so Open fails after the
	// first part has already been spooled.
	headers := append(form.File["files"], &multipart.FileHeader{Filename: "b.txt"})
	uploads, err := r.saveUploads(headers)
	require.Error(t, err)
	assert.Empty(t, uploads)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "spooled files should be unlinked on failure")
}
