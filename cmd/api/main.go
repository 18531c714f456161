package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/toolverse-app/toolverse/internal/application"
	"github.com/toolverse-app/toolverse/internal/application/process"
	"github.com/toolverse-app/toolverse/internal/config"
	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
	mysqlp "github.com/toolverse-app/toolverse/internal/infra/db/mysql"
	postgresp "github.com/toolverse-app/toolverse/internal/infra/db/postgres"
	"github.com/toolverse-app/toolverse/internal/infra/httpserver"
	"github.com/toolverse-app/toolverse/internal/infra/memstore"
	"github.com/toolverse-app/toolverse/internal/infra/processors/govt"
	imageproc "github.com/toolverse-app/toolverse/internal/infra/processors/image"
	"github.com/toolverse-app/toolverse/internal/infra/processors/media"
	"github.com/toolverse-app/toolverse/internal/infra/processors/mock"
	pdfproc "github.com/toolverse-app/toolverse/internal/infra/processors/pdf"
	"github.com/toolverse-app/toolverse/internal/infra/storage"
	"github.com/toolverse-app/toolverse/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	if err := os.MkdirAll(cfg.Dirs.Uploads, 0o755); err != nil {
		log.Fatalf("uploads dir error: %v", err)
	}
	store, err := storage.NewLocal(cfg.Dirs.Downloads)
	if err != nil {
		log.Fatalf("downloads dir error: %v", err)
	}

	// usage sink: database when configured, in-memory otherwise
	var usage domain.UsageSink
	var db *sql.DB
	switch driver, dsn := cfg.DatabaseDSN(); driver {
	case "mysql":
		db, err = mysqlp.Connect(ctx, dsn)
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		usage = mysqlp.NewUsageRepository(db)
	case "postgres":
		db, err = postgresp.Connect(ctx, dsn)
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		usage = postgresp.NewUsageRepository(db)
	default:
		log.Printf("no database configured, usage log kept in memory")
		usage = memstore.NewUsageLog()
	}

	catalog := domain.NewStaticCatalog()
	registry, ffmpegOK := buildRegistry(store, cfg)

	svc := &process.Service{
		Catalog:  catalog,
		Registry: registry,
		Store:    store,
		Usage:    usage,
		Clock:    application.SystemClock{},
	}

	// optional object-store mirror for staged artifacts
	if cfg.Minio.Enabled {
		mirror, err := storage.NewMinioMirror(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		svc.Mirror = mirror
	}

	checks := map[string]middleware.Checker{
		"uploads":   &middleware.DirChecker{Path: cfg.Dirs.Uploads},
		"downloads": &middleware.DirChecker{Path: store.Dir()},
	}
	if db != nil {
		checks["database"] = &middleware.DatabaseChecker{DB: db}
	}
	if ffmpegOK {
		checks["ffmpeg"] = &middleware.BinaryChecker{Name: cfg.FFmpeg.Binary}
	}
	health := middleware.NewHealthChecker(checks)
	metrics := middleware.NewMetrics()

	handler := httpserver.NewRouter(svc, catalog, store, health, metrics, httpserver.Options{
		UploadsDir:     cfg.Dirs.Uploads,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		MaxFiles:       cfg.Limits.MaxFiles,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Minute,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// buildRegistry wires every implemented slug to its operation. Catalog
// slugs missing here fall through to the mock responder.
func buildRegistry(store domain.ArtifactStore, cfg *config.Config) (*domain.Registry, bool) {
	fallback := mock.New()
	reg := domain.NewRegistry(fallback.Operation)

	pdf := pdfproc.New(store)
	reg.Register("pdf-merge", domain.OperationFunc(pdf.Merge))
	reg.Register("pdf-split", domain.OperationFunc(pdf.Split))
	reg.Register("pdf-compress", domain.OperationFunc(pdf.Compress))
	reg.Register("pdf-password-protect", domain.OperationFunc(pdf.Protect))
	reg.Register("pdf-watermark", domain.OperationFunc(pdf.Watermark))
	reg.Register("pdf-page-rotate", domain.OperationFunc(pdf.Rotate))
	reg.Register("pdf-page-delete", domain.OperationFunc(pdf.DeletePages))
	reg.Register("pdf-ocr", domain.OperationFunc(pdf.ExtractText))

	img := imageproc.New(store)
	reg.Register("image-resize", domain.OperationFunc(img.Resize))
	reg.Register("image-compress", domain.OperationFunc(img.Compress))
	reg.Register("image-crop", domain.OperationFunc(img.Crop))
	reg.Register("image-format-convert", domain.OperationFunc(img.Convert))
	reg.Register("background-remove", domain.OperationFunc(img.RemoveBackground))
	reg.Register("image-filters", domain.OperationFunc(img.ApplyFilter))
	reg.Register("image-watermark", domain.OperationFunc(img.Watermark))
	reg.Register("image-rotate", domain.OperationFunc(img.Rotate))
	reg.Register("image-flip", domain.OperationFunc(img.Flip))
	reg.Register("image-blur", domain.OperationFunc(img.Blur))
	reg.Register("image-sharpen", domain.OperationFunc(img.Sharpen))
	reg.Register("image-grayscale", fixedFilter(img, "grayscale"))
	reg.Register("image-sepia", fixedFilter(img, "sepia"))

	gov := govt.New(store)
	reg.Register("pan-validation", domain.OperationFunc(gov.ValidatePAN))
	reg.Register("gst-calculator", domain.OperationFunc(gov.CalculateGST))
	reg.Register("income-tax-calculator", domain.OperationFunc(gov.CalculateIncomeTax))
	reg.Register("epf-calculator", domain.OperationFunc(gov.CalculateEPF))
	reg.Register("emi-calculator", domain.OperationFunc(gov.CalculateEMI))
	reg.Register("sip-calculator", domain.OperationFunc(gov.CalculateSIP))
	reg.Register("ifsc-code-finder", domain.OperationFunc(gov.FindIFSC))
	reg.Register("aadhaar-mask", domain.OperationFunc(gov.MaskAadhaar))
	reg.Register("passport-photo", domain.OperationFunc(gov.PassportPhoto))
	reg.Register("digital-signature", domain.OperationFunc(gov.SignDocument))
	reg.Register("voter-id-verification", domain.OperationFunc(gov.VerifyDocument))

	// media tools need ffmpeg; without it they fall back to the mock
	runner, err := media.NewRunner(cfg.FFmpeg.Binary, cfg.FFmpegTimeout())
	if err != nil {
		log.Printf("ffmpeg unavailable, media tools respond in demo mode: %v", err)
		return reg, false
	}
	med := media.NewProcessor(store, runner)
	reg.Register("audio-convert", domain.OperationFunc(med.ConvertAudio))
	reg.Register("video-convert", domain.OperationFunc(med.ConvertVideo))
	reg.Register("audio-extract", domain.OperationFunc(med.ExtractAudio))
	reg.Register("video-trim", domain.OperationFunc(med.Trim))
	reg.Register("audio-trim", domain.OperationFunc(med.Trim))
	reg.Register("audio-merge", domain.OperationFunc(med.MergeAudio))
	reg.Register("video-merge", domain.OperationFunc(med.MergeVideo))
	reg.Register("video-compress", domain.OperationFunc(med.CompressVideo))
	reg.Register("audio-compress", domain.OperationFunc(med.CompressAudio))
	reg.Register("volume-boost", domain.OperationFunc(med.BoostVolume))
	reg.Register("audio-speed-change", domain.OperationFunc(med.ChangeAudioSpeed))
	reg.Register("video-speed-change", domain.OperationFunc(med.ChangeVideoSpeed))
	reg.Register("video-resize", domain.OperationFunc(med.ResizeVideo))
	reg.Register("gif-maker", domain.OperationFunc(med.MakeGIF))

	return reg, true
}

// fixedFilter pins the filter option so the single-purpose slugs reuse
// the filter pipeline.
func fixedFilter(img *imageproc.Processor, name string) domain.Operation {
	return domain.OperationFunc(func(ctx context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
		pinned := domain.Options{}
		for k, v := range opts {
			pinned[k] = v
		}
		pinned["filter"] = name
		return img.ApplyFilter(ctx, files, pinned)
	})
}
