package bootstrap

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/gin-gonic/gin"

	"cargo-backend/internal/conversions"
	"cargo-backend/internal/convert"
	"cargo-backend/internal/parsing"
	"cargo-backend/internal/queue"
	"cargo-backend/internal/shared/config"
	"cargo-backend/internal/shared/server"
	"cargo-backend/internal/shared/server/middleware"
	"cargo-backend/internal/shared/storage/object"
	gcsstore "cargo-backend/internal/shared/storage/object/gcs"
	localstore "cargo-backend/internal/shared/storage/object/local"
	s3store "cargo-backend/internal/shared/storage/object/s3"
	"cargo-backend/internal/shared/telemetry"
	"cargo-backend/internal/sovren"
	"cargo-backend/internal/staging"
	"cargo-backend/internal/uploads"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	Store   object.Gateway
	Staging *staging.Area
	Queue   queue.Client

	ConversionService *conversions.Service
	ParsingService    *parsing.Service
	UploadService     *uploads.Service
}

// Build wires storage, the external tools, the parser client and the HTTP routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "s3"
	}
	ctx := context.Background()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Store:   store,
		Staging: staging.New(cfg.StagingDir),
		Queue:   queueClient,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		ConversionHandler: conversions.NewHandler(app.ConversionService),
		ParsingHandler:    parsing.NewHandler(app.ParsingService),
		UploadHandler:     uploads.NewHandler(app.UploadService, cfg.MaxUploadMB<<20),
		RateLimiter:       middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"object_store": cfg.ObjectStoreType,
		"bucket":       cfg.Bucket,
		"queue":        queueClient != nil,
	})
	return app, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Gateway, error) {
	switch cfg.ObjectStoreType {
	case "local":
		return localstore.New(cfg.LocalStoreDir), nil
	case "gcs":
		store, err := gcsstore.New(ctx, cfg.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("gcs store: %w", err)
		}
		return store, nil
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, fmt.Errorf("s3 store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown OBJECT_STORE %q", cfg.ObjectStoreType)
	}
}

// buildQueue returns nil when no queue is configured; completions are then not announced.
func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if cfg.QueueURL == "" {
		return nil, nil
	}
	client, err := queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.QueueURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func buildServices(app *App) {
	cfg := app.Config

	app.ConversionService = &conversions.Service{
		Store:     app.Store,
		Staging:   app.Staging,
		Office:    convert.NewSoffice(convert.SofficePath(cfg.SofficePath, cfg.IsProductionLike(), runtime.GOOS), nil),
		Renderer:  convert.NewPdf2HTML(cfg.Pdf2HTMLPath, cfg.HTMLZoom, nil),
		Inspector: convert.PageCounter{},
		Queue:     app.Queue,
		Bucket:    cfg.Bucket,
	}

	app.ParsingService = &parsing.Service{
		Store:   app.Store,
		Staging: app.Staging,
		Parser: sovren.NewClient(sovren.Options{
			Endpoint:   cfg.SovrenEndpoint,
			AccountID:  cfg.SovrenAccountID,
			ServiceKey: cfg.SovrenServiceKey,
			Timeout:    cfg.SovrenTimeout,
		}),
		Bucket: cfg.Bucket,
	}

	app.UploadService = &uploads.Service{
		Store:   app.Store,
		Staging: app.Staging,
		Bucket:  cfg.Bucket,
	}
}
