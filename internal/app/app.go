package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/config"
	"github.com/kailas-cloud/placebook/internal/metrics"
	"github.com/kailas-cloud/placebook/internal/storage/s3"
	chiTransport "github.com/kailas-cloud/placebook/internal/transport/chi"
	healthuc "github.com/kailas-cloud/placebook/internal/usecase/health"
	searchuc "github.com/kailas-cloud/placebook/internal/usecase/search"
	usageuc "github.com/kailas-cloud/placebook/internal/usecase/usage"
)

// App is the assembled service.
type App struct {
	Services *Services
	Search   *searchuc.Service // nil when no tag provider is configured
	Usage    *usageuc.Service  // nil when no tag provider is configured
	Health   *healthuc.Service
	Server   *chiTransport.Server

	backend *Backend
	logger  *zap.Logger
}

// New builds the application from configuration.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	backend, err := OpenBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a, err := Assemble(ctx, cfg, backend, logger)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return a, nil
}

// Assemble wires services and transport over an opened backend.
func Assemble(ctx context.Context, cfg config.Config, backend *Backend, logger *zap.Logger) (*App, error) {
	metrics.RegisterTaggingMetrics()

	svcs := NewServices(backend.Repo)

	var (
		search  *searchuc.Service
		usage   *usageuc.Service
		checker healthuc.TaggingChecker
	)
	if chain := BuildTagger(ctx, cfg, backend.KV, logger); chain != nil {
		search = searchuc.New(chain.Generator, svcs.Places, svcs.Prompts, logger)
		usage = usageuc.New(chain.Budget, chain.Counters, svcs.Prompts)
		checker = chain.Provider
		logger.Info("Tag search enabled",
			zap.String("provider", cfg.AI.Provider),
			zap.String("model", cfg.AI.Model),
			zap.Bool("cache", cfg.TagCache.Enabled && backend.KV != nil),
			zap.Bool("budget", cfg.AI.Budget.Enabled()),
		)
	} else {
		logger.Info("Tag search disabled: no ai.api_key configured")
	}

	health := healthuc.New(backend.Pinger, checker)

	opts := chiTransport.Options{
		Logger:             logger,
		Health:             health,
		APIKeys:            cfg.Auth.APIKeys,
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
		MaxMultipartMemory: int64(cfg.Attachments.MaxMemoryMB) << 20,
	}
	if search != nil {
		opts.Search = search
		opts.Usage = usage
	}
	if cfg.Attachments.Enabled {
		uploader, err := s3.New(ctx, s3.Config{
			Bucket:    cfg.Attachments.Bucket,
			Region:    cfg.Attachments.Region,
			Endpoint:  cfg.Attachments.Endpoint,
			Prefix:    cfg.Attachments.Prefix,
			PublicURL: cfg.Attachments.PublicURL,
			AccessKey: cfg.Attachments.AccessKey,
			SecretKey: cfg.Attachments.SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create attachment store: %w", err)
		}
		opts.Uploader = uploader
		logger.Info("Attachments enabled", zap.String("bucket", cfg.Attachments.Bucket))
	}

	return &App{
		Services: svcs,
		Search:   search,
		Usage:    usage,
		Health:   health,
		Server:   chiTransport.NewServer(opts, svcs.Resources()...),
		backend:  backend,
		logger:   logger,
	}, nil
}

// EnsureIndexes prepares the store for tag queries.
func (a *App) EnsureIndexes(ctx context.Context) error {
	if err := a.Services.EnsureIndexes(ctx); err != nil {
		return err
	}
	a.logger.Info("Indexes ready")
	return nil
}

// Handler returns the HTTP handler with the full middleware chain.
func (a *App) Handler() http.Handler { return a.Server.Handler() }

// Close releases the backend.
func (a *App) Close() { a.backend.Close() }
