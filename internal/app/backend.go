package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/config"
	"github.com/kailas-cloud/placebook/internal/db"
	dbRedis "github.com/kailas-cloud/placebook/internal/db/redis"
	dbValkey "github.com/kailas-cloud/placebook/internal/db/valkey"
	documentrepo "github.com/kailas-cloud/placebook/internal/repository/document"
	"github.com/kailas-cloud/placebook/internal/repository/memory"
	"github.com/kailas-cloud/placebook/internal/repository/mongodoc"
	"github.com/kailas-cloud/placebook/internal/usecase/entity"
)

// Backend is an opened document store.
type Backend struct {
	Repo entity.Repository
	// Pinger pings the store for the health endpoint.
	Pinger interface {
		Ping(ctx context.Context) error
	}
	// KV is set for Redis-like drivers and backs the tag cache and budget counters.
	KV    KVStore
	close func()
}

// KVStore is the key-value surface of Redis-like drivers.
type KVStore interface {
	db.KVStore
	db.Counter
}

// Close releases the store connection.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// OpenBackend connects to the configured driver and waits until it answers.
func OpenBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Backend, error) {
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second

	switch cfg.Database.Driver {
	case config.DriverRedis, config.DriverValkey:
		store, err := openRedisLike(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Database.Driver, err)
		}
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, fmt.Errorf("database not ready: %w", err)
		}
		logger.Info("Connected to database",
			zap.String("driver", cfg.Database.Driver),
			zap.Strings("addrs", cfg.Database.Addrs),
		)
		repo := documentrepo.New(store, cfg.Storage.KeyPrefix).WithPageSize(cfg.Storage.PageSize)
		return &Backend{Repo: repo, Pinger: store, KV: store, close: store.Close}, nil

	case config.DriverMongo:
		client, err := mongodoc.Connect(ctx, mongodoc.Config{
			URI:      cfg.Database.URI,
			Database: cfg.Database.Name,
			Timeout:  readiness,
		})
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		logger.Info("Connected to database",
			zap.String("driver", cfg.Database.Driver),
			zap.String("database", cfg.Database.Name),
		)
		closeFn := func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), readiness)
			defer cancel()
			if err := client.Close(shutdownCtx); err != nil {
				logger.Warn("Failed to close mongo client", zap.Error(err))
			}
		}
		return &Backend{Repo: mongodoc.New(client.Database()), Pinger: client, close: closeFn}, nil

	case config.DriverMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		repo := memory.New()
		return &Backend{Repo: repo, Pinger: repo}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func openRedisLike(cfg config.DatabaseConfig) (db.Store, error) {
	conn := dbRedis.Config{Addrs: cfg.Addrs, Password: cfg.Password}
	if cfg.Driver == config.DriverValkey {
		return dbValkey.NewStore(conn)
	}
	return dbRedis.NewStore(conn)
}
