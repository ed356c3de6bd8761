// Package db defines the storage facade used by the Redis-backed repositories.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces.
type Store interface {
	Pinger
	JSONStore
	KVStore
	Counter
	KeyScanner
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// JSONStore provides JSON document operations.
type JSONStore interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	// JSONGetMulti fetches many documents in one round-trip.
	// Keys removed between listing and fetching are skipped.
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Counter provides expiring integer counters.
type Counter interface {
	// IncrBy adds val to key and returns the new value. ttl is applied only
	// when the key has no expiry yet, so repeated increments keep the first deadline.
	IncrBy(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error)
}

// KeyScanner iterates keys by glob pattern.
type KeyScanner interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides paged queries over FT indexes.
type Searcher interface {
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*SearchResult, error)
	// SearchCount returns the number of documents matching query.
	SearchCount(ctx context.Context, index, query string) (int, error)
}
