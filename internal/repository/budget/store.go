// Package budget persists tagging token counters in a Redis-like store.
package budget

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/placebook/internal/db"
)

// store is the consumer interface for budget counters (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error)
}

// Budget periods.
const (
	Daily   = "daily"
	Monthly = "monthly"
)

// Store keeps one counter per provider and period window.
// Keys: {prefix}budget:{provider}:daily:2006-01-02 and {prefix}budget:{provider}:monthly:2006-01.
type Store struct {
	store     store
	keyPrefix string
	dailyTTL  time.Duration
	monthTTL  time.Duration
}

// New creates a budget store.
// Keys expire after dailyTTL (recommended: 48h) or monthTTL (recommended: 62 days).
func New(s store, keyPrefix string, dailyTTL, monthTTL time.Duration) *Store {
	return &Store{
		store:     s,
		keyPrefix: keyPrefix + "budget:",
		dailyTTL:  dailyTTL,
		monthTTL:  monthTTL,
	}
}

// Add records tokens for the window containing t.
func (s *Store) Add(ctx context.Context, provider, period string, t time.Time, tokens int64) error {
	key := s.Key(provider, period, t)
	if _, err := s.store.IncrBy(ctx, key, tokens, s.ttl(period)); err != nil {
		return fmt.Errorf("budget add %s: %w", key, err)
	}
	return nil
}

// Load returns the tokens recorded for the window containing t. A missing key counts as 0.
func (s *Store) Load(ctx context.Context, provider, period string, t time.Time) (int64, error) {
	key := s.Key(provider, period, t)
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("budget load %s: %w", key, err)
	}

	val, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("budget load %s: parse: %w", key, err)
	}
	return val, nil
}

// Key returns the counter key for the window containing t.
func (s *Store) Key(provider, period string, t time.Time) string {
	t = t.UTC()
	window := t.Format("2006-01")
	if period == Daily {
		window = t.Format("2006-01-02")
	}
	return fmt.Sprintf("%s%s:%s:%s", s.keyPrefix, provider, period, window)
}

func (s *Store) ttl(period string) time.Duration {
	if period == Daily {
		return s.dailyTTL
	}
	return s.monthTTL
}
