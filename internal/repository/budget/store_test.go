package budget

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/placebook/internal/db"
)

type fakeStore struct {
	values map[string][]byte
	ttls   map[string]time.Duration
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.values[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) IncrBy(_ context.Context, key string, val int64, ttl time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	cur, _ := strconv.ParseInt(string(f.values[key]), 10, 64)
	cur += val
	f.values[key] = []byte(strconv.FormatInt(cur, 10))
	if _, ok := f.ttls[key]; !ok {
		f.ttls[key] = ttl
	}
	return cur, nil
}

var day = time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC)

func TestStore_Key(t *testing.T) {
	s := New(newFakeStore(), "placebook:", 48*time.Hour, 62*24*time.Hour)

	assert.Equal(t, "placebook:budget:openai:daily:2026-03-14", s.Key("openai", Daily, day))
	assert.Equal(t, "placebook:budget:openai:monthly:2026-03", s.Key("openai", Monthly, day))
}

func TestStore_AddAndLoad(t *testing.T) {
	fs := newFakeStore()
	s := New(fs, "pb:", 48*time.Hour, 62*24*time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "openai", Daily, day, 40))
	require.NoError(t, s.Add(ctx, "openai", Daily, day, 2))
	require.NoError(t, s.Add(ctx, "openai", Monthly, day, 42))

	got, err := s.Load(ctx, "openai", Daily, day)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	assert.Equal(t, 48*time.Hour, fs.ttls[s.Key("openai", Daily, day)])
	assert.Equal(t, 62*24*time.Hour, fs.ttls[s.Key("openai", Monthly, day)])
}

func TestStore_LoadMissingIsZero(t *testing.T) {
	s := New(newFakeStore(), "pb:", time.Hour, time.Hour)

	got, err := s.Load(context.Background(), "openai", Monthly, day)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestStore_Errors(t *testing.T) {
	fs := newFakeStore()
	fs.err = errors.New("connection refused")
	s := New(fs, "pb:", time.Hour, time.Hour)
	ctx := context.Background()

	assert.ErrorContains(t, s.Add(ctx, "openai", Daily, day, 1), "connection refused")
	_, err := s.Load(ctx, "openai", Daily, day)
	assert.ErrorContains(t, err, "connection refused")
}

func TestStore_LoadCorruptValue(t *testing.T) {
	fs := newFakeStore()
	s := New(fs, "pb:", time.Hour, time.Hour)
	fs.values[s.Key("openai", Daily, day)] = []byte("NaN")

	_, err := s.Load(context.Background(), "openai", Daily, day)
	assert.ErrorContains(t, err, "parse")
}
