// Package memory is an in-process document repository for the memory driver,
// the embedded SDK and tests. Nothing survives a restart.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Repo implements usecase/entity.Repository over a map per collection.
type Repo struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// New creates an empty repository.
func New() *Repo {
	return &Repo{data: make(map[string]map[string][]byte)}
}

func (r *Repo) Get(_ context.Context, collection, id string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	raw, ok := r.data[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", collection, id, domain.ErrNotFound)
	}
	return clone(raw), nil
}

// List returns the collection's documents ordered by id.
func (r *Repo) List(_ context.Context, collection string) ([][]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coll := r.data[collection]
	ids := make([]string, 0, len(coll))
	for id := range coll {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(coll[id]))
	}
	return out, nil
}

func (r *Repo) Save(_ context.Context, collection, id string, doc []byte) error {
	if !json.Valid(doc) {
		return fmt.Errorf("save %s %q: invalid JSON document", collection, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.data[collection] == nil {
		r.data[collection] = make(map[string][]byte)
	}
	r.data[collection][id] = clone(doc)
	return nil
}

func (r *Repo) Delete(_ context.Context, collection, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data[collection], id)
	return nil
}

func (r *Repo) Exists(_ context.Context, collection, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.data[collection][id]
	return ok, nil
}

// Count returns the number of documents in the collection.
func (r *Repo) Count(_ context.Context, collection, _ string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data[collection]), nil
}

// FindByTags scans the collection and keeps documents whose field shares a tag with tags.
func (r *Repo) FindByTags(ctx context.Context, collection, field string, tags []string) ([][]byte, error) {
	all, err := r.List(ctx, collection)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, 0)
	for _, raw := range all {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", collection, err)
		}
		var docTags []string
		if v, ok := doc[field]; ok {
			if err := json.Unmarshal(v, &docTags); err != nil {
				continue
			}
		}
		if domain.Intersects(docTags, tags) {
			out = append(out, raw)
		}
	}
	return out, nil
}

// EnsureIndex is a no-op; tag queries scan the collection.
func (r *Repo) EnsureIndex(_ context.Context, _, _ string) error {
	return nil
}

// Ping always succeeds.
func (r *Repo) Ping(_ context.Context) error {
	return nil
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
