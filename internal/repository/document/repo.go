// Package document stores resource documents as RedisJSON values and answers
// tag queries through a per-collection FT index.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/placebook/internal/db"
	"github.com/kailas-cloud/placebook/internal/domain"
)

const defaultPageSize = 200

// store is the consumer interface for documents (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements usecase/entity.Repository.
type Repo struct {
	store    store
	prefix   string
	pageSize int
}

// New creates a document repository. Every key is namespaced with keyPrefix.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix, pageSize: defaultPageSize}
}

// WithPageSize sets how many hits a single FT.SEARCH page fetches.
func (r *Repo) WithPageSize(n int) *Repo {
	if n > 0 {
		r.pageSize = n
	}
	return r
}

// Get returns the JSON document stored under id.
func (r *Repo) Get(ctx context.Context, collection, id string) ([]byte, error) {
	key := r.docKey(collection, id)
	raw, err := r.store.JSONGet(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%s %q: %w", collection, id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}
	return raw, nil
}

// List returns every document in the collection.
func (r *Repo) List(ctx context.Context, collection string) ([][]byte, error) {
	keys, err := r.store.Scan(ctx, r.keyPrefix(collection)+"*")
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", collection, err)
	}
	if len(keys) == 0 {
		return [][]byte{}, nil
	}

	docs, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("json.get %s: %w", collection, err)
	}
	return docs, nil
}

// Save writes doc under id, replacing any previous version.
func (r *Repo) Save(ctx context.Context, collection, id string, doc []byte) error {
	key := r.docKey(collection, id)
	if err := r.store.JSONSet(ctx, key, "$", doc); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Delete removes the document under id.
func (r *Repo) Delete(ctx context.Context, collection, id string) error {
	key := r.docKey(collection, id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Exists reports whether a document is stored under id.
func (r *Repo) Exists(ctx context.Context, collection, id string) (bool, error) {
	key := r.docKey(collection, id)
	ok, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}
	return ok, nil
}

// Count returns the number of documents in the collection. Indexed
// collections are counted by the FT index, the rest by a key scan.
func (r *Repo) Count(ctx context.Context, collection, tagField string) (int, error) {
	if tagField != "" {
		n, err := r.store.SearchCount(ctx, r.indexName(collection), "*")
		if err != nil {
			return 0, fmt.Errorf("count %s: %w", collection, err)
		}
		return n, nil
	}

	keys, err := r.store.Scan(ctx, r.keyPrefix(collection)+"*")
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", collection, err)
	}
	return len(keys), nil
}

// FindByTags returns documents whose field shares a tag with tags.
// Results are fetched page by page until the index reports no more hits.
func (r *Repo) FindByTags(ctx context.Context, collection, field string, tags []string) ([][]byte, error) {
	if len(tags) == 0 {
		return [][]byte{}, nil
	}

	index := r.indexName(collection)
	query := db.TagQuery(field, tags)

	docs := make([][]byte, 0)
	for offset := 0; ; offset += r.pageSize {
		res, err := r.store.SearchList(ctx, index, query, offset, r.pageSize, []string{"$"})
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", collection, err)
		}
		if res == nil {
			break
		}
		for _, e := range res.Entries {
			if raw := e.Fields["$"]; raw != "" {
				docs = append(docs, []byte(raw))
			}
		}
		if len(res.Entries) == 0 || offset+r.pageSize >= res.Total {
			break
		}
	}
	return docs, nil
}

// EnsureIndex creates the collection's tag index when it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context, collection, tagField string) error {
	exists, err := r.store.IndexExists(ctx, r.indexName(collection))
	if err != nil {
		return fmt.Errorf("check index %s: %w", collection, err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(r.indexName(collection)).
		Prefix(r.keyPrefix(collection)).
		Tag("$."+tagField+"[*]", tagField).
		Build()
	if err != nil {
		return fmt.Errorf("build index %s: %w", collection, err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", collection, err)
	}
	return nil
}

func (r *Repo) keyPrefix(collection string) string {
	return r.prefix + collection + ":"
}

func (r *Repo) docKey(collection, id string) string {
	return r.keyPrefix(collection) + id
}

func (r *Repo) indexName(collection string) string {
	return r.keyPrefix(collection) + "idx"
}
