package entity

import (
	"context"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Repository defines the document storage contract shared by every resource kind.
// Documents travel as JSON; Get returns domain.ErrNotFound for a missing id.
type Repository interface {
	Get(ctx context.Context, collection, id string) ([]byte, error)
	List(ctx context.Context, collection string) ([][]byte, error)
	Save(ctx context.Context, collection, id string, doc []byte) error
	Delete(ctx context.Context, collection, id string) error
	Exists(ctx context.Context, collection, id string) (bool, error)
	// Count returns the collection size. tagField names the collection's
	// tag index and is empty when it has none.
	Count(ctx context.Context, collection, tagField string) (int, error)
	FindByTags(ctx context.Context, collection, field string, tags []string) ([][]byte, error)
	EnsureIndex(ctx context.Context, collection, tagField string) error
}

// Document is a persisted record that carries store-assigned metadata.
type Document[D any] interface {
	Metadata() domain.Meta
	WithMeta(m domain.Meta) D
}

// Kind describes one resource: where it lives and how it maps between shapes.
type Kind[In any, D Document[D], V any] interface {
	Collection() string
	ToDocument(in In) D
	ToView(doc D) V
}

// TagIndexed is implemented by kinds whose documents carry a searchable tag list.
type TagIndexed interface {
	TagField() string
}
