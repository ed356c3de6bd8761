package placebook

import (
	"context"
	"time"
)

type crudUseCase[In any, V any] interface {
	Create(ctx context.Context, in In) (V, error)
	Get(ctx context.Context, id string) (V, error)
	List(ctx context.Context) ([]V, error)
	Update(ctx context.Context, id string, in In) (V, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Resource manages one kind of record. Every method validates its input the
// same way the HTTP API does and returns ErrNotFound for an unknown id.
type Resource[In any, V any] struct {
	name string
	svc  crudUseCase[In, V]
	obs  *observer
}

func newResource[In any, V any](name string, svc crudUseCase[In, V], obs *observer) *Resource[In, V] {
	return &Resource[In, V]{name: name, svc: svc, obs: obs}
}

// Create stores a new record with a generated id.
func (r *Resource[In, V]) Create(ctx context.Context, in In) (v V, err error) {
	start := time.Now()
	defer func() { r.obs.observe(r.name, "create", start, err) }()

	if err = validate(in); err != nil {
		return v, err
	}
	return r.svc.Create(ctx, in)
}

// Get returns the record with the given id.
func (r *Resource[In, V]) Get(ctx context.Context, id string) (v V, err error) {
	start := time.Now()
	defer func() { r.obs.observe(r.name, "get", start, err) }()

	return r.svc.Get(ctx, id)
}

// List returns every record. The result is never nil.
func (r *Resource[In, V]) List(ctx context.Context) (vs []V, err error) {
	start := time.Now()
	defer func() { r.obs.observe(r.name, "list", start, err) }()

	vs, err = r.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	if vs == nil {
		vs = []V{}
	}
	return vs, nil
}

// Update replaces the record with the given id, keeping its creation time.
func (r *Resource[In, V]) Update(ctx context.Context, id string, in In) (v V, err error) {
	start := time.Now()
	defer func() { r.obs.observe(r.name, "update", start, err) }()

	if err = validate(in); err != nil {
		return v, err
	}
	return r.svc.Update(ctx, id, in)
}

// Delete removes the record with the given id.
func (r *Resource[In, V]) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { r.obs.observe(r.name, "delete", start, err) }()

	return r.svc.Delete(ctx, id)
}

// Count returns how many records are stored.
func (r *Resource[In, V]) Count(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { r.obs.observe(r.name, "count", start, err) }()

	return r.svc.Count(ctx)
}
