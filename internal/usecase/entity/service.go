// Package entity implements the CRUD use case shared by every resource kind.
package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Service handles create/read/replace/delete of one resource kind.
type Service[In any, D Document[D], V any] struct {
	repo  Repository
	kind  Kind[In, D, V]
	now   func() time.Time
	newID func() string
}

// New creates an entity service for kind backed by repo.
func New[In any, D Document[D], V any](repo Repository, kind Kind[In, D, V]) *Service[In, D, V] {
	return &Service[In, D, V]{
		repo:  repo,
		kind:  kind,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// WithClock replaces the timestamp source.
func (s *Service[In, D, V]) WithClock(now func() time.Time) *Service[In, D, V] {
	if now != nil {
		s.now = now
	}
	return s
}

// WithIDGenerator replaces the id source.
func (s *Service[In, D, V]) WithIDGenerator(newID func() string) *Service[In, D, V] {
	if newID != nil {
		s.newID = newID
	}
	return s
}

// Kind returns the resource kind served.
func (s *Service[In, D, V]) Kind() Kind[In, D, V] { return s.kind }

// Create stores a new record with a fresh id and returns its view.
func (s *Service[In, D, V]) Create(ctx context.Context, in In) (V, error) {
	var zero V

	now := s.now().UTC()
	doc := s.kind.ToDocument(in).WithMeta(domain.Meta{
		ID:        s.newID(),
		CreatedAt: now,
		UpdatedAt: now,
	})

	if err := s.save(ctx, doc); err != nil {
		return zero, fmt.Errorf("create %s: %w", s.kind.Collection(), err)
	}
	return s.kind.ToView(doc), nil
}

// Get returns the record with the given id.
func (s *Service[In, D, V]) Get(ctx context.Context, id string) (V, error) {
	var zero V

	doc, err := s.load(ctx, id)
	if err != nil {
		return zero, fmt.Errorf("get %s: %w", s.kind.Collection(), err)
	}
	return s.kind.ToView(doc), nil
}

// List returns every record of the kind in unspecified order.
func (s *Service[In, D, V]) List(ctx context.Context) ([]V, error) {
	raws, err := s.repo.List(ctx, s.kind.Collection())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind.Collection(), err)
	}
	docs, err := decodeAll[D](raws)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind.Collection(), err)
	}
	return ToViews(s.kind, docs), nil
}

// Update replaces the record under id with in. The creation time is kept.
func (s *Service[In, D, V]) Update(ctx context.Context, id string, in In) (V, error) {
	var zero V

	current, err := s.load(ctx, id)
	if err != nil {
		return zero, fmt.Errorf("update %s: %w", s.kind.Collection(), err)
	}

	doc := s.kind.ToDocument(in).WithMeta(domain.Meta{
		ID:        id,
		CreatedAt: current.Metadata().CreatedAt,
		UpdatedAt: s.now().UTC(),
	})

	if err := s.save(ctx, doc); err != nil {
		return zero, fmt.Errorf("update %s: %w", s.kind.Collection(), err)
	}
	return s.kind.ToView(doc), nil
}

// Delete removes the record under id.
func (s *Service[In, D, V]) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Exists(ctx, s.kind.Collection(), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.kind.Collection(), err)
	}
	if !ok {
		return fmt.Errorf("delete %s %q: %w", s.kind.Collection(), id, domain.ErrNotFound)
	}

	if err := s.repo.Delete(ctx, s.kind.Collection(), id); err != nil {
		return fmt.Errorf("delete %s: %w", s.kind.Collection(), err)
	}
	return nil
}

// Count returns how many records of the kind are stored.
func (s *Service[In, D, V]) Count(ctx context.Context) (int, error) {
	field, _ := s.tagField()
	n, err := s.repo.Count(ctx, s.kind.Collection(), field)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", s.kind.Collection(), err)
	}
	return n, nil
}

// FindByTags returns the records whose tag list shares at least one tag with tags.
func (s *Service[In, D, V]) FindByTags(ctx context.Context, tags []string) ([]V, error) {
	field, ok := s.tagField()
	if !ok {
		return nil, fmt.Errorf("%s: %w", s.kind.Collection(), domain.ErrTagSearchUnsupported)
	}

	tags = domain.NormalizeTags(tags)
	if len(tags) == 0 {
		return []V{}, nil
	}

	raws, err := s.repo.FindByTags(ctx, s.kind.Collection(), field, tags)
	if err != nil {
		return nil, fmt.Errorf("find %s by tags: %w", s.kind.Collection(), err)
	}
	docs, err := decodeAll[D](raws)
	if err != nil {
		return nil, fmt.Errorf("find %s by tags: %w", s.kind.Collection(), err)
	}
	return ToViews(s.kind, docs), nil
}

// EnsureIndex creates the tag index of the kind's collection. Kinds without
// a tag field need no index.
func (s *Service[In, D, V]) EnsureIndex(ctx context.Context) error {
	field, ok := s.tagField()
	if !ok {
		return nil
	}
	if err := s.repo.EnsureIndex(ctx, s.kind.Collection(), field); err != nil {
		return fmt.Errorf("ensure %s index: %w", s.kind.Collection(), err)
	}
	return nil
}

func (s *Service[In, D, V]) tagField() (string, bool) {
	ti, ok := any(s.kind).(TagIndexed)
	if !ok || ti.TagField() == "" {
		return "", false
	}
	return ti.TagField(), true
}

func (s *Service[In, D, V]) load(ctx context.Context, id string) (D, error) {
	var doc D

	raw, err := s.repo.Get(ctx, s.kind.Collection(), id)
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode %q: %w", id, err)
	}
	return doc, nil
}

func (s *Service[In, D, V]) save(ctx context.Context, doc D) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return s.repo.Save(ctx, s.kind.Collection(), doc.Metadata().ID, raw)
}

// ToViews maps documents to views with kind.
func ToViews[In any, D Document[D], V any](kind Kind[In, D, V], docs []D) []V {
	out := make([]V, 0, len(docs))
	for _, d := range docs {
		out = append(out, kind.ToView(d))
	}
	return out
}

func decodeAll[D any](raws [][]byte) ([]D, error) {
	docs := make([]D, 0, len(raws))
	for _, raw := range raws {
		var d D
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}
