package entity

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// fakeRepo is an in-process Repository that counts calls per method.
type fakeRepo struct {
	mu    sync.Mutex
	data  map[string]map[string][]byte
	tags  map[string]map[string][]string
	calls map[string]int

	saveErr   error
	existsErr error

	lastTagField string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		data:  make(map[string]map[string][]byte),
		tags:  make(map[string]map[string][]string),
		calls: make(map[string]int),
	}
}

func (f *fakeRepo) Get(_ context.Context, coll, id string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Get"]++
	raw, ok := f.data[coll][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return raw, nil
}

func (f *fakeRepo) List(_ context.Context, coll string) ([][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["List"]++
	ids := make([]string, 0, len(f.data[coll]))
	for id := range f.data[coll] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.data[coll][id])
	}
	return out, nil
}

func (f *fakeRepo) Save(_ context.Context, coll, id string, doc []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Save"]++
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.data[coll] == nil {
		f.data[coll] = make(map[string][]byte)
	}
	f.data[coll][id] = doc
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, coll, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Delete"]++
	delete(f.data[coll], id)
	delete(f.tags[coll], id)
	return nil
}

func (f *fakeRepo) Exists(_ context.Context, coll, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Exists"]++
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.data[coll][id]
	return ok, nil
}

func (f *fakeRepo) Count(_ context.Context, coll, tagField string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Count"]++
	f.lastTagField = tagField
	return len(f.data[coll]), nil
}

// FindByTags uses tags registered with setTags since the fake does not parse documents.
func (f *fakeRepo) FindByTags(_ context.Context, coll, _ string, tags []string) ([][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["FindByTags"]++
	var out [][]byte
	for id, docTags := range f.tags[coll] {
		if domain.Intersects(docTags, tags) {
			out = append(out, f.data[coll][id])
		}
	}
	return out, nil
}

func (f *fakeRepo) EnsureIndex(_ context.Context, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["EnsureIndex"]++
	return nil
}

func (f *fakeRepo) setTags(coll, id string, tags []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tags[coll] == nil {
		f.tags[coll] = make(map[string][]string)
	}
	f.tags[coll][id] = tags
}

func (f *fakeRepo) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

var errBoom = errors.New("boom")
