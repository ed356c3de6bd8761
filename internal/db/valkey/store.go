// Package valkey adapts the Redis store to Valkey. valkey-search only answers
// FT.SEARCH for vector queries, so tag queries fall back to SCAN + JSON.GET
// with matching done in process.
package valkey

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/placebook/internal/db"
	"github.com/kailas-cloud/placebook/internal/db/redis"
)

// fetchBatch bounds how many JSON.GET commands share one pipeline.
const fetchBatch = 256

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store implements db.Store for Valkey with JSON support.
type Store struct {
	*redis.Store
}

// NewStore creates a Valkey store via rueidis.
func NewStore(cfg redis.Config) (*Store, error) {
	rs, err := redis.NewStore(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Store: rs}, nil
}

// CreateIndex is a no-op: tag queries are answered by scanning.
func (s *Store) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	return def.Validate()
}

// IndexExists always reports true since no FT index is needed.
func (s *Store) IndexExists(_ context.Context, _ string) (bool, error) {
	return true, nil
}

// SearchList answers "*" and "@alias:{a | b}" queries over the keys of index.
func (s *Store) SearchList(
	ctx context.Context, index, query string, offset, limit int, _ []string,
) (*db.SearchResult, error) {
	matches, err := s.scanMatching(ctx, index, query)
	if err != nil {
		return nil, err
	}

	total := len(matches)
	if offset >= total {
		return &db.SearchResult{Total: total}, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return &db.SearchResult{Total: total, Entries: matches[offset:end]}, nil
}

// SearchCount returns the number of documents matching query.
func (s *Store) SearchCount(ctx context.Context, index, query string) (int, error) {
	matches, err := s.scanMatching(ctx, index, query)
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

func (s *Store) scanMatching(ctx context.Context, index, query string) ([]db.SearchEntry, error) {
	q, err := parseTagQuery(query)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	keys, err := s.Scan(ctx, indexToKeyPrefix(index)+"*")
	if err != nil {
		return nil, fmt.Errorf("scan for search: %w", err)
	}
	sort.Strings(keys) // deterministic ordering

	entries := make([]db.SearchEntry, 0, len(keys))
	for start := 0; start < len(keys); start += fetchBatch {
		batch := keys[start:min(start+fetchBatch, len(keys))]
		docs, err := s.JSONGetEach(ctx, batch)
		if err != nil {
			return nil, err
		}
		for i, raw := range docs {
			// nil: deleted between SCAN and GET
			if raw == nil || !q.matches(raw) {
				continue
			}
			entries = append(entries, db.SearchEntry{
				Key:    batch[i],
				Fields: map[string]string{"$": string(raw)},
			})
		}
	}
	return entries, nil
}

// indexToKeyPrefix converts index name to a SCAN prefix.
// "pb:places:idx" -> "pb:places:"
func indexToKeyPrefix(index string) string {
	if strings.HasSuffix(index, ":idx") {
		return index[:len(index)-3]
	}
	return index + ":"
}

// tagQuery is the parsed form of "*" or "@alias:{a | b}".
type tagQuery struct {
	all   bool
	alias string
	tags  map[string]struct{}
}

func parseTagQuery(query string) (tagQuery, error) {
	query = strings.TrimSpace(query)
	if query == "*" || query == "" {
		return tagQuery{all: true}, nil
	}

	if !strings.HasPrefix(query, "@") || !strings.HasSuffix(query, "}") {
		return tagQuery{}, fmt.Errorf("unsupported query %q", query)
	}
	colon := strings.Index(query, ":{")
	if colon < 0 {
		return tagQuery{}, fmt.Errorf("unsupported query %q", query)
	}

	q := tagQuery{alias: query[1:colon], tags: make(map[string]struct{})}
	body := query[colon+2 : len(query)-1]

	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			q.tags[cur.String()] = struct{}{}
			cur.Reset()
		}
	}
	escaped := false
	for _, r := range body {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			flush()
		case r == ' ':
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return q, nil
}

func (q tagQuery) matches(raw []byte) bool {
	if q.all {
		return true
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	var values []string
	if err := json.Unmarshal(doc[q.alias], &values); err != nil {
		return false
	}
	for _, v := range values {
		if _, ok := q.tags[v]; ok {
			return true
		}
	}
	return false
}
