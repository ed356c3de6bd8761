// Package search composes tag generation with the place tag lookup.
package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/domain"
	"github.com/kailas-cloud/placebook/internal/domain/place"
	"github.com/kailas-cloud/placebook/internal/domain/prompt"
)

// Outcome is either a tag match or a refusal. A refusal is a successful call.
type Outcome struct {
	Tags    []string
	Places  []place.View
	Refusal *domain.Refusal
}

// Refused reports whether the tag generator declined the query.
func (o Outcome) Refused() bool { return o.Refusal != nil }

// Service handles free-text place search.
type Service struct {
	tagger  TagGenerator
	places  PlaceFinder
	history HistoryRecorder
	logger  *zap.Logger
}

// New creates a search service. history may be nil.
func New(tagger TagGenerator, places PlaceFinder, history HistoryRecorder, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{tagger: tagger, places: places, history: history, logger: log}
}

// Search generates tags for query and returns the places carrying any of them.
// A refusal is returned unchanged without touching the place store.
func (s *Service) Search(ctx context.Context, query string) (Outcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Outcome{}, domain.NewValidationError("query", "must not be blank")
	}

	gen, err := s.tagger.Generate(ctx, query)
	if err != nil {
		return Outcome{}, fmt.Errorf("tag query: %w", err)
	}
	if gen.Refused() {
		return Outcome{Refusal: gen.Refusal}, nil
	}

	tags := domain.CloneStrings(gen.Tags)
	places, err := s.places.FindByTags(ctx, tags)
	if err != nil {
		return Outcome{}, fmt.Errorf("find places: %w", err)
	}
	if places == nil {
		places = []place.View{}
	}

	s.record(ctx, query, tags, len(places))

	return Outcome{Tags: tags, Places: places}, nil
}

func (s *Service) record(ctx context.Context, query string, tags []string, n int) {
	if s.history == nil {
		return
	}
	_, err := s.history.Create(ctx, prompt.Input{
		Prompt:      query,
		Tags:        tags,
		ResultCount: n,
	})
	if err != nil {
		s.logger.Warn("Failed to record prompt history",
			zap.String("prompt", query),
			zap.Error(err),
		)
	}
}
