package search

import (
	"context"

	"github.com/kailas-cloud/placebook/internal/domain"
	"github.com/kailas-cloud/placebook/internal/domain/place"
	"github.com/kailas-cloud/placebook/internal/domain/prompt"
)

// TagGenerator turns a free-text query into tags or a refusal.
type TagGenerator interface {
	Generate(ctx context.Context, prompt string) (domain.Generation, error)
}

// PlaceFinder looks up places by tag intersection.
type PlaceFinder interface {
	FindByTags(ctx context.Context, tags []string) ([]place.View, error)
}

// HistoryRecorder stores successful search prompts.
type HistoryRecorder interface {
	Create(ctx context.Context, in prompt.Input) (prompt.View, error)
}
