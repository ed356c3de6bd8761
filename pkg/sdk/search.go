package placebook

import (
	"context"
	"time"

	"github.com/kailas-cloud/placebook/internal/domain"
	searchuc "github.com/kailas-cloud/placebook/internal/usecase/search"
)

type searchUseCase interface {
	Search(ctx context.Context, query string) (searchuc.Outcome, error)
}

// Search turns a free-text prompt into tags and returns the places carrying any of them.
// A declined prompt is not an error: it comes back as SearchResult.Refusal.
func (c *Client) Search(ctx context.Context, query string) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("places", "search", start, err) }()

	if c.searchSvc == nil {
		return SearchResult{}, ErrSearchDisabled
	}

	ctx, usage := domain.NewContextWithUsage(ctx)
	out, err := c.searchSvc.Search(ctx, query)
	if err != nil {
		return SearchResult{}, err
	}

	res.Usage = SearchUsage{TotalTokens: usage.TotalTokens, Cached: usage.Cached}
	if out.Refused() {
		res.Refusal = &Refusal{Reason: out.Refusal.Reason, Status: out.Refusal.Status}
		return res, nil
	}
	res.Tags = out.Tags
	res.Places = out.Places
	return res, nil
}
