package domain

import "context"

// TagGenerator turns a free-text prompt into search tags.
type TagGenerator interface {
	Generate(ctx context.Context, prompt string) (Generation, error)
}

// HealthChecker verifies tag provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Generation is the outcome of one tag generation call.
// Exactly one of Tags (possibly empty) or Refusal is meaningful: a non-nil Refusal wins.
type Generation struct {
	Tags         []string
	Refusal      *Refusal
	PromptTokens int
	TotalTokens  int
}

// Refused reports whether the generator declined the prompt.
func (g Generation) Refused() bool { return g.Refusal != nil }
