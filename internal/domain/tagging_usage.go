package domain

import "context"

type taggingUsageKey struct{}

// TaggingUsage collects token usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// the tag generator chain writes to it; the handler reads it for response headers.
type TaggingUsage struct {
	TotalTokens int
	Used        bool // true if tag generation ran, even on a cache hit with 0 tokens
	Cached      bool
	CacheLookup bool // the tag cache was consulted; false when no cache is configured
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *TaggingUsage) {
	u := &TaggingUsage{}
	return context.WithValue(ctx, taggingUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *TaggingUsage {
	u, _ := ctx.Value(taggingUsageKey{}).(*TaggingUsage)
	return u
}

// AddTokens records consumed tokens.
func (u *TaggingUsage) AddTokens(n int) {
	if u != nil {
		u.TotalTokens += n
		u.Used = true
	}
}

// MarkCached records a cache hit.
func (u *TaggingUsage) MarkCached() {
	if u != nil {
		u.Used = true
		u.Cached = true
		u.CacheLookup = true
	}
}

// MarkCacheMiss records that the cache was consulted without a hit.
func (u *TaggingUsage) MarkCacheMiss() {
	if u != nil {
		u.CacheLookup = true
	}
}

// CacheStatus returns "hit" or "miss" for a generation that went through
// the cache, and "" when generation did not run or no cache is configured.
func (u *TaggingUsage) CacheStatus() string {
	switch {
	case u == nil || !u.Used || !u.CacheLookup:
		return ""
	case u.Cached:
		return "hit"
	default:
		return "miss"
	}
}
