package domain

import "strings"

// NormalizeTags trims, lower-cases and de-duplicates tags, dropping blanks.
// Order of first occurrence is kept. Returns an empty, non-nil slice for no tags.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Intersects reports whether a and b share at least one tag.
func Intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

// CloneStrings copies s, turning nil into an empty slice so views encode as [].
func CloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append(make([]string, 0, len(s)), s...)
}
