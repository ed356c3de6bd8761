package db

import (
	"strings"
)

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}

// TagQuery builds an FT.SEARCH query matching documents whose TAG field
// alias holds any of tags, e.g. "@tags:{cafe | wine\ bar}".
// An empty tag list yields an empty query.
func TagQuery(alias string, tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	escaped := make([]string, 0, len(tags))
	for _, t := range tags {
		escaped = append(escaped, tagEscaper.Replace(t))
	}
	return "@" + alias + ":{" + strings.Join(escaped, " | ") + "}"
}

var tagEscaper = strings.NewReplacer(
	"\\", "\\\\",
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)
