package domain

// Refusal is a non-error outcome where the tag generator declines a prompt.
// Callers must branch on it explicitly.
type Refusal struct {
	Reason string `json:"reason"`
	Status string `json:"status"`
}

// Refusal statuses.
const (
	RefusalStatusRefused       = "refused"
	RefusalStatusContentFilter = "content_filter"
	RefusalStatusUnsupported   = "unsupported"
)
