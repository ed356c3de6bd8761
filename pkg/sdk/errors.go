package placebook

import (
	"errors"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound             = domain.ErrNotFound
	ErrInvalidInput         = domain.ErrInvalidInput
	ErrTagSearchUnsupported = domain.ErrTagSearchUnsupported
	ErrTagProviderError     = domain.ErrTagProviderError
)

// ErrSearchDisabled is returned by Search when no tagger is configured.
var ErrSearchDisabled = errors.New("placebook: search disabled (use WithTagger or WithOpenAI)")

// ValidationError carries per-field messages for ErrInvalidInput.
type ValidationError = domain.ValidationError
