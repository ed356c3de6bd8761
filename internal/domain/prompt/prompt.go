// Package prompt defines the history of free-text search prompts.
package prompt

import (
	"time"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Collection is the document collection holding prompt history.
const Collection = "prompt_history"

// Input is the create/update payload of a prompt history entry.
type Input struct {
	UserID      string   `json:"userId"`
	Prompt      string   `json:"prompt" validate:"required"`
	Tags        []string `json:"tags"`
	ResultCount int      `json:"resultCount" validate:"gte=0"`
}

// Document is the persisted shape of a prompt history entry.
type Document struct {
	domain.Meta
	UserID      string   `json:"userId"`
	Prompt      string   `json:"prompt"`
	Tags        []string `json:"tags"`
	ResultCount int      `json:"resultCount"`
}

func (d Document) WithMeta(m domain.Meta) Document {
	d.Meta = m
	return d
}

// View is the wire representation of a prompt history entry.
type View struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Prompt      string    `json:"prompt"`
	Tags        []string  `json:"tags"`
	ResultCount int       `json:"resultCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Kind maps prompt history entries.
type Kind struct{}

func (Kind) Collection() string { return Collection }

func (Kind) TagField() string { return "tags" }

func (Kind) ToDocument(in Input) Document {
	return Document{
		UserID:      in.UserID,
		Prompt:      in.Prompt,
		Tags:        domain.NormalizeTags(in.Tags),
		ResultCount: in.ResultCount,
	}
}

func (Kind) ToView(d Document) View {
	return View{
		ID:          d.ID,
		UserID:      d.UserID,
		Prompt:      d.Prompt,
		Tags:        domain.CloneStrings(d.Tags),
		ResultCount: d.ResultCount,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
