// Package collection defines user-curated lists of places.
package collection

import (
	"time"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Collection is the document collection holding place collections.
const Collection = "collections"

// Input is the create/update payload of a place collection.
type Input struct {
	UserID      string   `json:"userId" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	PlaceIDs    []string `json:"placeIds"`
}

// Document is the persisted shape of a place collection.
type Document struct {
	domain.Meta
	UserID      string   `json:"userId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PlaceIDs    []string `json:"placeIds"`
}

func (d Document) WithMeta(m domain.Meta) Document {
	d.Meta = m
	return d
}

// View is the wire representation of a place collection.
type View struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PlaceIDs    []string  `json:"placeIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Kind maps place collections.
type Kind struct{}

func (Kind) Collection() string { return Collection }

func (Kind) ToDocument(in Input) Document {
	return Document{
		UserID:      in.UserID,
		Name:        in.Name,
		Description: in.Description,
		PlaceIDs:    domain.CloneStrings(in.PlaceIDs),
	}
}

func (Kind) ToView(d Document) View {
	return View{
		ID:          d.ID,
		UserID:      d.UserID,
		Name:        d.Name,
		Description: d.Description,
		PlaceIDs:    domain.CloneStrings(d.PlaceIDs),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
