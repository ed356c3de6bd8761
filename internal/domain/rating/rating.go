// Package rating defines user ratings of places.
package rating

import (
	"time"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Collection is the document collection holding user ratings.
const Collection = "user_ratings"

// Input is the create/update payload of a rating. PlaceID and UserID are soft
// references and are not checked against their collections.
type Input struct {
	PlaceID string `json:"placeId" validate:"required"`
	UserID  string `json:"userId" validate:"required"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment"`
}

// Document is the persisted shape of a rating.
type Document struct {
	domain.Meta
	PlaceID string `json:"placeId"`
	UserID  string `json:"userId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (d Document) WithMeta(m domain.Meta) Document {
	d.Meta = m
	return d
}

// View is the wire representation of a rating.
type View struct {
	ID        string    `json:"id"`
	PlaceID   string    `json:"placeId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Kind maps ratings.
type Kind struct{}

func (Kind) Collection() string { return Collection }

func (Kind) ToDocument(in Input) Document {
	return Document{PlaceID: in.PlaceID, UserID: in.UserID, Rating: in.Rating, Comment: in.Comment}
}

func (Kind) ToView(d Document) View {
	return View{
		ID:        d.ID,
		PlaceID:   d.PlaceID,
		UserID:    d.UserID,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
