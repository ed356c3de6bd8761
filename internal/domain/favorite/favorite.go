package favorite

import (
	"time"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Collection is the document collection holding favorites.
const Collection = "favorites"

// Input marks a place as a user's favorite.
type Input struct {
	UserID  string `json:"userId" validate:"required"`
	PlaceID string `json:"placeId" validate:"required"`
}

type Document struct {
	domain.Meta
	UserID  string `json:"userId"`
	PlaceID string `json:"placeId"`
}

func (d Document) WithMeta(m domain.Meta) Document {
	d.Meta = m
	return d
}

type View struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	PlaceID   string    `json:"placeId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Kind struct{}

func (Kind) Collection() string { return Collection }

func (Kind) ToDocument(in Input) Document {
	return Document{UserID: in.UserID, PlaceID: in.PlaceID}
}

func (Kind) ToView(d Document) View {
	return View{ID: d.ID, UserID: d.UserID, PlaceID: d.PlaceID, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}
