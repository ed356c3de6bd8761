// Package page defines static content pages such as "about" and "privacy".
// Each page kind lives in its own collection but shares one shape.
package page

import (
	"time"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Collections holding content pages.
const (
	About   = "about"
	Privacy = "privacy"
)

// Input is the create/update payload of a content page.
type Input struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// Document is the persisted shape of a content page.
type Document struct {
	domain.Meta
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (d Document) WithMeta(m domain.Meta) Document {
	d.Meta = m
	return d
}

// View is the wire representation of a content page.
type View struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Kind maps content pages stored in one collection.
type Kind struct {
	collection string
}

// NewKind creates a page kind bound to the given collection.
func NewKind(collection string) Kind {
	return Kind{collection: collection}
}

func (k Kind) Collection() string { return k.collection }

func (Kind) ToDocument(in Input) Document {
	return Document{Title: in.Title, Content: in.Content}
}

func (Kind) ToView(d Document) View {
	return View{ID: d.ID, Title: d.Title, Content: d.Content, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}
