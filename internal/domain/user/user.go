// Package user defines application users.
package user

import (
	"time"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Collection is the document collection holding users.
const Collection = "users"

// Input is the create/update payload of a user.
type Input struct {
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName"`
	Picture     string `json:"picture"`
}

// Document is the persisted shape of a user.
type Document struct {
	domain.Meta
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Picture     string `json:"picture"`
}

func (d Document) WithMeta(m domain.Meta) Document {
	d.Meta = m
	return d
}

// View is the wire representation of a user.
type View struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Picture     string    `json:"picture"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Kind maps users.
type Kind struct{}

func (Kind) Collection() string { return Collection }

func (Kind) AttachmentFields() []string { return []string{"picture"} }

func (Kind) BindAttachments(in Input, files map[string][]string) Input {
	if urls := files["picture"]; len(urls) > 0 {
		in.Picture = urls[0]
	}
	return in
}

func (Kind) ToDocument(in Input) Document {
	return Document{
		Username:    in.Username,
		Email:       in.Email,
		DisplayName: in.DisplayName,
		Picture:     in.Picture,
	}
}

func (Kind) ToView(d Document) View {
	return View{
		ID:          d.ID,
		Username:    d.Username,
		Email:       d.Email,
		DisplayName: d.DisplayName,
		Picture:     d.Picture,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
