package testimonial

import (
	"time"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Collection is the document collection holding testimonials.
const Collection = "testimonials"

type Input struct {
	Name    string `json:"name" validate:"required"`
	Role    string `json:"role"`
	Message string `json:"message" validate:"required"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Picture string `json:"picture"`
}

type Document struct {
	domain.Meta
	Name    string `json:"name"`
	Role    string `json:"role"`
	Message string `json:"message"`
	Rating  int    `json:"rating"`
	Picture string `json:"picture"`
}

func (d Document) WithMeta(m domain.Meta) Document {
	d.Meta = m
	return d
}

type View struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"`
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Kind maps testimonials.
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
		Name:    in.Name,
		Role:    in.Role,
		Message: in.Message,
		Rating:  in.Rating,
		Picture: in.Picture,
	}
}

func (Kind) ToView(d Document) View {
	return View{
		ID:        d.ID,
		Name:      d.Name,
		Role:      d.Role,
		Message:   d.Message,
		Rating:    d.Rating,
		Picture:   d.Picture,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
