// Package blog defines blog posts.
package blog

import (
	"time"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Collection is the document collection holding blog posts.
const Collection = "blogs"

// Input is the create/update payload of a blog post.
type Input struct {
	Title      string   `json:"title" validate:"required"`
	Content    string   `json:"content" validate:"required"`
	Author     string   `json:"author"`
	CoverImage string   `json:"coverImage"`
	Tags       []string `json:"tags"`
}

// Document is the persisted shape of a blog post.
type Document struct {
	domain.Meta
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Author     string   `json:"author"`
	CoverImage string   `json:"coverImage"`
	Tags       []string `json:"tags"`
}

// WithMeta returns a copy of d carrying m.
func (d Document) WithMeta(m domain.Meta) Document {
	d.Meta = m
	return d
}

// View is the wire representation of a stored blog post.
type View struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	CoverImage string    `json:"coverImage"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Kind maps blog posts.
type Kind struct{}

func (Kind) Collection() string { return Collection }

func (Kind) TagField() string { return "tags" }

func (Kind) AttachmentFields() []string { return []string{"coverImage"} }

func (Kind) BindAttachments(in Input, files map[string][]string) Input {
	if urls := files["coverImage"]; len(urls) > 0 {
		in.CoverImage = urls[0]
	}
	return in
}

func (Kind) ToDocument(in Input) Document {
	return Document{
		Title:      in.Title,
		Content:    in.Content,
		Author:     in.Author,
		CoverImage: in.CoverImage,
		Tags:       domain.NormalizeTags(in.Tags),
	}
}

func (Kind) ToView(d Document) View {
	return View{
		ID:         d.ID,
		Title:      d.Title,
		Content:    d.Content,
		Author:     d.Author,
		CoverImage: d.CoverImage,
		Tags:       domain.CloneStrings(d.Tags),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
