// Package place defines the place resource: its input, persisted and view shapes,
// and the Kind that maps between them.
package place

import (
	"time"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Collection is the document collection holding places.
const Collection = "places"

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// Location is a postal address with its coordinate.
type Location struct {
	Address    string     `json:"address"`
	Coordinate Coordinate `json:"coordinate"`
}

// Input is the create/update payload of a place.
type Input struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    Location `json:"location"`
	Tags        []string `json:"tags"`
	Website     string   `json:"website" validate:"omitempty,url"`
	Phone       string   `json:"phone"`
	Logo        string   `json:"logo"`
	Photos      []string `json:"photos"`
}

// Document is the persisted shape of a place.
type Document struct {
	domain.Meta
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    Location `json:"location"`
	Tags        []string `json:"tags"`
	Website     string   `json:"website"`
	Phone       string   `json:"phone"`
	Logo        string   `json:"logo"`
	Photos      []string `json:"photos"`
}

// WithMeta returns a copy of d carrying m.
func (d Document) WithMeta(m domain.Meta) Document {
	d.Meta = m
	return d
}

// View is the wire representation of a stored place.
type View struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    Location  `json:"location"`
	Tags        []string  `json:"tags"`
	Website     string    `json:"website"`
	Phone       string    `json:"phone"`
	Logo        string    `json:"logo"`
	Photos      []string  `json:"photos"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Kind maps places between their input, document and view shapes.
type Kind struct{}

// Collection returns the store collection name.
func (Kind) Collection() string { return Collection }

// TagField names the document field searched by tag queries.
func (Kind) TagField() string { return "tags" }

// AttachmentFields lists the input fields that may be filled from uploaded files.
func (Kind) AttachmentFields() []string { return []string{"logo", "photos"} }

// BindAttachments stores uploaded file URLs into the input. The logo takes the
// first uploaded file; photos are appended after any URLs already present.
func (Kind) BindAttachments(in Input, files map[string][]string) Input {
	if urls := files["logo"]; len(urls) > 0 {
		in.Logo = urls[0]
	}
	if urls := files["photos"]; len(urls) > 0 {
		in.Photos = append(append([]string(nil), in.Photos...), urls...)
	}
	return in
}

// ToDocument maps an input to a new, not yet persisted document.
// Tags are normalized so tag queries match case-insensitively.
func (Kind) ToDocument(in Input) Document {
	return Document{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Location:    in.Location,
		Tags:        domain.NormalizeTags(in.Tags),
		Website:     in.Website,
		Phone:       in.Phone,
		Logo:        in.Logo,
		Photos:      domain.CloneStrings(in.Photos),
	}
}

// ToView maps a stored document to its wire view.
func (Kind) ToView(d Document) View {
	return View{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Location:    d.Location,
		Tags:        domain.CloneStrings(d.Tags),
		Website:     d.Website,
		Phone:       d.Phone,
		Logo:        d.Logo,
		Photos:      domain.CloneStrings(d.Photos),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
