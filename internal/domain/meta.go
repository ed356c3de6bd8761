package domain

import "time"

// Meta is the store-assigned part of every persisted record.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Metadata returns the record metadata.
func (m Meta) Metadata() Meta { return m }

// IsZero reports whether the record has never been persisted.
func (m Meta) IsZero() bool { return m.ID == "" }
