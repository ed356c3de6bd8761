// Package chat defines stored chat conversations between a user and the assistant.
package chat

import (
	"time"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Collection is the document collection holding chat histories.
const Collection = "chat_history"

// Message is a single chat turn.
type Message struct {
	Role    string    `json:"role" validate:"oneof=user assistant system"`
	Content string    `json:"content" validate:"required"`
	SentAt  time.Time `json:"sentAt"`
}

// Input is the create/update payload of a chat history.
type Input struct {
	UserID   string    `json:"userId" validate:"required"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages" validate:"dive"`
}

// Document is the persisted shape of a chat history.
type Document struct {
	domain.Meta
	UserID   string    `json:"userId"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

func (d Document) WithMeta(m domain.Meta) Document {
	d.Meta = m
	return d
}

// View is the wire representation of a chat history.
type View struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Kind maps chat histories.
type Kind struct{}

func (Kind) Collection() string { return Collection }

func (Kind) ToDocument(in Input) Document {
	return Document{UserID: in.UserID, Title: in.Title, Messages: cloneMessages(in.Messages)}
}

func (Kind) ToView(d Document) View {
	return View{
		ID:        d.ID,
		UserID:    d.UserID,
		Title:     d.Title,
		Messages:  cloneMessages(d.Messages),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func cloneMessages(in []Message) []Message {
	out := make([]Message, len(in))
	copy(out, in)
	return out
}
