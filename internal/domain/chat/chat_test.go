package chat

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/placebook/internal/domain"
)

func TestKind_RoundTripMessages(t *testing.T) {
	sent := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	in := Input{
		UserID: "u-1",
		Title:  "Dinner ideas",
		Messages: []Message{
			{Role: "user", Content: "somewhere quiet for ramen", SentAt: sent},
			{Role: "assistant", Content: "try Menya", SentAt: sent.Add(time.Second)},
		},
	}
	k := Kind{}
	doc := k.ToDocument(in).WithMeta(domain.Meta{ID: "c-1"})
	v := k.ToView(doc)

	if diff := cmp.Diff(in.Messages, v.Messages); diff != "" {
		t.Fatalf("messages (-want +got):\n%s", diff)
	}
	if v.UserID != in.UserID || v.Title != in.Title || v.ID != "c-1" {
		t.Errorf("unexpected view: %+v", v)
	}

	in.Messages[0].Content = "changed"
	if doc.Messages[0].Content == "changed" {
		t.Error("document shares messages with input")
	}
}
