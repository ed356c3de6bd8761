package blog

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/kailas-cloud/placebook/internal/domain"
)

func inputFromView(v View) Input {
	return Input{
		Title:      v.Title,
		Content:    v.Content,
		Author:     v.Author,
		CoverImage: v.CoverImage,
		Tags:       v.Tags,
	}
}

func TestKind_RoundTrip(t *testing.T) {
	faker := gofakeit.New(7)
	k := Kind{}

	for i := 0; i < 20; i++ {
		var in Input
		if err := faker.Struct(&in); err != nil {
			t.Fatalf("fake input: %v", err)
		}
		in.Tags = domain.NormalizeTags([]string{faker.Noun(), faker.Adjective()})
		v := k.ToView(k.ToDocument(in))
		if diff := cmp.Diff(in, inputFromView(v), cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("round trip mismatch (-in +out):\n%s", diff)
		}
	}
}

func TestKind_ToViewCarriesMeta(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := Kind{}.ToDocument(Input{}).WithMeta(domain.Meta{ID: "id-1", CreatedAt: now, UpdatedAt: now.Add(time.Hour)})

	v := Kind{}.ToView(doc)
	if v.ID != "id-1" || !v.CreatedAt.Equal(now) || !v.UpdatedAt.Equal(now.Add(time.Hour)) {
		t.Errorf("meta not mapped: %+v", v)
	}
}

func TestKind_BindAttachments(t *testing.T) {
	tests := []struct {
		name  string
		files map[string][]string
		want  string
	}{
		{name: "first upload wins", files: map[string][]string{"coverImage": {"https://cdn/a.png", "https://cdn/b.png"}}, want: "https://cdn/a.png"},
		{name: "no upload keeps url", files: map[string][]string{}, want: "https://cdn/old.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Kind{}.BindAttachments(Input{Title: "t", CoverImage: "https://cdn/old.png"}, tt.files)
			if got.CoverImage != tt.want {
				t.Errorf("coverImage = %q, want %q", got.CoverImage, tt.want)
			}
		})
	}
}
