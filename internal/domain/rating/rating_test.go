package rating

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
		PlaceID: v.PlaceID,
		UserID:  v.UserID,
		Rating:  v.Rating,
		Comment: v.Comment,
	}
}

func TestKind_RoundTrip(t *testing.T) {
	faker := gofakeit.New(11)
	k := Kind{}

	for i := 0; i < 20; i++ {
		var in Input
		if err := faker.Struct(&in); err != nil {
			t.Fatalf("fake input: %v", err)
		}
		in.Rating = faker.Number(1, 5)
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
