package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_JSONTags(t *testing.T) {
	idx := NewIndex("pb:places:idx").
		Prefix("pb:places:").
		Tag("$.tags[*]", "tags").
		MustBuild()

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.StorageType != StorageJSON {
		t.Errorf("storage = %q, want JSON", idx.StorageType)
	}
	if len(idx.Fields) != 1 {
		t.Fatalf("fields count = %d, want 1", len(idx.Fields))
	}
	f := idx.Fields[0]
	if f.Name != "$.tags[*]" || f.Alias != "tags" || f.Type != IndexFieldTag {
		t.Errorf("field = %+v, want $.tags[*] AS tags TAG", f)
	}
}

func TestIndexBuilder_MultiplePrefixes(t *testing.T) {
	idx := NewIndex("multi-idx").
		Prefix("a:", "b:", "c:").
		Tag("x", "").
		MustBuild()

	if len(idx.Prefixes) != 3 {
		t.Errorf("prefix count = %d, want 3", len(idx.Prefixes))
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() (*IndexDefinition, error)
		wantErr string
	}{
		{
			name: "empty name",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("").Tag("x", "").Build()
			},
			wantErr: "index name is required",
		},
		{
			name: "no fields",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Build()
			},
			wantErr: "at least one field",
		},
		{
			name: "duplicate alias",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Tag("$.a[*]", "a").Tag("$.b[*]", "a").Build()
			},
			wantErr: "duplicate field name",
		},
		{
			name: "invalid characters",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx with spaces").Tag("x", "").Build()
			},
			wantErr: "invalid characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("my-idx").
		Prefix("doc:").
		Tag("$.tags[*]", "tags").
		MustBuild()

	want := "FT.CREATE my-idx ON JSON PREFIX doc: SCHEMA $.tags[*] AS tags TAG"
	if got := idx.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMustBuild_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewIndex("").MustBuild()
}

func TestTagQuery(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{"empty", nil, ""},
		{"single", []string{"restaurant"}, "@tags:{restaurant}"},
		{"many", []string{"cafe", "bar"}, "@tags:{cafe | bar}"},
		{"escaped", []string{"wine bar", "24-7"}, `@tags:{wine\ bar | 24\-7}`},
		{"backslash", []string{`c\d`}, `@tags:{c\\d}`},
		{"backslash before space", []string{`a\ b`}, `@tags:{a\\\ b}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TagQuery("tags", tt.tags); got != tt.want {
				t.Errorf("TagQuery(%q) = %q, want %q", tt.tags, got, tt.want)
			}
		})
	}
}
