package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"hola.md", true},
		{"2024-01-03-hola.md", true},
		{"post.v2.md", true},
		{"snake_case.markdown", true},
		{"README", true},
		{"", false},
		{".md", false},
		{"..", false},
		{"a..b", false},
		{"../x.md", false},
		{"a/b.md", false},
		{`a\b.md`, false},
		{"con espacio.md", false},
		{"ñandú.md", true},
		{"programación.md", true},
		{"日本語.md", true},
		{"café\u0301.md", true},
		{"a\u2215b.md", false},
		{"a\x00b.md", false},
		{strings.Repeat("a", 255), true},
		{strings.Repeat("a", 256), false},
	}
	for _, tt := range tests {
		err := ValidateIdentifier(tt.id)
		if tt.valid {
			assert.NoError(t, err, "ValidateIdentifier(%q)", tt.id)
			continue
		}
		if assert.Error(t, err, "ValidateIdentifier(%q)", tt.id) {
			assert.ErrorIs(t, err, ErrInvalidIdentifier)
		}
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		id, want string
	}{
		{"hola.md", "hola"},
		{"post.v2.md", "post"},
		{"README", "README"},
	}
	for _, tt := range tests {
		if got := Stem(tt.id); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDecodeSidecar(t *testing.T) {
	meta, err := DecodeSidecar([]byte(`
descripcion: "Un post sobre Go"
titulo: Hola mundo
fecha: 3 de enero de 2024
archivo: hola.md
`))
	require.NoError(t, err)
	assert.Equal(t, PostMetadata{
		Slug:          "hola.md",
		Title:         "Hola mundo",
		Summary:       "Un post sobre Go",
		PublishedDate: "3 de enero de 2024",
	}, meta)
}

func TestDecodeSidecarRejects(t *testing.T) {
	tests := map[string]string{
		"empty":         "",
		"not a mapping": "- a\n- b\n",
		"missing field": "titulo: t\nfecha: f\narchivo: a.md\n",
		"scalar":        "~\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSidecar([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestDecodeSidecarAccepts(t *testing.T) {
	tests := map[string]struct {
		src  string
		want PostMetadata
	}{
		"unknown field": {
			src:  "descripcion: d\ntitulo: t\nfecha: f\narchivo: a.md\ntags: [x]\n",
			want: PostMetadata{Slug: "a.md", Title: "t", Summary: "d", PublishedDate: "f"},
		},
		"blank field": {
			src:  "descripcion: ''\ntitulo: t\nfecha: f\narchivo: a.md\n",
			want: PostMetadata{Slug: "a.md", Title: "t", PublishedDate: "f"},
		},
		"null field": {
			src:  "descripcion: ~\ntitulo: t\nfecha:\narchivo: a.md\n",
			want: PostMetadata{Slug: "a.md", Title: "t"},
		},
		"unchecked archivo": {
			src:  "descripcion: d\ntitulo: t\nfecha: f\narchivo: ../a.md\n",
			want: PostMetadata{Slug: "../a.md", Title: "t", Summary: "d", PublishedDate: "f"},
		},
		"unicode archivo": {
			src:  "descripcion: d\ntitulo: Programación\nfecha: 2024-01-03\narchivo: programación.md\n",
			want: PostMetadata{Slug: "programación.md", Title: "Programación", Summary: "d", PublishedDate: "2024-01-03"},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeSidecar([]byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPostMetadataJSON(t *testing.T) {
	b, err := json.Marshal(PostMetadata{Slug: "a.md", Title: "A", Summary: "s", PublishedDate: "hoy", Dir: "a"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"slug":"a.md","title":"A","summary":"s","publishedDate":"hoy","dir":"a"}`, string(b))
}

func TestErrorFormattingAndMatching(t *testing.T) {
	cause := errors.New("permission denied")
	err := fmt.Errorf("wrapped: %w", newError(KindDirectoryUnreadable, "list posts", "drafts", cause))

	assert.Equal(t, "wrapped: content: list posts drafts: DirectoryUnreadable: permission denied", err.Error())
	assert.ErrorIs(t, err, ErrDirectoryUnreadable)
	assert.NotErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindDirectoryUnreadable, AsError("op", err).Kind)

	ce := AsError("op", cause)
	assert.Equal(t, KindIOFailure, ce.Kind)
	assert.Nil(t, AsError("op", nil))

	text, _ := KindPostNotFound.MarshalText()
	assert.Equal(t, "PostNotFound", string(text))
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
