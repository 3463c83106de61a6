package blogfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eringen/blogfs/content"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com/"},
		{"https://example.com/", []string{"post", "hola.md"}, "https://example.com/post/hola.md"},
		{"https://example.com/blog", []string{"feed.xml"}, "https://example.com/blog/feed.xml"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildURL(tt.base, tt.segs...))
	}
}

func TestNewestFirstDoesNotMutate(t *testing.T) {
	posts := []content.PostMetadata{{Slug: "a.md"}, {Slug: "b.md"}, {Slug: "c.md"}}
	got := NewestFirst(posts)
	assert.Equal(t, []string{"c.md", "b.md", "a.md"}, slugs(got))
	assert.Equal(t, []string{"a.md", "b.md", "c.md"}, slugs(posts))
}

func slugs(posts []content.PostMetadata) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func TestFindPost(t *testing.T) {
	posts := []content.PostMetadata{{Slug: "a.md", Title: "A"}, {Slug: "b.md", Title: "B"}}

	p, ok := FindPost(posts, "b.md")
	assert.True(t, ok)
	assert.Equal(t, "B", p.Title)

	_, ok = FindPost(posts, "c.md")
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2023-01-05", " 2023-01-05 ", "05/01/2023", "5 January 2023"} {
		got, ok := parseDate(s)
		assert.True(t, ok, s)
		assert.True(t, want.Equal(got), s)
	}
	for _, s := range []string{"", "febrero 2023", "ayer"} {
		_, ok := parseDate(s)
		assert.False(t, ok, s)
	}
}
