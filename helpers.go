package blogfs

import (
	"net/url"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/eringen/blogfs/content"
)

// BuildURL joins a base URL with path segments.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// NewestFirst returns a reversed copy of posts. Listings come back in
// discovery order, which for date-prefixed directories is oldest first.
func NewestFirst(posts []content.PostMetadata) []content.PostMetadata {
	out := slices.Clone(posts)
	slices.Reverse(out)
	return out
}

// FindPost returns the metadata whose slug is id.
func FindPost(posts []content.PostMetadata, id string) (content.PostMetadata, bool) {
	i := slices.IndexFunc(posts, func(p content.PostMetadata) bool { return p.Slug == id })
	if i < 0 {
		return content.PostMetadata{}, false
	}
	return posts[i], true
}

func findMeta(res content.Result[[]content.PostMetadata], id string) *content.PostMetadata {
	if !res.OK() {
		return nil
	}
	meta, ok := FindPost(res.Value, id)
	if !ok {
		return nil
	}
	return &meta
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04",
	"02/01/2006",
	"2 January 2006",
}

// parseDate reads a sidecar fecha value. Dates are free text, so callers
// must cope with ok being false.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
