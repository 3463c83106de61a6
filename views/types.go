package views

import "github.com/eringen/blogfs/content"

// SiteConfig holds the site-wide settings templates need.
// Every handler passes this to templates so nothing is hardcoded.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string
}

// ListingView is the post listing as a view sees it.
type ListingView struct {
	State content.State
	Posts []content.PostMetadata
	Err   *content.Error
}

// PostView is a single post as a view sees it. Meta is nil when the listing
// could not be loaded or does not mention the post.
type PostView struct {
	State content.State
	Slug  string
	Meta  *content.PostMetadata
	Body  content.HTML
	Err   *content.Error
}

// Listing converts a boundary result into a ListingView.
func Listing(res content.Result[[]content.PostMetadata]) ListingView {
	return ListingView{State: res.State(), Posts: res.Value, Err: res.Err}
}

// LoadingListing is the placeholder shown before the listing arrives.
func LoadingListing() ListingView {
	return ListingView{State: content.StateLoading}
}

// Post converts a boundary result into a PostView.
func Post(slug string, res content.Result[content.HTML], meta *content.PostMetadata) PostView {
	return PostView{State: res.State(), Slug: slug, Meta: meta, Body: res.Value, Err: res.Err}
}

// LoadingPost is the placeholder shown before the body arrives.
func LoadingPost(slug string, meta *content.PostMetadata) PostView {
	return PostView{State: content.StateLoading, Slug: slug, Meta: meta}
}
