package blogfs

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogfs/content"
	"github.com/eringen/blogfs/views"
)

func isPartial(c echo.Context, name string) bool {
	return c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == name
}

// ready returns the result of r if it finishes before ctx is done.
func ready[T any](ctx context.Context, r *content.Resource[T]) (content.Result[T], bool) {
	select {
	case <-r.Done():
		return r.Result()
	case <-ctx.Done():
		return content.Result[T]{}, false
	}
}

// pageStatus is the status a page is sent with for a content failure.
func pageStatus(err *content.Error) int {
	if err == nil {
		return http.StatusOK
	}
	return statusFor(err.Kind)
}

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	if isPartial(c, "posts") {
		res := a.Content.GetPostsMeta(ctx)
		return RenderStatus(c, pageStatus(res.Err), a.Views.PostsSection(newestListing(res)))
	}

	pending := a.Content.FetchPostsMeta(ctx)
	waitCtx, cancel := context.WithTimeout(ctx, a.Config.RenderWait)
	defer cancel()

	listing := views.LoadingListing()
	status := http.StatusOK
	if res, ok := ready(waitCtx, pending); ok {
		listing = newestListing(res)
		status = pageStatus(res.Err)
	}
	meta := views.PageMeta{
		URL:    BuildURL(a.Config.URL),
		OGType: "website",
	}
	return RenderStatus(c, status, a.Views.Home(a.siteView(), meta, listing))
}

func newestListing(res content.Result[[]content.PostMetadata]) views.ListingView {
	listing := views.Listing(res)
	listing.Posts = NewestFirst(listing.Posts)
	return listing
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if err := content.ValidateIdentifier(id); err != nil {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.siteView()))
	}

	// The body and the listing (for title and summary) load independently;
	// a failed listing still lets the body render.
	pendingPost := a.Content.FetchPost(ctx, id)
	pendingList := a.Content.FetchPostsMeta(ctx)

	if isPartial(c, "post") {
		res := pendingPost.Wait(ctx)
		meta := findMeta(pendingList.Wait(ctx), id)
		return RenderStatus(c, pageStatus(res.Err), a.Views.PostSection(views.Post(id, res, meta)))
	}

	waitCtx, cancel := context.WithTimeout(ctx, a.Config.RenderWait)
	defer cancel()

	var meta *content.PostMetadata
	if list, ok := ready(waitCtx, pendingList); ok {
		meta = findMeta(list, id)
	}
	post := views.LoadingPost(id, meta)
	status := http.StatusOK
	if res, ok := ready(waitCtx, pendingPost); ok {
		if res.Err != nil && res.Err.Kind == content.KindPostNotFound {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.siteView()))
		}
		post = views.Post(id, res, meta)
		status = pageStatus(res.Err)
	}

	page := views.PageMeta{
		Title:  id,
		URL:    BuildURL(a.Config.URL, "post", id),
		OGType: "article",
	}
	if meta != nil {
		page.Title = meta.Title
		page.Description = meta.Summary
		page.JSONLD = views.BlogPostingJsonLD(a.siteView(), *meta)
	}
	return RenderStatus(c, status, a.Views.Post(a.siteView(), page, post))
}

func (a *App) handleSitemap(c echo.Context) error {
	res := a.Content.GetPostsMeta(c.Request().Context())
	if !res.OK() {
		return echo.NewHTTPError(statusFor(res.Err.Kind)).SetInternal(res.Err)
	}
	return a.renderSitemap(c, NewestFirst(res.Value))
}

func (a *App) handleFeed(c echo.Context) error {
	res := a.Content.GetPostsMeta(c.Request().Context())
	if !res.OK() {
		return echo.NewHTTPError(statusFor(res.Err.Kind)).SetInternal(res.Err)
	}
	return a.renderRSS(c, NewestFirst(res.Value))
}

func handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		a.Echo.DefaultHTTPErrorHandler(err, c)
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.siteView()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.ErrorContext(c.Request().Context(), "server error", "err", err, "uri", c.Request().RequestURI)
		_ = RenderStatus(c, code, a.Views.ServerError(a.siteView()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
