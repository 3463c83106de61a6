package blogfs

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogfs/content"
)

type postsResponse struct {
	Posts []content.PostMetadata `json:"posts"`
}

type postResponse struct {
	Slug string       `json:"slug"`
	HTML content.HTML `json:"html"`
}

type apiError struct {
	Error apiErrorBody `json:"error"`
}

type apiErrorBody struct {
	Kind    content.Kind `json:"kind"`
	Message string       `json:"message"`
}

// statusFor maps a content failure to an HTTP status.
func statusFor(kind content.Kind) int {
	switch kind {
	case content.KindInvalidIdentifier:
		return http.StatusBadRequest
	case content.KindPostNotFound:
		return http.StatusNotFound
	case content.KindDirectoryUnreadable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) handleAPIPosts(c echo.Context) error {
	res := a.Content.GetPostsMeta(c.Request().Context())
	if !res.OK() {
		return a.writeAPIError(c, res.Err)
	}
	posts := res.Value
	if c.QueryParam("order") == "newest" {
		posts = NewestFirst(posts)
	}
	return c.JSON(http.StatusOK, postsResponse{Posts: posts})
}

func (a *App) handleAPIPost(c echo.Context) error {
	id := c.Param("id")
	res := a.Content.GetPost(c.Request().Context(), id)
	if !res.OK() {
		return a.writeAPIError(c, res.Err)
	}
	return c.JSON(http.StatusOK, postResponse{Slug: id, HTML: res.Value})
}

func (a *App) writeAPIError(c echo.Context, err *content.Error) error {
	code := statusFor(err.Kind)
	if code >= 500 {
		a.Logger.ErrorContext(c.Request().Context(), "content request failed", "kind", err.Kind.String(), "err", err)
	}
	return c.JSON(code, apiError{Error: apiErrorBody{Kind: err.Kind, Message: err.Error()}})
}
