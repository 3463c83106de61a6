package blogfs

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/eringen/blogfs/content"
)

const (
	jpegQuality = 80
	// maxResizePixels bounds the decoded size of an image we agree to scale.
	maxResizePixels = 40 << 20
)

// needsResize reports whether an image of the given dimensions is wider
// than maxWidth and small enough to decode. The pixel count is checked
// before anything is allocated for the image itself.
func needsResize(cfg image.Config, maxWidth int) bool {
	if cfg.Width <= maxWidth || cfg.Width <= 0 || cfg.Height <= 0 {
		return false
	}
	return int64(cfg.Width)*int64(cfg.Height) <= maxResizePixels
}

// scaleImage decodes src and, when it is wider than maxWidth, scales it down
// keeping the aspect ratio. The result is always JPEG.
func scaleImage(src []byte, maxWidth int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxWidth {
		newH := max(h*maxWidth/w, 1)
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func isRaster(contentType string) bool {
	switch strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]) {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
		return true
	}
	return false
}

// handleAsset serves a file that lives next to a post. Raster images wider
// than the configured (or requested ?w=) width are scaled down, subject to
// the per-IP resize limit and maxResizePixels; otherwise the original bytes
// are sent.
func (a *App) handleAsset(c echo.Context) error {
	ctx := c.Request().Context()
	asset, err := a.Store.ReadAsset(ctx, c.Param("dir"), c.Param("name"))
	if err != nil {
		ce := content.AsError("read asset", err)
		return echo.NewHTTPError(statusFor(ce.Kind)).SetInternal(ce)
	}

	maxWidth := a.Config.AssetMaxWidth
	if w, err := strconv.Atoi(c.QueryParam("w")); err == nil && w > 0 && w < maxWidth {
		maxWidth = w
	}

	if isRaster(asset.ContentType) {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(asset.Data))
		if err == nil && needsResize(cfg, maxWidth) && a.assetLimiter.Allow(c.RealIP()) {
			data, err := scaleImage(asset.Data, maxWidth)
			if err == nil {
				return c.Blob(http.StatusOK, "image/jpeg", data)
			}
			a.Logger.WarnContext(ctx, "asset resize failed", "asset", asset.Name, "err", err)
		}
	}
	return c.Blob(http.StatusOK, asset.ContentType, asset.Data)
}
