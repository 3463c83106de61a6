// Package blogfs serves a personal blog straight from a directory of posts.
// Each post directory holds a YAML sidecar and a markdown body; the content
// package reads them on every request and this package exposes the result
// over HTTP as JSON, as server-rendered pages, as RSS and as a sitemap.
//
// Users may replace the templates through ViewFuncs; blogfs handles the
// handler logic, middleware and metrics.
package blogfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/eringen/blogfs/content"
	"github.com/eringen/blogfs/views"
)

// ViewFuncs holds the templ components the handlers render. This is the
// inversion-of-control mechanism that lets users own the templates.
type ViewFuncs struct {
	Home         func(site views.SiteConfig, meta views.PageMeta, listing views.ListingView) templ.Component
	PostsSection func(listing views.ListingView) templ.Component
	Post         func(site views.SiteConfig, meta views.PageMeta, post views.PostView) templ.Component
	PostSection  func(post views.PostView) templ.Component
	NotFound     func(site views.SiteConfig) templ.Component
	ServerError  func(site views.SiteConfig) templ.Component
}

// DefaultViews returns the built-in templates.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:         views.Home,
		PostsSection: views.PostsSection,
		Post:         views.PostPage,
		PostSection:  views.PostSection,
		NotFound:     views.NotFound,
		ServerError:  views.ServerError,
	}
}

func (v *ViewFuncs) fillDefaults() {
	d := DefaultViews()
	if v.Home == nil {
		v.Home = d.Home
	}
	if v.PostsSection == nil {
		v.PostsSection = d.PostsSection
	}
	if v.Post == nil {
		v.Post = d.Post
	}
	if v.PostSection == nil {
		v.PostSection = d.PostSection
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = d.ServerError
	}
}

// App is the central blogfs application. It wires together the content
// store, the boundary, handlers, middleware and templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *content.Store
	Content *content.Boundary
	Views   ViewFuncs
	Logger  *slog.Logger

	fsys         fs.FS
	registry     *prometheus.Registry
	metrics      *contentMetrics
	assetLimiter *RateLimiter
	customRoutes []func(*App)
}

// New builds an App: content store, metrics, middleware and routes. The
// posts directory is not touched until the first request.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Logger: slog.New(slog.NewJSONHandler(os.Stderr, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Views.fillDefaults()
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	metrics, err := newContentMetrics(a.registry)
	if err != nil {
		return nil, fmt.Errorf("blogfs: register metrics: %w", err)
	}
	a.metrics = metrics

	store, err := a.newStore()
	if err != nil {
		return nil, fmt.Errorf("blogfs: init store: %w", err)
	}
	a.Store = store
	a.Content = content.NewBoundary(store, content.WithObserver(a.metrics.observe))

	a.assetLimiter = NewRateLimiter(a.Config.AssetRateLimit, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

func (a *App) newStore() (*content.Store, error) {
	opts := a.Config.StoreOptions(a.Logger.With("component", "content"))
	if a.fsys != nil {
		return content.New(a.fsys, opts...)
	}
	return content.NewDir(a.Config.PostsDir, opts...)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/", a.handleHome)
	e.GET("/post/:id", a.handlePost)
	e.GET("/assets/:dir/:name", a.handleAsset)

	api := e.Group("/api")
	api.GET("/posts", a.handleAPIPosts)
	api.GET("/posts/:id", a.handleAPIPost)

	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/metrics", a.metricsHandler())
	e.GET("/healthz", handleHealth)
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// gracefully within Config.ShutdownTimeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("listening", "addr", a.Config.Addr, "posts", a.Config.PostsDir)
		errCh <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	a.Logger.Info("shutting down")
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("blogfs: shutdown: %w", err)
	}
	return nil
}

// Close releases background resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.assetLimiter != nil {
		a.assetLimiter.Stop()
	}
	return a.Echo.Close()
}

func (a *App) siteView() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}
