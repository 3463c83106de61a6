package blogfs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/eringen/blogfs/content"
)

// SiteConfig holds all configuration for a blogfs site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD

	Addr     string `yaml:"addr"`      // Listen address (default ":3000")
	PostsDir string `yaml:"posts_dir"` // Posts root (default "posts")

	SidecarPattern string `yaml:"sidecar_pattern"` // Sidecar glob (default "*.{yml,yaml}")
	StrictScan     bool   `yaml:"strict_scan"`     // Abort listings on the first bad entry
	SingleSidecar  bool   `yaml:"single_sidecar"`  // Reject post dirs with several sidecars

	// RenderWait is how long a page handler waits for content before sending
	// the loading placeholder instead (default 250ms).
	RenderWait time.Duration `yaml:"render_wait"`

	AssetMaxWidth  int `yaml:"asset_max_width"`  // Images wider than this are scaled down (default 800)
	AssetRateLimit int `yaml:"asset_rate_limit"` // Image resizes per IP per minute (default 30)

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // Graceful shutdown budget (default 10s)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PostsDir == "" {
		c.PostsDir = "posts"
	}
	if c.SidecarPattern == "" {
		c.SidecarPattern = content.DefaultSidecarPattern
	}
	if c.RenderWait == 0 {
		c.RenderWait = 250 * time.Millisecond
	}
	if c.AssetMaxWidth == 0 {
		c.AssetMaxWidth = 800
	}
	if c.AssetRateLimit == 0 {
		c.AssetRateLimit = 30
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// LoadSiteConfig reads a YAML config file. A missing file yields the zero
// config so defaults and environment variables still apply.
func LoadSiteConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("blogfs: read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("blogfs: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with BLOG_* environment variables that are set.
func (c *SiteConfig) ApplyEnv() {
	c.Name = EnvOr("BLOG_NAME", c.Name)
	c.URL = EnvOr("BLOG_URL", c.URL)
	c.Description = EnvOr("BLOG_DESCRIPTION", c.Description)
	c.Author = EnvOr("BLOG_AUTHOR", c.Author)
	c.Addr = EnvOr("BLOG_ADDR", c.Addr)
	c.PostsDir = EnvOr("BLOG_POSTS_DIR", c.PostsDir)
	c.SidecarPattern = EnvOr("BLOG_SIDECAR_PATTERN", c.SidecarPattern)
	if v, err := strconv.ParseBool(os.Getenv("BLOG_STRICT_SCAN")); err == nil {
		c.StrictScan = v
	}
	if v, err := strconv.ParseBool(os.Getenv("BLOG_SINGLE_SIDECAR")); err == nil {
		c.SingleSidecar = v
	}
	if v, err := time.ParseDuration(os.Getenv("BLOG_RENDER_WAIT")); err == nil {
		c.RenderWait = v
	}
	if v, err := strconv.Atoi(os.Getenv("BLOG_ASSET_MAX_WIDTH")); err == nil {
		c.AssetMaxWidth = v
	}
	if v, err := strconv.Atoi(os.Getenv("BLOG_ASSET_RATE_LIMIT")); err == nil {
		c.AssetRateLimit = v
	}
	if v, err := time.ParseDuration(os.Getenv("BLOG_SHUTDOWN_TIMEOUT")); err == nil {
		c.ShutdownTimeout = v
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// StoreOptions translates the content settings of c into store options.
func (c SiteConfig) StoreOptions(logger *slog.Logger) []content.Option {
	opts := []content.Option{content.WithLogger(logger)}
	if c.SidecarPattern != "" {
		opts = append(opts, content.WithSidecarPattern(c.SidecarPattern))
	}
	if c.StrictScan {
		opts = append(opts, content.WithStrictScan())
	}
	if c.SingleSidecar {
		opts = append(opts, content.WithSingleSidecar())
	}
	return opts
}

// OpenStore opens the posts directory named by c, applying defaults first.
func OpenStore(c SiteConfig, logger *slog.Logger) (*content.Store, error) {
	c.setDefaults()
	return content.NewDir(c.PostsDir, c.StoreOptions(logger)...)
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger sets the structured logger used by the server and the store.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.Logger = l
		}
	}
}

// WithRegistry sets the Prometheus registry metrics are registered with
// and served from. Each App gets a private registry by default.
func WithRegistry(r *prometheus.Registry) Option {
	return func(a *App) {
		if r != nil {
			a.registry = r
		}
	}
}

// WithFS serves posts from fsys instead of Config.PostsDir.
func WithFS(fsys fs.FS) Option {
	return func(a *App) {
		a.fsys = fsys
	}
}

// WithViews replaces the default templates. Nil fields keep the default.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}
