package content

import (
	"io/fs"
	"log/slog"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultSidecarPattern matches the metadata files of a post directory.
const DefaultSidecarPattern = "*.{yml,yaml}"

// Store reads posts from a filesystem. It keeps no state between calls and
// is safe for concurrent use.
type Store struct {
	fsys           fs.FS
	sidecarPattern string
	strict         bool
	singleSidecar  bool
	renderer       Renderer
	logger         *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithSidecarPattern overrides DefaultSidecarPattern. The pattern is a
// doublestar glob matched against file names.
func WithSidecarPattern(pattern string) Option {
	return func(s *Store) {
		if pattern != "" {
			s.sidecarPattern = pattern
		}
	}
}

// WithStrictScan makes the first per-entry failure abort the whole listing.
func WithStrictScan() Option {
	return func(s *Store) { s.strict = true }
}

// WithSingleSidecar reports post directories holding more than one sidecar
// as MalformedContent instead of collecting every sidecar.
func WithSingleSidecar() Option {
	return func(s *Store) { s.singleSidecar = true }
}

// WithRenderer replaces the markdown renderer.
func WithRenderer(r Renderer) Option {
	return func(s *Store) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithLogger sets the logger used for skipped entries.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a Store over fsys, whose root is the posts directory.
func New(fsys fs.FS, opts ...Option) (*Store, error) {
	s := &Store{
		fsys:           fsys,
		sidecarPattern: DefaultSidecarPattern,
		renderer:       NewGoldmarkRenderer(),
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !doublestar.ValidatePattern(s.sidecarPattern) {
		return nil, newError(KindIOFailure, "new store", "", doublestar.ErrBadPattern)
	}
	return s, nil
}

// NewDir returns a Store rooted at the directory root. The directory does
// not have to exist yet.
func NewDir(root string, opts ...Option) (*Store, error) {
	return New(rootFS(root), opts...)
}

func (s *Store) isSidecar(name string) bool {
	ok, err := doublestar.Match(s.sidecarPattern, name)
	return err == nil && ok
}
