package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"syscall"

	"github.com/eringen/blogfs/markdown"
)

// Renderer turns a markdown body into HTML.
type Renderer interface {
	Render(src []byte) ([]byte, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(src []byte) ([]byte, error)

func (f RendererFunc) Render(src []byte) ([]byte, error) { return f(src) }

// NewGoldmarkRenderer returns the default CommonMark + GFM renderer.
func NewGoldmarkRenderer() Renderer {
	return RendererFunc(markdown.ToHTML)
}

// RenderPost reads the body addressed by identifier and returns it as HTML.
// The body lives at <stem>/<identifier> where stem is the identifier up to
// its first '.'.
func (s *Store) RenderPost(ctx context.Context, identifier string) (HTML, error) {
	const op = "render post"

	src, p, err := s.readContentFile(ctx, op, identifier, bodyPath)
	if err != nil {
		return "", err
	}
	out, err := s.renderer.Render(src)
	if err != nil {
		return "", newError(KindIOFailure, op, p, err)
	}
	return HTML(out), nil
}

// Asset is a non-markdown content file read from a post directory.
type Asset struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReadAsset reads the file name from the post directory dir. Both parts go
// through ValidateIdentifier.
func (s *Store) ReadAsset(ctx context.Context, dir, name string) (Asset, error) {
	const op = "read asset"

	if err := ValidateIdentifier(dir); err != nil {
		return Asset{}, err
	}
	data, _, err := s.readContentFile(ctx, op, name, func(id string) string {
		return dir + "/" + id
	})
	if err != nil {
		return Asset{}, err
	}
	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return Asset{Name: name, ContentType: ct, Data: data}, nil
}

func (s *Store) readContentFile(ctx context.Context, op, identifier string, locate func(string) string) ([]byte, string, error) {
	if err := ValidateIdentifier(identifier); err != nil {
		return nil, "", err
	}
	if err := ctx.Err(); err != nil {
		return nil, "", newError(KindIOFailure, op, "", err)
	}

	p := locate(identifier)
	info, err := fs.Stat(s.fsys, p)
	if err != nil {
		if isNotExist(err) {
			return nil, p, newError(KindPostNotFound, op, p, err)
		}
		return nil, p, newError(KindIOFailure, op, p, err)
	}
	if !info.Mode().IsRegular() {
		return nil, p, newError(KindPostNotFound, op, p, fmt.Errorf("not a regular file (%s)", info.Mode().Type()))
	}

	data, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		if isNotExist(err) {
			return nil, p, newError(KindPostNotFound, op, p, err)
		}
		return nil, p, newError(KindIOFailure, op, p, err)
	}
	return data, p, nil
}

// isNotExist also treats a file standing where the post directory should be
// as a missing post.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
