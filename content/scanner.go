package content

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Listing is the outcome of a scan: the metadata found, in discovery order,
// and the entries that were skipped.
type Listing struct {
	Posts    []PostMetadata
	Warnings []*Error
}

// ListPosts returns one record per sidecar found under the posts root,
// ordered by directory name and then sidecar name. The order is lexical, so
// reversing it yields newest first only when directory names start with a
// sortable date such as 2024-01-03. Skipped entries are logged at warn
// level; use Scan to inspect them.
func (s *Store) ListPosts(ctx context.Context) ([]PostMetadata, error) {
	listing, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range listing.Warnings {
		s.logger.Warn("skipped post entry", "kind", w.Kind.String(), "path", w.Path, "err", w.Err)
	}
	return listing.Posts, nil
}

// Scan walks the first level of the posts root and decodes every sidecar.
// An unreadable root is always an error. Other failures abort the scan only
// when the store was built WithStrictScan; otherwise they are collected in
// Listing.Warnings and the entry is skipped.
func (s *Store) Scan(ctx context.Context) (Listing, error) {
	return s.scan(ctx, s.strict)
}

func (s *Store) scan(ctx context.Context, strict bool) (Listing, error) {
	const op = "list posts"

	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return Listing{}, newError(KindDirectoryUnreadable, op, ".", err)
	}

	listing := Listing{Posts: []PostMetadata{}}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return Listing{}, newError(KindIOFailure, op, "", err)
		}
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		posts, problems := s.scanDir(op, entry.Name())
		if len(problems) > 0 && strict {
			return Listing{}, problems[0]
		}
		listing.Posts = append(listing.Posts, posts...)
		listing.Warnings = append(listing.Warnings, problems...)
	}
	return listing, nil
}

func (s *Store) scanDir(op, dir string) ([]PostMetadata, []*Error) {
	files, err := fs.ReadDir(s.fsys, dir)
	if err != nil {
		return nil, []*Error{newError(KindDirectoryUnreadable, op, dir, err)}
	}

	var sidecars []string
	for _, f := range files {
		if f.IsDir() || !s.isSidecar(f.Name()) {
			continue
		}
		sidecars = append(sidecars, path.Join(dir, f.Name()))
	}
	if s.singleSidecar && len(sidecars) > 1 {
		return nil, []*Error{newError(KindMalformedContent, op, dir,
			fmt.Errorf("%d sidecar files: %s", len(sidecars), strings.Join(sidecars, ", ")))}
	}

	var (
		posts    []PostMetadata
		problems []*Error
	)
	for _, p := range sidecars {
		data, err := fs.ReadFile(s.fsys, p)
		if err != nil {
			problems = append(problems, newError(KindIOFailure, op, p, err))
			continue
		}
		meta, err := DecodeSidecar(data)
		if err != nil {
			problems = append(problems, newError(KindMalformedMetadata, op, p, err))
			continue
		}
		meta.Dir = dir
		posts = append(posts, meta)
	}
	return posts, problems
}
