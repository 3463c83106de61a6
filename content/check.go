package content

import (
	"context"
	"fmt"
	"io/fs"
)

// Problem is one violation of the posts directory layout.
type Problem struct {
	Kind    Kind   `json:"kind"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s: %s", p.Path, p.Kind, p.Message)
}

// Report is the result of Check.
type Report struct {
	Posts    int       `json:"posts"`
	Problems []Problem `json:"problems"`
}

// OK reports whether no problems were found.
func (r Report) OK() bool { return len(r.Problems) == 0 }

// Check scans the store without aborting on bad entries and verifies that
// every sidecar names a valid identifier for an existing body file inside
// its own directory, that
// no directory holds several sidecars and that no slug is declared twice.
// Only an unreadable posts root is returned as an error.
func Check(ctx context.Context, s *Store) (Report, error) {
	listing, err := s.scan(ctx, false)
	if err != nil {
		return Report{}, err
	}

	report := Report{Posts: len(listing.Posts), Problems: []Problem{}}
	for _, w := range listing.Warnings {
		report.add(w.Kind, w.Path, errMessage(w))
	}

	perDir := map[string]int{}
	slugs := map[string]string{}
	for _, meta := range listing.Posts {
		perDir[meta.Dir]++
		if perDir[meta.Dir] == 2 {
			report.add(KindMalformedContent, meta.Dir, "directory holds more than one sidecar")
		}
		if err := ValidateIdentifier(meta.Slug); err != nil {
			report.add(KindInvalidIdentifier, meta.Dir, errMessage(AsError("check", err)))
			continue
		}
		if first, ok := slugs[meta.Slug]; ok {
			report.add(KindMalformedContent, meta.Dir,
				fmt.Sprintf("archivo %q already declared in %s", meta.Slug, first))
			continue
		}
		slugs[meta.Slug] = meta.Dir

		if stem := Stem(meta.Slug); stem != meta.Dir {
			report.add(KindMalformedContent, meta.Dir,
				fmt.Sprintf("archivo %q resolves to directory %q", meta.Slug, stem))
			continue
		}
		p := bodyPath(meta.Slug)
		info, err := fs.Stat(s.fsys, p)
		switch {
		case err != nil && isNotExist(err):
			report.add(KindPostNotFound, p, "body file referenced by archivo does not exist")
		case err != nil:
			report.add(KindIOFailure, p, err.Error())
		case !info.Mode().IsRegular():
			report.add(KindPostNotFound, p, "body is not a regular file")
		}
	}
	return report, nil
}

func (r *Report) add(kind Kind, path, msg string) {
	r.Problems = append(r.Problems, Problem{Kind: kind, Path: path, Message: msg})
}

func errMessage(e *Error) string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}
