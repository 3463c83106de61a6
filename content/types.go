// Package content loads blog posts from a directory tree. Each post lives in
// its own directory next to a YAML sidecar that describes it:
//
//	posts/
//	  2024-01-03-hola/
//	    2024-01-03-hola.yml   # descripcion, titulo, fecha, archivo
//	    2024-01-03-hola.md    # body, named by archivo
//
// Nothing is cached: every call reads the filesystem again.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// PostMetadata describes one post as declared by its sidecar file.
type PostMetadata struct {
	Slug          string `yaml:"archivo" json:"slug"`
	Title         string `yaml:"titulo" json:"title"`
	Summary       string `yaml:"descripcion" json:"summary"`
	PublishedDate string `yaml:"fecha" json:"publishedDate"`

	// Dir is the post directory the sidecar was found in.
	Dir string `yaml:"-" json:"dir"`
}

// HTML is markdown rendered for direct inclusion in a page.
type HTML string

const maxIdentifierLen = 255

// Identifiers start with a letter or digit from any script. Separators,
// spaces and control characters never match.
var reIdentifier = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{M}\p{N}._-]*$`)

// ValidateIdentifier checks that id is safe to use as a single path element
// inside a post directory.
func ValidateIdentifier(id string) error {
	err := validation.Validate(id,
		validation.Required,
		validation.Length(1, maxIdentifierLen),
		validation.Match(reIdentifier).Error("must contain only letters, digits, marks, '.', '_' or '-'"),
		validation.By(func(value any) error {
			if strings.Contains(value.(string), "..") {
				return errors.New("must not contain '..'")
			}
			return nil
		}),
	)
	if err != nil {
		return newError(KindInvalidIdentifier, "validate identifier", "", fmt.Errorf("%q %w", id, err))
	}
	return nil
}

// Stem returns the part of id before its first '.', which names the post
// directory holding the file.
func Stem(id string) string {
	if i := strings.IndexByte(id, '.'); i >= 0 {
		return id[:i]
	}
	return id
}

// bodyPath is the slash-separated location of id relative to the posts root.
func bodyPath(id string) string {
	return Stem(id) + "/" + id
}

// sidecarKeys are the keys every sidecar must declare.
var sidecarKeys = validation.Map(
	validation.Key("descripcion"),
	validation.Key("titulo"),
	validation.Key("fecha"),
	validation.Key("archivo"),
).AllowExtraKeys()

// DecodeSidecar parses sidecar bytes. The four schema keys must be present;
// their values may be empty or null and any other keys are ignored. Whether
// archivo names a usable file is left to RenderPost and Check.
func DecodeSidecar(data []byte) (PostMetadata, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return PostMetadata{}, errors.New("empty sidecar")
		}
		return PostMetadata{}, err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return PostMetadata{}, errors.New("sidecar is not a mapping")
	}
	root := doc.Content[0]

	var keys map[string]any
	if err := root.Decode(&keys); err != nil {
		return PostMetadata{}, err
	}
	if err := validation.Validate(keys, sidecarKeys); err != nil {
		return PostMetadata{}, err
	}

	var meta PostMetadata
	if err := root.Decode(&meta); err != nil {
		return PostMetadata{}, err
	}
	return meta, nil
}
