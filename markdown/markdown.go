// Package markdown converts Markdown to HTML with goldmark.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options selects the goldmark features an Engine is built with.
type Options struct {
	// Extensions names goldmark extensions ("gfm", "table", "footnote", ...).
	// Empty means GFM plus footnotes.
	Extensions []string
	// HeadingIDs adds generated id attributes to headings.
	HeadingIDs bool
	// HardWraps renders single newlines as <br>.
	HardWraps bool
	// Unsafe passes raw HTML in the source through to the output.
	Unsafe bool
}

// Engine converts Markdown to HTML. It holds no per-call state and may be
// shared between goroutines.
type Engine struct {
	md goldmark.Markdown
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"footnote":      extension.Footnote,
	"definition":    extension.DefinitionList,
	"typographer":   extension.Typographer,
}

// NewEngine builds an Engine. Unknown extension names are an error.
func NewEngine(opts Options) (*Engine, error) {
	exts, err := collectExtensions(opts.Extensions)
	if err != nil {
		return nil, err
	}

	var parserOptions []parser.Option
	if opts.HeadingIDs {
		parserOptions = append(parserOptions, parser.WithAutoHeadingID())
	}

	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	return &Engine{md: goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithRendererOptions(rendererOptions...),
	)}, nil
}

func collectExtensions(names []string) ([]goldmark.Extender, error) {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Footnote}, nil
	}
	var exts []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			return nil, fmt.Errorf("markdown: unknown extension %q", name)
		}
		seen[key] = struct{}{}
		exts = append(exts, ext)
	}
	return exts, nil
}

// Convert renders src as HTML.
func (e *Engine) Convert(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("markdown: convert: %w", err)
	}
	return buf.Bytes(), nil
}

var defaultEngine, _ = NewEngine(Options{})

// ToHTML renders src with the default engine.
func ToHTML(src []byte) ([]byte, error) {
	return defaultEngine.Convert(src)
}
