package markdown

import (
	"bytes"
	"strings"
	"testing"
)

func render(t *testing.T, input string) string {
	t.Helper()
	out, err := ToHTML([]byte(input))
	if err != nil {
		t.Fatalf("ToHTML(%q) error: %v", input, err)
	}
	return string(out)
}

func TestToHTMLHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", "<h1>Heading 1</h1>\n"},
		{"## Heading 2", "<h2>Heading 2</h2>\n"},
		{"### Heading 3", "<h3>Heading 3</h3>\n"},
	}
	for _, tt := range tests {
		got := render(t, tt.input)
		if got != tt.expected {
			t.Errorf("ToHTML(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestToHTMLInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"_italic_", "<em>italic</em>"},
		{"**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
		{"use `fmt.Println` here", "use <code>fmt.Println</code> here"},
		{"`**not bold**`", "<code>**not bold**</code>"},
		{"~~gone~~", "<del>gone</del>"},
	}
	for _, tt := range tests {
		got := render(t, tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("ToHTML(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestToHTMLHeadingAndBody(t *testing.T) {
	got := render(t, "# Hi\n\nBody **text**")
	for _, want := range []string{"<h1>Hi</h1>", "<strong>text</strong>"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestToHTMLLinkWithUnderscoresInURL(t *testing.T) {
	input := "[Wikipedia](https://en.wikipedia.org/wiki/Some_Article_Title)"
	want := `<a href="https://en.wikipedia.org/wiki/Some_Article_Title">Wikipedia</a>`
	if got := render(t, input); !strings.Contains(got, want) {
		t.Errorf("ToHTML(%q)\n  got:  %q\n  want: %q", input, got, want)
	}
}

func TestToHTMLDropsDangerousURL(t *testing.T) {
	got := render(t, "[x](javascript:alert(1))")
	if strings.Contains(got, "javascript:") {
		t.Errorf("dangerous link kept: %q", got)
	}
}

func TestToHTMLOmitsRawHTML(t *testing.T) {
	got := render(t, "<script>alert(1)</script>\n\ntext")
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML kept: %q", got)
	}
}

func TestToHTMLCodeBlockWithLanguage(t *testing.T) {
	got := render(t, "```go\nfmt.Println(\"hello\")\n```")
	if !strings.Contains(got, `<code class="language-go">`) {
		t.Errorf("code block should have language-go class: %q", got)
	}
	if !strings.Contains(got, "<pre>") {
		t.Errorf("code block should be preformatted: %q", got)
	}
}

func TestToHTMLList(t *testing.T) {
	got := render(t, "- item 1\n- item 2")
	expected := "<ul>\n<li>item 1</li>\n<li>item 2</li>\n</ul>\n"
	if got != expected {
		t.Errorf("ToHTML list = %q, want %q", got, expected)
	}
}

func TestToHTMLOrderedList(t *testing.T) {
	got := render(t, "1. first\n2. second\n3. third")
	expected := "<ol>\n<li>first</li>\n<li>second</li>\n<li>third</li>\n</ol>\n"
	if got != expected {
		t.Errorf("ToHTML ordered list = %q, want %q", got, expected)
	}
}

func TestToHTMLTable(t *testing.T) {
	got := render(t, "| a | b |\n|---|---|\n| 1 | 2 |")
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>1</td>") {
		t.Errorf("table not rendered: %q", got)
	}
}

func TestNewEngineOptions(t *testing.T) {
	e, err := NewEngine(Options{HeadingIDs: true, Extensions: []string{"table"}})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	out, err := e.Convert([]byte("# Hi there"))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got := string(out); got != "<h1 id=\"hi-there\">Hi there</h1>\n" {
		t.Errorf("Convert = %q", got)
	}

	if _, err := NewEngine(Options{Extensions: []string{"nope"}}); err == nil {
		t.Error("expected error for unknown extension")
	}
}

func TestConvertIsDeterministic(t *testing.T) {
	src := []byte("# Title\n\n- a\n- b\n\n```\ncode\n```\n")
	first, err := ToHTML(src)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	second, err := ToHTML(src)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("outputs differ:\n%q\n%q", first, second)
	}
}
