package content

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func sidecar(slug, title, summary, date string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(fmt.Sprintf(
		"descripcion: %q\ntitulo: %q\nfecha: %q\narchivo: %q\n", summary, title, date, slug))}
}

func file(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}

// post adds a well-formed post directory named after the stem of slug.
func post(fsys fstest.MapFS, slug, title string) {
	dir := Stem(slug)
	fsys[dir+"/"+dir+".yml"] = sidecar(slug, title, "about "+title, "2024-01-01")
	fsys[dir+"/"+slug] = file("# " + title + "\n")
}

func newStore(t *testing.T, fsys fs.FS, opts ...Option) *Store {
	t.Helper()
	s, err := New(fsys, opts...)
	require.NoError(t, err)
	return s
}

// writeTree materialises files (slash paths) under a fresh temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, data := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	}
	return root
}

// countingFS records how many times Open was called.
type countingFS struct {
	fs.FS
	opens atomic.Int64
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.opens.Add(1)
	return c.FS.Open(name)
}
