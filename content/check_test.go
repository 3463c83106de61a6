package content

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckWellFormedTree(t *testing.T) {
	fsys := fstest.MapFS{}
	post(fsys, "a.md", "A")
	post(fsys, "b.md", "B")

	report, err := Check(context.Background(), newStore(t, fsys))
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 2, report.Posts)
}

func TestCheckReportsLayoutProblems(t *testing.T) {
	fsys := fstest.MapFS{
		"ghost/ghost.yml":    sidecar("ghost.md", "Ghost", "d", "f"),
		"moved/moved.yml":    sidecar("elsewhere.md", "Moved", "d", "f"),
		"pair/pair.yml":      sidecar("pair.md", "One", "d", "f"),
		"pair/pair.alt.yml":  sidecar("pair.alt.md", "Two", "d", "f"),
		"pair/pair.md":       file("one"),
		"pair/pair.alt.md":   file("two"),
		"broken/broken.yml":  file("titulo: ["),
		"folder/folder.yml":  sidecar("folder.md", "Folder", "d", "f"),
		"folder/folder.md/x": file("dir, not file"),
		"copy/copy.yml":      sidecar("pair.md", "Copy", "d", "f"),
	}

	report, err := Check(context.Background(), newStore(t, fsys))
	require.NoError(t, err)
	require.False(t, report.OK())

	got := map[string]Kind{}
	for _, p := range report.Problems {
		got[p.Path] = p.Kind
	}
	assert.Equal(t, map[string]Kind{
		"broken/broken.yml": KindMalformedMetadata,
		"copy":              KindMalformedContent,
		"folder/folder.md":  KindPostNotFound,
		"ghost/ghost.md":    KindPostNotFound,
		"moved":             KindMalformedContent,
		"pair":              KindMalformedContent,
	}, got)
	assert.Equal(t, 6, report.Posts)
}

func TestCheckReportsInvalidArchivo(t *testing.T) {
	fsys := fstest.MapFS{
		"escape/escape.yml": sidecar("../escape.md", "Escape", "d", "f"),
		"blank/blank.yml":   sidecar("", "Blank", "d", "f"),
	}
	post(fsys, "ñandú.md", "Ñandú")

	report, err := Check(context.Background(), newStore(t, fsys))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Posts)

	got := map[string]Kind{}
	for _, p := range report.Problems {
		got[p.Path] = p.Kind
	}
	assert.Equal(t, map[string]Kind{
		"blank":  KindInvalidIdentifier,
		"escape": KindInvalidIdentifier,
	}, got)
}

func TestCheckIgnoresStrictMode(t *testing.T) {
	fsys := fstest.MapFS{"bad/bad.yml": file("nope: true\n")}
	post(fsys, "a.md", "A")

	report, err := Check(context.Background(), newStore(t, fsys, WithStrictScan()))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Posts)
	require.Len(t, report.Problems, 1)
	assert.Equal(t, KindMalformedMetadata, report.Problems[0].Kind)
}

func TestCheckUnreadableRoot(t *testing.T) {
	s, err := NewDir(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)

	_, err = Check(context.Background(), s)
	assert.ErrorIs(t, err, ErrDirectoryUnreadable)
}

func TestProblemString(t *testing.T) {
	p := Problem{Kind: KindPostNotFound, Path: "a/a.md", Message: "gone"}
	assert.Equal(t, "a/a.md: PostNotFound: gone", p.String())
}
