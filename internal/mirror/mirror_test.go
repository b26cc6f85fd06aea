package mirror

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestPopulate_DocumentsCopiedAssetsLinked(t *testing.T) {
	src := t.TempDir()
	staging := t.TempDir()
	writeFile(t, filepath.Join(src, "paper.tex"), "\\documentclass{article}")
	writeFile(t, filepath.Join(src, "figure.png"), "png-bytes")
	writeFile(t, filepath.Join(src, "refs.bib"), "@book{k}")

	m := New(src, nil)
	require.NoError(t, m.Populate(staging))

	// Document is a real copy.
	info, err := os.Lstat(filepath.Join(staging, "paper.tex"))
	require.NoError(t, err)
	require.Zero(t, info.Mode()&os.ModeSymlink, "document should be materialized, not linked")

	// Assets are symlinks.
	for _, name := range []string{"figure.png", "refs.bib"} {
		info, err := os.Lstat(filepath.Join(staging, name))
		require.NoError(t, err)
		require.NotZero(t, info.Mode()&os.ModeSymlink, "%s should be a symlink", name)
	}
}

func TestPopulate_DirectoriesAreLinked(t *testing.T) {
	src := t.TempDir()
	staging := t.TempDir()
	writeFile(t, filepath.Join(src, "chapters", "intro.tex"), "intro")

	m := New(src, nil)
	require.NoError(t, m.Populate(staging))

	info, err := os.Lstat(filepath.Join(staging, "chapters"))
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&os.ModeSymlink, "directories go to the mirror set")

	// Links resolve back to the source tree.
	content, err := os.ReadFile(filepath.Join(staging, "chapters", "intro.tex"))
	require.NoError(t, err)
	require.Equal(t, "intro", string(content))
}

func TestPopulate_ExcludesOutputDirAndIgnoreList(t *testing.T) {
	src := t.TempDir()
	staging := t.TempDir()
	writeFile(t, filepath.Join(src, "paper.tex"), "doc")
	writeFile(t, filepath.Join(src, "out", "paper.pdf"), "pdf")
	writeFile(t, filepath.Join(src, ".git", "HEAD"), "ref")

	m := New(src, []string{"out", ".git"})
	require.NoError(t, m.Populate(staging))

	for _, name := range []string{"out", ".git"} {
		_, err := os.Lstat(filepath.Join(staging, name))
		require.True(t, os.IsNotExist(err), "%s must not appear in staging", name)
	}
}

func TestPopulate_EveryEntryHandledExactlyOnce(t *testing.T) {
	src := t.TempDir()
	staging := t.TempDir()
	writeFile(t, filepath.Join(src, "main.tex"), "doc")
	writeFile(t, filepath.Join(src, "style.sty"), "sty")

	m := New(src, nil)
	require.NoError(t, m.Populate(staging))

	entries, err := os.ReadDir(staging)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestIsDocument(t *testing.T) {
	require.True(t, IsDocument("paper.tex"))
	require.True(t, IsDocument("PAPER.TEX"))
	require.True(t, IsDocument("a.latex"))
	require.True(t, IsDocument("a.ltx"))
	require.False(t, IsDocument("refs.bib"))
	require.False(t, IsDocument("figure.png"))
}
