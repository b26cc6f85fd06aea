package publish

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func stage(t *testing.T, files map[string]string, links map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	for name, target := range links {
		require.NoError(t, os.Symlink(target, filepath.Join(dir, name)))
	}
	return dir
}

func TestPublish_SkipsSourcesAndSymlinks(t *testing.T) {
	asset := filepath.Join(t.TempDir(), "figure.png")
	require.NoError(t, os.WriteFile(asset, []byte("png"), 0o644))

	staging := stage(t,
		map[string]string{
			"paper.pdf":        "pdf-bytes",
			"paper.log":        "log",
			"paper.synctex.gz": "synctex",
			"paper.tex":        "source",
		},
		map[string]string{"figure.png": asset},
	)
	out := filepath.Join(t.TempDir(), "out")

	require.NoError(t, Publish(staging, out, true))

	for _, name := range []string{"paper.pdf", "paper.log", "paper.synctex.gz"} {
		_, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err, "%s should be published", name)
	}
	for _, name := range []string{"paper.tex", "figure.png"} {
		_, err := os.Lstat(filepath.Join(out, name))
		require.True(t, os.IsNotExist(err), "%s must not be published", name)
	}
}

func TestPublish_OverwriteClearsStaleArtifacts(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "stale.pdf"), []byte("old"), 0o644))

	staging := stage(t, map[string]string{"paper.pdf": "new"}, nil)
	require.NoError(t, Publish(staging, out, true))

	_, err := os.Stat(filepath.Join(out, "stale.pdf"))
	require.True(t, os.IsNotExist(err), "stale artifact should be cleared on overwrite")
	content, err := os.ReadFile(filepath.Join(out, "paper.pdf"))
	require.NoError(t, err)
	require.Equal(t, "new", string(content))
}

func TestPublish_NoOverwritePreservesExistingEntries(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "paper.pdf"), []byte("last-good"), 0o644))

	staging := stage(t, map[string]string{
		"paper.pdf": "partial",
		"paper.log": "fresh-log",
	}, nil)
	require.NoError(t, Publish(staging, out, false))

	content, err := os.ReadFile(filepath.Join(out, "paper.pdf"))
	require.NoError(t, err)
	require.Equal(t, "last-good", string(content), "existing output must never be overwritten")

	content, err = os.ReadFile(filepath.Join(out, "paper.log"))
	require.NoError(t, err)
	require.Equal(t, "fresh-log", string(content), "missing entries should be added")
}

func TestPublish_CopiesDirectoriesRecursively(t *testing.T) {
	staging := stage(t, map[string]string{
		filepath.Join("_minted-paper", "cache.pygtex"): "cache",
	}, nil)
	out := filepath.Join(t.TempDir(), "out")

	require.NoError(t, Publish(staging, out, true))

	content, err := os.ReadFile(filepath.Join(out, "_minted-paper", "cache.pygtex"))
	require.NoError(t, err)
	require.Equal(t, "cache", string(content))
}

func TestRecover_ReturnsOriginalError(t *testing.T) {
	staging := stage(t, map[string]string{"paper.log": "log"}, nil)
	out := t.TempDir()
	cause := fmt.Errorf("engine exploded")

	err := Recover(staging, out, cause)
	require.Same(t, cause, err)

	_, statErr := os.Stat(filepath.Join(out, "paper.log"))
	require.NoError(t, statErr, "partial artifacts should be copied")
}

func TestRecover_CopyFailureDoesNotMaskCause(t *testing.T) {
	cause := fmt.Errorf("engine exploded")
	// Nonexistent staging dir forces the recovery copy itself to fail.
	err := Recover(filepath.Join(t.TempDir(), "gone"), t.TempDir(), cause)
	require.Same(t, cause, err)
}
