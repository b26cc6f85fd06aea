// Package mirror populates a staging directory from the source tree.
//
// Entries whose extension marks them as rewritable documents are materialized
// (physically copied, since the build may rewrite them); everything else is
// mirrored (symlinked) so large assets never get copied.
package mirror

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/texbuilder/internal/fsutil"
	"git.home.luguber.info/inful/texbuilder/internal/logfields"
)

// documentExtensions mark entries the pass loop or preprocessing may rewrite.
var documentExtensions = map[string]bool{
	".tex":   true,
	".latex": true,
	".ltx":   true,
}

// IsDocument reports whether a filename's extension marks it as a
// rewritable document source.
func IsDocument(name string) bool {
	return documentExtensions[strings.ToLower(filepath.Ext(name))]
}

// Mirror shadows a source tree into a staging directory.
type Mirror struct {
	sourceDir string
	exclude   map[string]bool
}

// New creates a Mirror for sourceDir. The exclusion set should contain the
// caller's ignore list plus the output directory's own name, so a nested
// output directory is never pulled into staging.
func New(sourceDir string, exclude []string) *Mirror {
	set := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		set[name] = true
	}
	return &Mirror{sourceDir: sourceDir, exclude: set}
}

// Populate fills stagingDir with a full shadow of the source tree:
// documents are copied, all other entries are symlinked. Each set is applied
// as one concurrent batch; any member failure aborts the whole operation.
func (m *Mirror) Populate(stagingDir string) error {
	entries, err := os.ReadDir(m.sourceDir)
	if err != nil {
		return fmt.Errorf("read source directory: %w", err)
	}

	var materialize, link []string
	for _, entry := range entries {
		if m.exclude[entry.Name()] {
			continue
		}
		if !entry.IsDir() && IsDocument(entry.Name()) {
			materialize = append(materialize, entry.Name())
		} else {
			link = append(link, entry.Name())
		}
	}

	var g errgroup.Group
	for _, name := range link {
		g.Go(func() error {
			src, err := filepath.Abs(filepath.Join(m.sourceDir, name))
			if err != nil {
				return fmt.Errorf("resolve %s: %w", name, err)
			}
			if err := os.Symlink(src, filepath.Join(stagingDir, name)); err != nil {
				return fmt.Errorf("link %s: %w", name, err)
			}
			return nil
		})
	}
	for _, name := range materialize {
		g.Go(func() error {
			src := filepath.Join(m.sourceDir, name)
			if err := fsutil.CopyEntry(src, filepath.Join(stagingDir, name)); err != nil {
				return fmt.Errorf("materialize %s: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Debug("Populated staging directory",
		logfields.Path(stagingDir),
		slog.Int("mirrored", len(link)),
		slog.Int("materialized", len(materialize)))
	return nil
}
