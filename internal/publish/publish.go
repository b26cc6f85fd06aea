// Package publish copies qualifying build artifacts from the staging
// directory into the caller's output directory.
package publish

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/texbuilder/internal/fsutil"
	"git.home.luguber.info/inful/texbuilder/internal/logfields"
	"git.home.luguber.info/inful/texbuilder/internal/mirror"
)

// Publish copies staging-directory artifacts into outputDir. Document
// sources and symlinks (mirrored inputs, not build products) are skipped.
//
// With overwrite=true the output directory is cleared first so no stale
// artifacts from a previous build linger. With overwrite=false existing
// output entries are left untouched and only missing ones are added.
func Publish(stagingDir, outputDir string, overwrite bool) error {
	if overwrite {
		if err := os.RemoveAll(outputDir); err != nil {
			return fmt.Errorf("clear output directory: %w", err)
		}
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		return fmt.Errorf("read staging directory: %w", err)
	}

	var g errgroup.Group
	published := 0
	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink != 0 {
			continue // mirrored input
		}
		if !entry.IsDir() && mirror.IsDocument(entry.Name()) {
			continue // document source, not a build product
		}
		dst := filepath.Join(outputDir, entry.Name())
		if !overwrite {
			if _, err := os.Lstat(dst); err == nil {
				continue // never destroy the last good build
			}
		}
		published++
		src := filepath.Join(stagingDir, entry.Name())
		g.Go(func() error {
			if err := fsutil.CopyEntry(src, dst); err != nil {
				return fmt.Errorf("publish %s: %w", filepath.Base(dst), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Debug("Published build artifacts",
		logfields.Output(outputDir),
		slog.Int("entries", published),
		slog.Bool("overwrite", overwrite))
	return nil
}
