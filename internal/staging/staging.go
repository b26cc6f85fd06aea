package staging

import (
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/texbuilder/internal/logfields"
)

// Manager hands out isolated staging directories for builds.
// Each acquired directory is fresh, empty, and owned by exactly one build.
type Manager struct {
	baseDir string
}

// NewManager creates a staging manager rooted at baseDir.
// An empty baseDir falls back to the system temp directory.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// Acquire creates a fresh staging directory that did not previously exist.
func (m *Manager) Acquire() (string, error) {
	dir, err := os.MkdirTemp(m.baseDir, "texbuilder-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	slog.Debug("Acquired staging directory", logfields.Path(dir))
	return dir, nil
}

// Release recursively removes an acquired staging directory.
// Must be called exactly once per Acquire, on every exit path.
func (m *Manager) Release(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to release staging directory: %w", err)
	}
	slog.Debug("Released staging directory", logfields.Path(dir))
	return nil
}
