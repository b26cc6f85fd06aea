package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_AcquireCreatesFreshEmptyDirectory(t *testing.T) {
	base := t.TempDir()
	mgr := NewManager(base)

	dir, err := mgr.Acquire()
	if err != nil {
		t.Fatalf("Acquire() failed: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(dir), "texbuilder-") {
		t.Errorf("expected texbuilder- prefixed directory, got: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("staging directory not empty: %d entries", len(entries))
	}
}

func TestManager_AcquireTwiceYieldsDistinctDirectories(t *testing.T) {
	mgr := NewManager(t.TempDir())

	first, err := mgr.Acquire()
	if err != nil {
		t.Fatalf("first Acquire() failed: %v", err)
	}
	second, err := mgr.Acquire()
	if err != nil {
		t.Fatalf("second Acquire() failed: %v", err)
	}
	if first == second {
		t.Errorf("expected distinct staging directories, both were %s", first)
	}
}

func TestManager_ReleaseRemovesDirectoryAndContents(t *testing.T) {
	mgr := NewManager(t.TempDir())

	dir, err := mgr.Acquire()
	if err != nil {
		t.Fatalf("Acquire() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.log"), []byte("log"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := mgr.Release(dir); err != nil {
		t.Fatalf("Release() failed: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("staging directory still exists after release: %s", dir)
	}
}

func TestManager_ReleaseEmptyPathIsNoop(t *testing.T) {
	mgr := NewManager(t.TempDir())
	if err := mgr.Release(""); err != nil {
		t.Errorf("Release(\"\") should be a no-op, got: %v", err)
	}
}
