package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExecRunner_RunsInWorkingDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on sh")
	}
	dir := t.TempDir()
	r := NewExecRunner()

	err := r.Run(context.Background(), "sh", []string{"-c", "pwd > marker.txt"}, dir)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "marker.txt")); err != nil {
		t.Errorf("tool did not run in working directory: %v", err)
	}
}

func TestExitStatus(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on sh")
	}
	r := NewExecRunner()

	err := r.Run(context.Background(), "sh", []string{"-c", "exit 2"}, t.TempDir())
	if err == nil {
		t.Fatal("expected non-zero exit error")
	}
	if got := ExitStatus(err); got != 2 {
		t.Errorf("expected exit status 2, got %d", got)
	}

	if got := ExitStatus(nil); got != -1 {
		t.Errorf("expected -1 for nil error, got %d", got)
	}
	if got := ExitStatus(fmt.Errorf("not an exec error")); got != -1 {
		t.Errorf("expected -1 for non-exec error, got %d", got)
	}
}

func TestEngineArgs_OrderAndDocumentLast(t *testing.T) {
	args := EngineArgs("paper.tex", []string{"-halt-on-error"})
	if args[len(args)-1] != "paper.tex" {
		t.Errorf("document must be the final argument, got %v", args)
	}
	if args[0] != "-shell-escape" {
		t.Errorf("expected -shell-escape first, got %v", args)
	}
	found := false
	for _, a := range args {
		if a == "-halt-on-error" {
			found = true
		}
	}
	if !found {
		t.Errorf("extra args missing from %v", args)
	}
}
