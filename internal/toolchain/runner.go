// Package toolchain abstracts invocation of the external typesetting and
// auxiliary binaries so the pass loop can be tested against fakes.
package toolchain

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"

	"git.home.luguber.info/inful/texbuilder/internal/logfields"
)

// Runner executes an external tool in a given working directory.
// Implementations must not mutate the process working directory.
type Runner interface {
	Run(ctx context.Context, name string, args []string, dir string) error
}

// ExecRunner runs tools as subprocesses, inheriting the build's
// standard output and error streams.
type ExecRunner struct{}

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner() *ExecRunner { return &ExecRunner{} }

// Run executes the tool with dir as its working directory.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, dir string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	slog.Debug("Running tool", logfields.Tool(name), slog.Any("args", args), logfields.Path(dir))
	return cmd.Run()
}

// ExitStatus extracts the exit status from a Runner error.
// Returns -1 when the error carries no exit status (start failure, nil error).
func ExitStatus(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
