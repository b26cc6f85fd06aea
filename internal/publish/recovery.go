package publish

import (
	"log/slog"

	"git.home.luguber.info/inful/texbuilder/internal/logfields"
)

// Recover publishes whatever artifacts exist in the staging directory after
// a failed build, without overwriting anything already present in the output
// directory. The copy is best effort: its own failure is logged, never
// surfaced. The triggering error is always returned so the caller observes
// the build failure.
func Recover(stagingDir, outputDir string, cause error) error {
	if err := Publish(stagingDir, outputDir, false); err != nil {
		slog.Warn("Failed to copy partial artifacts after build failure",
			logfields.Output(outputDir),
			logfields.Error(err))
	} else {
		slog.Info("Copied partial build artifacts for inspection", logfields.Output(outputDir))
	}
	return cause
}
