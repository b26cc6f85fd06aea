package build

import (
	"fmt"
	"os"
	"path/filepath"
)

// Marker artifacts the engine writes to signal that a companion tool must run.
const (
	// codeExecSuffix marks extracted embedded code awaiting execution.
	codeExecSuffix = ".pytxcode"
	// bibControlSuffix marks a bibliography control file awaiting processing.
	bibControlSuffix = ".bcf"
	// codeExecCachePrefix prefixes the code-execution tool's per-document cache directory.
	codeExecCachePrefix = "pythontex-files-"
)

// artifactExists reports whether the engine produced the given marker
// artifact for the document. Pure existence check; contents are never parsed.
func artifactExists(stagingDir, docBase, suffix string) bool {
	_, err := os.Stat(filepath.Join(stagingDir, docBase+suffix))
	return err == nil
}

// clearStaleCodeExecState removes code-execution output left over from a
// previous build of the same document. Such state reaches staging through
// mirroring (the links point at cache files a prior in-source build wrote)
// and would leak cross-build results into this run. Removing a symlink here
// never touches the source tree.
func clearStaleCodeExecState(stagingDir, docBase string) error {
	for _, name := range []string{codeExecCachePrefix + docBase, docBase + codeExecSuffix} {
		if err := os.RemoveAll(filepath.Join(stagingDir, name)); err != nil {
			return fmt.Errorf("remove stale %s: %w", name, err)
		}
	}
	return nil
}
