package build

import (
	"path/filepath"
	"strings"
)

// Request describes one build invocation. Immutable for the build's duration.
type Request struct {
	// SourcePath is the path to the LaTeX document to compile.
	SourcePath string
	// OutputDir receives the build artifacts.
	OutputDir string
	// Exclude lists source-tree entry names never mirrored into staging.
	Exclude []string
}

// Document returns the document filename, e.g. "paper.tex".
func (r Request) Document() string {
	return filepath.Base(r.SourcePath)
}

// DocBase returns the document name without extension, e.g. "paper".
func (r Request) DocBase() string {
	name := r.Document()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// SourceDir returns the directory containing the document.
func (r Request) SourceDir() string {
	return filepath.Dir(r.SourcePath)
}

// exclusions returns the mirror exclusion set: the caller's ignore list plus
// the output directory's own name, so a nested output dir never enters staging.
func (r Request) exclusions() []string {
	return append(append([]string{}, r.Exclude...), filepath.Base(r.OutputDir))
}
