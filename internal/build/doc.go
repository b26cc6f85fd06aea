// Package build implements the LaTeX build orchestration core: staging
// lifecycle, source mirroring, the conditional multi-pass compilation loop,
// and failure-safe publication of results.
package build
