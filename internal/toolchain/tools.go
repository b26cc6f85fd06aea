package toolchain

// EngineArgs builds the typesetting engine argument list for one pass.
// Shell escape is required for embedded code execution, synctex for editor
// integration, nonstopmode so the engine never waits for terminal input.
func EngineArgs(document string, extra []string) []string {
	args := []string{
		"-shell-escape",
		"-synctex=1",
		"-interaction=nonstopmode",
		"-file-line-error",
	}
	args = append(args, extra...)
	return append(args, document)
}

// CodeExecArgs builds the argument list for the embedded-code execution tool,
// which takes the document filename.
func CodeExecArgs(document string) []string {
	return []string{document}
}

// BibliographyArgs builds the argument list for the bibliography tool,
// which takes the document base name (no extension).
func BibliographyArgs(docBase string) []string {
	return []string{docBase}
}
