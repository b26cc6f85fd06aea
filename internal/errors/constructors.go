package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *BuildError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Build pipeline errors

func ToolFailed(tool string, cause error) *BuildError {
	return Wrap(cause, CategoryTool, SeverityFatal, tool+" failed").
		WithContext("tool", tool)
}

func StagingError(operation string, cause error) *BuildError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "staging operation failed").
		WithContext("operation", operation)
}

func MirrorError(cause error) *BuildError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "source mirroring failed")
}

func PublishError(cause error) *BuildError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "result publication failed")
}

// Git errors

func GitCloneError(repo string, cause error) *BuildError {
	return Wrap(cause, CategoryGit, SeverityFatal, "repository clone failed").
		WithContext("repository", repo)
}

// Storage errors

func HistoryError(operation string, cause error) *BuildError {
	return Wrap(cause, CategoryStorage, SeverityError, "build history operation failed").
		WithContext("operation", operation)
}

// Watch errors

func WatchError(cause error) *BuildError {
	return Wrap(cause, CategoryWatch, SeverityFatal, "source watching failed")
}
