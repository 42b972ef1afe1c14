package errors

// Convenience constructors for common error patterns.

// Config errors

func ConfigNotFound(path string) *CoursegenError {
	return New(CategoryConfig, SeverityFatal, "site configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *CoursegenError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *CoursegenError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Content errors

func ContentScanError(cause error) *CoursegenError {
	return Wrap(cause, CategoryContent, SeverityFatal, "content discovery failed")
}

func LessonParseError(path string, cause error) *CoursegenError {
	return Wrap(cause, CategoryContent, SeverityError, "lesson parse failed").
		WithContext("path", path)
}

func BrokenNavigation(link string) *CoursegenError {
	return New(CategoryLink, SeverityFatal, "navigation entry does not resolve to a document").
		WithContext("link", link)
}

func PageCollision(url, first, second string) *CoursegenError {
	return New(CategoryContent, SeverityFatal, "documents map to the same page URL").
		WithContext("url", url).
		WithContext("first", first).
		WithContext("second", second)
}

// Build pipeline errors

func BuildFailed(stage string, cause error) *CoursegenError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

func RenderError(page string, cause error) *CoursegenError {
	return Wrap(cause, CategoryRender, SeverityFatal, "page render failed").
		WithContext("page", page)
}

func OutputError(operation string, cause error) *CoursegenError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output directory operation failed").
		WithContext("operation", operation)
}

// Infrastructure errors

func StateStoreError(operation string, cause error) *CoursegenError {
	return Wrap(cause, CategoryStorage, SeverityError, "build state store operation failed").
		WithContext("operation", operation)
}

func GitMetadataError(cause error) *CoursegenError {
	return Wrap(cause, CategoryGit, SeverityWarning, "git metadata unavailable")
}

func EventPublishError(subject string, cause error) *CoursegenError {
	return Wrap(cause, CategoryEvents, SeverityWarning, "event publish failed").
		WithContext("subject", subject)
}

func ServeError(cause error) *CoursegenError {
	return Wrap(cause, CategoryServe, SeverityFatal, "preview server failed")
}
