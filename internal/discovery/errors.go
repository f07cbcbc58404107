package discovery

import "errors"

// Sentinel errors for content discovery. Callers classify failures with
// errors.Is.
var (
	// ErrContentDirNotFound indicates the content directory does not exist.
	ErrContentDirNotFound = errors.New("content directory not found")

	// ErrWalkFailed indicates traversal of the content directory failed.
	ErrWalkFailed = errors.New("content directory walk failed")

	// ErrInvalidRelativePath indicates a discovered path could not be made
	// relative to the content directory.
	ErrInvalidRelativePath = errors.New("invalid relative path calculation")

	// ErrFileReadFailed indicates reading a discovered file failed.
	ErrFileReadFailed = errors.New("content file read failed")

	// ErrHTMLConversionFailed indicates an HTML page could not be converted
	// to Markdown.
	ErrHTMLConversionFailed = errors.New("html page conversion failed")
)
