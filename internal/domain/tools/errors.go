package tools

import "errors"

var (
	// ErrToolNotFound: slug is not in the catalog.
	ErrToolNotFound = errors.New("tool not found")

	// ErrNoFiles: a process request arrived without any uploaded file.
	ErrNoFiles = errors.New("no files uploaded")

	// ErrFileNotFound: download requested for an artifact that is not
	// (or no longer) in the downloads directory.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupported: an option value outside the fixed set an
	// operation accepts (format, filter, size preset).
	ErrUnsupported = errors.New("unsupported option")
)
