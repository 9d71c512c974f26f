package importer

import "errors"

// Fatal precondition errors. Any of these aborts a run before the library
// is touched.
var (
	// ErrInvalidPath is returned when the root is not an existing directory.
	ErrInvalidPath = errors.New("path does not exist or is not a directory")

	// ErrPathNotReadable is returned when the root exists but cannot be read.
	ErrPathNotReadable = errors.New("path is not readable")

	// ErrInvalidFileType is returned for an unrecognized type filter name.
	ErrInvalidFileType = errors.New("unknown file type filter")

	// ErrNoTarget is returned when neither a collection nor a tag is given.
	ErrNoTarget = errors.New("either a collection or a tag target is required")

	// ErrAmbiguousTarget is returned when both a collection and a tag are given.
	ErrAmbiguousTarget = errors.New("collection and tag targets are mutually exclusive")

	// ErrCollectionMissing is returned when the named collection does not
	// exist. Collections are never created by an import run.
	ErrCollectionMissing = errors.New("target collection does not exist")
)
