package assets

import "errors"

// Sentinel errors for the assets module.
var (
	// ErrAssetNotFound is returned when no asset matches the lookup.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrCollectionNotFound is returned when no collection has the given title.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrTagNotFound is returned when no tag has the given label.
	ErrTagNotFound = errors.New("tag not found")

	// ErrEmptyTagLabel is returned when a tag label is blank.
	ErrEmptyTagLabel = errors.New("tag label cannot be empty")

	// ErrBlobNotFound is returned when a stored resource is missing on disk.
	ErrBlobNotFound = errors.New("blob not found")

	// ErrInvalidLocation is returned for blob locations outside the store root.
	ErrInvalidLocation = errors.New("invalid blob location")
)
