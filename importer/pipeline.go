// Package importer walks a directory tree and registers its files in the
// media library, deduplicating by content hash. One bad file never aborts a
// batch: per-file failures are collected into the run report while the rest
// of the tree imports normally.
package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/wp-media-redirect/domain/asset"
	"github.com/example/wp-media-redirect/modules/assets"
)

// Library is the slice of the media library the pipeline needs.
type Library interface {
	ImportFile(path string) (assets.ImportedBlob, error)
	FindAssetByContentHash(hash string) (*asset.Asset, error)
	CollectionByTitle(title string) (*asset.Collection, error)
	EnsureTag(label string) (*asset.Tag, error)
	CreateAsset(title string, blob assets.ImportedBlob) (*asset.Asset, error)
	AddAssetToCollection(a *asset.Asset, c *asset.Collection) error
	TagAsset(a *asset.Asset, t *asset.Tag) error
}

// Pipeline imports a directory tree into the media library.
type Pipeline struct {
	library  Library
	progress Progress
}

// NewPipeline creates a Pipeline. progress may be nil.
func NewPipeline(library Library, progress Progress) *Pipeline {
	return &Pipeline{
		library:  library,
		progress: progress,
	}
}

// Run walks root and registers every matching file in the library. All
// precondition failures (bad root, bad filter, bad target, missing
// collection) return an error before anything is imported; after that,
// per-file problems land in the report and the run always completes. A
// fresh report is built per call. Cancelling ctx aborts between files,
// returning the partial report with the context error.
func (p *Pipeline) Run(ctx context.Context, root string, target Target, fileType string) (*Report, error) {
	if err := CheckFileType(fileType); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}

	files, walkProblems, err := Walk(root, fileType)
	if err != nil {
		return nil, err
	}

	// Resolve the target up front: a missing collection aborts before any
	// file is touched, and a tag is persisted here so every asset in the
	// run references the same record.
	var (
		collection *asset.Collection
		tag        *asset.Tag
	)
	if target.Collection != "" {
		collection, err = p.library.CollectionByTitle(target.Collection)
		if err != nil {
			if errors.Is(err, assets.ErrCollectionNotFound) {
				return nil, fmt.Errorf("%w: %q", ErrCollectionMissing, target.Collection)
			}
			return nil, fmt.Errorf("failed to look up collection %q: %w", target.Collection, err)
		}
	} else {
		tag, err = p.library.EnsureTag(target.Tag)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure tag %q: %w", target.Tag, err)
		}
	}

	report := &Report{WalkerErrors: walkProblems}
	total := len(files)

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		p.importOne(file, collection, tag, report)

		if p.progress != nil {
			p.progress(i+1, total)
		}
	}

	return report, nil
}

// importOne registers a single file, recording any failure in the report.
func (p *Pipeline) importOne(file FileDescriptor, collection *asset.Collection, tag *asset.Tag, report *Report) {
	blob, err := p.library.ImportFile(file.AbsolutePath)
	if err != nil {
		report.fail(file.Name, err)
		return
	}

	existing, err := p.library.FindAssetByContentHash(blob.ContentHash)
	if err != nil && !errors.Is(err, assets.ErrAssetNotFound) {
		report.fail(file.Name, err)
		return
	}
	if existing != nil {
		report.Skipped++
		return
	}

	created, err := p.library.CreateAsset(file.Name, blob)
	if err != nil {
		report.fail(file.Name, err)
		return
	}

	if collection != nil {
		err = p.library.AddAssetToCollection(created, collection)
	} else {
		err = p.library.TagAsset(created, tag)
	}
	if err != nil {
		report.fail(file.Name, err)
		return
	}

	report.Imported++
}
