// Package assets implements the media library: asset records in SQLite, a
// content-addressed blob store for the resource bytes, and ranked text
// search over titles, captions, and tags.
package assets

import (
	"fmt"
	"io"

	"github.com/example/wp-media-redirect/domain/asset"
	"github.com/google/uuid"
)

// Library composes the repository and blob store into the media library
// surface used by the import pipeline, the redirect resolver, and the API.
type Library struct {
	repo    *Repository
	blobs   BlobStore
	baseURL string
}

// NewLibrary creates a Library serving resources under baseURL.
func NewLibrary(repo *Repository, blobs BlobStore, baseURL string) *Library {
	return &Library{
		repo:    repo,
		blobs:   blobs,
		baseURL: baseURL,
	}
}

// ImportFile stores the file's bytes in the blob store. The content hash is
// computed as a side effect of the copy.
func (l *Library) ImportFile(path string) (ImportedBlob, error) {
	return l.blobs.Import(path)
}

// OpenBlob opens a stored resource for reading.
func (l *Library) OpenBlob(location string) (io.ReadCloser, error) {
	return l.blobs.Open(location)
}

// BlobRoot returns the directory resource bytes are stored under.
func (l *Library) BlobRoot() string {
	return l.blobs.Root()
}

// FindAssetByContentHash returns the asset holding the given resource bytes,
// or ErrAssetNotFound.
func (l *Library) FindAssetByContentHash(hash string) (*asset.Asset, error) {
	return l.repo.FindByContentHash(hash)
}

// CollectionByTitle returns the collection with the given title, or
// ErrCollectionNotFound. Collections are never created implicitly.
func (l *Library) CollectionByTitle(title string) (*asset.Collection, error) {
	return l.repo.CollectionByTitle(title)
}

// SaveCollection persists a collection so later imports can target it.
func (l *Library) SaveCollection(c *asset.Collection) error {
	return l.repo.SaveCollection(c)
}

// TagByLabel returns the tag with the given label, or ErrTagNotFound.
func (l *Library) TagByLabel(label string) (*asset.Tag, error) {
	return l.repo.TagByLabel(label)
}

// EnsureTag returns the tag with the given label, creating and persisting it
// if absent.
func (l *Library) EnsureTag(label string) (*asset.Tag, error) {
	return l.repo.EnsureTag(label)
}

// CreateAsset registers a new asset for an imported resource. The title is
// the original file name, extension included; nothing else is inferred.
func (l *Library) CreateAsset(title string, blob ImportedBlob) (*asset.Asset, error) {
	a := &asset.Asset{
		ID:          uuid.New().String(),
		Title:       title,
		ContentHash: blob.ContentHash,
		Location:    blob.Location,
	}
	if err := l.repo.CreateAsset(a); err != nil {
		return nil, err
	}
	return a, nil
}

// SaveAsset persists changes to an asset.
func (l *Library) SaveAsset(a *asset.Asset) error {
	return l.repo.SaveAsset(a)
}

// AddAssetToCollection links the asset into the collection.
func (l *Library) AddAssetToCollection(a *asset.Asset, c *asset.Collection) error {
	return l.repo.AddAssetToCollection(a, c)
}

// TagAsset attaches the tag to the asset.
func (l *Library) TagAsset(a *asset.Asset, t *asset.Tag) error {
	return l.repo.TagAsset(a, t)
}

// PublicLocation returns the URL the asset's resource is served from.
func (l *Library) PublicLocation(a *asset.Asset) string {
	return asset.PublicLocation(l.baseURL, a)
}

// Search returns assets ranked by relevance to term, best first. Empty or
// unmatchable terms yield no matches, never an error. limit <= 0 means
// unlimited.
func (l *Library) Search(term string, limit int) ([]AssetMatch, error) {
	candidates, err := l.repo.SearchCandidates(term)
	if err != nil {
		return nil, err
	}

	ranked := rankCandidates(term, candidates)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	matches := make([]AssetMatch, 0, len(ranked))
	for _, r := range ranked {
		matches = append(matches, l.toMatch(r))
	}
	return matches, nil
}

// Stats returns library-wide counts.
func (l *Library) Stats() (StatsResponse, error) {
	stats, err := l.repo.Counts()
	if err != nil {
		return StatsResponse{}, fmt.Errorf("failed to compute library stats: %w", err)
	}
	return stats, nil
}

// toMatch converts a ranked candidate into its wire form.
func (l *Library) toMatch(r rankedAsset) AssetMatch {
	a := r.Asset
	return AssetMatch{
		ID:             a.ID,
		Title:          a.Title,
		Caption:        a.Caption,
		ContentHash:    a.ContentHash,
		PublicLocation: asset.PublicLocation(l.baseURL, &a),
		Score:          r.Score,
		Tags:           a.TagLabels(),
		CreatedAt:      a.CreatedAt,
	}
}
