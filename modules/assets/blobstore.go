package assets

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore defines the interface for content-addressed resource storage.
type BlobStore interface {
	// Import copies the file at path into the store and returns its content
	// hash and store-relative location. Importing the same bytes twice yields
	// the same location without rewriting anything.
	Import(path string) (ImportedBlob, error)

	// Open opens a stored resource for reading.
	Open(location string) (io.ReadCloser, error)

	// Root returns the absolute directory resources are stored under.
	Root() string
}

// ImportedBlob describes a resource held by the blob store.
type ImportedBlob struct {
	ContentHash string `json:"content_hash"`
	Location    string `json:"location"`
	Size        int64  `json:"size"`
}

// DiskStore implements BlobStore on the local filesystem. Resources live
// under <root>/<hash prefix>/<hash>/<file name>, so identical bytes share one
// entry and the original file name survives for serving.
type DiskStore struct {
	root string
}

// NewDiskStore creates a DiskStore rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve blob root: %w", err)
	}
	return &DiskStore{root: abs}, nil
}

// Root returns the absolute blob root directory.
func (s *DiskStore) Root() string {
	return s.root
}

// Import streams the file into the store, hashing its bytes along the way.
func (s *DiskStore) Import(path string) (ImportedBlob, error) {
	src, err := os.Open(path)
	if err != nil {
		return ImportedBlob{}, fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	h := sha1.New()
	size, err := io.Copy(h, src)
	if err != nil {
		return ImportedBlob{}, fmt.Errorf("failed to hash source file: %w", err)
	}
	hash := hex.EncodeToString(h.Sum(nil))

	name := filepath.Base(path)
	blob := ImportedBlob{
		ContentHash: hash,
		Location:    hash[:2] + "/" + hash + "/" + name,
		Size:        size,
	}

	dest := filepath.Join(s.root, hash[:2], hash, name)
	if _, err := os.Stat(dest); err == nil {
		return blob, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return ImportedBlob{}, fmt.Errorf("failed to create blob directory: %w", err)
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return ImportedBlob{}, fmt.Errorf("failed to rewind source file: %w", err)
	}

	// Write through a temp file and rename so a crash never leaves a partial
	// blob at the final location.
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".import-*")
	if err != nil {
		return ImportedBlob{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return ImportedBlob{}, fmt.Errorf("failed to copy blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return ImportedBlob{}, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return ImportedBlob{}, fmt.Errorf("failed to finalize blob: %w", err)
	}

	return blob, nil
}

// Open opens the resource at a store-relative location.
func (s *DiskStore) Open(location string) (io.ReadCloser, error) {
	clean := filepath.Clean(filepath.FromSlash(location))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLocation, location)
	}

	f, err := os.Open(filepath.Join(s.root, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrBlobNotFound, location)
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return f, nil
}
