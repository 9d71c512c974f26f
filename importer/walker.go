package importer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension sets for the recognized file type filters.
var fileTypeExtensions = map[string]map[string]bool{
	"image": {
		"jpg": true, "jpeg": true, "png": true, "gif": true,
		"bmp": true, "svg": true, "webp": true,
	},
	"document": {
		"pdf": true, "doc": true, "docx": true, "xls": true,
		"xlsx": true, "ppt": true, "pptx": true, "txt": true,
	},
}

// FileTypes returns the valid file type filter names, sorted.
func FileTypes() []string {
	names := make([]string, 0, len(fileTypeExtensions))
	for name := range fileTypeExtensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidFileType reports whether name is empty (no filter) or a recognized
// filter name.
func ValidFileType(name string) bool {
	if name == "" {
		return true
	}
	_, ok := fileTypeExtensions[name]
	return ok
}

// CheckFileType returns ErrInvalidFileType when name fails ValidFileType.
func CheckFileType(name string) error {
	if ValidFileType(name) {
		return nil
	}
	return fmt.Errorf("%w: %q (valid types: %s)",
		ErrInvalidFileType, name, strings.Join(FileTypes(), ", "))
}

// Walk collects every file under root, depth first, sorted by path. A
// subtree that cannot be read contributes one entry to the second return
// value and is skipped; the walk continues with its siblings. Only
// root-level problems are fatal: ErrInvalidPath when root is not an
// existing directory, ErrPathNotReadable when it cannot be opened.
//
// fileType restricts results to the matching extension set; extensions are
// compared case-insensitively. Callers validate the filter name with
// ValidFileType before walking. The result is materialized in one pass, so
// its length and its iteration can never disagree.
func Walk(root string, fileType string) ([]FileDescriptor, []string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidPath, root)
	}
	if _, err := os.ReadDir(root); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrPathNotReadable, root)
	}

	allowed := fileTypeExtensions[fileType]

	var (
		files    []FileDescriptor
		problems []string
	)
	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Returning nil skips the unreadable entry and keeps the walk
			// going with its siblings.
			problems = append(problems, fmt.Sprintf("cannot read %s: %v", p, err))
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(d.Name())), ".")
		if allowed != nil && !allowed[ext] {
			return nil
		}

		abs, err := filepath.Abs(p)
		if err != nil {
			problems = append(problems, fmt.Sprintf("cannot resolve %s: %v", p, err))
			return nil
		}

		files = append(files, FileDescriptor{
			AbsolutePath: abs,
			Name:         d.Name(),
			Extension:    ext,
		})
		return nil
	})
	if walkErr != nil {
		return nil, nil, fmt.Errorf("walk failed: %w", walkErr)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].AbsolutePath < files[j].AbsolutePath
	})
	return files, problems, nil
}
