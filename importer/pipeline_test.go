package importer

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/example/wp-media-redirect/domain/asset"
	"github.com/example/wp-media-redirect/modules/assets"
)

type mockLibrary struct {
	importFunc func(path string) (assets.ImportedBlob, error)

	known       map[string]*asset.Asset
	collections map[string]*asset.Collection
	tags        map[string]*asset.Tag

	importCalls int
	created     []string
	ensured     []string
	collected   int
	tagged      int
}

func newMockLibrary() *mockLibrary {
	return &mockLibrary{
		known:       make(map[string]*asset.Asset),
		collections: make(map[string]*asset.Collection),
		tags:        make(map[string]*asset.Tag),
	}
}

// hashImport mirrors the real blob store: same bytes, same hash.
func (m *mockLibrary) hashImport(path string) (assets.ImportedBlob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return assets.ImportedBlob{}, err
	}
	hash := fmt.Sprintf("%x", sha1.Sum(data))
	return assets.ImportedBlob{
		ContentHash: hash,
		Location:    hash[:2] + "/" + hash + "/" + filepath.Base(path),
		Size:        int64(len(data)),
	}, nil
}

func (m *mockLibrary) ImportFile(path string) (assets.ImportedBlob, error) {
	m.importCalls++
	if m.importFunc != nil {
		return m.importFunc(path)
	}
	return m.hashImport(path)
}

func (m *mockLibrary) FindAssetByContentHash(hash string) (*asset.Asset, error) {
	if a, ok := m.known[hash]; ok {
		return a, nil
	}
	return nil, assets.ErrAssetNotFound
}

func (m *mockLibrary) CollectionByTitle(title string) (*asset.Collection, error) {
	if c, ok := m.collections[title]; ok {
		return c, nil
	}
	return nil, assets.ErrCollectionNotFound
}

func (m *mockLibrary) EnsureTag(label string) (*asset.Tag, error) {
	m.ensured = append(m.ensured, label)
	if t, ok := m.tags[label]; ok {
		return t, nil
	}
	t := &asset.Tag{ID: fmt.Sprintf("tag%d", len(m.tags)+1), Label: label}
	m.tags[label] = t
	return t, nil
}

func (m *mockLibrary) CreateAsset(title string, blob assets.ImportedBlob) (*asset.Asset, error) {
	a := &asset.Asset{
		ID:          fmt.Sprintf("asset%d", len(m.known)+1),
		Title:       title,
		ContentHash: blob.ContentHash,
		Location:    blob.Location,
	}
	m.known[blob.ContentHash] = a
	m.created = append(m.created, title)
	return a, nil
}

func (m *mockLibrary) AddAssetToCollection(a *asset.Asset, c *asset.Collection) error {
	m.collected++
	return nil
}

func (m *mockLibrary) TagAsset(a *asset.Asset, t *asset.Tag) error {
	m.tagged++
	return nil
}

func writeBatch(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestPipeline_Run_TagTarget(t *testing.T) {
	dir := writeBatch(t, map[string]string{
		"a.jpg": "first",
		"b.jpg": "second",
		"c.jpg": "third",
	})
	lib := newMockLibrary()
	p := NewPipeline(lib, nil)

	report, err := p.Run(context.Background(), dir, Target{Tag: "vacation"}, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Imported != 3 || report.Skipped != 0 {
		t.Errorf("Run() imported = %d, skipped = %d, want 3, 0", report.Imported, report.Skipped)
	}
	if report.Total() != 3 {
		t.Errorf("Total() = %d, want 3", report.Total())
	}
	if problems := report.Problems(); len(problems) != 0 {
		t.Errorf("Problems() = %v, want none", problems)
	}
	if !reflect.DeepEqual(lib.ensured, []string{"vacation"}) {
		t.Errorf("ensured tags = %v, want [vacation]", lib.ensured)
	}
	if lib.tagged != 3 {
		t.Errorf("tagged %d assets, want 3", lib.tagged)
	}
	if lib.collected != 0 {
		t.Errorf("collected %d assets, want 0", lib.collected)
	}
}

func TestPipeline_Run_SecondRunSkipsEverything(t *testing.T) {
	dir := writeBatch(t, map[string]string{
		"a.jpg": "first",
		"b.jpg": "second",
	})
	lib := newMockLibrary()
	p := NewPipeline(lib, nil)

	first, err := p.Run(context.Background(), dir, Target{Tag: "vacation"}, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if first.Imported != 2 || first.Skipped != 0 {
		t.Fatalf("first run imported = %d, skipped = %d, want 2, 0", first.Imported, first.Skipped)
	}

	second, err := p.Run(context.Background(), dir, Target{Tag: "vacation"}, "")
	if err != nil {
		t.Fatalf("Run() second call error = %v", err)
	}
	if second.Imported != 0 || second.Skipped != 2 {
		t.Errorf("second run imported = %d, skipped = %d, want 0, 2", second.Imported, second.Skipped)
	}
}

func TestPipeline_Run_DuplicateContentWithinRun(t *testing.T) {
	// Same bytes under two names: one asset, one skip.
	dir := writeBatch(t, map[string]string{
		"a.jpg": "same bytes",
		"b.jpg": "same bytes",
	})
	lib := newMockLibrary()
	p := NewPipeline(lib, nil)

	report, err := p.Run(context.Background(), dir, Target{Tag: "dup"}, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Imported != 1 || report.Skipped != 1 {
		t.Errorf("Run() imported = %d, skipped = %d, want 1, 1", report.Imported, report.Skipped)
	}
	if !reflect.DeepEqual(lib.created, []string{"a.jpg"}) {
		t.Errorf("created assets = %v, want [a.jpg]", lib.created)
	}
}

func TestPipeline_Run_CollectionTarget(t *testing.T) {
	dir := writeBatch(t, map[string]string{
		"a.jpg": "first",
		"b.jpg": "second",
	})
	lib := newMockLibrary()
	lib.collections["Summer"] = &asset.Collection{ID: "c1", Title: "Summer"}
	p := NewPipeline(lib, nil)

	report, err := p.Run(context.Background(), dir, Target{Collection: "Summer"}, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Imported != 2 {
		t.Errorf("Run() imported = %d, want 2", report.Imported)
	}
	if lib.collected != 2 {
		t.Errorf("collected %d assets, want 2", lib.collected)
	}
	if lib.tagged != 0 || len(lib.ensured) != 0 {
		t.Errorf("tag side effects: tagged = %d, ensured = %v", lib.tagged, lib.ensured)
	}
}

func TestPipeline_Run_MissingCollection(t *testing.T) {
	dir := writeBatch(t, map[string]string{"a.jpg": "first"})
	lib := newMockLibrary()
	p := NewPipeline(lib, nil)

	_, err := p.Run(context.Background(), dir, Target{Collection: "Nope"}, "")
	if !errors.Is(err, ErrCollectionMissing) {
		t.Fatalf("Run() error = %v, want ErrCollectionMissing", err)
	}
	if lib.importCalls != 0 {
		t.Errorf("ImportFile called %d times before the abort, want 0", lib.importCalls)
	}
}

func TestPipeline_Run_TargetValidation(t *testing.T) {
	dir := writeBatch(t, map[string]string{"a.jpg": "first"})

	tests := []struct {
		name   string
		target Target
		want   error
	}{
		{"both targets", Target{Collection: "C", Tag: "t"}, ErrAmbiguousTarget},
		{"no target", Target{}, ErrNoTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := newMockLibrary()
			p := NewPipeline(lib, nil)

			_, err := p.Run(context.Background(), dir, tt.target, "")
			if !errors.Is(err, tt.want) {
				t.Fatalf("Run() error = %v, want %v", err, tt.want)
			}
			if lib.importCalls != 0 {
				t.Errorf("ImportFile called %d times, want 0", lib.importCalls)
			}
		})
	}
}

func TestPipeline_Run_InvalidFileType(t *testing.T) {
	dir := writeBatch(t, map[string]string{"a.jpg": "first"})
	p := NewPipeline(newMockLibrary(), nil)

	_, err := p.Run(context.Background(), dir, Target{Tag: "t"}, "video")
	if !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("Run() error = %v, want ErrInvalidFileType", err)
	}
	if !strings.Contains(err.Error(), "document, image") {
		t.Errorf("Run() error %q does not list the valid filters", err)
	}
}

func TestPipeline_Run_InvalidRoot(t *testing.T) {
	p := NewPipeline(newMockLibrary(), nil)

	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "absent"), Target{Tag: "t"}, "")
	if !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("Run() error = %v, want ErrInvalidPath", err)
	}
}

func TestPipeline_Run_PerFileFailure(t *testing.T) {
	dir := writeBatch(t, map[string]string{
		"a.jpg":   "first",
		"bad.jpg": "second",
		"c.jpg":   "third",
	})
	lib := newMockLibrary()
	lib.importFunc = func(path string) (assets.ImportedBlob, error) {
		if filepath.Base(path) == "bad.jpg" {
			return assets.ImportedBlob{}, errors.New("disk exploded")
		}
		return lib.hashImport(path)
	}
	p := NewPipeline(lib, nil)

	report, err := p.Run(context.Background(), dir, Target{Tag: "t"}, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Imported != 2 {
		t.Errorf("Run() imported = %d, want 2", report.Imported)
	}
	if len(report.ImportErrors) != 1 {
		t.Fatalf("ImportErrors = %v, want one entry", report.ImportErrors)
	}
	if !strings.Contains(report.ImportErrors[0], "bad.jpg") {
		t.Errorf("ImportErrors[0] = %q, want the file name in it", report.ImportErrors[0])
	}
	if lib.importCalls != 3 {
		t.Errorf("ImportFile called %d times, want 3: one failure must not stop the batch", lib.importCalls)
	}
}

func TestPipeline_Run_Progress(t *testing.T) {
	dir := writeBatch(t, map[string]string{
		"a.jpg": "first",
		"b.jpg": "second",
		"c.jpg": "third",
	})

	type step struct{ done, total int }
	var steps []step
	p := NewPipeline(newMockLibrary(), func(done, total int) {
		steps = append(steps, step{done, total})
	})

	if _, err := p.Run(context.Background(), dir, Target{Tag: "t"}, ""); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []step{{1, 3}, {2, 3}, {3, 3}}
	if !reflect.DeepEqual(steps, want) {
		t.Errorf("progress steps = %v, want %v", steps, want)
	}
}

func TestPipeline_Run_CancelledContext(t *testing.T) {
	dir := writeBatch(t, map[string]string{"a.jpg": "first"})
	lib := newMockLibrary()
	p := NewPipeline(lib, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := p.Run(ctx, dir, Target{Tag: "t"}, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if report == nil {
		t.Fatal("Run() report = nil, want partial report")
	}
	if report.Imported != 0 {
		t.Errorf("Run() imported = %d, want 0", report.Imported)
	}
}
