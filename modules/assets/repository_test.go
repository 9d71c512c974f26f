package assets

import (
	"fmt"
	"testing"

	"github.com/example/wp-media-redirect/domain/asset"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&asset.Asset{}, &asset.Tag{}, &asset.Collection{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestAsset(title, caption, hash string) *asset.Asset {
	return &asset.Asset{
		ID:          uuid.New().String(),
		Title:       title,
		Caption:     caption,
		ContentHash: hash,
		Location:    hash[:2] + "/" + hash + "/" + title,
	}
}

func TestRepository_FindByContentHash(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	a := newTestAsset("cat.jpg", "", "aaaa000000000000000000000000000000000001")
	if err := repo.CreateAsset(a); err != nil {
		t.Fatalf("CreateAsset() error = %v", err)
	}

	t.Run("existing hash", func(t *testing.T) {
		got, err := repo.FindByContentHash(a.ContentHash)
		if err != nil {
			t.Fatalf("FindByContentHash() error = %v", err)
		}
		if got.ID != a.ID {
			t.Errorf("FindByContentHash() ID = %q, want %q", got.ID, a.ID)
		}
		if got.Title != "cat.jpg" {
			t.Errorf("FindByContentHash() title = %q", got.Title)
		}
	})

	t.Run("unknown hash", func(t *testing.T) {
		_, err := repo.FindByContentHash("ffff000000000000000000000000000000000000")
		if err != ErrAssetNotFound {
			t.Errorf("FindByContentHash() error = %v, want ErrAssetNotFound", err)
		}
	})
}

func TestRepository_EnsureTag(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	t.Run("creates a missing tag", func(t *testing.T) {
		tag, err := repo.EnsureTag("vacation")
		if err != nil {
			t.Fatalf("EnsureTag() error = %v", err)
		}
		if tag.ID == "" {
			t.Error("EnsureTag() returned tag without ID")
		}
		if tag.Label != "vacation" {
			t.Errorf("EnsureTag() label = %q, want vacation", tag.Label)
		}
	})

	t.Run("returns the same tag on repeat calls", func(t *testing.T) {
		first, err := repo.EnsureTag("holiday")
		if err != nil {
			t.Fatalf("EnsureTag() error = %v", err)
		}
		second, err := repo.EnsureTag("holiday")
		if err != nil {
			t.Fatalf("EnsureTag() error = %v", err)
		}
		if first.ID != second.ID {
			t.Errorf("EnsureTag() created a second tag: %q vs %q", first.ID, second.ID)
		}
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		tag, err := repo.EnsureTag("  beach  ")
		if err != nil {
			t.Fatalf("EnsureTag() error = %v", err)
		}
		if tag.Label != "beach" {
			t.Errorf("EnsureTag() label = %q, want beach", tag.Label)
		}
	})

	t.Run("rejects empty labels", func(t *testing.T) {
		for _, label := range []string{"", "   "} {
			if _, err := repo.EnsureTag(label); err != ErrEmptyTagLabel {
				t.Errorf("EnsureTag(%q) error = %v, want ErrEmptyTagLabel", label, err)
			}
		}
	})
}

func TestRepository_SaveCollection(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	c := &asset.Collection{Title: "Summer 2019"}
	if err := repo.SaveCollection(c); err != nil {
		t.Fatalf("SaveCollection() error = %v", err)
	}
	if c.ID == "" {
		t.Error("SaveCollection() left ID empty")
	}

	t.Run("existing collection", func(t *testing.T) {
		got, err := repo.CollectionByTitle("Summer 2019")
		if err != nil {
			t.Fatalf("CollectionByTitle() error = %v", err)
		}
		if got.ID != c.ID {
			t.Errorf("CollectionByTitle() ID = %q, want %q", got.ID, c.ID)
		}
	})

	t.Run("unknown collection", func(t *testing.T) {
		_, err := repo.CollectionByTitle("Winter 2019")
		if err != ErrCollectionNotFound {
			t.Errorf("CollectionByTitle() error = %v, want ErrCollectionNotFound", err)
		}
	})
}

func TestRepository_TagByLabel(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	if _, err := repo.EnsureTag("pets"); err != nil {
		t.Fatalf("EnsureTag() error = %v", err)
	}

	got, err := repo.TagByLabel("pets")
	if err != nil {
		t.Fatalf("TagByLabel() error = %v", err)
	}
	if got.Label != "pets" {
		t.Errorf("TagByLabel() label = %q", got.Label)
	}

	if _, err := repo.TagByLabel("plants"); err != ErrTagNotFound {
		t.Errorf("TagByLabel() error = %v, want ErrTagNotFound", err)
	}
}

func TestRepository_AddAssetToCollection(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	a := newTestAsset("dog.jpg", "", "bbbb000000000000000000000000000000000001")
	if err := repo.CreateAsset(a); err != nil {
		t.Fatalf("CreateAsset() error = %v", err)
	}
	c := &asset.Collection{Title: "Pets"}
	if err := repo.SaveCollection(c); err != nil {
		t.Fatalf("SaveCollection() error = %v", err)
	}

	if err := repo.AddAssetToCollection(a, c); err != nil {
		t.Fatalf("AddAssetToCollection() error = %v", err)
	}

	reloaded, err := repo.FindByContentHash(a.ContentHash)
	if err != nil {
		t.Fatalf("FindByContentHash() error = %v", err)
	}
	if len(reloaded.Collections) != 1 || reloaded.Collections[0].Title != "Pets" {
		t.Errorf("collections after add = %+v, want [Pets]", reloaded.Collections)
	}

	// Adding the same collection again must not duplicate the link.
	if err := repo.AddAssetToCollection(a, c); err != nil {
		t.Fatalf("AddAssetToCollection() second call error = %v", err)
	}
	reloaded, err = repo.FindByContentHash(a.ContentHash)
	if err != nil {
		t.Fatalf("FindByContentHash() error = %v", err)
	}
	if len(reloaded.Collections) != 1 {
		t.Errorf("collections after second add = %d, want 1", len(reloaded.Collections))
	}
}

func TestRepository_TagAsset(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	a := newTestAsset("fish.jpg", "", "cccc000000000000000000000000000000000001")
	if err := repo.CreateAsset(a); err != nil {
		t.Fatalf("CreateAsset() error = %v", err)
	}
	tag, err := repo.EnsureTag("aquarium")
	if err != nil {
		t.Fatalf("EnsureTag() error = %v", err)
	}

	if err := repo.TagAsset(a, tag); err != nil {
		t.Fatalf("TagAsset() error = %v", err)
	}

	reloaded, err := repo.FindByContentHash(a.ContentHash)
	if err != nil {
		t.Fatalf("FindByContentHash() error = %v", err)
	}
	if len(reloaded.Tags) != 1 || reloaded.Tags[0].Label != "aquarium" {
		t.Errorf("tags after TagAsset = %+v, want [aquarium]", reloaded.Tags)
	}
}

func TestRepository_SearchCandidates(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	byTitle := newTestAsset("cat.jpg", "", "dddd000000000000000000000000000000000001")
	byCaption := newTestAsset("IMG_0042.jpg", "a fluffy cat on a sofa", "dddd000000000000000000000000000000000002")
	byTag := newTestAsset("IMG_0043.jpg", "", "dddd000000000000000000000000000000000003")
	unrelated := newTestAsset("invoice.pdf", "", "dddd000000000000000000000000000000000004")

	for _, a := range []*asset.Asset{byTitle, byCaption, byTag, unrelated} {
		if err := repo.CreateAsset(a); err != nil {
			t.Fatalf("CreateAsset(%s) error = %v", a.Title, err)
		}
	}
	tag, err := repo.EnsureTag("cats")
	if err != nil {
		t.Fatalf("EnsureTag() error = %v", err)
	}
	if err := repo.TagAsset(byTag, tag); err != nil {
		t.Fatalf("TagAsset() error = %v", err)
	}

	ids := func(found []asset.Asset) map[string]bool {
		set := make(map[string]bool, len(found))
		for _, a := range found {
			set[a.ID] = true
		}
		return set
	}

	t.Run("matches title caption and tag", func(t *testing.T) {
		found, err := repo.SearchCandidates("cat")
		if err != nil {
			t.Fatalf("SearchCandidates() error = %v", err)
		}
		got := ids(found)
		for _, want := range []*asset.Asset{byTitle, byCaption, byTag} {
			if !got[want.ID] {
				t.Errorf("SearchCandidates(cat) missing %s", want.Title)
			}
		}
		if got[unrelated.ID] {
			t.Error("SearchCandidates(cat) included unrelated asset")
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		found, err := repo.SearchCandidates("CAT")
		if err != nil {
			t.Fatalf("SearchCandidates() error = %v", err)
		}
		if !ids(found)[byTitle.ID] {
			t.Error("SearchCandidates(CAT) missing title match")
		}
	})

	t.Run("any word may match", func(t *testing.T) {
		found, err := repo.SearchCandidates("sofa zzz")
		if err != nil {
			t.Fatalf("SearchCandidates() error = %v", err)
		}
		if !ids(found)[byCaption.ID] {
			t.Error("SearchCandidates(sofa zzz) missing caption match")
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		found, err := repo.SearchCandidates("zzz")
		if err != nil {
			t.Fatalf("SearchCandidates() error = %v", err)
		}
		if len(found) != 0 {
			t.Errorf("SearchCandidates(zzz) = %d assets, want 0", len(found))
		}
	})

	t.Run("blank term", func(t *testing.T) {
		found, err := repo.SearchCandidates("   ")
		if err != nil {
			t.Fatalf("SearchCandidates() error = %v", err)
		}
		if len(found) != 0 {
			t.Errorf("SearchCandidates(blank) = %d assets, want 0", len(found))
		}
	})
}

func TestRepository_Counts(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	for i, hash := range []string{
		"eeee000000000000000000000000000000000001",
		"eeee000000000000000000000000000000000002",
	} {
		a := newTestAsset(fmt.Sprintf("file%d.jpg", i), "", hash)
		if err := repo.CreateAsset(a); err != nil {
			t.Fatalf("CreateAsset() error = %v", err)
		}
	}
	if _, err := repo.EnsureTag("one"); err != nil {
		t.Fatalf("EnsureTag() error = %v", err)
	}
	if err := repo.SaveCollection(&asset.Collection{Title: "C"}); err != nil {
		t.Fatalf("SaveCollection() error = %v", err)
	}

	stats, err := repo.Counts()
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if stats.Assets != 2 || stats.Tags != 1 || stats.Collections != 1 {
		t.Errorf("Counts() = %+v, want 2 assets, 1 tag, 1 collection", stats)
	}
}
