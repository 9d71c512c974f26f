package assets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/wp-media-redirect/domain/asset"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository provides access to asset, tag, and collection storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new asset repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateAsset saves a new asset to the database.
func (r *Repository) CreateAsset(a *asset.Asset) error {
	if err := r.db.Create(a).Error; err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

// SaveAsset persists changes to an existing asset, including associations.
func (r *Repository) SaveAsset(a *asset.Asset) error {
	if err := r.db.Save(a).Error; err != nil {
		return fmt.Errorf("failed to save asset: %w", err)
	}
	return nil
}

// FindByContentHash retrieves the asset whose resource bytes have the given
// SHA-1 hash. Content hashes are unique, so at most one asset matches.
func (r *Repository) FindByContentHash(hash string) (*asset.Asset, error) {
	var a asset.Asset
	err := r.db.Preload("Tags").Preload("Collections").
		First(&a, "content_hash = ?", hash).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to find asset by content hash: %w", err)
	}
	return &a, nil
}

// SaveCollection persists a collection, assigning an ID when missing.
// Collections are never created implicitly by an import run; this is the
// operation that seeds them.
func (r *Repository) SaveCollection(c *asset.Collection) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if err := r.db.Save(c).Error; err != nil {
		return fmt.Errorf("failed to save collection %q: %w", c.Title, err)
	}
	return nil
}

// CollectionByTitle retrieves a collection by its unique title.
func (r *Repository) CollectionByTitle(title string) (*asset.Collection, error) {
	var c asset.Collection
	if err := r.db.First(&c, "title = ?", title).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to find collection: %w", err)
	}
	return &c, nil
}

// TagByLabel retrieves a tag by its unique label.
func (r *Repository) TagByLabel(label string) (*asset.Tag, error) {
	var t asset.Tag
	if err := r.db.First(&t, "label = ?", label).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}
	return &t, nil
}

// EnsureTag returns the tag with the given label, creating and persisting it
// first if it does not exist. Repeated calls with the same label return the
// same tag.
func (r *Repository) EnsureTag(label string) (*asset.Tag, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrEmptyTagLabel
	}

	var t asset.Tag
	err := r.db.Where(asset.Tag{Label: label}).
		Attrs(asset.Tag{ID: uuid.New().String()}).
		FirstOrCreate(&t).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure tag %q: %w", label, err)
	}
	return &t, nil
}

// AddAssetToCollection links the asset to the collection and persists both
// sides of the association.
func (r *Repository) AddAssetToCollection(a *asset.Asset, c *asset.Collection) error {
	if err := r.db.Model(a).Association("Collections").Append(c); err != nil {
		return fmt.Errorf("failed to add asset to collection %q: %w", c.Title, err)
	}
	if err := r.db.Save(a).Error; err != nil {
		return fmt.Errorf("failed to save asset: %w", err)
	}
	return nil
}

// TagAsset attaches the tag to the asset and persists the asset.
func (r *Repository) TagAsset(a *asset.Asset, t *asset.Tag) error {
	if err := r.db.Model(a).Association("Tags").Append(t); err != nil {
		return fmt.Errorf("failed to tag asset with %q: %w", t.Label, err)
	}
	if err := r.db.Save(a).Error; err != nil {
		return fmt.Errorf("failed to save asset: %w", err)
	}
	return nil
}

// SearchCandidates returns assets whose title, caption, or tag labels contain
// any word of the term, case-insensitively. Ranking happens in the library
// layer; this is only the candidate prefilter.
func (r *Repository) SearchCandidates(term string) ([]asset.Asset, error) {
	words := strings.Fields(strings.ToLower(term))
	if len(words) == 0 {
		return nil, nil
	}

	conds := make([]string, 0, len(words))
	args := make([]any, 0, len(words)*3)
	for _, w := range words {
		pattern := "%" + w + "%"
		conds = append(conds, "(LOWER(assets.title) LIKE ? OR LOWER(assets.caption) LIKE ? OR LOWER(tags.label) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	var out []asset.Asset
	err := r.db.Model(&asset.Asset{}).
		Preload("Tags").Preload("Collections").
		Joins("LEFT JOIN asset_tags ON asset_tags.asset_id = assets.id").
		Joins("LEFT JOIN tags ON tags.id = asset_tags.tag_id").
		Where(strings.Join(conds, " OR "), args...).
		Group("assets.id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search assets: %w", err)
	}
	return out, nil
}

// Counts returns the number of assets, tags, and collections in the library.
func (r *Repository) Counts() (StatsResponse, error) {
	var stats StatsResponse
	if err := r.db.Model(&asset.Asset{}).Count(&stats.Assets).Error; err != nil {
		return StatsResponse{}, fmt.Errorf("failed to count assets: %w", err)
	}
	if err := r.db.Model(&asset.Tag{}).Count(&stats.Tags).Error; err != nil {
		return StatsResponse{}, fmt.Errorf("failed to count tags: %w", err)
	}
	if err := r.db.Model(&asset.Collection{}).Count(&stats.Collections).Error; err != nil {
		return StatsResponse{}, fmt.Errorf("failed to count collections: %w", err)
	}
	return stats, nil
}
