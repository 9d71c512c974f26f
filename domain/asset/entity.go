// Package asset defines the media library entities shared by the server
// modules and the import CLI.
package asset

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Asset is a media record wrapping a content-addressed binary resource.
type Asset struct {
	ID          string         `gorm:"primarykey;size:36" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Title       string         `gorm:"size:255;not null;index" json:"title"`
	Caption     string         `gorm:"size:500" json:"caption"`
	ContentHash string         `gorm:"size:40;not null;uniqueIndex" json:"content_hash"`
	Location    string         `gorm:"size:500;not null" json:"location"`
	Tags        []Tag          `gorm:"many2many:asset_tags" json:"tags,omitempty"`
	Collections []Collection   `gorm:"many2many:asset_collections" json:"collections,omitempty"`
}

// TableName returns the table name for the Asset model.
func (Asset) TableName() string {
	return "assets"
}

// Tag labels assets for search and for batch import targeting.
type Tag struct {
	ID        string    `gorm:"primarykey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Label     string    `gorm:"size:100;not null;uniqueIndex" json:"label"`
}

// TableName returns the table name for the Tag model.
func (Tag) TableName() string {
	return "tags"
}

// Collection groups assets, like an album in a media library.
type Collection struct {
	ID        string    `gorm:"primarykey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `gorm:"size:255;not null;uniqueIndex" json:"title"`
}

// TableName returns the table name for the Collection model.
func (Collection) TableName() string {
	return "collections"
}

// PublicLocation returns the browser-facing URL of the asset's resource.
func PublicLocation(baseURL string, a *Asset) string {
	return strings.TrimRight(baseURL, "/") + "/media/" + a.Location
}

// TagLabels returns the asset's tag labels in declaration order.
func (a *Asset) TagLabels() []string {
	labels := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		labels = append(labels, t.Label)
	}
	return labels
}
