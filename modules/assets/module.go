package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/wp-media-redirect/domain/asset"
)

// AssetsModule provides the media library services via GORM + SQLite and a
// disk blob store.
type AssetsModule struct {
	db       *gorm.DB
	library  *Library
	dbPath   string
	blobPath string
	baseURL  string
}

// Compile-time interface checks.
var _ mono.Module = (*AssetsModule)(nil)
var _ mono.ServiceProviderModule = (*AssetsModule)(nil)
var _ mono.HealthCheckableModule = (*AssetsModule)(nil)

// NewModule creates a new AssetsModule.
func NewModule() *AssetsModule {
	dbPath := os.Getenv("MEDIA_DB_PATH")
	if dbPath == "" {
		dbPath = "media.db"
	}
	blobPath := os.Getenv("MEDIA_BLOB_PATH")
	if blobPath == "" {
		blobPath = "blobs"
	}
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	return &AssetsModule{
		dbPath:   dbPath,
		blobPath: blobPath,
		baseURL:  baseURL,
	}
}

// Name returns the module name.
func (m *AssetsModule) Name() string {
	return "assets"
}

// RegisterServices registers request-reply services in the service container.
func (m *AssetsModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "search", json.Unmarshal, json.Marshal, m.searchAssets,
	); err != nil {
		return fmt.Errorf("failed to register search service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "stats", json.Unmarshal, json.Marshal, m.libraryStats,
	); err != nil {
		return fmt.Errorf("failed to register stats service: %w", err)
	}

	log.Printf("[assets] Registered services: services.assets.{search,stats}")
	return nil
}

// Start opens the database and blob store and runs migrations.
func (m *AssetsModule) Start(_ context.Context) error {
	log.Printf("[assets] Opening media library database: %s", m.dbPath)

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := m.db.AutoMigrate(&asset.Asset{}, &asset.Tag{}, &asset.Collection{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	blobs, err := NewDiskStore(m.blobPath)
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}

	m.library = NewLibrary(NewRepository(m.db), blobs, m.baseURL)

	log.Printf("[assets] Module started (blobs under %s)", blobs.Root())
	return nil
}

// Stop gracefully closes the database connection.
func (m *AssetsModule) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	log.Println("[assets] Closing database connection...")

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("[assets] Database connection closed")
	return nil
}

// Health performs a health check on the assets module.
func (m *AssetsModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	details := map[string]any{
		"driver": "sqlite",
		"path":   m.dbPath,
	}
	if stats, err := m.library.Stats(); err == nil {
		details["assets"] = stats.Assets
		details["tags"] = stats.Tags
		details["collections"] = stats.Collections
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}
