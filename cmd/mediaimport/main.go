// mediaimport walks a directory tree and registers its files in the media
// library used by the mediaserver. Files already in the library (same
// content hash) are skipped, so re-running over the same tree is safe.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/wp-media-redirect/domain/asset"
	"github.com/example/wp-media-redirect/importer"
	"github.com/example/wp-media-redirect/modules/assets"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		collection string
		tag        string
		fileType   string
		dbPath     string
		blobPath   string
		baseURL    string
		quiet      bool
	)

	flagSet := pflag.NewFlagSet("mediaimport", pflag.ContinueOnError)
	flagSet.StringVar(&collection, "collection", "", "existing collection to add imported assets to")
	flagSet.StringVar(&tag, "tag", "", "tag to label imported assets with (created if missing)")
	flagSet.StringVar(&fileType, "type", "", "only import files of this type (image, document)")
	flagSet.StringVar(&dbPath, "db", envOr("MEDIA_DB_PATH", "media.db"), "media library database file")
	flagSet.StringVar(&blobPath, "blobs", envOr("MEDIA_BLOB_PATH", "blobs"), "directory resource bytes are stored under")
	flagSet.StringVar(&baseURL, "base-url", envOr("BASE_URL", "http://localhost:3000"), "public base URL for served media")
	flagSet.BoolVar(&quiet, "quiet", false, "suppress the progress indicator")
	flagSet.Usage = func() { printUsage(flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if flagSet.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "error: exactly one source path is required")
		printUsage(flagSet)
		return 1
	}
	root := flagSet.Arg(0)

	// Checked before openLibrary: a rejected run must not create the
	// database file or the blob directory.
	target := importer.Target{Collection: collection, Tag: tag}
	if err := importer.CheckFileType(fileType); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if err := target.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	library, cleanup, err := openLibrary(dbPath, blobPath, baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer cleanup()

	var progress importer.Progress
	var bar *importer.Bar
	if !quiet {
		bar = importer.NewBar(os.Stderr, "importing")
		bar.Start()
		progress = bar.Update
	}

	pipeline := importer.NewPipeline(library, progress)

	report, err := pipeline.Run(context.Background(), root, target, fileType)
	if bar != nil {
		bar.Stop()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Print(report.Summary())
	return 0
}

// openLibrary opens the shared media library the server also uses: the
// SQLite database plus the blob directory.
func openLibrary(dbPath, blobPath, baseURL string) (*assets.Library, func(), error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}

	if err := db.AutoMigrate(&asset.Asset{}, &asset.Tag{}, &asset.Collection{}); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	blobs, err := assets.NewDiskStore(blobPath)
	if err != nil {
		return nil, nil, err
	}

	library := assets.NewLibrary(assets.NewRepository(db), blobs, baseURL)
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return library, cleanup, nil
}

// envOr returns the environment value for key, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printUsage(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "\nusage: mediaimport [flags] <path>\n\n")
	fmt.Fprintf(os.Stderr, "Imports every file under <path> into the media library. Exactly one\n")
	fmt.Fprintf(os.Stderr, "of --collection or --tag must be given; the collection must already\n")
	fmt.Fprintf(os.Stderr, "exist, the tag is created on first use.\n\nflags:\n")
	fmt.Fprint(os.Stderr, flagSet.FlagUsages())
	fmt.Fprintf(os.Stderr, "\nexit codes:\n")
	fmt.Fprintf(os.Stderr, "  0  run completed (per-file problems appear in the report)\n")
	fmt.Fprintf(os.Stderr, "  1  precondition failed, nothing was imported\n")
}
