package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/wp-media-redirect/modules/api"
	"github.com/example/wp-media-redirect/modules/assets"
	"github.com/example/wp-media-redirect/modules/redirect"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== WP Media Redirect Server ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies
	// - assets:   media library (SQLite + blob store)
	// - redirect: legacy path resolution (depends on assets)
	// - api:      Fiber HTTP server (depends on redirect and assets)
	app.Register(assets.NewModule())
	app.Register(redirect.NewModule())
	app.Register(api.NewModule())

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("HTTP Endpoints (http://localhost:%s):", port)
	log.Println("  GET  /wp-content/uploads/...    - Legacy URLs, 301 to current location")
	log.Println("  GET  /media/*                   - Media resources")
	log.Println("  GET  /api/v1/assets/search?q=   - Ranked asset search")
	log.Println("  GET  /health                    - Health check")
	log.Println("")
	log.Println("Populate the library with the mediaimport command")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
