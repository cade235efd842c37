// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Pipeline) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Patrika API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for admin-context token verification
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Object Storage (Cloudflare R2 / S3-compatible)
	StorageBucket    string `env:"STORAGE_BUCKET,required"`
	StorageRegion    string `env:"STORAGE_REGION"    envDefault:"auto"`
	StorageEndpoint  string `env:"STORAGE_ENDPOINT"`
	StorageAccessKey string `env:"STORAGE_ACCESS_KEY"`
	StorageSecretKey string `env:"STORAGE_SECRET_KEY"`

	// StoragePublicBaseURL is the CDN-facing base under which uploaded
	// objects are publicly reachable.
	StoragePublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL,required"`

	// StorageKeyRoot is the top-level key prefix for all ePaper objects.
	StorageKeyRoot string `env:"STORAGE_KEY_ROOT" envDefault:"epaper"`

	// Ingestion pipeline tuning. Grouped so the whole block can be handed
	// to the pipeline constructors as one value.
	Pipeline PipelineConfig

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// PipelineConfig gathers every tunable of the PDF→raster→derivative chain.
//
// # Why one struct?
//
// Scattered environment lookups at call time make the pipeline untestable.
// Tests inject a deterministic PipelineConfig instead of mutating the process
// environment.
type PipelineConfig struct {
	// RasterizerBinary is the poppler-utils pdftoppm executable.
	RasterizerBinary string `env:"RASTERIZER_BINARY" envDefault:"pdftoppm"`

	// RasterDPI is the rasterization resolution for page masters.
	RasterDPI int `env:"RASTER_DPI" envDefault:"150"`

	// RasterMaxPages caps the number of rasterized pages. Zero means no cap.
	// When the cap truncates a document the resulting issue records
	// truncated=true so an incomplete issue can never ship silently.
	RasterMaxPages int `env:"RASTER_MAX_PAGES" envDefault:"0"`

	// UploadWorkers is the fixed worker-pool size for page uploads.
	UploadWorkers int `env:"UPLOAD_WORKERS" envDefault:"4"`

	// MaxPDFBytes is the intake size ceiling for issue PDFs.
	MaxPDFBytes int64 `env:"MAX_PDF_BYTES" envDefault:"209715200"`

	// DeliveryQuality is the JPEG quality of the bandwidth-efficient page encoding.
	DeliveryQuality int `env:"DELIVERY_JPEG_QUALITY" envDefault:"80"`

	// PreviewQuality is the JPEG quality of the social-preview encoding.
	PreviewQuality int `env:"PREVIEW_JPEG_QUALITY" envDefault:"85"`

	// PreviewWidth and PreviewHeight define the fixed share-card frame.
	PreviewWidth  int `env:"PREVIEW_WIDTH"  envDefault:"1200"`
	PreviewHeight int `env:"PREVIEW_HEIGHT" envDefault:"630"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// AllowedExtraOrigins returns the comma-separated EXTRA_ORIGINS entries,
// trimmed. Used by the CORS middleware for staging frontends that do not
// live under the canonical domain.
func (c *Config) AllowedExtraOrigins() []string {
	if c.ExtraOrigins == "" {
		return nil
	}

	parts := strings.Split(c.ExtraOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
