package config

import "time"

// Application constants
const (
	AppName    = "SEOPress Setup"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable read by Load
	EnvPrefix = "SEOPRESS"

	// Wizard routing
	DefaultAdminPath = "/wp-admin/admin.php"
	DefaultAdminURL  = "/wp-admin/"
	DefaultPageSlug  = "seopress-setup"

	// Storage drivers
	StorageMemory = "memory"
	StorageSQLite = "sqlite"

	// Security
	DefaultAdminUser     = "admin"
	DefaultNonceLifetime = 24 * time.Hour

	// Rate limiting
	DefaultRateLimit = 20
	DefaultBurstSize = 40

	// Trace exporters
	TraceExporterNone   = "none"
	TraceExporterStdout = "stdout"
)
