// Package config loads the setup wizard service configuration.
//
// # Configuration Sources
//
// Values are resolved in the following order, later sources winning:
//
//	1. Built-in defaults (Default)
//	2. An optional YAML file
//	3. Environment variables prefixed with SEOPRESS_
//
// # Environment Variables
//
//	SEOPRESS_SERVER_PORT=8080
//	SEOPRESS_STORAGE_DRIVER=sqlite
//	SEOPRESS_STORAGE_DSN=data/options.db
//	SEOPRESS_SECURITY_ADMIN_PASSWORD_HASH=$2a$10$...
//	SEOPRESS_WIZARD_ENABLED=false
//	SEOPRESS_SITE_POST_TYPES=product:Products,event:Events
//
// # Usage
//
//	cfg, err := config.Load("configs/seopress.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
