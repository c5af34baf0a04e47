// Package config handles configuration loading for pet-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  path: "${PET_DB_PATH}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: ":8080"
//	  shutdown_timeout: "10s"
//
// Database:
//
//	database:
//	  path: "/var/lib/pet-gateway/pets.db"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// Seed data:
//
//	seed:
//	  enabled: true   # insert sample pets at startup
//
// # Usage
//
//	cfg, err := config.Load("/etc/pet-gateway/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
