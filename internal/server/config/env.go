package config

import (
	"os"
	"time"
)

// parseEnv overlays Config fields from environment variables. A .env file,
// when present, is loaded into the environment by the process entry point
// before configuration runs.
//
// Supported variables:
//
//	ADDRESS                  HTTP bind address
//	DATABASE_DSN             PostgreSQL DSN
//	PSEUDO_DOMAIN            token issuer/audience pseudo-domain
//	TOKEN_VALIDITY_DURATION  token lifetime, Go duration string (e.g. "30m")
func parseEnv(config *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("PSEUDO_DOMAIN"); v != "" {
		config.PseudoDomain = v
	}
	if v := os.Getenv("TOKEN_VALIDITY_DURATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
}
