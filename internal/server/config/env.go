package config

import "os"

// parseEnv overlays configuration from environment variables
// (ADDRESS, DATABASE_URL, JWT_SECRET, PRODUCTION).
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("PRODUCTION"); ok {
		config.Production = v == "1" || v == "true"
	}
}
