package config

import (
	"os"
	"strings"
)

// GetSecret resolves a secret from, in order:
//  1. the environment variable itself (e.g. DB_PASSWORD)
//  2. the file named by <envVar>_FILE (e.g. DB_PASSWORD_FILE=/run/secrets/db_password)
//  3. defaultValue
//
// An unreadable file falls through to the default.
func GetSecret(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}

	if filePath := os.Getenv(envVar + "_FILE"); filePath != "" {
		if data, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(data))
		}
	}

	return defaultValue
}
