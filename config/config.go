package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

func loadEnvFile() {
	loadOnce.Do(func() {
		// Missing .env is fine when variables come from the real environment.
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "no .env file loaded: %v\n", err)
		}
	})
}

// Config returns a required environment variable and exits when it is unset.
func Config(envVar string) string {
	loadEnvFile()

	envVarValue := os.Getenv(envVar)
	if envVarValue == "" {
		fmt.Fprintf(os.Stderr, "%s not set\n", envVar)
		os.Exit(1)
	}

	return envVarValue
}

// ConfigDefault returns an environment variable or the fallback when unset.
func ConfigDefault(envVar, fallback string) string {
	loadEnvFile()

	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}
