package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL      string
	LiveURL         string
	LiveFallbackURL string
	CredentialsPath string
	AppEnv          string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:      os.Getenv("API_BASE_URL"),
		LiveURL:         os.Getenv("LIVE_URL"),
		LiveFallbackURL: os.Getenv("LIVE_FALLBACK_URL"),
		CredentialsPath: os.Getenv("CREDENTIALS_PATH"),
		AppEnv:          os.Getenv("APP_ENV"),
	}

	if cfg.APIBaseURL == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.CredentialsPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.CredentialsPath = filepath.Join(home, ".storefront", "credentials.json")
	}

	return cfg
}
