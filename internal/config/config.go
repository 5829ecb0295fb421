package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	DefaultRoom string
	LogLevel    string
}

// Load reads configuration from the environment, with a .env file as an
// optional source. Missing keys fall back to defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:        getenv("TOMBOLA_ADDR", ":8080"),
		DefaultRoom: os.Getenv("TOMBOLA_DEFAULT_ROOM"),
		LogLevel:    getenv("TOMBOLA_LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
