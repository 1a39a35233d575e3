package config

import (
	"os"
)

type Config struct {
	TwitchClientID     string
	TwitchClientSecret string
	DBPath             string
	Port               string
	Environment        string
}

func Load() *Config {
	return &Config{
		TwitchClientID:     getEnv("TWITCH_CLIENT_ID", ""),
		TwitchClientSecret: getEnv("TWITCH_CLIENT_SECRET", ""),
		DBPath:             getEnv("APP_DB_PATH", "./data/app.db"),
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
	}
}

// HasTwitchCredentials reports whether live-status lookups and VOD refresh
// can work. The API server still serves stored stats without them.
func (c *Config) HasTwitchCredentials() bool {
	return c.TwitchClientID != "" && c.TwitchClientSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
