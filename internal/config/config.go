// package config loads application configuration from environment variables.
package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	// telegram credentials
	TGApiID      int
	TGApiHash    string
	TGPhone      string
	TGSessionStr string

	// session store for the phone login path
	SessionDB string

	// input files
	KeywordsFile string
	LinksFile    string

	// link mode: join private chats the account is not a member of
	AutoJoin bool

	// logging
	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		TGApiID:      getEnvInt("TG_API_ID", 0),
		TGApiHash:    getEnv("TG_API_HASH", ""),
		TGPhone:      getEnv("TG_PHONE", ""),
		TGSessionStr: getEnv("TG_SESSION_STRING", ""),
		SessionDB:    getEnv("SESSION_DB", "tcleaner_session.db"),
		KeywordsFile: getEnv("KEYWORDS_FILE", "config.txt"),
		LinksFile:    getEnv("LINKS_FILE", "links_to_clean.txt"),
		AutoJoin:     getEnvBool("AUTO_JOIN", true),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvBool returns the boolean value of an environment variable or a default.
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
