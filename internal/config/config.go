package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	// Listing-creation endpoint base URL; the submission POSTs to it as-is.
	BaseURL string
	// Owner identifier sent as User_Id with every submission.
	UserID string
	// Optional HTTP/SOCKS5 proxy for the submission client.
	ProxyURL string
	// IP-geolocation endpoint for the coarse location fix.
	LocateURL string
	// External camera capture command; output path is appended as last arg.
	CameraCommand string
	// Directory for the listings db, fix cache, and logs.
	DataDir     string
	Environment string
}

// Load reads environment variables (and .env when present).
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		BaseURL:       getEnv("HOMEPIN_BASE_URL", "https://nodejs-production-1328.up.railway.app/"),
		UserID:        getEnv("HOMEPIN_USER_ID", ""),
		ProxyURL:      getEnv("HOMEPIN_PROXY_URL", ""),
		LocateURL:     getEnv("HOMEPIN_LOCATE_URL", ""),
		CameraCommand: getEnv("HOMEPIN_CAMERA_CMD", ""),
		DataDir:       getEnv("HOMEPIN_DATA_DIR", defaultDataDir()),
		Environment:   getEnv("HOMEPIN_ENV", "development"),
	}
}

// DBPath is the local listings database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "listings.db")
}

// LogPath is where the TUI session log goes; the terminal belongs to the UI.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "homepin.log")
}

func defaultDataDir() string {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(cfg, "homepin")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
