package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Environment variable names. A .env file in the working directory is
// loaded at startup when present.
const (
	EnvAPIURL       = "BOTPANEL_API_URL"
	EnvSessionFile  = "BOTPANEL_SESSION_FILE"
	EnvTimeout      = "BOTPANEL_TIMEOUT"
	EnvLogLevel     = "BOTPANEL_LOG_LEVEL"
	EnvMockAddr     = "BOTPANEL_MOCK_ADDR"
	EnvMockUser     = "BOTPANEL_MOCK_USERNAME"
	EnvMockPassword = "BOTPANEL_MOCK_PASSWORD"
	EnvMockSecret   = "BOTPANEL_MOCK_JWT_SECRET"
)

// DefaultAPIURL points at the conventional local backend; the original
// dashboard's relative "/api" default only makes sense inside a browser.
const DefaultAPIURL = "http://127.0.0.1:8000/api"

// Config is the process configuration, resolved once at startup.
type Config struct {
	APIURL      string
	SessionFile string
	Timeout     time.Duration
	LogLevel    string

	// mock-server settings
	MockAddr     string
	MockUser     string
	MockPassword string
	MockSecret   string
}

// FromEnv resolves configuration from the environment with sane defaults.
func FromEnv() Config {
	cfg := Config{
		APIURL:       getenv(EnvAPIURL, DefaultAPIURL),
		SessionFile:  getenv(EnvSessionFile, defaultSessionFile()),
		Timeout:      getDuration(EnvTimeout, 30*time.Second),
		LogLevel:     getenv(EnvLogLevel, "info"),
		MockAddr:     getenv(EnvMockAddr, ":8000"),
		MockUser:     getenv(EnvMockUser, "admin"),
		MockPassword: getenv(EnvMockPassword, "admin12345"),
		MockSecret:   getenv(EnvMockSecret, ""),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// defaultSessionFile places the persisted session under the user config
// dir, falling back to a temp location when none is resolvable.
func defaultSessionFile() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = filepath.Join(os.TempDir(), "botpanel")
		return filepath.Join(base, "session.json")
	}
	return filepath.Join(base, "botpanel", "session.json")
}
