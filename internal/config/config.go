package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all the environment-based configurations.
type Config struct {
	HTTPPort       string
	RadiusEnabled  bool
	RadiusPort     string
	RadiusSecret   string
	RedisAddr      string
	RedisPass      string
	RedisDB        int
	LogFilePath    string
	UploadDir      string
	MaxUploadBytes int64
	SweepInterval  time.Duration
	GatewayMapFile string
}

// Load reads the configuration from environment variables.
// Unparseable numeric values fall back to their defaults.
func Load() Config {
	return Config{
		HTTPPort:       getEnv("HTTP_PORT", "13000"),
		RadiusEnabled:  getEnvBool("RADIUS_ENABLED", false),
		RadiusPort:     getEnv("RADIUS_PORT", "1813"),
		RadiusSecret:   getEnv("RADIUS_SECRET", "testing123"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		LogFilePath:    getEnv("LOG_FILE_PATH", "/var/log/bngclients.log"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 32<<20)),
		SweepInterval:  getEnvDuration("SWEEP_INTERVAL", time.Minute),
		GatewayMapFile: getEnv("GATEWAY_MAP_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return defaultVal
}
