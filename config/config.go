package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Upstream recipe store
	UpstreamURL     string
	UpstreamTimeout time.Duration

	// Catalog view
	PageSize       int
	Locale         string
	LargeThreshold int

	// Snapshot database configuration
	DBDriver string
	DBDSN    string

	// Redis configuration
	RedisURL   string
	SessionTTL time.Duration
	RateLimit  int
	RateWindow time.Duration

	// Image storage
	S3BucketName    string
	S3PublicBaseURL string
	AWSRegion       string

	// Background refresh (cron spec, empty disables)
	RefreshSchedule string

	LogLevel string
}

// Keys map 1:1 to environment variables and, in production, to Docker secret names
// (lower-cased).
const (
	KeyServerPort      = "SERVER_PORT"
	KeyServerHost      = "SERVER_HOST"
	KeyCORSOrigins     = "CORS_ORIGINS"
	KeyUpstreamURL     = "UPSTREAM_URL"
	KeyUpstreamTimeout = "UPSTREAM_TIMEOUT"
	KeyPageSize        = "PAGE_SIZE"
	KeyLocale          = "LOCALE"
	KeyLargeThreshold  = "LARGE_THRESHOLD"
	KeyDBDriver        = "DB_DRIVER"
	KeyDBDSN           = "DB_DSN"
	KeyRedisURL        = "REDIS_URL"
	KeySessionTTL      = "SESSION_TTL"
	KeyRateLimit       = "RATE_LIMIT"
	KeyRateWindow      = "RATE_WINDOW"
	KeyS3BucketName    = "S3_BUCKET_NAME"
	KeyS3PublicBaseURL = "S3_PUBLIC_BASE_URL"
	KeyAWSRegion       = "AWS_REGION"
	KeyRefreshSchedule = "REFRESH_SCHEDULE"
	KeyLogLevel        = "LOG_LEVEL"
)

var allKeys = []string{
	KeyServerPort, KeyServerHost, KeyCORSOrigins,
	KeyUpstreamURL, KeyUpstreamTimeout,
	KeyPageSize, KeyLocale, KeyLargeThreshold,
	KeyDBDriver, KeyDBDSN,
	KeyRedisURL, KeySessionTTL, KeyRateLimit, KeyRateWindow,
	KeyS3BucketName, KeyS3PublicBaseURL, KeyAWSRegion,
	KeyRefreshSchedule, KeyLogLevel,
}

// secretKeys are read from Docker secrets in production.
var secretKeys = []string{KeyDBDSN, KeyRedisURL}

func setDefaults(vp *viper.Viper) {
	vp.SetDefault(KeyServerPort, "8080")
	vp.SetDefault(KeyServerHost, "0.0.0.0")
	vp.SetDefault(KeyCORSOrigins, "http://localhost:5173")
	vp.SetDefault(KeyUpstreamURL, "http://localhost:3000/recipes")
	vp.SetDefault(KeyUpstreamTimeout, "10s")
	vp.SetDefault(KeyPageSize, 12)
	vp.SetDefault(KeyLocale, "fr")
	vp.SetDefault(KeyLargeThreshold, 8)
	vp.SetDefault(KeyDBDriver, "sqlite")
	vp.SetDefault(KeyDBDSN, "catalog.db")
	vp.SetDefault(KeyRedisURL, "")
	vp.SetDefault(KeySessionTTL, "24h")
	vp.SetDefault(KeyRateLimit, 30)
	vp.SetDefault(KeyRateWindow, "1m")
	vp.SetDefault(KeyS3BucketName, "")
	vp.SetDefault(KeyAWSRegion, "eu-west-3")
	vp.SetDefault(KeyRefreshSchedule, "@every 5m")
	vp.SetDefault(KeyLogLevel, "info")
}

// LoadConfig creates a new Config instance with values from the environment,
// an optional config file (CONFIG_FILE) and, in production, Docker secrets.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	vp := viper.New()
	setDefaults(vp)

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		vp.SetConfigFile(file)
		if err := vp.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	for _, key := range allKeys {
		if err := vp.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	switch env {
	case Production:
		loadSecrets(vp)
	case CI, Development, Test:
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	cfg := fromViper(vp)

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func fromViper(vp *viper.Viper) *Config {
	return &Config{
		ServerPort:      vp.GetString(KeyServerPort),
		ServerHost:      vp.GetString(KeyServerHost),
		CORSOrigins:     splitList(vp.GetString(KeyCORSOrigins)),
		UpstreamURL:     vp.GetString(KeyUpstreamURL),
		UpstreamTimeout: vp.GetDuration(KeyUpstreamTimeout),
		PageSize:        vp.GetInt(KeyPageSize),
		Locale:          vp.GetString(KeyLocale),
		LargeThreshold:  vp.GetInt(KeyLargeThreshold),
		DBDriver:        strings.ToLower(vp.GetString(KeyDBDriver)),
		DBDSN:           vp.GetString(KeyDBDSN),
		RedisURL:        vp.GetString(KeyRedisURL),
		SessionTTL:      vp.GetDuration(KeySessionTTL),
		RateLimit:       vp.GetInt(KeyRateLimit),
		RateWindow:      vp.GetDuration(KeyRateWindow),
		S3BucketName:    vp.GetString(KeyS3BucketName),
		S3PublicBaseURL: vp.GetString(KeyS3PublicBaseURL),
		AWSRegion:       vp.GetString(KeyAWSRegion),
		RefreshSchedule: vp.GetString(KeyRefreshSchedule),
		LogLevel:        strings.ToLower(vp.GetString(KeyLogLevel)),
	}
}

// loadSecrets overrides sensitive keys with Docker secrets when present
func loadSecrets(vp *viper.Viper) {
	for _, key := range secretKeys {
		if value := readSecret(strings.ToLower(key)); value != "" {
			vp.Set(key, value)
		}
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}
