package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the LacrosseLens engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"5000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Version  string `yaml:"-"` // Set at load time, not from config

	Auth       AuthConfig       `yaml:"auth"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	AI         AIConfig         `yaml:"ai"`
	YouTube    YouTubeConfig    `yaml:"youtube"`
	Storage    StorageConfig    `yaml:"storage"`
	Processing ProcessingConfig `yaml:"processing"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// EnableVerification controls whether JWT tokens are validated.
	// Set to false for local development without an identity provider.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// JWKSEndpointsStr is a comma-separated list of issuer=jwks_url pairs.
	// Format: "issuer1=url1,issuer2=url2"
	JWKSEndpointsStr string `yaml:"jwks_endpoints" env:"JWKS_ENDPOINTS" env-default:""`

	// JWKSEndpoints is the parsed map from JWKSEndpointsStr (not from config file).
	JWKSEndpoints map[string]string `yaml:"-"`

	SessionSecret string        `yaml:"-" env:"SESSION_SECRET"` // Secret - not in YAML
	SessionTTL    time.Duration `yaml:"session_ttl" env:"SESSION_TTL" env-default:"168h"`
	CookieDomain  string        `yaml:"cookie_domain" env:"COOKIE_DOMAIN" env-default:""`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"lacrosselens"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"lacrosselens"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// RedisConfig holds the optional cache configuration. An empty Host disables caching.
type RedisConfig struct {
	Host     string        `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int           `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	StatsTTL time.Duration `yaml:"stats_ttl" env:"REDIS_STATS_TTL" env-default:"60s"`
}

// AIConfig selects and configures the video analysis model.
type AIConfig struct {
	// Provider is "openai" (any OpenAI-compatible endpoint) or "anthropic".
	Provider    string        `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`
	Endpoint    string        `yaml:"endpoint" env:"AI_ENDPOINT" env-default:""`
	Model       string        `yaml:"model" env:"AI_MODEL" env-default:"gpt-4o"`
	APIKey      string        `yaml:"-" env:"AI_API_KEY"` // Secret - not in YAML
	MaxTokens   int           `yaml:"max_tokens" env:"AI_MAX_TOKENS" env-default:"8192"`
	Temperature float32       `yaml:"temperature" env:"AI_TEMPERATURE" env-default:"0.2"`
	Timeout     time.Duration `yaml:"timeout" env:"AI_TIMEOUT" env-default:"4m"`
	MaxFrames   int           `yaml:"max_frames" env:"AI_MAX_FRAMES" env-default:"24"`
}

// YouTubeConfig configures metadata lookups. Without an API key the oEmbed endpoint is used.
type YouTubeConfig struct {
	APIKey      string `yaml:"-" env:"YOUTUBE_API_KEY"` // Secret - not in YAML
	OEmbedURL   string `yaml:"oembed_url" env:"YOUTUBE_OEMBED_URL" env-default:"https://www.youtube.com/oembed"`
	MaxAttempts int    `yaml:"max_attempts" env:"YOUTUBE_MAX_ATTEMPTS" env-default:"3"`
}

// StorageConfig holds local filesystem locations for uploads and thumbnails.
type StorageConfig struct {
	UploadDir      string `yaml:"upload_dir" env:"UPLOAD_DIR" env-default:"uploads"`
	ThumbnailDir   string `yaml:"thumbnail_dir" env:"THUMBNAIL_DIR" env-default:"uploads/thumbnails"`
	MaxUploadMB    int64  `yaml:"max_upload_mb" env:"MAX_UPLOAD_MB" env-default:"500"`
	FFmpegPath     string `yaml:"ffmpeg_path" env:"FFMPEG_PATH" env-default:"ffmpeg"`
	FFprobePath    string `yaml:"ffprobe_path" env:"FFPROBE_PATH" env-default:"ffprobe"`
	WorkDir        string `yaml:"work_dir" env:"MEDIA_WORK_DIR" env-default:""`
	ThumbnailAtSec int    `yaml:"thumbnail_at_sec" env:"THUMBNAIL_AT_SEC" env-default:"5"`
}

// ProcessingConfig controls the background analysis pipeline.
type ProcessingConfig struct {
	// Mode is "advanced" (multi-pass with single-pass fallback) or "standard".
	Mode             string        `yaml:"mode" env:"PROCESSING_MODE" env-default:"advanced"`
	MaxConcurrent    int           `yaml:"max_concurrent" env:"PROCESSING_MAX_CONCURRENT" env-default:"4"`
	Timeout          time.Duration `yaml:"timeout" env:"PROCESSING_TIMEOUT" env-default:"5m"`
	WatchdogInterval time.Duration `yaml:"watchdog_interval" env:"PROCESSING_WATCHDOG_INTERVAL" env-default:"30s"`
	MaxAttempts      int           `yaml:"max_attempts" env:"PROCESSING_MAX_ATTEMPTS" env-default:"2"`
	MinConfidence    int           `yaml:"min_confidence" env:"PROCESSING_MIN_CONFIDENCE" env-default:"50"`
	SegmentWorkers   int           `yaml:"segment_workers" env:"PROCESSING_SEGMENT_WORKERS" env-default:"3"`
	MaxSegments      int           `yaml:"max_segments" env:"PROCESSING_MAX_SEGMENTS" env-default:"10"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	return LoadFile("config.yaml", version)
}

// LoadFile is Load with an explicit path. A missing file falls back to
// environment variables and defaults.
func LoadFile(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, statErr := os.Stat(path); statErr == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.Auth.JWKSEndpoints = parseJWKSEndpoints(cfg.Auth.JWKSEndpointsStr)
	cfg.Database.Host = ResolveHostForDocker(cfg.Database.Host)
	cfg.Redis.Host = ResolveHostForDocker(cfg.Redis.Host)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.AI.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("ai.provider must be openai or anthropic, got %q", c.AI.Provider)
	}
	switch c.Processing.Mode {
	case "advanced", "standard":
	default:
		return fmt.Errorf("processing.mode must be advanced or standard, got %q", c.Processing.Mode)
	}
	if c.Processing.MaxConcurrent < 1 {
		return fmt.Errorf("processing.max_concurrent must be at least 1")
	}
	if c.Processing.MaxAttempts < 1 {
		return fmt.Errorf("processing.max_attempts must be at least 1")
	}
	if c.Auth.EnableVerification && len(c.Auth.JWKSEndpoints) == 0 {
		return fmt.Errorf("auth.jwks_endpoints is required when verification is enabled")
	}
	return nil
}

// IsProduction reports whether the server runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// parseJWKSEndpoints parses the JWKS endpoints string into a map.
// Format: "issuer1=url1,issuer2=url2"
func parseJWKSEndpoints(value string) map[string]string {
	endpoints := make(map[string]string)
	if value == "" {
		return endpoints
	}

	for _, pair := range strings.Split(value, ",") {
		issuer, jwksURL, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		endpoints[strings.TrimSpace(issuer)] = strings.TrimSpace(jwksURL)
	}
	return endpoints
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// URL returns the connection string in URL form, as golang-migrate expects.
func (c *DatabaseConfig) URL() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// Addr returns host:port for the redis client.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
