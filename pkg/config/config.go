package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const devJWTSecret = "dev_secret"

// Rate limit store backends.
const (
	RateLimitBackendRedis  = "redis"
	RateLimitBackendMemory = "memory"
)

type Config struct {
	Env  string
	Port int

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Cache     CacheConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RateLimitConfig governs the fixed-window limits applied to public and admin endpoints.
type RateLimitConfig struct {
	Backend         string
	PublicPerWindow int
	AdminPerWindow  int
	Window          time.Duration
}

// AuditConfig configures the append-only access log.
type AuditConfig struct {
	Path          string
	MaxSizeBytes  int64
	RotationCount uint
	BufferSize    int
}

// CacheConfig governs the server-side public metrics snapshot cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == EnvProduction
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that would make tokens forgeable. Production must set its own JWT_SECRET.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.IsProduction() && c.JWT.Secret == devJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 8*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString("RATE_LIMIT_BACKEND")))
	if backend != RateLimitBackendMemory {
		backend = RateLimitBackendRedis
	}
	cfg.RateLimit = RateLimitConfig{
		Backend:         backend,
		PublicPerWindow: positiveOr(v.GetInt("RATE_LIMIT_PUBLIC"), 60),
		AdminPerWindow:  positiveOr(v.GetInt("RATE_LIMIT_ADMIN"), 300),
		Window:          parseDuration(v.GetString("RATE_LIMIT_WINDOW"), time.Minute),
	}

	maxSize := v.GetInt64("AUDIT_LOG_MAX_SIZE")
	if maxSize <= 0 {
		maxSize = 10 * 1024 * 1024
	}
	rotations := v.GetInt("AUDIT_LOG_ROTATION_COUNT")
	if rotations <= 0 {
		rotations = 5
	}
	cfg.Audit = AuditConfig{
		Path:          v.GetString("AUDIT_LOG_PATH"),
		MaxSizeBytes:  maxSize,
		RotationCount: uint(rotations),
		BufferSize:    positiveOr(v.GetInt("AUDIT_BUFFER_SIZE"), 256),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("METRICS_CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("METRICS_CACHE_TTL"), time.Minute),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "professorhawkeinstein_user")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "professorhawkeinstein_platform")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", devJWTSecret)
	v.SetDefault("JWT_EXPIRATION", "8h")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("RATE_LIMIT_BACKEND", RateLimitBackendRedis)
	v.SetDefault("RATE_LIMIT_PUBLIC", 60)
	v.SetDefault("RATE_LIMIT_ADMIN", 300)
	v.SetDefault("RATE_LIMIT_WINDOW", "60s")

	v.SetDefault("AUDIT_LOG_PATH", "/tmp/analytics_audit.log")
	v.SetDefault("AUDIT_LOG_MAX_SIZE", 10*1024*1024)
	v.SetDefault("AUDIT_LOG_ROTATION_COUNT", 5)
	v.SetDefault("AUDIT_BUFFER_SIZE", 256)

	v.SetDefault("METRICS_CACHE_ENABLED", true)
	v.SetDefault("METRICS_CACHE_TTL", "60s")
}

func isMissingFile(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
