package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]interface{}) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for key, value := range values {
		v.Set(key, value)
	}
	return v
}

func TestDefaults(t *testing.T) {
	cfg := fromViper(newViper(nil))

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, RateLimitBackendRedis, cfg.RateLimit.Backend)
	assert.Equal(t, 60, cfg.RateLimit.PublicPerWindow)
	assert.Equal(t, 300, cfg.RateLimit.AdminPerWindow)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, int64(10*1024*1024), cfg.Audit.MaxSizeBytes)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestOverridesAndFallbacks(t *testing.T) {
	cfg := fromViper(newViper(map[string]interface{}{
		"RATE_LIMIT_BACKEND": " Memory ",
		"RATE_LIMIT_PUBLIC":  -3,
		"RATE_LIMIT_WINDOW":  "not-a-duration",
		"ALLOWED_ORIGINS":    "https://a.example, https://b.example ,",
		"METRICS_CACHE_TTL":  "5m",
	}))

	assert.Equal(t, RateLimitBackendMemory, cfg.RateLimit.Backend)
	assert.Equal(t, 60, cfg.RateLimit.PublicPerWindow)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestValidateRejectsDevSecretInProduction(t *testing.T) {
	cfg := fromViper(newViper(map[string]interface{}{"ENV": EnvProduction}))
	require.True(t, cfg.IsProduction())
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET must be set in production")

	cfg.JWT.Secret = "a-real-secret"
	assert.NoError(t, cfg.Validate())

	cfg.JWT.Secret = "  "
	assert.Error(t, cfg.Validate())
}
