package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadFallbacks(t *testing.T) {
	t.Setenv("REDIS_CACHE_TTL", "bogus")
	t.Setenv("RATE_LIMIT_RPM", "many")
	t.Setenv("ALLOWED_EMAILS", "")
	t.Setenv("APP_ENV", "local")

	cfg := Load()
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL, "unparsable durations fall back")
	assert.Equal(t, 120, cfg.RateLimitRPM, "unparsable ints fall back")
	assert.Empty(t, cfg.AllowedEmails)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("ALLOWED_EMAILS", " a@example.com, ,b@example.com ")
	t.Setenv("RATE_LIMIT_RPM", "30")
	t.Setenv("TRACKING_TIMEOUT", "2s")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("ANALYTICS_TIMEZONE", "Asia/Bangkok")
	t.Setenv("ANALYTICS_DEFAULT_DAYS", "7")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.AllowedEmails)
	assert.Equal(t, 30, cfg.RateLimitRPM)
	assert.Equal(t, 2*time.Second, cfg.TrackingTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 7, cfg.Analytics.DefaultDays)
	assert.Equal(t, "Asia/Bangkok", cfg.Analytics.Location().String())
}

func TestAnalyticsLocationFallback(t *testing.T) {
	assert.Equal(t, time.UTC, AnalyticsConfig{Timezone: "Mars/Olympus"}.Location())
}
