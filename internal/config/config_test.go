package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"https://a.example"}, parseOrigins("https://a.example"))
	assert.Equal(t,
		[]string{"https://a.example", "https://b.example"},
		parseOrigins(" https://a.example , https://b.example ,"),
	)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "courses:catalog", CacheKey.CourseCatalogKey())
	assert.Equal(t, "course:abc:payload", CacheKey.CourseKey("abc"))
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "default_password123", cfg.RemoteFallbackPassword)
	assert.Nil(t, cfg.AllowedOrigins)
}
