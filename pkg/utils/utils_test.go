package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Été Indien":           "ete-indien",
		"  Hello, World!  ":    "hello-world",
		"Ça va -- bien":        "ca-va-bien",
		"***":                  "untitled",
		"Clip 2024 (Officiel)": "clip-2024-officiel",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestNormalizeSlug(t *testing.T) {
	s, err := NormalizeSlug("  Song-A ")
	require.NoError(t, err)
	assert.Equal(t, "song-a", s)

	for _, bad := range []string{"", "   ", "a b", "-a", "a--b", "é"} {
		_, err := NormalizeSlug(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseLocale(t *testing.T) {
	l, ok := ParseLocale(" EN ")
	assert.True(t, ok)
	assert.Equal(t, LocaleEN, l)

	_, ok = ParseLocale("de")
	assert.False(t, ok)
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORTFOLIO_CONFIG", "PORTFOLIO_JWT_TTL_HOURS", "PORTFOLIO_HTTP_ADDR", "PORTFOLIO_DEFAULT_LOCALE"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, LocaleFR, cfg.DefaultLocale)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTDuration)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "http_addr: \":9999\"\ndefault_locale: en\nauth:\n  jwt_issuer: from-file\n  admin_email: admin@example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("PORTFOLIO_CONFIG", path)
	t.Setenv("PORTFOLIO_HTTP_ADDR", "")
	t.Setenv("PORTFOLIO_DEFAULT_LOCALE", "")
	t.Setenv("PORTFOLIO_JWT_ISSUER", "from-env")
	t.Setenv("PORTFOLIO_JWT_TTL_HOURS", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, LocaleEN, cfg.DefaultLocale)
	assert.Equal(t, "from-env", cfg.Auth.JWTIssuer)
	assert.Equal(t, "admin@example.com", cfg.Auth.AdminEmail)
	assert.Equal(t, 2*time.Hour, cfg.Auth.JWTDuration)
}

func TestLoadConfig_BadLocale(t *testing.T) {
	t.Setenv("PORTFOLIO_CONFIG", "")
	t.Setenv("PORTFOLIO_DEFAULT_LOCALE", "de")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = NewLogger("loud")
	assert.Error(t, err)
}

func TestResolveSlug(t *testing.T) {
	s, err := ResolveSlug("", "Le Grand Bleu")
	require.NoError(t, err)
	assert.Equal(t, "le-grand-bleu", s)

	s, err = ResolveSlug("Custom-Slug", "ignored")
	require.NoError(t, err)
	assert.Equal(t, "custom-slug", s)

	_, err = ResolveSlug("", " ")
	assert.Error(t, err)
}

func TestValidateLocales(t *testing.T) {
	assert.NoError(t, ValidateLocales([]string{"fr", "en"}))
	assert.Error(t, ValidateLocales(nil))
	assert.Error(t, ValidateLocales([]string{"fr", "fr"}))
	assert.Error(t, ValidateLocales([]string{"de"}))
}
