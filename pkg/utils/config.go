package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret"`
	JWTIssuer   string        `yaml:"jwt_issuer"`
	JWTDuration time.Duration `yaml:"jwt_duration"`

	// bootstrap admin, created at startup when both are set
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

type Config struct {
	HTTPAddr         string     `yaml:"http_addr"`
	GrpcAddr         string     `yaml:"grpc_addr"`
	LogLevel         string     `yaml:"log_level"`
	DefaultLocale    string     `yaml:"default_locale"`
	PlaceholderImage string     `yaml:"placeholder_image"`
	Auth             AuthConfig `yaml:"auth"`
}

func defaultConfig() Config {
	return Config{
		HTTPAddr:         ":8080",
		GrpcAddr:         ":9090",
		LogLevel:         "info",
		DefaultLocale:    DefaultLocale,
		PlaceholderImage: "/images/placeholder.jpg",
		Auth: AuthConfig{
			// dev default (change for production)
			JWTSecret:   "dev-secret-change-me",
			JWTIssuer:   "portfolio",
			JWTDuration: 24 * time.Hour,
		},
	}
}

// LoadConfig reads the optional YAML file named by PORTFOLIO_CONFIG, then
// applies PORTFOLIO_* environment overrides.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("PORTFOLIO_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	loc, ok := ParseLocale(cfg.DefaultLocale)
	if !ok {
		return cfg, fmt.Errorf("unsupported default locale %q", cfg.DefaultLocale)
	}
	cfg.DefaultLocale = loc
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.HTTPAddr, "PORTFOLIO_HTTP_ADDR")
	setString(&cfg.GrpcAddr, "PORTFOLIO_GRPC_ADDR")
	setString(&cfg.LogLevel, "PORTFOLIO_LOG_LEVEL")
	setString(&cfg.DefaultLocale, "PORTFOLIO_DEFAULT_LOCALE")
	setString(&cfg.PlaceholderImage, "PORTFOLIO_PLACEHOLDER_IMAGE")
	setString(&cfg.Auth.JWTSecret, "PORTFOLIO_JWT_SECRET")
	setString(&cfg.Auth.JWTIssuer, "PORTFOLIO_JWT_ISSUER")
	setString(&cfg.Auth.AdminEmail, "PORTFOLIO_ADMIN_EMAIL")
	setString(&cfg.Auth.AdminPassword, "PORTFOLIO_ADMIN_PASSWORD")

	// hours; if parse fails, keep the current value
	if ttl := strings.TrimSpace(os.Getenv("PORTFOLIO_JWT_TTL_HOURS")); ttl != "" {
		if h, err := strconv.Atoi(ttl); err == nil && h > 0 {
			cfg.Auth.JWTDuration = time.Duration(h) * time.Hour
		}
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
