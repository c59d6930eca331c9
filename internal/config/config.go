package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	// ModeStrict never issues a session before verification and surfaces store failures.
	ModeStrict Mode = "strict"
	// ModeDemo falls back to auto-issued tokens and empty results when collaborators fail.
	ModeDemo Mode = "demo"
)

type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string
	TokenTTL  time.Duration

	Mode              Mode
	AppBaseURL        string
	RateLimitRPM      int
	EnableDebugRoutes bool

	SMTP SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether outgoing mail has a server to talk to.
func (s SMTPConfig) Enabled() bool { return s.Host != "" }

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                  getenv("APP_ENV", "development"),
		HTTPAddr:             getenv("HTTP_ADDR", ":"+getenv("PORT", "5000")),
		DatabaseURL:          getenv("DATABASE_URL", ""),
		CORSAllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", false),
		TokenTTL:             getDuration("TOKEN_TTL", 30*24*time.Hour),
		Mode:                 Mode(strings.ToLower(getenv("MODE", string(ModeStrict)))),
		AppBaseURL:           strings.TrimRight(getenv("APP_BASE_URL", "http://localhost:3000"), "/"),
		RateLimitRPM:         getInt("RATE_LIMIT_RPM", 60),
		EnableDebugRoutes:    getBool("ENABLE_DEBUG_ROUTES", false),
		SMTP: SMTPConfig{
			Host:     getenv("SMTP_HOST", ""),
			Port:     getInt("SMTP_PORT", 587),
			Username: getenv("SMTP_USERNAME", ""),
			Password: getenv("SMTP_PASSWORD", ""),
			From:     getenv("MAIL_FROM", ""),
		},
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	secret, err := requireEnv("JWT_SECRET")
	if err != nil {
		return Config{}, err
	}
	cfg.JWTSecret = secret

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Mode {
	case ModeStrict:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required in strict mode")
		}
		if !c.SMTP.Enabled() {
			return errors.New("SMTP_HOST is required in strict mode")
		}
	case ModeDemo:
	default:
		return fmt.Errorf("MODE must be %q or %q, got %q", ModeStrict, ModeDemo, c.Mode)
	}
	if c.SMTP.Enabled() && c.SMTP.From == "" {
		return errors.New("MAIL_FROM is required when SMTP_HOST is set")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

// DebugRoutes reports whether the bulk list/delete endpoints should be mounted.
func (c Config) DebugRoutes() bool {
	return c.EnableDebugRoutes && c.Mode == ModeDemo
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func requireEnv(key string) (string, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return "", fmt.Errorf("missing env: %s", key)
	}
	return v, nil
}

func getInt(key string, def int) int {
	if v := getenv(key, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	switch strings.ToLower(getenv(key, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := getenv(key, ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
