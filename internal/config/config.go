package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RedisConfig struct {
	URL      string `yaml:"url"` // empty disables the rate limiter
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"` // per client IP, per route
}

// GatewayConfig holds the Fapshi credentials and environment selection.
// Disbursement is a separate service on the provider side; its credentials
// fall back to the collection pair when unset.
type GatewayConfig struct {
	BaseURL             string        `yaml:"base_url"`
	APIUser             string        `yaml:"api_user"`
	APIKey              string        `yaml:"api_key"`
	DisbursementAPIUser string        `yaml:"disbursement_api_user"`
	DisbursementAPIKey  string        `yaml:"disbursement_api_key"`
	Timeout             time.Duration `yaml:"timeout"`
}

// Live reports whether the base URL points at a real-money environment.
// Selection is by substring match against the known live host names.
func (g GatewayConfig) Live() bool {
	return strings.Contains(g.BaseURL, "live.fapshi.com") ||
		strings.Contains(g.BaseURL, "api.fapshi.com")
}

func (g GatewayConfig) Mode() string {
	if g.Live() {
		return "live"
	}
	return "sandbox"
}

// DisbursementCredentials returns the payout credentials, falling back to
// the collection pair when no dedicated disbursement service is configured.
func (g GatewayConfig) DisbursementCredentials() (user, key string) {
	user, key = g.DisbursementAPIUser, g.DisbursementAPIKey
	if user == "" || key == "" {
		return g.APIUser, g.APIKey
	}
	return user, key
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Gateway   GatewayConfig   `yaml:"gateway"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the optional yaml file, layers .env and environment
// overrides on top, applies defaults, and validates the credentials.
// Missing credentials fail startup with actionable guidance.
func LoadConfig(path string, dev bool) (*Config, error) {
	// .env is a convenience for local runs; absence is not an error.
	_ = godotenv.Load()

	var cfg Config
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnvOverrides(&cfg)

	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Gateway.BaseURL == "" {
		cfg.Gateway.BaseURL = "https://sandbox.fapshi.com"
	}
	if cfg.Gateway.Timeout <= 0 {
		cfg.Gateway.Timeout = 15 * time.Second
	}
	if cfg.RateLimit.PerMinute <= 0 {
		cfg.RateLimit.PerMinute = 30
	}

	cfg.Gateway.APIUser = strings.TrimSpace(cfg.Gateway.APIUser)
	cfg.Gateway.APIKey = strings.TrimSpace(cfg.Gateway.APIKey)

	if cfg.Gateway.APIUser == "" || cfg.Gateway.APIKey == "" {
		return nil, errors.New(credentialsHelp)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

const credentialsHelp = `FAPSHI_API_USER and FAPSHI_API_KEY must be set (env, .env, or gateway.api_user/api_key in the config file)

To get your API keys:
1. Log into https://www.fapshi.com/en
2. Go to Dashboard -> Merchants -> Services
3. Click "New Service" to create a service
4. Copy your API user and API key
5. Add them to your .env file`

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FAPSHI_BASE_URL"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := os.Getenv("FAPSHI_API_USER"); v != "" {
		cfg.Gateway.APIUser = v
	}
	if v := os.Getenv("FAPSHI_API_KEY"); v != "" {
		cfg.Gateway.APIKey = v
	}
	if v := os.Getenv("FAPSHI_DISBURSEMENT_API_USER"); v != "" {
		cfg.Gateway.DisbursementAPIUser = v
	}
	if v := os.Getenv("FAPSHI_DISBURSEMENT_API_KEY"); v != "" {
		cfg.Gateway.DisbursementAPIKey = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
}
