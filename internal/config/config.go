package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	Host     string `mapstructure:"MCP_HTTP_HOST"`
	Port     int    `mapstructure:"MCP_HTTP_PORT"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBHost      string `mapstructure:"PEC_DB_HOST"`
	DBPort      string `mapstructure:"PEC_DB_PORT"`
	DBName      string `mapstructure:"PEC_DB_NAME"`
	DBUser      string `mapstructure:"PEC_DB_USER"`
	DBPassword  string `mapstructure:"PEC_DB_PASSWORD"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`

	PresetCatalogFile string        `mapstructure:"PRESET_CATALOG_FILE"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	BodyLimit         string        `mapstructure:"BODY_LIMIT"`
	RateLimitRPS      float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst    int           `mapstructure:"RATE_LIMIT_BURST"`
	MetricsEnabled    bool          `mapstructure:"METRICS_ENABLED"`
}

var keys = []string{
	"ENV", "LOG_LEVEL", "MCP_HTTP_HOST", "MCP_HTTP_PORT",
	"DATABASE_URL", "PEC_DB_HOST", "PEC_DB_PORT", "PEC_DB_NAME", "PEC_DB_USER", "PEC_DB_PASSWORD",
	"DB_MAX_CONNS", "DB_MIN_CONNS",
	"PRESET_CATALOG_FILE", "REQUEST_TIMEOUT", "BODY_LIMIT",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "METRICS_ENABLED",
}

// Load reads the configuration from the environment and an optional .env
// file in the working directory. Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MCP_HTTP_HOST", "127.0.0.1")
	v.SetDefault("MCP_HTTP_PORT", 5174)
	v.SetDefault("PEC_DB_HOST", "localhost")
	v.SetDefault("PEC_DB_PORT", "5432")
	v.SetDefault("PEC_DB_NAME", "postgres")
	v.SetDefault("PEC_DB_USER", "postgres")
	v.SetDefault("PEC_DB_PASSWORD", "pass")
	v.SetDefault("DB_MAX_CONNS", 4)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("BODY_LIMIT", "64K")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("METRICS_ENABLED", true)

	// Unmarshal only sees env vars that were bound explicitly.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// A missing .env is fine.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Addr is the listen address of the tool server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// DSN returns DATABASE_URL when set, otherwise a postgres URL assembled from
// the PEC_DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	return u.String()
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("MCP_HTTP_PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.DatabaseURL == "" && (c.DBHost == "" || c.DBName == "") {
		return fmt.Errorf("either DATABASE_URL or PEC_DB_HOST and PEC_DB_NAME must be set")
	}
	if c.DBMinConns < 1 {
		return fmt.Errorf("DB_MIN_CONNS must be at least 1, got %d", c.DBMinConns)
	}
	if c.DBMaxConns < c.DBMinConns {
		return fmt.Errorf("DB_MAX_CONNS (%d) must not be lower than DB_MIN_CONNS (%d)", c.DBMaxConns, c.DBMinConns)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}
