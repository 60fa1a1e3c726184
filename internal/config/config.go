package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Seed      SeedConfig
	Order     OrderConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Migrate         bool
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	Issuer     string
	BcryptCost int
}

type LogConfig struct {
	Level string
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond int
	Burst             int
	CleanupInterval   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type SeedConfig struct {
	Enabled bool
	Path    string
}

// OrderConfig bounds the transaction that writes an order and its lines.
type OrderConfig struct {
	TxTimeout        time.Duration
	MaxRetryAttempts int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "30s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.user", "deliverus")
	v.SetDefault("db.password", "secret")
	v.SetDefault("db.name", "deliverus")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "5m")
	v.SetDefault("db.migrate", true)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "1h")
	v.SetDefault("auth.issuer", "deliverus")
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("log.level", "info")

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_second", 20)
	v.SetDefault("ratelimit.burst", 40)
	v.SetDefault("ratelimit.cleanup_interval", "10m")

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("seed.enabled", false)
	v.SetDefault("seed.path", "config/seed.yaml")

	v.SetDefault("order.tx_timeout", "5s")
	v.SetDefault("order.max_retry_attempts", 3)
}

// Load reads the YAML file at path (optional) and lets environment variables
// override every key: db.host is DB_HOST, auth.jwt_secret is AUTH_JWT_SECRET.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	durations := map[string]time.Duration{}
	for _, key := range []string{
		"server.read_timeout", "server.write_timeout", "server.idle_timeout",
		"server.request_timeout", "server.shutdown_timeout",
		"db.conn_max_lifetime", "auth.token_ttl", "ratelimit.cleanup_interval",
		"order.tx_timeout",
	} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		durations[key] = d
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			ReadTimeout:     durations["server.read_timeout"],
			WriteTimeout:    durations["server.write_timeout"],
			IdleTimeout:     durations["server.idle_timeout"],
			RequestTimeout:  durations["server.request_timeout"],
			ShutdownTimeout: durations["server.shutdown_timeout"],
		},
		Database: DatabaseConfig{
			Host:            v.GetString("db.host"),
			Port:            v.GetInt("db.port"),
			User:            v.GetString("db.user"),
			Password:        v.GetString("db.password"),
			Name:            v.GetString("db.name"),
			MaxOpenConns:    v.GetInt("db.max_open_conns"),
			MaxIdleConns:    v.GetInt("db.max_idle_conns"),
			ConnMaxLifetime: durations["db.conn_max_lifetime"],
			Migrate:         v.GetBool("db.migrate"),
		},
		Auth: AuthConfig{
			JWTSecret:  v.GetString("auth.jwt_secret"),
			TokenTTL:   durations["auth.token_ttl"],
			Issuer:     v.GetString("auth.issuer"),
			BcryptCost: v.GetInt("auth.bcrypt_cost"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           v.GetBool("ratelimit.enabled"),
			RequestsPerSecond: v.GetInt("ratelimit.requests_per_second"),
			Burst:             v.GetInt("ratelimit.burst"),
			CleanupInterval:   durations["ratelimit.cleanup_interval"],
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
		},
		Seed: SeedConfig{
			Enabled: v.GetBool("seed.enabled"),
			Path:    v.GetString("seed.path"),
		},
		Order: OrderConfig{
			TxTimeout:        durations["order.tx_timeout"],
			MaxRetryAttempts: v.GetInt("order.max_retry_attempts"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("ratelimit requires positive requests_per_second and burst")
	}
	if c.Order.MaxRetryAttempts < 1 {
		return fmt.Errorf("order.max_retry_attempts must be at least 1")
	}
	return nil
}
