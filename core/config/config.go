package config

import (
	"fmt"
	"strings"
	"sync"

	"forum-api/core/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret            string `mapstructure:"secret"`
	AccessExpiryMins  int    `mapstructure:"access_expiry_mins"`
	RefreshExpiryMins int    `mapstructure:"refresh_expiry_mins"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	PublicURL string `mapstructure:"public_url"`
}

type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	S3       S3Config       `mapstructure:"s3"`
	Admin    AdminConfig    `mapstructure:"admin"`
	LogLevel string         `mapstructure:"log_level"`
}

var (
	cfg *Config
	mu  sync.RWMutex
)

// Load reads configuration from environment (with optional .env file) and
// caches it. Called once from the composition root.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if err := godotenv.Load(); err != nil {
		logger.Debug("config: no .env file loaded", "error", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7070)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "forum")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.access_expiry_mins", 60)
	v.SetDefault("jwt.refresh_expiry_mins", 7*24*60)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("log_level", "info")

	// AutomaticEnv alone does not populate Unmarshal for nested keys that
	// were never Set; bind them explicitly.
	for _, key := range []string{
		"server.host", "server.port",
		"database.host", "database.port", "database.user", "database.password", "database.dbname", "database.sslmode",
		"redis.addr", "redis.password", "redis.db",
		"jwt.secret", "jwt.access_expiry_mins", "jwt.refresh_expiry_mins",
		"s3.endpoint", "s3.region", "s3.bucket", "s3.access_key", "s3.secret_key", "s3.public_url",
		"admin.email", "admin.password", "admin.name",
		"log_level",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if c.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}

	cfg = &c
	return cfg, nil
}

// Get returns the loaded config. Panics if Load was never called; use
// GetSafe where startup ordering is uncertain.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if cfg == nil {
		panic("config: Get called before Load")
	}
	return cfg
}

// GetSafe returns the loaded config and whether it is initialized.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return cfg, cfg != nil
}
