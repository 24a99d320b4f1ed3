package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// DefaultAPIURL is used when CRM_API_URL is unset.
const DefaultAPIURL = "http://localhost:8085/api"

// Credential store backends.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8090"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API         APIConfig
	Credentials CredentialsConfig
	Mongo       MongoConfig
	Redis       RedisConfig

	WriteWorkers int `env:"WRITE_WORKERS, default=8"`
}

type APIConfig struct {
	URL     string        `env:"CRM_API_URL"`
	Timeout time.Duration `env:"CRM_API_TIMEOUT, default=15s"`
}

type CredentialsConfig struct {
	Store   string `env:"CREDENTIAL_STORE,    default=file"`
	File    string `env:"CREDENTIALS_FILE"`
	Profile string `env:"CREDENTIALS_PROFILE, default=default"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=crm_console"`
}

type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR,       default=localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB,         default=0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX, default=crm-console"`
}

// IsDevelopment reports whether the console runs in development mode.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// APIURL returns CRM_API_URL, or DefaultAPIURL when it is unset.
func (c *Config) APIURL() string {
	if c.API.URL == "" {
		return DefaultAPIURL
	}
	return c.API.URL
}

// APIURLDefaulted reports whether CRM_API_URL was unset and the fallback
// is in use.
func (c *Config) APIURLDefaulted() bool { return c.API.URL == "" }

// Load reads configuration from environment variables using go-envconfig.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper(), ".env")
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom is Load with an explicit lookuper and dotenv path. An empty
// path skips the dotenv step.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper, dotenv string) (*Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Credentials.Store {
	case StoreFile, StoreMemory, StoreRedis, StoreMongo:
	default:
		return fmt.Errorf("CREDENTIAL_STORE must be one of file, memory, redis, mongo; got %q", c.Credentials.Store)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("CRM_API_TIMEOUT must be positive; got %s", c.API.Timeout)
	}
	return nil
}
