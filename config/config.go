// Package config loads zipsort settings from defaults, an optional YAML file,
// a .env file and ZIPSORT_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/bucket"
)

const envPrefix = "ZIPSORT_"

type Config struct {
	LogLevel    string   `yaml:"log_level"`
	StripPrefix string   `yaml:"strip_prefix"`
	Format      string   `yaml:"format"`
	Port        string   `yaml:"port"`
	CacheSize   int      `yaml:"cache_size"`
	MaxUploadMB int      `yaml:"max_upload_mb"`
	S3          S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled reports whether enough is configured to reach an S3 endpoint.
func (s S3Config) Enabled() bool {
	return strings.TrimSpace(s.Endpoint) != "" && strings.TrimSpace(s.Bucket) != ""
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:    "info",
		StripPrefix: bucket.DefaultStripPrefix,
		Format:      string(archive.DefaultFormat),
		Port:        "8080",
		CacheSize:   64,
		MaxUploadMB: 512,
		S3: S3Config{
			Region: "us-east-1",
			Bucket: "zipsort",
			UseSSL: true,
		},
	}
}

// Load builds the configuration. path may be empty; a missing .env file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
	}

	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StripPrefix may be set to the empty string on purpose, so it is read with
// LookupEnv rather than getEnv.
func (c *Config) applyEnv() {
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	if v, ok := os.LookupEnv(envPrefix + "STRIP_PREFIX"); ok {
		c.StripPrefix = v
	}
	c.Format = getEnv("FORMAT", c.Format)
	c.Port = getEnv("PORT", c.Port)
	c.CacheSize = getEnvInt("CACHE_SIZE", c.CacheSize)
	c.MaxUploadMB = getEnvInt("MAX_UPLOAD_MB", c.MaxUploadMB)
	c.S3.Endpoint = getEnv("S3_ENDPOINT", c.S3.Endpoint)
	c.S3.Region = getEnv("S3_REGION", c.S3.Region)
	c.S3.AccessKey = getEnv("S3_ACCESS_KEY", c.S3.AccessKey)
	c.S3.SecretKey = getEnv("S3_SECRET_KEY", c.S3.SecretKey)
	c.S3.Bucket = getEnv("S3_BUCKET", c.S3.Bucket)
	c.S3.Prefix = getEnv("S3_PREFIX", c.S3.Prefix)
	c.S3.UseSSL = getEnvBool("S3_USE_SSL", c.S3.UseSSL)
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error
	if _, err := archive.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("cache_size must be positive, got %d", c.CacheSize))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB))
	}
	if _, err := strconv.Atoi(strings.TrimPrefix(c.Port, ":")); err != nil {
		errs = append(errs, fmt.Errorf("port %q is not a number", c.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ArchiveFormat returns the configured default output format.
func (c *Config) ArchiveFormat() archive.Format {
	f, err := archive.ParseFormat(c.Format)
	if err != nil {
		return archive.DefaultFormat
	}
	return f
}

// Bucketer returns a bucketer using the configured strip prefix.
func (c *Config) Bucketer() bucket.Bucketer {
	return bucket.Bucketer{StripPrefix: c.StripPrefix}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(envPrefix + key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(envPrefix + key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// Module provides a *Config loaded from the path given by the caller.
func Module(path string) fx.Option {
	return fx.Options(
		fx.Provide(func() (*Config, error) { return Load(path) }),
	)
}
