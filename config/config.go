package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env               string        `mapstructure:"APP_ENV"`
	ServerPort        string        `mapstructure:"SERVER_PORT"`
	DatabaseDriver    string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DatabaseLogLevel  string        `mapstructure:"DATABASE_LOG_LEVEL"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTExpiration     time.Duration `mapstructure:"JWT_EXPIRATION"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	CompanyName       string        `mapstructure:"COMPANY_NAME"`
	ReceiptCity       string        `mapstructure:"RECEIPT_CITY"`
	ReceiptsPerPage   int           `mapstructure:"RECEIPTS_PER_PAGE"`
	ImportConcurrency int           `mapstructure:"IMPORT_CONCURRENCY"`
	CORSOrigins       string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LoginRateLimit    int           `mapstructure:"LOGIN_RATE_LIMIT"`
	ShutdownTimeout   time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// AllowedOrigins splits the comma separated CORS origin list.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "postgresql://postgres@localhost:5432/overtime")
	v.SetDefault("DATABASE_LOG_LEVEL", "warn")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION", 24*time.Hour)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("COMPANY_NAME", "Central Truck")
	v.SetDefault("RECEIPT_CITY", "São Paulo")
	v.SetDefault("RECEIPTS_PER_PAGE", 4)
	v.SetDefault("IMPORT_CONCURRENCY", 8)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOGIN_RATE_LIMIT", 20)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.ReceiptsPerPage <= 0 {
		return errors.New("RECEIPTS_PER_PAGE must be positive")
	}
	if c.ImportConcurrency <= 0 {
		return errors.New("IMPORT_CONCURRENCY must be positive")
	}
	return nil
}
