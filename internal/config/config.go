package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Pricing modes for products.
const (
	PricingManual = "manual"
	PricingAuto   = "auto"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	SMTP      SMTPConfig
	Redis     RedisConfig
	StockLock StockLockConfig
	Pricing   PricingConfig
	Log       LogConfig
	Seed      SeedConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port int
}

// DatabaseConfig holds database connection settings. DSN wins over the discrete fields.
type DatabaseConfig struct {
	DSN             string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string // silent, error, warn, info
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// SMTPConfig holds outgoing mail settings. InternalRecipient receives the
// back-office copy of every quotation.
type SMTPConfig struct {
	Enabled           bool
	Host              string
	Port              int
	Username          string
	Password          string
	SenderName        string
	SenderEmail       string
	InternalRecipient string
}

// RedisConfig is optional; an empty Addr disables the distributed stock lock.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StockLockConfig struct {
	TTL time.Duration
}

type PricingConfig struct {
	Mode string // manual, auto
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// SeedConfig describes the administrator created on first start.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

type CORSConfig struct {
	AllowOrigins string
}

// Load reads configuration with the following priority (highest first):
// 1. Environment variables with BACKOFFICE_ prefix (e.g. BACKOFFICE_DATABASE_PASSWORD)
// 2. config.yaml in ".", "./config"
// 3. Built-in defaults
//
// A .env file, when present, is loaded into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("BACKOFFICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetInt("app.port"),
		},
		Database: DatabaseConfig{
			DSN:             v.GetString("database.dsn"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			SSLMode:         v.GetString("database.sslmode"),
			TimeZone:        v.GetString("database.timezone"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			LogLevel:        v.GetString("database.log_level"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Issuer:     v.GetString("jwt.issuer"),
			Expiration: v.GetDuration("jwt.expiration"),
		},
		SMTP: SMTPConfig{
			Enabled:           v.GetBool("smtp.enabled"),
			Host:              v.GetString("smtp.host"),
			Port:              v.GetInt("smtp.port"),
			Username:          v.GetString("smtp.username"),
			Password:          v.GetString("smtp.password"),
			SenderName:        v.GetString("smtp.sender_name"),
			SenderEmail:       v.GetString("smtp.sender_email"),
			InternalRecipient: v.GetString("smtp.internal_recipient"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		StockLock: StockLockConfig{
			TTL: v.GetDuration("stock_lock.ttl"),
		},
		Pricing: PricingConfig{
			Mode: strings.ToLower(v.GetString("pricing.mode")),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Seed: SeedConfig{
			AdminEmail:    v.GetString("seed.admin_email"),
			AdminPassword: v.GetString("seed.admin_password"),
			AdminName:     v.GetString("seed.admin_name"),
		},
		CORS: CORSConfig{
			AllowOrigins: v.GetString("cors.allow_origins"),
		},
	}

	if cfg.SMTP.InternalRecipient == "" {
		cfg.SMTP.InternalRecipient = cfg.SMTP.SenderEmail
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Water-Life Back Office")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 3000)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "backoffice")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "waterlife-backoffice")
	v.SetDefault("jwt.expiration", 24*time.Hour)

	v.SetDefault("smtp.enabled", false)
	v.SetDefault("smtp.host", "localhost")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.sender_name", "Water-Life")
	v.SetDefault("smtp.sender_email", "no-reply@waterlife.local")
	v.SetDefault("smtp.internal_recipient", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("stock_lock.ttl", 10*time.Second)

	v.SetDefault("pricing.mode", PricingManual)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("seed.admin_email", "admin@eco.com")
	v.SetDefault("seed.admin_password", "Admin123!")
	v.SetDefault("seed.admin_name", "Administrador")

	v.SetDefault("cors.allow_origins", "http://localhost:4200")
}

// Validate checks values that would make the server misbehave at runtime.
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid app.port %d", c.App.Port)
	}
	switch c.Pricing.Mode {
	case PricingManual, PricingAuto:
	default:
		return fmt.Errorf("invalid pricing.mode %q (want %q or %q)", c.Pricing.Mode, PricingManual, PricingAuto)
	}
	if c.IsProduction() && (c.JWT.Secret == "" || c.JWT.Secret == "change-me-in-production") {
		return errors.New("jwt.secret must be set in production")
	}
	if c.JWT.Expiration <= 0 {
		return errors.New("jwt.expiration must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// PostgresDSN builds the connection string from the discrete fields unless DSN is set.
func (d DatabaseConfig) PostgresDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}
