package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// App is the configuration loaded at startup.
var App *Config

type Config struct {
	Env  string
	Port string

	DB DatabaseConfig

	JWTSecret      string
	JWTExpiryHours int
	BcryptCost     int

	StudioTimezone string
	PhoneRegion    string
	CORSOrigins    []string

	Log LogConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RabbitMQURL string

	Twilio TwilioConfig
	SMTP   SMTPConfig

	ReminderCron          string
	BookingPreventOverlap bool
}

type DatabaseConfig struct {
	Driver             string
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != ""
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Location resolves StudioTimezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.StudioTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.DB.URL == "" {
		return errors.New("DB_URL must be set")
	}
	if _, err := time.LoadLocation(c.StudioTimezone); err != nil {
		return fmt.Errorf("invalid STUDIO_TIMEZONE: %w", err)
	}
	return nil
}

// Load reads the given env files (default .env, missing files are ignored)
// and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env:  v.GetString("APP_ENV"),
		Port: v.GetString("PORT"),
		DB: DatabaseConfig{
			Driver:             strings.ToLower(v.GetString("DB_DRIVER")),
			URL:                v.GetString("DB_URL"),
			MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetimeMin: v.GetInt("DB_CONN_MAX_LIFETIME_MIN"),
		},
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		BcryptCost:     v.GetInt("BCRYPT_COST"),
		StudioTimezone: v.GetString("STUDIO_TIMEZONE"),
		PhoneRegion:    strings.ToUpper(v.GetString("PHONE_REGION")),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			File:   v.GetString("LOG_FILE"),
		},
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		CacheTTL:      v.GetDuration("CACHE_TTL"),
		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
		Twilio: TwilioConfig{
			AccountSID:     v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:      v.GetString("TWILIO_AUTH_TOKEN"),
			PhoneNumber:    v.GetString("TWILIO_PHONE_NUMBER"),
			WhatsAppNumber: v.GetString("TWILIO_WHATSAPP_NUMBER"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		ReminderCron:          v.GetString("REMINDER_CRON"),
		BookingPreventOverlap: v.GetBool("BOOKING_PREVENT_OVERLAP"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	App = cfg
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("PORT", "3333")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MIN", 30)
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("STUDIO_TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("PHONE_REGION", "BR")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CACHE_TTL", "60s")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("REMINDER_CRON", "0 18 * * *")
	v.SetDefault("BOOKING_PREVENT_OVERLAP", false)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
