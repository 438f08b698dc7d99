package config

import (
	"errors"
	"fmt"
	"time"

	"pickup-service/internal/apperr"

	"github.com/spf13/viper"
)

var (
	ErrMissingCookieSecret = apperr.Config("ADMIN_COOKIE_SECRET is required")
	ErrMissingDatabaseDSN  = apperr.Config("DATABASE_DSN is required")
	ErrInvalidRateLimit    = apperr.Config("RATE_LIMIT and RATE_WINDOW must be positive")
)

type Config struct {
	AppPort  string `mapstructure:"app_port"`
	AppEnv   string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`
	WebDir   string `mapstructure:"web_dir"`

	DatabaseDSN string `mapstructure:"database_dsn"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`

	AdminPass         string `mapstructure:"admin_pass"`
	AdminPassHash     string `mapstructure:"admin_pass_hash"`
	AdminCookieSecret string `mapstructure:"admin_cookie_secret"`

	WebPushPublicKey  string `mapstructure:"web_push_public_key"`
	WebPushPrivateKey string `mapstructure:"web_push_private_key"`
	WebPushSubject    string `mapstructure:"web_push_subject"`

	MailEnable bool   `mapstructure:"mail_enable"`
	SMTPHost   string `mapstructure:"smtp_host"`
	SMTPPort   int    `mapstructure:"smtp_port"`
	SMTPSecure bool   `mapstructure:"smtp_secure"`
	SMTPUser   string `mapstructure:"smtp_user"`
	SMTPPass   string `mapstructure:"smtp_pass"`
	MailFrom   string `mapstructure:"mail_from"`
	MailTo     string `mapstructure:"mail_to"`

	AMQPURL      string `mapstructure:"amqp_url"`
	AMQPExchange string `mapstructure:"amqp_exchange"`

	RateLimit  int           `mapstructure:"rate_limit"`
	RateWindow time.Duration `mapstructure:"rate_window"`
}

// Production reports whether cookies must carry the Secure attribute.
func (c Config) Production() bool {
	return c.AppEnv == "production"
}

var defaults = map[string]any{
	"app_port":  "8080",
	"app_env":   "development",
	"log_level": "info",
	"web_dir":   "./web",

	"database_dsn": "",

	"redis_addr":     "",
	"redis_password": "",

	"admin_pass":          "",
	"admin_pass_hash":     "",
	"admin_cookie_secret": "",

	"web_push_public_key":  "",
	"web_push_private_key": "",
	"web_push_subject":     "mailto:example@example.com",

	"mail_enable": false,
	"smtp_host":   "",
	"smtp_port":   587,
	"smtp_secure": false,
	"smtp_user":   "",
	"smtp_pass":   "",
	"mail_from":   "",
	"mail_to":     "",

	"amqp_url":      "",
	"amqp_exchange": "pickup.events",

	"rate_limit":  10,
	"rate_window": time.Minute,
}

// Load reads an optional config file from the working directory and lets
// environment variables override it. Missing required keys fail here so the
// process never starts half-configured.
func Load() (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.AdminCookieSecret == "" {
		return ErrMissingCookieSecret
	}
	if c.DatabaseDSN == "" {
		return ErrMissingDatabaseDSN
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		return ErrInvalidRateLimit
	}
	return nil
}
