package utils

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	AMQP      AMQPConfig
	Email     EmailConfig
	OTP       OTPConfig
	Razorpay  RazorpayConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	AllowedOrigins []string
	SessionHours   int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type RedisConfig struct {
	URL string
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

// Enabled reports whether gateway refunds can be issued.
func (c RazorpayConfig) Enabled() bool {
	return c.KeyID != "" && c.KeySecret != ""
}

// RateLimitConfig holds limiter rates in "<limit>-<period>" form, e.g. "10-1m".
type RateLimitConfig struct {
	Auth   string
	Cancel string
}

type JobsConfig struct {
	ExpireBookingsSchedule string
	CleanSessionsSchedule  string
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables always win
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_NAME", "picnify")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("SESSION_HOURS", 24)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("AMQP_EXCHANGE", "picnify.events")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("OTP_EXPIRY_MINUTES", 10)
	viper.SetDefault("OTP_LENGTH", 6)
	viper.SetDefault("RATE_LIMIT_AUTH", "10-1m")
	viper.SetDefault("RATE_LIMIT_CANCEL", "5-1m")
	viper.SetDefault("JOB_EXPIRE_BOOKINGS", "*/15 * * * *")
	viper.SetDefault("JOB_CLEAN_SESSIONS", "0 3 * * *")

	config := &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Port:           viper.GetString("PORT"),
			Debug:          viper.GetBool("DEBUG"),
			LogPath:        viper.GetString("LOG_PATH"),
			AllowedOrigins: splitList(viper.GetString("ALLOWED_ORIGINS")),
			SessionHours:   viper.GetInt("SESSION_HOURS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			URL: viper.GetString("REDIS_URL"),
		},
		AMQP: AMQPConfig{
			URL:      viper.GetString("AMQP_URL"),
			Exchange: viper.GetString("AMQP_EXCHANGE"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: viper.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        viper.GetInt("OTP_LENGTH"),
		},
		Razorpay: RazorpayConfig{
			KeyID:     viper.GetString("RAZORPAY_KEY_ID"),
			KeySecret: viper.GetString("RAZORPAY_KEY_SECRET"),
		},
		RateLimit: RateLimitConfig{
			Auth:   viper.GetString("RATE_LIMIT_AUTH"),
			Cancel: viper.GetString("RATE_LIMIT_CANCEL"),
		},
		Jobs: JobsConfig{
			ExpireBookingsSchedule: viper.GetString("JOB_EXPIRE_BOOKINGS"),
			CleanSessionsSchedule:  viper.GetString("JOB_CLEAN_SESSIONS"),
		},
	}

	if config.Database.Host == "" || config.Database.Name == "" || config.Database.User == "" {
		return nil, fmt.Errorf("DB_HOST, DB_NAME and DB_USER must be set")
	}

	if config.App.SessionHours <= 0 {
		config.App.SessionHours = 24
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
