package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Redis    RedisConfig    `toml:"redis"`
	SMS      SMSConfig      `toml:"sms"`
	Booking  BookingConfig  `toml:"booking"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки ленты изменений.
// Пустой Addr - лента в памяти процесса.
type RedisConfig struct {
	Addr          string `toml:"addr"`
	Password      string `toml:"password"`
	DB            int    `toml:"db"`
	ChannelPrefix string `toml:"channel_prefix"`
}

// Enabled true, если лента изменений идет через Redis
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// SMSConfig настройки SMS шлюза Twilio
type SMSConfig struct {
	Enabled    bool   `toml:"enabled"`
	AccountSID string `toml:"account_sid"`
	AuthToken  string `toml:"auth_token"`
	FromNumber string `toml:"from_number"`
}

// BookingConfig правила приема бронирований
type BookingConfig struct {
	MinBookingNoticeMinutes int `toml:"min_booking_notice_minutes"`
	AdvanceBookingDays      int `toml:"advance_booking_days"`
	ReferenceCodeRetries    int `toml:"reference_code_retries"`
}

// Load читает конфигурацию из toml файла, подгружает .env (если есть)
// и применяет переопределения из переменных окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	// .env необязателен
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "court_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "court_booking_service",
		},
		Redis: RedisConfig{
			ChannelPrefix: "court-booking",
		},
		Booking: BookingConfig{
			MinBookingNoticeMinutes: 30,
			ReferenceCodeRetries:    5,
		},
	}
}

func (c *Config) applyEnv() error {
	overrides := []struct {
		name   string
		target *string
	}{
		{"DB_HOST", &c.Database.Host},
		{"DB_USER", &c.Database.User},
		{"DB_PASSWORD", &c.Database.Password},
		{"DB_NAME", &c.Database.DBName},
		{"REDIS_ADDR", &c.Redis.Addr},
		{"REDIS_PASSWORD", &c.Redis.Password},
		{"TWILIO_ACCOUNT_SID", &c.SMS.AccountSID},
		{"TWILIO_AUTH_TOKEN", &c.SMS.AuthToken},
		{"TWILIO_FROM_NUMBER", &c.SMS.FromNumber},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.name); ok {
			*o.target = v
		}
	}

	if v, ok := os.LookupEnv("DB_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: DB_PORT: %v", ErrInvalidConfig, err)
		}
		c.Database.Port = port
	}
	if v, ok := os.LookupEnv("HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: HTTP_PORT: %v", ErrInvalidConfig, err)
		}
		c.Server.HTTPPort = port
	}

	return nil
}

// Validate проверяет, что с конфигурацией можно стартовать
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}
	if c.SMS.Enabled {
		if c.SMS.AccountSID == "" || c.SMS.AuthToken == "" || c.SMS.FromNumber == "" {
			return fmt.Errorf("%w: sms requires account_sid, auth_token and from_number", ErrInvalidConfig)
		}
	}
	if c.Booking.MinBookingNoticeMinutes < 0 {
		return fmt.Errorf("%w: booking.min_booking_notice_minutes must be >= 0", ErrInvalidConfig)
	}
	if c.Booking.AdvanceBookingDays < 0 || c.Booking.AdvanceBookingDays > 365 {
		return fmt.Errorf("%w: booking.advance_booking_days must be in 0..365", ErrInvalidConfig)
	}
	if c.Booking.ReferenceCodeRetries < 1 {
		return fmt.Errorf("%w: booking.reference_code_retries must be >= 1", ErrInvalidConfig)
	}
	return nil
}
