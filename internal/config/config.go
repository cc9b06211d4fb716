package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config корневая конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Availability AvailabilityConfig `toml:"availability"`
	Payments     PaymentsConfig     `toml:"payments"`
	Events       EventsConfig       `toml:"events"`
	RateLimit    RateLimitConfig    `toml:"rate_limit"`
	Tracing      TracingConfig      `toml:"tracing"`
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AvailabilityConfig параметры расчёта свободных слотов
type AvailabilityConfig struct {
	DefaultOpen     string `toml:"default_open"`
	DefaultClose    string `toml:"default_close"`
	StrideMinutes   int    `toml:"stride_minutes"`
	Timezone        string `toml:"timezone"`
	HonorClosedDays bool   `toml:"honor_closed_days"`
}

// Location возвращает часовой пояс, в котором интерпретируются "HH:MM" бронирований
func (c AvailabilityConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// PaymentsConfig настройки Stripe Checkout
type PaymentsConfig struct {
	Enabled          bool   `toml:"enabled"`
	SecretKey        string `toml:"secret_key"`
	WebhookSecret    string `toml:"webhook_secret"`
	WebhookTolerance int    `toml:"webhook_tolerance"` // секунды
	SuccessURL       string `toml:"success_url"`
	CancelURL        string `toml:"cancel_url"`
}

// EventsConfig настройки публикации событий в Kafka
type EventsConfig struct {
	Enabled      bool     `toml:"enabled"`
	Brokers      []string `toml:"brokers"`
	Topic        string   `toml:"topic"`
	WriteTimeout int      `toml:"write_timeout"` // секунды
}

// RateLimitConfig ограничение частоты запросов к публичным ручкам
type RateLimitConfig struct {
	Enabled        bool     `toml:"enabled"`
	Limit          int      `toml:"limit"`
	WindowSeconds  int      `toml:"window_seconds"`
	RedisAddr      string   `toml:"redis_addr"` // пусто - лимитер в памяти процесса
	RedisPassword  string   `toml:"redis_password"`
	RedisDB        int      `toml:"redis_db"`
	TrustedProxies []string `toml:"trusted_proxies"` // CIDR или IP, которым разрешено передавать X-Forwarded-For
}

// TracingConfig настройки OpenTelemetry
type TracingConfig struct {
	Enabled      bool     `toml:"enabled"`
	OTLPEndpoint string   `toml:"otlp_endpoint"`
	SampleRatio  *float64 `toml:"sample_ratio"` // не задан = 1, 0 = не семплировать
}

// Load читает TOML-файл, заполняет значения по умолчанию, применяет секреты из окружения и валидирует результат
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)

	setDefault(&c.Database.Host, "localhost")
	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.SSLMode, "disable")
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	setDefault(&c.Logs.Level, "info")

	setDefault(&c.Metrics.Path, "/metrics")
	setDefault(&c.Metrics.ServiceName, "salon_booking")

	setDefault(&c.Availability.DefaultOpen, "09:00")
	setDefault(&c.Availability.DefaultClose, "17:00")
	setDefault(&c.Availability.StrideMinutes, 30)
	setDefault(&c.Availability.Timezone, "UTC")

	setDefault(&c.Payments.WebhookTolerance, 300)

	setDefault(&c.Events.Topic, "booking-events")
	setDefault(&c.Events.WriteTimeout, 5)

	setDefault(&c.RateLimit.Limit, 60)
	setDefault(&c.RateLimit.WindowSeconds, 60)

	setDefault(&c.Tracing.OTLPEndpoint, "localhost:4317")
	if c.Tracing.SampleRatio == nil {
		c.Tracing.SampleRatio = ptr.Ptr(1.0)
	}
}

// applyEnv секреты в config.toml не храним, переменные окружения имеют приоритет
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("DB_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := lookup("STRIPE_SECRET_KEY"); ok {
		c.Payments.SecretKey = v
	}
	if v, ok := lookup("STRIPE_WEBHOOK_SECRET"); ok {
		c.Payments.WebhookSecret = v
	}
	if v, ok := lookup("REDIS_PASSWORD"); ok {
		c.RateLimit.RedisPassword = v
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	open, err := types.NewTimeStringFromString(c.Availability.DefaultOpen)
	if err != nil {
		return fmt.Errorf("%w: availability.default_open: %v", ErrInvalidConfig, err)
	}
	closeTime, err := types.NewTimeStringFromString(c.Availability.DefaultClose)
	if err != nil {
		return fmt.Errorf("%w: availability.default_close: %v", ErrInvalidConfig, err)
	}
	if !open.IsBefore(closeTime) {
		return fmt.Errorf("%w: availability.default_open must be before default_close", ErrInvalidConfig)
	}
	if c.Availability.StrideMinutes <= 0 {
		return fmt.Errorf("%w: availability.stride_minutes must be positive", ErrInvalidConfig)
	}
	if _, err := c.Availability.Location(); err != nil {
		return fmt.Errorf("%w: availability.timezone: %v", ErrInvalidConfig, err)
	}

	if c.Payments.Enabled {
		if c.Payments.SecretKey == "" || c.Payments.WebhookSecret == "" {
			return fmt.Errorf("%w: payments enabled without stripe keys", ErrInvalidConfig)
		}
		if c.Payments.SuccessURL == "" || c.Payments.CancelURL == "" {
			return fmt.Errorf("%w: payments.success_url and payments.cancel_url are required", ErrInvalidConfig)
		}
	}

	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("%w: events enabled without brokers", ErrInvalidConfig)
	}

	for _, proxy := range c.RateLimit.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("%w: rate_limit.trusted_proxies: invalid entry %q", ErrInvalidConfig, proxy)
		}
	}

	if r := c.Tracing.SampleRatio; r != nil && (*r < 0 || *r > 1) {
		return fmt.Errorf("%w: tracing.sample_ratio must be in [0, 1]", ErrInvalidConfig)
	}

	return nil
}

func validProxy(raw string) bool {
	if strings.Contains(raw, "/") {
		_, _, err := net.ParseCIDR(raw)
		return err == nil
	}
	return net.ParseIP(raw) != nil
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}
