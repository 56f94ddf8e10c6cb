package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/clinicore/backend/pkg/config"
	"github.com/clinicore/backend/pkg/database"
)

// Config holds all configuration for the clinic backend.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"clinic-backend"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`

	HTTP     HTTPConfig
	JWT      JWTConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
	Google   GoogleConfig
	SMTP     SMTPConfig
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port            int           `env:"HTTP_PORT" envDefault:"8000"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// JWTConfig holds session token configuration.
type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
}

// PostgresConfig holds database connection configuration.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"clinic"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"clinic_secret"`
	DBName   string `env:"POSTGRES_DB" envDefault:"clinic"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

// Pool maps the environment-driven settings onto the pool configuration.
func (c PostgresConfig) Pool() database.PostgresConfig {
	pool := database.DefaultPostgresConfig()
	pool.Host = c.Host
	pool.Port = c.Port
	pool.User = c.User
	pool.Password = c.Password
	pool.DBName = c.DBName
	pool.SSLMode = c.SSLMode
	return pool
}

// KafkaConfig holds event broker configuration.
type KafkaConfig struct {
	Enabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`
	Brokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
}

// GoogleConfig holds federated sign-in configuration.
type GoogleConfig struct {
	ClientID string `env:"GOOGLE_CLIENT_ID"`
}

// SMTPConfig holds outbound mail configuration.
type SMTPConfig struct {
	Enabled  bool   `env:"SMTP_ENABLED" envDefault:"false"`
	Host     string `env:"SMTP_HOST" envDefault:"localhost"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" envDefault:"no-reply@clinicore.local"`
}

// Addr returns the SMTP server address.
func (c SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDevelopment reports whether the service runs in the development
// environment. Cookie security flags derive from this.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
