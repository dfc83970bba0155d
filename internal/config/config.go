package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrReadConfig возвращается, если файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при недопустимых значениях
	ErrInvalidConfig = errors.New("config: invalid config")
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig      `toml:"server"`
	Database       DatabaseConfig    `toml:"database"`
	Logs           LogsConfig        `toml:"logs"`
	Metrics        MetricsConfig     `toml:"metrics"`
	PricingService IntegrationConfig `toml:"pricing_service"`
	UserService    IntegrationConfig `toml:"user_service"`
	Wizard         WizardConfig      `toml:"wizard"`
}

// ServerConfig таймауты указываются в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

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
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// IntegrationConfig адрес внешнего сервиса, Timeout в секундах
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// WizardConfig сессии мастера и хранение расчетов
type WizardConfig struct {
	SessionTTL      int `toml:"session_ttl"`      // секунды без активности до закрытия сессии
	JanitorInterval int `toml:"janitor_interval"` // секунды между очистками
	MaxSessions     int `toml:"max_sessions"`     // 0 - без ограничения
	DraftTTL        int `toml:"draft_ttl"`        // секунды хранения расчета для оформления
}

func (w WizardConfig) SessionTTLDuration() time.Duration {
	return time.Duration(w.SessionTTL) * time.Second
}

func (w WizardConfig) JanitorIntervalDuration() time.Duration {
	return time.Duration(w.JanitorInterval) * time.Second
}

func (w WizardConfig) DraftTTLDuration() time.Duration {
	return time.Duration(w.DraftTTL) * time.Second
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "osago",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			File:  "logs/service.log",
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			ServiceName: "osago-quote-service",
			Path:        "/metrics",
		},
		PricingService: IntegrationConfig{
			URL:     "http://localhost:8080",
			Timeout: 10,
		},
		UserService: IntegrationConfig{
			URL:     "http://localhost:8081",
			Timeout: 5,
		},
		Wizard: WizardConfig{
			SessionTTL:      1800,
			JanitorInterval: 60,
			MaxSessions:     10000,
			DraftTTL:        86400,
		},
	}
}

// Load читает TOML поверх значений по умолчанию, затем применяет переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv переопределения для деплоя без правки файла
func (c *Config) applyEnv() error {
	setString := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	setString("DB_HOST", &c.Database.Host)
	setString("DB_USER", &c.Database.User)
	setString("DB_PASSWORD", &c.Database.Password)
	setString("DB_NAME", &c.Database.DBName)
	setString("DB_SSLMODE", &c.Database.SSLMode)
	setString("PRICING_SERVICE_URL", &c.PricingService.URL)
	setString("USER_SERVICE_URL", &c.UserService.URL)
	setString("LOG_LEVEL", &c.Logs.Level)

	if v, ok := os.LookupEnv("DB_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: DB_PORT=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Database.Port = port
	}

	return nil
}

// Validate проверяет обязательные значения
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	case c.Database.Host == "" || c.Database.DBName == "":
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	case c.PricingService.URL == "":
		return fmt.Errorf("%w: pricing_service.url is required", ErrInvalidConfig)
	case c.PricingService.Timeout <= 0:
		return fmt.Errorf("%w: pricing_service.timeout must be positive", ErrInvalidConfig)
	case c.UserService.Timeout <= 0:
		return fmt.Errorf("%w: user_service.timeout must be positive", ErrInvalidConfig)
	case c.Wizard.SessionTTL <= 0 || c.Wizard.JanitorInterval <= 0 || c.Wizard.DraftTTL <= 0:
		return fmt.Errorf("%w: wizard.session_ttl, janitor_interval and draft_ttl must be positive", ErrInvalidConfig)
	case c.Wizard.MaxSessions < 0:
		return fmt.Errorf("%w: wizard.max_sessions must not be negative", ErrInvalidConfig)
	case c.Metrics.Enabled && c.Metrics.Path == "":
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}
	return nil
}
