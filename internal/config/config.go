package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	ServiceCatalog ServiceCatalogConfig `toml:"service_catalog"`
	Events         EventsConfig         `toml:"events"`
	Locks          LocksConfig          `toml:"locks"`
	Reservations   ReservationsConfig   `toml:"reservations"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
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

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// ServiceCatalogConfig настройки клиента Service Catalog
type ServiceCatalogConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// EventsConfig настройки публикации событий бронирований в RabbitMQ
type EventsConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

// LocksConfig настройки advisory-блокировок административных операций
type LocksConfig struct {
	Enabled   bool   `toml:"enabled"`
	RedisAddr string `toml:"redis_addr"`
	TTL       int    `toml:"ttl"` // секунды
}

// ReservationsConfig настройки движка резервирования
type ReservationsConfig struct {
	MaxHorizonDays      int `toml:"max_horizon_days"`     // максимальный горизонт материализации слотов
	LockTimeoutMS       int `toml:"lock_timeout_ms"`      // таймаут ожидания блокировки строки
	SerializableRetries int `toml:"serializable_retries"` // повторы при serialization failure
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("server.http_port must be positive")
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("database.host and database.dbname are required")
	}
	if c.ServiceCatalog.URL == "" {
		return fmt.Errorf("service_catalog.url is required")
	}
	if c.Reservations.MaxHorizonDays <= 0 {
		c.Reservations.MaxHorizonDays = 120
	}
	return nil
}
