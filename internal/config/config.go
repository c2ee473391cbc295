package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Драйверы хранилища сессий
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config содержит всю конфигурацию портала
type Config struct {
	Server   ServerConfig   // Настройки HTTP сервера
	Backend  BackendConfig  // Настройки внешнего REST API
	JWT      JWTConfig      // Настройки JWT сессий портала
	Storage  StorageConfig  // Выбор хранилища сессий
	Database DatabaseConfig // Настройки подключения к БД (для SESSION_STORE=postgres)
	Redis    RedisConfig    // Настройки Redis (для SESSION_STORE=redis)
	Admin    AdminConfig    // Настройки админки
	Log      LogConfig      // Настройки логирования
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port        string   `envconfig:"SERVER_PORT" default:"8080"`
	Host        string   `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// BackendConfig содержит настройки клиента backend
type BackendConfig struct {
	URL      string        `envconfig:"BACKEND_URL" default:"http://localhost:8000"`
	BasePath string        `envconfig:"BACKEND_BASE_PATH" default:"/api"`
	Timeout  time.Duration `envconfig:"BACKEND_TIMEOUT" default:"15s"`
}

// BaseURL возвращает адрес backend вместе с базовым путем
func (b BackendConfig) BaseURL() string {
	return strings.TrimRight(b.URL, "/") + "/" + strings.Trim(b.BasePath, "/")
}

// JWTConfig содержит настройки JWT авторизации портала
type JWTConfig struct {
	Secret          string `envconfig:"JWT_SECRET" required:"true"`
	ExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`
}

// GetExpiration возвращает срок действия токена как time.Duration
func (j JWTConfig) GetExpiration() time.Duration {
	return time.Duration(j.ExpirationHours) * time.Hour
}

// StorageConfig определяет, где хранятся сессии портала
type StorageConfig struct {
	Driver      string `envconfig:"SESSION_STORE" default:"file"`
	SessionFile string `envconfig:"SESSION_FILE" default:"portal_sessions.json"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"portal"`
	Password string `envconfig:"DB_PASSWORD" default:"portal_pass"`
	Name     string `envconfig:"DB_NAME" default:"portal"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"1"`
}

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// AdminConfig содержит настройки админки
type AdminConfig struct {
	RegistryPath string `envconfig:"ADMIN_REGISTRY"`
	PageSize     int    `envconfig:"ADMIN_PAGE_SIZE" default:"50"`
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// SlogLevel преобразует строковый уровень в slog.Level
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	switch c.Storage.Driver {
	case StoreFile, StorePostgres, StoreRedis:
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.Storage.Driver)
	}
	if c.Backend.Timeout <= 0 {
		return errors.New("BACKEND_TIMEOUT must be positive")
	}
	if c.Admin.PageSize < 1 || c.Admin.PageSize > 200 {
		return fmt.Errorf("ADMIN_PAGE_SIZE must be within 1..200, got %d", c.Admin.PageSize)
	}
	return nil
}

// Load читает конфигурацию из .env (если есть) и переменных окружения
func Load() (*Config, error) {
	// godotenv не перезаписывает уже заданные переменные окружения
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
