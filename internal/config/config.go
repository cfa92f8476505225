package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/aidar/courtmatch/internal/domain"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server      ServerConfig      // Настройки HTTP сервера
	Database    DatabaseConfig    // Настройки подключения к БД
	JWT         JWTConfig         // Настройки JWT авторизации
	Redis       RedisConfig       // Публикация событий
	Matchmaking MatchmakingConfig // Параметры подбора команд
	Log         LogConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port string `envconfig:"SERVER_PORT" default:"8080"`
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host          string `envconfig:"DB_HOST" default:"localhost"`
	Port          string `envconfig:"DB_PORT" default:"5432"`
	User          string `envconfig:"DB_USER" default:"courtmatch"`
	Password      string `envconfig:"DB_PASSWORD" default:"courtmatch_pass"`
	Name          string `envconfig:"DB_NAME" default:"courtmatch"`
	SSLMode       string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns      int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns      int32  `envconfig:"DB_MIN_CONNS" default:"5"`
	RunMigrations bool   `envconfig:"DB_RUN_MIGRATIONS" default:"true"`
}

// JWTConfig содержит настройки JWT авторизации
type JWTConfig struct {
	Secret          string `envconfig:"JWT_SECRET" required:"true"`
	ExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`
}

// RedisConfig содержит настройки публикации событий.
// Пустой URL отключает публикацию
type RedisConfig struct {
	URL     string `envconfig:"REDIS_URL"`
	Channel string `envconfig:"REDIS_CHANNEL" default:"courtmatch_events"`
}

// MatchmakingConfig содержит параметры подбора команд
type MatchmakingConfig struct {
	ScopeCap          int `envconfig:"MATCHMAKING_SCOPE_CAP" default:"8"`
	PowerCasual       int `envconfig:"MATCHMAKING_POWER_CASUAL" default:"50"`
	PowerBeginner     int `envconfig:"MATCHMAKING_POWER_BEGINNER" default:"60"`
	PowerIntermediate int `envconfig:"MATCHMAKING_POWER_INTERMEDIATE" default:"80"`
	PowerAdvanced     int `envconfig:"MATCHMAKING_POWER_ADVANCED" default:"90"`
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// GetExpiration возвращает срок действия токена как time.Duration
func (j JWTConfig) GetExpiration() time.Duration {
	return time.Duration(j.ExpirationHours) * time.Hour
}

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// PowerModel возвращает веса уровней игры
func (m MatchmakingConfig) PowerModel() domain.PowerModel {
	return domain.PowerModel{
		domain.LevelCasual:       m.PowerCasual,
		domain.LevelBeginner:     m.PowerBeginner,
		domain.LevelIntermediate: m.PowerIntermediate,
		domain.LevelAdvanced:     m.PowerAdvanced,
	}
}

// Load читает конфигурацию из переменных окружения.
// Файл .env, если он есть, подгружается для локальной разработки
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Matchmaking.ScopeCap < 2 {
		return nil, fmt.Errorf("failed to load config: MATCHMAKING_SCOPE_CAP must be at least 2, got %d", cfg.Matchmaking.ScopeCap)
	}
	return &cfg, nil
}
