package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"posture-detector-go/internal/pose"
	"posture-detector-go/internal/posture"
)

// Config структура конфигурации приложения
type Config struct {
	Server struct {
		Port        int
		Host        string
		Environment string
	}
	PoseAPI struct {
		BaseURL string
		Timeout int // в секундах
	}
	Logging struct {
		Level  string
		Format string // json или text
		File   string // пусто - только stdout
	}
	Database struct {
		Driver     string // postgres или sqlite
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		SSLMode    string
		SQLitePath string
	}
	Redis struct {
		Address    string // пусто - кэш в памяти
		Password   string
		DB         int
		VerdictTTL time.Duration
	}
	Posture struct {
		NeckAngleThreshold float64
		BackAngleThreshold float64
		MinVisibility      float64
		ThresholdsFile     string
	}
	RateLimit struct {
		RequestsPerSecond float64
		Burst             int
	}
	Batch struct {
		Workers int
	}
}

// thresholdsFile формат YAML файла с порогами
type thresholdsFile struct {
	NeckDegrees   *float64 `yaml:"neck_degrees"`
	BackDegrees   *float64 `yaml:"back_degrees"`
	MinVisibility *float64 `yaml:"min_visibility"`
}

// LoadConfig загружает конфигурацию из .env файла (если есть) и переменных окружения
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := FromEnv()

	if cfg.Posture.ThresholdsFile != "" {
		if err := cfg.applyThresholdsFile(cfg.Posture.ThresholdsFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromEnv читает конфигурацию только из переменных окружения
func FromEnv() *Config {
	cfg := &Config{}
	defaults := posture.DefaultThresholds()

	// Конфигурация сервера
	cfg.Server.Port = getEnvInt("SERVER_PORT", 8080)
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.Server.Environment = getEnv("ENVIRONMENT", "development")

	// Конфигурация Python API
	cfg.PoseAPI.BaseURL = getEnv("POSE_API_BASE_URL", "http://localhost:8000")
	cfg.PoseAPI.Timeout = getEnvInt("POSE_API_TIMEOUT_SECONDS", 10)

	// Конфигурация логирования
	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")
	cfg.Logging.Format = getEnv("LOG_FORMAT", "json")
	cfg.Logging.File = getEnv("LOG_FILE", "")

	// Конфигурация базы данных
	cfg.Database.Driver = getEnv("DB_DRIVER", "postgres")
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.Name = getEnv("DB_NAME", "posture_detector")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres123")
	cfg.Database.SSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.Database.SQLitePath = getEnv("DB_SQLITE_PATH", "posture.db")

	// Конфигурация Redis
	cfg.Redis.Address = getEnv("REDIS_ADDRESS", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	cfg.Redis.VerdictTTL = getEnvDuration("VERDICT_TTL", 5*time.Second)

	// Пороги классификации
	cfg.Posture.NeckAngleThreshold = getEnvFloat("NECK_ANGLE_THRESHOLD", defaults.NeckDegrees)
	cfg.Posture.BackAngleThreshold = getEnvFloat("BACK_ANGLE_THRESHOLD", defaults.BackDegrees)
	cfg.Posture.MinVisibility = getEnvFloat("MIN_LANDMARK_VISIBILITY", pose.DefaultMinVisibility)
	cfg.Posture.ThresholdsFile = getEnv("POSTURE_THRESHOLDS_FILE", "")

	// Ограничение частоты запросов
	cfg.RateLimit.RequestsPerSecond = getEnvFloat("RATE_LIMIT_RPS", 30)
	cfg.RateLimit.Burst = getEnvInt("RATE_LIMIT_BURST", 60)

	cfg.Batch.Workers = getEnvInt("BATCH_WORKERS", 4)

	return cfg
}

// Thresholds возвращает пороги классификации
func (c *Config) Thresholds() posture.Thresholds {
	return posture.Thresholds{
		NeckDegrees: c.Posture.NeckAngleThreshold,
		BackDegrees: c.Posture.BackAngleThreshold,
	}
}

// PoseAPITimeout таймаут запросов к сервису оценки позы
func (c *Config) PoseAPITimeout() time.Duration {
	return time.Duration(c.PoseAPI.Timeout) * time.Second
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if err := c.Thresholds().Validate(); err != nil {
		return fmt.Errorf("invalid posture thresholds: %w", err)
	}
	if c.Posture.MinVisibility < 0 || c.Posture.MinVisibility > 1 {
		return fmt.Errorf("min landmark visibility must be within [0, 1], got %v", c.Posture.MinVisibility)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch workers must be positive, got %d", c.Batch.Workers)
	}
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

// applyThresholdsFile переопределяет пороги значениями из YAML файла
func (c *Config) applyThresholdsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read thresholds file %s: %w", path, err)
	}

	var file thresholdsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse thresholds file %s: %w", path, err)
	}

	if file.NeckDegrees != nil {
		c.Posture.NeckAngleThreshold = *file.NeckDegrees
	}
	if file.BackDegrees != nil {
		c.Posture.BackAngleThreshold = *file.BackDegrees
	}
	if file.MinVisibility != nil {
		c.Posture.MinVisibility = *file.MinVisibility
	}

	return nil
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает int значение переменной окружения или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает float значение переменной окружения или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration получает длительность (например, 5s) или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
