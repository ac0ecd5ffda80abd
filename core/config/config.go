package config

import (
	"fmt"
	"sync"

	"studio-api/core/constants"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host     string
	Port     int
	BaseURL  string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GoogleAPIConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	CalendarID   string
}

type StorageConfig struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

type CalendarConfig struct {
	Timezone              string
	DefaultShootMinutes   int
	DefaultSessionMinutes int
}

type CleanupConfig struct {
	RetentionDays int
	CronSpec      string
	// AdminKeyHash is the bcrypt hash of the key privileged callers present
	// on the cleanup action.
	AdminKeyHash string
}

type JWTConfig struct {
	Secret string
}

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	GoogleAPI GoogleAPIConfig
	Storage   StorageConfig
	Calendar  CalendarConfig
	Cleanup   CleanupConfig
	JWT       JWTConfig
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads .env (if present) and the environment into the process config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 7070)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", constants.DatabaseSSLMode)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("GOOGLE_CALENDAR_ID", "primary")
	v.SetDefault("STORAGE_REGION", "eu-central-1")
	v.SetDefault("CALENDAR_TIMEZONE", constants.DefaultStudioTimezone)
	v.SetDefault("CALENDAR_SHOOT_MINUTES", constants.DefaultShootDurationMinutes)
	v.SetDefault("CALENDAR_SESSION_MINUTES", constants.DefaultSessionDurationMinutes)
	v.SetDefault("CLEANUP_RETENTION_DAYS", constants.DefaultRetentionDays)
	v.SetDefault("CLEANUP_CRON", constants.DefaultCleanupCron)

	cfg := &Config{
		Server: ServerConfig{
			Host:     v.GetString("SERVER_HOST"),
			Port:     v.GetInt("SERVER_PORT"),
			BaseURL:  v.GetString("SERVER_BASE_URL"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		GoogleAPI: GoogleAPIConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			RefreshToken: v.GetString("GOOGLE_REFRESH_TOKEN"),
			CalendarID:   v.GetString("GOOGLE_CALENDAR_ID"),
		},
		Storage: StorageConfig{
			Region:          v.GetString("STORAGE_REGION"),
			Bucket:          v.GetString("STORAGE_BUCKET"),
			AccessKeyID:     v.GetString("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("STORAGE_SECRET_ACCESS_KEY"),
			Endpoint:        v.GetString("STORAGE_ENDPOINT"),
		},
		Calendar: CalendarConfig{
			Timezone:              v.GetString("CALENDAR_TIMEZONE"),
			DefaultShootMinutes:   v.GetInt("CALENDAR_SHOOT_MINUTES"),
			DefaultSessionMinutes: v.GetInt("CALENDAR_SESSION_MINUTES"),
		},
		Cleanup: CleanupConfig{
			RetentionDays: v.GetInt("CLEANUP_RETENTION_DAYS"),
			CronSpec:      v.GetString("CLEANUP_CRON"),
			AdminKeyHash:  v.GetString("CLEANUP_ADMIN_KEY_HASH"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
	}

	if cfg.Database.DBName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()
	return cfg, nil
}

func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return nil, false
	}
	return instance, true
}

// Set replaces the process config. Used by tests.
func Set(cfg *Config) {
	mu.Lock()
	instance = cfg
	mu.Unlock()
}
