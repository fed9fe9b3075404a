// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Planning PlanningConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL              string // full connection string, overrides the field-level settings
	Host             string
	Port             string
	User             string
	Password         string
	DBName           string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	MaxTxConcurrency int
}

type CacheConfig struct {
	Enabled        bool
	RedisURL       string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	PlanTTLSeconds int
}

// StorageConfig holds optional S3-compatible archive settings for plan
// output files.
type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// PlanningConfig carries every recognized planning option. Values are the
// documented defaults; each can be overridden per run through the service
// layer.
type PlanningConfig struct {
	ServiceLevelZ       float64 // z-score for the target service level
	OrderUpToDays       int
	MinOrderQty         float64
	DefaultLeadTimeDays float64
	TriggerCoverDays    float64 // days-of-cover shortage trigger
	ServiceLevelMin     float64 // service-level shortage trigger
	WorkerCount         int     // bounded fan-out over facility-item pairs
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DATABASE_URL", "")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "supplyplan")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
		viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
		viper.SetDefault("DB_MAX_TX_CONCURRENCY", 10)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_PLAN_TTL_SECONDS", 60)
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "supplyplan-output")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("PLAN_SERVICE_LEVEL_Z", 1.65)
		viper.SetDefault("PLAN_ORDER_UP_TO_DAYS", 14)
		viper.SetDefault("PLAN_MIN_ORDER_QTY", 0.0)
		viper.SetDefault("PLAN_DEFAULT_LEAD_TIME_DAYS", 7.0)
		viper.SetDefault("PLAN_TRIGGER_COVER_DAYS", 7.0)
		viper.SetDefault("PLAN_SERVICE_LEVEL_MIN", 0.90)
		viper.SetDefault("PLAN_WORKER_COUNT", 4)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				URL:              viper.GetString("DATABASE_URL"),
				Host:             viper.GetString("DB_HOST"),
				Port:             viper.GetString("DB_PORT"),
				User:             viper.GetString("DB_USER"),
				Password:         viper.GetString("DB_PASSWORD"),
				DBName:           viper.GetString("DB_NAME"),
				SSLMode:          viper.GetString("DB_SSLMODE"),
				MaxOpenConns:     viper.GetInt("DB_MAX_OPEN_CONNS"),
				MaxIdleConns:     viper.GetInt("DB_MAX_IDLE_CONNS"),
				MaxTxConcurrency: viper.GetInt("DB_MAX_TX_CONCURRENCY"),
			},
			Cache: CacheConfig{
				Enabled:        viper.GetBool("CACHE_ENABLED"),
				RedisURL:       viper.GetString("REDIS_URL"),
				RedisHost:      viper.GetString("REDIS_HOST"),
				RedisPort:      viper.GetString("REDIS_PORT"),
				RedisPassword:  viper.GetString("REDIS_PASSWORD"),
				RedisDB:        viper.GetInt("REDIS_DB"),
				PlanTTLSeconds: viper.GetInt("CACHE_PLAN_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			Planning: PlanningConfig{
				ServiceLevelZ:       viper.GetFloat64("PLAN_SERVICE_LEVEL_Z"),
				OrderUpToDays:       viper.GetInt("PLAN_ORDER_UP_TO_DAYS"),
				MinOrderQty:         viper.GetFloat64("PLAN_MIN_ORDER_QTY"),
				DefaultLeadTimeDays: viper.GetFloat64("PLAN_DEFAULT_LEAD_TIME_DAYS"),
				TriggerCoverDays:    viper.GetFloat64("PLAN_TRIGGER_COVER_DAYS"),
				ServiceLevelMin:     viper.GetFloat64("PLAN_SERVICE_LEVEL_MIN"),
				WorkerCount:         viper.GetInt("PLAN_WORKER_COUNT"),
			},
		}
	})

	return instance
}
