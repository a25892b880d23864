package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Log      LogConfig
	DB       DBConfig
	Redis    RedisConfig
	GRPC     GRPCConfig
	Metrics  MetricsConfig
	NATS     NATSConfig
	Matching MatchingConfig
	Trace    TraceConfig
}

type AppConfig struct {
	Name    string
	ENV     string
	Version string
}

type LogConfig struct {
	Level     string
	Format    string
	Component string
	Source    bool
}

type DBConfig struct {
	Driver       string // mysql | postgres
	DSN          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	Migrations   string // auto (gorm AutoMigrate) | sql (golang-migrate) | none
	MaxOpenConns int
	MaxIdleConns int
	LogQueries   bool
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	PopularTTL time.Duration
	CountTTL   time.Duration
}

type GRPCConfig struct {
	Host string
	Port string
}

type MetricsConfig struct {
	Addr string
}

type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

type MatchingConfig struct {
	GenderPolicy string
	DefaultLimit int
	MaxLimit     int
}

type TraceConfig struct {
	Enabled      bool
	SamplerRatio float64
}

// New builds the config from environment only. It never fails; malformed
// values fall back to defaults.
func New() *Config {
	cfg, err := Load("")
	if err != nil {
		// only a broken config file can fail, and there is none here
		panic(err)
	}
	return cfg
}

// Load reads .env (if present), an optional YAML config file and the
// environment, in increasing priority.
func Load(file string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	cfg := &Config{}

	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.ENV = v.GetString("APP_ENV")
	cfg.App.Version = v.GetString("APP_VERSION")

	// Logger
	cfg.Log.Level = v.GetString("LOG_LEVEL")
	cfg.Log.Format = v.GetString("LOG_FORMAT")
	cfg.Log.Component = v.GetString("LOG_COMPONENT")
	cfg.Log.Source = v.GetBool("LOG_SOURCE")

	// Database
	cfg.DB.Driver = strings.ToLower(v.GetString("DB_DRIVER"))
	cfg.DB.Host = v.GetString("DB_HOST")
	cfg.DB.Port = v.GetString("DB_PORT")
	cfg.DB.User = v.GetString("DB_USER")
	cfg.DB.Password = v.GetString("DB_PASSWORD")
	cfg.DB.Name = v.GetString("DB_NAME")
	cfg.DB.Migrations = strings.ToLower(v.GetString("DB_MIGRATIONS"))
	cfg.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	cfg.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	cfg.DB.LogQueries = v.GetBool("DB_LOG_QUERIES")
	cfg.DB.DSN = v.GetString("DB_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.DSN = buildDSN(cfg.DB)
	}

	// Redis
	cfg.Redis.Addr = v.GetString("REDIS_ADDR")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PopularTTL = v.GetDuration("REDIS_POPULAR_TTL")
	cfg.Redis.CountTTL = v.GetDuration("REDIS_COUNT_TTL")

	// gRPC
	cfg.GRPC.Host = v.GetString("GRPC_HOST")
	cfg.GRPC.Port = v.GetString("GRPC_PORT")

	cfg.Metrics.Addr = v.GetString("METRICS_ADDR")

	cfg.NATS.URL = v.GetString("NATS_URL")
	cfg.NATS.SubjectPrefix = v.GetString("NATS_SUBJECT_PREFIX")

	// Matching
	cfg.Matching.GenderPolicy = strings.ToLower(v.GetString("MATCHING_GENDER_POLICY"))
	cfg.Matching.DefaultLimit = v.GetInt("MATCHING_DEFAULT_LIMIT")
	cfg.Matching.MaxLimit = v.GetInt("MATCHING_MAX_LIMIT")
	if cfg.Matching.DefaultLimit <= 0 {
		cfg.Matching.DefaultLimit = 20
	}
	if cfg.Matching.MaxLimit < cfg.Matching.DefaultLimit {
		cfg.Matching.MaxLimit = cfg.Matching.DefaultLimit
	}

	cfg.Trace.Enabled = v.GetBool("TRACE_ENABLED")
	cfg.Trace.SamplerRatio = v.GetFloat64("TRACE_SAMPLER_RATIO")

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "muzz-matching")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_VERSION", "dev")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_COMPONENT", "grpc_server")
	v.SetDefault("LOG_SOURCE", false)

	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "root")
	v.SetDefault("DB_NAME", "muzz")
	v.SetDefault("DB_MIGRATIONS", "auto")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_LOG_QUERIES", false)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POPULAR_TTL", 5*time.Minute)
	v.SetDefault("REDIS_COUNT_TTL", time.Hour)

	v.SetDefault("GRPC_HOST", "127.0.0.1")
	v.SetDefault("GRPC_PORT", "50051")

	v.SetDefault("METRICS_ADDR", ":9090")

	v.SetDefault("NATS_URL", "")
	v.SetDefault("NATS_SUBJECT_PREFIX", "match")

	v.SetDefault("MATCHING_GENDER_POLICY", "different")
	v.SetDefault("MATCHING_DEFAULT_LIMIT", 20)
	v.SetDefault("MATCHING_MAX_LIMIT", 100)

	v.SetDefault("TRACE_ENABLED", false)
	v.SetDefault("TRACE_SAMPLER_RATIO", 1.0)
}

func buildDSN(db DBConfig) string {
	if db.Driver == "postgres" {
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			db.Host, db.Port, db.User, db.Password, db.Name,
		)
	}
	// multiStatements lets golang-migrate run multi-statement files
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC&multiStatements=true",
		db.User, db.Password, db.Host, db.Port, db.Name,
	)
}
