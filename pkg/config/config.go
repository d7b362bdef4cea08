package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Recommend RecommendConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	AllowOrigins   []string
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	Enabled       bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type RecommendConfig struct {
	DefaultLimit       int
	MaxLimit           int
	FetchTimeout       time.Duration
	ContentStrategy    string
	TrendingStrategy   string
	TrendingWindowDays int
	NumVariants        int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Shop Recommender"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "5000"),
			AllowOrigins:   strings.Split(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173"), ","),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 5*time.Second),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", DriverPostgres),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "shop"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			Enabled:       getEnvBool("REDIS_ENABLED", false),
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Recommend: RecommendConfig{
			ContentStrategy:  getEnv("RECOMMEND_CONTENT_STRATEGY", "weighted_profile"),
			TrendingStrategy: getEnv("RECOMMEND_TRENDING_STRATEGY", "popularity"),
			FetchTimeout:     getEnvDuration("RECOMMEND_FETCH_TIMEOUT", 2*time.Second),
		},
	}

	if cfg.Recommend.DefaultLimit, err = getEnvInt("RECOMMEND_DEFAULT_LIMIT", 12); err != nil {
		return nil, errors.New("invalid RECOMMEND_DEFAULT_LIMIT")
	}
	if cfg.Recommend.MaxLimit, err = getEnvInt("RECOMMEND_MAX_LIMIT", 100); err != nil {
		return nil, errors.New("invalid RECOMMEND_MAX_LIMIT")
	}
	if cfg.Recommend.TrendingWindowDays, err = getEnvInt("RECOMMEND_TRENDING_WINDOW_DAYS", 7); err != nil {
		return nil, errors.New("invalid RECOMMEND_TRENDING_WINDOW_DAYS")
	}
	if cfg.Recommend.NumVariants, err = getEnvInt("RECOMMEND_NUM_VARIANTS", 1); err != nil {
		return nil, errors.New("invalid RECOMMEND_NUM_VARIANTS")
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	switch cfg.Database.Driver {
	case DriverPostgres:
		if cfg.Database.Password == "" {
			return nil, errors.New("missing database password")
		}
	case DriverMemory:
	default:
		return nil, errors.New("unknown database driver: " + cfg.Database.Driver)
	}

	if cfg.Recommend.DefaultLimit <= 0 || cfg.Recommend.MaxLimit < cfg.Recommend.DefaultLimit {
		return nil, errors.New("invalid recommend limits")
	}

	switch cfg.Recommend.ContentStrategy {
	case "weighted_profile", "purchase_overlap":
	default:
		return nil, errors.New("unknown content strategy: " + cfg.Recommend.ContentStrategy)
	}
	switch cfg.Recommend.TrendingStrategy {
	case "popularity", "recent_activity":
	default:
		return nil, errors.New("unknown trending strategy: " + cfg.Recommend.TrendingStrategy)
	}
	if cfg.Recommend.NumVariants < 1 || cfg.Recommend.TrendingWindowDays < 1 {
		return nil, errors.New("invalid recommend variants or trending window")
	}
	// the personalized fetch and the trending fallback each need a full fetch timeout
	if cfg.Server.RequestTimeout < 2*cfg.Recommend.FetchTimeout {
		return nil, errors.New("REQUEST_TIMEOUT must be at least twice RECOMMEND_FETCH_TIMEOUT")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	return strconv.Atoi(val)
}

func getEnvBool(key string, defaultVal bool) bool {
	val, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultVal
	}

	return val
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val, err := time.ParseDuration(os.Getenv(key))
	if err != nil || val <= 0 {
		return defaultVal
	}

	return val
}
