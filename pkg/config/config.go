package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Ranking  RankingConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port         string
	AllowOrigins []string
}

type DatabaseConfig struct {
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
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type RankingConfig struct {
	// weights profile looked up in ranking_weights; defaults apply when missing
	Profile         string
	ListingRadiusKm float64
	ViewHistorySize int
	// requests per second per client on the view-recording route
	ViewRateLimit float64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	radius, err := strconv.ParseFloat(getEnv("LISTING_RADIUS_KM", "5"), 64)
	if err != nil || radius <= 0 {
		return nil, fmt.Errorf("invalid LISTING_RADIUS_KM: %q", os.Getenv("LISTING_RADIUS_KM"))
	}

	historySize, err := strconv.Atoi(getEnv("VIEW_HISTORY_SIZE", "10"))
	if err != nil || historySize <= 0 {
		return nil, fmt.Errorf("invalid VIEW_HISTORY_SIZE: %q", os.Getenv("VIEW_HISTORY_SIZE"))
	}

	viewRate, err := strconv.ParseFloat(getEnv("VIEW_RATE_LIMIT", "5"), 64)
	if err != nil || viewRate <= 0 {
		return nil, fmt.Errorf("invalid VIEW_RATE_LIMIT: %q", os.Getenv("VIEW_RATE_LIMIT"))
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Gota Ranking API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			AllowOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "gota"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Ranking: RankingConfig{
			Profile:         getEnv("RANKING_PROFILE", "default"),
			ListingRadiusKm: radius,
			ViewHistorySize: historySize,
			ViewRateLimit:   viewRate,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
