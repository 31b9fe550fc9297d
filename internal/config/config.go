package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	PostgresHost     string `env:"POSTGRES_HOST"     envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT"     envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER"     envDefault:"auctionhouse_user"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"auctionhouse_password"`
	PostgresDb       string `env:"POSTGRES_DB"       envDefault:"auctionhouse_db"`

	RedisCacheHost string `env:"REDIS_CACHE_HOST" envDefault:"localhost"`
	RedisCachePort uint16 `env:"REDIS_CACHE_PORT" envDefault:"6379" validate:"min=1000,max=65535"`

	// Seconds a cached auction snapshot/statistics entry stays fresh.
	CacheTTLSeconds uint `env:"CACHE_TTL_SECONDS" envDefault:"5" validate:"min=1,max=300"`

	JwtSecret     string `env:"JWT_SECRET"      envDefault:"dev-secret-change-me" validate:"min=8"`
	JwtTTLMinutes uint   `env:"JWT_TTL_MINUTES" envDefault:"1440" validate:"min=1"`

	// Bid placement throttle (requests per second, with burst).
	BidRateLimit float64 `env:"BID_RATE_LIMIT" envDefault:"50" validate:"gt=0"`
	BidRateBurst int     `env:"BID_RATE_BURST" envDefault:"100" validate:"gt=0"`

	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8085" validate:"min=1000,max=65535"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
