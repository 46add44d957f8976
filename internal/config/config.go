package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
	MaxIdleConns   int
}

type RedisConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
}

type RateLimitConfig struct {
	// Backend selects the counter store: "redis" or "memory".
	Backend string
	// FailOpen decides what happens when the counter store is
	// unreachable: true admits the message, false denies it. Either way
	// the decision is marked degraded and logged.
	FailOpen bool
	Timeout  time.Duration
	// IngressPerSecond throttles the webhook endpoint per client IP,
	// independent of tenant quotas.
	IngressPerSecond float64
	IngressBurst     int
}

type WorkerConfig struct {
	Count      int
	PopTimeout time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvPrefix("INBOX")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.maxconnections", 25)
	viper.SetDefault("database.maxidleconns", 5)
	viper.SetDefault("redis.url", "redis://localhost:6379")
	viper.SetDefault("ratelimit.backend", "redis")
	viper.SetDefault("ratelimit.failopen", true)
	viper.SetDefault("ratelimit.timeout", "500ms")
	viper.SetDefault("ratelimit.ingresspersecond", 50)
	viper.SetDefault("ratelimit.ingressburst", 100)
	viper.SetDefault("worker.count", 4)
	viper.SetDefault("worker.poptimeout", "5s")

	var cfg Config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Override with environment variables
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		cfg.Redis.URL = url
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}

	return &cfg, nil
}
