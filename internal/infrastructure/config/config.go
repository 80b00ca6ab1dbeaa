package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=72h"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Search    SearchConfig
	Queue     QueueConfig
	Reconcile ReconcileConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=webcart_galaxy"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// SearchConfig points at the optional Elasticsearch cluster. An empty
// address list disables the index; catalog search then falls back to
// Mongo regex queries.
type SearchConfig struct {
	Addresses []string `env:"ELASTICSEARCH_ADDRESSES"`
	Index     string   `env:"ELASTICSEARCH_INDEX, default=products"`
}

type QueueConfig struct {
	Workers int `env:"QUEUE_WORKERS, default=8"`
}

type ReconcileConfig struct {
	Interval time.Duration `env:"RECONCILE_INTERVAL, default=1m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
