package config

import (
	"fmt"
	"strings"
	"time"
)

// StorageDriver selects the durable token record store.
type StorageDriver string

const (
	// StorageMemory keeps records in process memory (development only).
	StorageMemory StorageDriver = "memory"
	// StorageBolt keeps records in a local bbolt file.
	StorageBolt StorageDriver = "bolt"
	// StorageRedis keeps records in Redis.
	StorageRedis StorageDriver = "redis"
	// StoragePostgres keeps records in PostgreSQL.
	StoragePostgres StorageDriver = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageDriver.
func (d *StorageDriver) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch StorageDriver(v) {
	case StorageMemory, StorageBolt, StorageRedis, StoragePostgres:
		*d = StorageDriver(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageDriver: %q (valid options: memory, bolt, redis, postgres)", v)
	}
}

// StorageConfig selects and configures the durable token record store.
type StorageConfig struct {
	Driver StorageDriver `env:"STORAGE_DRIVER" envDefault:"bolt"`

	// BoltPath is the bbolt file used when Driver=bolt.
	BoltPath string `env:"STORAGE_BOLT_PATH" envDefault:"folio.db"`

	// RecordTTL expires Redis records; zero keeps them until logout.
	RecordTTL time.Duration `env:"STORAGE_RECORD_TTL" envDefault:"0s"`

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize() {
	if s.Driver == "" {
		s.Driver = StorageBolt
	}
	s.BoltPath = strings.TrimSpace(s.BoltPath)
	if s.BoltPath == "" {
		s.BoltPath = "folio.db"
	}
	if s.RecordTTL < 0 {
		s.RecordTTL = 0
	}
}

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"folio"`
	Password string `env:"PASSWORD"                envDefault:"folio"`
	Name     string `env:"NAME"                    envDefault:"folio"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
