// Package config loads ChemistFlow's configuration from environment
// variables with struct-tag validation, following the teacher's
// env-first approach with per-section loader functions and sensible
// defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the complete process configuration, loaded once at bootstrap.
type Config struct {
	HTTP          HTTP          `validate:"required"`
	Preprocessor  Upstream      `validate:"required"`
	Engine        Upstream      `validate:"required"`
	Cache         Cache         `validate:"required"`
	Cluster       Cluster       `validate:"required"`
}

// HTTP configures the server's own bind address.
type HTTP struct {
	Host string `validate:"required"`
	Port int    `validate:"required,min=1,max=65535"`
}

// Address returns the host:port pair suitable for http.Server.Addr.
func (h HTTP) Address() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// Upstream configures one outbound HTTP collaborator: the Preprocessor
// or the Engine. Retries is carried through per spec.md's configuration
// surface but intentionally not consumed by the HTTP client — see
// DESIGN.md's "retries" entry.
type Upstream struct {
	BaseURI           string        `validate:"required,url"`
	ConnectTimeout    time.Duration `validate:"required"`
	RequestTimeout    time.Duration `validate:"required"`
	Retries           int           `validate:"min=0"`
	PoolMaxConns      int           `validate:"min=1"`
	PoolMaxIdleTime   time.Duration `validate:"required"`
}

// Cache configures the two cache tiers.
type Cache struct {
	LocalTTL                time.Duration `validate:"required"`
	LocalMaxEntries         int           `validate:"min=1"`
	DistributedReadTimeout  time.Duration `validate:"required"`
	DistributedWriteTimeout time.Duration `validate:"required"`
	RedisAddr               string        // empty disables the distributed tier
}

// Cluster configures cluster membership for the distributed cache tier.
type Cluster struct {
	SeedNodes []string
	Hostname  string
	Port      int
}

// Load builds a Config from environment variables, applying defaults
// and validating the result. A validation failure is a bootstrap
// failure per spec.md §6's exit-code contract.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTP{
			Host: getEnvString("HTTP_HOST", "0.0.0.0"),
			Port: getEnvInt("HTTP_PORT", 8080),
		},
		Preprocessor: loadUpstream("PREPROCESSOR", "http://localhost:9001"),
		Engine:       loadUpstream("ENGINE", "http://localhost:9002"),
		Cache: Cache{
			LocalTTL:                getEnvDuration("CACHE_LOCAL_TTL", 5*time.Minute),
			LocalMaxEntries:         getEnvInt("CACHE_LOCAL_MAX_ENTRIES", 1000),
			DistributedReadTimeout:  getEnvDuration("CACHE_DISTRIBUTED_READ_TIMEOUT", 2*time.Second),
			DistributedWriteTimeout: getEnvDuration("CACHE_DISTRIBUTED_WRITE_TIMEOUT", 2*time.Second),
			RedisAddr:               getEnvString("CACHE_REDIS_ADDR", ""),
		},
		Cluster: Cluster{
			SeedNodes: splitNonEmpty(getEnvString("CLUSTER_SEED_NODES", "")),
			Hostname:  getEnvString("CLUSTER_HOSTNAME", "localhost"),
			Port:      getEnvInt("CLUSTER_PORT", 7946),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadUpstream(prefix, defaultBaseURI string) Upstream {
	return Upstream{
		BaseURI:         getEnvString(prefix+"_BASE_URI", defaultBaseURI),
		ConnectTimeout:  getEnvDuration(prefix+"_CONNECT_TIMEOUT", 2*time.Second),
		RequestTimeout:  getEnvDuration(prefix+"_REQUEST_TIMEOUT", 10*time.Second),
		Retries:         getEnvInt(prefix+"_RETRIES", 3),
		PoolMaxConns:    getEnvInt(prefix+"_POOL_MAX_CONNS", 100),
		PoolMaxIdleTime: getEnvDuration(prefix+"_POOL_MAX_IDLE_TIME", 90*time.Second),
	}
}

func getEnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
