// loads up the .env files and the process environment to be used internally by JackStatz.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable of a JackStatz process.
type Config struct {
	Env     string
	Version string

	SrvAddr string
	SrvPort string

	StoreBackend string // postgres | memory
	DatabaseURL  string

	RedisAddr     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	InstanceID    string // names this process's presence set

	HeartbeatInterval time.Duration
	QueueLimit        int

	MutationRateLimit float64
	MutationRateBurst int

	CORSOrigin      string
	ShutdownTimeout time.Duration
}

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Address the http server listens on.
func (c Config) ListenAddr() string {
	return c.SrvAddr + ":" + c.SrvPort
}

// RedisEnabled reports whether the optional presence set has somewhere to live.
func (c Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// uses go package: godotenv to load up the enviroment variables of the given files.
// Missing files are skipped, variables already present in the environment always win.
func LoadEnvFiles(files ...string) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			fmt.Println(err.Error())
			os.Exit(-1)
		}
	}
}

// Loads up the environment file matching ENV (dev when unset) and parses the configuration.
func LoadDevConfig() (Config, error) {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		env = "dev"
	}
	LoadEnvFiles("config/" + env + ".env")
	return FromEnv()
}

// Parses a Config out of the current process environment.
func FromEnv() (Config, error) {
	p := parser{}
	cfg := Config{
		Env:               getenv("ENV", "DEV"),
		Version:           getenv("VERSION", "dev"),
		SrvAddr:           getenv("SRV_ADDR", ""),
		SrvPort:           getenv("SRV_PORT", "8000"),
		StoreBackend:      strings.ToLower(getenv("STORE_BACKEND", BackendPostgres)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPort:         getenv("REDIS_PORT", "6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           p.int("REDIS_DB_NUMBER", 0),
		InstanceID:        getenv("INSTANCE_ID", hostname()),
		HeartbeatInterval: p.duration("SSE_HEARTBEAT_INTERVAL", 30*time.Second),
		QueueLimit:        p.int("SSE_QUEUE_LIMIT", 0),
		MutationRateLimit: p.float("MUTATION_RATE_LIMIT", 0),
		MutationRateBurst: p.int("MUTATION_RATE_BURST", 20),
		CORSOrigin:        getenv("CORS_ORIGIN", "*"),
		ShutdownTimeout:   p.duration("SHUTDOWN_TIMEOUT", 5*time.Second),
	}
	if p.err != nil {
		return Config{}, p.err
	}
	if cfg.StoreBackend != BackendPostgres && cfg.StoreBackend != BackendMemory {
		return Config{}, fmt.Errorf("config: STORE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMemory, cfg.StoreBackend)
	}
	if cfg.HeartbeatInterval <= 0 {
		return Config{}, fmt.Errorf("config: SSE_HEARTBEAT_INTERVAL must be positive")
	}
	if cfg.QueueLimit < 0 {
		return Config{}, fmt.Errorf("config: SSE_QUEUE_LIMIT must not be negative")
	}
	if cfg.MutationRateLimit < 0 || cfg.MutationRateBurst < 1 {
		return Config{}, fmt.Errorf("config: MUTATION_RATE_LIMIT must not be negative and MUTATION_RATE_BURST must be at least 1")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func hostname() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "jackstatz"
}

// parser keeps the first conversion error so FromEnv can report it once.
type parser struct {
	err error
}

func (p *parser) int(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("config: couldn't parse ENV: %s: %w", key, err)
	}
	return v
}

func (p *parser) float(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("config: couldn't parse ENV: %s: %w", key, err)
	}
	return v
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("config: couldn't parse ENV: %s: %w", key, err)
	}
	return v
}
