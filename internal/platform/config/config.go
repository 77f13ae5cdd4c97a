package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full process configuration, read once at startup.
type Config struct {
	Server   Server
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Lock     LockConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	LogLevel        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	TxTimeout       time.Duration
}

// DatabaseConfig configures the PostgreSQL pool. An empty URL selects the
// in-memory contact store.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// RedisConfig configures the Redis client used for distributed identifier
// locks. An empty URL keeps locking in-process.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the contact event producer. No brokers means events
// are only logged.
type KafkaConfig struct {
	Brokers        []string
	ContactTopic   string
	ClientID       string
	PublishTimeout time.Duration
}

// LockConfig bounds identifier lock ownership and waiting.
type LockConfig struct {
	TTL  time.Duration
	Wait time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var p parser
	cfg := Config{
		Server: Server{
			Addr:            p.str("IDENTIFY_ADDR", ":8080"),
			LogLevel:        p.str("LOG_LEVEL", "info"),
			ReadTimeout:     p.duration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    p.duration("HTTP_WRITE_TIMEOUT", 35*time.Second),
			IdleTimeout:     p.duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
			TxTimeout:       p.duration("IDENTIFY_TX_TIMEOUT", 5*time.Second),
		},
		Database: DatabaseConfig{
			URL:             p.str("DATABASE_URL", ""),
			MaxOpenConns:    p.integer("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    p.integer("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: p.duration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			AutoMigrate:     p.boolean("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			URL:          p.str("REDIS_URL", ""),
			PoolSize:     p.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: p.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  p.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  p.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: p.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:        p.list("KAFKA_BROKERS"),
			ContactTopic:   p.str("KAFKA_CONTACT_TOPIC", "contact-events"),
			ClientID:       p.str("KAFKA_CLIENT_ID", "identify"),
			PublishTimeout: p.duration("EVENT_PUBLISH_TIMEOUT", 2*time.Second),
		},
		Lock: LockConfig{
			TTL:  p.duration("LOCK_TTL", 10*time.Second),
			Wait: p.duration("LOCK_WAIT", 3*time.Second),
		},
	}
	if p.err != nil {
		return Config{}, p.err
	}
	return cfg, nil
}

// parser reads typed values and keeps the first parse error.
type parser struct {
	err error
}

func (p *parser) str(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (p *parser) integer(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return n
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return d
}

func (p *parser) boolean(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return b
}

func (p *parser) list(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("config %s: %w", key, err)
	}
}
