package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("IDENTIFY_ADDR", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.TxTimeout)
	assert.Empty(t, cfg.Database.URL)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "contact-events", cfg.Kafka.ContactTopic)
	assert.Equal(t, 2*time.Second, cfg.Kafka.PublishTimeout)
	assert.Equal(t, 10*time.Second, cfg.Lock.TTL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("IDENTIFY_ADDR", ":9090")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("LOCK_WAIT", "750ms")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 750*time.Millisecond, cfg.Lock.Wait)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
}

func TestFromEnvRejectsMalformedValues(t *testing.T) {
	t.Setenv("LOCK_TTL", "ten seconds")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOCK_TTL")
}
