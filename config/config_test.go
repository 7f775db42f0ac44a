package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Rohitlovewanshi/Wallet-Management/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("BUS_DRIVER", "")
	t.Setenv("WORKER_INTERVAL", "")
	t.Setenv("NATS_REQUEST_TIMEOUT", "")

	tx := config.Load(config.ServiceTransaction)
	assert.Equal(t, "8080", tx.Server.Port)
	assert.Equal(t, "transaction_db", tx.Database.Name)
	assert.Equal(t, config.DriverRabbitMQ, tx.Bus.Driver)
	assert.Equal(t, 500*time.Millisecond, tx.Worker.Interval)
	assert.Equal(t, 2*time.Second, tx.NATS.RequestTimeout)

	wallet := config.Load(config.ServiceWallet)
	assert.Equal(t, "8081", wallet.Server.Port)
	assert.Equal(t, "wallet_db", wallet.Database.Name)
	assert.Equal(t, int64(100), wallet.Wallet.PromotionalBalance)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BUS_DRIVER", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("RETRY_MAX_INTERVAL", "2s")
	t.Setenv("CONSUMER_CONCURRENCY", "8")
	t.Setenv("WALLET_PROMOTIONAL_BALANCE", "0")
	t.Setenv("NATS_REQUEST_TIMEOUT", "750ms")

	cfg := config.Load(config.ServiceWallet)
	assert.Equal(t, config.DriverKafka, cfg.Bus.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Second, cfg.Retry.MaxInterval)
	assert.Equal(t, 8, cfg.Bus.Concurrency)
	assert.Equal(t, int64(0), cfg.Wallet.PromotionalBalance)
	assert.Equal(t, 750*time.Millisecond, cfg.NATS.RequestTimeout)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("PUBLISH_TIMEOUT", "soon")

	cfg := config.Load(config.ServiceTransaction)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 5*time.Second, cfg.Worker.PublishTimeout)
}
