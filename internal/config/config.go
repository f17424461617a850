package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds service-level settings shared by all binaries
type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" required:"true"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
	TrackerPort string `envconfig:"SERVICE_TRACKER_PORT" default:"8082"`
	Host        string `envconfig:"SERVICE_HOST" default:"localhost:8080"`
}

// SQS holds the message bus settings. Each event category has its own
// queue; the queue a message arrives on determines its type.
type SQS struct {
	Endpoint         string `envconfig:"SQS_ENDPOINT"`
	Region           string `envconfig:"SQS_REGION" required:"true"`
	DeliveryQueueURL string `envconfig:"SQS_DELIVERY_QUEUE_URL" required:"true"`
	OpenQueueURL     string `envconfig:"SQS_OPEN_QUEUE_URL" required:"true"`
	ClickQueueURL    string `envconfig:"SQS_CLICK_QUEUE_URL" required:"true"`
	WaitTimeSeconds  int32  `envconfig:"SQS_WAIT_TIME_SECONDS" default:"20"`
	MaxMessages      int32  `envconfig:"SQS_MAX_MESSAGES" default:"10"`
}

// Postgres holds the counter store settings
type Postgres struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
	MinConns int    `envconfig:"POSTGRES_MIN_CONNS" default:"2"`
}

// DSN returns the PostgreSQL connection string
func (p Postgres) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode,
	)
}

// ClickHouse holds the raw event archive settings
type ClickHouse struct {
	Host            string `envconfig:"CLICKHOUSE_HOST" required:"true"`
	Port            string `envconfig:"CLICKHOUSE_PORT" required:"true"`
	Database        string `envconfig:"CLICKHOUSE_DB" required:"true"`
	User            string `envconfig:"CLICKHOUSE_USER" default:""`
	Password        string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
	UseTLS          bool   `envconfig:"CLICKHOUSE_USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"CLICKHOUSE_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"CLICKHOUSE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CLICKHOUSE_CONN_MAX_LIFETIME_SEC" default:"3600"`
}

// Redis holds the dedup guard and dead-letter list settings
type Redis struct {
	Addr     string `envconfig:"REDIS_ADDR" required:"true"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Consumer holds the pipeline tuning knobs
type Consumer struct {
	HealthCheckPort   string `envconfig:"CONSUMER_HEALTH_CHECK_PORT" default:"8081"`
	ArchiveBatchMax   int    `envconfig:"CONSUMER_ARCHIVE_BATCH_MAX" default:"500"`
	ArchiveTimeoutSec int    `envconfig:"CONSUMER_ARCHIVE_TIMEOUT_SEC" default:"10"`
	StoreTimeoutSec   int    `envconfig:"CONSUMER_STORE_TIMEOUT_SEC" default:"5"`
	MaxReceiveCount   int    `envconfig:"CONSUMER_MAX_RECEIVE_COUNT" default:"5"`
	DedupEnabled      bool   `envconfig:"DEDUP_ENABLED" default:"true"`
	DedupFailOpen     bool   `envconfig:"DEDUP_FAIL_OPEN" default:"true"`
	DedupTTLHours     int    `envconfig:"DEDUP_TTL_HOURS" default:"48"`
}

// Config is the root configuration for every binary in this repository
type Config struct {
	Service    Service
	SQS        SQS
	Postgres   Postgres
	ClickHouse ClickHouse
	Redis      Redis
	Consumer   Consumer
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
