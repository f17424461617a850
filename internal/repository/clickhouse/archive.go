package clickhouse

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
)

// Archive implements repository.EventArchive for ClickHouse. Raw tracking
// events land here for offline analysis; the counter store in PostgreSQL
// remains the source of truth for the dashboards.
type Archive struct {
	client *Client
	log    *zap.Logger
}

// NewArchive creates a new ClickHouse event archive
func NewArchive(client *Client, log *zap.Logger) *Archive {
	return &Archive{
		client: client,
		log:    log,
	}
}

// InitSchema creates the tracking_events table if it does not exist
func (a *Archive) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS tracking_events (
		event_id String,
		event_type LowCardinality(String),
		email_id String,
		attachment_id String,
		recipient_email String,
		status LowCardinality(String),
		payload String,
		occurred_at DateTime64(3),
		processed_at DateTime64(3) DEFAULT now64(3)
	) ENGINE = MergeTree()
	ORDER BY (event_type, occurred_at, event_id)
	PARTITION BY toYYYYMM(occurred_at)
	SETTINGS index_granularity = 8192
	`

	if err := a.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create tracking_events table: %w", err)
	}

	a.log.Info("ClickHouse archive schema initialized")
	return nil
}

// InsertBatch inserts a batch of archived events into ClickHouse
func (a *Archive) InsertBatch(ctx context.Context, events []*domain.ArchivedEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	batch, err := a.client.Conn().PrepareBatch(ctx, "INSERT INTO tracking_events")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch: %w", err)
	}

	insertedCount := 0
	for _, event := range events {
		processedAt := event.ProcessedAt
		if processedAt.IsZero() {
			processedAt = time.Now()
		}

		payload := event.Payload
		if payload == "" {
			payload = "{}"
		}

		err := batch.Append(
			event.EventID,
			event.EventType,
			event.EmailID,
			event.AttachmentID,
			event.RecipientEmail,
			event.Status,
			payload,
			event.OccurredAt,
			processedAt,
		)

		if err != nil {
			return 0, fmt.Errorf("failed to append event to batch: %w", err)
		}
		insertedCount++
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send batch: %w", err)
	}

	return insertedCount, nil
}

// Ping checks if the ClickHouse connection is alive
func (a *Archive) Ping(ctx context.Context) error {
	return a.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (a *Archive) Close() error {
	return a.client.Close()
}
