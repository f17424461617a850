package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/metrics"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/repository"
)

// ArchiveWriterConfig configures the archive writer
type ArchiveWriterConfig struct {
	MaxBatchSize int
	FlushTimeout time.Duration
}

// ArchiveWriter batches decoded events and writes them to the raw event
// archive. The archive is best-effort: a failed batch is logged and
// dropped, never nacked, because the counter store already owns
// correctness.
type ArchiveWriter struct {
	archive repository.EventArchive
	config  ArchiveWriterConfig
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewArchiveWriter creates a new archive writer
func NewArchiveWriter(archive repository.EventArchive, config ArchiveWriterConfig, m *metrics.Metrics, log *zap.Logger) *ArchiveWriter {
	return &ArchiveWriter{
		archive: archive,
		config:  config,
		metrics: m,
		log:     log,
	}
}

// Start consumes events, batching on size or timeout
func (w *ArchiveWriter) Start(ctx context.Context, in <-chan *Envelope) {
	ticker := time.NewTicker(w.config.FlushTimeout)
	defer ticker.Stop()

	batch := make([]*domain.ArchivedEvent, 0, w.config.MaxBatchSize)

	for {
		select {
		case envelope, ok := <-in:
			if !ok {
				w.log.Info("Archive writer input channel closed")
				w.flush(ctx, batch)
				return
			}

			batch = append(batch, flatten(envelope))

			if len(batch) >= w.config.MaxBatchSize {
				w.flush(ctx, batch)
				batch = make([]*domain.ArchivedEvent, 0, w.config.MaxBatchSize)
				ticker.Reset(w.config.FlushTimeout)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(ctx, batch)
				batch = make([]*domain.ArchivedEvent, 0, w.config.MaxBatchSize)
			}
		}
	}
}

func (w *ArchiveWriter) flush(ctx context.Context, batch []*domain.ArchivedEvent) {
	if len(batch) == 0 {
		return
	}

	// Detach from pipeline cancellation so the final batch lands during
	// shutdown.
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	insertedCount, err := w.archive.InsertBatch(opCtx, batch)
	if err != nil {
		w.log.Error("Failed to archive event batch",
			zap.Int("event_count", len(batch)),
			zap.Error(err))
		return
	}

	w.metrics.ArchiveBatchSize.Observe(float64(insertedCount))
	w.log.Info("Archived events", zap.Int("count", insertedCount))
}

// flatten converts a decoded envelope to its archive row
func flatten(envelope *Envelope) *domain.ArchivedEvent {
	event := envelope.Event

	archived := &domain.ArchivedEvent{
		EventID:     event.EventID(),
		EventType:   string(event.Type),
		OccurredAt:  event.OccurredAt,
		ProcessedAt: time.Now(),
	}

	if json.Valid(envelope.Raw) {
		archived.Payload = string(envelope.Raw)
	} else {
		archived.Payload = "{}"
	}

	switch event.Type {
	case domain.EventTypeDelivery:
		archived.EmailID = event.Delivery.EmailID
		archived.Status = string(event.Delivery.Status)
	case domain.EventTypeOpen:
		archived.EmailID = event.Open.EmailID
		archived.RecipientEmail = event.Open.RecipientEmail
	case domain.EventTypeClick:
		archived.EmailID = event.Click.EmailID
		archived.AttachmentID = event.Click.AttachmentID
		archived.RecipientEmail = event.Click.RecipientEmail
	}

	return archived
}
