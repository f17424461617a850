package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/dedup"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/metrics"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/repository"
)

// Aggregator applies decoded events to the counter rows. Increments are
// commutative, so concurrent workers may apply events in any order and the
// final counters depend only on the multiset of applied increments.
type Aggregator struct {
	repo     repository.StatsRepository
	resolver DimensionResolver
	guard    dedup.Guard
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// NewAggregator creates a new aggregator. Pass dedup.Disabled{} as the
// guard to restore non-deduplicated behavior.
func NewAggregator(repo repository.StatsRepository, resolver DimensionResolver, guard dedup.Guard, m *metrics.Metrics, log *zap.Logger) *Aggregator {
	return &Aggregator{
		repo:     repo,
		resolver: resolver,
		guard:    guard,
		metrics:  m,
		log:      log,
	}
}

// IsPermanent reports whether an aggregation error can never succeed on
// retry. Permanent errors classify the message as poison; everything else
// is transient and triggers a nack.
func IsPermanent(err error) bool {
	return errors.Is(err, domain.ErrMissingField)
}

// Apply validates the event, consults the dedup guard and applies the
// matching counter increments. A duplicate sighting is a successful no-op.
func (a *Aggregator) Apply(ctx context.Context, event *domain.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	first, err := a.guard.FirstSighting(ctx, event.EventID())
	if err != nil {
		return fmt.Errorf("dedup guard: %w", err)
	}
	if !first {
		a.metrics.DedupSkipped.WithLabelValues(string(event.Type)).Inc()
		a.log.Info("Duplicate event skipped",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.EventID()))
		return nil
	}

	day := event.OccurredAt
	if day.IsZero() {
		day = time.Now().UTC()
	}
	y, m, d := day.UTC().Date()
	day = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	timer := prometheus.NewTimer(a.metrics.AggregateLatency.WithLabelValues(string(event.Type)))
	defer timer.ObserveDuration()

	if err := a.applyEvent(ctx, day, event); err != nil {
		// The claim was taken but the increment did not land. Give it
		// back so the redelivery is not skipped as a duplicate; the
		// release runs on a fresh context since the failure may be the
		// operation context expiring.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if relErr := a.guard.Release(releaseCtx, event.EventID()); relErr != nil {
			a.log.Warn("Failed to release dedup claim, redelivery may be skipped",
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.EventID()),
				zap.Error(relErr))
		}
		return err
	}
	return nil
}

func (a *Aggregator) applyEvent(ctx context.Context, day time.Time, event *domain.Event) error {
	switch event.Type {
	case domain.EventTypeDelivery:
		return a.applyDelivery(ctx, day, event.Delivery)
	case domain.EventTypeOpen:
		return a.applyOpen(ctx, day, event.Open)
	case domain.EventTypeClick:
		return a.applyClick(ctx, day, event.Click)
	default:
		return fmt.Errorf("event type %q: %w", event.Type, domain.ErrMissingField)
	}
}

func (a *Aggregator) applyDelivery(ctx context.Context, day time.Time, event *domain.DeliveryEvent) error {
	if err := a.repo.ApplyDelivery(ctx, day, event.Status); err != nil {
		return fmt.Errorf("failed to apply delivery stats: %w", err)
	}

	a.log.Info("Delivery stats updated",
		zap.Time("date", day),
		zap.String("status", string(event.Status)),
		zap.String("mock_email_id", event.MockEmailID))
	return nil
}

func (a *Aggregator) applyOpen(ctx context.Context, day time.Time, event *domain.OpenEvent) error {
	category, err := a.resolver.EmailCategory(ctx, event.EmailID)
	if err != nil {
		return fmt.Errorf("failed to resolve email category: %w", err)
	}

	if err := a.repo.ApplyOpen(ctx, day, category); err != nil {
		return fmt.Errorf("failed to apply open stats: %w", err)
	}

	a.log.Info("Open stats updated",
		zap.Time("date", day),
		zap.String("email_id", event.EmailID),
		zap.String("category", category))
	return nil
}

func (a *Aggregator) applyClick(ctx context.Context, day time.Time, event *domain.ClickEvent) error {
	fileType, err := a.resolver.AttachmentFileType(ctx, event.AttachmentID)
	if err != nil {
		return fmt.Errorf("failed to resolve file type: %w", err)
	}

	if err := a.repo.ApplyClick(ctx, day, fileType); err != nil {
		return fmt.Errorf("failed to apply attachment stats: %w", err)
	}

	a.log.Info("Attachment stats updated",
		zap.Time("date", day),
		zap.String("attachment_id", event.AttachmentID),
		zap.String("file_type", fileType))
	return nil
}
