package consumer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/metrics"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/stats"
)

// AggregatorStage dispatches decoded envelopes to the aggregator and
// acks or nacks per outcome. A permanent error means the message is
// poison: it is acked away after logging. A transient error leaves the
// message on the queue for redelivery.
type AggregatorStage struct {
	aggregator   *stats.Aggregator
	storeTimeout time.Duration
	metrics      *metrics.Metrics
	log          *zap.Logger
}

// NewAggregatorStage creates a new aggregator stage
func NewAggregatorStage(aggregator *stats.Aggregator, storeTimeout time.Duration, m *metrics.Metrics, log *zap.Logger) *AggregatorStage {
	return &AggregatorStage{
		aggregator:   aggregator,
		storeTimeout: storeTimeout,
		metrics:      m,
		log:          log,
	}
}

// Start consumes envelopes until the input closes. The input channel is
// only closed after upstream stages drain, so in-flight envelopes always
// complete before shutdown.
func (s *AggregatorStage) Start(ctx context.Context, in <-chan *Envelope) {
	for envelope := range in {
		s.process(ctx, envelope)
	}
	s.log.Info("Aggregator stage shutting down")
}

func (s *AggregatorStage) process(ctx context.Context, envelope *Envelope) {
	eventType := string(envelope.Event.Type)

	// Store operations get a bounded interval; an overrun counts as a
	// transient failure, not a success.
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.storeTimeout)
	defer cancel()

	err := s.aggregator.Apply(opCtx, envelope.Event)
	if err == nil {
		s.metrics.EventsProcessed.WithLabelValues(eventType).Inc()
		if ackErr := envelope.Ack(opCtx); ackErr != nil {
			s.log.Error("Failed to ack envelope",
				zap.String("event_type", eventType),
				zap.Error(ackErr))
		}
		return
	}

	if stats.IsPermanent(err) {
		s.log.Warn("Dropping invalid event",
			zap.String("event_type", eventType),
			zap.Error(err))
		s.metrics.PoisonMessages.WithLabelValues(eventType).Inc()
		if ackErr := envelope.Ack(opCtx); ackErr != nil {
			s.log.Error("Failed to ack poison envelope", zap.Error(ackErr))
		}
		return
	}

	s.log.Error("Transient aggregation failure, message will be redelivered",
		zap.String("event_type", eventType),
		zap.Int("receive_count", envelope.ReceiveCount),
		zap.Error(err))
	s.metrics.ProcessFailures.WithLabelValues(eventType).Inc()
	if nackErr := envelope.Nack(opCtx); nackErr != nil {
		s.log.Error("Failed to nack envelope", zap.Error(nackErr))
	}
}
