package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/dto"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/metrics"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/queue"
)

// deliverySuccessRate is the per-recipient success probability of the
// delivery simulation.
const deliverySuccessRate = 0.9

// TrackingService simulates email delivery and publishes tracking events.
// Delivery-result publishes are best-effort: the delivery already
// happened, so a bus outage is logged and the caller still gets the
// simulation outcome. Open and click publishes are the whole point of
// their endpoints, so their failures do surface.
type TrackingService struct {
	publisher queue.Publisher
	metrics   *metrics.Metrics
	rand      *rand.Rand
	now       func() time.Time
	log       *zap.Logger
}

// NewTrackingService creates a new tracking service
func NewTrackingService(publisher queue.Publisher, m *metrics.Metrics, log *zap.Logger) *TrackingService {
	return &TrackingService{
		publisher: publisher,
		metrics:   m,
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
		log:       log,
	}
}

// SimulateDelivery fakes a delivery attempt per recipient, derives the
// overall status and publishes the delivery event
func (s *TrackingService) SimulateDelivery(ctx context.Context, req *dto.DeliverEmailRequest) (*dto.DeliverEmailResponse, error) {
	mockEmailID := uuid.NewString()
	now := s.now().UTC().Format(time.RFC3339)

	results := make([]dto.RecipientResult, 0, len(req.RecipientEmails))
	failed := 0
	for _, recipient := range req.RecipientEmails {
		status := string(domain.StatusDelivered)
		if s.rand.Float64() >= deliverySuccessRate {
			status = string(domain.StatusFailed)
			failed++
		}
		results = append(results, dto.RecipientResult{
			RecipientEmail: recipient,
			Status:         status,
			Timestamp:      now,
		})
	}

	status := domain.StatusDelivered
	switch {
	case failed > 0 && failed == len(req.RecipientEmails):
		status = domain.StatusFailed
	case failed > 0:
		status = domain.StatusPartiallyDelivered
	}

	event := &domain.DeliveryEvent{
		EventID:     uuid.NewString(),
		MockEmailID: mockEmailID,
		EmailID:     req.EmailID,
		SenderEmail: req.SenderEmail,
		Subject:     req.Subject,
		Status:      status,
		Results:     toDomainResults(results),
		Timestamp:   now,
	}

	if err := s.publisher.Publish(ctx, domain.EventTypeDelivery, event); err != nil {
		// Statistics are best-effort; the delivery outcome stands.
		s.metrics.PublishFailures.WithLabelValues(string(domain.EventTypeDelivery)).Inc()
		s.log.Error("Failed to publish delivery event",
			zap.String("mock_email_id", mockEmailID),
			zap.Error(err))
	} else {
		s.metrics.EventsPublished.WithLabelValues(string(domain.EventTypeDelivery)).Inc()
	}

	s.log.Info("Delivery simulated",
		zap.String("mock_email_id", mockEmailID),
		zap.String("status", string(status)),
		zap.Int("recipients", len(req.RecipientEmails)),
		zap.Int("failed", failed))

	return &dto.DeliverEmailResponse{
		Success:        status != domain.StatusFailed,
		MockEmailID:    mockEmailID,
		DeliveryStatus: string(status),
		Results:        results,
	}, nil
}

// TrackOpen publishes an email open event
func (s *TrackingService) TrackOpen(ctx context.Context, req *dto.TrackOpenRequest) (*dto.TrackEventResponse, error) {
	event := &domain.OpenEvent{
		EventID:        uuid.NewString(),
		EmailID:        req.EmailID,
		RecipientEmail: req.RecipientEmail,
		OpenTime:       req.OpenTime,
		DeviceInfo:     req.DeviceInfo,
		Timestamp:      s.now().UTC().Format(time.RFC3339),
	}

	if err := s.publisher.Publish(ctx, domain.EventTypeOpen, event); err != nil {
		s.metrics.PublishFailures.WithLabelValues(string(domain.EventTypeOpen)).Inc()
		return nil, fmt.Errorf("failed to publish open event: %w", err)
	}
	s.metrics.EventsPublished.WithLabelValues(string(domain.EventTypeOpen)).Inc()

	s.log.Info("Open event published",
		zap.String("event_id", event.EventID),
		zap.String("email_id", req.EmailID))

	return &dto.TrackEventResponse{
		Success:   true,
		EventID:   event.EventID,
		EventType: "EMAIL_OPENED",
	}, nil
}

// TrackClick publishes an attachment click event
func (s *TrackingService) TrackClick(ctx context.Context, req *dto.TrackClickRequest) (*dto.TrackEventResponse, error) {
	event := &domain.ClickEvent{
		EventID:        uuid.NewString(),
		EmailID:        req.EmailID,
		AttachmentID:   req.AttachmentID,
		RecipientEmail: req.RecipientEmail,
		ClickTime:      req.ClickTime,
		DeviceInfo:     req.DeviceInfo,
		Timestamp:      s.now().UTC().Format(time.RFC3339),
	}

	if err := s.publisher.Publish(ctx, domain.EventTypeClick, event); err != nil {
		s.metrics.PublishFailures.WithLabelValues(string(domain.EventTypeClick)).Inc()
		return nil, fmt.Errorf("failed to publish click event: %w", err)
	}
	s.metrics.EventsPublished.WithLabelValues(string(domain.EventTypeClick)).Inc()

	s.log.Info("Click event published",
		zap.String("event_id", event.EventID),
		zap.String("attachment_id", req.AttachmentID))

	return &dto.TrackEventResponse{
		Success:   true,
		EventID:   event.EventID,
		EventType: "ATTACHMENT_CLICKED",
	}, nil
}

func toDomainResults(results []dto.RecipientResult) []domain.RecipientResult {
	out := make([]domain.RecipientResult, len(results))
	for i, r := range results {
		out[i] = domain.RecipientResult{
			RecipientEmail: r.RecipientEmail,
			Status:         r.Status,
			Timestamp:      r.Timestamp,
		}
	}
	return out
}
