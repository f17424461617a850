package consumer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
)

// EventParser decodes a message body into a typed event. The event type
// comes from the channel the parser is bound to, not from the payload.
type EventParser interface {
	Parse(body []byte) (*domain.Event, error)
}

// JSONEventParser decodes JSON payloads for one event category
type JSONEventParser struct {
	eventType domain.EventType
}

// NewJSONEventParser creates a parser bound to one event category
func NewJSONEventParser(eventType domain.EventType) *JSONEventParser {
	return &JSONEventParser{eventType: eventType}
}

// Parse decodes the body into the variant matching the bound channel and
// validates the required fields. Decode and validation failures are
// permanent: the same bytes can never parse differently on retry.
func (p *JSONEventParser) Parse(body []byte) (*domain.Event, error) {
	event := &domain.Event{Type: p.eventType}

	var timestamp string
	switch p.eventType {
	case domain.EventTypeDelivery:
		var payload domain.DeliveryEvent
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal delivery event: %w", err)
		}
		event.Delivery = &payload
		timestamp = payload.Timestamp
	case domain.EventTypeOpen:
		var payload domain.OpenEvent
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal open event: %w", err)
		}
		event.Open = &payload
		timestamp = payload.Timestamp
	case domain.EventTypeClick:
		var payload domain.ClickEvent
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal click event: %w", err)
		}
		event.Click = &payload
		timestamp = payload.Timestamp
	default:
		return nil, fmt.Errorf("parser bound to unknown event type %q", p.eventType)
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	event.OccurredAt = parseTimestamp(timestamp)
	return event, nil
}

// parseTimestamp accepts the producer's ISO-8601 timestamp; an absent or
// malformed value falls back to processing time, matching the original
// day-of-processing counter keying.
func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Now().UTC()
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC()
		}
	}
	return time.Now().UTC()
}
