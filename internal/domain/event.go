package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingField marks a payload that decoded cleanly but lacks a field
// its event type requires. Errors wrapping it are permanent: retrying the
// same message can never succeed.
var ErrMissingField = errors.New("missing required field")

// EventType identifies the category of a tracking event. On the wire the
// type is implied by the queue a message arrives on, not by a field.
type EventType string

const (
	EventTypeDelivery EventType = "DELIVERY"
	EventTypeOpen     EventType = "OPEN"
	EventTypeClick    EventType = "CLICK"
)

// DeliveryStatus is the overall outcome of a simulated email delivery.
type DeliveryStatus string

const (
	StatusDelivered          DeliveryStatus = "DELIVERED"
	StatusFailed             DeliveryStatus = "FAILED"
	StatusPartiallyDelivered DeliveryStatus = "PARTIALLY_DELIVERED"
)

// RecipientResult is the per-recipient outcome inside a delivery event.
type RecipientResult struct {
	RecipientEmail string `json:"recipientEmail"`
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
}

// DeliveryEvent records the result of one email delivery attempt.
type DeliveryEvent struct {
	EventID     string            `json:"eventId"`
	MockEmailID string            `json:"mockEmailId"`
	EmailID     string            `json:"emailId"`
	SenderEmail string            `json:"senderEmail"`
	Subject     string            `json:"subject"`
	Status      DeliveryStatus    `json:"status"`
	Results     []RecipientResult `json:"results,omitempty"`
	Timestamp   string            `json:"timestamp"`
}

// Validate checks the invariants a delivery event must hold before it may
// be aggregated.
func (e *DeliveryEvent) Validate() error {
	switch e.Status {
	case StatusDelivered, StatusFailed, StatusPartiallyDelivered:
		return nil
	case "":
		return fmt.Errorf("delivery event: status: %w", ErrMissingField)
	default:
		return fmt.Errorf("delivery event: unknown status %q: %w", e.Status, ErrMissingField)
	}
}

// OpenEvent records one email open callback.
type OpenEvent struct {
	EventID        string `json:"eventId"`
	EmailID        string `json:"emailId"`
	RecipientEmail string `json:"recipientEmail"`
	OpenTime       string `json:"openTime,omitempty"`
	DeviceInfo     string `json:"deviceInfo,omitempty"`
	Timestamp      string `json:"timestamp"`
}

func (e *OpenEvent) Validate() error {
	if e.EmailID == "" {
		return fmt.Errorf("open event: emailId: %w", ErrMissingField)
	}
	return nil
}

// ClickEvent records one attachment click callback.
type ClickEvent struct {
	EventID        string `json:"eventId"`
	EmailID        string `json:"emailId"`
	AttachmentID   string `json:"attachmentId"`
	RecipientEmail string `json:"recipientEmail"`
	ClickTime      string `json:"clickTime,omitempty"`
	DeviceInfo     string `json:"deviceInfo,omitempty"`
	Timestamp      string `json:"timestamp"`
}

func (e *ClickEvent) Validate() error {
	if e.AttachmentID == "" {
		return fmt.Errorf("click event: attachmentId: %w", ErrMissingField)
	}
	return nil
}

// Event is the decoded form of a message pulled off one of the three
// queues. Exactly one of Delivery, Open, Click is non-nil, matching Type.
type Event struct {
	Type     EventType
	Delivery *DeliveryEvent
	Open     *OpenEvent
	Click    *ClickEvent

	// OccurredAt is the calendar day counters are keyed on.
	OccurredAt time.Time
}

// EventID returns the producer-stamped identifier used for dedup. Empty
// when the producer predates id stamping.
func (e *Event) EventID() string {
	switch e.Type {
	case EventTypeDelivery:
		if e.Delivery != nil {
			return e.Delivery.EventID
		}
	case EventTypeOpen:
		if e.Open != nil {
			return e.Open.EventID
		}
	case EventTypeClick:
		if e.Click != nil {
			return e.Click.EventID
		}
	}
	return ""
}

// Validate dispatches to the variant's validation.
func (e *Event) Validate() error {
	switch e.Type {
	case EventTypeDelivery:
		if e.Delivery == nil {
			return fmt.Errorf("delivery event: payload: %w", ErrMissingField)
		}
		return e.Delivery.Validate()
	case EventTypeOpen:
		if e.Open == nil {
			return fmt.Errorf("open event: payload: %w", ErrMissingField)
		}
		return e.Open.Validate()
	case EventTypeClick:
		if e.Click == nil {
			return fmt.Errorf("click event: payload: %w", ErrMissingField)
		}
		return e.Click.Validate()
	default:
		return fmt.Errorf("event type %q: %w", e.Type, ErrMissingField)
	}
}
