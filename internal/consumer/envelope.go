package consumer

import (
	"context"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
)

// Envelope wraps a decoded event with acknowledgment callbacks
type Envelope struct {
	Event *domain.Event

	// Raw is the original message body, kept for the archive and the
	// dead-letter record.
	Raw []byte

	// ReceiveCount is how many times the bus has delivered this message.
	ReceiveCount int

	ack  func(context.Context) error
	nack func(context.Context) error
}

// NewEnvelope creates a new message envelope
func NewEnvelope(event *domain.Event, raw []byte, receiveCount int, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Event:        event,
		Raw:          raw,
		ReceiveCount: receiveCount,
		ack:          ack,
		nack:         nack,
	}
}

// Ack acknowledges successful processing; the message is removed from the
// queue and will not be redelivered.
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack returns the message to the queue for redelivery after the
// visibility timeout.
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
