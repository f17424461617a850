package queue

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
)

// Publisher defines the interface for publishing tracking events to the
// bus. The payload is serialized to JSON; the event type selects the queue.
type Publisher interface {
	Publish(ctx context.Context, eventType domain.EventType, payload any) error
}

// Consumer defines the interface for consuming messages from one queue
type Consumer interface {
	ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
	QueueURL() string
}
