package consumer

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/metrics"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/queue"
)

// ParserStage decodes raw messages into typed envelopes. Poison messages
// (undecodable or invalid payloads) are logged and deleted so they never
// block the channel; messages past the retry budget are routed to the
// dead-letter list before deletion.
type ParserStage struct {
	consumer        queue.Consumer
	parser          EventParser
	eventType       domain.EventType
	deadLetter      DeadLetter
	maxReceiveCount int
	metrics         *metrics.Metrics
	log             *zap.Logger
}

// NewParserStage creates a new parser stage
func NewParserStage(consumer queue.Consumer, parser EventParser, eventType domain.EventType, deadLetter DeadLetter, maxReceiveCount int, m *metrics.Metrics, log *zap.Logger) *ParserStage {
	return &ParserStage{
		consumer:        consumer,
		parser:          parser,
		eventType:       eventType,
		deadLetter:      deadLetter,
		maxReceiveCount: maxReceiveCount,
		metrics:         m,
		log:             log,
	}
}

// Start begins parsing messages and outputs envelopes
func (p *ParserStage) Start(ctx context.Context, in <-chan types.Message, out chan<- *Envelope) {
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Parser stage shutting down")
			return
		case msg, ok := <-in:
			if !ok {
				p.log.Info("Parser stage input channel closed")
				return
			}

			envelope := p.parseMessage(ctx, msg)
			if envelope == nil {
				continue
			}

			select {
			case <-ctx.Done():
				return
			case out <- envelope:
			}
		}
	}
}

// parseMessage parses a single message into an envelope
func (p *ParserStage) parseMessage(ctx context.Context, msg types.Message) *Envelope {
	body := []byte(aws.ToString(msg.Body))
	receiveCount := receiveCountOf(msg)

	if p.maxReceiveCount > 0 && receiveCount > p.maxReceiveCount {
		p.log.Warn("Message exceeded retry budget, dead-lettering",
			zap.String("message_id", aws.ToString(msg.MessageId)),
			zap.Int("receive_count", receiveCount))
		p.deadLetter.Push(ctx, string(p.eventType), body, "retry budget exceeded")
		p.metrics.DeadLettered.WithLabelValues(string(p.eventType)).Inc()
		p.deleteMessage(ctx, msg)
		return nil
	}

	event, err := p.parser.Parse(body)
	if err != nil {
		p.log.Warn("Failed to parse message, dropping as poison",
			zap.String("message_id", aws.ToString(msg.MessageId)),
			zap.Error(err))
		p.metrics.PoisonMessages.WithLabelValues(string(p.eventType)).Inc()
		p.deleteMessage(ctx, msg)
		return nil
	}

	ack := func(ctx context.Context) error {
		return p.delete(ctx, msg)
	}

	// A nack leaves the message in place; the bus redelivers it once the
	// visibility timeout lapses.
	nack := func(ctx context.Context) error {
		return nil
	}

	return NewEnvelope(event, body, receiveCount, ack, nack)
}

func (p *ParserStage) delete(ctx context.Context, msg types.Message) error {
	_, err := p.consumer.DeleteMessage(ctx, &awssqs.DeleteMessageInput{
		QueueUrl:      aws.String(p.consumer.QueueURL()),
		ReceiptHandle: msg.ReceiptHandle,
	})
	return err
}

// deleteMessage removes a message that will never be processed
func (p *ParserStage) deleteMessage(ctx context.Context, msg types.Message) {
	if err := p.delete(ctx, msg); err != nil {
		p.log.Error("Failed to delete message",
			zap.String("message_id", aws.ToString(msg.MessageId)),
			zap.Error(err))
	}
}

// receiveCountOf reads the ApproximateReceiveCount attribute; 1 when the
// bus did not supply it.
func receiveCountOf(msg types.Message) int {
	raw, ok := msg.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)]
	if !ok {
		return 1
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 1 {
		return 1
	}
	return count
}
