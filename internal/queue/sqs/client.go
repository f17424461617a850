package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	envConfig "github.com/DigitalGarageMVP/ifmvp-backend/internal/config"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
)

// Client wraps one SQS client over the three event queues. The queue a
// message is sent to carries the event type; the body is the bare payload.
type Client struct {
	client *sqs.Client
	config envConfig.SQS
	log    *zap.Logger
}

// NewClient creates a new SQS client
func NewClient(ctx context.Context, SQSConfig envConfig.SQS, log *zap.Logger) (*Client, error) {
	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(SQSConfig.Region),
	}

	var clientOpts []func(*sqs.Options)

	// Configure for local development with ElasticMQ
	if SQSConfig.Endpoint != "" {
		log.Info("Configuring SQS for local development",
			zap.String("endpoint", SQSConfig.Endpoint))
		configOpts = append(configOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(SQSConfig.Endpoint)
		})
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	sqsClient := sqs.NewFromConfig(cfg, clientOpts...)

	log.Info("SQS client created",
		zap.String("region", SQSConfig.Region),
		zap.String("delivery_queue", SQSConfig.DeliveryQueueURL),
		zap.String("open_queue", SQSConfig.OpenQueueURL),
		zap.String("click_queue", SQSConfig.ClickQueueURL))

	return &Client{
		client: sqsClient,
		config: SQSConfig,
		log:    log,
	}, nil
}

// queueURLFor maps an event type to its queue URL.
func (c *Client) queueURLFor(eventType domain.EventType) (string, error) {
	switch eventType {
	case domain.EventTypeDelivery:
		return c.config.DeliveryQueueURL, nil
	case domain.EventTypeOpen:
		return c.config.OpenQueueURL, nil
	case domain.EventTypeClick:
		return c.config.ClickQueueURL, nil
	default:
		return "", fmt.Errorf("no queue configured for event type %q", eventType)
	}
}

// Publish serializes the payload and enqueues it on the queue for the
// given event type. Transport failures are returned to the caller; the
// caller decides whether a failed publish is fatal to its own request.
func (c *Client) Publish(ctx context.Context, eventType domain.EventType, payload any) error {
	queueURL, err := c.queueURLFor(eventType)
	if err != nil {
		return err
	}

	bodyJSON, err := json.Marshal(payload)
	if err != nil {
		c.log.Error("Failed to marshal event",
			zap.String("event_type", string(eventType)),
			zap.Error(err))
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = c.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(bodyJSON)),
	})
	if err != nil {
		c.log.Error("Failed to send message to SQS",
			zap.String("event_type", string(eventType)),
			zap.String("queue_url", queueURL),
			zap.Error(err))
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	c.log.Info("Event published",
		zap.String("event_type", string(eventType)),
		zap.String("queue_url", queueURL))

	return nil
}

// ChannelConsumer binds the shared client to a single queue so each
// pipeline owns exactly one subscription.
type ChannelConsumer struct {
	client   *sqs.Client
	queueURL string
}

// ConsumerFor returns a consumer bound to the queue for the event type.
func (c *Client) ConsumerFor(eventType domain.EventType) (*ChannelConsumer, error) {
	queueURL, err := c.queueURLFor(eventType)
	if err != nil {
		return nil, err
	}
	return &ChannelConsumer{client: c.client, queueURL: queueURL}, nil
}

// ReceiveMessages receives messages from the bound queue
func (c *ChannelConsumer) ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
	return c.client.ReceiveMessage(ctx, input)
}

// DeleteMessage deletes a message from the bound queue
func (c *ChannelConsumer) DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error) {
	return c.client.DeleteMessage(ctx, input)
}

// QueueURL returns the bound queue URL
func (c *ChannelConsumer) QueueURL() string {
	return c.queueURL
}
