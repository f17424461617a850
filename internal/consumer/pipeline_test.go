package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/config"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/dedup"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/metrics"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/stats"
)

func pipelineTestConfig() *config.Config {
	return &config.Config{
		SQS: config.SQS{
			MaxMessages:     10,
			WaitTimeSeconds: 1,
		},
		Consumer: config.Consumer{
			ArchiveBatchMax:   100,
			ArchiveTimeoutSec: 1,
			StoreTimeoutSec:   5,
			MaxReceiveCount:   5,
		},
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockRepo := new(MockStatsRepository)
	mockArchive := new(MockEventArchive)

	mockConsumer.On("QueueURL").Return("http://localhost:9324/queue/email-open-events")

	messages := []types.Message{
		{
			MessageId:     aws.String("msg-1"),
			Body:          aws.String(`{"eventId": "evt-1", "emailId": "eml_1", "timestamp": "2025-06-01T12:00:00Z"}`),
			ReceiptHandle: aws.String("receipt-1"),
		},
		{
			MessageId:     aws.String("msg-2"),
			Body:          aws.String(`{poison`),
			ReceiptHandle: aws.String("receipt-2"),
		},
	}

	mockConsumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&sqs.ReceiveMessageOutput{Messages: messages}, nil).Once()
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil).Maybe()

	// Both the processed message and the poison one end up deleted
	mockConsumer.On("DeleteMessage", mock.Anything, mock.AnythingOfType("*sqs.DeleteMessageInput")).
		Return(&sqs.DeleteMessageOutput{}, nil)

	mockRepo.On("ApplyOpen", mock.Anything, mock.Anything, "GENERAL").Return(nil)

	mockArchive.On("InsertBatch", mock.Anything, mock.Anything).Return(1, nil).Maybe()

	m := metrics.NewWith("test", prometheus.NewRegistry())
	aggregator := stats.NewAggregator(mockRepo, stats.NewStaticResolver(), dedup.Disabled{}, m, zap.NewNop())

	pipeline := NewPipeline(
		pipelineTestConfig(),
		domain.EventTypeOpen,
		mockConsumer,
		aggregator,
		mockArchive,
		NewNopDeadLetter(zap.NewNop()),
		m,
		zap.NewNop(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := pipeline.Start(ctx)
	assert.NoError(t, err)

	mockRepo.AssertNumberOfCalls(t, "ApplyOpen", 1)
	mockConsumer.AssertNumberOfCalls(t, "DeleteMessage", 2)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mockRepo.AssertCalled(t, "ApplyOpen", mock.Anything, day, "GENERAL")
}

func TestPipeline_StopsCleanlyOnCancel(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockRepo := new(MockStatsRepository)
	mockArchive := new(MockEventArchive)

	mockConsumer.On("QueueURL").Return("http://localhost:9324/queue/email-open-events").Maybe()
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil).Maybe()

	m := metrics.NewWith("test", prometheus.NewRegistry())
	aggregator := stats.NewAggregator(mockRepo, stats.NewStaticResolver(), dedup.Disabled{}, m, zap.NewNop())

	pipeline := NewPipeline(
		pipelineTestConfig(),
		domain.EventTypeClick,
		mockConsumer,
		aggregator,
		mockArchive,
		NewNopDeadLetter(zap.NewNop()),
		m,
		zap.NewNop(),
	)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- pipeline.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Pipeline did not stop after cancellation")
	}
}
