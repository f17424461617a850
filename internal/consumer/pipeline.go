package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/config"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/metrics"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/queue"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/repository"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/stats"
)

// Pipeline processes one channel: receiver pulls messages, the parser
// stage decodes them and the aggregator stage applies counters. Decoded
// envelopes are also teed into the archive writer. Channels have no
// ordering relationship with each other; within a channel workers may
// reorder, which the commutative increments tolerate.
type Pipeline struct {
	eventType  domain.EventType
	receiver   *Receiver
	parser     *ParserStage
	aggregator *AggregatorStage
	archiver   *ArchiveWriter
	log        *zap.Logger
}

// NewPipeline wires the stages for one event channel
func NewPipeline(
	cfg *config.Config,
	eventType domain.EventType,
	queueConsumer queue.Consumer,
	aggregator *stats.Aggregator,
	archive repository.EventArchive,
	deadLetter DeadLetter,
	m *metrics.Metrics,
	log *zap.Logger,
) *Pipeline {
	log = log.With(zap.String("channel", string(eventType)))

	receiver := NewReceiver(queueConsumer, ReceiverConfig{
		MaxMessages:     cfg.SQS.MaxMessages,
		WaitTimeSeconds: cfg.SQS.WaitTimeSeconds,
		BufferSize:      100,
	}, log)

	parser := NewParserStage(
		queueConsumer,
		NewJSONEventParser(eventType),
		eventType,
		deadLetter,
		cfg.Consumer.MaxReceiveCount,
		m,
		log,
	)

	aggregatorStage := NewAggregatorStage(
		aggregator,
		time.Duration(cfg.Consumer.StoreTimeoutSec)*time.Second,
		m,
		log,
	)

	archiver := NewArchiveWriter(archive, ArchiveWriterConfig{
		MaxBatchSize: cfg.Consumer.ArchiveBatchMax,
		FlushTimeout: time.Duration(cfg.Consumer.ArchiveTimeoutSec) * time.Second,
	}, m, log)

	return &Pipeline{
		eventType:  eventType,
		receiver:   receiver,
		parser:     parser,
		aggregator: aggregatorStage,
		archiver:   archiver,
		log:        log,
	}
}

// Start runs the pipeline until the context is cancelled, then drains
// in-flight work before returning.
func (p *Pipeline) Start(ctx context.Context) error {
	messageChan := make(chan types.Message, 100)
	envelopeChan := make(chan *Envelope, 100)
	archiveChan := make(chan *Envelope, 100)

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		p.receiver.Start(ctx, messageChan)
	}()

	go func() {
		defer wg.Done()
		p.parser.Start(ctx, messageChan, envelopeChan)
	}()

	// Tee decoded envelopes to the aggregator and the archive. The
	// archive copy never blocks aggregation: when its buffer is full the
	// event is dropped from the archive only.
	teeChan := make(chan *Envelope, 100)
	go func() {
		defer wg.Done()
		defer close(teeChan)
		defer close(archiveChan)
		for envelope := range envelopeChan {
			select {
			case archiveChan <- envelope:
			default:
				p.log.Warn("Archive buffer full, skipping archive copy")
			}
			teeChan <- envelope
		}
	}()

	go func() {
		defer wg.Done()
		p.archiver.Start(ctx, archiveChan)
	}()

	p.aggregator.Start(ctx, teeChan)
	wg.Wait()

	p.log.Info("Pipeline stopped")
	return nil
}
