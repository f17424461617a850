package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DeadLetter is the terminal holding area for messages that exhausted
// their retry budget. Pushing never fails the pipeline; a message that
// cannot be dead-lettered is logged and dropped.
type DeadLetter interface {
	Push(ctx context.Context, channel string, payload []byte, reason string)
}

// DeadLetterRecord is the stored form of a dead-lettered message
type DeadLetterRecord struct {
	At      time.Time       `json:"at"`
	Channel string          `json:"channel"`
	Reason  string          `json:"reason"`
	Payload json.RawMessage `json:"payload"`
}

// RedisDeadLetter keeps dead-lettered messages on a redis list per channel
type RedisDeadLetter struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisDeadLetter creates a dead-letter sink on an existing redis client
func NewRedisDeadLetter(client *redis.Client, log *zap.Logger) *RedisDeadLetter {
	return &RedisDeadLetter{client: client, log: log}
}

// Push appends the record to the channel's dead-letter list
func (d *RedisDeadLetter) Push(ctx context.Context, channel string, payload []byte, reason string) {
	record := DeadLetterRecord{
		At:      time.Now().UTC(),
		Channel: channel,
		Reason:  reason,
		Payload: json.RawMessage(payload),
	}

	body, err := json.Marshal(record)
	if err != nil {
		d.log.Error("Failed to marshal dead-letter record", zap.Error(err))
		return
	}

	if err := d.client.LPush(ctx, "deadletter:"+channel, body).Err(); err != nil {
		d.log.Error("Failed to push dead-letter record",
			zap.String("channel", channel),
			zap.Error(err))
	}
}

// NopDeadLetter drops dead-lettered messages after logging. Used when no
// redis is configured.
type NopDeadLetter struct {
	log *zap.Logger
}

func NewNopDeadLetter(log *zap.Logger) *NopDeadLetter {
	return &NopDeadLetter{log: log}
}

func (d *NopDeadLetter) Push(ctx context.Context, channel string, payload []byte, reason string) {
	d.log.Warn("Dropping dead-lettered message",
		zap.String("channel", channel),
		zap.String("reason", reason))
}
