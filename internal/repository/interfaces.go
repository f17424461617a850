package repository

import (
	"context"
	"time"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
)

// StatsFilter narrows range queries to one dimension value. Zero value
// means no filtering.
type StatsFilter struct {
	EmailCategory string
	FileType      string
}

// StatsRepository owns all writes to the counter rows and serves the
// read side's range queries. Every Apply* call is a single atomic
// insert-or-increment; concurrent calls touching the same (date,
// dimension) key must not lose updates.
type StatsRepository interface {
	// ApplyDelivery increments the daily sent counter and the delivery
	// outcome counters for the given day. Anything but FAILED counts as a
	// success.
	ApplyDelivery(ctx context.Context, day time.Time, status domain.DeliveryStatus) error

	// ApplyOpen increments the daily open counter and the (day, category)
	// open counters.
	ApplyOpen(ctx context.Context, day time.Time, emailCategory string) error

	// ApplyClick increments the daily click counter and the (day, fileType)
	// click counters.
	ApplyClick(ctx context.Context, day time.Time, fileType string) error

	// Range queries, ordered by date ascending.
	GetDeliveryStats(ctx context.Context, from, to time.Time) ([]domain.DeliveryStats, error)
	GetOpenStats(ctx context.Context, from, to time.Time, filter StatsFilter) ([]domain.OpenStats, error)
	GetAttachmentStats(ctx context.Context, from, to time.Time, filter StatsFilter) ([]domain.AttachmentStats, error)
	GetDailyStats(ctx context.Context, from, to time.Time) ([]domain.DailyStats, error)

	// InitSchema creates the counter tables if they do not exist
	InitSchema(ctx context.Context) error

	// Ping checks if the store is reachable
	Ping(ctx context.Context) error

	// Close releases the underlying pool
	Close()
}

// EventArchive stores the raw tracking events for offline analysis. The
// archive is best-effort; counters are the durable product of the
// pipeline.
type EventArchive interface {
	InsertBatch(ctx context.Context, events []*domain.ArchivedEvent) (int, error)
	InitSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
