package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
)

// NopArchive drops events after logging instead of archiving them. Used
// when ClickHouse is unavailable at boot so the counter pipeline keeps
// running without the archive.
type NopArchive struct {
	log *zap.Logger
}

func NewNopArchive(log *zap.Logger) *NopArchive {
	return &NopArchive{log: log}
}

func (a *NopArchive) InsertBatch(ctx context.Context, events []*domain.ArchivedEvent) (int, error) {
	if len(events) > 0 {
		a.log.Warn("Archive unavailable, dropping events", zap.Int("count", len(events)))
	}
	return 0, nil
}

func (a *NopArchive) InitSchema(ctx context.Context) error { return nil }

func (a *NopArchive) Ping(ctx context.Context) error { return nil }

func (a *NopArchive) Close() error { return nil }
