package service

import (
	"context"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/dto"
)

// StatsQueryer defines the read side of the stats pipeline
type StatsQueryer interface {
	GetDashboardSummary(ctx context.Context, req *dto.StatsRangeRequest) (*dto.DashboardSummaryResponse, error)
	GetOpenStatistics(ctx context.Context, req *dto.StatsRangeRequest) ([]dto.OpenStatisticsResponse, error)
	GetAttachmentStatistics(ctx context.Context, req *dto.StatsRangeRequest) ([]dto.AttachmentStatisticsResponse, error)
}

// Tracker defines the producer side: delivery simulation and the
// open/click tracking callbacks
type Tracker interface {
	SimulateDelivery(ctx context.Context, req *dto.DeliverEmailRequest) (*dto.DeliverEmailResponse, error)
	TrackOpen(ctx context.Context, req *dto.TrackOpenRequest) (*dto.TrackEventResponse, error)
	TrackClick(ctx context.Context, req *dto.TrackClickRequest) (*dto.TrackEventResponse, error)
}
