package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/dto"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/repository"
)

const defaultRangeDays = 30

// StatsService serves the read-only stats queries over the counter store
type StatsService struct {
	repo repository.StatsRepository
	now  func() time.Time
	log  *zap.Logger
}

// NewStatsService creates a new stats query service
func NewStatsService(repo repository.StatsRepository, log *zap.Logger) *StatsService {
	return &StatsService{
		repo: repo,
		now:  time.Now,
		log:  log,
	}
}

// resolveRange parses the requested bounds, defaulting to the trailing 30
// days ending today.
func (s *StatsService) resolveRange(req *dto.StatsRangeRequest) (time.Time, time.Time, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -defaultRangeDays)
	to := today

	var err error
	if req.StartDate != "" {
		from, err = time.Parse(domain.DateFormat, req.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid startDate %q: %w", req.StartDate, err)
		}
	}
	if req.EndDate != "" {
		to, err = time.Parse(domain.DateFormat, req.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid endDate %q: %w", req.EndDate, err)
		}
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("startDate %s must not be after endDate %s",
			from.Format(domain.DateFormat), to.Format(domain.DateFormat))
	}

	return from, to, nil
}

// GetDashboardSummary folds the range into totals plus per-day chart data
func (s *StatsService) GetDashboardSummary(ctx context.Context, req *dto.StatsRangeRequest) (*dto.DashboardSummaryResponse, error) {
	from, to, err := s.resolveRange(req)
	if err != nil {
		return nil, err
	}

	deliveryStats, err := s.repo.GetDeliveryStats(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery stats: %w", err)
	}

	openStats, err := s.repo.GetOpenStats(ctx, from, to, repository.StatsFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load open stats: %w", err)
	}

	attachmentStats, err := s.repo.GetAttachmentStats(ctx, from, to, repository.StatsFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load attachment stats: %w", err)
	}

	dailyStats, err := s.repo.GetDailyStats(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily stats: %w", err)
	}

	summary := &dto.DashboardSummaryResponse{
		DailyStats: make([]dto.ChartData, 0, len(dailyStats)),
	}
	for _, row := range deliveryStats {
		summary.TotalSentCount += row.TotalCount
		summary.SuccessCount += row.SuccessCount
		summary.FailCount += row.FailCount
	}
	for _, row := range openStats {
		summary.TotalOpens += row.OpenCount
	}
	for _, row := range attachmentStats {
		summary.TotalAttachmentClicks += row.ClickCount
	}
	for _, row := range dailyStats {
		summary.DailyStats = append(summary.DailyStats, dto.ChartData{
			Date:       row.Date.Format(domain.DateFormat),
			SentCount:  row.SentCount,
			OpenCount:  row.OpenCount,
			ClickCount: row.ClickCount,
		})
	}

	s.log.Info("Dashboard summary computed",
		zap.String("from", from.Format(domain.DateFormat)),
		zap.String("to", to.Format(domain.DateFormat)),
		zap.Int("days", len(dailyStats)))

	return summary, nil
}

// GetOpenStatistics returns per-day open rows with their derived rates
func (s *StatsService) GetOpenStatistics(ctx context.Context, req *dto.StatsRangeRequest) ([]dto.OpenStatisticsResponse, error) {
	from, to, err := s.resolveRange(req)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.GetOpenStats(ctx, from, to, repository.StatsFilter{EmailCategory: req.EmailCategory})
	if err != nil {
		return nil, fmt.Errorf("failed to load open stats: %w", err)
	}

	result := make([]dto.OpenStatisticsResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.OpenStatisticsResponse{
			Date:          row.Date.Format(domain.DateFormat),
			EmailCategory: row.EmailCategory,
			TotalEmails:   row.TotalEmails,
			OpenCount:     row.OpenCount,
			OpenRate:      Rate(row.OpenCount, row.TotalEmails),
		})
	}

	return result, nil
}

// GetAttachmentStatistics returns per-day click rows with their derived
// rates
func (s *StatsService) GetAttachmentStatistics(ctx context.Context, req *dto.StatsRangeRequest) ([]dto.AttachmentStatisticsResponse, error) {
	from, to, err := s.resolveRange(req)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.GetAttachmentStats(ctx, from, to, repository.StatsFilter{FileType: req.FileType})
	if err != nil {
		return nil, fmt.Errorf("failed to load attachment stats: %w", err)
	}

	result := make([]dto.AttachmentStatisticsResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.AttachmentStatisticsResponse{
			Date:             row.Date.Format(domain.DateFormat),
			FileType:         row.FileType,
			TotalAttachments: row.TotalAttachments,
			ClickCount:       row.ClickCount,
			ClickRate:        Rate(row.ClickCount, row.TotalAttachments),
		})
	}

	return result, nil
}

// Rate computes count/total as a percentage rounded to two decimals.
// A zero total yields 0, not an error.
func Rate(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*100) / 100
}
