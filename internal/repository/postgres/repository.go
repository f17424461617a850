package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/repository"
)

// Repository implements repository.StatsRepository on PostgreSQL. Every
// increment is a single INSERT ... ON CONFLICT DO UPDATE, so concurrent
// workers touching the same (date, dimension) key never lose updates and
// readers never observe a partially-written row.
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new PostgreSQL stats repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the counter tables if they do not exist
func (r *Repository) InitSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS daily_stats (
			date DATE PRIMARY KEY,
			sent_count INT NOT NULL DEFAULT 0,
			open_count INT NOT NULL DEFAULT 0,
			click_count INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS delivery_stats (
			date DATE PRIMARY KEY,
			total_count INT NOT NULL DEFAULT 0,
			success_count INT NOT NULL DEFAULT 0,
			fail_count INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS open_stats (
			date DATE NOT NULL,
			email_category TEXT NOT NULL,
			total_emails INT NOT NULL DEFAULT 0,
			open_count INT NOT NULL DEFAULT 0,
			PRIMARY KEY (date, email_category)
		)`,
		`CREATE TABLE IF NOT EXISTS attachment_stats (
			date DATE NOT NULL,
			file_type TEXT NOT NULL,
			total_attachments INT NOT NULL DEFAULT 0,
			click_count INT NOT NULL DEFAULT 0,
			PRIMARY KEY (date, file_type)
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.client.Pool().Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create stats table: %w", err)
		}
	}

	r.log.Info("Stats schema initialized")
	return nil
}

// ApplyDelivery applies a delivery outcome to the daily and delivery
// counter rows. PARTIALLY_DELIVERED counts toward successes; only FAILED
// counts as a failure.
func (r *Repository) ApplyDelivery(ctx context.Context, day time.Time, status domain.DeliveryStatus) error {
	success, fail := 1, 0
	if status == domain.StatusFailed {
		success, fail = 0, 1
	}

	daily := `
		INSERT INTO daily_stats (date, sent_count, open_count, click_count)
		VALUES ($1, 1, 0, 0)
		ON CONFLICT (date)
		DO UPDATE SET sent_count = daily_stats.sent_count + 1`

	if _, err := r.client.Pool().Exec(ctx, daily, day); err != nil {
		return fmt.Errorf("failed to upsert daily stats: %w", err)
	}

	delivery := `
		INSERT INTO delivery_stats (date, total_count, success_count, fail_count)
		VALUES ($1, 1, $2, $3)
		ON CONFLICT (date)
		DO UPDATE SET
			total_count = delivery_stats.total_count + 1,
			success_count = delivery_stats.success_count + $2,
			fail_count = delivery_stats.fail_count + $3`

	if _, err := r.client.Pool().Exec(ctx, delivery, day, success, fail); err != nil {
		return fmt.Errorf("failed to upsert delivery stats: %w", err)
	}

	return nil
}

// ApplyOpen applies one open event to the daily and per-category rows
func (r *Repository) ApplyOpen(ctx context.Context, day time.Time, emailCategory string) error {
	daily := `
		INSERT INTO daily_stats (date, sent_count, open_count, click_count)
		VALUES ($1, 0, 1, 0)
		ON CONFLICT (date)
		DO UPDATE SET open_count = daily_stats.open_count + 1`

	if _, err := r.client.Pool().Exec(ctx, daily, day); err != nil {
		return fmt.Errorf("failed to upsert daily stats: %w", err)
	}

	open := `
		INSERT INTO open_stats (date, email_category, total_emails, open_count)
		VALUES ($1, $2, 1, 1)
		ON CONFLICT (date, email_category)
		DO UPDATE SET open_count = open_stats.open_count + 1`

	if _, err := r.client.Pool().Exec(ctx, open, day, emailCategory); err != nil {
		return fmt.Errorf("failed to upsert open stats: %w", err)
	}

	return nil
}

// ApplyClick applies one click event to the daily and per-file-type rows
func (r *Repository) ApplyClick(ctx context.Context, day time.Time, fileType string) error {
	daily := `
		INSERT INTO daily_stats (date, sent_count, open_count, click_count)
		VALUES ($1, 0, 0, 1)
		ON CONFLICT (date)
		DO UPDATE SET click_count = daily_stats.click_count + 1`

	if _, err := r.client.Pool().Exec(ctx, daily, day); err != nil {
		return fmt.Errorf("failed to upsert daily stats: %w", err)
	}

	click := `
		INSERT INTO attachment_stats (date, file_type, total_attachments, click_count)
		VALUES ($1, $2, 1, 1)
		ON CONFLICT (date, file_type)
		DO UPDATE SET click_count = attachment_stats.click_count + 1`

	if _, err := r.client.Pool().Exec(ctx, click, day, fileType); err != nil {
		return fmt.Errorf("failed to upsert attachment stats: %w", err)
	}

	return nil
}

// GetDeliveryStats returns delivery counter rows in the range, ordered by
// date ascending
func (r *Repository) GetDeliveryStats(ctx context.Context, from, to time.Time) ([]domain.DeliveryStats, error) {
	query := `
		SELECT date, total_count, success_count, fail_count
		FROM delivery_stats
		WHERE date BETWEEN $1 AND $2
		ORDER BY date ASC`

	rows, err := r.client.Pool().Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery stats: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, func(row pgx.Rows) (domain.DeliveryStats, error) {
		var s domain.DeliveryStats
		err := row.Scan(&s.Date, &s.TotalCount, &s.SuccessCount, &s.FailCount)
		return s, err
	})
}

// GetOpenStats returns open counter rows in the range, optionally
// filtered by category, ordered by date ascending
func (r *Repository) GetOpenStats(ctx context.Context, from, to time.Time, filter repository.StatsFilter) ([]domain.OpenStats, error) {
	query := `
		SELECT date, email_category, total_emails, open_count
		FROM open_stats
		WHERE date BETWEEN $1 AND $2`
	args := []any{from, to}

	if filter.EmailCategory != "" {
		query += ` AND email_category = $3`
		args = append(args, filter.EmailCategory)
	}
	query += ` ORDER BY date ASC`

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query open stats: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, func(row pgx.Rows) (domain.OpenStats, error) {
		var s domain.OpenStats
		err := row.Scan(&s.Date, &s.EmailCategory, &s.TotalEmails, &s.OpenCount)
		return s, err
	})
}

// GetAttachmentStats returns attachment counter rows in the range,
// optionally filtered by file type, ordered by date ascending
func (r *Repository) GetAttachmentStats(ctx context.Context, from, to time.Time, filter repository.StatsFilter) ([]domain.AttachmentStats, error) {
	query := `
		SELECT date, file_type, total_attachments, click_count
		FROM attachment_stats
		WHERE date BETWEEN $1 AND $2`
	args := []any{from, to}

	if filter.FileType != "" {
		query += ` AND file_type = $3`
		args = append(args, filter.FileType)
	}
	query += ` ORDER BY date ASC`

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachment stats: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, func(row pgx.Rows) (domain.AttachmentStats, error) {
		var s domain.AttachmentStats
		err := row.Scan(&s.Date, &s.FileType, &s.TotalAttachments, &s.ClickCount)
		return s, err
	})
}

// GetDailyStats returns daily counter rows in the range, ordered by date
// ascending
func (r *Repository) GetDailyStats(ctx context.Context, from, to time.Time) ([]domain.DailyStats, error) {
	query := `
		SELECT date, sent_count, open_count, click_count
		FROM daily_stats
		WHERE date BETWEEN $1 AND $2
		ORDER BY date ASC`

	rows, err := r.client.Pool().Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, func(row pgx.Rows) (domain.DailyStats, error) {
		var s domain.DailyStats
		err := row.Scan(&s.Date, &s.SentCount, &s.OpenCount, &s.ClickCount)
		return s, err
	})
}

// Ping checks if the store is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Pool().Ping(ctx)
}

// Close releases the underlying pool
func (r *Repository) Close() {
	r.client.Close()
}

func scanRows[T any](rows pgx.Rows, scan func(pgx.Rows) (T, error)) ([]T, error) {
	result := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats rows: %w", err)
	}
	return result, nil
}
