package domain

import "time"

// DateFormat is the wire format for calendar days across the stats API.
const DateFormat = "2006-01-02"

// DailyStats is the per-day counter row covering all event categories.
type DailyStats struct {
	Date       time.Time
	SentCount  int
	OpenCount  int
	ClickCount int
}

// DeliveryStats is the per-day delivery outcome counter row.
type DeliveryStats struct {
	Date         time.Time
	TotalCount   int
	SuccessCount int
	FailCount    int
}

// OpenStats is the per-day, per-category open counter row.
type OpenStats struct {
	Date          time.Time
	EmailCategory string
	TotalEmails   int
	OpenCount     int
}

// AttachmentStats is the per-day, per-file-type click counter row.
type AttachmentStats struct {
	Date             time.Time
	FileType         string
	TotalAttachments int
	ClickCount       int
}

// ArchivedEvent is the flattened form of a tracking event as stored in the
// raw event archive.
type ArchivedEvent struct {
	EventID        string    `ch:"event_id"`
	EventType      string    `ch:"event_type"`
	EmailID        string    `ch:"email_id"`
	AttachmentID   string    `ch:"attachment_id"`
	RecipientEmail string    `ch:"recipient_email"`
	Status         string    `ch:"status"`
	Payload        string    `ch:"payload"`
	OccurredAt     time.Time `ch:"occurred_at"`
	ProcessedAt    time.Time `ch:"processed_at"`
}
