package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"startDate must not be after endDate"`
}

// RecipientResult is the per-recipient outcome of a simulated delivery
type RecipientResult struct {
	RecipientEmail string `json:"recipientEmail" example:"recipient@example.com"`
	Status         string `json:"status" example:"DELIVERED"`
	Timestamp      string `json:"timestamp" example:"2025-06-01T12:34:56Z"`
}

// DeliverEmailResponse is the outcome of a simulated delivery
type DeliverEmailResponse struct {
	Success        bool              `json:"success" example:"true"`
	MockEmailID    string            `json:"mockEmailId" example:"f7a3b2c1-..."`
	DeliveryStatus string            `json:"deliveryStatus" example:"DELIVERED"`
	Results        []RecipientResult `json:"results"`
}

// TrackEventResponse acknowledges a published tracking event
type TrackEventResponse struct {
	Success   bool   `json:"success" example:"true"`
	EventID   string `json:"eventId" example:"f7a3b2c1-..."`
	EventType string `json:"eventType" example:"EMAIL_OPENED"`
}

// OpenStatisticsResponse is a per-day open stats row with its derived rate
type OpenStatisticsResponse struct {
	Date          string  `json:"date" example:"2025-06-01"`
	EmailCategory string  `json:"emailCategory" example:"GENERAL"`
	TotalEmails   int     `json:"totalEmails" example:"80"`
	OpenCount     int     `json:"openCount" example:"40"`
	OpenRate      float64 `json:"openRate" example:"50"`
}

// AttachmentStatisticsResponse is a per-day click stats row with its
// derived rate
type AttachmentStatisticsResponse struct {
	Date             string  `json:"date" example:"2025-06-01"`
	FileType         string  `json:"fileType" example:"PDF"`
	TotalAttachments int     `json:"totalAttachments" example:"20"`
	ClickCount       int     `json:"clickCount" example:"5"`
	ClickRate        float64 `json:"clickRate" example:"25"`
}

// ChartData is one day of the dashboard chart
type ChartData struct {
	Date       string `json:"date" example:"2025-06-01"`
	SentCount  int    `json:"sentCount" example:"100"`
	OpenCount  int    `json:"openCount" example:"80"`
	ClickCount int    `json:"clickCount" example:"30"`
}

// DashboardSummaryResponse folds the range into dashboard totals
type DashboardSummaryResponse struct {
	TotalSentCount        int         `json:"totalSentCount" example:"1000"`
	SuccessCount          int         `json:"successCount" example:"950"`
	FailCount             int         `json:"failCount" example:"50"`
	TotalOpens            int         `json:"totalOpens" example:"800"`
	TotalAttachmentClicks int         `json:"totalAttachmentClicks" example:"300"`
	DailyStats            []ChartData `json:"dailyStats"`
}
