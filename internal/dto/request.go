package dto

// DeliverEmailRequest simulates sending one email to a set of recipients
type DeliverEmailRequest struct {
	EmailID         string   `json:"emailId" binding:"required" example:"eml_1a2b3c"`
	SenderEmail     string   `json:"senderEmail" binding:"required,email" example:"sender@example.com"`
	Subject         string   `json:"subject" example:"June newsletter"`
	RecipientEmails []string `json:"recipientEmails" binding:"required,min=1,dive,email"`
}

// TrackOpenRequest reports that a recipient opened an email
type TrackOpenRequest struct {
	EmailID        string `json:"emailId" binding:"required" example:"eml_1a2b3c"`
	RecipientEmail string `json:"recipientEmail" binding:"required,email" example:"recipient@example.com"`
	OpenTime       string `json:"openTime" example:"2025-06-01T12:34:56Z"`
	DeviceInfo     string `json:"deviceInfo" example:"Mozilla/5.0"`
}

// TrackClickRequest reports that a recipient clicked an attachment
type TrackClickRequest struct {
	EmailID        string `json:"emailId" binding:"required" example:"eml_1a2b3c"`
	AttachmentID   string `json:"attachmentId" binding:"required" example:"att_9z8y7x"`
	RecipientEmail string `json:"recipientEmail" binding:"required,email" example:"recipient@example.com"`
	ClickTime      string `json:"clickTime" example:"2025-06-01T12:40:00Z"`
	DeviceInfo     string `json:"deviceInfo" example:"Mozilla/5.0"`
}

// StatsRangeRequest selects a date range for the stats queries. Absent
// bounds default to the trailing 30 days ending today.
type StatsRangeRequest struct {
	StartDate     string `form:"startDate" example:"2025-05-01"`
	EndDate       string `form:"endDate" example:"2025-05-31"`
	EmailCategory string `form:"emailCategory" example:"GENERAL"`
	FileType      string `form:"fileType" example:"PDF"`
}
