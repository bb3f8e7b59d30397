package models

import "time"

// DefaultPosition is used when a member nickname does not follow "<position> | <name>".
const DefaultPosition = "Not specified"

// AuditCommandInput holds the five audit command parameters exactly as submitted.
type AuditCommandInput struct {
	OfficerInfo    string
	TargetUserID   string
	PassportNumber string
	ReasonText     string
	ActionDate     string // expected DD.MM.YYYY, not validated
}

type TargetProfile struct {
	UserID           string
	DisplayNickname  string
	FallbackUsername string
	Tag              string
}

type DerivedIdentity struct {
	Position     string
	EmployeeName string
}

type AuditRecord struct {
	ID             string    `json:"id"`
	GuildID        string    `json:"guild_id"`
	ChannelID      string    `json:"channel_id"`
	InvokerID      string    `json:"invoker_id"`
	TargetUserID   string    `json:"target_user_id"`
	AuditorInfo    string    `json:"auditor_info"`
	EmployeeName   string    `json:"employee_name"`
	PassportNumber string    `json:"passport_number"`
	Position       string    `json:"position"`
	ReasonText     string    `json:"reason_text"`
	ActionDate     string    `json:"action_date"`
	CreatedAt      time.Time `json:"created_at"`
}
