package models

import (
	"strings"
	"time"
)

const (
	ListTypeFaction = "faction"
	ListTypeGeneral = "general"
)

// ExpiryLayout is the DD.MM.YYYY format used for blacklist expiry dates.
const ExpiryLayout = "02.01.2006"

type BlacklistEntry struct {
	DiscordTag     string    `json:"discord_tag"`
	PassportNumber string    `json:"passport_number"`
	ListType       string    `json:"list_type"`
	Reason         string    `json:"reason"`
	ExpiryDate     string    `json:"expiry_date,omitempty"`
	AddedAt        time.Time `json:"added_at"`
	AddedBy        string    `json:"added_by"`
}

// ExpiresAt returns the end of the expiry day, or ok=false when the entry has no
// parseable expiry date.
func (e BlacklistEntry) ExpiresAt() (time.Time, bool) {
	if strings.TrimSpace(e.ExpiryDate) == "" {
		return time.Time{}, false
	}
	day, err := time.Parse(ExpiryLayout, strings.TrimSpace(e.ExpiryDate))
	if err != nil {
		return time.Time{}, false
	}
	return day.Add(24*time.Hour - time.Second), true
}

// ListTypeName returns the human label for a list type value.
func ListTypeName(listType string) string {
	switch listType {
	case ListTypeFaction:
		return "Faction"
	case ListTypeGeneral:
		return "General"
	default:
		return listType
	}
}
