package bot

import (
	"strings"

	"personnel-audit-bot/internal/models"
)

// DeriveIdentity splits a "<position> | <full name>" nickname. Segments past the
// second are ignored. Without a usable nickname the base username is used with
// models.DefaultPosition.
func DeriveIdentity(profile models.TargetProfile) models.DerivedIdentity {
	identity := models.DerivedIdentity{
		Position:     models.DefaultPosition,
		EmployeeName: profile.FallbackUsername,
	}
	if profile.DisplayNickname == "" {
		return identity
	}

	parts := strings.Split(profile.DisplayNickname, "|")
	if len(parts) >= 2 {
		identity.Position = strings.TrimSpace(parts[0])
		identity.EmployeeName = strings.TrimSpace(parts[1])
	}
	return identity
}
