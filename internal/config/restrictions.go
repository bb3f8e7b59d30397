package config

// Deployment ids for the production guild.
const (
	AuditChannelID        = "1369770031109640314"
	AuthorizedRoleID      = "1130178461898641512"
	BlacklistRoleID       = "1130177420620746865"
	NotificationChannelID = "1370791808308740186"
)

// Restrictions is the read-only channel and role policy handed to command handlers.
type Restrictions struct {
	AuditChannelID        string
	AuthorizedRoleID      string
	BlacklistRoleID       string
	NotificationChannelID string
}

// DefaultRestrictions returns the compiled-in policy.
func DefaultRestrictions() Restrictions {
	return Restrictions{
		AuditChannelID:        AuditChannelID,
		AuthorizedRoleID:      AuthorizedRoleID,
		BlacklistRoleID:       BlacklistRoleID,
		NotificationChannelID: NotificationChannelID,
	}
}
