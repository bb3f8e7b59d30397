package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"personnel-audit-bot/internal/models"
)

const (
	WrongChannelMessage = "This command can only be used in the dedicated audit channel."
	NoPermissionMessage = "You do not have permission to use this command."

	RecordTitle  = "📋 Personnel action record"
	RecordFooter = "Personnel action audit system"

	recordColor = 0x2B2D31
	alertColor  = 0xED4245
)

// Field labels of the public audit reply, in display order.
const (
	LabelAuditor      = "👤 Auditor"
	LabelEmployeeName = "📝 Employee full name"
	LabelPassport     = "🪪 Passport number"
	LabelPosition     = "🔰 Position"
	LabelReason       = "📄 Reason"
	LabelActionDate   = "📅 Action date"
)

// fieldValue keeps embed fields non-empty; the API rejects empty values.
func fieldValue(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

// RecordEmbed renders the public audit reply.
func RecordEmbed(rec models.AuditRecord) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       RecordTitle,
		Description: "**Employee:** " + mention(rec.TargetUserID),
		Color:       recordColor,
		Timestamp:   rec.CreatedAt.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: LabelAuditor, Value: fieldValue(rec.AuditorInfo)},
			{Name: LabelEmployeeName, Value: fieldValue(rec.EmployeeName)},
			{Name: LabelPassport, Value: fieldValue(rec.PassportNumber)},
			{Name: LabelPosition, Value: fieldValue(rec.Position)},
			{Name: LabelReason, Value: fieldValue(rec.ReasonText)},
			{Name: LabelActionDate, Value: fieldValue(rec.ActionDate)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: RecordFooter},
	}
}

// BlacklistWarningEmbed is posted to the notification channel when an audit hits a blacklist entry.
func BlacklistWarningEmbed(req Request, rec models.AuditRecord, entry models.BlacklistEntry) *discordgo.MessageEmbed {
	server := req.GuildName
	if server == "" {
		server = req.GuildID
	}
	return &discordgo.MessageEmbed{
		Title:       "⚠️ WARNING: blacklist match",
		Description: "An audit record matched a blacklist entry.",
		Color:       alertColor,
		Timestamp:   rec.CreatedAt.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Server", Value: fieldValue(server)},
			{Name: "Requested by", Value: mention(req.UserID), Inline: true},
			{Name: "Blacklisted", Value: fmt.Sprintf("%s (passport %s)", mention(rec.TargetUserID), rec.PassportNumber), Inline: true},
			{Name: "List", Value: fieldValue(models.ListTypeName(entry.ListType)), Inline: true},
			{Name: "Blacklist reason", Value: fieldValue(entry.Reason)},
		},
	}
}

// BlacklistWarningText is the plain-text form of BlacklistWarningEmbed for external notifiers.
func BlacklistWarningText(req Request, rec models.AuditRecord, entry models.BlacklistEntry) string {
	return fmt.Sprintf("Blacklist match: audit by %s in guild %s for passport %s (employee %s). Reason on file: %s",
		req.UserTag, req.GuildID, rec.PassportNumber, rec.EmployeeName, entry.Reason)
}

// BlacklistAddedEmbed confirms a new blacklist entry to the invoker.
func BlacklistAddedEmbed(entry models.BlacklistEntry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Blacklist entry added",
		Description: "The person was added to the blacklist.",
		Color:       alertColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Discord", Value: fieldValue(entry.DiscordTag), Inline: true},
			{Name: "Passport", Value: fieldValue(entry.PassportNumber), Inline: true},
			{Name: "List type", Value: fieldValue(models.ListTypeName(entry.ListType)), Inline: true},
			{Name: "Reason", Value: fieldValue(entry.Reason)},
		},
	}
	if entry.ExpiryDate != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Expires", Value: entry.ExpiryDate, Inline: true})
	}
	return embed
}
