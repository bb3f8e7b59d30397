package bot

import (
	"github.com/bwmarrin/discordgo"

	"personnel-audit-bot/internal/models"
)

const (
	CommandAudit       = "audit"
	CommandBlacklist   = "blacklist"
	CommandUnblacklist = "unblacklist"
)

// Option names for the audit command.
const (
	OptionOfficer  = "officer"
	OptionEmployee = "employee"
	OptionPassport = "passport"
	OptionReason   = "reason"
	OptionDate     = "date"
)

// Option names for the blacklist commands. OptionPassport and OptionReason are shared.
const (
	OptionDiscordTag = "discord_tag"
	OptionListType   = "list_type"
	OptionExpiryDate = "expiry_date"
)

// AuditCommand declares the audit slash command. All five options are required.
func AuditCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        CommandAudit,
		Description: "Create an audit record of a personnel action",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionOfficer,
				Description: "Your full name and service ID number",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        OptionEmployee,
				Description: "The employee the personnel action applies to",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionPassport,
				Description: "The employee's passport number",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionReason,
				Description: "Grounds for the personnel action",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionDate,
				Description: "Date of the personnel action (DD.MM.YYYY)",
				Required:    true,
			},
		},
	}
}

func BlacklistCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        CommandBlacklist,
		Description: "Add a person to the blacklist",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionDiscordTag,
				Description: "Discord tag of the person (e.g. user#1234)",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionPassport,
				Description: "Passport number",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionListType,
				Description: "Blacklist type",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: models.ListTypeName(models.ListTypeFaction), Value: models.ListTypeFaction},
					{Name: models.ListTypeName(models.ListTypeGeneral), Value: models.ListTypeGeneral},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionReason,
				Description: "Reason for blacklisting",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionExpiryDate,
				Description: "Expiry date (optional, DD.MM.YYYY)",
			},
		},
	}
}

func UnblacklistCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        CommandUnblacklist,
		Description: "Remove a person from the blacklist",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionPassport,
				Description: "Passport number",
				Required:    true,
			},
		},
	}
}

// Commands returns the command set to register. Blacklist commands are only
// included when a blacklist store is available.
func Commands(withBlacklist bool) []*discordgo.ApplicationCommand {
	cmds := []*discordgo.ApplicationCommand{AuditCommand()}
	if withBlacklist {
		cmds = append(cmds, BlacklistCommand(), UnblacklistCommand())
	}
	return cmds
}

// RequiredOptions lists the option names a command declares as required.
func RequiredOptions(cmd *discordgo.ApplicationCommand) []string {
	var names []string
	for _, opt := range cmd.Options {
		if opt.Required {
			names = append(names, opt.Name)
		}
	}
	return names
}

// MissingOptions returns the required options of cmd that req does not carry.
func MissingOptions(req Request, cmd *discordgo.ApplicationCommand) []string {
	var missing []string
	for _, name := range RequiredOptions(cmd) {
		if _, ok := req.Options[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
