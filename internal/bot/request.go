package bot

import (
	"context"
	"slices"
	"time"

	"github.com/bwmarrin/discordgo"

	"personnel-audit-bot/internal/models"
)

// Request is one inbound slash command invocation, detached from the gateway event.
type Request struct {
	Command    string
	GuildID    string
	GuildName  string
	ChannelID  string
	UserID     string
	UserTag    string
	RoleIDs    []string
	Options    map[string]string
	ReceivedAt time.Time
}

func (r Request) HasRole(roleID string) bool {
	return slices.Contains(r.RoleIDs, roleID)
}

func (r Request) Option(name string) string {
	return r.Options[name]
}

// Response is what a handler wants sent back for a Request. After, when set, runs
// once the reply has been delivered.
type Response struct {
	Content   string
	Ephemeral bool
	Embed     *discordgo.MessageEmbed
	Outcome   string
	After     func(ctx context.Context)
}

// CommandHandler handles one slash command.
type CommandHandler interface {
	Handle(ctx context.Context, req Request) (Response, error)
}

// MemberResolver fetches a guild member's profile.
type MemberResolver interface {
	ResolveMember(ctx context.Context, guildID, userID string) (models.TargetProfile, error)
}

// ChannelPoster posts an embed to a channel outside of an interaction reply.
type ChannelPoster interface {
	PostEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error
}

// Notifier forwards plain-text warnings to an external service.
type Notifier interface {
	Notify(message string) error
}

func ephemeral(content, outcome string) Response {
	return Response{Content: content, Ephemeral: true, Outcome: outcome}
}
