package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"personnel-audit-bot/internal/logger"
	"personnel-audit-bot/internal/metrics"
	"personnel-audit-bot/internal/models"
)

// Intents requested at login. GuildMembers is privileged and must be enabled in
// the Developer Portal.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent |
	discordgo.IntentsGuildMembers

func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.Identify.Intents = Intents
	return s, nil
}

// Gateway adapts a discordgo session to MemberResolver and ChannelPoster.
type Gateway struct {
	Session *discordgo.Session
}

func (g Gateway) ResolveMember(ctx context.Context, guildID, userID string) (models.TargetProfile, error) {
	m, err := g.Session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return models.TargetProfile{}, err
	}
	return ProfileFromMember(m), nil
}

func (g Gateway) PostEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	_, err := g.Session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
	return err
}

// GuildName returns the cached guild name, or "" when the guild is not in state.
func (g Gateway) GuildName(guildID string) string {
	if g.Session == nil || g.Session.State == nil || guildID == "" {
		return ""
	}
	guild, err := g.Session.State.Guild(guildID)
	if err != nil {
		return ""
	}
	return guild.Name
}

func ProfileFromMember(m *discordgo.Member) models.TargetProfile {
	p := models.TargetProfile{DisplayNickname: m.Nick}
	if m.User != nil {
		p.UserID = m.User.ID
		p.FallbackUsername = m.User.Username
		p.Tag = m.User.String()
	}
	return p
}

// RequestFromInteraction converts an application command interaction into a Request.
func RequestFromInteraction(i *discordgo.Interaction, receivedAt time.Time) Request {
	data := i.ApplicationCommandData()
	req := Request{
		Command:    data.Name,
		GuildID:    i.GuildID,
		ChannelID:  i.ChannelID,
		Options:    make(map[string]string, len(data.Options)),
		ReceivedAt: receivedAt,
	}

	user := i.User
	if i.Member != nil {
		req.RoleIDs = i.Member.Roles
		user = i.Member.User
	}
	if user != nil {
		req.UserID = user.ID
		req.UserTag = user.String()
	}

	for _, opt := range data.Options {
		switch v := opt.Value.(type) {
		case string:
			req.Options[opt.Name] = v
		default:
			req.Options[opt.Name] = fmt.Sprint(v)
		}
	}
	return req
}

// InteractionResponse renders a Response as an immediate channel message.
func InteractionResponse(resp Response) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{Content: resp.Content}
	if resp.Embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{resp.Embed}
	}
	if resp.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}

// Bot owns the gateway connection: it registers commands once on the first Ready
// event and dispatches each interaction on the goroutine discordgo starts for it.
type Bot struct {
	session    *discordgo.Session
	gateway    Gateway
	appID      string
	guildID    string
	commands   []*discordgo.ApplicationCommand
	dispatcher *Dispatcher
	now        func() time.Time

	ctx          context.Context
	registerOnce sync.Once
}

func New(session *discordgo.Session, appID, guildID string, commands []*discordgo.ApplicationCommand, dispatcher *Dispatcher) *Bot {
	return &Bot{
		session:    session,
		gateway:    Gateway{Session: session},
		appID:      appID,
		guildID:    guildID,
		commands:   commands,
		dispatcher: dispatcher,
		now:        time.Now,
		ctx:        context.Background(),
	}
}

// Start verifies the token and opens the gateway. Credential and intent failures
// are returned wrapped in ErrInvalidToken / ErrDisallowedIntents.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx

	if _, err := b.session.User("@me", discordgo.WithContext(ctx)); err != nil {
		return ClassifyLoginError(err)
	}

	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteraction)
	b.session.AddHandler(b.onDisconnect)

	logger.Log().Info("Logging in to Discord...")
	if err := b.session.Open(); err != nil {
		return ClassifyLoginError(err)
	}
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// RegisterCommands overwrites the application's commands with b.commands.
func (b *Bot) RegisterCommands(ctx context.Context) error {
	logger.Log().Info("Registering slash commands...")
	registered, err := b.session.ApplicationCommandBulkOverwrite(b.appID, b.guildID, b.commands, discordgo.WithContext(ctx))
	if err != nil {
		metrics.IncRegistrationError()
		return fmt.Errorf("register commands: %w", err)
	}
	logger.Log().WithField("count", len(registered)).Info("Slash commands registered")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if r.User != nil {
		logger.Log().WithField("user", r.User.String()).Info("Bot started")
	}

	b.registerOnce.Do(func() {
		if err := b.RegisterCommands(b.ctx); err != nil {
			logger.Log().WithError(err).Error("Failed to register commands")
		}
	})
}

func (b *Bot) onDisconnect(s *discordgo.Session, d *discordgo.Disconnect) {
	logger.Log().Warn("Disconnected from Discord gateway")
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Log().WithField("panic", r).Error("Recovered from panic in interaction handler")
		}
	}()

	req := RequestFromInteraction(i.Interaction, b.now())
	req.GuildName = b.gateway.GuildName(req.GuildID)

	resp, err := b.dispatcher.Dispatch(b.ctx, req)
	if errors.Is(err, ErrUnknownCommand) {
		logger.Log().WithField("command", req.Command).Debug("Ignoring unknown command")
		return
	}
	if err != nil {
		return
	}

	if err := s.InteractionRespond(i.Interaction, InteractionResponse(resp), discordgo.WithContext(b.ctx)); err != nil {
		logger.Log().WithError(err).WithField("command", req.Command).Error("Failed to send interaction response")
		return
	}
	if resp.After != nil {
		resp.After(b.ctx)
	}
}
