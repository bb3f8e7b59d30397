package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"personnel-audit-bot/internal/config"
	"personnel-audit-bot/internal/logger"
	"personnel-audit-bot/internal/metrics"
	"personnel-audit-bot/internal/models"
	"personnel-audit-bot/internal/store"
)

var ErrMissingOptions = errors.New("missing required options")

// AuditHandler gates audit invocations on channel and role, then builds and replies
// with an AuditRecord.
type AuditHandler struct {
	Restrictions config.Restrictions
	Members      MemberResolver

	// Optional collaborators; nil disables the corresponding follow-up.
	Blacklist store.BlacklistStore
	Journal   store.Journal
	Poster    ChannelPoster
	Notifier  Notifier

	command *discordgo.ApplicationCommand
	newID   func() string
}

func NewAuditHandler(restrictions config.Restrictions, members MemberResolver) *AuditHandler {
	return &AuditHandler{
		Restrictions: restrictions,
		Members:      members,
		command:      AuditCommand(),
		newID:        uuid.NewString,
	}
}

func (h *AuditHandler) Handle(ctx context.Context, req Request) (Response, error) {
	if req.ChannelID != h.Restrictions.AuditChannelID {
		return ephemeral(WrongChannelMessage, metrics.OutcomeWrongChannel), nil
	}
	if !req.HasRole(h.Restrictions.AuthorizedRoleID) {
		return ephemeral(NoPermissionMessage, metrics.OutcomeForbidden), nil
	}

	if missing := MissingOptions(req, h.command); len(missing) > 0 {
		return Response{}, fmt.Errorf("%w: %s", ErrMissingOptions, strings.Join(missing, ", "))
	}

	input := ReadAuditInput(req)

	profile, err := h.Members.ResolveMember(ctx, req.GuildID, input.TargetUserID)
	if err != nil {
		return Response{}, fmt.Errorf("resolve member %s: %w", input.TargetUserID, err)
	}

	rec := BuildRecord(req, input, DeriveIdentity(profile))
	if h.newID != nil {
		rec.ID = h.newID()
	}

	return Response{
		Embed:   RecordEmbed(rec),
		Outcome: metrics.OutcomeAccepted,
		After: func(ctx context.Context) {
			h.afterRecord(ctx, req, rec, profile)
		},
	}, nil
}

// ReadAuditInput copies the audit options verbatim.
func ReadAuditInput(req Request) models.AuditCommandInput {
	return models.AuditCommandInput{
		OfficerInfo:    req.Option(OptionOfficer),
		TargetUserID:   req.Option(OptionEmployee),
		PassportNumber: req.Option(OptionPassport),
		ReasonText:     req.Option(OptionReason),
		ActionDate:     req.Option(OptionDate),
	}
}

// BuildRecord assembles the record, stamped with the invocation time.
func BuildRecord(req Request, input models.AuditCommandInput, identity models.DerivedIdentity) models.AuditRecord {
	return models.AuditRecord{
		GuildID:        req.GuildID,
		ChannelID:      req.ChannelID,
		InvokerID:      req.UserID,
		TargetUserID:   input.TargetUserID,
		AuditorInfo:    input.OfficerInfo,
		EmployeeName:   identity.EmployeeName,
		PassportNumber: input.PassportNumber,
		Position:       identity.Position,
		ReasonText:     input.ReasonText,
		ActionDate:     input.ActionDate,
		CreatedAt:      req.ReceivedAt,
	}
}

// afterRecord journals the record and checks the blacklist. Failures are logged only.
func (h *AuditHandler) afterRecord(ctx context.Context, req Request, rec models.AuditRecord, profile models.TargetProfile) {
	log := logger.WithFields(logrus.Fields{
		"command":   CommandAudit,
		"record_id": rec.ID,
		"guild_id":  req.GuildID,
	})

	if h.Journal != nil {
		if err := h.Journal.InsertAudit(ctx, rec); err != nil {
			log.WithError(err).Error("Failed to journal audit record")
		}
	}

	if h.Blacklist == nil {
		return
	}
	entry, found, err := h.Blacklist.FindEntry(ctx, profile.Tag, rec.PassportNumber)
	if err != nil {
		log.WithError(err).Error("Blacklist lookup failed")
		return
	}
	if !found {
		return
	}

	metrics.IncBlacklistMatch()
	log.WithField("passport", rec.PassportNumber).Warn("Audit matched a blacklist entry")

	if h.Poster != nil && h.Restrictions.NotificationChannelID != "" {
		if err := h.Poster.PostEmbed(ctx, h.Restrictions.NotificationChannelID, BlacklistWarningEmbed(req, rec, entry)); err != nil {
			log.WithError(err).Error("Failed to post blacklist warning")
		}
	}
	if h.Notifier != nil {
		if err := h.Notifier.Notify(BlacklistWarningText(req, rec, entry)); err != nil {
			log.WithError(err).Error("Failed to send blacklist notification")
		}
	}
}
