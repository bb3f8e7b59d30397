package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"personnel-audit-bot/internal/config"
	"personnel-audit-bot/internal/logger"
	"personnel-audit-bot/internal/metrics"
	"personnel-audit-bot/internal/models"
	"personnel-audit-bot/internal/store"
)

const (
	BlacklistFailedMessage   = "Failed to update the blacklist. Please try again later."
	BlacklistExpiredMessage  = "The expiry date is already in the past."
	BlacklistRemovedMessage  = "The person was removed from the blacklist."
	BlacklistNotFoundMessage = "No blacklist entry exists for that passport number."
)

// BlacklistHandler serves the blacklist and unblacklist commands.
type BlacklistHandler struct {
	Restrictions config.Restrictions
	Store        store.BlacklistStore
}

func NewBlacklistHandler(restrictions config.Restrictions, s store.BlacklistStore) *BlacklistHandler {
	return &BlacklistHandler{Restrictions: restrictions, Store: s}
}

func (h *BlacklistHandler) Handle(ctx context.Context, req Request) (Response, error) {
	if !req.HasRole(h.Restrictions.BlacklistRoleID) {
		return ephemeral(NoPermissionMessage, metrics.OutcomeForbidden), nil
	}

	switch req.Command {
	case CommandUnblacklist:
		return h.remove(ctx, req), nil
	default:
		return h.add(ctx, req), nil
	}
}

func (h *BlacklistHandler) add(ctx context.Context, req Request) Response {
	entry := models.BlacklistEntry{
		DiscordTag:     strings.TrimSpace(req.Option(OptionDiscordTag)),
		PassportNumber: strings.TrimSpace(req.Option(OptionPassport)),
		ListType:       req.Option(OptionListType),
		Reason:         req.Option(OptionReason),
		ExpiryDate:     strings.TrimSpace(req.Option(OptionExpiryDate)),
		AddedAt:        req.ReceivedAt.UTC(),
		AddedBy:        req.UserTag,
	}

	if err := h.Store.AddEntry(ctx, entry); err != nil {
		if errors.Is(err, store.ErrAlreadyExpired) {
			return ephemeral(BlacklistExpiredMessage, metrics.OutcomeFailed)
		}
		logger.WithFields(logrus.Fields{"command": req.Command, "passport": entry.PassportNumber}).
			WithError(err).Error("Failed to add blacklist entry")
		return ephemeral(BlacklistFailedMessage, metrics.OutcomeFailed)
	}

	return Response{
		Embed:     BlacklistAddedEmbed(entry),
		Ephemeral: true,
		Outcome:   metrics.OutcomeAccepted,
	}
}

func (h *BlacklistHandler) remove(ctx context.Context, req Request) Response {
	passport := strings.TrimSpace(req.Option(OptionPassport))

	removed, err := h.Store.RemoveByPassport(ctx, passport)
	if err != nil {
		logger.WithFields(logrus.Fields{"command": req.Command, "passport": passport}).
			WithError(err).Error("Failed to remove blacklist entry")
		return ephemeral(BlacklistFailedMessage, metrics.OutcomeFailed)
	}
	if !removed {
		return ephemeral(BlacklistNotFoundMessage, metrics.OutcomeAccepted)
	}
	return ephemeral(BlacklistRemovedMessage, metrics.OutcomeAccepted)
}
