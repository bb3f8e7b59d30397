package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"personnel-audit-bot/internal/logger"
	"personnel-audit-bot/internal/metrics"
)

var ErrUnknownCommand = errors.New("unknown command")

// Dispatcher routes requests to command handlers by name. Handlers are registered
// before the gateway opens and the map is read-only afterwards.
type Dispatcher struct {
	handlers map[string]CommandHandler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]CommandHandler)}
}

func (d *Dispatcher) Register(command string, h CommandHandler) {
	d.handlers[command] = h
}

// Dispatch runs the handler for req.Command. A panicking handler is reported as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (resp Response, err error) {
	h, ok := d.handlers[req.Command]
	if !ok {
		return Response{}, fmt.Errorf("%w: %s", ErrUnknownCommand, req.Command)
	}

	defer func() {
		if r := recover(); r != nil {
			resp, err = Response{}, fmt.Errorf("panic handling %s: %v", req.Command, r)
		}

		outcome := resp.Outcome
		if err != nil {
			outcome = metrics.OutcomeFailed
		}
		metrics.IncCommand(req.Command, outcome)

		log := logger.WithFields(logrus.Fields{
			"command":    req.Command,
			"guild_id":   req.GuildID,
			"channel_id": req.ChannelID,
			"user_id":    req.UserID,
			"outcome":    outcome,
		})
		if err != nil {
			log.WithError(err).Error("Command failed")
		} else {
			log.Info("Command handled")
		}
	}()

	return h.Handle(ctx, req)
}
