package bot

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/websocket"
)

var (
	ErrInvalidToken      = errors.New("invalid bot token")
	ErrDisallowedIntents = errors.New("disallowed gateway intents")
)

// Gateway close codes, see the Discord gateway documentation.
const (
	closeAuthenticationFailed = 4004
	closeDisallowedIntents    = 4014
)

// ClassifyLoginError wraps login failures caused by bad credentials or missing
// privileged intents in ErrInvalidToken / ErrDisallowedIntents. Other errors are
// returned unchanged.
func ClassifyLoginError(err error) error {
	if err == nil {
		return nil
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case closeAuthenticationFailed:
			return fmt.Errorf("%w: %v", ErrInvalidToken, err)
		case closeDisallowedIntents:
			return fmt.Errorf("%w: %v", ErrDisallowedIntents, err)
		}
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return err
}

// LoginRemediation returns operator guidance for a classified login error.
func LoginRemediation(err error) string {
	switch {
	case errors.Is(err, ErrInvalidToken):
		return strings.Join([]string{
			"The Discord bot token was rejected. Possible causes:",
			"  1. The token was entered incorrectly",
			"  2. The token is outdated or was reset",
			"  3. The bot was deleted from the Discord Developer Portal",
			"Fix: check DISCORD_TOKEN in the .env file, generate a new token in the Developer Portal if needed, and restart the bot.",
		}, "\n")
	case errors.Is(err, ErrDisallowedIntents):
		return "Enable the Server Members and Message Content privileged intents for the bot in the Discord Developer Portal, then restart the bot."
	default:
		return ""
	}
}
