package notify

import (
	"fmt"
	"regexp"

	"github.com/containrrr/shoutrrr"
)

var discordWebhookRegex = regexp.MustCompile(`^https://discord(?:app)?\.com/api/webhooks/(\d+)/([a-zA-Z0-9_-]+)`)

// NormalizeURL converts a raw Discord webhook URL into shoutrrr form. Other URLs
// are returned unchanged.
func NormalizeURL(rawURL string) string {
	matches := discordWebhookRegex.FindStringSubmatch(rawURL)
	if len(matches) == 3 {
		return fmt.Sprintf("discord://%s@%s", matches[2], matches[1])
	}
	return rawURL
}

// Notifier forwards operator warnings to an external service.
type Notifier struct {
	url  string
	send func(url, message string) error
}

func NewNotifier(rawURL string) *Notifier {
	return &Notifier{url: NormalizeURL(rawURL), send: shoutrrr.Send}
}

// Enabled reports whether a destination URL is configured.
func (n *Notifier) Enabled() bool {
	return n != nil && n.url != ""
}

func (n *Notifier) Notify(message string) error {
	if !n.Enabled() {
		return nil
	}
	if err := n.send(n.url, message); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}
