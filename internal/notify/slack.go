// Package notify delivers critical alert notifications to Slack. Delivery is
// best-effort: a failed post is logged, never propagated, so notification
// outages cannot stall ingestion.
package notify

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"github.com/brandsignal/brandsignal/internal/database"
)

// SlackNotifier posts critical alerts to a fixed Slack channel.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

// NewSlackNotifier creates a new SlackNotifier
func NewSlackNotifier(botToken, channel string) *SlackNotifier {
	return &SlackNotifier{
		client:  slack.New(botToken),
		channel: channel,
	}
}

// NotifyAlert posts the alert to the configured channel.
func (n *SlackNotifier) NotifyAlert(alert *database.Alert) {
	message := fmt.Sprintf(":rotating_light: *%s*\n*Severity:* %s\n%s",
		alert.Title,
		alert.Severity,
		alert.Description,
	)

	_, _, err := n.client.PostMessage(
		n.channel,
		slack.MsgOptionText(message, false),
	)
	if err != nil {
		log.Printf("Failed to post alert %q to Slack: %v", alert.Title, err)
		return
	}

	log.Printf("Posted alert %q to Slack channel %s", alert.Title, n.channel)
}
