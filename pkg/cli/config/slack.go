package config

import (
	"log/slog"

	"github.com/secmon-lab/briareus/pkg/service/notify"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for Slack notification configuration
type Slack struct {
	botToken  string
	channelID string
}

// Flags returns CLI flags for Slack configuration
func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token for notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("BRIAREUS_SLACK_BOT_TOKEN"),
			Destination: &x.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID to post escalation and rejection notices",
			Category:    "Slack",
			Sources:     cli.EnvVars("BRIAREUS_SLACK_CHANNEL_ID"),
			Destination: &x.channelID,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured reports whether both token and channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// Configure returns a notifier, or nil when Slack is not configured.
// A nil notifier is valid and silently drops notifications.
func (x *Slack) Configure() (*notify.Notifier, error) {
	if !x.IsConfigured() {
		if x.botToken != "" || x.channelID != "" {
			logging.Default().Warn("Slack notifications need both --slack-bot-token and --slack-channel-id, disabling")
		}
		return nil, nil
	}
	return notify.New(x.botToken, x.channelID)
}
