package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/service/notifier"
	"github.com/urfave/cli/v3"
)

// Notify posts replies found during sync to a Slack channel
type Notify struct {
	botToken string
	channel  string
}

func (x *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token for reply notifications",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("REACHOUT_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID that receives reply notifications",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("REACHOUT_SLACK_CHANNEL"),
		},
	}
}

func (x Notify) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channel),
	)
}

// Configure returns the notifier, or nil when neither flag is set. Setting only one of them
// is an error.
func (x *Notify) Configure() (notifier.Service, error) {
	if x.botToken == "" && x.channel == "" {
		return nil, nil
	}
	if x.botToken == "" || x.channel == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "--slack-bot-token and --slack-channel must be set together")
	}

	svc, err := notifier.New(x.botToken, x.channel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Slack notifier")
	}
	return svc, nil
}
