package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Service tells the team about replies found by sync
type Service interface {
	NotifyReply(ctx context.Context, outreach *model.Outreach, lead *model.Lead) error
}

type client struct {
	api       *slack.Client
	channelID string
}

type config struct {
	apiURL string
}

// Option configures the notifier
type Option func(*config)

// WithAPIURL points the Slack client at another API root. The URL must end with a slash.
func WithAPIURL(u string) Option {
	return func(c *config) {
		c.apiURL = u
	}
}

// New creates a Slack notifier posting to channelID
func New(token, channelID string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel is required")
	}

	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	var slackOpts []slack.Option
	if cfg.apiURL != "" {
		slackOpts = append(slackOpts, slack.OptionAPIURL(cfg.apiURL))
	}

	return &client{
		api:       slack.New(token, slackOpts...),
		channelID: channelID,
	}, nil
}

// quoteLimit keeps reply excerpts well under Slack's section text limit
const quoteLimit = 500

func (c *client) NotifyReply(ctx context.Context, outreach *model.Outreach, lead *model.Lead) error {
	blocks := buildReplyBlocks(outreach, lead)
	fallback := fmt.Sprintf("%s replied via %s", leadLabel(lead), outreach.Channel)

	_, _, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallback, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post reply notification",
			goerr.V(model.OutreachIDKey, outreach.ID),
			goerr.V("channel_id", c.channelID))
	}
	return nil
}

func leadLabel(lead *model.Lead) string {
	name := lead.FullName()
	if name == "" {
		name = lead.Email
	}
	if lead.Company != "" {
		name += " (" + lead.Company + ")"
	}
	return name
}

func buildReplyBlocks(outreach *model.Outreach, lead *model.Lead) []slack.Block {
	header := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf(":incoming_envelope: *%s* replied", leadLabel(lead)), false, false),
		nil, nil,
	)

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, "*Channel*\n"+outreach.Channel.String(), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*Email*\n"+lead.Email, false, false),
	}
	if outreach.Response.Sentiment != "" {
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType, "*Sentiment*\n"+outreach.Response.Sentiment.String(), false, false))
	}
	if outreach.Call != nil && outreach.Call.Outcome != "" {
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType, "*Outcome*\n"+outreach.Call.Outcome.String(), false, false))
	}

	blocks := []slack.Block{header, slack.NewSectionBlock(nil, fields, nil)}

	if text := strings.TrimSpace(outreach.Response.Text); text != "" {
		runes := []rune(text)
		if len(runes) > quoteLimit {
			text = string(runes[:quoteLimit]) + "…"
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, "> "+strings.ReplaceAll(text, "\n", "\n> "), false, false),
			nil, nil,
		))
	}

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, "outreach `"+string(outreach.ID)+"`", false, false),
	))
	return blocks
}
