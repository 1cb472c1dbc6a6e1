package mailer

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/service/provider"
	"github.com/secmon-lab/reachout/pkg/utils/logging"
	"github.com/secmon-lab/reachout/pkg/utils/safe"
	"gopkg.in/gomail.v2"
)

// Name identifies SMTP delivery in provider errors
const Name = "smtp"

// Message is one personal email
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
	HTML    bool
}

// Service delivers personal email
type Service interface {
	Send(ctx context.Context, msg *Message) error
}

type client struct {
	dialer *gomail.Dialer
	from   string
	sender gomail.Sender
}

// Option configures the mailer
type Option func(*client)

// WithSender replaces the SMTP connection, e.g. with gomail.SendFunc in tests
func WithSender(s gomail.Sender) Option {
	return func(c *client) {
		c.sender = s
	}
}

// New creates an SMTP mailer. from is used when a message has no sender of its own.
func New(host string, port int, user, password, from string, opts ...Option) (Service, error) {
	if host == "" {
		return nil, goerr.New("SMTP host is required")
	}
	if port <= 0 {
		return nil, goerr.New("SMTP port must be positive", goerr.V("port", port))
	}

	c := &client{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *client) Send(ctx context.Context, msg *Message) error {
	from := msg.From
	if from == "" {
		from = c.from
	}
	if from == "" || msg.To == "" {
		return provider.NewError(Name, "sender and recipient are required", nil)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", strings.TrimSpace(msg.Subject))
	if msg.HTML {
		m.SetBody("text/html", msg.Body)
	} else {
		m.SetBody("text/plain", msg.Body)
	}

	sender := c.sender
	if sender == nil {
		conn, err := c.dialer.Dial()
		if err != nil {
			return provider.NewError(Name, "failed to connect to SMTP server", err)
		}
		defer safe.Close(ctx, conn)
		sender = conn
	}

	if err := gomail.Send(sender, m); err != nil {
		return provider.NewError(Name, "failed to send email", err)
	}

	logging.From(ctx).Info("personal email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
