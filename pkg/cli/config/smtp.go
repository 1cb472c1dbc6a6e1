package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/service/mailer"
	"github.com/urfave/cli/v3"
)

// SMTP enables real delivery on the Personal Email channel
type SMTP struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

func (x *SMTP) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "smtp-host",
			Usage:       "SMTP server host. Personal emails are only recorded when unset",
			Category:    "SMTP",
			Sources:     cli.EnvVars("REACHOUT_SMTP_HOST"),
			Destination: &x.host,
		},
		&cli.IntFlag{
			Name:        "smtp-port",
			Usage:       "SMTP server port",
			Category:    "SMTP",
			Value:       587,
			Sources:     cli.EnvVars("REACHOUT_SMTP_PORT"),
			Destination: &x.port,
		},
		&cli.StringFlag{
			Name:        "smtp-user",
			Usage:       "SMTP user name",
			Category:    "SMTP",
			Sources:     cli.EnvVars("REACHOUT_SMTP_USER"),
			Destination: &x.user,
		},
		&cli.StringFlag{
			Name:        "smtp-password",
			Usage:       "SMTP password",
			Category:    "SMTP",
			Sources:     cli.EnvVars("REACHOUT_SMTP_PASSWORD"),
			Destination: &x.password,
		},
		&cli.StringFlag{
			Name:        "smtp-from",
			Usage:       "Sender address used when a message has none",
			Category:    "SMTP",
			Sources:     cli.EnvVars("REACHOUT_SMTP_FROM"),
			Destination: &x.from,
		},
	}
}

func (x SMTP) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("host", x.host),
		slog.Int("port", x.port),
		slog.String("user", x.user),
		slog.Int("password.len", len(x.password)),
		slog.String("from", x.from),
	)
}

// IsConfigured reports whether an SMTP host is set
func (x *SMTP) IsConfigured() bool {
	return x.host != ""
}

// Configure returns the mailer, or nil when SMTP is not configured
func (x *SMTP) Configure() (mailer.Service, error) {
	if !x.IsConfigured() {
		return nil, nil
	}

	svc, err := mailer.New(x.host, x.port, x.user, x.password, x.from)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create SMTP mailer", goerr.V("host", x.host))
	}
	return svc, nil
}
