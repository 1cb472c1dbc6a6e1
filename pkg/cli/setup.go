package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/cli/config"
	"github.com/secmon-lab/reachout/pkg/usecase"
	"github.com/secmon-lab/reachout/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// appConfig is the flag set shared by commands that run the use cases
type appConfig struct {
	app       config.App
	repo      config.Repository
	providers config.Providers
	smtp      config.SMTP
	notify    config.Notify
}

func (x *appConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.app.Flags()...)
	flags = append(flags, x.repo.Flags()...)
	flags = append(flags, x.providers.Flags()...)
	flags = append(flags, x.smtp.Flags()...)
	flags = append(flags, x.notify.Flags()...)
	return flags
}

func (x appConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("config", x.app),
		slog.Any("repository", x.repo),
		slog.Any("providers", x.providers),
		slog.Any("smtp", x.smtp),
		slog.Any("notify", x.notify),
	)
}

// appConfigResult is what the commands work with. cleanup closes the repository.
type appConfigResult struct {
	uc      *usecase.UseCases
	cleanup func()
}

// Configure builds the repository, adapters, mailer, notifier and use cases
func (x *appConfig) Configure(ctx context.Context) (*appConfigResult, error) {
	logger := logging.Default()
	logger.Info("Configuration", "app", x)

	settings, err := x.app.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load application config")
	}

	registry, err := x.providers.Registry()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure providers")
	}

	mailer, err := x.smtp.Configure()
	if err != nil {
		return nil, err
	}
	if mailer == nil {
		logger.Info("SMTP not configured, personal emails are recorded without delivery")
	}

	notifier, err := x.notify.Configure()
	if err != nil {
		return nil, err
	}

	repo, err := x.repo.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize repository")
	}

	opts := []usecase.Option{
		usecase.WithRegistry(registry),
		usecase.WithOutreachConfig(settings.ToOutreachConfig()),
	}
	if mailer != nil {
		opts = append(opts, usecase.WithMailer(mailer))
	}
	if notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
		logger.Info("Reply notifications enabled")
	}

	return &appConfigResult{
		uc: usecase.New(repo, opts...),
		cleanup: func() {
			if err := repo.Close(); err != nil {
				logger.Error("failed to close repository", "error", err.Error())
			}
		},
	}, nil
}
