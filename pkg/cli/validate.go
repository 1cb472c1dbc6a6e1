package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/cli/config"
	"github.com/secmon-lab/reachout/pkg/usecase"
	"github.com/secmon-lab/reachout/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// ErrProviderInvalid is returned by validate when a configured provider rejects its credentials
var ErrProviderInvalid = goerr.New("provider connection is invalid")

func cmdValidate() *cli.Command {
	var appCfg config.App
	var providers config.Providers
	var smtpCfg config.SMTP
	var notifyCfg config.Notify

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, providers.Flags()...)
	flags = append(flags, smtpCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the config file and check connectivity of the default providers",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Step 1: Load and validate configuration
			settings, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}
			logger.Info("Configuration validation passed",
				"config", appCfg,
				"signatures", len(settings.Email.Signatures),
			)

			if _, err := smtpCfg.Configure(); err != nil {
				return goerr.Wrap(err, "smtp configuration is invalid")
			}
			if _, err := notifyCfg.Configure(); err != nil {
				return goerr.Wrap(err, "notification configuration is invalid")
			}

			// Step 2: Check every configured provider
			registry, err := providers.Registry()
			if err != nil {
				return goerr.Wrap(err, "provider configuration is invalid")
			}

			results := usecase.CheckAdapters(ctx, registry, nil)
			if failed := printHealth(c.Root().Writer, results); failed > 0 {
				return goerr.Wrap(ErrProviderInvalid, "provider validation failed", goerr.V("failed", failed))
			}
			return nil
		},
	}
}

// printHealth writes one line per channel and returns how many configured providers failed
func printHealth(w io.Writer, results []*usecase.IntegrationHealth) int {
	ok := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	skip := color.New(color.FgYellow)

	failed := 0
	for _, h := range results {
		name := fmt.Sprintf("%-12s", h.Channel.String())
		switch {
		case h.Source == usecase.SourceNone:
			_, _ = skip.Fprintf(w, "SKIP  %s not configured\n", name)
		case h.Result != nil && h.Result.Valid:
			_, _ = ok.Fprintf(w, "OK    %s", name)
			if h.Result.Account != "" {
				_, _ = fmt.Fprintf(w, " account=%s", h.Result.Account)
			}
			_, _ = fmt.Fprintln(w)
		default:
			failed++
			msg := "no result"
			if h.Result != nil {
				msg = h.Result.Error
			}
			_, _ = fail.Fprintf(w, "FAIL  %s %s\n", name, msg)
		}
	}
	return failed
}
