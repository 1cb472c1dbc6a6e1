package cli

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/types"
	"github.com/secmon-lab/reachout/pkg/usecase"
	"github.com/secmon-lab/reachout/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdSync() *cli.Command {
	var channel string
	var limit int
	var concurrency int
	var cfg appConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "channel",
			Usage:       "Only sync outreach on this channel (instantly, salesfinity, linkedin)",
			Sources:     cli.EnvVars("REACHOUT_SYNC_CHANNEL"),
			Destination: &channel,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of outreach records to sync (0 for all)",
			Sources:     cli.EnvVars("REACHOUT_SYNC_LIMIT"),
			Destination: &limit,
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Number of records synced in parallel (0 uses outreach.sync_concurrency)",
			Sources:     cli.EnvVars("REACHOUT_SYNC_CONCURRENCY"),
			Destination: &concurrency,
		},
	}
	flags = append(flags, cfg.Flags()...)

	return &cli.Command{
		Name:  "sync",
		Usage: "Refresh syncable outreach records from their providers",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			opts := usecase.SyncOptions{
				Limit:       limit,
				Concurrency: concurrency,
			}
			if channel != "" {
				ch, err := types.ParseChannel(channel)
				if err != nil {
					return goerr.Wrap(err, "invalid --channel")
				}
				opts.Channel = &ch
			}
			if limit < 0 || concurrency < 0 {
				return goerr.New("--limit and --concurrency must not be negative",
					goerr.V("limit", limit), goerr.V("concurrency", concurrency))
			}

			app, err := cfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer app.cleanup()

			result, err := app.uc.Outreach.SyncAll(ctx, opts)
			if err != nil {
				return goerr.Wrap(err, "failed to sync outreach")
			}

			logging.Default().Info("Sync completed",
				"total", result.Total,
				"synced", result.Synced,
				"unchanged", result.Unchanged,
				"failed", result.Failed,
			)

			enc := json.NewEncoder(c.Root().Writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return goerr.Wrap(err, "failed to write sync result")
			}
			return nil
		},
	}
}
