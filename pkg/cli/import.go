package cli

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/service/leadsource"
	"github.com/secmon-lab/reachout/pkg/utils/logging"
	"github.com/secmon-lab/reachout/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdImport() *cli.Command {
	var input string
	var createdBy string
	var cfg appConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "CSV file to import, a local path or gs://bucket/object",
			Required:    true,
			Destination: &input,
		},
		&cli.StringFlag{
			Name:        "created-by",
			Usage:       "User ID recorded as the creator of imported leads",
			Sources:     cli.EnvVars("REACHOUT_IMPORT_CREATED_BY"),
			Destination: &createdBy,
		},
	}
	flags = append(flags, cfg.Flags()...)

	return &cli.Command{
		Name:  "import",
		Usage: "Import leads from a CSV file",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			r, err := leadsource.Open(ctx, input)
			if err != nil {
				return goerr.Wrap(err, "failed to open lead source", goerr.V("input", input))
			}
			defer safe.Close(ctx, r)

			leads, err := leadsource.ParseCSV(r)
			if err != nil {
				return goerr.Wrap(err, "failed to parse lead CSV", goerr.V("input", input))
			}
			logger.Info("Parsed lead CSV", "input", input, "rows", len(leads))

			app, err := cfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer app.cleanup()

			result, err := app.uc.Lead.Import(ctx, model.UserID(createdBy), leads)
			if err != nil {
				return goerr.Wrap(err, "failed to import leads")
			}

			logger.Info("Import completed",
				"created", result.Created,
				"skipped", result.Skipped,
				"failed", result.Failed,
			)

			enc := json.NewEncoder(c.Root().Writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return goerr.Wrap(err, "failed to write import result")
			}
			return nil
		},
	}
}
