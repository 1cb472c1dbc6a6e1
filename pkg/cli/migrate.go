package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/cli/config"
	"github.com/secmon-lab/reachout/pkg/repository/firestore"
	"github.com/secmon-lab/reachout/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var dryRun bool

	flags := repoCfg.Flags()
	flags = append(flags, &cli.BoolFlag{
		Name:        "dry-run",
		Usage:       "Preview changes without applying",
		Destination: &dryRun,
	})

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes",
		Description: "Creates the composite indexes used by the Firestore repository.\n" +
			"The leads tag filter also needs " + tagsIndexNote + ".\n" +
			"It is not declared through fireconf, so create it by hand (prefix the collection group when a prefix is set), e.g.\n" +
			"  gcloud firestore indexes composite create --collection-group=leads \\\n" +
			"    --field-config=field-path=tags,array-config=contains \\\n" +
			"    --field-config=field-path=created_at,order=descending",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			if repoCfg.ProjectID() == "" {
				return goerr.Wrap(config.ErrInvalidConfig, "firestore-project-id is required for migrate")
			}

			logger.Info("Migrate configuration",
				"repository", repoCfg,
				"dryRun", dryRun)

			indexConfig := getIndexConfig(repoCfg.CollectionPrefix())

			client, err := fireconf.NewClient(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID())
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error("failed to close fireconf client", "error", err.Error())
				}
			}()

			if dryRun {
				logger.Info("Dry run mode - previewing changes")
				plan, err := client.GetMigrationPlan(ctx, indexConfig)
				if err != nil {
					return goerr.Wrap(err, "failed to create migration plan")
				}

				if len(plan.Steps) == 0 {
					logger.Info("No changes required")
				}

				for _, step := range plan.Steps {
					logger.Info("Migration step",
						"collection", step.Collection,
						"operation", step.Operation,
						"description", step.Description,
						"destructive", step.Destructive)
				}
				logManualIndexes(repoCfg.CollectionPrefix())
				return nil
			}

			logger.Info("Applying migrations")
			if err := client.Migrate(ctx, indexConfig); err != nil {
				return goerr.Wrap(err, "failed to apply migrations")
			}
			logger.Info("Migrations applied successfully")
			logManualIndexes(repoCfg.CollectionPrefix())
			return nil
		},
	}
}

const tagsIndexNote = "a composite index on tags (array-contains) and created_at (descending)"

func logManualIndexes(prefix string) {
	logging.Default().Warn("Index must be created manually",
		"collection", firestore.CollectionName(prefix, "leads"),
		"index", tagsIndexNote)
}

// byCreatedAt is a composite index of equality filters on fields followed by created_at
func byCreatedAt(newestFirst bool, fields ...string) fireconf.Index {
	idx := fireconf.Index{}
	for _, f := range fields {
		idx.Fields = append(idx.Fields, fireconf.IndexField{Path: f, Order: fireconf.OrderAscending})
	}
	created := fireconf.IndexField{Path: "created_at", Order: fireconf.OrderAscending}
	if newestFirst {
		created.Order = fireconf.OrderDescending
	}
	idx.Fields = append(idx.Fields, created)
	return idx
}

const (
	newestFirst = true
	oldestFirst = false
)

// getIndexConfig returns the composite indexes needed by the Firestore repository queries
func getIndexConfig(prefix string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: firestore.CollectionName(prefix, "leads"),
				Indexes: []fireconf.Index{
					// FindByEmailAndCompany
					{
						Fields: []fireconf.IndexField{
							{Path: "email", Order: fireconf.OrderAscending},
							{Path: "company", Order: fireconf.OrderAscending},
						},
					},
					byCreatedAt(newestFirst, "status"),
					byCreatedAt(newestFirst, "source"),
					byCreatedAt(newestFirst, "assigned_to"),
				},
			},
			{
				Name: firestore.CollectionName(prefix, "campaigns"),
				Indexes: []fireconf.Index{
					byCreatedAt(oldestFirst, "name"),
					byCreatedAt(newestFirst, "status"),
					byCreatedAt(newestFirst, "type"),
					byCreatedAt(newestFirst, "status", "type"),
				},
			},
			{
				Name: firestore.CollectionName(prefix, "sequences"),
				Indexes: []fireconf.Index{
					byCreatedAt(oldestFirst, "campaign_id"),
				},
			},
			{
				Name: firestore.CollectionName(prefix, "outreaches"),
				Indexes: []fireconf.Index{
					byCreatedAt(newestFirst, "lead_id"),
					byCreatedAt(newestFirst, "campaign_id"),
					byCreatedAt(newestFirst, "campaign_id", "channel"),
					// ListSyncable
					byCreatedAt(oldestFirst, "syncable"),
					byCreatedAt(oldestFirst, "syncable", "channel"),
				},
			},
		},
	}
}
