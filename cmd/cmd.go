// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/reconcile/internal/shared"
	"github.com/urfave/cli/v3"
)

// setupCommand handles database initialization and migrations
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and manage database migrations",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create config.toml if missing and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recently applied migration",
				Action: r.SetupRollback,
			},
			{
				Name:  "status",
				Usage: "List applied migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SetupStatus,
			},
		},
	}
}

func syncFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "op",
			Aliases:  []string{"o"},
			Usage:    "Operation to apply: add, update or delete",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "JSON or CSV file of records",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Store backend: " + shared.BackendSQL + " or " + shared.BackendGorm + " (defaults to sync.backend)",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Reconcile against an in-memory copy and leave the database untouched",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
	}
}

// syncCommand reconciles catalog files against the database
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Reconcile records from a file against the database",
		Commands: []*cli.Command{
			{
				Name:   "tracks",
				Usage:  "Reconcile tracks keyed by service-qualified ID",
				Flags:  syncFlags(),
				Action: r.SyncTracks,
			},
			{
				Name:   "playlists",
				Usage:  "Reconcile playlists keyed by numeric ID",
				Flags:  syncFlags(),
				Action: r.SyncPlaylists,
			},
		},
	}
}

// runsCommand reads the sync run journal
func runsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Inspect the sync run journal",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent sync runs, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "entity",
						Usage: "Only runs for tracks or playlists",
					},
					&cli.StringFlag{
						Name:  "op",
						Usage: "Only runs of this operation",
					},
					&cli.StringFlag{
						Name:  "outcome",
						Usage: "Only runs with this outcome (applied, noop, failed)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to return",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "csv",
						Usage: "Write the runs to this CSV file instead of printing them",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RunsList,
			},
		},
	}
}
