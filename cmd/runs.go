package main

import (
	"context"

	"github.com/desertthunder/reconcile/internal/formatter"
	"github.com/desertthunder/reconcile/internal/models"
	"github.com/desertthunder/reconcile/internal/repositories"
	"github.com/desertthunder/reconcile/internal/ui"
	"github.com/urfave/cli/v3"
)

// RunReport is the JSON shape of a journaled sync run.
type RunReport struct {
	ID        string `json:"id"`
	Sequence  int    `json:"sequence"`
	Entity    string `json:"entity"`
	Operation string `json:"operation"`
	Backend   string `json:"backend"`
	DryRun    bool   `json:"dry_run"`
	Outcome   string `json:"outcome"`
	Affected  int64  `json:"affected"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	StartedAt string `json:"started_at"`
}

func newRunReport(run *models.SyncRun) RunReport {
	return RunReport{
		ID:        run.ID(),
		Sequence:  run.Sequence(),
		Entity:    run.Entity(),
		Operation: run.Operation(),
		Backend:   run.Backend(),
		DryRun:    run.DryRun(),
		Outcome:   run.Outcome(),
		Affected:  run.Affected(),
		Message:   run.Message(),
		Error:     run.ErrorMessage(),
		StartedAt: run.StartedAt().UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// RunsList prints, or exports to CSV, the journaled sync runs matching the filter flags.
func (r *Runner) RunsList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.requireSQLite(true)
	if err != nil {
		return err
	}
	defer r.closeQuietly(db)

	runs, err := repositories.NewRunRepository(db).List(ctx, map[string]any{
		"entity":    cmd.String("entity"),
		"operation": cmd.String("op"),
		"outcome":   cmd.String("outcome"),
		"limit":     cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	if path := cmd.String("csv"); path != "" {
		if err := formatter.WriteRunsCSV(runs, path); err != nil {
			return err
		}
		r.logger.Info("exported sync runs", "count", len(runs), "path", path)
		return r.writePlainln("✓ Exported %d runs to %s", len(runs), path)
	}

	if cmd.Bool("json") {
		reports := make([]RunReport, 0, len(runs))
		for _, run := range runs {
			reports = append(reports, newRunReport(run))
		}
		return r.writeJSON(reports, true)
	}

	return r.writePlainln("%s", ui.RenderRuns(runs))
}
