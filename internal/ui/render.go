package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/reconcile/internal/models"
	"github.com/desertthunder/reconcile/internal/reconcile"
)

// RenderResult formats res as "<marker> <message>" with the failure cause on a second line.
func RenderResult(res reconcile.Result) string {
	return styles.RenderResult(res)
}

func (p *Palette) RenderResult(res reconcile.Result) string {
	var b strings.Builder
	switch res.Outcome() {
	case reconcile.Applied:
		b.WriteString(p.OK("✓ " + res.Message()))
	case reconcile.NoOp:
		b.WriteString(p.Muted("· " + res.Message()))
	case reconcile.Rejected:
		b.WriteString(p.Warn("! " + res.Message()))
	default:
		b.WriteString(p.Err("✗ " + res.Message()))
	}

	if err := res.Err(); err != nil {
		b.WriteString("\n")
		b.WriteString(p.Muted("  " + err.Error()))
	}
	return b.String()
}

// RenderRuns draws runs as a table, newest first as given.
func RenderRuns(runs []*models.SyncRun) string {
	return styles.RenderRuns(runs)
}

func (p *Palette) RenderRuns(runs []*models.SyncRun) string {
	if len(runs) == 0 {
		return p.Muted("No sync runs recorded.")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.help).
		Headers("#", "ENTITY", "OP", "BACKEND", "OUTCOME", "AFFECTED", "STARTED", "MESSAGE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.title.MarginBottom(0).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, run := range runs {
		op := run.Operation()
		if run.DryRun() {
			op += " (dry run)"
		}
		t.Row(
			strconv.Itoa(run.Sequence()),
			run.Entity(),
			op,
			run.Backend(),
			run.Outcome(),
			strconv.FormatInt(run.Affected(), 10),
			run.StartedAt().Local().Format(time.DateTime),
			run.Message(),
		)
	}

	return fmt.Sprintf("%s\n%s", p.Title(fmt.Sprintf("%d sync runs", len(runs))), t.Render())
}
