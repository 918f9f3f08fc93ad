package google

import (
	"time"

	"envelopes/internal/core"
)

// envelopeSnapshotRow flattens an envelope into one spreadsheet row:
// id, name, limit, balance, remaining, usage %, status, category, budget,
// snapshot timestamp. Monetary columns are written in currency units so the
// sheet can sum them directly.
func envelopeSnapshotRow(e *core.Envelope, at time.Time) []any {
	return []any{
		e.ID().String(),
		e.Name(),
		centsToUnits(e.Limit().Cents()),
		centsToUnits(e.CurrentBalance().Cents()),
		centsToUnits(e.RemainingAmount().Cents()),
		e.UsagePercentage(),
		e.StatusLabel(),
		e.CategoryID(),
		e.BudgetID(),
		at.Format(time.RFC3339),
	}
}

// goalSnapshotRow flattens a goal into one spreadsheet row: id, name,
// target, current, remaining, progress %, status, budget, target date,
// snapshot timestamp.
func goalSnapshotRow(g *core.Goal, at time.Time) []any {
	targetDate := ""
	if td := g.TargetDate(); td != nil {
		targetDate = td.Format("2006-01-02")
	}
	return []any{
		g.ID().String(),
		g.Name(),
		centsToUnits(g.TargetAmount().Cents()),
		centsToUnits(g.CurrentAmount().Cents()),
		centsToUnits(g.RemainingAmount().Cents()),
		g.ProgressPercentage(),
		g.StatusLabel(),
		g.BudgetID(),
		targetDate,
		at.Format(time.RFC3339),
	}
}

func centsToUnits(cents int64) float64 {
	return float64(cents) / 100.0
}
