package google

import (
	"testing"
	"time"

	"envelopes/internal/core"
)

func TestEnvelopeSnapshotRow(t *testing.T) {
	result := core.NewEnvelope(core.EnvelopeParams{
		Name:                "Groceries",
		LimitCents:          80000,
		CurrentBalanceCents: 35000,
		CategoryID:          "cat-1",
		BudgetID:            "budget-1",
	})
	if result.HasError() {
		t.Fatalf("NewEnvelope() errors = %v", result.Errors())
	}
	e := result.Data()

	at := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	row := envelopeSnapshotRow(e, at)

	if len(row) != 10 {
		t.Fatalf("len(row) = %d, want 10", len(row))
	}
	if row[0] != e.ID().String() {
		t.Errorf("row[0] = %v, want entity id", row[0])
	}
	if row[1] != "Groceries" {
		t.Errorf("row[1] = %v, want Groceries", row[1])
	}
	if row[2] != 800.0 {
		t.Errorf("limit = %v, want 800.0", row[2])
	}
	if row[3] != 350.0 {
		t.Errorf("balance = %v, want 350.0", row[3])
	}
	if row[4] != 450.0 {
		t.Errorf("remaining = %v, want 450.0", row[4])
	}
	if row[5] != 43.75 {
		t.Errorf("usage = %v, want 43.75", row[5])
	}
	if row[6] != core.EnvelopeStatusInUse {
		t.Errorf("status = %v, want %v", row[6], core.EnvelopeStatusInUse)
	}
	if row[9] != "2025-03-15T10:00:00Z" {
		t.Errorf("timestamp = %v", row[9])
	}
}

func TestGoalSnapshotRow(t *testing.T) {
	targetDate := time.Date(time.Now().Year()+1, 6, 1, 0, 0, 0, 0, time.UTC)
	result := core.NewGoal(core.GoalParams{
		Name:               "Vacation",
		TargetAmountCents:  500000,
		CurrentAmountCents: 125000,
		BudgetID:           "budget-1",
		TargetDate:         &targetDate,
	})
	if result.HasError() {
		t.Fatalf("NewGoal() errors = %v", result.Errors())
	}
	g := result.Data()

	at := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	row := goalSnapshotRow(g, at)

	if len(row) != 10 {
		t.Fatalf("len(row) = %d, want 10", len(row))
	}
	if row[2] != 5000.0 {
		t.Errorf("target = %v, want 5000.0", row[2])
	}
	if row[3] != 1250.0 {
		t.Errorf("current = %v, want 1250.0", row[3])
	}
	if row[5] != 25.0 {
		t.Errorf("progress = %v, want 25.0", row[5])
	}
	if row[6] != core.GoalStatusLabelActive {
		t.Errorf("status = %v, want %v", row[6], core.GoalStatusLabelActive)
	}
	if row[8] != targetDate.Format("2006-01-02") {
		t.Errorf("target date = %v, want %v", row[8], targetDate.Format("2006-01-02"))
	}
}

func TestGoalSnapshotRowWithoutTargetDate(t *testing.T) {
	result := core.NewGoal(core.GoalParams{
		Name:              "Buffer",
		TargetAmountCents: 100000,
		BudgetID:          "budget-1",
	})
	if result.HasError() {
		t.Fatalf("NewGoal() errors = %v", result.Errors())
	}

	row := goalSnapshotRow(result.Data(), time.Now())
	if row[8] != "" {
		t.Errorf("target date = %v, want empty", row[8])
	}
}
