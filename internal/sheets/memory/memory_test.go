package memory

import (
	"context"
	"testing"

	"envelopes/internal/core"
)

func TestStoreAppendsSnapshots(t *testing.T) {
	store := New()
	ctx := context.Background()

	envelope := core.NewEnvelope(core.EnvelopeParams{
		Name:       "Transport",
		LimitCents: 20000,
		CategoryID: "cat-1",
		BudgetID:   "budget-1",
	})
	if envelope.HasError() {
		t.Fatalf("NewEnvelope() errors = %v", envelope.Errors())
	}
	goal := core.NewGoal(core.GoalParams{
		Name:              "New laptop",
		TargetAmountCents: 700000,
		BudgetID:          "budget-1",
	})
	if goal.HasError() {
		t.Fatalf("NewGoal() errors = %v", goal.Errors())
	}

	ref, err := store.AppendEnvelope(ctx, envelope.Data())
	if err != nil {
		t.Fatalf("AppendEnvelope() error = %v", err)
	}
	if ref != "mem:envelopes:1" {
		t.Errorf("ref = %q, want mem:envelopes:1", ref)
	}

	ref, err = store.AppendGoal(ctx, goal.Data())
	if err != nil {
		t.Fatalf("AppendGoal() error = %v", err)
	}
	if ref != "mem:goals:1" {
		t.Errorf("ref = %q, want mem:goals:1", ref)
	}

	if got := store.Envelopes(); len(got) != 1 || got[0].Name() != "Transport" {
		t.Errorf("Envelopes() = %v", got)
	}
	if got := store.Goals(); len(got) != 1 || got[0].Name() != "New laptop" {
		t.Errorf("Goals() = %v", got)
	}
}
