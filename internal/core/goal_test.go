package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func validGoalParams() GoalParams {
	return GoalParams{
		Name:               "Emergency Fund",
		TargetAmountCents:  1000000,
		CurrentAmountCents: 250000,
		BudgetID:           "budget-123",
	}
}

func mustGoal(t *testing.T, params GoalParams) *Goal {
	t.Helper()
	r := NewGoal(params)
	if r.HasError() {
		t.Fatalf("NewGoal failed: %v", r.Errors())
	}
	return r.Data()
}

func daysFromNow(n int) *time.Time {
	d := time.Now().AddDate(0, 0, n)
	return &d
}

func TestNewGoalDefaults(t *testing.T) {
	g := mustGoal(t, validGoalParams())

	if g.Status() != GoalActive {
		t.Fatalf("status defaults to ACTIVE, got %q", g.Status())
	}
	if g.TargetDate() != nil {
		t.Fatal("target date defaults to nil")
	}
	if g.Description() != "" {
		t.Fatalf("description defaults to empty, got %q", g.Description())
	}
	if g.CreatedAt().IsZero() {
		t.Fatal("createdAt must default to construction time")
	}
}

func TestNewGoalValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*GoalParams)
		wantErr string
	}{
		{"empty name", func(p *GoalParams) { p.Name = "" }, "Name cannot be empty"},
		{"negative target", func(p *GoalParams) { p.TargetAmountCents = -1 }, "Invalid target amount: Value cannot be negative"},
		{"negative current", func(p *GoalParams) { p.CurrentAmountCents = -1 }, "Invalid current amount: Value cannot be negative"},
		{"empty budget", func(p *GoalParams) { p.BudgetID = "" }, "Budget ID cannot be empty"},
		{"past target date", func(p *GoalParams) { p.TargetDate = daysFromNow(-1) }, "Target date cannot be in the past"},
		{"unknown status", func(p *GoalParams) { p.Status = "DONE" }, "Invalid goal status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validGoalParams()
			tc.mutate(&params)
			r := NewGoal(params)
			if !r.HasError() {
				t.Fatal("expected validation failure")
			}
			found := false
			for _, err := range r.Errors() {
				if err.Error() == tc.wantErr {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected error %q in %v", tc.wantErr, r.Errors())
			}
		})
	}
}

func TestNewGoalAcceptsTodayAsTargetDate(t *testing.T) {
	params := validGoalParams()
	params.TargetDate = daysFromNow(0)
	if r := NewGoal(params); r.HasError() {
		t.Fatalf("today must be a valid target date, got %v", r.Errors())
	}
}

func TestGoalRemainingAndProgress(t *testing.T) {
	cases := []struct {
		target, current int64
		remaining       int64
		progress        float64
	}{
		{1000000, 250000, 750000, 25},
		{1000000, 1000000, 0, 100},
		{1000000, 1500000, 0, 100}, // overshoot floors and clamps
		{0, 50000, 0, 0},           // zero target reads as 0%
	}
	for _, tc := range cases {
		params := validGoalParams()
		params.TargetAmountCents = tc.target
		params.CurrentAmountCents = tc.current
		g := mustGoal(t, params)
		if got := g.RemainingAmount().Cents(); got != tc.remaining {
			t.Fatalf("target=%d current=%d: expected remaining %d, got %d", tc.target, tc.current, tc.remaining, got)
		}
		if got := g.ProgressPercentage(); got != tc.progress {
			t.Fatalf("target=%d current=%d: expected progress %v, got %v", tc.target, tc.current, tc.progress, got)
		}
	}
}

func TestGoalIsCompleted(t *testing.T) {
	cases := []struct {
		status          GoalStatus
		target, current int64
		want            bool
	}{
		{GoalActive, 1000, 999, false},
		{GoalActive, 1000, 1000, true},
		{GoalActive, 1000, 1001, true},
		{GoalCompleted, 1000, 0, true},
		{GoalPaused, 1000, 500, false},
		{GoalCancelled, 1000, 1000, true}, // amount reached counts regardless of status
	}
	for _, tc := range cases {
		params := validGoalParams()
		params.Status = tc.status
		params.TargetAmountCents = tc.target
		params.CurrentAmountCents = tc.current
		g := mustGoal(t, params)
		if got := g.IsCompleted(); got != tc.want {
			t.Fatalf("status=%s target=%d current=%d: expected %v, got %v", tc.status, tc.target, tc.current, tc.want, got)
		}
	}
}

// goalJSONDoc builds a persistence document directly so tests can restore
// states NewGoal refuses to create, like goals whose deadline has passed.
func goalJSONDoc(targetDate *time.Time, targetCents, currentCents int64, status GoalStatus) []byte {
	td := "null"
	if targetDate != nil {
		td = fmt.Sprintf("%q", targetDate.Format(time.RFC3339Nano))
	}
	doc := fmt.Sprintf(`{
		"id": "2b1c6f0a-9d3e-4f5b-8c7d-1e2f3a4b5c6d",
		"name": "Emergency Fund",
		"targetAmount": {"valueInCents": %d},
		"currentAmount": {"valueInCents": %d},
		"budgetId": "budget-123",
		"targetDate": %s,
		"description": "",
		"status": %q,
		"createdAt": "2024-01-02T15:04:05Z"
	}`, targetCents, currentCents, td, status)
	return []byte(doc)
}

func TestGoalOverdueOnlyReachableFromStorage(t *testing.T) {
	past := time.Now().AddDate(0, 0, -1)

	// Creation with a past deadline is a validation failure.
	params := validGoalParams()
	params.TargetDate = &past
	if r := NewGoal(params); !r.HasError() {
		t.Fatal("past deadline must be unreachable via NewGoal")
	}

	// Restoring the historical state works, and reads as overdue.
	restored := GoalFromJSON(goalJSONDoc(&past, 1000000, 250000, GoalActive))
	if restored.HasError() {
		t.Fatalf("restore failed: %v", restored.Errors())
	}
	if !restored.Data().IsOverdue() {
		t.Fatal("incomplete goal past its deadline must be overdue")
	}

	// A completed goal is never overdue.
	done := GoalFromJSON(goalJSONDoc(&past, 1000000, 1000000, GoalActive))
	if done.HasError() {
		t.Fatalf("restore failed: %v", done.Errors())
	}
	if done.Data().IsOverdue() {
		t.Fatal("completed goals are never overdue")
	}
}

func TestGoalDaysUntilTarget(t *testing.T) {
	g := mustGoal(t, validGoalParams())
	if g.DaysUntilTarget() != nil {
		t.Fatal("no deadline means no day count")
	}

	params := validGoalParams()
	params.TargetDate = daysFromNow(10)
	g = mustGoal(t, params)
	if days := g.DaysUntilTarget(); days == nil || *days != 10 {
		t.Fatalf("expected 10 days, got %v", days)
	}

	past := time.Now().AddDate(0, 0, -3)
	restored := GoalFromJSON(goalJSONDoc(&past, 1000, 0, GoalActive))
	if restored.HasError() {
		t.Fatalf("restore failed: %v", restored.Errors())
	}
	if days := restored.Data().DaysUntilTarget(); days == nil || *days != -3 {
		t.Fatalf("expected -3 days, got %v", days)
	}
}

func TestGoalMonthlyTargetAmount(t *testing.T) {
	g := mustGoal(t, validGoalParams())
	if g.MonthlyTargetAmount() != nil {
		t.Fatal("no deadline means no monthly target")
	}

	params := validGoalParams()
	params.TargetAmountCents = 1000000
	params.CurrentAmountCents = 400000
	// Anchor mid-month so the distance is exactly six calendar months.
	now := time.Now()
	target := time.Date(now.Year(), now.Month()+6, 15, 12, 0, 0, 0, time.Local)
	params.TargetDate = &target
	g = mustGoal(t, params)

	monthly := g.MonthlyTargetAmount()
	if monthly == nil || monthly.Cents() != 100000 {
		t.Fatalf("expected 100000 cents per month, got %v", monthly)
	}

	// Deadlines inside the current month floor to one month.
	params.TargetDate = daysFromNow(0)
	g = mustGoal(t, params)
	monthly = g.MonthlyTargetAmount()
	if monthly == nil || monthly.Cents() != 600000 {
		t.Fatalf("expected the full remaining amount, got %v", monthly)
	}
}

func TestGoalStatusLabels(t *testing.T) {
	cases := []struct {
		status GoalStatus
		want   string
	}{
		{GoalActive, "Ativa"},
		{GoalPaused, "Pausada"},
		{GoalCompleted, "Concluída"},
		{GoalCancelled, "Cancelada"},
	}
	for _, tc := range cases {
		params := validGoalParams()
		params.Status = tc.status
		if got := mustGoal(t, params).StatusLabel(); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.status, tc.want, got)
		}
	}
}

func TestGoalJSONRoundTrip(t *testing.T) {
	params := validGoalParams()
	params.Description = "six months of expenses"
	params.Status = GoalPaused
	params.TargetDate = daysFromNow(90)
	original := mustGoal(t, params)

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	restored := GoalFromJSON(data)
	if restored.HasError() {
		t.Fatalf("restore failed: %v", restored.Errors())
	}
	got := restored.Data()

	if !got.ID().Equal(original.ID()) {
		t.Fatal("id must survive the round trip")
	}
	if got.Name() != original.Name() ||
		!got.TargetAmount().Equal(original.TargetAmount()) ||
		!got.CurrentAmount().Equal(original.CurrentAmount()) ||
		got.BudgetID() != original.BudgetID() ||
		got.Description() != original.Description() ||
		got.Status() != original.Status() {
		t.Fatal("fields must survive the round trip")
	}
	if got.TargetDate() == nil || !got.TargetDate().Equal(*original.TargetDate()) {
		t.Fatalf("target date drifted: %v vs %v", got.TargetDate(), original.TargetDate())
	}
	if !got.CreatedAt().Equal(original.CreatedAt()) {
		t.Fatalf("createdAt drifted: %v vs %v", got.CreatedAt(), original.CreatedAt())
	}
}

func TestGoalFromJSONRejectsUnknownStatus(t *testing.T) {
	r := GoalFromJSON(goalJSONDoc(nil, 1000, 0, "ARCHIVED"))
	if !r.HasError() {
		t.Fatal("unknown status must fail")
	}
	found := false
	for _, err := range r.Errors() {
		if errors.Is(err, errInvalidGoalState) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected goal status error, got %v", r.Errors())
	}
}
