package services

import (
	"context"
	"testing"
	"time"

	"envelopes/internal/dto"
)

func newGoalService(t *testing.T) *GoalService {
	t.Helper()
	return NewGoalService(newTestRepository(t), nil)
}

func createTestGoal(t *testing.T, svc *GoalService, targetDate string) dto.GoalResponse {
	t.Helper()
	result := svc.CreateGoal(context.Background(), dto.CreateGoalRequest{
		Name:         "Emergency fund",
		TargetAmount: 5000,
		BudgetID:     "budget-1",
		UserID:       "user-1",
		TargetDate:   targetDate,
	})
	if result.HasError() {
		t.Fatalf("CreateGoal failed: %v", result.Errors())
	}
	return result.Data()
}

func TestGoalService_Create(t *testing.T) {
	svc := newGoalService(t)
	future := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	resp := createTestGoal(t, svc, future)

	if resp.TargetAmountCents != 500000 {
		t.Errorf("TargetAmountCents = %d, want 500000", resp.TargetAmountCents)
	}
	if resp.CurrentAmountCents != 0 {
		t.Errorf("CurrentAmountCents = %d, want 0", resp.CurrentAmountCents)
	}
	if resp.Status != "ACTIVE" {
		t.Errorf("Status = %q, want ACTIVE", resp.Status)
	}
	if resp.TargetDate == nil {
		t.Fatal("TargetDate should be set")
	}
}

func TestGoalService_CreateWithoutTargetDate(t *testing.T) {
	svc := newGoalService(t)
	resp := createTestGoal(t, svc, "")
	if resp.TargetDate != nil {
		t.Errorf("TargetDate = %v, want nil", *resp.TargetDate)
	}
}

func TestGoalService_CreateValidation(t *testing.T) {
	svc := newGoalService(t)
	base := dto.CreateGoalRequest{
		Name:         "Emergency fund",
		TargetAmount: 5000,
		BudgetID:     "budget-1",
		UserID:       "user-1",
	}

	tests := []struct {
		name    string
		mutate  func(*dto.CreateGoalRequest)
		wantFld string
	}{
		{"empty name", func(r *dto.CreateGoalRequest) { r.Name = "" }, "name"},
		{"zero amount", func(r *dto.CreateGoalRequest) { r.TargetAmount = 0 }, "targetAmount"},
		{"missing budget", func(r *dto.CreateGoalRequest) { r.BudgetID = "" }, "budgetId"},
		{"missing user", func(r *dto.CreateGoalRequest) { r.UserID = "" }, "userId"},
		{"garbage date", func(r *dto.CreateGoalRequest) { r.TargetDate = "next tuesday" }, "targetDate"},
		{"past date", func(r *dto.CreateGoalRequest) { r.TargetDate = "2020-01-01" }, "goal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			result := svc.CreateGoal(context.Background(), req)
			if !result.HasError() {
				t.Fatal("expected validation failure")
			}
			assertValidationField(t, result.Errors(), tt.wantFld)
		})
	}
}

func TestGoalService_Update(t *testing.T) {
	svc := newGoalService(t)
	ctx := context.Background()
	created := createTestGoal(t, svc, "")

	newName := "House deposit"
	newTarget := 12000.0
	newStatus := "PAUSED"
	updated := svc.UpdateGoal(ctx, dto.UpdateGoalRequest{
		GoalID:       created.ID,
		UserID:       "user-1",
		Name:         &newName,
		TargetAmount: &newTarget,
		Status:       &newStatus,
	})
	if updated.HasError() {
		t.Fatalf("UpdateGoal failed: %v", updated.Errors())
	}
	got := updated.Data()
	if got.Name != "House deposit" || got.TargetAmountCents != 1200000 || got.Status != "PAUSED" {
		t.Errorf("got name=%q target=%d status=%q", got.Name, got.TargetAmountCents, got.Status)
	}
}

func TestGoalService_UpdateTargetDate(t *testing.T) {
	svc := newGoalService(t)
	ctx := context.Background()
	created := createTestGoal(t, svc, "")

	future := time.Now().AddDate(0, 6, 0).Format("2006-01-02")
	set := svc.UpdateGoal(ctx, dto.UpdateGoalRequest{
		GoalID: created.ID, UserID: "user-1", TargetDate: &future,
	})
	if set.HasError() {
		t.Fatalf("UpdateGoal failed: %v", set.Errors())
	}
	if set.Data().TargetDate == nil {
		t.Fatal("TargetDate should be set after update")
	}

	past := "2020-01-01"
	rejected := svc.UpdateGoal(ctx, dto.UpdateGoalRequest{
		GoalID: created.ID, UserID: "user-1", TargetDate: &past,
	})
	if !rejected.HasError() {
		t.Fatal("expected past-date rejection")
	}
	assertValidationField(t, rejected.Errors(), "targetDate")

	cleared := ""
	unset := svc.UpdateGoal(ctx, dto.UpdateGoalRequest{
		GoalID: created.ID, UserID: "user-1", TargetDate: &cleared,
	})
	if unset.HasError() {
		t.Fatalf("UpdateGoal failed: %v", unset.Errors())
	}
	if unset.Data().TargetDate != nil {
		t.Errorf("TargetDate = %v, want nil after clearing", *unset.Data().TargetDate)
	}
}

func TestGoalService_UpdateInvalidStatus(t *testing.T) {
	svc := newGoalService(t)
	created := createTestGoal(t, svc, "")

	status := "DONE"
	result := svc.UpdateGoal(context.Background(), dto.UpdateGoalRequest{
		GoalID: created.ID, UserID: "user-1", Status: &status,
	})
	if !result.HasError() {
		t.Fatal("expected invalid status rejection")
	}
	assertValidationField(t, result.Errors(), "goal")
}

func TestGoalService_AddAndRemoveAmount(t *testing.T) {
	svc := newGoalService(t)
	ctx := context.Background()
	created := createTestGoal(t, svc, "")

	added := svc.AddAmountToGoal(ctx, dto.AddAmountToGoalRequest{
		GoalID: created.ID, Amount: 250, UserID: "user-1",
	})
	if added.HasError() {
		t.Fatalf("AddAmountToGoal failed: %v", added.Errors())
	}
	if got := added.Data().CurrentAmountCents; got != 25000 {
		t.Errorf("amount after add = %d, want 25000", got)
	}

	removed := svc.RemoveAmountFromGoal(ctx, dto.RemoveAmountFromGoalRequest{
		GoalID: created.ID, Amount: 100, UserID: "user-1",
	})
	if removed.HasError() {
		t.Fatalf("RemoveAmountFromGoal failed: %v", removed.Errors())
	}
	if got := removed.Data().CurrentAmountCents; got != 15000 {
		t.Errorf("amount after remove = %d, want 15000", got)
	}

	overdrawn := svc.RemoveAmountFromGoal(ctx, dto.RemoveAmountFromGoalRequest{
		GoalID: created.ID, Amount: 150.01, UserID: "user-1",
	})
	if !overdrawn.HasError() {
		t.Fatal("expected exceeded amount failure")
	}
	assertValidationField(t, overdrawn.Errors(), "amount")
}

func TestGoalService_Delete(t *testing.T) {
	svc := newGoalService(t)
	ctx := context.Background()
	created := createTestGoal(t, svc, "")

	deleted := svc.DeleteGoal(ctx, dto.DeleteGoalRequest{GoalID: created.ID, UserID: "user-1"})
	if deleted.HasError() {
		t.Fatalf("DeleteGoal failed: %v", deleted.Errors())
	}
	if !deleted.Data().Deleted {
		t.Error("Deleted = false, want true")
	}

	gone := svc.UpdateGoal(ctx, dto.UpdateGoalRequest{
		GoalID: created.ID, UserID: "user-1", Name: ptr("Renamed"),
	})
	if !gone.HasError() {
		t.Fatal("expected not-found failure after delete")
	}
	assertValidationField(t, gone.Errors(), "goalId")
}

func ptr[T any](v T) *T { return &v }
