package mapper

import (
	"strings"

	"envelopes/internal/core"
	"envelopes/internal/dto"
)

// ValidateCreateGoal checks a create request field by field. The target
// date, when present, must parse; whether it lies in the future is the
// entity's rule, not the mapper's.
func ValidateCreateGoal(req *dto.CreateGoalRequest) core.Result[bool] {
	if guard := requireDTO(req); guard.HasError() {
		return guard
	}
	if failed := firstFailure(
		requireString("name", "Name", req.Name),
		requirePositive("targetAmount", "Target amount", req.TargetAmount),
		requireString("budgetId", "Budget ID", req.BudgetID),
		requireString("userId", "User ID", req.UserID),
	); failed.HasError() {
		return failed
	}
	if _, parsed := parseTargetDate(strings.TrimSpace(req.TargetDate)); !parsed {
		return core.Fail[bool](core.NewValidationError("targetDate", "Target date must be a valid ISO-8601 date"))
	}
	return ok
}

func NormalizeCreateGoal(req *dto.CreateGoalRequest) dto.CreateGoalRequest {
	return dto.CreateGoalRequest{
		Name:         strings.TrimSpace(req.Name),
		TargetAmount: req.TargetAmount,
		BudgetID:     strings.TrimSpace(req.BudgetID),
		UserID:       strings.TrimSpace(req.UserID),
		TargetDate:   strings.TrimSpace(req.TargetDate),
		Description:  strings.TrimSpace(req.Description),
	}
}

func ValidateUpdateGoal(req *dto.UpdateGoalRequest) core.Result[bool] {
	if guard := requireDTO(req); guard.HasError() {
		return guard
	}
	if failed := firstFailure(
		requireString("goalId", "Goal ID", req.GoalID),
		requireString("userId", "User ID", req.UserID),
		optionalString("name", "Name", req.Name),
		optionalPositive("targetAmount", "Target amount", req.TargetAmount),
		optionalString("status", "Status", req.Status),
	); failed.HasError() {
		return failed
	}
	if req.TargetDate != nil {
		if _, parsed := parseTargetDate(strings.TrimSpace(*req.TargetDate)); !parsed {
			return core.Fail[bool](core.NewValidationError("targetDate", "Target date must be a valid ISO-8601 date"))
		}
	}
	return ok
}

func NormalizeUpdateGoal(req *dto.UpdateGoalRequest) dto.UpdateGoalRequest {
	return dto.UpdateGoalRequest{
		GoalID:       strings.TrimSpace(req.GoalID),
		UserID:       strings.TrimSpace(req.UserID),
		Name:         trimPtr(req.Name),
		TargetAmount: req.TargetAmount,
		TargetDate:   trimPtr(req.TargetDate),
		Description:  trimPtr(req.Description),
		Status:       trimPtr(req.Status),
	}
}

func ValidateDeleteGoal(req *dto.DeleteGoalRequest) core.Result[bool] {
	if guard := requireDTO(req); guard.HasError() {
		return guard
	}
	return firstFailure(
		requireString("goalId", "Goal ID", req.GoalID),
		requireString("userId", "User ID", req.UserID),
	)
}

func NormalizeDeleteGoal(req *dto.DeleteGoalRequest) dto.DeleteGoalRequest {
	return dto.DeleteGoalRequest{
		GoalID: strings.TrimSpace(req.GoalID),
		UserID: strings.TrimSpace(req.UserID),
	}
}

func ValidateAddAmountToGoal(req *dto.AddAmountToGoalRequest) core.Result[bool] {
	if guard := requireDTO(req); guard.HasError() {
		return guard
	}
	return firstFailure(
		requireString("goalId", "Goal ID", req.GoalID),
		requirePositive("amount", "Amount", req.Amount),
		requireString("userId", "User ID", req.UserID),
	)
}

func NormalizeAddAmountToGoal(req *dto.AddAmountToGoalRequest) dto.AddAmountToGoalRequest {
	return dto.AddAmountToGoalRequest{
		GoalID: strings.TrimSpace(req.GoalID),
		Amount: req.Amount,
		UserID: strings.TrimSpace(req.UserID),
	}
}

func ValidateRemoveAmountFromGoal(req *dto.RemoveAmountFromGoalRequest) core.Result[bool] {
	if guard := requireDTO(req); guard.HasError() {
		return guard
	}
	return firstFailure(
		requireString("goalId", "Goal ID", req.GoalID),
		requirePositive("amount", "Amount", req.Amount),
		requireString("userId", "User ID", req.UserID),
	)
}

func NormalizeRemoveAmountFromGoal(req *dto.RemoveAmountFromGoalRequest) dto.RemoveAmountFromGoalRequest {
	return dto.RemoveAmountFromGoalRequest{
		GoalID: strings.TrimSpace(req.GoalID),
		Amount: req.Amount,
		UserID: strings.TrimSpace(req.UserID),
	}
}

// GoalFromCreateRequest builds the aggregate from a validated request,
// collapsing any entity-level failure into a single ValidationError that
// joins the underlying messages.
func GoalFromCreateRequest(req *dto.CreateGoalRequest) core.Result[*core.Goal] {
	if guard := requireDTO(req); guard.HasError() {
		return core.Relay[*core.Goal](guard)
	}
	normalized := NormalizeCreateGoal(req)

	targetCents := monetaryToCents(normalized.TargetAmount)
	if targetCents.HasError() {
		return core.Fail[*core.Goal](core.NewValidationError("targetAmount", "Invalid target amount: "+joinErrors(targetCents.Errors())))
	}

	targetDate, parsed := parseTargetDate(normalized.TargetDate)
	if !parsed {
		return core.Fail[*core.Goal](core.NewValidationError("targetDate", "Target date must be a valid ISO-8601 date"))
	}

	created := core.NewGoal(core.GoalParams{
		Name:               normalized.Name,
		TargetAmountCents:  targetCents.Data(),
		CurrentAmountCents: 0,
		BudgetID:           normalized.BudgetID,
		TargetDate:         targetDate,
		Description:        normalized.Description,
	})
	if created.HasError() {
		return core.Fail[*core.Goal](core.NewValidationError("goal", "Invalid goal data: "+joinErrors(created.Errors())))
	}
	return created
}
