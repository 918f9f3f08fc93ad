package usecase

import (
	"context"

	"envelopes/internal/core"
	"envelopes/internal/dto"
	"envelopes/internal/mapper"
)

// CreateGoal creates a new savings goal through the gateway.
type CreateGoal struct {
	gateway GoalGateway
}

func NewCreateGoal(gateway GoalGateway) *CreateGoal {
	return &CreateGoal{gateway: gateway}
}

func (uc *CreateGoal) Execute(ctx context.Context, req *dto.CreateGoalRequest) core.Result[dto.GoalResponse] {
	return run(ctx, "goal creation", req,
		mapper.ValidateCreateGoal,
		mapper.NormalizeCreateGoal,
		uc.gateway.CreateGoal,
	)
}

// UpdateGoal updates a goal's name, target, deadline, description or status.
type UpdateGoal struct {
	gateway GoalGateway
}

func NewUpdateGoal(gateway GoalGateway) *UpdateGoal {
	return &UpdateGoal{gateway: gateway}
}

func (uc *UpdateGoal) Execute(ctx context.Context, req *dto.UpdateGoalRequest) core.Result[dto.GoalResponse] {
	return run(ctx, "goal update", req,
		mapper.ValidateUpdateGoal,
		mapper.NormalizeUpdateGoal,
		uc.gateway.UpdateGoal,
	)
}

// DeleteGoal removes a goal.
type DeleteGoal struct {
	gateway GoalGateway
}

func NewDeleteGoal(gateway GoalGateway) *DeleteGoal {
	return &DeleteGoal{gateway: gateway}
}

func (uc *DeleteGoal) Execute(ctx context.Context, req *dto.DeleteGoalRequest) core.Result[dto.DeleteResponse] {
	return run(ctx, "goal deletion", req,
		mapper.ValidateDeleteGoal,
		mapper.NormalizeDeleteGoal,
		uc.gateway.DeleteGoal,
	)
}

// AddAmountToGoal registers savings toward a goal.
type AddAmountToGoal struct {
	gateway GoalGateway
}

func NewAddAmountToGoal(gateway GoalGateway) *AddAmountToGoal {
	return &AddAmountToGoal{gateway: gateway}
}

func (uc *AddAmountToGoal) Execute(ctx context.Context, req *dto.AddAmountToGoalRequest) core.Result[dto.GoalResponse] {
	return run(ctx, "goal amount addition", req,
		mapper.ValidateAddAmountToGoal,
		mapper.NormalizeAddAmountToGoal,
		uc.gateway.AddAmountToGoal,
	)
}

// RemoveAmountFromGoal withdraws savings from a goal.
type RemoveAmountFromGoal struct {
	gateway GoalGateway
}

func NewRemoveAmountFromGoal(gateway GoalGateway) *RemoveAmountFromGoal {
	return &RemoveAmountFromGoal{gateway: gateway}
}

func (uc *RemoveAmountFromGoal) Execute(ctx context.Context, req *dto.RemoveAmountFromGoalRequest) core.Result[dto.GoalResponse] {
	return run(ctx, "goal amount removal", req,
		mapper.ValidateRemoveAmountFromGoal,
		mapper.NormalizeRemoveAmountFromGoal,
		uc.gateway.RemoveAmountFromGoal,
	)
}
