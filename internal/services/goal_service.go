package services

import (
	"context"
	"errors"

	"envelopes/internal/amqp"
	"envelopes/internal/core"
	"envelopes/internal/dto"
	"envelopes/internal/mapper"
	"envelopes/internal/storage"
	"envelopes/internal/usecase"
)

// GoalService persists goals in SQLite and announces every write on the
// exchange so the sync worker can export snapshots.
type GoalService struct {
	storage   *storage.SQLiteRepository
	publisher *amqp.Client
}

var _ usecase.GoalGateway = (*GoalService)(nil)

// NewGoalService wires the gateway. A nil publisher disables change
// notifications without affecting persistence.
func NewGoalService(repo *storage.SQLiteRepository, publisher *amqp.Client) *GoalService {
	return &GoalService{storage: repo, publisher: publisher}
}

func (s *GoalService) CreateGoal(ctx context.Context, req dto.CreateGoalRequest) core.Result[dto.GoalResponse] {
	if failed := mapper.ValidateCreateGoal(&req); failed.HasError() {
		return core.Relay[dto.GoalResponse](failed)
	}
	normalized := mapper.NormalizeCreateGoal(&req)

	created := mapper.GoalFromCreateRequest(&normalized)
	if created.HasError() {
		return core.Relay[dto.GoalResponse](created)
	}
	goal := created.Data()

	row := goalRowFromEntity(goal, normalized.UserID)
	if err := s.storage.InsertGoal(ctx, row); err != nil {
		return failOperation[dto.GoalResponse]("create goal", err)
	}

	s.publishChange(ctx, amqp.EntityGoal, row.ID, 1, amqp.ActionUpserted)
	return core.Ok(mapper.GoalToResponse(goal))
}

func (s *GoalService) UpdateGoal(ctx context.Context, req dto.UpdateGoalRequest) core.Result[dto.GoalResponse] {
	if failed := mapper.ValidateUpdateGoal(&req); failed.HasError() {
		return core.Relay[dto.GoalResponse](failed)
	}
	normalized := mapper.NormalizeUpdateGoal(&req)

	row, err := s.storage.GetGoal(ctx, normalized.GoalID)
	if err != nil {
		return s.goalStorageFailure(err, "update goal")
	}

	if normalized.Name != nil {
		row.Name = *normalized.Name
	}
	if normalized.TargetAmount != nil {
		target := core.MoneyFromMonetary(*normalized.TargetAmount)
		if target.HasError() {
			return failValidation[dto.GoalResponse]("targetAmount", "Invalid target amount: "+joinMessages(target.Errors()))
		}
		row.TargetAmountCents = target.Data().Cents()
	}
	if normalized.TargetDate != nil {
		targetDate, parsed := parseTargetDate(*normalized.TargetDate)
		if !parsed {
			return failValidation[dto.GoalResponse]("targetDate", "Target date must be a valid ISO-8601 date")
		}
		if targetDate != nil && isPastDate(*targetDate) {
			return failValidation[dto.GoalResponse]("targetDate", "Target date cannot be in the past")
		}
		row.TargetDate = targetDate
	}
	if normalized.Description != nil {
		row.Description = *normalized.Description
	}
	if normalized.Status != nil {
		row.Status = *normalized.Status
	}

	if restored := core.RestoreGoal(goalRecordFromRow(row)); restored.HasError() {
		return failValidation[dto.GoalResponse]("goal", "Invalid goal data: "+joinMessages(restored.Errors()))
	}

	updated, err := s.storage.UpdateGoal(ctx, row)
	if err != nil {
		return s.goalStorageFailure(err, "update goal")
	}

	s.publishChange(ctx, amqp.EntityGoal, updated.ID, updated.Version, amqp.ActionUpserted)
	return s.goalRowResponse(updated)
}

func (s *GoalService) DeleteGoal(ctx context.Context, req dto.DeleteGoalRequest) core.Result[dto.DeleteResponse] {
	if failed := mapper.ValidateDeleteGoal(&req); failed.HasError() {
		return core.Relay[dto.DeleteResponse](failed)
	}
	normalized := mapper.NormalizeDeleteGoal(&req)

	row, err := s.storage.GetGoal(ctx, normalized.GoalID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return failValidation[dto.DeleteResponse]("goalId", msgGoalNotFound)
		}
		return failOperation[dto.DeleteResponse]("delete goal", err)
	}

	if err := s.storage.SoftDeleteGoal(ctx, normalized.GoalID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return failValidation[dto.DeleteResponse]("goalId", msgGoalNotFound)
		}
		return failOperation[dto.DeleteResponse]("delete goal", err)
	}

	s.publishChange(ctx, amqp.EntityGoal, row.ID, row.Version+1, amqp.ActionDeleted)
	return core.Ok(dto.DeleteResponse{Deleted: true})
}

func (s *GoalService) AddAmountToGoal(ctx context.Context, req dto.AddAmountToGoalRequest) core.Result[dto.GoalResponse] {
	if failed := mapper.ValidateAddAmountToGoal(&req); failed.HasError() {
		return core.Relay[dto.GoalResponse](failed)
	}
	normalized := mapper.NormalizeAddAmountToGoal(&req)

	amount := core.MoneyFromMonetary(normalized.Amount)
	if amount.HasError() {
		return failValidation[dto.GoalResponse]("amount", "Invalid amount: "+joinMessages(amount.Errors()))
	}

	updated, err := s.storage.AdjustGoalAmount(ctx, normalized.GoalID, amount.Data().Cents())
	if err != nil {
		return s.goalStorageFailure(err, "add amount to goal")
	}

	s.publishChange(ctx, amqp.EntityGoal, updated.ID, updated.Version, amqp.ActionUpserted)
	return s.goalRowResponse(updated)
}

func (s *GoalService) RemoveAmountFromGoal(ctx context.Context, req dto.RemoveAmountFromGoalRequest) core.Result[dto.GoalResponse] {
	if failed := mapper.ValidateRemoveAmountFromGoal(&req); failed.HasError() {
		return core.Relay[dto.GoalResponse](failed)
	}
	normalized := mapper.NormalizeRemoveAmountFromGoal(&req)

	amount := core.MoneyFromMonetary(normalized.Amount)
	if amount.HasError() {
		return failValidation[dto.GoalResponse]("amount", "Invalid amount: "+joinMessages(amount.Errors()))
	}

	updated, err := s.storage.AdjustGoalAmount(ctx, normalized.GoalID, -amount.Data().Cents())
	if err != nil {
		return s.goalStorageFailure(err, "remove amount from goal")
	}

	s.publishChange(ctx, amqp.EntityGoal, updated.ID, updated.Version, amqp.ActionUpserted)
	return s.goalRowResponse(updated)
}

func (s *GoalService) goalStorageFailure(err error, operation string) core.Result[dto.GoalResponse] {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return failValidation[dto.GoalResponse]("goalId", msgGoalNotFound)
	case errors.Is(err, storage.ErrInsufficientBalance):
		return failValidation[dto.GoalResponse]("amount", msgGoalAmountExceeded)
	default:
		return failOperation[dto.GoalResponse](operation, err)
	}
}

func (s *GoalService) goalRowResponse(row storage.GoalRow) core.Result[dto.GoalResponse] {
	restored := core.RestoreGoal(goalRecordFromRow(row))
	if restored.HasError() {
		return failOperation[dto.GoalResponse]("load goal", errors.Join(restored.Errors()...))
	}
	return core.Ok(mapper.GoalToResponse(restored.Data()))
}

func (s *GoalService) publishChange(ctx context.Context, entityType, id string, version int64, action string) {
	publishChange(ctx, s.publisher, entityType, id, version, action)
}

func goalRowFromEntity(g *core.Goal, userID string) storage.GoalRow {
	return storage.GoalRow{
		ID:                 g.ID().String(),
		Name:               g.Name(),
		TargetAmountCents:  g.TargetAmount().Cents(),
		CurrentAmountCents: g.CurrentAmount().Cents(),
		BudgetID:           g.BudgetID(),
		UserID:             userID,
		TargetDate:         g.TargetDate(),
		Description:        g.Description(),
		Status:             string(g.Status()),
		CreatedAt:          g.CreatedAt(),
		Version:            1,
		SyncStatus:         storage.SyncPending,
	}
}

func goalRecordFromRow(row storage.GoalRow) core.GoalRecord {
	return core.GoalRecord{
		ID:                 row.ID,
		Name:               row.Name,
		TargetAmountCents:  row.TargetAmountCents,
		CurrentAmountCents: row.CurrentAmountCents,
		BudgetID:           row.BudgetID,
		TargetDate:         row.TargetDate,
		Description:        row.Description,
		Status:             core.GoalStatus(row.Status),
		CreatedAt:          row.CreatedAt,
	}
}
