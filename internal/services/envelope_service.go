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

// EnvelopeService persists envelopes in SQLite and announces every write on
// the exchange so the sync worker can export snapshots.
type EnvelopeService struct {
	storage   *storage.SQLiteRepository
	publisher *amqp.Client
}

var _ usecase.EnvelopeGateway = (*EnvelopeService)(nil)

// NewEnvelopeService wires the gateway. A nil publisher disables change
// notifications without affecting persistence.
func NewEnvelopeService(repo *storage.SQLiteRepository, publisher *amqp.Client) *EnvelopeService {
	return &EnvelopeService{storage: repo, publisher: publisher}
}

func (s *EnvelopeService) CreateEnvelope(ctx context.Context, req dto.CreateEnvelopeRequest) core.Result[dto.EnvelopeResponse] {
	if failed := mapper.ValidateCreateEnvelope(&req); failed.HasError() {
		return core.Relay[dto.EnvelopeResponse](failed)
	}
	normalized := mapper.NormalizeCreateEnvelope(&req)

	created := mapper.EnvelopeFromCreateRequest(&normalized)
	if created.HasError() {
		return core.Relay[dto.EnvelopeResponse](created)
	}
	envelope := created.Data()

	row := envelopeRowFromEntity(envelope, normalized.UserID)
	if err := s.storage.InsertEnvelope(ctx, row); err != nil {
		return failOperation[dto.EnvelopeResponse]("create envelope", err)
	}

	s.publishChange(ctx, amqp.EntityEnvelope, row.ID, 1, amqp.ActionUpserted)
	return core.Ok(mapper.EnvelopeToResponse(envelope))
}

func (s *EnvelopeService) UpdateEnvelope(ctx context.Context, req dto.UpdateEnvelopeRequest) core.Result[dto.EnvelopeResponse] {
	if failed := mapper.ValidateUpdateEnvelope(&req); failed.HasError() {
		return core.Relay[dto.EnvelopeResponse](failed)
	}
	normalized := mapper.NormalizeUpdateEnvelope(&req)

	row, err := s.storage.GetEnvelope(ctx, normalized.EnvelopeID)
	if err != nil {
		return s.envelopeStorageFailure(err, "update envelope")
	}

	if normalized.Name != nil {
		row.Name = *normalized.Name
	}
	if normalized.MonthlyLimit != nil {
		limit := core.MoneyFromMonetary(*normalized.MonthlyLimit)
		if limit.HasError() {
			return failValidation[dto.EnvelopeResponse]("monthlyLimit", "Invalid monthly limit: "+joinMessages(limit.Errors()))
		}
		row.LimitCents = limit.Data().Cents()
	}
	if normalized.Description != nil {
		row.Description = *normalized.Description
	}

	if restored := core.RestoreEnvelope(envelopeRecordFromRow(row)); restored.HasError() {
		return failValidation[dto.EnvelopeResponse]("envelope", "Invalid envelope data: "+joinMessages(restored.Errors()))
	}

	updated, err := s.storage.UpdateEnvelope(ctx, row)
	if err != nil {
		return s.envelopeStorageFailure(err, "update envelope")
	}

	s.publishChange(ctx, amqp.EntityEnvelope, updated.ID, updated.Version, amqp.ActionUpserted)
	return s.envelopeRowResponse(updated)
}

func (s *EnvelopeService) DeleteEnvelope(ctx context.Context, req dto.DeleteEnvelopeRequest) core.Result[dto.DeleteResponse] {
	if failed := mapper.ValidateDeleteEnvelope(&req); failed.HasError() {
		return core.Relay[dto.DeleteResponse](failed)
	}
	normalized := mapper.NormalizeDeleteEnvelope(&req)

	row, err := s.storage.GetEnvelope(ctx, normalized.EnvelopeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return failValidation[dto.DeleteResponse]("envelopeId", msgEnvelopeNotFound)
		}
		return failOperation[dto.DeleteResponse]("delete envelope", err)
	}

	if err := s.storage.SoftDeleteEnvelope(ctx, normalized.EnvelopeID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return failValidation[dto.DeleteResponse]("envelopeId", msgEnvelopeNotFound)
		}
		return failOperation[dto.DeleteResponse]("delete envelope", err)
	}

	s.publishChange(ctx, amqp.EntityEnvelope, row.ID, row.Version+1, amqp.ActionDeleted)
	return core.Ok(dto.DeleteResponse{Deleted: true})
}

func (s *EnvelopeService) AddAmountToEnvelope(ctx context.Context, req dto.AddAmountToEnvelopeRequest) core.Result[dto.EnvelopeResponse] {
	if failed := mapper.ValidateAddAmountToEnvelope(&req); failed.HasError() {
		return core.Relay[dto.EnvelopeResponse](failed)
	}
	normalized := mapper.NormalizeAddAmountToEnvelope(&req)

	amount := core.MoneyFromMonetary(normalized.Amount)
	if amount.HasError() {
		return failValidation[dto.EnvelopeResponse]("amount", "Invalid amount: "+joinMessages(amount.Errors()))
	}

	updated, err := s.storage.AdjustEnvelopeBalance(ctx, normalized.EnvelopeID, amount.Data().Cents())
	if err != nil {
		return s.envelopeStorageFailure(err, "add amount to envelope")
	}

	s.publishChange(ctx, amqp.EntityEnvelope, updated.ID, updated.Version, amqp.ActionUpserted)
	return s.envelopeRowResponse(updated)
}

func (s *EnvelopeService) RemoveAmountFromEnvelope(ctx context.Context, req dto.RemoveAmountFromEnvelopeRequest) core.Result[dto.EnvelopeResponse] {
	if failed := mapper.ValidateRemoveAmountFromEnvelope(&req); failed.HasError() {
		return core.Relay[dto.EnvelopeResponse](failed)
	}
	normalized := mapper.NormalizeRemoveAmountFromEnvelope(&req)

	amount := core.MoneyFromMonetary(normalized.Amount)
	if amount.HasError() {
		return failValidation[dto.EnvelopeResponse]("amount", "Invalid amount: "+joinMessages(amount.Errors()))
	}

	updated, err := s.storage.AdjustEnvelopeBalance(ctx, normalized.EnvelopeID, -amount.Data().Cents())
	if err != nil {
		return s.envelopeStorageFailure(err, "remove amount from envelope")
	}

	s.publishChange(ctx, amqp.EntityEnvelope, updated.ID, updated.Version, amqp.ActionUpserted)
	return s.envelopeRowResponse(updated)
}

func (s *EnvelopeService) TransferBetweenEnvelopes(ctx context.Context, req dto.TransferBetweenEnvelopesRequest) core.Result[dto.TransferResponse] {
	if failed := mapper.ValidateTransferBetweenEnvelopes(&req); failed.HasError() {
		return core.Relay[dto.TransferResponse](failed)
	}
	normalized := mapper.NormalizeTransferBetweenEnvelopes(&req)

	amount := core.MoneyFromMonetary(normalized.Amount)
	if amount.HasError() {
		return failValidation[dto.TransferResponse]("amount", "Invalid amount: "+joinMessages(amount.Errors()))
	}

	// Resolve both rows up front so a missing envelope names the right field.
	if _, err := s.storage.GetEnvelope(ctx, normalized.FromEnvelopeID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return failValidation[dto.TransferResponse]("fromEnvelopeId", msgEnvelopeNotFound)
		}
		return failOperation[dto.TransferResponse]("transfer between envelopes", err)
	}
	if _, err := s.storage.GetEnvelope(ctx, normalized.ToEnvelopeID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return failValidation[dto.TransferResponse]("toEnvelopeId", msgEnvelopeNotFound)
		}
		return failOperation[dto.TransferResponse]("transfer between envelopes", err)
	}

	from, to, err := s.storage.TransferBetweenEnvelopes(ctx, normalized.FromEnvelopeID, normalized.ToEnvelopeID, amount.Data().Cents())
	if err != nil {
		if errors.Is(err, storage.ErrInsufficientBalance) {
			return failValidation[dto.TransferResponse]("amount", msgSourceInsufficiency)
		}
		if errors.Is(err, storage.ErrNotFound) {
			return failValidation[dto.TransferResponse]("fromEnvelopeId", msgEnvelopeNotFound)
		}
		return failOperation[dto.TransferResponse]("transfer between envelopes", err)
	}

	fromEntity := core.RestoreEnvelope(envelopeRecordFromRow(from))
	if fromEntity.HasError() {
		return failOperation[dto.TransferResponse]("transfer between envelopes", errors.Join(fromEntity.Errors()...))
	}
	toEntity := core.RestoreEnvelope(envelopeRecordFromRow(to))
	if toEntity.HasError() {
		return failOperation[dto.TransferResponse]("transfer between envelopes", errors.Join(toEntity.Errors()...))
	}

	s.publishChange(ctx, amqp.EntityEnvelope, from.ID, from.Version, amqp.ActionUpserted)
	s.publishChange(ctx, amqp.EntityEnvelope, to.ID, to.Version, amqp.ActionUpserted)
	return core.Ok(dto.TransferResponse{
		From: mapper.EnvelopeToResponse(fromEntity.Data()),
		To:   mapper.EnvelopeToResponse(toEntity.Data()),
	})
}

// envelopeStorageFailure translates repository sentinels into the gateway
// error taxonomy.
func (s *EnvelopeService) envelopeStorageFailure(err error, operation string) core.Result[dto.EnvelopeResponse] {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return failValidation[dto.EnvelopeResponse]("envelopeId", msgEnvelopeNotFound)
	case errors.Is(err, storage.ErrInsufficientBalance):
		return failValidation[dto.EnvelopeResponse]("amount", msgBalanceExceeded)
	default:
		return failOperation[dto.EnvelopeResponse](operation, err)
	}
}

func (s *EnvelopeService) envelopeRowResponse(row storage.EnvelopeRow) core.Result[dto.EnvelopeResponse] {
	restored := core.RestoreEnvelope(envelopeRecordFromRow(row))
	if restored.HasError() {
		return failOperation[dto.EnvelopeResponse]("load envelope", errors.Join(restored.Errors()...))
	}
	return core.Ok(mapper.EnvelopeToResponse(restored.Data()))
}

func (s *EnvelopeService) publishChange(ctx context.Context, entityType, id string, version int64, action string) {
	publishChange(ctx, s.publisher, entityType, id, version, action)
}

func envelopeRowFromEntity(e *core.Envelope, userID string) storage.EnvelopeRow {
	return storage.EnvelopeRow{
		ID:                  e.ID().String(),
		Name:                e.Name(),
		LimitCents:          e.Limit().Cents(),
		CurrentBalanceCents: e.CurrentBalance().Cents(),
		CategoryID:          e.CategoryID(),
		BudgetID:            e.BudgetID(),
		UserID:              userID,
		Description:         e.Description(),
		IsActive:            e.IsActive(),
		CreatedAt:           e.CreatedAt(),
		Version:             1,
		SyncStatus:          storage.SyncPending,
	}
}

func envelopeRecordFromRow(row storage.EnvelopeRow) core.EnvelopeRecord {
	return core.EnvelopeRecord{
		ID:                  row.ID,
		Name:                row.Name,
		LimitCents:          row.LimitCents,
		CurrentBalanceCents: row.CurrentBalanceCents,
		CategoryID:          row.CategoryID,
		BudgetID:            row.BudgetID,
		Description:         row.Description,
		IsActive:            row.IsActive,
		CreatedAt:           row.CreatedAt,
	}
}
