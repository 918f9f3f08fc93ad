// Package memory keeps envelopes and goals in process memory behind the same
// gateway ports as the SQLite backend. It is the default backend for local
// runs and tests; nothing survives a restart and nothing is exported.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"envelopes/internal/core"
	"envelopes/internal/dto"
	"envelopes/internal/mapper"
	"envelopes/internal/usecase"
)

// Store holds both aggregates under one lock. Entities are reconstructed
// through the same validators as the persistent path, so both backends
// enforce identical rules.
type Store struct {
	mu        sync.RWMutex
	envelopes map[string]core.EnvelopeRecord
	goals     map[string]core.GoalRecord
}

var (
	_ usecase.EnvelopeGateway = (*Store)(nil)
	_ usecase.GoalGateway     = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		envelopes: make(map[string]core.EnvelopeRecord),
		goals:     make(map[string]core.GoalRecord),
	}
}

func failValidation[T any](field, message string) core.Result[T] {
	return core.Fail[T](core.NewValidationError(field, message))
}

func joinMessages(errs []error) string {
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Envelope operations.

func (s *Store) CreateEnvelope(_ context.Context, req dto.CreateEnvelopeRequest) core.Result[dto.EnvelopeResponse] {
	if failed := mapper.ValidateCreateEnvelope(&req); failed.HasError() {
		return core.Relay[dto.EnvelopeResponse](failed)
	}
	normalized := mapper.NormalizeCreateEnvelope(&req)

	created := mapper.EnvelopeFromCreateRequest(&normalized)
	if created.HasError() {
		return core.Relay[dto.EnvelopeResponse](created)
	}
	envelope := created.Data()

	s.mu.Lock()
	s.envelopes[envelope.ID().String()] = envelopeRecord(envelope)
	s.mu.Unlock()

	return core.Ok(mapper.EnvelopeToResponse(envelope))
}

func (s *Store) UpdateEnvelope(_ context.Context, req dto.UpdateEnvelopeRequest) core.Result[dto.EnvelopeResponse] {
	if failed := mapper.ValidateUpdateEnvelope(&req); failed.HasError() {
		return core.Relay[dto.EnvelopeResponse](failed)
	}
	normalized := mapper.NormalizeUpdateEnvelope(&req)

	s.mu.Lock()
	defer s.mu.Unlock()

	record, found := s.envelopes[normalized.EnvelopeID]
	if !found {
		return failValidation[dto.EnvelopeResponse]("envelopeId", "Envelope not found")
	}

	if normalized.Name != nil {
		record.Name = *normalized.Name
	}
	if normalized.MonthlyLimit != nil {
		limit := core.MoneyFromMonetary(*normalized.MonthlyLimit)
		if limit.HasError() {
			return failValidation[dto.EnvelopeResponse]("monthlyLimit", "Invalid monthly limit: "+joinMessages(limit.Errors()))
		}
		record.LimitCents = limit.Data().Cents()
	}
	if normalized.Description != nil {
		record.Description = *normalized.Description
	}

	restored := core.RestoreEnvelope(record)
	if restored.HasError() {
		return failValidation[dto.EnvelopeResponse]("envelope", "Invalid envelope data: "+joinMessages(restored.Errors()))
	}

	s.envelopes[record.ID] = record
	return core.Ok(mapper.EnvelopeToResponse(restored.Data()))
}

func (s *Store) DeleteEnvelope(_ context.Context, req dto.DeleteEnvelopeRequest) core.Result[dto.DeleteResponse] {
	if failed := mapper.ValidateDeleteEnvelope(&req); failed.HasError() {
		return core.Relay[dto.DeleteResponse](failed)
	}
	normalized := mapper.NormalizeDeleteEnvelope(&req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.envelopes[normalized.EnvelopeID]; !found {
		return failValidation[dto.DeleteResponse]("envelopeId", "Envelope not found")
	}
	delete(s.envelopes, normalized.EnvelopeID)
	return core.Ok(dto.DeleteResponse{Deleted: true})
}

func (s *Store) AddAmountToEnvelope(_ context.Context, req dto.AddAmountToEnvelopeRequest) core.Result[dto.EnvelopeResponse] {
	if failed := mapper.ValidateAddAmountToEnvelope(&req); failed.HasError() {
		return core.Relay[dto.EnvelopeResponse](failed)
	}
	normalized := mapper.NormalizeAddAmountToEnvelope(&req)
	return s.adjustEnvelope(normalized.EnvelopeID, normalized.Amount, +1)
}

func (s *Store) RemoveAmountFromEnvelope(_ context.Context, req dto.RemoveAmountFromEnvelopeRequest) core.Result[dto.EnvelopeResponse] {
	if failed := mapper.ValidateRemoveAmountFromEnvelope(&req); failed.HasError() {
		return core.Relay[dto.EnvelopeResponse](failed)
	}
	normalized := mapper.NormalizeRemoveAmountFromEnvelope(&req)
	return s.adjustEnvelope(normalized.EnvelopeID, normalized.Amount, -1)
}

func (s *Store) adjustEnvelope(id string, amount float64, sign int64) core.Result[dto.EnvelopeResponse] {
	money := core.MoneyFromMonetary(amount)
	if money.HasError() {
		return failValidation[dto.EnvelopeResponse]("amount", "Invalid amount: "+joinMessages(money.Errors()))
	}
	delta := sign * money.Data().Cents()

	s.mu.Lock()
	defer s.mu.Unlock()

	record, found := s.envelopes[id]
	if !found {
		return failValidation[dto.EnvelopeResponse]("envelopeId", "Envelope not found")
	}
	if record.CurrentBalanceCents+delta < 0 {
		return failValidation[dto.EnvelopeResponse]("amount", "Amount exceeds the current balance")
	}
	record.CurrentBalanceCents += delta

	restored := core.RestoreEnvelope(record)
	if restored.HasError() {
		return failValidation[dto.EnvelopeResponse]("envelope", "Invalid envelope data: "+joinMessages(restored.Errors()))
	}
	s.envelopes[id] = record
	return core.Ok(mapper.EnvelopeToResponse(restored.Data()))
}

func (s *Store) TransferBetweenEnvelopes(_ context.Context, req dto.TransferBetweenEnvelopesRequest) core.Result[dto.TransferResponse] {
	if failed := mapper.ValidateTransferBetweenEnvelopes(&req); failed.HasError() {
		return core.Relay[dto.TransferResponse](failed)
	}
	normalized := mapper.NormalizeTransferBetweenEnvelopes(&req)

	money := core.MoneyFromMonetary(normalized.Amount)
	if money.HasError() {
		return failValidation[dto.TransferResponse]("amount", "Invalid amount: "+joinMessages(money.Errors()))
	}
	cents := money.Data().Cents()

	s.mu.Lock()
	defer s.mu.Unlock()

	from, found := s.envelopes[normalized.FromEnvelopeID]
	if !found {
		return failValidation[dto.TransferResponse]("fromEnvelopeId", "Envelope not found")
	}
	to, found := s.envelopes[normalized.ToEnvelopeID]
	if !found {
		return failValidation[dto.TransferResponse]("toEnvelopeId", "Envelope not found")
	}
	if from.CurrentBalanceCents < cents {
		return failValidation[dto.TransferResponse]("amount", "Amount exceeds the current balance of the source envelope")
	}

	from.CurrentBalanceCents -= cents
	to.CurrentBalanceCents += cents

	fromEntity := core.RestoreEnvelope(from)
	toEntity := core.RestoreEnvelope(to)
	if fromEntity.HasError() || toEntity.HasError() {
		return failValidation[dto.TransferResponse]("envelope",
			"Invalid envelope data: "+joinMessages(append(fromEntity.Errors(), toEntity.Errors()...)))
	}

	s.envelopes[from.ID] = from
	s.envelopes[to.ID] = to
	return core.Ok(dto.TransferResponse{
		From: mapper.EnvelopeToResponse(fromEntity.Data()),
		To:   mapper.EnvelopeToResponse(toEntity.Data()),
	})
}

// Goal operations.

func (s *Store) CreateGoal(_ context.Context, req dto.CreateGoalRequest) core.Result[dto.GoalResponse] {
	if failed := mapper.ValidateCreateGoal(&req); failed.HasError() {
		return core.Relay[dto.GoalResponse](failed)
	}
	normalized := mapper.NormalizeCreateGoal(&req)

	created := mapper.GoalFromCreateRequest(&normalized)
	if created.HasError() {
		return core.Relay[dto.GoalResponse](created)
	}
	goal := created.Data()

	s.mu.Lock()
	s.goals[goal.ID().String()] = goalRecord(goal)
	s.mu.Unlock()

	return core.Ok(mapper.GoalToResponse(goal))
}

func (s *Store) UpdateGoal(_ context.Context, req dto.UpdateGoalRequest) core.Result[dto.GoalResponse] {
	if failed := mapper.ValidateUpdateGoal(&req); failed.HasError() {
		return core.Relay[dto.GoalResponse](failed)
	}
	normalized := mapper.NormalizeUpdateGoal(&req)

	s.mu.Lock()
	defer s.mu.Unlock()

	record, found := s.goals[normalized.GoalID]
	if !found {
		return failValidation[dto.GoalResponse]("goalId", "Goal not found")
	}

	if normalized.Name != nil {
		record.Name = *normalized.Name
	}
	if normalized.TargetAmount != nil {
		target := core.MoneyFromMonetary(*normalized.TargetAmount)
		if target.HasError() {
			return failValidation[dto.GoalResponse]("targetAmount", "Invalid target amount: "+joinMessages(target.Errors()))
		}
		record.TargetAmountCents = target.Data().Cents()
	}
	if normalized.TargetDate != nil {
		targetDate, failed := parseUpdateTargetDate(*normalized.TargetDate)
		if failed != nil {
			return core.Fail[dto.GoalResponse](failed)
		}
		record.TargetDate = targetDate
	}
	if normalized.Description != nil {
		record.Description = *normalized.Description
	}
	if normalized.Status != nil {
		record.Status = core.GoalStatus(*normalized.Status)
	}

	restored := core.RestoreGoal(record)
	if restored.HasError() {
		return failValidation[dto.GoalResponse]("goal", "Invalid goal data: "+joinMessages(restored.Errors()))
	}

	s.goals[record.ID] = record
	return core.Ok(mapper.GoalToResponse(restored.Data()))
}

func (s *Store) DeleteGoal(_ context.Context, req dto.DeleteGoalRequest) core.Result[dto.DeleteResponse] {
	if failed := mapper.ValidateDeleteGoal(&req); failed.HasError() {
		return core.Relay[dto.DeleteResponse](failed)
	}
	normalized := mapper.NormalizeDeleteGoal(&req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.goals[normalized.GoalID]; !found {
		return failValidation[dto.DeleteResponse]("goalId", "Goal not found")
	}
	delete(s.goals, normalized.GoalID)
	return core.Ok(dto.DeleteResponse{Deleted: true})
}

func (s *Store) AddAmountToGoal(_ context.Context, req dto.AddAmountToGoalRequest) core.Result[dto.GoalResponse] {
	if failed := mapper.ValidateAddAmountToGoal(&req); failed.HasError() {
		return core.Relay[dto.GoalResponse](failed)
	}
	normalized := mapper.NormalizeAddAmountToGoal(&req)
	return s.adjustGoal(normalized.GoalID, normalized.Amount, +1)
}

func (s *Store) RemoveAmountFromGoal(_ context.Context, req dto.RemoveAmountFromGoalRequest) core.Result[dto.GoalResponse] {
	if failed := mapper.ValidateRemoveAmountFromGoal(&req); failed.HasError() {
		return core.Relay[dto.GoalResponse](failed)
	}
	normalized := mapper.NormalizeRemoveAmountFromGoal(&req)
	return s.adjustGoal(normalized.GoalID, normalized.Amount, -1)
}

func (s *Store) adjustGoal(id string, amount float64, sign int64) core.Result[dto.GoalResponse] {
	money := core.MoneyFromMonetary(amount)
	if money.HasError() {
		return failValidation[dto.GoalResponse]("amount", "Invalid amount: "+joinMessages(money.Errors()))
	}
	delta := sign * money.Data().Cents()

	s.mu.Lock()
	defer s.mu.Unlock()

	record, found := s.goals[id]
	if !found {
		return failValidation[dto.GoalResponse]("goalId", "Goal not found")
	}
	if record.CurrentAmountCents+delta < 0 {
		return failValidation[dto.GoalResponse]("amount", "Amount exceeds the current amount")
	}
	record.CurrentAmountCents += delta

	restored := core.RestoreGoal(record)
	if restored.HasError() {
		return failValidation[dto.GoalResponse]("goal", "Invalid goal data: "+joinMessages(restored.Errors()))
	}
	s.goals[id] = record
	return core.Ok(mapper.GoalToResponse(restored.Data()))
}

// parseUpdateTargetDate handles the optional date on updates: empty clears
// it, a parseable future date sets it.
func parseUpdateTargetDate(value string) (*time.Time, *core.ValidationError) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			if dateOnly(parsed).Before(dateOnly(time.Now())) {
				return nil, core.NewValidationError("targetDate", "Target date cannot be in the past")
			}
			return &parsed, nil
		}
	}
	return nil, core.NewValidationError("targetDate", "Target date must be a valid ISO-8601 date")
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func envelopeRecord(e *core.Envelope) core.EnvelopeRecord {
	return core.EnvelopeRecord{
		ID:                  e.ID().String(),
		Name:                e.Name(),
		LimitCents:          e.Limit().Cents(),
		CurrentBalanceCents: e.CurrentBalance().Cents(),
		CategoryID:          e.CategoryID(),
		BudgetID:            e.BudgetID(),
		Description:         e.Description(),
		IsActive:            e.IsActive(),
		CreatedAt:           e.CreatedAt(),
	}
}

func goalRecord(g *core.Goal) core.GoalRecord {
	return core.GoalRecord{
		ID:                 g.ID().String(),
		Name:               g.Name(),
		TargetAmountCents:  g.TargetAmount().Cents(),
		CurrentAmountCents: g.CurrentAmount().Cents(),
		BudgetID:           g.BudgetID(),
		TargetDate:         g.TargetDate(),
		Description:        g.Description(),
		Status:             g.Status(),
		CreatedAt:          g.CreatedAt(),
	}
}
