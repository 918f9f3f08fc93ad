// Package usecase exposes one application operation per type, all following
// the same shape: validate the request through the aggregate's mapper,
// normalize it, delegate to the injected gateway and pass its Result
// through. No error ever crosses a use-case boundary as a panic.
package usecase

import (
	"context"

	"envelopes/internal/core"
	"envelopes/internal/dto"
)

// EnvelopeGateway is the outbound port for envelope operations. Adapters
// cross process boundaries (storage, network), so every call takes a
// context and reports through a Result rather than panicking.
type EnvelopeGateway interface {
	CreateEnvelope(ctx context.Context, req dto.CreateEnvelopeRequest) core.Result[dto.EnvelopeResponse]
	UpdateEnvelope(ctx context.Context, req dto.UpdateEnvelopeRequest) core.Result[dto.EnvelopeResponse]
	DeleteEnvelope(ctx context.Context, req dto.DeleteEnvelopeRequest) core.Result[dto.DeleteResponse]
	AddAmountToEnvelope(ctx context.Context, req dto.AddAmountToEnvelopeRequest) core.Result[dto.EnvelopeResponse]
	RemoveAmountFromEnvelope(ctx context.Context, req dto.RemoveAmountFromEnvelopeRequest) core.Result[dto.EnvelopeResponse]
	TransferBetweenEnvelopes(ctx context.Context, req dto.TransferBetweenEnvelopesRequest) core.Result[dto.TransferResponse]
}

// GoalGateway is the outbound port for goal operations.
type GoalGateway interface {
	CreateGoal(ctx context.Context, req dto.CreateGoalRequest) core.Result[dto.GoalResponse]
	UpdateGoal(ctx context.Context, req dto.UpdateGoalRequest) core.Result[dto.GoalResponse]
	DeleteGoal(ctx context.Context, req dto.DeleteGoalRequest) core.Result[dto.DeleteResponse]
	AddAmountToGoal(ctx context.Context, req dto.AddAmountToGoalRequest) core.Result[dto.GoalResponse]
	RemoveAmountFromGoal(ctx context.Context, req dto.RemoveAmountFromGoalRequest) core.Result[dto.GoalResponse]
}
