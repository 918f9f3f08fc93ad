package usecase

import (
	"context"

	"envelopes/internal/core"
	"envelopes/internal/dto"
	"envelopes/internal/mapper"
)

// CreateEnvelope creates a new envelope through the gateway.
type CreateEnvelope struct {
	gateway EnvelopeGateway
}

func NewCreateEnvelope(gateway EnvelopeGateway) *CreateEnvelope {
	return &CreateEnvelope{gateway: gateway}
}

func (uc *CreateEnvelope) Execute(ctx context.Context, req *dto.CreateEnvelopeRequest) core.Result[dto.EnvelopeResponse] {
	return run(ctx, "envelope creation", req,
		mapper.ValidateCreateEnvelope,
		mapper.NormalizeCreateEnvelope,
		uc.gateway.CreateEnvelope,
	)
}

// UpdateEnvelope updates an envelope's name, limit or description.
type UpdateEnvelope struct {
	gateway EnvelopeGateway
}

func NewUpdateEnvelope(gateway EnvelopeGateway) *UpdateEnvelope {
	return &UpdateEnvelope{gateway: gateway}
}

func (uc *UpdateEnvelope) Execute(ctx context.Context, req *dto.UpdateEnvelopeRequest) core.Result[dto.EnvelopeResponse] {
	return run(ctx, "envelope update", req,
		mapper.ValidateUpdateEnvelope,
		mapper.NormalizeUpdateEnvelope,
		uc.gateway.UpdateEnvelope,
	)
}

// DeleteEnvelope removes an envelope.
type DeleteEnvelope struct {
	gateway EnvelopeGateway
}

func NewDeleteEnvelope(gateway EnvelopeGateway) *DeleteEnvelope {
	return &DeleteEnvelope{gateway: gateway}
}

func (uc *DeleteEnvelope) Execute(ctx context.Context, req *dto.DeleteEnvelopeRequest) core.Result[dto.DeleteResponse] {
	return run(ctx, "envelope deletion", req,
		mapper.ValidateDeleteEnvelope,
		mapper.NormalizeDeleteEnvelope,
		uc.gateway.DeleteEnvelope,
	)
}

// AddAmountToEnvelope registers spending against an envelope.
type AddAmountToEnvelope struct {
	gateway EnvelopeGateway
}

func NewAddAmountToEnvelope(gateway EnvelopeGateway) *AddAmountToEnvelope {
	return &AddAmountToEnvelope{gateway: gateway}
}

func (uc *AddAmountToEnvelope) Execute(ctx context.Context, req *dto.AddAmountToEnvelopeRequest) core.Result[dto.EnvelopeResponse] {
	return run(ctx, "envelope amount addition", req,
		mapper.ValidateAddAmountToEnvelope,
		mapper.NormalizeAddAmountToEnvelope,
		uc.gateway.AddAmountToEnvelope,
	)
}

// RemoveAmountFromEnvelope reverses spending on an envelope.
type RemoveAmountFromEnvelope struct {
	gateway EnvelopeGateway
}

func NewRemoveAmountFromEnvelope(gateway EnvelopeGateway) *RemoveAmountFromEnvelope {
	return &RemoveAmountFromEnvelope{gateway: gateway}
}

func (uc *RemoveAmountFromEnvelope) Execute(ctx context.Context, req *dto.RemoveAmountFromEnvelopeRequest) core.Result[dto.EnvelopeResponse] {
	return run(ctx, "envelope amount removal", req,
		mapper.ValidateRemoveAmountFromEnvelope,
		mapper.NormalizeRemoveAmountFromEnvelope,
		uc.gateway.RemoveAmountFromEnvelope,
	)
}

// TransferBetweenEnvelopes moves an amount from one envelope to another.
type TransferBetweenEnvelopes struct {
	gateway EnvelopeGateway
}

func NewTransferBetweenEnvelopes(gateway EnvelopeGateway) *TransferBetweenEnvelopes {
	return &TransferBetweenEnvelopes{gateway: gateway}
}

func (uc *TransferBetweenEnvelopes) Execute(ctx context.Context, req *dto.TransferBetweenEnvelopesRequest) core.Result[dto.TransferResponse] {
	return run(ctx, "envelope transfer", req,
		mapper.ValidateTransferBetweenEnvelopes,
		mapper.NormalizeTransferBetweenEnvelopes,
		uc.gateway.TransferBetweenEnvelopes,
	)
}
