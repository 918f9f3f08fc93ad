package mapper

import (
	"strings"

	"envelopes/internal/core"
	"envelopes/internal/dto"
)

// ValidateCreateEnvelope checks a create request field by field.
func ValidateCreateEnvelope(req *dto.CreateEnvelopeRequest) core.Result[bool] {
	if guard := requireDTO(req); guard.HasError() {
		return guard
	}
	return firstFailure(
		requireString("name", "Name", req.Name),
		requirePositive("monthlyLimit", "Monthly limit", req.MonthlyLimit),
		requireString("budgetId", "Budget ID", req.BudgetID),
		requireString("categoryId", "Category ID", req.CategoryID),
		requireString("userId", "User ID", req.UserID),
	)
}

// NormalizeCreateEnvelope trims every string field. Call only after
// validation succeeds.
func NormalizeCreateEnvelope(req *dto.CreateEnvelopeRequest) dto.CreateEnvelopeRequest {
	return dto.CreateEnvelopeRequest{
		Name:         strings.TrimSpace(req.Name),
		MonthlyLimit: req.MonthlyLimit,
		BudgetID:     strings.TrimSpace(req.BudgetID),
		CategoryID:   strings.TrimSpace(req.CategoryID),
		UserID:       strings.TrimSpace(req.UserID),
		Description:  strings.TrimSpace(req.Description),
	}
}

// ValidateUpdateEnvelope checks an update request. Optional fields are only
// validated when present.
func ValidateUpdateEnvelope(req *dto.UpdateEnvelopeRequest) core.Result[bool] {
	if guard := requireDTO(req); guard.HasError() {
		return guard
	}
	return firstFailure(
		requireString("envelopeId", "Envelope ID", req.EnvelopeID),
		requireString("userId", "User ID", req.UserID),
		optionalString("name", "Name", req.Name),
		optionalPositive("monthlyLimit", "Monthly limit", req.MonthlyLimit),
	)
}

func NormalizeUpdateEnvelope(req *dto.UpdateEnvelopeRequest) dto.UpdateEnvelopeRequest {
	return dto.UpdateEnvelopeRequest{
		EnvelopeID:   strings.TrimSpace(req.EnvelopeID),
		UserID:       strings.TrimSpace(req.UserID),
		Name:         trimPtr(req.Name),
		MonthlyLimit: req.MonthlyLimit,
		Description:  trimPtr(req.Description),
	}
}

func ValidateDeleteEnvelope(req *dto.DeleteEnvelopeRequest) core.Result[bool] {
	if guard := requireDTO(req); guard.HasError() {
		return guard
	}
	return firstFailure(
		requireString("envelopeId", "Envelope ID", req.EnvelopeID),
		requireString("userId", "User ID", req.UserID),
	)
}

func NormalizeDeleteEnvelope(req *dto.DeleteEnvelopeRequest) dto.DeleteEnvelopeRequest {
	return dto.DeleteEnvelopeRequest{
		EnvelopeID: strings.TrimSpace(req.EnvelopeID),
		UserID:     strings.TrimSpace(req.UserID),
	}
}

func ValidateAddAmountToEnvelope(req *dto.AddAmountToEnvelopeRequest) core.Result[bool] {
	if guard := requireDTO(req); guard.HasError() {
		return guard
	}
	return firstFailure(
		requireString("envelopeId", "Envelope ID", req.EnvelopeID),
		requirePositive("amount", "Amount", req.Amount),
		requireString("userId", "User ID", req.UserID),
	)
}

func NormalizeAddAmountToEnvelope(req *dto.AddAmountToEnvelopeRequest) dto.AddAmountToEnvelopeRequest {
	return dto.AddAmountToEnvelopeRequest{
		EnvelopeID: strings.TrimSpace(req.EnvelopeID),
		Amount:     req.Amount,
		UserID:     strings.TrimSpace(req.UserID),
	}
}

func ValidateRemoveAmountFromEnvelope(req *dto.RemoveAmountFromEnvelopeRequest) core.Result[bool] {
	if guard := requireDTO(req); guard.HasError() {
		return guard
	}
	return firstFailure(
		requireString("envelopeId", "Envelope ID", req.EnvelopeID),
		requirePositive("amount", "Amount", req.Amount),
		requireString("userId", "User ID", req.UserID),
	)
}

func NormalizeRemoveAmountFromEnvelope(req *dto.RemoveAmountFromEnvelopeRequest) dto.RemoveAmountFromEnvelopeRequest {
	return dto.RemoveAmountFromEnvelopeRequest{
		EnvelopeID: strings.TrimSpace(req.EnvelopeID),
		Amount:     req.Amount,
		UserID:     strings.TrimSpace(req.UserID),
	}
}

// ValidateTransferBetweenEnvelopes additionally refuses transfers from an
// envelope to itself.
func ValidateTransferBetweenEnvelopes(req *dto.TransferBetweenEnvelopesRequest) core.Result[bool] {
	if guard := requireDTO(req); guard.HasError() {
		return guard
	}
	if failed := firstFailure(
		requireString("fromEnvelopeId", "Source envelope ID", req.FromEnvelopeID),
		requireString("toEnvelopeId", "Destination envelope ID", req.ToEnvelopeID),
		requirePositive("amount", "Amount", req.Amount),
		requireString("userId", "User ID", req.UserID),
	); failed.HasError() {
		return failed
	}
	if strings.TrimSpace(req.FromEnvelopeID) == strings.TrimSpace(req.ToEnvelopeID) {
		return core.Fail[bool](core.NewValidationError("toEnvelopeId", "Destination envelope must differ from the source"))
	}
	return ok
}

func NormalizeTransferBetweenEnvelopes(req *dto.TransferBetweenEnvelopesRequest) dto.TransferBetweenEnvelopesRequest {
	return dto.TransferBetweenEnvelopesRequest{
		FromEnvelopeID: strings.TrimSpace(req.FromEnvelopeID),
		ToEnvelopeID:   strings.TrimSpace(req.ToEnvelopeID),
		Amount:         req.Amount,
		UserID:         strings.TrimSpace(req.UserID),
	}
}

// EnvelopeFromCreateRequest builds the aggregate from a validated request,
// collapsing any entity-level failure into a single ValidationError that
// joins the underlying messages.
func EnvelopeFromCreateRequest(req *dto.CreateEnvelopeRequest) core.Result[*core.Envelope] {
	if guard := requireDTO(req); guard.HasError() {
		return core.Relay[*core.Envelope](guard)
	}
	normalized := NormalizeCreateEnvelope(req)

	limitCents := monetaryToCents(normalized.MonthlyLimit)
	if limitCents.HasError() {
		return core.Fail[*core.Envelope](core.NewValidationError("monthlyLimit", "Invalid monthly limit: "+joinErrors(limitCents.Errors())))
	}

	created := core.NewEnvelope(core.EnvelopeParams{
		Name:                normalized.Name,
		LimitCents:          limitCents.Data(),
		CurrentBalanceCents: 0,
		CategoryID:          normalized.CategoryID,
		BudgetID:            normalized.BudgetID,
		Description:         normalized.Description,
	})
	if created.HasError() {
		return core.Fail[*core.Envelope](core.NewValidationError("envelope", "Invalid envelope data: "+joinErrors(created.Errors())))
	}
	return created
}

func joinErrors(errs []error) string {
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}
