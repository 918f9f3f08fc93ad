package mapper

import (
	"strings"
	"testing"

	"envelopes/internal/core"
	"envelopes/internal/dto"
)

func assertValidationFailure(t *testing.T, r core.Result[bool], field, message string) {
	t.Helper()
	if !r.HasError() {
		t.Fatal("expected validation failure")
	}
	errs := r.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected a single error, got %v", errs)
	}
	ve, isValidation := errs[0].(*core.ValidationError)
	if !isValidation {
		t.Fatalf("expected *core.ValidationError, got %T", errs[0])
	}
	if ve.Field != field {
		t.Fatalf("expected field %q, got %q", field, ve.Field)
	}
	if !strings.Contains(ve.Error(), message) {
		t.Fatalf("expected message containing %q, got %q", message, ve.Error())
	}
}

func validCreateEnvelopeRequest() dto.CreateEnvelopeRequest {
	return dto.CreateEnvelopeRequest{
		Name:         "Food Budget",
		MonthlyLimit: 800.00,
		BudgetID:     "budget-123",
		CategoryID:   "category-food",
		UserID:       "user-1",
	}
}

func TestValidateCreateEnvelope(t *testing.T) {
	req := validCreateEnvelopeRequest()
	if r := ValidateCreateEnvelope(&req); r.HasError() {
		t.Fatalf("valid request must pass, got %v", r.Errors())
	}
}

func TestValidateCreateEnvelopeNilDTO(t *testing.T) {
	assertValidationFailure(t, ValidateCreateEnvelope(nil), "dto", "Request DTO is required")
}

func TestValidateCreateEnvelopeFirstFailingField(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*dto.CreateEnvelopeRequest)
		field   string
		message string
	}{
		{"blank name", func(r *dto.CreateEnvelopeRequest) { r.Name = "  " }, "name", "Name is required and must be a non-empty string"},
		{"zero limit", func(r *dto.CreateEnvelopeRequest) { r.MonthlyLimit = 0 }, "monthlyLimit", "Monthly limit is required and must be a positive number"},
		{"negative limit", func(r *dto.CreateEnvelopeRequest) { r.MonthlyLimit = -5 }, "monthlyLimit", "Monthly limit is required and must be a positive number"},
		{"missing budget", func(r *dto.CreateEnvelopeRequest) { r.BudgetID = "" }, "budgetId", "Budget ID is required"},
		{"missing category", func(r *dto.CreateEnvelopeRequest) { r.CategoryID = "" }, "categoryId", "Category ID is required"},
		{"missing user", func(r *dto.CreateEnvelopeRequest) { r.UserID = "" }, "userId", "User ID is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateEnvelopeRequest()
			tc.mutate(&req)
			assertValidationFailure(t, ValidateCreateEnvelope(&req), tc.field, tc.message)
		})
	}
}

func TestValidateCreateEnvelopeReportsNameBeforeLimit(t *testing.T) {
	req := validCreateEnvelopeRequest()
	req.Name = ""
	req.MonthlyLimit = 0
	assertValidationFailure(t, ValidateCreateEnvelope(&req), "name", "Name is required")
}

func TestNormalizeCreateEnvelopeTrims(t *testing.T) {
	req := dto.CreateEnvelopeRequest{
		Name:         "  Food Budget  ",
		MonthlyLimit: 800,
		BudgetID:     " budget-123 ",
		CategoryID:   "\tcategory-food\n",
		UserID:       " user-1 ",
		Description:  "  groceries  ",
	}
	got := NormalizeCreateEnvelope(&req)
	if got.Name != "Food Budget" || got.BudgetID != "budget-123" ||
		got.CategoryID != "category-food" || got.UserID != "user-1" ||
		got.Description != "groceries" {
		t.Fatalf("strings must be trimmed, got %+v", got)
	}
	if got.MonthlyLimit != 800 {
		t.Fatal("numeric fields pass through unchanged")
	}
}

func TestValidateTransferBetweenEnvelopes(t *testing.T) {
	valid := dto.TransferBetweenEnvelopesRequest{
		FromEnvelopeID: "env-1",
		ToEnvelopeID:   "env-2",
		Amount:         50,
		UserID:         "user-1",
	}
	if r := ValidateTransferBetweenEnvelopes(&valid); r.HasError() {
		t.Fatalf("valid transfer must pass, got %v", r.Errors())
	}

	same := valid
	same.ToEnvelopeID = "env-1"
	assertValidationFailure(t, ValidateTransferBetweenEnvelopes(&same), "toEnvelopeId", "must differ from the source")

	zero := valid
	zero.Amount = 0
	assertValidationFailure(t, ValidateTransferBetweenEnvelopes(&zero), "amount", "Amount is required and must be a positive number")

	assertValidationFailure(t, ValidateTransferBetweenEnvelopes(nil), "dto", "Request DTO is required")
}

func TestValidateUpdateEnvelopeOptionalFields(t *testing.T) {
	req := dto.UpdateEnvelopeRequest{EnvelopeID: "env-1", UserID: "user-1"}
	if r := ValidateUpdateEnvelope(&req); r.HasError() {
		t.Fatalf("update with no optional fields must pass, got %v", r.Errors())
	}

	blank := ""
	req.Name = &blank
	assertValidationFailure(t, ValidateUpdateEnvelope(&req), "name", "Name is required")

	req.Name = nil
	negative := -1.0
	req.MonthlyLimit = &negative
	assertValidationFailure(t, ValidateUpdateEnvelope(&req), "monthlyLimit", "positive number")
}

func TestValidateAmountRequests(t *testing.T) {
	add := dto.AddAmountToEnvelopeRequest{EnvelopeID: "env-1", Amount: 25, UserID: "user-1"}
	if r := ValidateAddAmountToEnvelope(&add); r.HasError() {
		t.Fatalf("valid add must pass, got %v", r.Errors())
	}
	add.Amount = 0
	assertValidationFailure(t, ValidateAddAmountToEnvelope(&add), "amount", "Amount is required and must be a positive number")

	remove := dto.RemoveAmountFromEnvelopeRequest{EnvelopeID: "env-1", Amount: -3, UserID: "user-1"}
	assertValidationFailure(t, ValidateRemoveAmountFromEnvelope(&remove), "amount", "Amount is required and must be a positive number")
}

func TestEnvelopeFromCreateRequest(t *testing.T) {
	req := validCreateEnvelopeRequest()
	r := EnvelopeFromCreateRequest(&req)
	if r.HasError() {
		t.Fatalf("expected envelope, got %v", r.Errors())
	}
	envelope := r.Data()
	if envelope.Limit().Cents() != 80000 {
		t.Fatalf("expected limit 80000 cents, got %d", envelope.Limit().Cents())
	}
	if !envelope.CurrentBalance().IsZero() {
		t.Fatal("new envelopes start with a zero balance")
	}
	if envelope.Name() != "Food Budget" {
		t.Fatalf("unexpected name %q", envelope.Name())
	}
}

func TestEnvelopeFromCreateRequestWrapsEntityErrors(t *testing.T) {
	req := validCreateEnvelopeRequest()
	req.Name = strings.Repeat("x", 101)
	r := EnvelopeFromCreateRequest(&req)
	if !r.HasError() {
		t.Fatal("expected failure")
	}
	errs := r.Errors()
	if len(errs) != 1 {
		t.Fatalf("entity errors collapse into one ValidationError, got %v", errs)
	}
	ve, isValidation := errs[0].(*core.ValidationError)
	if !isValidation {
		t.Fatalf("expected *core.ValidationError, got %T", errs[0])
	}
	if !strings.Contains(ve.Error(), "Name cannot exceed 100 characters") {
		t.Fatalf("underlying message must be embedded, got %q", ve.Error())
	}
}
