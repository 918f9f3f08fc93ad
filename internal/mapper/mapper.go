// Package mapper validates and normalizes raw request DTOs before they
// reach an entity or a gateway. Validation reports the first failing field
// as a single ValidationError; normalization trims every string field and
// must only run on requests that already validated.
package mapper

import (
	"strings"
	"time"

	"envelopes/internal/core"
)

// ok is the success value every Validate* returns.
var ok = core.Ok(true)

// requireDTO guards against a nil request before any field access.
func requireDTO[T any](req *T) core.Result[bool] {
	if req == nil {
		return core.Fail[bool](core.NewValidationError("dto", "Request DTO is required"))
	}
	return ok
}

func requireString(field, display, value string) core.Result[bool] {
	if strings.TrimSpace(value) == "" {
		return core.Fail[bool](core.NewValidationError(field, display+" is required and must be a non-empty string"))
	}
	return ok
}

func requirePositive(field, display string, value float64) core.Result[bool] {
	if !(value > 0) {
		return core.Fail[bool](core.NewValidationError(field, display+" is required and must be a positive number"))
	}
	return ok
}

func optionalString(field, display string, value *string) core.Result[bool] {
	if value == nil {
		return ok
	}
	return requireString(field, display, *value)
}

func optionalPositive(field, display string, value *float64) core.Result[bool] {
	if value == nil {
		return ok
	}
	return requirePositive(field, display, *value)
}

// firstFailure runs checks in order and returns the first failing one.
func firstFailure(checks ...core.Result[bool]) core.Result[bool] {
	for _, check := range checks {
		if check.HasError() {
			return check
		}
	}
	return ok
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}

// parseTargetDate accepts an ISO-8601 timestamp or a bare date.
func parseTargetDate(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, true
		}
	}
	return nil, false
}

// monetaryToCents converts a monetary request amount into validated cents.
func monetaryToCents(amount float64) core.Result[int64] {
	money := core.MoneyFromMonetary(amount)
	if money.HasError() {
		return core.Relay[int64](money)
	}
	return core.Ok(money.Data().Cents())
}
