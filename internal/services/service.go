// Package services implements the gateway ports over SQLite persistence,
// publishing an entity change message after every successful write. A missing
// AMQP client degrades to local-only operation; publish failures are logged
// and never fail the request.
package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"envelopes/internal/amqp"
	"envelopes/internal/core"
)

// Messages surfaced when a referenced row does not exist or a balance rule
// fails. Part of the gateway contract with callers.
const (
	msgEnvelopeNotFound    = "Envelope not found"
	msgGoalNotFound        = "Goal not found"
	msgBalanceExceeded     = "Amount exceeds the current balance"
	msgGoalAmountExceeded  = "Amount exceeds the current amount"
	msgSourceInsufficiency = "Amount exceeds the current balance of the source envelope"
)

func failValidation[T any](field, message string) core.Result[T] {
	return core.Fail[T](core.NewValidationError(field, message))
}

func failOperation[T any](operation string, cause error) core.Result[T] {
	return core.Fail[T](core.NewUnexpectedError(operation, cause))
}

func joinMessages(errs []error) string {
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// parseTargetDate accepts an ISO-8601 timestamp or a bare date; an empty
// string clears the date.
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

// publishChange announces a write on the exchange. A nil publisher is a
// no-op; a publish failure is logged and never fails the request.
func publishChange(ctx context.Context, publisher *amqp.Client, entityType, id string, version int64, action string) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishEntityChange(ctx, entityType, id, version, action); err != nil {
		slog.WarnContext(ctx, "Failed to publish entity change",
			"entityType", entityType, "entityId", id, "action", action, "error", err)
	}
}

func isPastDate(t time.Time) bool {
	dateOnly := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	return dateOnly(t).Before(dateOnly(time.Now()))
}
