package mapper

import (
	"time"

	"envelopes/internal/core"
	"envelopes/internal/dto"
)

// EnvelopeToResponse flattens an entity into the gateway response shape.
func EnvelopeToResponse(e *core.Envelope) dto.EnvelopeResponse {
	return dto.EnvelopeResponse{
		ID:                  e.ID().String(),
		Name:                e.Name(),
		LimitInCents:        e.Limit().Cents(),
		CurrentBalanceCents: e.CurrentBalance().Cents(),
		CategoryID:          e.CategoryID(),
		BudgetID:            e.BudgetID(),
		Description:         e.Description(),
		IsActive:            e.IsActive(),
		CreatedAt:           e.CreatedAt().Format(time.RFC3339Nano),
	}
}

// GoalToResponse flattens an entity into the gateway response shape.
func GoalToResponse(g *core.Goal) dto.GoalResponse {
	var targetDate *string
	if td := g.TargetDate(); td != nil {
		formatted := td.Format(time.RFC3339Nano)
		targetDate = &formatted
	}
	return dto.GoalResponse{
		ID:                 g.ID().String(),
		Name:               g.Name(),
		TargetAmountCents:  g.TargetAmount().Cents(),
		CurrentAmountCents: g.CurrentAmount().Cents(),
		BudgetID:           g.BudgetID(),
		TargetDate:         targetDate,
		Description:        g.Description(),
		Status:             string(g.Status()),
		CreatedAt:          g.CreatedAt().Format(time.RFC3339Nano),
	}
}
