// Package dto defines the plain request and response records exchanged with
// gateways. Field names and required-ness are part of the wire contract with
// existing adapters and must not drift.
package dto

// Envelope requests.

type CreateEnvelopeRequest struct {
	Name         string  `json:"name"`
	MonthlyLimit float64 `json:"monthlyLimit"`
	BudgetID     string  `json:"budgetId"`
	CategoryID   string  `json:"categoryId"`
	UserID       string  `json:"userId"`
	Description  string  `json:"description,omitempty"`
}

type UpdateEnvelopeRequest struct {
	EnvelopeID   string   `json:"envelopeId"`
	UserID       string   `json:"userId"`
	Name         *string  `json:"name,omitempty"`
	MonthlyLimit *float64 `json:"monthlyLimit,omitempty"`
	Description  *string  `json:"description,omitempty"`
}

type DeleteEnvelopeRequest struct {
	EnvelopeID string `json:"envelopeId"`
	UserID     string `json:"userId"`
}

type AddAmountToEnvelopeRequest struct {
	EnvelopeID string  `json:"envelopeId"`
	Amount     float64 `json:"amount"`
	UserID     string  `json:"userId"`
}

type RemoveAmountFromEnvelopeRequest struct {
	EnvelopeID string  `json:"envelopeId"`
	Amount     float64 `json:"amount"`
	UserID     string  `json:"userId"`
}

type TransferBetweenEnvelopesRequest struct {
	FromEnvelopeID string  `json:"fromEnvelopeId"`
	ToEnvelopeID   string  `json:"toEnvelopeId"`
	Amount         float64 `json:"amount"`
	UserID         string  `json:"userId"`
}

// Goal requests.

type CreateGoalRequest struct {
	Name         string  `json:"name"`
	TargetAmount float64 `json:"targetAmount"`
	BudgetID     string  `json:"budgetId"`
	UserID       string  `json:"userId"`
	TargetDate   string  `json:"targetDate,omitempty"` // ISO-8601, empty for none
	Description  string  `json:"description,omitempty"`
}

type UpdateGoalRequest struct {
	GoalID       string   `json:"goalId"`
	UserID       string   `json:"userId"`
	Name         *string  `json:"name,omitempty"`
	TargetAmount *float64 `json:"targetAmount,omitempty"`
	TargetDate   *string  `json:"targetDate,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Status       *string  `json:"status,omitempty"`
}

type DeleteGoalRequest struct {
	GoalID string `json:"goalId"`
	UserID string `json:"userId"`
}

type AddAmountToGoalRequest struct {
	GoalID string  `json:"goalId"`
	Amount float64 `json:"amount"`
	UserID string  `json:"userId"`
}

type RemoveAmountFromGoalRequest struct {
	GoalID string  `json:"goalId"`
	Amount float64 `json:"amount"`
	UserID string  `json:"userId"`
}

// Responses.

type EnvelopeResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	LimitInCents        int64  `json:"limitInCents"`
	CurrentBalanceCents int64  `json:"currentBalanceInCents"`
	CategoryID          string `json:"categoryId"`
	BudgetID            string `json:"budgetId"`
	Description         string `json:"description"`
	IsActive            bool   `json:"isActive"`
	CreatedAt           string `json:"createdAt"`
}

type GoalResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	TargetAmountCents  int64   `json:"targetAmountInCents"`
	CurrentAmountCents int64   `json:"currentAmountInCents"`
	BudgetID           string  `json:"budgetId"`
	TargetDate         *string `json:"targetDate"`
	Description        string  `json:"description"`
	Status             string  `json:"status"`
	CreatedAt          string  `json:"createdAt"`
}

// TransferResponse reports both envelopes after a transfer.
type TransferResponse struct {
	From EnvelopeResponse `json:"from"`
	To   EnvelopeResponse `json:"to"`
}

// DeleteResponse acknowledges a deletion.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}
