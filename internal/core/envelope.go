package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// NearLimitThreshold is the usage ratio at which an envelope counts as near
// its limit.
const NearLimitThreshold = 0.9

const maxNameLength = 100

// Per-field validation messages shared by both aggregates.
var (
	errEmptyName     = errors.New("Name cannot be empty")
	errNameTooLong   = fmt.Errorf("Name cannot exceed %d characters", maxNameLength)
	errEmptyCategory = errors.New("Category ID cannot be empty")
	errEmptyBudget   = errors.New("Budget ID cannot be empty")
)

// Envelope status labels shown to the user.
const (
	EnvelopeStatusAvailable = "Disponível"
	EnvelopeStatusInUse     = "Em Uso"
	EnvelopeStatusNearLimit = "Próximo do Limite"
	EnvelopeStatusOverLimit = "Acima do Limite"
)

// Envelope is a budget sub-allocation: a named spending limit with a
// current balance, tied to one category and one budget. Instances are
// immutable snapshots; balance changes are modeled by the use-case layer
// constructing new state, never by mutating an existing Envelope.
type Envelope struct {
	id             ID
	name           string
	limit          Money
	currentBalance Money
	categoryID     string
	budgetID       string
	description    string
	isActive       bool
	createdAt      time.Time
}

// EnvelopeParams carries the raw inputs for NewEnvelope.
type EnvelopeParams struct {
	Name                string
	LimitCents          int64
	CurrentBalanceCents int64
	CategoryID          string
	BudgetID            string
	Description         string
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errEmptyName
	}
	if len([]rune(trimmed)) > maxNameLength {
		return errNameTooLong
	}
	return nil
}

func validateRequiredID(value string, missing error) error {
	if strings.TrimSpace(value) == "" {
		return missing
	}
	return nil
}

// NewEnvelope validates params and constructs an Envelope with a fresh
// identity. Every failing field is reported; the order is name, limit,
// balance, category, budget.
func NewEnvelope(params EnvelopeParams) Result[*Envelope] {
	var errs []error

	if err := validateName(params.Name); err != nil {
		errs = append(errs, err)
	}

	limit := MoneyFromCents(params.LimitCents)
	if limit.HasError() {
		errs = append(errs, fmt.Errorf("Invalid limit: %w", limit.Errors()[0]))
	}

	balance := MoneyFromCents(params.CurrentBalanceCents)
	if balance.HasError() {
		errs = append(errs, fmt.Errorf("Invalid current balance: %w", balance.Errors()[0]))
	}

	if err := validateRequiredID(params.CategoryID, errEmptyCategory); err != nil {
		errs = append(errs, err)
	}
	if err := validateRequiredID(params.BudgetID, errEmptyBudget); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return Failures[*Envelope](errs)
	}

	return Ok(&Envelope{
		id:             NewID(),
		name:           strings.TrimSpace(params.Name),
		limit:          limit.Data(),
		currentBalance: balance.Data(),
		categoryID:     strings.TrimSpace(params.CategoryID),
		budgetID:       strings.TrimSpace(params.BudgetID),
		description:    params.Description,
		isActive:       true,
		createdAt:      time.Now(),
	})
}

func (e *Envelope) ID() ID                { return e.id }
func (e *Envelope) Name() string          { return e.name }
func (e *Envelope) Limit() Money          { return e.limit }
func (e *Envelope) CurrentBalance() Money { return e.currentBalance }
func (e *Envelope) CategoryID() string    { return e.categoryID }
func (e *Envelope) BudgetID() string      { return e.budgetID }
func (e *Envelope) Description() string   { return e.description }
func (e *Envelope) IsActive() bool        { return e.isActive }
func (e *Envelope) CreatedAt() time.Time  { return e.createdAt }

// RemainingAmount returns limit minus balance, floored at zero.
func (e *Envelope) RemainingAmount() Money {
	remaining := e.limit.Subtract(e.currentBalance)
	if remaining.HasError() {
		return ZeroMoney()
	}
	return remaining.Data()
}

// UsagePercentage returns balance over limit as a percentage clamped to
// [0,100]. A zero limit reads as 0%, never NaN.
func (e *Envelope) UsagePercentage() float64 {
	if e.limit.IsZero() {
		return 0
	}
	pct := float64(e.currentBalance.Cents()) / float64(e.limit.Cents()) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// IsOverLimit reports whether the balance exceeds the limit.
func (e *Envelope) IsOverLimit() bool {
	return e.currentBalance.GreaterThan(e.limit)
}

// IsNearLimit reports whether usage has reached NearLimitThreshold. Always
// false for a zero limit.
func (e *Envelope) IsNearLimit() bool {
	if e.limit.IsZero() {
		return false
	}
	return float64(e.currentBalance.Cents()) >= float64(e.limit.Cents())*NearLimitThreshold
}

// CanAllocate reports whether adding amount would keep the balance within
// the limit.
func (e *Envelope) CanAllocate(amount Money) bool {
	return !e.currentBalance.Add(amount).GreaterThan(e.limit)
}

// StatusLabel maps usage onto the four user-facing tiers: untouched
// envelopes read as available, any spending moves them to in-use, then the
// near-limit threshold and finally over-limit take precedence.
func (e *Envelope) StatusLabel() string {
	switch {
	case e.IsOverLimit():
		return EnvelopeStatusOverLimit
	case e.IsNearLimit():
		return EnvelopeStatusNearLimit
	case e.currentBalance.IsZero():
		return EnvelopeStatusAvailable
	default:
		return EnvelopeStatusInUse
	}
}

type envelopeJSON struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Limit          Money  `json:"limit"`
	CurrentBalance Money  `json:"currentBalance"`
	CategoryID     string `json:"categoryId"`
	BudgetID       string `json:"budgetId"`
	Description    string `json:"description"`
	IsActive       bool   `json:"isActive"`
	CreatedAt      string `json:"createdAt"`
}

// MarshalJSON serializes the envelope in its persistence shape.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelopeJSON{
		ID:             e.id.String(),
		Name:           e.name,
		Limit:          e.limit,
		CurrentBalance: e.currentBalance,
		CategoryID:     e.categoryID,
		BudgetID:       e.budgetID,
		Description:    e.description,
		IsActive:       e.isActive,
		CreatedAt:      e.createdAt.Format(time.RFC3339Nano),
	})
}

// EnvelopeRecord is the flat restore shape shared by the JSON factory and
// storage adapters. Restoring runs the same validators as NewEnvelope so
// stored and fresh entities obey identical rules.
type EnvelopeRecord struct {
	ID                  string
	Name                string
	LimitCents          int64
	CurrentBalanceCents int64
	CategoryID          string
	BudgetID            string
	Description         string
	IsActive            bool
	CreatedAt           time.Time
}

// RestoreEnvelope rebuilds an Envelope from persisted state.
func RestoreEnvelope(record EnvelopeRecord) Result[*Envelope] {
	var errs []error

	id := ParseID(record.ID)
	if id.HasError() {
		errs = append(errs, id.Errors()...)
	}

	if err := validateName(record.Name); err != nil {
		errs = append(errs, err)
	}

	limit := MoneyFromCents(record.LimitCents)
	if limit.HasError() {
		errs = append(errs, fmt.Errorf("Invalid limit: %w", limit.Errors()[0]))
	}

	balance := MoneyFromCents(record.CurrentBalanceCents)
	if balance.HasError() {
		errs = append(errs, fmt.Errorf("Invalid current balance: %w", balance.Errors()[0]))
	}

	if err := validateRequiredID(record.CategoryID, errEmptyCategory); err != nil {
		errs = append(errs, err)
	}
	if err := validateRequiredID(record.BudgetID, errEmptyBudget); err != nil {
		errs = append(errs, err)
	}

	if record.CreatedAt.IsZero() {
		errs = append(errs, errors.New("Invalid createdAt: zero time"))
	}

	if len(errs) > 0 {
		return Failures[*Envelope](errs)
	}

	return Ok(&Envelope{
		id:             id.Data(),
		name:           strings.TrimSpace(record.Name),
		limit:          limit.Data(),
		currentBalance: balance.Data(),
		categoryID:     strings.TrimSpace(record.CategoryID),
		budgetID:       strings.TrimSpace(record.BudgetID),
		description:    record.Description,
		isActive:       record.IsActive,
		createdAt:      record.CreatedAt,
	})
}

type envelopeRawJSON struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Limit          json.RawMessage `json:"limit"`
	CurrentBalance json.RawMessage `json:"currentBalance"`
	CategoryID     string          `json:"categoryId"`
	BudgetID       string          `json:"budgetId"`
	Description    string          `json:"description"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      string          `json:"createdAt"`
}

// EnvelopeFromJSON restores an Envelope from its persistence shape.
func EnvelopeFromJSON(data []byte) Result[*Envelope] {
	var raw envelopeRawJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Fail[*Envelope](fmt.Errorf("decode envelope: %w", err))
	}

	var errs []error

	limit := MoneyFromJSON(raw.Limit)
	if limit.HasError() {
		errs = append(errs, fmt.Errorf("Invalid limit: %w", limit.Errors()[0]))
	}

	balance := MoneyFromJSON(raw.CurrentBalance)
	if balance.HasError() {
		errs = append(errs, fmt.Errorf("Invalid current balance: %w", balance.Errors()[0]))
	}

	createdAt, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
	if err != nil {
		errs = append(errs, fmt.Errorf("Invalid createdAt: %w", err))
	}

	if len(errs) > 0 {
		return Failures[*Envelope](errs)
	}

	return RestoreEnvelope(EnvelopeRecord{
		ID:                  raw.ID,
		Name:                raw.Name,
		LimitCents:          limit.Data().Cents(),
		CurrentBalanceCents: balance.Data().Cents(),
		CategoryID:          raw.CategoryID,
		BudgetID:            raw.BudgetID,
		Description:         raw.Description,
		IsActive:            raw.IsActive,
		CreatedAt:           createdAt,
	})
}
