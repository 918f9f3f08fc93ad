package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// GoalStatus enumerates the lifecycle states a goal can be in.
type GoalStatus string

const (
	GoalActive    GoalStatus = "ACTIVE"
	GoalPaused    GoalStatus = "PAUSED"
	GoalCompleted GoalStatus = "COMPLETED"
	GoalCancelled GoalStatus = "CANCELLED"
)

// Goal status labels shown to the user.
const (
	GoalStatusLabelActive    = "Ativa"
	GoalStatusLabelPaused    = "Pausada"
	GoalStatusLabelCompleted = "Concluída"
	GoalStatusLabelCancelled = "Cancelada"
)

var (
	errPastTargetDate   = errors.New("Target date cannot be in the past")
	errInvalidGoalState = errors.New("Invalid goal status")
)

// Goal is a savings target tracked against a budget, with an optional
// deadline. Like Envelope it is an immutable snapshot; amount changes flow
// through use-cases, not entity mutation.
type Goal struct {
	id            ID
	name          string
	targetAmount  Money
	currentAmount Money
	budgetID      string
	targetDate    *time.Time
	description   string
	status        GoalStatus
	createdAt     time.Time
}

// GoalParams carries the raw inputs for NewGoal.
type GoalParams struct {
	Name               string
	TargetAmountCents  int64
	CurrentAmountCents int64
	BudgetID           string
	TargetDate         *time.Time
	Description        string
	Status             GoalStatus
}

// dateOnly strips the time-of-day so deadline comparisons ignore clocks.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func validateTargetDate(target *time.Time) error {
	if target == nil {
		return nil
	}
	if dateOnly(*target).Before(dateOnly(time.Now())) {
		return errPastTargetDate
	}
	return nil
}

func validateGoalStatus(status GoalStatus) error {
	switch status {
	case GoalActive, GoalPaused, GoalCompleted, GoalCancelled:
		return nil
	default:
		return errInvalidGoalState
	}
}

// NewGoal validates params and constructs a Goal with a fresh identity.
// An empty status defaults to ACTIVE. Every failing field is reported; the
// order is name, target amount, current amount, budget, target date, status.
func NewGoal(params GoalParams) Result[*Goal] {
	status := params.Status
	if status == "" {
		status = GoalActive
	}

	var errs []error

	if err := validateName(params.Name); err != nil {
		errs = append(errs, err)
	}

	target := MoneyFromCents(params.TargetAmountCents)
	if target.HasError() {
		errs = append(errs, fmt.Errorf("Invalid target amount: %w", target.Errors()[0]))
	}

	current := MoneyFromCents(params.CurrentAmountCents)
	if current.HasError() {
		errs = append(errs, fmt.Errorf("Invalid current amount: %w", current.Errors()[0]))
	}

	if err := validateRequiredID(params.BudgetID, errEmptyBudget); err != nil {
		errs = append(errs, err)
	}
	if err := validateTargetDate(params.TargetDate); err != nil {
		errs = append(errs, err)
	}
	if err := validateGoalStatus(status); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return Failures[*Goal](errs)
	}

	var targetDate *time.Time
	if params.TargetDate != nil {
		copied := *params.TargetDate
		targetDate = &copied
	}

	return Ok(&Goal{
		id:            NewID(),
		name:          strings.TrimSpace(params.Name),
		targetAmount:  target.Data(),
		currentAmount: current.Data(),
		budgetID:      strings.TrimSpace(params.BudgetID),
		targetDate:    targetDate,
		description:   params.Description,
		status:        status,
		createdAt:     time.Now(),
	})
}

func (g *Goal) ID() ID               { return g.id }
func (g *Goal) Name() string         { return g.name }
func (g *Goal) TargetAmount() Money  { return g.targetAmount }
func (g *Goal) CurrentAmount() Money { return g.currentAmount }
func (g *Goal) BudgetID() string     { return g.budgetID }
func (g *Goal) Description() string  { return g.description }
func (g *Goal) Status() GoalStatus   { return g.status }
func (g *Goal) CreatedAt() time.Time { return g.createdAt }

// TargetDate returns a copy of the deadline, or nil when the goal has none.
func (g *Goal) TargetDate() *time.Time {
	if g.targetDate == nil {
		return nil
	}
	copied := *g.targetDate
	return &copied
}

// RemainingAmount returns target minus current, floored at zero.
func (g *Goal) RemainingAmount() Money {
	remaining := g.targetAmount.Subtract(g.currentAmount)
	if remaining.HasError() {
		return ZeroMoney()
	}
	return remaining.Data()
}

// ProgressPercentage returns current over target as a percentage clamped to
// [0,100]. A zero target reads as 0%.
func (g *Goal) ProgressPercentage() float64 {
	if g.targetAmount.IsZero() {
		return 0
	}
	pct := float64(g.currentAmount.Cents()) / float64(g.targetAmount.Cents()) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// IsCompleted reports whether the goal was marked COMPLETED or the saved
// amount has reached the target.
func (g *Goal) IsCompleted() bool {
	if g.status == GoalCompleted {
		return true
	}
	return !g.currentAmount.LessThan(g.targetAmount)
}

// IsOverdue reports whether the deadline has passed without completion.
// Such goals only exist when restored from storage; NewGoal rejects past
// deadlines.
func (g *Goal) IsOverdue() bool {
	if g.targetDate == nil || g.IsCompleted() {
		return false
	}
	return dateOnly(*g.targetDate).Before(dateOnly(time.Now()))
}

// DaysUntilTarget returns the calendar-day distance to the deadline,
// negative once it has passed, or nil for goals without one.
func (g *Goal) DaysUntilTarget() *int {
	if g.targetDate == nil {
		return nil
	}
	// Rounding absorbs the odd-length days DST transitions produce.
	days := int(math.Round(dateOnly(*g.targetDate).Sub(dateOnly(time.Now())).Hours() / 24))
	return &days
}

// MonthlyTargetAmount returns how much must be saved per month to reach the
// target by the deadline: the remaining amount divided by the calendar
// months left, floored to at least one month. Nil for goals without a
// deadline.
func (g *Goal) MonthlyTargetAmount() *Money {
	if g.targetDate == nil {
		return nil
	}
	now := time.Now()
	months := (g.targetDate.Year()-now.Year())*12 + int(g.targetDate.Month()-now.Month())
	if months < 1 {
		months = 1
	}
	monthly := Money{cents: g.RemainingAmount().Cents() / int64(months)}
	return &monthly
}

// StatusLabel maps the status enum onto its user-facing label.
func (g *Goal) StatusLabel() string {
	switch g.status {
	case GoalPaused:
		return GoalStatusLabelPaused
	case GoalCompleted:
		return GoalStatusLabelCompleted
	case GoalCancelled:
		return GoalStatusLabelCancelled
	default:
		return GoalStatusLabelActive
	}
}

type goalJSON struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  Money   `json:"targetAmount"`
	CurrentAmount Money   `json:"currentAmount"`
	BudgetID      string  `json:"budgetId"`
	TargetDate    *string `json:"targetDate"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
}

// MarshalJSON serializes the goal in its persistence shape. The target date
// is a nullable ISO-8601 string.
func (g *Goal) MarshalJSON() ([]byte, error) {
	var targetDate *string
	if g.targetDate != nil {
		formatted := g.targetDate.Format(time.RFC3339Nano)
		targetDate = &formatted
	}
	return json.Marshal(goalJSON{
		ID:            g.id.String(),
		Name:          g.name,
		TargetAmount:  g.targetAmount,
		CurrentAmount: g.currentAmount,
		BudgetID:      g.budgetID,
		TargetDate:    targetDate,
		Description:   g.description,
		Status:        string(g.status),
		CreatedAt:     g.createdAt.Format(time.RFC3339Nano),
	})
}

// GoalRecord is the flat restore shape shared by the JSON factory and
// storage adapters. Historical goals may carry deadlines that have since
// passed, so unlike NewGoal the target date is not checked against today;
// every other validator is shared.
type GoalRecord struct {
	ID                 string
	Name               string
	TargetAmountCents  int64
	CurrentAmountCents int64
	BudgetID           string
	TargetDate         *time.Time
	Description        string
	Status             GoalStatus
	CreatedAt          time.Time
}

// RestoreGoal rebuilds a Goal from persisted state.
func RestoreGoal(record GoalRecord) Result[*Goal] {
	var errs []error

	id := ParseID(record.ID)
	if id.HasError() {
		errs = append(errs, id.Errors()...)
	}

	if err := validateName(record.Name); err != nil {
		errs = append(errs, err)
	}

	target := MoneyFromCents(record.TargetAmountCents)
	if target.HasError() {
		errs = append(errs, fmt.Errorf("Invalid target amount: %w", target.Errors()[0]))
	}

	current := MoneyFromCents(record.CurrentAmountCents)
	if current.HasError() {
		errs = append(errs, fmt.Errorf("Invalid current amount: %w", current.Errors()[0]))
	}

	if err := validateRequiredID(record.BudgetID, errEmptyBudget); err != nil {
		errs = append(errs, err)
	}
	if err := validateGoalStatus(record.Status); err != nil {
		errs = append(errs, err)
	}

	if record.CreatedAt.IsZero() {
		errs = append(errs, errors.New("Invalid createdAt: zero time"))
	}

	if len(errs) > 0 {
		return Failures[*Goal](errs)
	}

	var targetDate *time.Time
	if record.TargetDate != nil {
		copied := *record.TargetDate
		targetDate = &copied
	}

	return Ok(&Goal{
		id:            id.Data(),
		name:          strings.TrimSpace(record.Name),
		targetAmount:  target.Data(),
		currentAmount: current.Data(),
		budgetID:      strings.TrimSpace(record.BudgetID),
		targetDate:    targetDate,
		description:   record.Description,
		status:        record.Status,
		createdAt:     record.CreatedAt,
	})
}

type goalRawJSON struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  json.RawMessage `json:"targetAmount"`
	CurrentAmount json.RawMessage `json:"currentAmount"`
	BudgetID      string          `json:"budgetId"`
	TargetDate    *string         `json:"targetDate"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"createdAt"`
}

// GoalFromJSON restores a Goal from its persistence shape.
func GoalFromJSON(data []byte) Result[*Goal] {
	var raw goalRawJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Fail[*Goal](fmt.Errorf("decode goal: %w", err))
	}

	var errs []error

	target := MoneyFromJSON(raw.TargetAmount)
	if target.HasError() {
		errs = append(errs, fmt.Errorf("Invalid target amount: %w", target.Errors()[0]))
	}

	current := MoneyFromJSON(raw.CurrentAmount)
	if current.HasError() {
		errs = append(errs, fmt.Errorf("Invalid current amount: %w", current.Errors()[0]))
	}

	var targetDate *time.Time
	if raw.TargetDate != nil {
		parsed, err := time.Parse(time.RFC3339Nano, *raw.TargetDate)
		if err != nil {
			errs = append(errs, fmt.Errorf("Invalid target date: %w", err))
		} else {
			targetDate = &parsed
		}
	}

	createdAt, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
	if err != nil {
		errs = append(errs, fmt.Errorf("Invalid createdAt: %w", err))
	}

	if len(errs) > 0 {
		return Failures[*Goal](errs)
	}

	return RestoreGoal(GoalRecord{
		ID:                 raw.ID,
		Name:               raw.Name,
		TargetAmountCents:  target.Data().Cents(),
		CurrentAmountCents: current.Data().Cents(),
		BudgetID:           raw.BudgetID,
		TargetDate:         targetDate,
		Description:        raw.Description,
		Status:             GoalStatus(raw.Status),
		CreatedAt:          createdAt,
	})
}
