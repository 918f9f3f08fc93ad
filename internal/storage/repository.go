package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Sync statuses tracked per row.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

var (
	ErrNotFound            = errors.New("row not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// EnvelopeRow is the persisted shape of an envelope.
type EnvelopeRow struct {
	ID                  string
	Name                string
	LimitCents          int64
	CurrentBalanceCents int64
	CategoryID          string
	BudgetID            string
	UserID              string
	Description         string
	IsActive            bool
	CreatedAt           time.Time
	Version             int64
	SyncStatus          string
}

// GoalRow is the persisted shape of a goal.
type GoalRow struct {
	ID                 string
	Name               string
	TargetAmountCents  int64
	CurrentAmountCents int64
	BudgetID           string
	UserID             string
	TargetDate         *time.Time
	Description        string
	Status             string
	CreatedAt          time.Time
	Version            int64
	SyncStatus         string
}

// PendingChange identifies a row that has not been exported yet.
type PendingChange struct {
	EntityType string
	ID         string
	Version    int64
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const envelopeColumns = `id, name, limit_cents, current_balance_cents, category_id, budget_id,
	user_id, description, is_active, created_at, version, sync_status`

func scanEnvelope(row *sql.Row) (EnvelopeRow, error) {
	var e EnvelopeRow
	var createdAt string
	err := row.Scan(&e.ID, &e.Name, &e.LimitCents, &e.CurrentBalanceCents, &e.CategoryID,
		&e.BudgetID, &e.UserID, &e.Description, &e.IsActive, &createdAt, &e.Version, &e.SyncStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return EnvelopeRow{}, ErrNotFound
	}
	if err != nil {
		return EnvelopeRow{}, fmt.Errorf("scan envelope: %w", err)
	}
	e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return EnvelopeRow{}, fmt.Errorf("parse created_at: %w", err)
	}
	return e, nil
}

// InsertEnvelope stores a new envelope row at version 1, pending sync.
func (r *SQLiteRepository) InsertEnvelope(ctx context.Context, e EnvelopeRow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO envelopes (id, name, limit_cents, current_balance_cents, category_id,
			budget_id, user_id, description, is_active, created_at, version, sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		e.ID, e.Name, e.LimitCents, e.CurrentBalanceCents, e.CategoryID,
		e.BudgetID, e.UserID, e.Description, e.IsActive,
		e.CreatedAt.Format(time.RFC3339Nano), SyncPending)
	if err != nil {
		return fmt.Errorf("insert envelope: %w", err)
	}

	slog.InfoContext(ctx, "Envelope saved to SQLite",
		"id", e.ID, "name", e.Name, "limit_cents", e.LimitCents)
	return nil
}

// GetEnvelope returns an envelope that has not been deleted.
func (r *SQLiteRepository) GetEnvelope(ctx context.Context, id string) (EnvelopeRow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+envelopeColumns+`
		FROM envelopes WHERE id = ? AND deleted_at IS NULL`, id)
	return scanEnvelope(row)
}

// UpdateEnvelope overwrites the mutable fields, bumps the version and
// flags the row for export. The updated row is returned.
func (r *SQLiteRepository) UpdateEnvelope(ctx context.Context, e EnvelopeRow) (EnvelopeRow, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE envelopes
		SET name = ?, limit_cents = ?, current_balance_cents = ?, description = ?,
			is_active = ?, version = version + 1, sync_status = ?
		WHERE id = ? AND deleted_at IS NULL`,
		e.Name, e.LimitCents, e.CurrentBalanceCents, e.Description,
		e.IsActive, SyncPending, e.ID)
	if err != nil {
		return EnvelopeRow{}, fmt.Errorf("update envelope: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return EnvelopeRow{}, ErrNotFound
	}
	return r.GetEnvelope(ctx, e.ID)
}

// SoftDeleteEnvelope marks the row deleted; it keeps the data for audits.
func (r *SQLiteRepository) SoftDeleteEnvelope(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE envelopes
		SET deleted_at = ?, is_active = 0, version = version + 1, sync_status = ?
		WHERE id = ? AND deleted_at IS NULL`,
		time.Now().Format(time.RFC3339Nano), SyncDone, id)
	if err != nil {
		return fmt.Errorf("soft delete envelope: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Envelope soft deleted", "id", id)
	return nil
}

// AdjustEnvelopeBalance applies a signed delta to the balance inside a
// transaction. A delta that would push the balance below zero fails with
// ErrInsufficientBalance and leaves the row untouched.
func (r *SQLiteRepository) AdjustEnvelopeBalance(ctx context.Context, id string, deltaCents int64) (EnvelopeRow, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return EnvelopeRow{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := adjustBalanceTx(ctx, tx, id, deltaCents); err != nil {
		return EnvelopeRow{}, err
	}
	if err := tx.Commit(); err != nil {
		return EnvelopeRow{}, fmt.Errorf("commit tx: %w", err)
	}
	return r.GetEnvelope(ctx, id)
}

// TransferBetweenEnvelopes moves cents from one envelope to another
// atomically. The source must hold at least the transferred amount.
func (r *SQLiteRepository) TransferBetweenEnvelopes(ctx context.Context, fromID, toID string, cents int64) (EnvelopeRow, EnvelopeRow, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return EnvelopeRow{}, EnvelopeRow{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := adjustBalanceTx(ctx, tx, fromID, -cents); err != nil {
		return EnvelopeRow{}, EnvelopeRow{}, err
	}
	if err := adjustBalanceTx(ctx, tx, toID, cents); err != nil {
		return EnvelopeRow{}, EnvelopeRow{}, err
	}
	if err := tx.Commit(); err != nil {
		return EnvelopeRow{}, EnvelopeRow{}, fmt.Errorf("commit tx: %w", err)
	}

	from, err := r.GetEnvelope(ctx, fromID)
	if err != nil {
		return EnvelopeRow{}, EnvelopeRow{}, err
	}
	to, err := r.GetEnvelope(ctx, toID)
	if err != nil {
		return EnvelopeRow{}, EnvelopeRow{}, err
	}
	return from, to, nil
}

func adjustBalanceTx(ctx context.Context, tx *sql.Tx, id string, deltaCents int64) error {
	var balance int64
	err := tx.QueryRowContext(ctx, `
		SELECT current_balance_cents FROM envelopes
		WHERE id = ? AND deleted_at IS NULL`, id).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read balance: %w", err)
	}
	if balance+deltaCents < 0 {
		return ErrInsufficientBalance
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE envelopes
		SET current_balance_cents = current_balance_cents + ?,
			version = version + 1, sync_status = ?
		WHERE id = ?`, deltaCents, SyncPending, id)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	return nil
}

const goalColumns = `id, name, target_amount_cents, current_amount_cents, budget_id,
	user_id, target_date, description, status, created_at, version, sync_status`

func scanGoal(row *sql.Row) (GoalRow, error) {
	var g GoalRow
	var createdAt string
	var targetDate sql.NullString
	err := row.Scan(&g.ID, &g.Name, &g.TargetAmountCents, &g.CurrentAmountCents, &g.BudgetID,
		&g.UserID, &targetDate, &g.Description, &g.Status, &createdAt, &g.Version, &g.SyncStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return GoalRow{}, ErrNotFound
	}
	if err != nil {
		return GoalRow{}, fmt.Errorf("scan goal: %w", err)
	}
	g.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return GoalRow{}, fmt.Errorf("parse created_at: %w", err)
	}
	if targetDate.Valid {
		parsed, err := time.Parse(time.RFC3339Nano, targetDate.String)
		if err != nil {
			return GoalRow{}, fmt.Errorf("parse target_date: %w", err)
		}
		g.TargetDate = &parsed
	}
	return g, nil
}

// InsertGoal stores a new goal row at version 1, pending sync.
func (r *SQLiteRepository) InsertGoal(ctx context.Context, g GoalRow) error {
	var targetDate any
	if g.TargetDate != nil {
		targetDate = g.TargetDate.Format(time.RFC3339Nano)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, name, target_amount_cents, current_amount_cents, budget_id,
			user_id, target_date, description, status, created_at, version, sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		g.ID, g.Name, g.TargetAmountCents, g.CurrentAmountCents, g.BudgetID,
		g.UserID, targetDate, g.Description, g.Status,
		g.CreatedAt.Format(time.RFC3339Nano), SyncPending)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal saved to SQLite",
		"id", g.ID, "name", g.Name, "target_amount_cents", g.TargetAmountCents)
	return nil
}

// GetGoal returns a goal that has not been deleted.
func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (GoalRow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+goalColumns+`
		FROM goals WHERE id = ? AND deleted_at IS NULL`, id)
	return scanGoal(row)
}

// UpdateGoal overwrites the mutable fields, bumps the version and flags the
// row for export. The updated row is returned.
func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g GoalRow) (GoalRow, error) {
	var targetDate any
	if g.TargetDate != nil {
		targetDate = g.TargetDate.Format(time.RFC3339Nano)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE goals
		SET name = ?, target_amount_cents = ?, current_amount_cents = ?, target_date = ?,
			description = ?, status = ?, version = version + 1, sync_status = ?
		WHERE id = ? AND deleted_at IS NULL`,
		g.Name, g.TargetAmountCents, g.CurrentAmountCents, targetDate,
		g.Description, g.Status, SyncPending, g.ID)
	if err != nil {
		return GoalRow{}, fmt.Errorf("update goal: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return GoalRow{}, ErrNotFound
	}
	return r.GetGoal(ctx, g.ID)
}

// SoftDeleteGoal marks the row deleted.
func (r *SQLiteRepository) SoftDeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE goals
		SET deleted_at = ?, version = version + 1, sync_status = ?
		WHERE id = ? AND deleted_at IS NULL`,
		time.Now().Format(time.RFC3339Nano), SyncDone, id)
	if err != nil {
		return fmt.Errorf("soft delete goal: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Goal soft deleted", "id", id)
	return nil
}

// AdjustGoalAmount applies a signed delta to the saved amount inside a
// transaction, mirroring AdjustEnvelopeBalance.
func (r *SQLiteRepository) AdjustGoalAmount(ctx context.Context, id string, deltaCents int64) (GoalRow, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return GoalRow{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var amount int64
	err = tx.QueryRowContext(ctx, `
		SELECT current_amount_cents FROM goals
		WHERE id = ? AND deleted_at IS NULL`, id).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return GoalRow{}, ErrNotFound
	}
	if err != nil {
		return GoalRow{}, fmt.Errorf("read amount: %w", err)
	}
	if amount+deltaCents < 0 {
		return GoalRow{}, ErrInsufficientBalance
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE goals
		SET current_amount_cents = current_amount_cents + ?,
			version = version + 1, sync_status = ?
		WHERE id = ?`, deltaCents, SyncPending, id)
	if err != nil {
		return GoalRow{}, fmt.Errorf("adjust amount: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return GoalRow{}, fmt.Errorf("commit tx: %w", err)
	}
	return r.GetGoal(ctx, id)
}

// GetPendingChanges returns rows of both entity types that still need to be
// exported, oldest first.
func (r *SQLiteRepository) GetPendingChanges(ctx context.Context, limit int) ([]PendingChange, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT 'envelope' AS entity_type, id, version, created_at
		FROM envelopes WHERE sync_status = ? AND deleted_at IS NULL
		UNION ALL
		SELECT 'goal' AS entity_type, id, version, created_at
		FROM goals WHERE sync_status = ? AND deleted_at IS NULL
		ORDER BY created_at
		LIMIT ?`, SyncPending, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending changes: %w", err)
	}
	defer rows.Close()

	var pending []PendingChange
	for rows.Next() {
		var p PendingChange
		var createdAt string
		if err := rows.Scan(&p.EntityType, &p.ID, &p.Version, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pending change: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkSynced records a successful export of the given row.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, entityType, id string) error {
	return r.setSyncStatus(ctx, entityType, id, SyncDone)
}

// MarkSyncError records a failed export of the given row.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, entityType, id string) error {
	return r.setSyncStatus(ctx, entityType, id, SyncError)
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, entityType, id, status string) error {
	var table string
	switch entityType {
	case "envelope":
		table = "envelopes"
	case "goal":
		table = "goals"
	default:
		return fmt.Errorf("unknown entity type: %q", entityType)
	}
	_, err := r.db.ExecContext(ctx, `UPDATE `+table+` SET sync_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set sync status: %w", err)
	}
	return nil
}
