// Package worker exports pending envelope and goal rows to the snapshot
// sheet. It consumes entity change messages from AMQP and sweeps the pending
// queue as a backup for lost messages.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"envelopes/internal/amqp"
	"envelopes/internal/core"
	"envelopes/internal/sheets"
	"envelopes/internal/storage"
)

// SyncWorker moves rows marked sync-pending in SQLite onto the snapshot
// writer and records the outcome on each row.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	snapshots sheets.SnapshotWriter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, snapshots sheets.SnapshotWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		snapshots: snapshots,
		batchSize: batchSize,
	}
}

// HandleChangeMessage processes one entity change message from AMQP.
// Deletions carry no exportable state, so they are acknowledged and skipped.
func (w *SyncWorker) HandleChangeMessage(ctx context.Context, msg *amqp.EntityChangeMessage) error {
	slog.InfoContext(ctx, "Processing change message",
		"entityType", msg.EntityType,
		"entityId", msg.EntityID,
		"version", msg.Version,
		"action", msg.Action)

	if msg.Action == amqp.ActionDeleted {
		slog.DebugContext(ctx, "Skipping deleted entity", "entityId", msg.EntityID)
		return nil
	}
	return w.exportEntity(ctx, msg.EntityType, msg.EntityID)
}

// ProcessPendingChanges sweeps up to batchSize rows that have not been
// exported yet. It is the backup path for lost AMQP messages.
func (w *SyncWorker) ProcessPendingChanges(ctx context.Context) error {
	pending, err := w.storage.GetPendingChanges(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending changes: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending changes", "count", len(pending))
	for _, change := range pending {
		if err := w.exportEntity(ctx, change.EntityType, change.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending entity",
				"entityType", change.EntityType, "entityId", change.ID, "error", err)
		}
	}
	return nil
}

// StartupSyncCheck drains a larger pending backlog once, so the worker
// recovers from downtime before it starts consuming.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingChanges(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending changes for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending changes found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending changes on startup, processing...", "count", len(pending))

	successCount := 0
	errorCount := 0
	for _, change := range pending {
		if err := w.exportEntity(ctx, change.EntityType, change.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export entity during startup",
				"entityType", change.EntityType, "entityId", change.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)
	return nil
}

// exportEntity loads a row, reconstructs the entity through the domain
// validators and appends a snapshot. Rows deleted between the message and
// the read are acknowledged silently.
func (w *SyncWorker) exportEntity(ctx context.Context, entityType, id string) error {
	var ref string
	var err error

	switch entityType {
	case amqp.EntityEnvelope:
		ref, err = w.exportEnvelope(ctx, id)
	case amqp.EntityGoal:
		ref, err = w.exportGoal(ctx, id)
	default:
		return fmt.Errorf("unknown entity type %q", entityType)
	}

	if errors.Is(err, storage.ErrNotFound) {
		slog.WarnContext(ctx, "Entity vanished before export, skipping",
			"entityType", entityType, "entityId", id)
		return nil
	}
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, entityType, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "entityId", id, "error", markErr)
		}
		return fmt.Errorf("export %s: %w", entityType, err)
	}

	if err := w.storage.MarkSynced(ctx, entityType, id); err != nil {
		// The snapshot landed; only the bookkeeping failed.
		slog.ErrorContext(ctx, "Failed to mark as synced", "entityId", id, "error", err)
	}

	slog.InfoContext(ctx, "Successfully exported entity",
		"entityType", entityType,
		"entityId", id,
		"sheets_ref", ref)
	return nil
}

func (w *SyncWorker) exportEnvelope(ctx context.Context, id string) (string, error) {
	row, err := w.storage.GetEnvelope(ctx, id)
	if err != nil {
		return "", err
	}

	restored := core.RestoreEnvelope(core.EnvelopeRecord{
		ID:                  row.ID,
		Name:                row.Name,
		LimitCents:          row.LimitCents,
		CurrentBalanceCents: row.CurrentBalanceCents,
		CategoryID:          row.CategoryID,
		BudgetID:            row.BudgetID,
		Description:         row.Description,
		IsActive:            row.IsActive,
		CreatedAt:           row.CreatedAt,
	})
	if restored.HasError() {
		return "", fmt.Errorf("restore envelope: %w", errors.Join(restored.Errors()...))
	}
	return w.snapshots.AppendEnvelope(ctx, restored.Data())
}

func (w *SyncWorker) exportGoal(ctx context.Context, id string) (string, error) {
	row, err := w.storage.GetGoal(ctx, id)
	if err != nil {
		return "", err
	}

	restored := core.RestoreGoal(core.GoalRecord{
		ID:                 row.ID,
		Name:               row.Name,
		TargetAmountCents:  row.TargetAmountCents,
		CurrentAmountCents: row.CurrentAmountCents,
		BudgetID:           row.BudgetID,
		TargetDate:         row.TargetDate,
		Description:        row.Description,
		Status:             core.GoalStatus(row.Status),
		CreatedAt:          row.CreatedAt,
	})
	if restored.HasError() {
		return "", fmt.Errorf("restore goal: %w", errors.Join(restored.Errors()...))
	}
	return w.snapshots.AppendGoal(ctx, restored.Data())
}
