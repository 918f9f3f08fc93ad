package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"envelopes/internal/amqp"
	"envelopes/internal/core"
	"envelopes/internal/sheets/memory"
	"envelopes/internal/storage"
)

func newTestRepository(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func insertTestEnvelope(t *testing.T, repo *storage.SQLiteRepository) storage.EnvelopeRow {
	t.Helper()
	row := storage.EnvelopeRow{
		ID:                  uuid.NewString(),
		Name:                "Groceries",
		LimitCents:          80000,
		CurrentBalanceCents: 35000,
		CategoryID:          "category-food",
		BudgetID:            "budget-1",
		UserID:              "user-1",
		IsActive:            true,
		CreatedAt:           time.Now().UTC(),
	}
	if err := repo.InsertEnvelope(context.Background(), row); err != nil {
		t.Fatalf("InsertEnvelope: %v", err)
	}
	return row
}

func insertTestGoal(t *testing.T, repo *storage.SQLiteRepository) storage.GoalRow {
	t.Helper()
	row := storage.GoalRow{
		ID:                 uuid.NewString(),
		Name:               "Emergency fund",
		TargetAmountCents:  500000,
		CurrentAmountCents: 125000,
		BudgetID:           "budget-1",
		UserID:             "user-1",
		Status:             "ACTIVE",
		CreatedAt:          time.Now().UTC(),
	}
	if err := repo.InsertGoal(context.Background(), row); err != nil {
		t.Fatalf("InsertGoal: %v", err)
	}
	return row
}

func TestHandleChangeMessage_ExportsEnvelope(t *testing.T) {
	repo := newTestRepository(t)
	store := memory.New()
	w := NewSyncWorker(repo, store, 10)
	ctx := context.Background()
	row := insertTestEnvelope(t, repo)

	msg := amqp.NewEntityChangeMessage(amqp.EntityEnvelope, row.ID, 1, amqp.ActionUpserted)
	if err := w.HandleChangeMessage(ctx, msg); err != nil {
		t.Fatalf("HandleChangeMessage: %v", err)
	}

	envelopes := store.Envelopes()
	if len(envelopes) != 1 {
		t.Fatalf("exported %d envelopes, want 1", len(envelopes))
	}
	if got := envelopes[0].Name(); got != "Groceries" {
		t.Errorf("exported name = %q, want Groceries", got)
	}

	synced, err := repo.GetEnvelope(ctx, row.ID)
	if err != nil {
		t.Fatalf("GetEnvelope: %v", err)
	}
	if synced.SyncStatus != storage.SyncDone {
		t.Errorf("SyncStatus = %q, want %q", synced.SyncStatus, storage.SyncDone)
	}
}

func TestHandleChangeMessage_SkipsDeletions(t *testing.T) {
	repo := newTestRepository(t)
	store := memory.New()
	w := NewSyncWorker(repo, store, 10)

	msg := amqp.NewEntityChangeMessage(amqp.EntityGoal, uuid.NewString(), 2, amqp.ActionDeleted)
	if err := w.HandleChangeMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleChangeMessage: %v", err)
	}
	if len(store.Goals()) != 0 {
		t.Error("deletion must not export a snapshot")
	}
}

func TestHandleChangeMessage_VanishedRow(t *testing.T) {
	repo := newTestRepository(t)
	w := NewSyncWorker(repo, memory.New(), 10)

	msg := amqp.NewEntityChangeMessage(amqp.EntityEnvelope, uuid.NewString(), 1, amqp.ActionUpserted)
	if err := w.HandleChangeMessage(context.Background(), msg); err != nil {
		t.Fatalf("a missing row must be acknowledged, got %v", err)
	}
}

func TestHandleChangeMessage_UnknownEntityType(t *testing.T) {
	repo := newTestRepository(t)
	w := NewSyncWorker(repo, memory.New(), 10)

	msg := &amqp.EntityChangeMessage{EntityType: "budget", EntityID: uuid.NewString(), Version: 1, Action: amqp.ActionUpserted}
	if err := w.HandleChangeMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error for unknown entity type")
	}
}

func TestProcessPendingChanges(t *testing.T) {
	repo := newTestRepository(t)
	store := memory.New()
	w := NewSyncWorker(repo, store, 10)
	ctx := context.Background()

	insertTestEnvelope(t, repo)
	insertTestGoal(t, repo)

	if err := w.ProcessPendingChanges(ctx); err != nil {
		t.Fatalf("ProcessPendingChanges: %v", err)
	}
	if len(store.Envelopes()) != 1 || len(store.Goals()) != 1 {
		t.Errorf("exported %d envelopes / %d goals, want 1/1", len(store.Envelopes()), len(store.Goals()))
	}

	pending, err := repo.GetPendingChanges(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingChanges: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("%d changes still pending, want 0", len(pending))
	}
}

func TestStartupSyncCheck(t *testing.T) {
	repo := newTestRepository(t)
	store := memory.New()
	w := NewSyncWorker(repo, store, 2)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		insertTestEnvelope(t, repo)
	}

	// Batch size is 2 but startup drains batchSize*5.
	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}
	if got := len(store.Envelopes()); got != 3 {
		t.Errorf("exported %d envelopes, want 3", got)
	}
}

// brokenWriter simulates an unreachable export target.
type brokenWriter struct{}

var errUnreachable = errors.New("snapshot target unreachable")

func (brokenWriter) AppendEnvelope(context.Context, *core.Envelope) (string, error) {
	return "", errUnreachable
}

func (brokenWriter) AppendGoal(context.Context, *core.Goal) (string, error) {
	return "", errUnreachable
}

func TestExportFailureMarksSyncError(t *testing.T) {
	repo := newTestRepository(t)
	w := NewSyncWorker(repo, brokenWriter{}, 10)
	ctx := context.Background()
	row := insertTestEnvelope(t, repo)

	msg := amqp.NewEntityChangeMessage(amqp.EntityEnvelope, row.ID, 1, amqp.ActionUpserted)
	if err := w.HandleChangeMessage(ctx, msg); err == nil {
		t.Fatal("expected export failure")
	}

	failed, err := repo.GetEnvelope(ctx, row.ID)
	if err != nil {
		t.Fatalf("GetEnvelope: %v", err)
	}
	if failed.SyncStatus != storage.SyncError {
		t.Errorf("SyncStatus = %q, want %q", failed.SyncStatus, storage.SyncError)
	}
}
