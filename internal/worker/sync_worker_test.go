package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"paire/internal/amqp"
	"paire/internal/core"
)

type fakeStore struct {
	txs      map[string]core.Transaction
	pending  []core.Transaction
	synced   []string
	imported []core.Transaction
}

func (s *fakeStore) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	tx, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return tx, nil
}

func (s *fakeStore) ListPendingSync(_ context.Context, limit int) ([]core.Transaction, error) {
	if limit > len(s.pending) {
		limit = len(s.pending)
	}
	return s.pending[:limit], nil
}

func (s *fakeStore) MarkSynced(_ context.Context, id string) error {
	s.synced = append(s.synced, id)
	return nil
}

func (s *fakeStore) ImportTransactions(_ context.Context, txs []core.Transaction) error {
	s.imported = append(s.imported, txs...)
	return nil
}

type fakeRemote struct {
	created   []string
	deleted   []string
	restored  []string
	listed    []core.Transaction
	createErr error
}

func (r *fakeRemote) ListTransactions(_ context.Context, _ core.Window) ([]core.Transaction, error) {
	return r.listed, nil
}

func (r *fakeRemote) CreateTransaction(_ context.Context, tx core.Transaction) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	r.created = append(r.created, tx.ID)
	return tx.ID, nil
}

func (r *fakeRemote) DeleteTransaction(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeRemote) RestoreTransaction(_ context.Context, id string) error {
	r.restored = append(r.restored, id)
	return nil
}

func sampleTx(id string) core.Transaction {
	return core.Transaction{
		ID:       id,
		Type:     core.Expense,
		Amount:   core.Money{Cents: 1000},
		Category: "food",
		Date:     core.NewDate(2024, 1, 5),
	}
}

func TestHandleSyncMessageCreate(t *testing.T) {
	store := &fakeStore{txs: map[string]core.Transaction{"t1": sampleTx("t1")}}
	remote := &fakeRemote{}
	w := NewMirrorWorker(store, remote, 10)

	msg := &amqp.TransactionSyncMessage{ID: "t1", Op: amqp.OpCreate}
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(remote.created) != 1 || remote.created[0] != "t1" {
		t.Fatalf("remote create not called: %v", remote.created)
	}
	if len(store.synced) != 1 || store.synced[0] != "t1" {
		t.Fatalf("transaction not marked synced: %v", store.synced)
	}
}

func TestHandleSyncMessageMissingTransaction(t *testing.T) {
	store := &fakeStore{txs: map[string]core.Transaction{}}
	remote := &fakeRemote{}
	w := NewMirrorWorker(store, remote, 10)

	// Record deleted before the worker caught up, message is acked.
	msg := &amqp.TransactionSyncMessage{ID: "gone", Op: amqp.OpCreate}
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("missing transaction should not error: %v", err)
	}
	if len(remote.created) != 0 {
		t.Fatalf("nothing should be pushed: %v", remote.created)
	}
}

func TestHandleSyncMessageDeleteAndRestore(t *testing.T) {
	store := &fakeStore{}
	remote := &fakeRemote{}
	w := NewMirrorWorker(store, remote, 10)
	ctx := context.Background()

	if err := w.HandleSyncMessage(ctx, &amqp.TransactionSyncMessage{ID: "t1", Op: amqp.OpDelete}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := w.HandleSyncMessage(ctx, &amqp.TransactionSyncMessage{ID: "t1", Op: amqp.OpRestore}); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if len(remote.deleted) != 1 || remote.deleted[0] != "t1" {
		t.Fatalf("delete not mirrored: %v", remote.deleted)
	}
	if len(remote.restored) != 1 || remote.restored[0] != "t1" {
		t.Fatalf("restore not mirrored: %v", remote.restored)
	}
}

func TestHandleSyncMessageUnknownOpDropped(t *testing.T) {
	w := NewMirrorWorker(&fakeStore{}, &fakeRemote{}, 10)

	msg := &amqp.TransactionSyncMessage{ID: "t1", Op: "upsert"}
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("unknown op should be dropped without error: %v", err)
	}
}

func TestProcessPending(t *testing.T) {
	store := &fakeStore{pending: []core.Transaction{sampleTx("p1"), sampleTx("p2")}}
	remote := &fakeRemote{}
	w := NewMirrorWorker(store, remote, 10)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if len(remote.created) != 2 {
		t.Fatalf("created = %v, want 2 pushes", remote.created)
	}
	if len(store.synced) != 2 {
		t.Fatalf("synced = %v, want 2", store.synced)
	}
}

func TestProcessPendingRespectsBatchSize(t *testing.T) {
	store := &fakeStore{pending: []core.Transaction{sampleTx("p1"), sampleTx("p2"), sampleTx("p3")}}
	remote := &fakeRemote{}
	w := NewMirrorWorker(store, remote, 2)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if len(remote.created) != 2 {
		t.Fatalf("created = %v, want batch of 2", remote.created)
	}
}

func TestProcessPendingReportsFailures(t *testing.T) {
	store := &fakeStore{pending: []core.Transaction{sampleTx("p1")}}
	remote := &fakeRemote{createErr: errors.New("api down")}
	w := NewMirrorWorker(store, remote, 10)

	if err := w.ProcessPending(context.Background()); err == nil {
		t.Fatalf("expected error when pushes fail")
	}
	if len(store.synced) != 0 {
		t.Fatalf("failed pushes must not be marked synced: %v", store.synced)
	}
}

func TestRefreshImportsRemoteTransactions(t *testing.T) {
	store := &fakeStore{}
	remote := &fakeRemote{listed: []core.Transaction{sampleTx("r1"), sampleTx("r2")}}
	w := NewMirrorWorker(store, remote, 10)

	if err := w.Refresh(context.Background(), core.MonthWindow(2024, 1)); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(store.imported) != 2 {
		t.Fatalf("imported = %d, want 2", len(store.imported))
	}
}

func TestRefreshSkipsImportWhenEmpty(t *testing.T) {
	store := &fakeStore{}
	remote := &fakeRemote{}
	w := NewMirrorWorker(store, remote, 10)

	if err := w.Refresh(context.Background(), core.MonthWindow(2024, 1)); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if store.imported != nil {
		t.Fatalf("no import expected for empty window")
	}
}
