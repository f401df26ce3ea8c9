package documents

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/samandr77/healthportal/internal/entity"
	"github.com/samandr77/healthportal/internal/session"
)

const (
	bulkOpUpdate = "update"
	bulkOpDelete = "delete"
)

// BulkUpdate applies the same changes to every id concurrently. Per-item failures are collapsed
// into a single *entity.BulkError; items that succeeded stay updated.
func (m *Manager) BulkUpdate(ctx context.Context, ids []string, changes entity.DocumentChanges) error {
	snap := m.sessions.Snapshot()

	if len(ids) == 0 {
		return entity.NewValidationError("documents", "Please select at least one document")
	}

	if changes.File != nil {
		return entity.NewValidationError("file", "A file cannot be attached to several documents at once")
	}

	if changes.IsEmpty() {
		return entity.NewValidationError("changes", "Please choose at least one field to update")
	}

	err := validateChanges(changes)
	if err != nil {
		return err
	}

	err = m.authorizeAll(snap, entity.ActionUpdate, ids)
	if err != nil {
		return err
	}

	return m.runBulk(ctx, bulkOpUpdate, ids, func(ctx context.Context, id string) error {
		doc, err := m.api.UpdateDocument(ctx, id, changes)
		if err != nil {
			return err
		}

		m.upsert(doc)
		m.publish(ctx, snap, entity.EventDocumentUpdated, id, map[string]string{"bulk": "true"})

		return nil
	})
}

// BulkDelete deletes every id concurrently with the same aggregate failure reporting as BulkUpdate.
func (m *Manager) BulkDelete(ctx context.Context, ids []string) error {
	snap := m.sessions.Snapshot()

	if len(ids) == 0 {
		return entity.NewValidationError("documents", "Please select at least one document")
	}

	err := m.authorizeAll(snap, entity.ActionDelete, ids)
	if err != nil {
		return err
	}

	return m.runBulk(ctx, bulkOpDelete, ids, func(ctx context.Context, id string) error {
		return m.delete(ctx, snap, id)
	})
}

func (m *Manager) authorizeAll(snap session.Snapshot, action string, ids []string) error {
	for _, id := range ids {
		err := m.authorizeLocal(snap, action, id)
		if err != nil {
			return err
		}
	}

	return nil
}

// runBulk never cancels siblings on failure: every item gets its own attempt.
func (m *Manager) runBulk(ctx context.Context, op string, ids []string, fn func(context.Context, string) error) error {
	var (
		g      errgroup.Group
		mu     sync.Mutex
		failed int
	)

	g.SetLimit(m.cfg.BulkConcurrency)

	for _, id := range ids {
		g.Go(func() error {
			err := fn(ctx, id)
			if err != nil {
				slog.WarnContext(ctx, "bulk item failed", "op", op, "document_id", id, "error", err)

				mu.Lock()
				failed++
				mu.Unlock()
			}

			return nil
		})
	}

	_ = g.Wait()

	if failed > 0 {
		return &entity.BulkError{Op: op, Total: len(ids), Failed: failed}
	}

	return nil
}
