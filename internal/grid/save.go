// internal/grid/save.go
package grid

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrValidation = errors.New("validation failed")

// SaveRow validates and persists a single row. On a validation failure
// the row keeps its state (still Editing, still Dirty) and the message
// surfaces through the notifier. On a persistence failure the row stays
// Dirty so the user can retry.
func (g *Grid) SaveRow(ctx context.Context, id uuid.UUID) error {
	g.mu.Lock()
	row := g.findLocked(id)
	if row == nil {
		g.mu.Unlock()
		return ErrRowNotFound
	}
	item := row.Item
	g.mu.Unlock()

	if msg := Validate(item); msg != "" {
		g.notifier.Error(msg)
		return fmt.Errorf("%w: %s", ErrValidation, msg)
	}

	// The network call happens outside the lock; the UI stays
	// interactive while the update is in flight.
	if !g.gateway.Update(ctx, item) {
		return errors.New("update failed")
	}

	g.mu.Lock()
	if row := g.findLocked(id); row != nil {
		row.Editing = false
		row.Dirty = false
		g.notifyLocked()
	}
	g.mu.Unlock()

	g.notifier.Success(fmt.Sprintf("Changes saved for %q", item.ShoeName))
	return nil
}

// SaveAll persists every dirty row as one user action. Validation runs
// over the whole batch first: any failure aborts the entire batch with
// all messages aggregated, and nothing is persisted. This is the one
// place atomicity is enforced locally, even though the per-row updates
// are independent network operations. Under partial transport failure
// the failed rows stay Dirty and the aggregate success count is
// reported anyway.
func (g *Grid) SaveAll(ctx context.Context) (int, error) {
	g.mu.Lock()
	type pending struct {
		id   uuid.UUID
		item Row
	}
	var batch []pending
	for i := range g.rows {
		if g.rows[i].Dirty {
			batch = append(batch, pending{id: g.rows[i].Item.ID, item: g.rows[i]})
		}
	}
	g.mu.Unlock()

	if len(batch) == 0 {
		return 0, nil
	}

	var messages []string
	for _, p := range batch {
		if msg := Validate(p.item.Item); msg != "" {
			messages = append(messages, fmt.Sprintf("%s: %s", p.item.Item.ShoeName, msg))
		}
	}
	if len(messages) > 0 {
		g.notifier.Error("Validation failed: " + strings.Join(messages, ", "))
		return 0, fmt.Errorf("%w: %s", ErrValidation, strings.Join(messages, ", "))
	}

	saved := 0
	for _, p := range batch {
		if !g.gateway.Update(ctx, p.item.Item) {
			continue
		}
		saved++

		g.mu.Lock()
		if row := g.findLocked(p.id); row != nil {
			row.Editing = false
			row.Dirty = false
		}
		g.mu.Unlock()
	}

	g.mu.Lock()
	g.notifyLocked()
	g.mu.Unlock()

	g.notifier.Success(fmt.Sprintf("%d changes saved to database", saved))
	if saved < len(batch) {
		return saved, fmt.Errorf("saved %d of %d rows", saved, len(batch))
	}
	return saved, nil
}
