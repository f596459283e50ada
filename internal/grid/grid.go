// internal/grid/grid.go
package grid

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/elibest/inventory-backend/internal/models"
	"github.com/elibest/inventory-backend/internal/notify"
)

// Gateway is the persistence façade the grid talks to. Implementations
// never return errors across this boundary: failures surface through
// the Notifier and come back as an empty slice or false.
type Gateway interface {
	FetchByCategory(ctx context.Context, category models.Category) []models.InventoryItem
	Update(ctx context.Context, item models.InventoryItem) bool
}

// Field names an editable cell of a row.
type Field string

const (
	FieldShoeName     Field = "shoe_name"
	FieldSize         Field = "size"
	FieldStock        Field = "stock"
	FieldBuyingPrice  Field = "buying_price"
	FieldSellingPrice Field = "selling_price"
)

// Row wraps a persisted item with its ephemeral view state. Editing is
// purely a rendering concern (which control to show); Dirty is the
// persistence-relevant flag. The two are not mutually exclusive.
type Row struct {
	Item    models.InventoryItem
	Editing bool
	Dirty   bool
}

var ErrRowNotFound = errors.New("row not found")

// Grid owns the in-memory row collection for one category. All methods
// are safe for concurrent use; the sync listener mutates the grid from
// its own goroutine.
type Grid struct {
	mu       sync.Mutex
	category models.Category
	rows     []Row
	gateway  Gateway
	notifier notify.Notifier
	subs     []func()
}

func New(category models.Category, gateway Gateway, notifier notify.Notifier) *Grid {
	return &Grid{
		category: category,
		gateway:  gateway,
		notifier: notifier,
	}
}

func (g *Grid) Category() models.Category {
	return g.category
}

// Subscribe registers an observer invoked after every state mutation.
// This replaces the UI framework's implicit reactive re-render: the
// rendering layer re-draws on notification.
func (g *Grid) Subscribe(fn func()) {
	g.mu.Lock()
	g.subs = append(g.subs, fn)
	g.mu.Unlock()
}

// notifyLocked must be called with g.mu held.
func (g *Grid) notifyLocked() {
	for _, fn := range g.subs {
		fn()
	}
}

// Load fetches the category from the gateway and replaces all rows with
// clean view state.
func (g *Grid) Load(ctx context.Context) {
	items := g.gateway.FetchByCategory(ctx, g.category)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.rows = make([]Row, len(items))
	for i, item := range items {
		g.rows[i] = Row{Item: item}
	}
	g.notifyLocked()
}

// Rows returns a snapshot copy of the current row collection.
func (g *Grid) Rows() []Row {
	g.mu.Lock()
	defer g.mu.Unlock()
	rows := make([]Row, len(g.rows))
	copy(rows, g.rows)
	return rows
}

func (g *Grid) findLocked(id uuid.UUID) *Row {
	for i := range g.rows {
		if g.rows[i].Item.ID == id {
			return &g.rows[i]
		}
	}
	return nil
}

// StartEditing exposes the row's inputs. Idempotent if already editing.
func (g *Grid) StartEditing(id uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	row := g.findLocked(id)
	if row == nil {
		return ErrRowNotFound
	}
	if row.Editing {
		return nil
	}
	row.Editing = true
	g.notifyLocked()
	return nil
}

// SetField applies a single cell edit and marks the row dirty. Editing
// a price recomputes profit locally for immediate display; the store
// remains authoritative and overwrites it after the next save or
// snapshot.
func (g *Grid) SetField(id uuid.UUID, field Field, value interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	row := g.findLocked(id)
	if row == nil {
		return ErrRowNotFound
	}

	switch field {
	case FieldShoeName:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s expects a string", field)
		}
		row.Item.ShoeName = s
	case FieldSize:
		f, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("field %s expects a number", field)
		}
		row.Item.Size = f
	case FieldStock:
		n, ok := toInt(value)
		if !ok {
			return fmt.Errorf("field %s expects an integer", field)
		}
		row.Item.Stock = n
	case FieldBuyingPrice:
		f, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("field %s expects a number", field)
		}
		row.Item.BuyingPrice = f
		row.Item.Profit = row.Item.SellingPrice - row.Item.BuyingPrice
	case FieldSellingPrice:
		f, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("field %s expects a number", field)
		}
		row.Item.SellingPrice = f
		row.Item.Profit = row.Item.SellingPrice - row.Item.BuyingPrice
	default:
		return fmt.Errorf("unknown field %q", field)
	}

	row.Dirty = true
	g.notifyLocked()
	return nil
}

// HasModifications reports whether any row is dirty. Drives the
// save-all affordance and the snapshot merge guard.
func (g *Grid) HasModifications() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hasModificationsLocked()
}

func (g *Grid) hasModificationsLocked() bool {
	for i := range g.rows {
		if g.rows[i].Dirty {
			return true
		}
	}
	return false
}

// AdoptSnapshot proposes a replacement row collection, typically from a
// realtime refresh. The snapshot is discarded entirely while any local
// edit is unsaved: local edits take precedence, all-or-nothing. Returns
// whether the snapshot was adopted.
func (g *Grid) AdoptSnapshot(items []models.InventoryItem) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hasModificationsLocked() {
		return false
	}

	g.rows = make([]Row, len(items))
	for i, item := range items {
		g.rows[i] = Row{Item: item}
	}
	g.notifyLocked()
	return true
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
