// internal/grid/grid_test.go
package grid

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elibest/inventory-backend/internal/models"
	"github.com/elibest/inventory-backend/internal/notify"
)

// fakeGateway is an in-memory Gateway honoring the façade contract:
// no errors cross the boundary, failures come back as sentinels.
type fakeGateway struct {
	mu          sync.Mutex
	items       []models.InventoryItem
	failUpdates map[uuid.UUID]bool
	updates     []models.InventoryItem
	fetchCalls  int
}

func (f *fakeGateway) FetchByCategory(ctx context.Context, category models.Category) []models.InventoryItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	var out []models.InventoryItem
	for _, item := range f.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

func (f *fakeGateway) Update(ctx context.Context, item models.InventoryItem) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdates[item.ID] {
		return false
	}
	f.updates = append(f.updates, item)
	for i := range f.items {
		if f.items[i].ID == item.ID {
			item.Profit = item.SellingPrice - item.BuyingPrice
			f.items[i] = item
		}
	}
	return true
}

func newItem(name string, category models.Category) models.InventoryItem {
	item := models.InventoryItem{
		ShoeName:     name,
		Size:         42,
		Category:     category,
		Stock:        10,
		BuyingPrice:  1000,
		SellingPrice: 1500,
		Profit:       500,
	}
	item.ID = uuid.New()
	return item
}

func newTestGrid(t *testing.T, items ...models.InventoryItem) (*Grid, *fakeGateway, *notify.Recorder) {
	t.Helper()
	gw := &fakeGateway{items: items, failUpdates: make(map[uuid.UUID]bool)}
	rec := &notify.Recorder{}
	g := New(models.CategoryMen, gw, rec)
	g.Load(context.Background())
	return g, gw, rec
}

func TestLoadCreatesCleanRows(t *testing.T) {
	a := newItem("Air Max", models.CategoryMen)
	b := newItem("Jordan", models.CategoryMen)
	other := newItem("Heels", models.CategoryWomen)

	g, _, _ := newTestGrid(t, a, b, other)

	rows := g.Rows()
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.False(t, row.Editing)
		assert.False(t, row.Dirty)
	}
	assert.False(t, g.HasModifications())
}

func TestStartEditingIsIdempotent(t *testing.T) {
	a := newItem("Air Max", models.CategoryMen)
	g, _, _ := newTestGrid(t, a)

	require.NoError(t, g.StartEditing(a.ID))
	require.NoError(t, g.StartEditing(a.ID))

	rows := g.Rows()
	assert.True(t, rows[0].Editing)
	// Editing alone is a rendering concern; the row is not dirty yet.
	assert.False(t, rows[0].Dirty)
	assert.False(t, g.HasModifications())
}

func TestStartEditingUnknownRow(t *testing.T) {
	g, _, _ := newTestGrid(t, newItem("Air Max", models.CategoryMen))
	assert.ErrorIs(t, g.StartEditing(uuid.New()), ErrRowNotFound)
}

func TestSetFieldMarksDirty(t *testing.T) {
	a := newItem("Air Max", models.CategoryMen)
	g, _, _ := newTestGrid(t, a)

	require.NoError(t, g.StartEditing(a.ID))
	require.NoError(t, g.SetField(a.ID, FieldStock, 25))

	rows := g.Rows()
	assert.Equal(t, 25, rows[0].Item.Stock)
	assert.True(t, rows[0].Dirty)
	assert.True(t, rows[0].Editing)
	assert.True(t, g.HasModifications())
}

func TestSetFieldRecomputesProfitOnPriceEdit(t *testing.T) {
	a := newItem("Air Max", models.CategoryMen)
	g, _, _ := newTestGrid(t, a)

	require.NoError(t, g.SetField(a.ID, FieldSellingPrice, 2000.0))
	assert.Equal(t, 1000.0, g.Rows()[0].Item.Profit)

	require.NoError(t, g.SetField(a.ID, FieldBuyingPrice, 1200.0))
	assert.Equal(t, 800.0, g.Rows()[0].Item.Profit)
}

func TestSetFieldNonPriceEditLeavesProfit(t *testing.T) {
	a := newItem("Air Max", models.CategoryMen)
	g, _, _ := newTestGrid(t, a)

	require.NoError(t, g.SetField(a.ID, FieldShoeName, "Air Max 95"))
	assert.Equal(t, 500.0, g.Rows()[0].Item.Profit)
}

func TestSetFieldRejectsWrongType(t *testing.T) {
	a := newItem("Air Max", models.CategoryMen)
	g, _, _ := newTestGrid(t, a)

	assert.Error(t, g.SetField(a.ID, FieldShoeName, 42))
	assert.Error(t, g.SetField(a.ID, FieldStock, "lots"))
	assert.Error(t, g.SetField(a.ID, Field("colour"), "red"))

	// A rejected edit does not dirty the row.
	assert.False(t, g.HasModifications())
}

func TestSubscribersNotifiedOnMutation(t *testing.T) {
	a := newItem("Air Max", models.CategoryMen)
	g, _, _ := newTestGrid(t, a)

	var notifications int
	g.Subscribe(func() { notifications++ })

	require.NoError(t, g.StartEditing(a.ID))
	require.NoError(t, g.SetField(a.ID, FieldStock, 3))

	assert.Equal(t, 2, notifications)
}

func TestAdoptSnapshotReplacesCleanGrid(t *testing.T) {
	a := newItem("Air Max", models.CategoryMen)
	g, _, _ := newTestGrid(t, a)

	replacement := newItem("Cortez", models.CategoryMen)
	adopted := g.AdoptSnapshot([]models.InventoryItem{replacement})

	assert.True(t, adopted)
	rows := g.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Cortez", rows[0].Item.ShoeName)
	assert.False(t, rows[0].Dirty)
}

func TestAdoptSnapshotDiscardedWhileDirty(t *testing.T) {
	a := newItem("Air Max", models.CategoryMen)
	g, _, _ := newTestGrid(t, a)

	require.NoError(t, g.SetField(a.ID, FieldStock, 99))

	replacement := newItem("Cortez", models.CategoryMen)
	adopted := g.AdoptSnapshot([]models.InventoryItem{replacement})

	// Local edits take precedence: the remote snapshot is dropped
	// entirely, not merged.
	assert.False(t, adopted)
	rows := g.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Air Max", rows[0].Item.ShoeName)
	assert.Equal(t, 99, rows[0].Item.Stock)
	assert.True(t, rows[0].Dirty)
}

// A row cannot be clean while its fields differ from the last
// persisted values: every mutation path sets Dirty in the same locked
// section that changes the field.
func TestDirtyFlagMonotonicity(t *testing.T) {
	a := newItem("Air Max", models.CategoryMen)

	fields := []struct {
		field Field
		value interface{}
	}{
		{FieldShoeName, "Renamed"},
		{FieldSize, 43.5},
		{FieldStock, 1},
		{FieldBuyingPrice, 1100.0},
		{FieldSellingPrice, 1600.0},
	}

	for _, f := range fields {
		g, _, _ := newTestGrid(t, a)
		require.NoError(t, g.SetField(a.ID, f.field, f.value))
		assert.True(t, g.Rows()[0].Dirty, "field %s must dirty the row", f.field)
	}
}
