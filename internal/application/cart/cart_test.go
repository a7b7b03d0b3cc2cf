package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ti/internal/application/cart"
	"github.com/jhoicas/inventario-ti/internal/domain"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeLookup struct {
	items []*entity.Item
	err   error
}

func (f *fakeLookup) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, it := range f.items {
		if it.Matches(code) {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func newLookup() *fakeLookup {
	return &fakeLookup{items: []*entity.Item{
		{ID: "item-a", Name: "Monitor Dell 24", SKU: "MON-24", Barcode: "4001", Quantity: 10},
		{ID: "item-b", Name: "Mouse USB", SKU: "MOU-01", Barcode: "4002", Quantity: 2},
	}}
}

// ──────────────────────────────────────────────────────────────────────────────
// ResolveAndAdd
// ──────────────────────────────────────────────────────────────────────────────

func TestResolveAndAdd_FusionaLineas(t *testing.T) {
	ctx := context.Background()
	c := cart.New()
	lk := newLookup()

	_, err := c.ResolveAndAdd(ctx, lk, "4001", 3, true)
	require.NoError(t, err)
	_, err = c.ResolveAndAdd(ctx, lk, "MON-24", 2, true)
	require.NoError(t, err)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "item-a", lines[0].ItemID)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, "Monitor Dell 24", lines[0].ItemName)
}

func TestResolveAndAdd_ConservaOrdenDeInsercion(t *testing.T) {
	ctx := context.Background()
	c := cart.New()
	lk := newLookup()

	_, err := c.ResolveAndAdd(ctx, lk, "4002", 1, false)
	require.NoError(t, err)
	_, err = c.ResolveAndAdd(ctx, lk, "4001", 1, false)
	require.NoError(t, err)
	_, err = c.ResolveAndAdd(ctx, lk, "4002", 1, false)
	require.NoError(t, err)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "item-b", lines[0].ItemID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "item-a", lines[1].ItemID)
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, 3, c.TotalUnits())
}

func TestResolveAndAdd_CodigoDesconocido(t *testing.T) {
	c := cart.New()
	_, err := c.ResolveAndAdd(context.Background(), newLookup(), "9999", 1, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, c.IsEmpty())
}

func TestResolveAndAdd_EntradaInvalida(t *testing.T) {
	c := cart.New()
	_, err := c.ResolveAndAdd(context.Background(), newLookup(), "  ", 1, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = c.ResolveAndAdd(context.Background(), newLookup(), "4001", 0, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, c.IsEmpty())
}

func TestResolveAndAdd_StockInsuficienteNoModificaCarrito(t *testing.T) {
	ctx := context.Background()
	c := cart.New()
	lk := newLookup()

	_, err := c.ResolveAndAdd(ctx, lk, "4002", 1, true)
	require.NoError(t, err)

	_, err = c.ResolveAndAdd(ctx, lk, "4002", 3, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)

	assert.Equal(t, 1, c.QuantityOf("item-b"))
}

func TestResolveAndAdd_CadaAgregadoSeValidaContraElStock(t *testing.T) {
	ctx := context.Background()
	c := cart.New()
	lk := newLookup()

	// stock 2: 2 + 1 se acepta y queda una sola línea con la suma
	_, err := c.ResolveAndAdd(ctx, lk, "4002", 2, true)
	require.NoError(t, err)
	_, err = c.ResolveAndAdd(ctx, lk, "MOU-01", 1, true)
	require.NoError(t, err)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestResolveAndAdd_DevolucionIgnoraStock(t *testing.T) {
	c := cart.New()
	_, err := c.ResolveAndAdd(context.Background(), newLookup(), "4002", 50, false)
	require.NoError(t, err)
	assert.Equal(t, 50, c.QuantityOf("item-b"))
}

func TestResolveAndAdd_PropagaErrorDelRepositorio(t *testing.T) {
	boom := errors.New("db caída")
	c := cart.New()
	_, err := c.ResolveAndAdd(context.Background(), &fakeLookup{err: boom}, "4001", 1, false)
	assert.ErrorIs(t, err, boom)
}

// ──────────────────────────────────────────────────────────────────────────────
// Remove / Clear / serialización
// ──────────────────────────────────────────────────────────────────────────────

func TestRemove_Idempotente(t *testing.T) {
	c := cart.FromLines([]cart.Line{
		{ItemID: "item-a", ItemName: "A", Quantity: 1},
		{ItemID: "item-b", ItemName: "B", Quantity: 2},
	})

	c.Remove("item-a")
	once := c.Lines()
	c.Remove("item-a")
	assert.Equal(t, once, c.Lines())
	c.Remove("no-existe")
	assert.Equal(t, once, c.Lines())
	require.Len(t, once, 1)
	assert.Equal(t, "item-b", once[0].ItemID)
}

func TestClear_VaciaCarrito(t *testing.T) {
	c := cart.FromLines([]cart.Line{{ItemID: "item-a", Quantity: 1}})
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.TotalUnits())
}

func TestFromLines_FusionaYDescartaInvalidas(t *testing.T) {
	c := cart.FromLines([]cart.Line{
		{ItemID: "item-a", Quantity: 1},
		{ItemID: "item-b", Quantity: 0},
		{ItemID: "", Quantity: 3},
		{ItemID: "item-a", Quantity: 4},
	})
	require.Equal(t, 1, c.Count())
	assert.Equal(t, 5, c.QuantityOf("item-a"))
}

func TestMarshalUnmarshal_Sesion(t *testing.T) {
	c := cart.FromLines([]cart.Line{
		{ItemID: "item-b", ItemName: "Mouse USB", Quantity: 2},
		{ItemID: "item-a", ItemName: "Monitor", Quantity: 1},
	})
	raw, err := c.Marshal()
	require.NoError(t, err)

	back, err := cart.Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, c.Lines(), back.Lines())

	empty, err := cart.Unmarshal(nil)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = cart.Unmarshal([]byte("{no-json"))
	assert.Error(t, err)
}
