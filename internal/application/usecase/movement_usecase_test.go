package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ti/internal/application/cart"
	"github.com/jhoicas/inventario-ti/internal/application/dto"
	"github.com/jhoicas/inventario-ti/internal/application/inventory"
	"github.com/jhoicas/inventario-ti/internal/application/usecase"
	"github.com/jhoicas/inventario-ti/internal/domain"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
	"github.com/jhoicas/inventario-ti/internal/domain/repository/memrepo"
)

func TestMovementList_MasRecientePrimero(t *testing.T) {
	ctx := context.Background()
	store := memrepo.New()
	store.Seed(entity.Item{ID: "a", Name: "Monitor", Quantity: 5})
	checkout := inventory.NewCheckoutUseCase(store, nil, nil)

	_, err := checkout.Apply(ctx, inventory.CheckoutInput{
		Lines:     []cart.Line{{ItemID: "a", Quantity: 2}},
		Type:      entity.MovementTypeIssue,
		Recipient: &inventory.Recipient{FirstName: "Ana", LastName: "Gómez"},
	})
	require.NoError(t, err)
	_, err = checkout.Apply(ctx, inventory.CheckoutInput{
		Lines: []cart.Line{{ItemID: "a", Quantity: 1}},
		Type:  entity.MovementTypeReturn,
	})
	require.NoError(t, err)

	uc := usecase.NewMovementUseCase(store.Movements(), store.Items())
	res, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, 100, res.Page.Limit)
	assert.Equal(t, entity.MovementTypeReturn, res.Items[0].Type)
	assert.Equal(t, 1, res.Items[0].Change)
	assert.Equal(t, "—", res.Items[0].Recipient)
	assert.Equal(t, "Ana Gómez", res.Items[1].Recipient)
	assert.Equal(t, "Monitor", res.Items[1].ItemName)

	byItem, err := uc.ListByItem(ctx, "a", 0)
	require.NoError(t, err)
	assert.Len(t, byItem, 2)

	_, err = uc.ListByItem(ctx, "no-existe", 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
