package analytics_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ti/internal/application/analytics"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
	"github.com/jhoicas/inventario-ti/internal/domain/repository/memrepo"
)

func TestSummary_TotalesYListasAcotadas(t *testing.T) {
	store := memrepo.New()
	for i := 0; i < 8; i++ {
		store.Seed(entity.Item{
			ID:          fmt.Sprintf("item-%d", i),
			Name:        fmt.Sprintf("Artículo %d", i),
			Quantity:    i,
			MinQuantity: 6,
		})
	}

	res, err := analytics.NewDashboardUseCase(store.Items()).Summary(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, 8, res.TotalItems)
	assert.Equal(t, 6, res.LowStockCount, "cantidades 0..5 están bajo el mínimo 6")
	assert.Equal(t, 3, res.CartCount)
	assert.Len(t, res.RecentItems, 5)
	require.Len(t, res.LowStockItems, 5)
	for _, it := range res.LowStockItems {
		assert.True(t, it.LowStock)
	}
}
