// Package analytics contiene el resumen de la pantalla inicial.
package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-ti/internal/application/dto"
	"github.com/jhoicas/inventario-ti/internal/application/usecase"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
	"github.com/jhoicas/inventario-ti/internal/domain/repository"
)

const dashboardListSize = 5 // artículos por widget del dashboard

// DashboardUseCase genera el resumen: totales, recientes y stock bajo.
//
// Fuente de datos: ItemRepository (consultas read-only).
type DashboardUseCase struct {
	items repository.ItemRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(items repository.ItemRepository) *DashboardUseCase {
	return &DashboardUseCase{items: items}
}

// Summary construye el DashboardResponse. cartCount lo aporta el handler (viene de la sesión).
//
// Cuatro consultas en paralelo:
//  1. Count              → TotalItems
//  2. CountLowStock      → LowStockCount
//  3. ListRecent(5)      → RecentItems
//  4. ListLowStock(5)    → LowStockItems
func (uc *DashboardUseCase) Summary(ctx context.Context, cartCount int) (*dto.DashboardResponse, error) {
	var (
		total, low   int
		recent, lows []*entity.Item
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = uc.items.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		low, err = uc.items.CountLowStock(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = uc.items.ListRecent(gctx, dashboardListSize)
		return err
	})
	g.Go(func() (err error) {
		lows, err = uc.items.ListLowStock(gctx, dashboardListSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	return &dto.DashboardResponse{
		TotalItems:    total,
		LowStockCount: low,
		CartCount:     cartCount,
		RecentItems:   usecase.ToItemResponses(recent),
		LowStockItems: usecase.ToItemResponses(lows),
	}, nil
}
