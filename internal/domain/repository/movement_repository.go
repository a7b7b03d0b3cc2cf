package repository

import (
	"context"

	"github.com/jhoicas/inventario-ti/internal/domain/entity"
)

// MovementRepository puerto de persistencia del libro de movimientos (solo inserción).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// SetReceiptPath registra la ruta del comprobante; es la única actualización permitida.
	SetReceiptPath(ctx context.Context, id, path string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Movement, error)
	ListByItem(ctx context.Context, itemID string, limit int) ([]*entity.Movement, error)
	// ListByBatch devuelve los movimientos de un mismo checkout, en orden de registro.
	ListByBatch(ctx context.Context, batchID string) ([]*entity.Movement, error)
	CountByItem(ctx context.Context, itemID string) (int, error)
}
