package repository

import (
	"context"

	"github.com/jhoicas/inventario-ti/internal/domain/entity"
)

// ItemFilter criterios de búsqueda del catálogo.
// Query coincide por subcadena (sin mayúsculas) en nombre o SKU, o exacta en código de barras.
type ItemFilter struct {
	Query    string
	Category string
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// Las lecturas por clave devuelven (nil, nil) cuando no hay fila.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetByCode busca por código de barras o SKU.
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, error)
	ListLowStock(ctx context.Context, limit int) ([]*entity.Item, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Item, error)
	Count(ctx context.Context) (int, error)
	CountLowStock(ctx context.Context) (int, error)
}
