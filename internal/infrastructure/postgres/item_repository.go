package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-ti/internal/domain"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
	"github.com/jhoicas/inventario-ti/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, sku, barcode, quantity, min_quantity, category, subcategory,
	inventory_number, serial_number, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo artículo. SKU y código de barras vacíos se guardan como NULL.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, nullIfEmpty(item.SKU), nullIfEmpty(item.Barcode),
		item.Quantity, item.MinQuantity, item.Category, item.Subcategory,
		item.InventoryNumber, item.SerialNumber, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetByCode obtiene un artículo por código de barras o SKU.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	return r.getOne(ctx, itemByCodeQuery, code)
}

// barcode NULL da (barcode = $1) NULL; IS TRUE lo deja detrás de la coincidencia por código de barras.
const itemByCodeQuery = `SELECT ` + itemColumns + ` FROM items WHERE barcode = $1 OR sku = $1
		ORDER BY (barcode = $1) IS TRUE DESC LIMIT 1`

// GetForUpdate obtiene el artículo y bloquea la fila (SELECT FOR UPDATE). Solo tiene sentido dentro de una tx.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

func (r *ItemRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Update actualiza todos los campos editables, incluida la cantidad.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, sku = $3, barcode = $4, quantity = $5, min_quantity = $6,
			category = $7, subcategory = $8, inventory_number = $9, serial_number = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		item.ID, item.Name, nullIfEmpty(item.SKU), nullIfEmpty(item.Barcode),
		item.Quantity, item.MinQuantity, item.Category, item.Subcategory,
		item.InventoryNumber, item.SerialNumber, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity fija el stock (usado por el libro de movimientos).
func (r *ItemRepo) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE items SET quantity = $2, updated_at = now() WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrItemVanished
	}
	return nil
}

// Delete elimina un artículo. Si tiene historial la FK lo impide y se devuelve ErrConflict.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra el catálogo y lo ordena por categoría, subcategoría y nombre.
func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + ` FROM items
		WHERE ($1::text = ''
				OR name ILIKE '%' || $2::text || '%'
				OR sku ILIKE '%' || $2::text || '%'
				OR barcode = $1::text)
			AND ($3::text = '' OR category = $3::text)
		ORDER BY category ASC, subcategory ASC, name ASC`
	return r.list(ctx, query, filter.Query, escapeLike(filter.Query), filter.Category)
}

// ListLowStock lista artículos con quantity < min_quantity.
func (r *ItemRepo) ListLowStock(ctx context.Context, limit int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE quantity < min_quantity
		ORDER BY category ASC, subcategory ASC, name ASC LIMIT $1`
	return r.list(ctx, query, limit)
}

// ListRecent lista los últimos artículos creados.
func (r *ItemRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Item, error) {
	return r.list(ctx, `SELECT `+itemColumns+` FROM items ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *ItemRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Count total de artículos.
func (r *ItemRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// CountLowStock total de artículos bajo el mínimo.
func (r *ItemRepo) CountLowStock(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM items WHERE quantity < min_quantity`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return n, nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	var sku, barcode *string
	err := row.Scan(
		&it.ID, &it.Name, &sku, &barcode, &it.Quantity, &it.MinQuantity,
		&it.Category, &it.Subcategory, &it.InventoryNumber, &it.SerialNumber,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.SKU = derefString(sku)
	it.Barcode = derefString(barcode)
	return &it, nil
}
