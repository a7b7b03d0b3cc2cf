// Package cart implementa el carrito del escáner: una lista, guardada en la sesión,
// de artículos y cantidades pendientes de entregar o devolver.
//
// El carrito solo prepara; el stock no cambia hasta que el libro de movimientos
// (inventory.CheckoutUseCase) aplica las líneas.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-ti/internal/domain"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
)

// Line es una línea del carrito. ItemName se copia al agregar, solo para mostrar.
type Line struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

// ItemLookup es la única lectura que necesita el carrito: buscar por código de barras o SKU.
type ItemLookup interface {
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
}

// Cart mantiene a lo sumo una línea por artículo, en orden de inserción.
type Cart struct {
	lines []Line
}

// New devuelve un carrito vacío.
func New() *Cart {
	return &Cart{}
}

// FromLines reconstruye un carrito, fusionando líneas repetidas y descartando cantidades no positivas.
func FromLines(lines []Line) *Cart {
	c := New()
	for _, l := range lines {
		if l.ItemID == "" || l.Quantity <= 0 {
			continue
		}
		c.merge(l.ItemID, l.ItemName, l.Quantity)
	}
	return c
}

// ResolveAndAdd busca el artículo por código y agrega quantity al carrito.
// Con requireStock (flujo de entrega) falla con *domain.InsufficientStockError si
// quantity supera el stock actual. Lo acumulado en el carrito se vuelve a validar
// al confirmar. Si hay error el carrito no cambia.
func (c *Cart) ResolveAndAdd(ctx context.Context, lookup ItemLookup, code string, quantity int, requireStock bool) (*entity.Item, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: código vacío", domain.ErrInvalidInput)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que 0", domain.ErrInvalidInput)
	}
	item, err := lookup.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: código de barras/SKU %q", domain.ErrNotFound, code)
	}
	if requireStock && quantity > item.Quantity {
		return nil, &domain.InsufficientStockError{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Available: item.Quantity,
			Requested: quantity,
		}
	}
	c.merge(item.ID, item.Name, quantity)
	return item, nil
}

func (c *Cart) merge(itemID, name string, quantity int) {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity += quantity
			return
		}
	}
	c.lines = append(c.lines, Line{ItemID: itemID, ItemName: name, Quantity: quantity})
}

// Remove quita la línea del artículo. No hace nada si no está.
func (c *Cart) Remove(itemID string) {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear vacía el carrito.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines devuelve una copia de las líneas en orden de inserción.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// QuantityOf cantidad preparada para un artículo (0 si no está).
func (c *Cart) QuantityOf(itemID string) int {
	for _, l := range c.lines {
		if l.ItemID == itemID {
			return l.Quantity
		}
	}
	return 0
}

// IsEmpty indica si no hay líneas.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Count número de artículos distintos.
func (c *Cart) Count() int { return len(c.lines) }

// TotalUnits suma de cantidades de todas las líneas.
func (c *Cart) TotalUnits() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// Marshal serializa las líneas para guardarlas en la sesión.
func (c *Cart) Marshal() ([]byte, error) {
	if c.lines == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.lines)
}

// Unmarshal reconstruye el carrito desde la sesión. Datos vacíos = carrito vacío.
func Unmarshal(data []byte) (*Cart, error) {
	if len(data) == 0 {
		return New(), nil
	}
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("cart: decodificar sesión: %w", err)
	}
	return FromLines(lines), nil
}
