package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrEmptyCart         = errors.New("el carrito está vacío")
	ErrMissingRecipient  = errors.New("la entrega requiere los datos del receptor")
	ErrItemVanished      = errors.New("el artículo fue eliminado mientras estaba en el carrito")
)

// InsufficientStockError detalla la falta de stock de un artículo.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: disponible %d, solicitado %d", e.ItemName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// VanishedItemError indica qué línea del carrito apunta a un artículo que ya no existe.
type VanishedItemError struct {
	ItemID   string
	ItemName string
}

func (e *VanishedItemError) Error() string {
	return fmt.Sprintf("el artículo %q ya no existe", e.ItemName)
}

func (e *VanishedItemError) Unwrap() error { return ErrItemVanished }
