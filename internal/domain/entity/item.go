package entity

import "time"

// Item representa un artículo de hardware en bodega (monitor, docking, cable...).
// Quantity solo cambia a través de movimientos; nunca baja de 0.
type Item struct {
	ID              string
	Name            string
	SKU             string // código interno, único si no está vacío
	Barcode         string // único si no está vacío
	Quantity        int
	MinQuantity     int // umbral de stock mínimo
	Category        string
	Subcategory     string
	InventoryNumber string
	SerialNumber    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsLowStock indica si el stock está estrictamente por debajo del mínimo.
func (i *Item) IsLowStock() bool {
	return i.Quantity < i.MinQuantity
}

// Matches indica si code coincide con el código de barras o el SKU.
func (i *Item) Matches(code string) bool {
	return code != "" && (i.Barcode == code || i.SKU == code)
}
