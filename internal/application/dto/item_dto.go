package dto

import "time"

// CreateItemRequest entrada para crear un artículo. Solo el nombre es obligatorio.
type CreateItemRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=200"`
	SKU             string `json:"sku" validate:"omitempty,max=100"`
	Barcode         string `json:"barcode" validate:"omitempty,max=100"`
	Quantity        int    `json:"quantity" validate:"min=0"`
	MinQuantity     int    `json:"min_quantity" validate:"min=0"`
	Category        string `json:"category"`
	Subcategory     string `json:"subcategory"`
	InventoryNumber string `json:"inventory_number"`
	SerialNumber    string `json:"serial_number"`
}

// UpdateItemRequest edición parcial. Un cambio de Quantity queda registrado como ajuste.
type UpdateItemRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=200"`
	SKU             *string `json:"sku"`
	Barcode         *string `json:"barcode"`
	Quantity        *int    `json:"quantity" validate:"omitempty,min=0"`
	MinQuantity     *int    `json:"min_quantity" validate:"omitempty,min=0"`
	Category        *string `json:"category"`
	Subcategory     *string `json:"subcategory"`
	InventoryNumber *string `json:"inventory_number"`
	SerialNumber    *string `json:"serial_number"`
	Reason          string  `json:"reason"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	SKU             string    `json:"sku"`
	Barcode         string    `json:"barcode"`
	Quantity        int       `json:"quantity"`
	MinQuantity     int       `json:"min_quantity"`
	LowStock        bool      `json:"low_stock"`
	Category        string    `json:"category"`
	Subcategory     string    `json:"subcategory"`
	InventoryNumber string    `json:"inventory_number"`
	SerialNumber    string    `json:"serial_number"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ItemListResponse listado del catálogo.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
}

// CategoryResponse categoría con sus subcategorías.
type CategoryResponse struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}
