package dto

// AddToCartRequest código escaneado (barcode o SKU) y cantidad.
type AddToCartRequest struct {
	Code     string `json:"code" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
	// Mode "issue" valida stock al preparar; "return" no.
	Mode string `json:"mode" validate:"omitempty,oneof=issue return"`
}

// AddToCartResponse respuesta para el escáner.
type AddToCartResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// CartLineResponse línea del carrito.
type CartLineResponse struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

// CartResponse contenido del carrito en sesión.
type CartResponse struct {
	Lines      []CartLineResponse `json:"lines"`
	Count      int                `json:"count"`
	TotalUnits int                `json:"total_units"`
	IssueType  string             `json:"issue_type,omitempty"`
}
