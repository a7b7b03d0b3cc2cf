package dto

// IssueTypeRequest primer paso de la entrega: motivo (p. ej. "Nuevo ingreso", "Reemplazo").
type IssueTypeRequest struct {
	IssueType string `json:"issue_type" validate:"required"`
}

// ReturnRequest devolución inmediata del carrito.
type ReturnRequest struct {
	Reason string `json:"reason"`
}

// IssueRequest segundo paso de la entrega: receptor, estado del equipo y firma.
type IssueRequest struct {
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Department        string `json:"department"`
	Email             string `json:"email" validate:"omitempty,email"`
	InventoryNumber   string `json:"inventory_number"`
	SerialNumber      string `json:"serial_number"`
	HasKeyboard       bool   `json:"has_keyboard"`
	HasDamage         bool   `json:"has_damage"`
	DamageDescription string `json:"damage_description"`
	Signature         string `json:"signature"` // data URL PNG/JPEG
}

// CheckoutResponse resultado de un checkout confirmado.
type CheckoutResponse struct {
	BatchID     string   `json:"batch_id"`
	MovementIDs []string `json:"movement_ids"`
	Receipts    int      `json:"receipts"`
	Message     string   `json:"message"`
}
