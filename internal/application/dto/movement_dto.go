package dto

import "time"

// MovementResponse fila del historial.
type MovementResponse struct {
	ID                string    `json:"id"`
	BatchID           string    `json:"batch_id"`
	ItemID            string    `json:"item_id"`
	ItemName          string    `json:"item_name"`
	Change            int       `json:"change"`
	Type              string    `json:"type"`
	Reason            string    `json:"reason"`
	Recipient         string    `json:"recipient"`
	Department        string    `json:"department,omitempty"`
	Issuer            string    `json:"issuer"`
	InventoryNumber   string    `json:"inventory_number,omitempty"`
	SerialNumber      string    `json:"serial_number,omitempty"`
	HasKeyboard       bool      `json:"has_keyboard"`
	HasDamage         bool      `json:"has_damage"`
	DamageDescription string    `json:"damage_description,omitempty"`
	HasReceipt        bool      `json:"has_receipt"`
	CreatedAt         time.Time `json:"created_at"`
}

// MovementListResponse historial paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
