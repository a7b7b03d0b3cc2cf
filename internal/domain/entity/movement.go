package entity

import "time"

// Tipos de movimiento.
const (
	MovementTypeIssue      = "issue"      // entrega a un receptor (resta stock)
	MovementTypeReturn     = "return"     // devolución (suma stock)
	MovementTypeAdjustment = "adjustment" // corrección manual desde la edición del artículo
)

// Movement es una fila inmutable del libro de movimientos.
// Change es positivo en devoluciones, negativo en entregas y nunca cero.
type Movement struct {
	ID      string
	BatchID string // agrupa las filas de un mismo checkout
	ItemID  string
	Change  int
	Type    string
	Reason  string

	RecipientFirstName  string
	RecipientLastName   string
	RecipientDepartment string
	RecipientEmail      string

	IssuerID        string
	IssuerFirstName string
	IssuerLastName  string

	InventoryNumber   string
	SerialNumber      string
	HasKeyboard       bool
	HasDamage         bool
	DamageDescription string

	Signature   string // data URL (data:image/png;base64,...)
	ReceiptPath string // vacío hasta que se genere el comprobante
	CreatedAt   time.Time

	// ItemName se llena solo en consultas de historial (JOIN).
	ItemName string
}

// IsIncoming indica una entrada de stock.
func (m *Movement) IsIncoming() bool { return m.Change > 0 }

// IsOutgoing indica una salida de stock.
func (m *Movement) IsOutgoing() bool { return m.Change < 0 }

// Units devuelve la cantidad sin signo.
func (m *Movement) Units() int {
	if m.Change < 0 {
		return -m.Change
	}
	return m.Change
}

// RecipientName nombre completo del receptor o "—".
func (m *Movement) RecipientName() string {
	return fullName(m.RecipientFirstName, m.RecipientLastName)
}

// IssuerName nombre completo del técnico que entregó o "—".
func (m *Movement) IssuerName() string {
	return fullName(m.IssuerFirstName, m.IssuerLastName)
}

func fullName(first, last string) string {
	if first != "" && last != "" {
		return first + " " + last
	}
	return "—"
}
