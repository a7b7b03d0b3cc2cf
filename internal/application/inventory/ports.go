package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ti/internal/domain/entity"
	"github.com/jhoicas/inventario-ti/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de movimientos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
	) error) error
}

// ReceiptGenerator renderiza el comprobante PDF de un movimiento.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, movement *entity.Movement, item *entity.Item) ([]byte, error)
}

// ReceiptStore guarda y recupera los PDF generados. Save devuelve la ruta registrada en el movimiento.
type ReceiptStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Load(ctx context.Context, path string) ([]byte, error)
}

// ReceiptFile comprobante con su nombre de archivo.
type ReceiptFile struct {
	Name string
	Data []byte
}

// ReceiptArchiver empaqueta varios comprobantes en un único archivo descargable.
type ReceiptArchiver interface {
	Archive(files []ReceiptFile) ([]byte, error)
}

// ReceiptNotifier envía por correo al receptor uno o más comprobantes en un mismo mensaje.
type ReceiptNotifier interface {
	SendReceipts(ctx context.Context, to, name string, files []ReceiptFile) error
}

// Metrics contadores del libro de movimientos. La implementación real es Prometheus.
type Metrics interface {
	CheckoutCommitted(kind string, lines, units int)
	CheckoutRejected(kind, reason string)
	ReceiptGenerated(ok bool)
}

type nopMetrics struct{}

func (nopMetrics) CheckoutCommitted(string, int, int) {}
func (nopMetrics) CheckoutRejected(string, string)    {}
func (nopMetrics) ReceiptGenerated(bool)              {}
