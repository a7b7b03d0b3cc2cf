package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ti/internal/application/cart"
	"github.com/jhoicas/inventario-ti/internal/domain"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
	"github.com/jhoicas/inventario-ti/internal/domain/repository"
	"github.com/jhoicas/inventario-ti/pkg/logger"
)

// Recipient persona que recibe el equipo en una entrega.
type Recipient struct {
	FirstName  string
	LastName   string
	Department string
	Email      string
}

// DeviceCondition estado del equipo declarado en la entrega.
type DeviceCondition struct {
	InventoryNumber   string
	SerialNumber      string
	HasKeyboard       bool
	HasDamage         bool
	DamageDescription string
}

// Operator técnico autenticado que registra el movimiento.
type Operator struct {
	UserID    string
	FirstName string
	LastName  string
}

// CheckoutInput contenido del carrito más los datos de la transacción.
// Recipient es obligatorio en entregas (issue); en devoluciones se ignora si es nil.
type CheckoutInput struct {
	Lines     []cart.Line
	Type      string // entity.MovementTypeIssue | entity.MovementTypeReturn
	Reason    string
	Operator  Operator
	Recipient *Recipient
	Device    *DeviceCondition
	Signature string
}

// CheckoutResult identificadores de lo que quedó registrado.
type CheckoutResult struct {
	BatchID     string
	MovementIDs []string
}

// CheckoutUseCase aplica el carrito al stock: una fila de movimiento por línea,
// todo o nada dentro de una transacción con bloqueo de fila (SELECT FOR UPDATE).
type CheckoutUseCase struct {
	txRunner TxRunner
	metrics  Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewCheckoutUseCase construye el caso de uso. metrics y log pueden ser nil.
func NewCheckoutUseCase(txRunner TxRunner, metrics Metrics, log *logger.Logger) *CheckoutUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CheckoutUseCase{
		txRunner: txRunner,
		metrics:  metrics,
		log:      log.Component("checkout"),
		now:      time.Now,
	}
}

// Apply valida y registra el checkout. Si devuelve error no se aplicó ninguna línea;
// el llamador decide si vacía el carrito (solo tras éxito).
func (uc *CheckoutUseCase) Apply(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	res, err := uc.apply(ctx, in)
	if err != nil {
		uc.metrics.CheckoutRejected(in.Type, rejectReason(err))
		uc.log.Warn().Err(err).Str("type", in.Type).Int("lines", len(in.Lines)).Msg("checkout rechazado")
		return nil, err
	}
	units := 0
	for _, l := range in.Lines {
		units += l.Quantity
	}
	uc.metrics.CheckoutCommitted(in.Type, len(in.Lines), units)
	uc.log.Info().
		Str("batch_id", res.BatchID).
		Str("type", in.Type).
		Int("lines", len(in.Lines)).
		Int("units", units).
		Str("operator", in.Operator.UserID).
		Msg("checkout registrado")
	return res, nil
}

func (uc *CheckoutUseCase) apply(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	for _, l := range in.Lines {
		if l.ItemID == "" || l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: línea de carrito inválida", domain.ErrInvalidInput)
		}
	}

	var sign int
	switch in.Type {
	case entity.MovementTypeIssue:
		if in.Recipient == nil ||
			strings.TrimSpace(in.Recipient.FirstName) == "" ||
			strings.TrimSpace(in.Recipient.LastName) == "" {
			return nil, domain.ErrMissingRecipient
		}
		sign = -1
	case entity.MovementTypeReturn:
		sign = 1
	default:
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}

	now := uc.now()
	batchID := uuid.New().String()
	ids := make([]string, 0, len(in.Lines))

	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
	) error {
		for _, l := range in.Lines {
			// Bloquea la fila del artículo hasta el Commit/Rollback
			item, err := items.GetForUpdate(ctx, l.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return &domain.VanishedItemError{ItemID: l.ItemID, ItemName: l.ItemName}
			}
			if sign < 0 && item.Quantity < l.Quantity {
				return &domain.InsufficientStockError{
					ItemID:    item.ID,
					ItemName:  item.Name,
					Available: item.Quantity,
					Requested: l.Quantity,
				}
			}
			if err := items.UpdateQuantity(ctx, item.ID, item.Quantity+sign*l.Quantity); err != nil {
				return err
			}

			mov := uc.buildMovement(in, item, batchID, sign*l.Quantity, now)
			if err := movements.Create(ctx, mov); err != nil {
				return err
			}
			ids = append(ids, mov.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{BatchID: batchID, MovementIDs: ids}, nil
}

func (uc *CheckoutUseCase) buildMovement(in CheckoutInput, item *entity.Item, batchID string, change int, now time.Time) *entity.Movement {
	mov := &entity.Movement{
		ID:              uuid.New().String(),
		BatchID:         batchID,
		ItemID:          item.ID,
		Change:          change,
		Type:            in.Type,
		Reason:          strings.TrimSpace(in.Reason),
		IssuerID:        in.Operator.UserID,
		IssuerFirstName: in.Operator.FirstName,
		IssuerLastName:  in.Operator.LastName,
		Signature:       in.Signature,
		CreatedAt:       now,
		ItemName:        item.Name,
	}
	if in.Recipient != nil {
		mov.RecipientFirstName = strings.TrimSpace(in.Recipient.FirstName)
		mov.RecipientLastName = strings.TrimSpace(in.Recipient.LastName)
		mov.RecipientDepartment = strings.TrimSpace(in.Recipient.Department)
		mov.RecipientEmail = strings.TrimSpace(in.Recipient.Email)
	}
	if in.Device != nil {
		mov.InventoryNumber = in.Device.InventoryNumber
		mov.SerialNumber = in.Device.SerialNumber
		mov.HasKeyboard = in.Device.HasKeyboard
		mov.HasDamage = in.Device.HasDamage
		if in.Device.HasDamage {
			mov.DamageDescription = in.Device.DamageDescription
		}
	}
	// Sin datos declarados se toman los del artículo
	if mov.InventoryNumber == "" {
		mov.InventoryNumber = item.InventoryNumber
	}
	if mov.SerialNumber == "" {
		mov.SerialNumber = item.SerialNumber
	}
	return mov
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domain.ErrMissingRecipient):
		return "missing_recipient"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrItemVanished):
		return "item_vanished"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
