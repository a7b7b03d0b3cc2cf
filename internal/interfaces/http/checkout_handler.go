package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/jhoicas/inventario-ti/internal/application/auth"
	"github.com/jhoicas/inventario-ti/internal/application/dto"
	"github.com/jhoicas/inventario-ti/internal/application/inventory"
	"github.com/jhoicas/inventario-ti/internal/domain"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
	"github.com/jhoicas/inventario-ti/pkg/logger"
)

// CheckoutHandler confirma el carrito como devolución o entrega.
// La entrega va en dos pasos: primero el tipo (queda en sesión) y luego receptor y firma.
type CheckoutHandler struct {
	sessions *session.Store
	checkout *inventory.CheckoutUseCase
	receipts *inventory.ReceiptUseCase
	authUC   *auth.AuthUseCase
	log      *logger.Logger
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(
	sessions *session.Store,
	checkout *inventory.CheckoutUseCase,
	receipts *inventory.ReceiptUseCase,
	authUC *auth.AuthUseCase,
	log *logger.Logger,
) *CheckoutHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CheckoutHandler{sessions: sessions, checkout: checkout, receipts: receipts, authUC: authUC, log: log}
}

// Return godoc
// @Summary      Devolver todo el carrito
// @Tags         checkout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReturnRequest  false  "Motivo opcional"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/checkout/return [post]
func (h *CheckoutHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	return h.commit(c, func(cs *cartSession) inventory.CheckoutInput {
		return inventory.CheckoutInput{
			Lines:  cs.Cart.Lines(),
			Type:   entity.MovementTypeReturn,
			Reason: in.Reason,
		}
	})
}

// IssueType godoc
// @Summary      Elegir tipo de entrega
// @Description  Guarda el tipo en la sesión; requiere carrito con artículos.
// @Tags         checkout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueTypeRequest  true  "Tipo de entrega"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/checkout/issue-type [post]
func (h *CheckoutHandler) IssueType(c *fiber.Ctx) error {
	var in dto.IssueTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return validationError(c, err)
	}
	in.IssueType = strings.TrimSpace(in.IssueType)
	if in.IssueType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "issue_type es requerido"})
	}
	cs, err := loadCartSession(h.sessions, c)
	if err != nil {
		return writeError(c, err)
	}
	if cs.Cart.IsEmpty() {
		return writeError(c, domain.ErrEmptyCart)
	}
	cs.IssueType = in.IssueType
	if err := cs.save(); err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCartResponse(cs))
}

// Issue godoc
// @Summary      Confirmar entrega
// @Description  Requiere haber elegido el tipo de entrega. Genera un comprobante por artículo.
// @Tags         checkout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueRequest  true  "Receptor, estado del equipo y firma"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/checkout/issue [post]
func (h *CheckoutHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return validationError(c, err)
	}
	return h.commit(c, func(cs *cartSession) inventory.CheckoutInput {
		return inventory.CheckoutInput{
			Lines:     cs.Cart.Lines(),
			Type:      entity.MovementTypeIssue,
			Reason:    cs.IssueType,
			Recipient: &inventory.Recipient{
				FirstName:  in.FirstName,
				LastName:   in.LastName,
				Department: in.Department,
				Email:      in.Email,
			},
			Device: &inventory.DeviceCondition{
				InventoryNumber:   strings.TrimSpace(in.InventoryNumber),
				SerialNumber:      strings.TrimSpace(in.SerialNumber),
				HasKeyboard:       in.HasKeyboard,
				HasDamage:         in.HasDamage,
				DamageDescription: strings.TrimSpace(in.DamageDescription),
			},
			Signature: in.Signature,
		}
	})
}

// commit aplica el checkout; solo tras éxito vacía el carrito y genera los comprobantes.
func (h *CheckoutHandler) commit(c *fiber.Ctx, build func(*cartSession) inventory.CheckoutInput) error {
	cs, err := loadCartSession(h.sessions, c)
	if err != nil {
		return writeError(c, err)
	}
	if cs.Cart.IsEmpty() {
		return writeError(c, domain.ErrEmptyCart)
	}
	input := build(cs)
	if input.Type == entity.MovementTypeIssue && cs.IssueType == "" {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ISSUE_TYPE_REQUIRED", Message: "primero elija el tipo de entrega"})
	}
	op, err := operatorFrom(c, h.authUC)
	if err != nil {
		return writeError(c, err)
	}
	input.Operator = op

	ctx := c.UserContext()
	res, err := h.checkout.Apply(ctx, input)
	if err != nil {
		return writeError(c, err)
	}
	if err := cs.reset(); err != nil {
		// El movimiento ya quedó registrado; solo se informa
		h.log.Error().Err(err).Str("batch_id", res.BatchID).Msg("no se pudo vaciar el carrito de la sesión")
	}

	paths, rerr := h.receipts.GenerateForBatch(ctx, res.MovementIDs)
	msg := fmt.Sprintf("%d movimiento(s) registrado(s)", len(res.MovementIDs))
	if rerr != nil {
		h.log.Warn().Err(rerr).Str("batch_id", res.BatchID).Msg("comprobantes incompletos")
		msg += "; algunos comprobantes no se pudieron generar"
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CheckoutResponse{
		BatchID:     res.BatchID,
		MovementIDs: res.MovementIDs,
		Receipts:    len(paths),
		Message:     msg,
	})
}
