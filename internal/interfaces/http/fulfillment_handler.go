package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dfcamargo/trastienda-api/internal/application/dto"
	"github.com/dfcamargo/trastienda-api/internal/application/fulfillment"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
	"github.com/dfcamargo/trastienda-api/pkg/logger"
)

// FulfillmentHandler expone los adaptadores de cumplimiento: cambios de estado
// de pedidos y devoluciones a proveedor.
type FulfillmentHandler struct {
	orders  *fulfillment.OrderUseCase
	returns *fulfillment.SupplierReturnUseCase
	log     *logger.Logger
}

// NewFulfillmentHandler construye el handler de cumplimiento.
func NewFulfillmentHandler(orders *fulfillment.OrderUseCase, returns *fulfillment.SupplierReturnUseCase, log *logger.Logger) *FulfillmentHandler {
	return &FulfillmentHandler{orders: orders, returns: returns, log: log}
}

// ChangeOrderStatus PUT /api/orders/:id/status
// Aplica la transición de estado del pedido y su efecto sobre el stock en la
// misma transacción. Si el stock no alcanza, el estado no cambia.
func (h *FulfillmentHandler) ChangeOrderStatus(c *fiber.Ctx) error {
	var req dto.ChangeOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body JSON inválido"})
	}

	err := h.orders.ChangeStatus(c.Context(), GetAccountID(c), GetUserID(c),
		c.Params("id"), entity.OrderStatus(req.Status))
	if err != nil {
		return h.domainError(c, err, "cambiar estado de pedido")
	}
	return c.JSON(fiber.Map{"order_id": c.Params("id"), "status": req.Status})
}

// RequestSupplierReturn POST /api/supplier-returns
// Solicita una devolución a proveedor. Verifica disponibilidad pero no mueve stock.
func (h *FulfillmentHandler) RequestSupplierReturn(c *fiber.Ctx) error {
	var req dto.SupplierReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body JSON inválido"})
	}

	ret, err := h.returns.Request(c.Context(), fulfillment.SupplierReturnInput{
		AccountID:   GetAccountID(c),
		RequestedBy: GetUserID(c),
		SupplierID:  req.SupplierID,
		ProductID:   req.ProductID,
		VariantID:   req.VariantID,
		WarehouseID: req.WarehouseID,
		Quantity:    req.Quantity,
		Note:        req.Note,
	})
	if err != nil {
		return h.domainError(c, err, "solicitar devolución")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SupplierReturnResponse{ID: ret.ID, Status: string(ret.Status)})
}

// SendSupplierReturn POST /api/supplier-returns/:id/send
// Ejecuta REQUESTED→SENT descontando el stock; la suficiencia se revalida bajo bloqueo.
func (h *FulfillmentHandler) SendSupplierReturn(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.returns.Send(c.Context(), GetAccountID(c), GetUserID(c), id); err != nil {
		return h.domainError(c, err, "enviar devolución")
	}
	return c.JSON(dto.SupplierReturnResponse{ID: id, Status: string(entity.SupplierReturnStatusSent)})
}

// VoidSupplierReturn POST /api/supplier-returns/:id/void
// Anula la devolución; si ya fue enviada, repone el stock descontado.
func (h *FulfillmentHandler) VoidSupplierReturn(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.returns.Void(c.Context(), GetAccountID(c), GetUserID(c), id); err != nil {
		return h.domainError(c, err, "anular devolución")
	}
	return c.JSON(dto.SupplierReturnResponse{ID: id, Status: string(entity.SupplierReturnStatusVoided)})
}

func (h *FulfillmentHandler) domainError(c *fiber.Ctx, err error, op string) error {
	code, status := classifyDomainError(err)
	if status >= fiber.StatusInternalServerError {
		h.log.Error().Err(err).Str("op", op).Msg("error interno")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
