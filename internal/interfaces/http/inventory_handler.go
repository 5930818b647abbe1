package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dfcamargo/trastienda-api/internal/application/dto"
	"github.com/dfcamargo/trastienda-api/internal/application/ledger"
	"github.com/dfcamargo/trastienda-api/internal/domain"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
	"github.com/dfcamargo/trastienda-api/pkg/logger"
)

// InventoryHandler expone el libro de inventario por HTTP: movimientos
// manuales, traslados, reversiones y consultas.
type InventoryHandler struct {
	engine        *ledger.Engine
	transfers     *ledger.TransferUseCase
	reversals     *ledger.ReversalUseCase
	queries       *ledger.QueryUseCase
	replenishment *ledger.ReplenishmentUseCase
	log           *logger.Logger
}

// NewInventoryHandler construye el handler de inventario.
func NewInventoryHandler(
	engine *ledger.Engine,
	transfers *ledger.TransferUseCase,
	reversals *ledger.ReversalUseCase,
	queries *ledger.QueryUseCase,
	replenishment *ledger.ReplenishmentUseCase,
	log *logger.Logger,
) *InventoryHandler {
	return &InventoryHandler{
		engine:        engine,
		transfers:     transfers,
		reversals:     reversals,
		queries:       queries,
		replenishment: replenishment,
		log:           log,
	}
}

// RegisterMovement POST /api/inventory/movements
// Registra un movimiento manual (IN, OUT, RETURN_SUPPLIER, LOSS). La referencia
// MANUAL se genera aquí y se devuelve para poder revertir el movimiento después.
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var req dto.RegisterMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body JSON inválido"})
	}

	ref := entity.Reference{Kind: entity.ReferenceManual, ID: uuid.New().String()}
	res, err := h.engine.ApplyMovement(c.Context(), ledger.MovementInput{
		AccountID:   GetAccountID(c),
		ActorID:     GetUserID(c),
		ProductID:   req.ProductID,
		VariantID:   req.VariantID,
		WarehouseID: req.WarehouseID,
		Kind:        req.Kind,
		Quantity:    req.Quantity,
		UnitCost:    req.UnitCost,
		Reference:   ref,
		Note:        req.Note,
	})
	if err != nil {
		return h.domainError(c, err, "registrar movimiento")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{
		MovementID:  res.MovementID,
		ReferenceID: ref.ID,
		NewQuantity: res.NewQuantity,
	})
}

// ReverseMovement DELETE /api/inventory/movements/:reference_id
// Revierte el efecto neto de una referencia manual exactamente una vez.
func (h *InventoryHandler) ReverseMovement(c *fiber.Ctx) error {
	refID := c.Params("reference_id")
	ref := entity.Reference{Kind: entity.ReferenceManual, ID: refID}
	if err := h.reversals.Reverse(c.Context(), GetAccountID(c), GetUserID(c), ref); err != nil {
		return h.domainError(c, err, "revertir movimiento")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Transfer POST /api/inventory/transfers
// Traslada stock entre bodegas en una sola transacción.
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var req dto.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body JSON inválido"})
	}

	transfer, err := h.transfers.Transfer(c.Context(), ledger.TransferInput{
		AccountID:       GetAccountID(c),
		RequestedBy:     GetUserID(c),
		ProductID:       req.ProductID,
		VariantID:       req.VariantID,
		FromWarehouseID: req.FromWarehouseID,
		ToWarehouseID:   req.ToWarehouseID,
		Quantity:        req.Quantity,
		Note:            req.Note,
	})
	if err != nil {
		return h.domainError(c, err, "trasladar stock")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		TransferID:      transfer.ID,
		FromWarehouseID: transfer.FromWarehouseID,
		ToWarehouseID:   transfer.ToWarehouseID,
		Quantity:        transfer.Quantity,
		Status:          string(transfer.Status),
		CompletedAt:     transfer.CompletedAt,
	})
}

// ReverseTransfer DELETE /api/inventory/transfers/:id
// Deshace ambos lados del traslado en una sola transacción.
func (h *InventoryHandler) ReverseTransfer(c *fiber.Ctx) error {
	ref := entity.Reference{Kind: entity.ReferenceTransfer, ID: c.Params("id")}
	if err := h.reversals.Reverse(c.Context(), GetAccountID(c), GetUserID(c), ref); err != nil {
		return h.domainError(c, err, "revertir traslado")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CurrentStock GET /api/inventory/stock
// Cantidad actual de una tupla producto/variante/bodega. Cero si el registro no existe.
func (h *InventoryHandler) CurrentStock(c *fiber.Ctx) error {
	qty, err := h.queries.CurrentQuantity(c.Context(), GetAccountID(c),
		c.Query("product_id"), c.Query("variant_id"), c.Query("warehouse_id"))
	if err != nil {
		return h.domainError(c, err, "consultar stock")
	}
	return c.JSON(fiber.Map{
		"product_id":   c.Query("product_id"),
		"variant_id":   c.Query("variant_id"),
		"warehouse_id": c.Query("warehouse_id"),
		"quantity":     qty,
	})
}

// LowStock GET /api/inventory/low-stock
// Registros con cantidad <= nivel mínimo. warehouse_id opcional.
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	records, err := h.queries.LowStock(c.Context(), GetAccountID(c), c.Query("warehouse_id"))
	if err != nil {
		return h.domainError(c, err, "consultar stock bajo")
	}
	out := make([]dto.StockRecordDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, dto.StockRecordDTO{
			ProductID:    rec.ProductID,
			VariantID:    rec.VariantID,
			WarehouseID:  rec.WarehouseID,
			Quantity:     rec.Quantity,
			MinLevel:     rec.MinLevel,
			ReorderPoint: rec.ReorderPoint,
			Location:     rec.Location,
		})
	}
	return c.JSON(out)
}

// ReplenishmentList GET /api/inventory/replenishment-list
// Sugerencias de reposición ordenadas por urgencia. warehouse_id opcional.
func (h *InventoryHandler) ReplenishmentList(c *fiber.Ctx) error {
	suggestions, err := h.replenishment.GenerateReplenishmentList(c.Context(), GetAccountID(c), c.Query("warehouse_id"))
	if err != nil {
		return h.domainError(c, err, "generar lista de reposición")
	}
	return c.JSON(suggestions)
}

// ListMovements GET /api/inventory/movements
// Listado del libro filtrado por bodega o producto, con rango de fechas y paginación.
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: "from debe ser RFC3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: "to debe ser RFC3339"})
	}

	movs, err := h.queries.ListMovements(c.Context(), GetAccountID(c),
		c.Query("warehouse_id"), c.Query("product_id"),
		from, to, c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return h.domainError(c, err, "listar movimientos")
	}
	out := make([]dto.MovementEntryDTO, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementEntryDTO{
			ID:            m.ID,
			WarehouseID:   m.WarehouseID,
			ProductID:     m.ProductID,
			VariantID:     m.VariantID,
			Kind:          m.Kind,
			Quantity:      m.Quantity,
			UnitCost:      m.UnitCost,
			ReferenceKind: string(m.Reference.Kind),
			ReferenceID:   m.Reference.ID,
			ActorID:       m.ActorID,
			Note:          m.Note,
			CreatedAt:     m.CreatedAt,
		})
	}
	return c.JSON(out)
}

// RecordHistory GET /api/inventory/records/:id/history
// Snapshots de auditoría de un registro de stock en orden de creación.
func (h *InventoryHandler) RecordHistory(c *fiber.Ctx) error {
	snaps, err := h.queries.HistoryForRecord(c.Context(), GetAccountID(c),
		c.Params("id"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return h.domainError(c, err, "consultar historial")
	}
	out := make([]dto.HistorySnapshotDTO, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, dto.HistorySnapshotDTO{
			ID:             s.ID,
			StockRecordID:  s.StockRecordID,
			QuantityBefore: s.QuantityBefore,
			QuantityChange: s.QuantityChange,
			QuantityAfter:  s.QuantityAfter,
			Kind:           s.Kind,
			ReferenceKind:  string(s.Reference.Kind),
			ReferenceID:    s.Reference.ID,
			ActorID:        s.ActorID,
			Note:           s.Note,
			CreatedAt:      s.CreatedAt,
		})
	}
	return c.JSON(out)
}

// domainError traduce errores sentinela del dominio a estados HTTP.
func (h *InventoryHandler) domainError(c *fiber.Ctx, err error, op string) error {
	code, status := classifyDomainError(err)
	if status >= fiber.StatusInternalServerError {
		h.log.Error().Err(err).Str("op", op).Msg("error interno")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func classifyDomainError(err error) (code string, status int) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "INVALID_INPUT", fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return "NOT_FOUND", fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return "FORBIDDEN", fiber.StatusForbidden
	case errors.Is(err, domain.ErrInsufficientStock):
		return "INSUFFICIENT_STOCK", fiber.StatusConflict
	// Doble reversión: error de lógica del workflow que llama, no del usuario.
	case errors.Is(err, domain.ErrAlreadyReversed):
		return "ALREADY_REVERSED", fiber.StatusInternalServerError
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return "CONFLICT", fiber.StatusConflict
	case errors.Is(err, domain.ErrLockTimeout):
		return "LOCK_TIMEOUT", fiber.StatusServiceUnavailable
	}
	return "INTERNAL_ERROR", fiber.StatusInternalServerError
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
