package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dfcamargo/trastienda-api/internal/application/ledger"
	"github.com/dfcamargo/trastienda-api/internal/domain"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// SupplierReturnUseCase adaptador de devoluciones a proveedor. La suficiencia
// se verifica al solicitar (rechazo temprano para el usuario), pero el
// descuento real ocurre al pasar a SENT, donde el motor vuelve a validar bajo
// bloqueo: entre la solicitud y el envío una venta pudo consumir el stock.
type SupplierReturnUseCase struct {
	tx ledger.TxRunner
}

// NewSupplierReturnUseCase construye el adaptador.
func NewSupplierReturnUseCase(tx ledger.TxRunner) *SupplierReturnUseCase {
	return &SupplierReturnUseCase{tx: tx}
}

// SupplierReturnInput entrada para solicitar una devolución.
type SupplierReturnInput struct {
	AccountID   string
	RequestedBy string
	SupplierID  string
	ProductID   string
	VariantID   string
	WarehouseID string
	Quantity    decimal.Decimal // > 0
	Note        string
}

// Request verifica disponibilidad y persiste la devolución en REQUESTED.
// No mueve stock.
func (uc *SupplierReturnUseCase) Request(ctx context.Context, in SupplierReturnInput) (*entity.SupplierReturn, error) {
	if in.AccountID == "" || in.RequestedBy == "" || in.SupplierID == "" ||
		in.ProductID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	ret := &entity.SupplierReturn{
		ID:          uuid.New().String(),
		AccountID:   in.AccountID,
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		VariantID:   in.VariantID,
		Quantity:    in.Quantity,
		Status:      entity.SupplierReturnStatusRequested,
		RequestedBy: in.RequestedBy,
		Note:        in.Note,
		CreatedAt:   time.Now(),
	}
	err := uc.tx.Run(ctx, in.AccountID, func(r ledger.Repos) error {
		record, err := r.Stock.Get(ctx, in.ProductID, in.VariantID, in.WarehouseID)
		if err != nil {
			return err
		}
		available := decimal.Zero
		if record != nil {
			available = record.Quantity
		}
		if available.LessThan(in.Quantity) {
			return fmt.Errorf("%w: disponible %s", domain.ErrInsufficientStock, available)
		}
		return r.SupplierReturns.Create(ctx, ret)
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Send ejecuta la transición REQUESTED→SENT descontando el stock con tipo
// RETURN_SUPPLIER. La suficiencia se revalida bajo bloqueo dentro de la misma
// transacción que hace el descuento, no solo al momento de la solicitud.
func (uc *SupplierReturnUseCase) Send(ctx context.Context, accountID, actorID, returnID string) error {
	if accountID == "" || actorID == "" || returnID == "" {
		return domain.ErrInvalidInput
	}
	return uc.tx.Run(ctx, accountID, func(r ledger.Repos) error {
		ret, err := r.SupplierReturns.GetByID(ctx, returnID)
		if err != nil {
			return err
		}
		if ret == nil {
			return domain.ErrNotFound
		}
		if ret.Status != entity.SupplierReturnStatusRequested {
			return domain.ErrConflict
		}

		now := time.Now()
		in := ledger.MovementInput{
			AccountID:   accountID,
			ActorID:     actorID,
			ProductID:   ret.ProductID,
			VariantID:   ret.VariantID,
			WarehouseID: ret.WarehouseID,
			Kind:        entity.MovementKindSupplierReturn,
			Quantity:    ret.Quantity,
			Reference:   entity.Reference{Kind: entity.ReferenceSupplierReturn, ID: ret.ID},
			Note:        "devolución a proveedor " + ret.SupplierID,
		}
		if _, err := ledger.ApplyMovementInTx(ctx, r, in, now); err != nil {
			return err
		}

		ret.Status = entity.SupplierReturnStatusSent
		ret.SentAt = &now
		return r.SupplierReturns.UpdateStatus(ctx, ret)
	})
}

// Void anula la devolución. Si ya fue enviada, revierte el descuento a través
// del Reversal Handler en la misma transacción que cambia el estado.
func (uc *SupplierReturnUseCase) Void(ctx context.Context, accountID, actorID, returnID string) error {
	if accountID == "" || actorID == "" || returnID == "" {
		return domain.ErrInvalidInput
	}
	return uc.tx.Run(ctx, accountID, func(r ledger.Repos) error {
		ret, err := r.SupplierReturns.GetByID(ctx, returnID)
		if err != nil {
			return err
		}
		if ret == nil {
			return domain.ErrNotFound
		}
		switch ret.Status {
		case entity.SupplierReturnStatusVoided:
			return domain.ErrConflict
		case entity.SupplierReturnStatusSent:
			ref := entity.Reference{Kind: entity.ReferenceSupplierReturn, ID: ret.ID}
			if err := ledger.ReverseInTx(ctx, r, accountID, actorID, ref, time.Now()); err != nil {
				return err
			}
		}
		ret.Status = entity.SupplierReturnStatusVoided
		return r.SupplierReturns.UpdateStatus(ctx, ret)
	})
}
