package fulfillment

import (
	"context"
	"time"

	"github.com/dfcamargo/trastienda-api/internal/application/ledger"
	"github.com/dfcamargo/trastienda-api/internal/domain"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// OrderUseCase adaptador de cumplimiento para ventas y pedidos en línea: decide
// cuándo y cuánto mover según la tabla de transiciones y llama al motor. El
// cambio de estado del pedido y la mutación de stock se confirman en la misma
// transacción; si el stock no alcanza, el estado no cambia.
type OrderUseCase struct {
	tx ledger.TxRunner
}

// NewOrderUseCase construye el adaptador de pedidos.
func NewOrderUseCase(tx ledger.TxRunner) *OrderUseCase {
	return &OrderUseCase{tx: tx}
}

// ChangeStatus aplica la transición de estado del pedido y su efecto declarado
// sobre el libro: ActionDeduct descuenta cada renglón (OUT) contra la bodega de
// despacho; ActionRestock revierte la referencia del pedido; ActionNone solo
// persiste el estado. Idempotente respecto a la frontera: reentrar a un estado
// que afecta stock sin haber salido no vuelve a descontar.
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, accountID, actorID, orderID string, newStatus entity.OrderStatus) error {
	if accountID == "" || actorID == "" || orderID == "" {
		return domain.ErrInvalidInput
	}
	if !entity.KnownOrderStatus(newStatus) {
		return domain.ErrInvalidInput
	}
	return uc.tx.Run(ctx, accountID, func(r ledger.Repos) error {
		order, err := r.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		action, err := TransitionAction(order.Status, newStatus)
		if err != nil {
			return err
		}

		now := time.Now()
		ref := entity.Reference{Kind: entity.ReferenceOrder, ID: order.ID}
		switch action {
		case ActionDeduct:
			for _, item := range order.Items {
				in := ledger.MovementInput{
					AccountID:   accountID,
					ActorID:     actorID,
					ProductID:   item.ProductID,
					VariantID:   item.VariantID,
					WarehouseID: order.WarehouseID,
					Kind:        entity.MovementKindOutbound,
					Quantity:    item.Quantity,
					Reference:   ref,
					Note:        "venta " + order.ID,
				}
				if _, err := ledger.ApplyMovementInTx(ctx, r, in, now); err != nil {
					return err
				}
			}
		case ActionRestock:
			if err := ledger.ReverseInTx(ctx, r, accountID, actorID, ref, now); err != nil {
				return err
			}
		}

		return r.Orders.UpdateStatus(ctx, order.ID, newStatus)
	})
}
