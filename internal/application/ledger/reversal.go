package ledger

import (
	"context"
	"time"

	"github.com/dfcamargo/trastienda-api/internal/domain"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// ReversalUseCase deshace exactamente una vez el efecto neto de los movimientos
// de una referencia (documento eliminado o anulado).
//
// Política elegida: la reversión queda registrada en el libro como movimientos
// REVERSAL con la misma referencia, y los snapshots de historial originales se
// eliminan junto con el documento que los causó. Así la suma prefija de los
// snapshots restantes sigue reconstruyendo la cantidad actual, y el libro
// conserva la traza completa (original + reversión).
type ReversalUseCase struct {
	tx TxRunner
}

// NewReversalUseCase construye el manejador de reversiones.
func NewReversalUseCase(tx TxRunner) *ReversalUseCase {
	return &ReversalUseCase{tx: tx}
}

// Reverse localiza los snapshots de la referencia y aplica el cambio negado de
// cada uno a través del motor, en orden inverso de creación, dentro de una sola
// transacción. Una referencia solo puede revertirse una vez: si los snapshots
// ya no existen pero el libro registra movimientos de la referencia, devuelve
// domain.ErrAlreadyReversed; si nunca existió, domain.ErrNotFound.
func (uc *ReversalUseCase) Reverse(ctx context.Context, accountID, actorID string, ref entity.Reference) error {
	if accountID == "" || actorID == "" || !ref.Valid() {
		return domain.ErrInvalidInput
	}
	return uc.tx.Run(ctx, accountID, func(r Repos) error {
		return ReverseInTx(ctx, r, accountID, actorID, ref, time.Now())
	})
}

// ReverseInTx ejecuta la reversión con los repositorios del caller (misma
// transacción). Lo usa el adaptador de pedidos para que el retroceso de estado
// y la reposición de stock se confirmen juntos.
func ReverseInTx(ctx context.Context, r Repos, accountID, actorID string, ref entity.Reference, now time.Time) error {
	snaps, err := r.History.ListByReference(ctx, ref)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		exists, err := r.Movements.ExistsByReference(ctx, ref)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyReversed
		}
		return domain.ErrNotFound
	}

	// Orden inverso del listado. Entre snapshots con el mismo created_at el
	// desempate no es determinista; el resultado no depende del orden porque
	// cualquier rechazo aborta la transacción completa.
	for i := len(snaps) - 1; i >= 0; i-- {
		if err := reverseSnapshot(ctx, r, accountID, actorID, snaps[i], ref, now); err != nil {
			return err
		}
	}

	if _, err := r.History.DeleteByReference(ctx, ref); err != nil {
		return err
	}
	return nil
}

// reverseSnapshot aplica el cambio negado de un snapshot sobre su registro de
// stock, bloqueándolo por id. El movimiento REVERSAL conserva la referencia
// original para que el libro siga siendo trazable y para que un segundo intento
// de reversión sea detectable.
func reverseSnapshot(ctx context.Context, r Repos, accountID, actorID string, snap *entity.HistorySnapshot, ref entity.Reference, now time.Time) error {
	record, err := r.Stock.GetByIDForUpdate(ctx, snap.StockRecordID)
	if err != nil {
		return err
	}
	if record == nil {
		return domain.ErrNotFound
	}
	in := MovementInput{
		AccountID:   accountID,
		ActorID:     actorID,
		ProductID:   record.ProductID,
		VariantID:   record.VariantID,
		WarehouseID: record.WarehouseID,
		Kind:        entity.MovementKindReversal,
		Reference:   ref,
		Note:        "reversión de " + snap.Kind,
	}
	// Nota: revertir una entrada puede dejar la cantidad negativa si el stock ya
	// se consumió; en ese caso applyDeltaToRecord rechaza y toda la reversión se aborta.
	_, err = applyDeltaToRecord(ctx, r, record, in, snap.QuantityChange.Neg(), now, false)
	return err
}
