package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dfcamargo/trastienda-api/internal/domain"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// Engine es el motor de mutaciones: el único componente autorizado a cambiar
// la cantidad de un StockRecord. Cada mutación bloquea la fila (SELECT FOR
// UPDATE), aplica el delta con signo, escribe el movimiento en el libro y el
// snapshot de historial, todo dentro de una sola transacción.
type Engine struct {
	tx TxRunner
}

// NewEngine construye el motor.
func NewEngine(tx TxRunner) *Engine {
	return &Engine{tx: tx}
}

// MovementInput entrada para aplicar un movimiento de inventario.
// Quantity siempre es positiva; el signo del delta lo determina Kind.
type MovementInput struct {
	AccountID   string
	ActorID     string
	ProductID   string
	VariantID   string // "" = sin variante
	WarehouseID string
	Kind        string
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal
	Reference   entity.Reference
	Note        string
}

// MovementResult resultado de una mutación aplicada.
type MovementResult struct {
	MovementID  string
	NewQuantity decimal.Decimal
}

// ApplyMovement valida la entrada y aplica la mutación de forma atómica.
// Devuelve domain.ErrInsufficientStock, sin efecto parcial alguno, si la
// cantidad resultante fuera negativa: las salidas rechazan, nunca recortan a cero.
func (e *Engine) ApplyMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	if err := validateMovementInput(in); err != nil {
		return nil, err
	}
	var res *MovementResult
	err := e.tx.Run(ctx, in.AccountID, func(r Repos) error {
		var err error
		res, err = ApplyMovementInTx(ctx, r, in, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ApplyMovementInTx aplica un movimiento usando los repositorios del caller
// (misma transacción). Lo usan el coordinador de traslados y los adaptadores
// de cumplimiento para que el cambio de estado del documento y la mutación de
// stock se confirmen juntos.
func ApplyMovementInTx(ctx context.Context, r Repos, in MovementInput, now time.Time) (*MovementResult, error) {
	if err := validateMovementInput(in); err != nil {
		return nil, err
	}
	sign, _ := entity.MovementKindSign(in.Kind)
	delta := in.Quantity
	if sign < 0 {
		delta = delta.Neg()
	}
	return applyDelta(ctx, r, in, delta, now, true)
}

// applyDelta es el núcleo del motor: bloquea (o crea en cero) el registro de la
// tupla, verifica no-negatividad, aplica el delta y escribe libro + historial.
// writeHistory=false solo lo usa la reversión, cuya política es eliminar el
// snapshot original en lugar de añadir uno propio.
func applyDelta(ctx context.Context, r Repos, in MovementInput, delta decimal.Decimal, now time.Time, writeHistory bool) (*MovementResult, error) {
	record, err := r.Stock.GetOrCreateForUpdate(ctx, in.ProductID, in.VariantID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	return applyDeltaToRecord(ctx, r, record, in, delta, now, writeHistory)
}

// applyDeltaToRecord aplica el delta sobre un registro ya bloqueado.
func applyDeltaToRecord(ctx context.Context, r Repos, record *entity.StockRecord, in MovementInput, delta decimal.Decimal, now time.Time, writeHistory bool) (*MovementResult, error) {
	before := record.Quantity
	after := before.Add(delta)
	if after.IsNegative() {
		// El rechazo informa lo disponible para que el usuario pueda ajustar la cantidad.
		return nil, fmt.Errorf("%w: disponible %s", domain.ErrInsufficientStock, before)
	}

	record.Quantity = after
	record.UpdatedAt = now
	if err := r.Stock.UpdateQuantity(ctx, record); err != nil {
		return nil, err
	}

	mov := &entity.MovementEntry{
		ID:          uuid.New().String(),
		AccountID:   in.AccountID,
		WarehouseID: record.WarehouseID,
		ProductID:   record.ProductID,
		VariantID:   record.VariantID,
		Kind:        in.Kind,
		Quantity:    delta,
		UnitCost:    in.UnitCost,
		Reference:   in.Reference,
		ActorID:     in.ActorID,
		Note:        in.Note,
		CreatedAt:   now,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}

	if writeHistory {
		snap := &entity.HistorySnapshot{
			ID:             uuid.New().String(),
			AccountID:      in.AccountID,
			StockRecordID:  record.ID,
			QuantityBefore: before,
			QuantityChange: delta,
			QuantityAfter:  after,
			Kind:           in.Kind,
			Reference:      in.Reference,
			ActorID:        in.ActorID,
			Note:           in.Note,
			CreatedAt:      now,
		}
		if err := r.History.Create(ctx, snap); err != nil {
			return nil, err
		}
	}

	return &MovementResult{MovementID: mov.ID, NewQuantity: after}, nil
}

func validateMovementInput(in MovementInput) error {
	if in.AccountID == "" || in.ActorID == "" || in.ProductID == "" || in.WarehouseID == "" {
		return domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if _, ok := entity.MovementKindSign(in.Kind); !ok {
		return domain.ErrInvalidInput
	}
	if !in.Reference.Valid() {
		return domain.ErrInvalidInput
	}
	// Los tipos de traslado solo los emite el coordinador; un movimiento suelto
	// con esos tipos dejaría en el libro un traslado de un solo lado.
	if (in.Kind == entity.MovementKindTransferIn || in.Kind == entity.MovementKindTransferOut) &&
		in.Reference.Kind != entity.ReferenceTransfer {
		return domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}
