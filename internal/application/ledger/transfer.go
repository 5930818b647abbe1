package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dfcamargo/trastienda-api/internal/domain"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// TransferUseCase coordina traslados entre bodegas: una mutación de dos lados
// (salida en origen, entrada en destino) construida sobre el motor y aplicada
// como una sola transacción. Cualquier otro lector observa el traslado
// completo o nada.
type TransferUseCase struct {
	tx TxRunner
}

// NewTransferUseCase construye el coordinador.
func NewTransferUseCase(tx TxRunner) *TransferUseCase {
	return &TransferUseCase{tx: tx}
}

// TransferInput entrada para un traslado entre bodegas.
type TransferInput struct {
	AccountID       string
	RequestedBy     string
	ProductID       string
	VariantID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        decimal.Decimal // > 0
	Note            string
}

// Transfer crea el traslado (ciclo síncrono: nace completado), descuenta en la
// bodega origen y abona en la destino. La suficiencia en origen se verifica
// bajo bloqueo en el momento de ejecutar, no solo al solicitar; si no alcanza,
// toda la transacción se aborta sin efecto en destino.
func (uc *TransferUseCase) Transfer(ctx context.Context, in TransferInput) (*entity.WarehouseTransfer, error) {
	if in.AccountID == "" || in.RequestedBy == "" || in.ProductID == "" ||
		in.FromWarehouseID == "" || in.ToWarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	transfer := &entity.WarehouseTransfer{
		ID:              uuid.New().String(),
		AccountID:       in.AccountID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		ProductID:       in.ProductID,
		VariantID:       in.VariantID,
		Quantity:        in.Quantity,
		Status:          entity.TransferStatusCompleted,
		RequestedBy:     in.RequestedBy,
		Note:            in.Note,
		CreatedAt:       now,
		CompletedAt:     now,
	}
	ref := entity.Reference{Kind: entity.ReferenceTransfer, ID: transfer.ID}

	err := uc.tx.Run(ctx, in.AccountID, func(r Repos) error {
		if err := r.Transfers.Create(ctx, transfer); err != nil {
			return err
		}
		out := MovementInput{
			AccountID:   in.AccountID,
			ActorID:     in.RequestedBy,
			ProductID:   in.ProductID,
			VariantID:   in.VariantID,
			WarehouseID: in.FromWarehouseID,
			Kind:        entity.MovementKindTransferOut,
			Quantity:    in.Quantity,
			Reference:   ref,
			Note:        in.Note,
		}
		if _, err := ApplyMovementInTx(ctx, r, out, now); err != nil {
			return err
		}
		inMov := out
		inMov.WarehouseID = in.ToWarehouseID
		inMov.Kind = entity.MovementKindTransferIn
		if _, err := ApplyMovementInTx(ctx, r, inMov, now); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}
