package ledger

import (
	"context"

	"github.com/dfcamargo/trastienda-api/internal/domain/repository"
)

// Repos agrupa los repositorios acotados a una cuenta y atados a una misma
// transacción. Todo lo que el callback de TxRunner toque se confirma o se
// revierte como una unidad.
type Repos struct {
	Stock           repository.StockRecordRepository
	Movements       repository.MovementRepository
	History         repository.HistoryRepository
	Transfers       repository.TransferRepository
	Orders          repository.OrderRepository
	SupplierReturns repository.SupplierReturnRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios acotados a accountID y atados a esa tx. Garantiza atomicidad
// para el motor de inventario: si fn devuelve error, nada queda aplicado.
type TxRunner interface {
	Run(ctx context.Context, accountID string, fn func(r Repos) error) error
}
