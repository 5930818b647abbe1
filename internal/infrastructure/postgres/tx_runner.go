package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dfcamargo/trastienda-api/internal/application/ledger"
	"github.com/dfcamargo/trastienda-api/internal/domain"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// lockWait espera máxima por un bloqueo de fila antes de fallar con un error
// reintentable; la operación completa es atómica, así que el caller puede
// repetirla sin riesgo de efecto parcial.
const lockWait = "3s"

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con los
// repositorios acotados a la cuenta y atados a la tx.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, fija el lock_timeout, ejecuta fn con repos
// acotados a accountID y hace Commit o Rollback. Un 55P03 se traduce a
// domain.ErrLockTimeout.
func (r *TxRunner) Run(ctx context.Context, accountID string, fn func(repos ledger.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "SET LOCAL lock_timeout = '"+lockWait+"'"); err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}

	repos := ledger.Repos{
		Stock:           NewStockRecordRepository(tx, accountID),
		Movements:       NewMovementRepository(tx, accountID),
		History:         NewHistoryRepository(tx, accountID),
		Transfers:       NewTransferRepository(tx, accountID),
		Orders:          NewOrderRepository(tx, accountID),
		SupplierReturns: NewSupplierReturnRepository(tx, accountID),
	}

	if err := fn(repos); err != nil {
		return mapTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// mapTxError traduce un 55P03 (lock_not_available) a domain.ErrLockTimeout,
// aunque venga envuelto por los repositorios. Cualquier otro error pasa intacto.
func mapTxError(err error) error {
	if isLockTimeout(err) {
		return fmt.Errorf("%w: %v", domain.ErrLockTimeout, err)
	}
	return err
}
