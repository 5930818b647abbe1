package memory

import (
	"context"

	"github.com/dfcamargo/trastienda-api/internal/application/ledger"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks contra el Store con semántica transaccional:
// un mutex global serializa las transacciones (equivalente conservador del
// bloqueo de fila) y un snapshot del estado permite rollback si fn falla.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run toma el lock, ejecuta fn con repositorios acotados a accountID y
// restaura el snapshot si fn devuelve error.
func (t *TxRunner) Run(ctx context.Context, accountID string, fn func(r ledger.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	snap := t.store.takeSnapshot()
	repos := ledger.Repos{
		Stock:           &stockRecordRepo{store: t.store, accountID: accountID},
		Movements:       &movementRepo{store: t.store, accountID: accountID},
		History:         &historyRepo{store: t.store, accountID: accountID},
		Transfers:       &transferRepo{store: t.store, accountID: accountID},
		Orders:          &orderRepo{store: t.store, accountID: accountID},
		SupplierReturns: &supplierReturnRepo{store: t.store, accountID: accountID},
	}
	if err := fn(repos); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}
