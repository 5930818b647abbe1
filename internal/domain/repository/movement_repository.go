package repository

import (
	"context"
	"time"

	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de movimientos.
// Append-only: no expone update ni delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.MovementEntry) error

	// ExistsByReference indica si ya hay movimientos para la referencia dada.
	// Lo usa el Reversal Handler para distinguir "ya revertido" de "no existe".
	ExistsByReference(ctx context.Context, ref entity.Reference) (bool, error)

	ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error)
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error)
}
