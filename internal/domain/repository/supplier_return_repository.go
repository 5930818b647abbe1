package repository

import (
	"context"

	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// SupplierReturnRepository define el puerto de persistencia de devoluciones a proveedor.
type SupplierReturnRepository interface {
	Create(ctx context.Context, ret *entity.SupplierReturn) error
	GetByID(ctx context.Context, id string) (*entity.SupplierReturn, error)
	UpdateStatus(ctx context.Context, ret *entity.SupplierReturn) error
}
