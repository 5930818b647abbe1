package repository

import (
	"context"

	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// TransferRepository define el puerto de persistencia de traslados entre bodegas.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.WarehouseTransfer) error
	GetByID(ctx context.Context, id string) (*entity.WarehouseTransfer, error)
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.WarehouseTransfer, error)
}
