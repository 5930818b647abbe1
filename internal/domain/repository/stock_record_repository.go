package repository

import (
	"context"

	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// StockRecordRepository define el puerto para el almacén de registros de stock.
// Las implementaciones se construyen ya acotadas a una cuenta (tenant): ningún
// método recibe accountID, el filtro viene incorporado en cada consulta.
// Usado dentro de transacciones para garantizar consistencia.
type StockRecordRepository interface {
	// Get devuelve el registro de la tupla o nil si no existe. Lectura pura, no bloquea.
	Get(ctx context.Context, productID, variantID, warehouseID string) (*entity.StockRecord, error)

	// GetOrCreateForUpdate devuelve el registro de la tupla con bloqueo exclusivo
	// (SELECT FOR UPDATE), creándolo en cero si no existe. Solo válido dentro de
	// una transacción.
	GetOrCreateForUpdate(ctx context.Context, productID, variantID, warehouseID string) (*entity.StockRecord, error)

	// GetByIDForUpdate bloquea y devuelve un registro por su id (lo usa el
	// Reversal Handler, que parte del snapshot y no de la tupla).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error)

	// UpdateQuantity persiste la nueva cantidad de un registro ya bloqueado.
	UpdateQuantity(ctx context.Context, record *entity.StockRecord) error

	// ListLowStock devuelve los registros con cantidad <= nivel mínimo.
	// warehouseID vacío = todas las bodegas de la cuenta.
	ListLowStock(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error)

	// ListBelowReorderPoint devuelve los registros con cantidad <= punto de reorden.
	ListBelowReorderPoint(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error)
}
