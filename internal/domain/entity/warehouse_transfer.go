package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estado de un traslado. El ciclo de vida es síncrono de un solo paso:
// se crea ya completado (sin estados parciales persistidos).
const TransferStatusCompleted = "COMPLETED"

// WarehouseTransfer representa un traslado de stock entre dos bodegas distintas.
// Un traslado completado tiene exactamente dos pares movimiento/snapshot
// (TRANSFER_OUT en origen, TRANSFER_IN en destino) con la misma magnitud.
type WarehouseTransfer struct {
	ID              string
	AccountID       string
	FromWarehouseID string
	ToWarehouseID   string
	ProductID       string
	VariantID       string
	Quantity        decimal.Decimal // > 0
	Status          string
	RequestedBy     string
	Note            string
	CreatedAt       time.Time
	CompletedAt     time.Time
}
