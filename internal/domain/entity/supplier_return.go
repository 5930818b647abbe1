package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una devolución a proveedor. La disponibilidad se verifica al
// solicitar, pero el descuento de stock ocurre al pasar a SENT (y se revalida
// bajo bloqueo en ese momento).
const (
	SupplierReturnStatusRequested = "REQUESTED"
	SupplierReturnStatusSent      = "SENT"
	SupplierReturnStatusVoided    = "VOIDED"
)

// SupplierReturn representa una devolución de mercancía a un proveedor.
type SupplierReturn struct {
	ID          string
	AccountID   string
	SupplierID  string
	WarehouseID string
	ProductID   string
	VariantID   string
	Quantity    decimal.Decimal // > 0
	Status      string
	RequestedBy string
	Note        string
	CreatedAt   time.Time
	SentAt      *time.Time
}
