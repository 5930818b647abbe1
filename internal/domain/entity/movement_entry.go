package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario. El signo del delta lo determina el tipo:
// entradas positivas, salidas negativas. REVERSAL lo emite únicamente el
// Reversal Handler con el signo del cambio negado.
const (
	MovementKindInbound        = "IN"              // entrada (compra, devolución de cliente)
	MovementKindOutbound       = "OUT"             // salida (venta, consumo)
	MovementKindTransferIn     = "TRANSFER_IN"     // entrada por traslado
	MovementKindTransferOut    = "TRANSFER_OUT"    // salida por traslado
	MovementKindSupplierReturn = "RETURN_SUPPLIER" // devolución a proveedor
	MovementKindLoss           = "LOSS"            // pérdida o daño
	MovementKindReversal       = "REVERSAL"        // reversión de un movimiento previo
)

// MovementKindSign devuelve el signo del delta para un tipo de movimiento
// (+1 entrada, -1 salida) y false si el tipo es desconocido o no admite
// registro directo (REVERSAL).
func MovementKindSign(kind string) (int, bool) {
	switch kind {
	case MovementKindInbound, MovementKindTransferIn:
		return 1, true
	case MovementKindOutbound, MovementKindTransferOut, MovementKindSupplierReturn, MovementKindLoss:
		return -1, true
	}
	return 0, false
}

// MovementEntry es el registro inmutable de una mutación en el libro de movimientos.
// Append-only: nunca se edita; solo el Reversal Handler puede compensarlo con un
// movimiento REVERSAL nuevo, jamás editándolo.
type MovementEntry struct {
	ID          string
	AccountID   string
	WarehouseID string
	ProductID   string
	VariantID   string
	Kind        string
	Quantity    decimal.Decimal  // con signo: positivo entrada, negativo salida
	UnitCost    *decimal.Decimal // opcional
	Reference   Reference
	ActorID     string
	Note        string
	CreatedAt   time.Time
}
