package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistorySnapshot es la foto antes/después de una mutación sobre un StockRecord.
// Invariante: QuantityAfter = QuantityBefore + QuantityChange, y QuantityBefore
// es la cantidad del registro inmediatamente antes de la mutación (se escribe en
// la misma transacción que el update del registro).
// El Reversal Handler localiza por Reference qué deshacer; al revertir, las filas
// coincidentes se eliminan junto con el efecto.
type HistorySnapshot struct {
	ID             string
	AccountID      string
	StockRecordID  string
	QuantityBefore decimal.Decimal
	QuantityChange decimal.Decimal // con signo
	QuantityAfter  decimal.Decimal
	Kind           string // espeja el tipo de movimiento
	Reference      Reference
	ActorID        string
	Note           string
	CreatedAt      time.Time
}
