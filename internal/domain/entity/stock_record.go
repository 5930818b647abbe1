package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord representa la existencia actual de un producto (y variante opcional)
// en una bodega. Una fila por tupla (cuenta, producto, variante, bodega); se crea
// perezosamente en cero la primera vez que un movimiento toca la tupla.
// Solo el motor de mutaciones escribe Quantity.
type StockRecord struct {
	ID               string
	AccountID        string
	ProductID        string
	VariantID        string // "" = producto sin variante
	WarehouseID      string
	Quantity         decimal.Decimal // invariante: >= 0
	ReservedQuantity decimal.Decimal // >= 0 y <= Quantity
	MinLevel         decimal.Decimal
	MaxLevel         decimal.Decimal
	ReorderPoint     decimal.Decimal
	ReorderQuantity  decimal.Decimal
	Location         string
	UpdatedAt        time.Time
}
