package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Quantity siempre positiva; el tipo determina el signo del delta.
type RegisterMovementRequest struct {
	ProductID   string           `json:"product_id"`
	VariantID   string           `json:"variant_id,omitempty"`
	WarehouseID string           `json:"warehouse_id"`
	Kind        string           `json:"kind"` // IN, OUT, RETURN_SUPPLIER, LOSS
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Note        string           `json:"note,omitempty"`
}

// MovementResponse respuesta de un movimiento aplicado.
type MovementResponse struct {
	MovementID  string          `json:"movement_id"`
	ReferenceID string          `json:"reference_id"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ProductID       string          `json:"product_id"`
	VariantID       string          `json:"variant_id,omitempty"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Note            string          `json:"note,omitempty"`
}

// TransferResponse respuesta de un traslado completado.
type TransferResponse struct {
	TransferID      string          `json:"transfer_id"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Status          string          `json:"status"`
	CompletedAt     time.Time       `json:"completed_at"`
}

// StockRecordDTO registro de stock para respuestas de consulta.
type StockRecordDTO struct {
	ProductID    string          `json:"product_id"`
	VariantID    string          `json:"variant_id,omitempty"`
	WarehouseID  string          `json:"warehouse_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinLevel     decimal.Decimal `json:"min_level"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	Location     string          `json:"location,omitempty"`
}

// MovementEntryDTO renglón del libro de movimientos para respuestas de consulta.
// Quantity lleva signo: positivo entrada, negativo salida.
type MovementEntryDTO struct {
	ID            string           `json:"id"`
	WarehouseID   string           `json:"warehouse_id"`
	ProductID     string           `json:"product_id"`
	VariantID     string           `json:"variant_id,omitempty"`
	Kind          string           `json:"kind"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceKind string           `json:"reference_kind"`
	ReferenceID   string           `json:"reference_id"`
	ActorID       string           `json:"actor_id"`
	Note          string           `json:"note,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// HistorySnapshotDTO snapshot de auditoría de un registro de stock.
type HistorySnapshotDTO struct {
	ID             string          `json:"id"`
	StockRecordID  string          `json:"stock_record_id"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Kind           string          `json:"kind"`
	ReferenceKind  string          `json:"reference_kind"`
	ReferenceID    string          `json:"reference_id"`
	ActorID        string          `json:"actor_id"`
	Note           string          `json:"note,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un registro que se
// encuentra en o por debajo de su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ProductID    string          `json:"product_id"`
	VariantID    string          `json:"variant_id,omitempty"`
	WarehouseID  string          `json:"warehouse_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	SuggestedQty decimal.Decimal `json:"suggested_qty"`
	Deficit      decimal.Decimal `json:"deficit"`
	Priority     int             `json:"priority"` // 1 = más urgente
}
