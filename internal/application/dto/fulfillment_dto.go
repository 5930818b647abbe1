package dto

import "github.com/shopspring/decimal"

// ChangeOrderStatusRequest body para PUT /api/orders/:id/status.
type ChangeOrderStatusRequest struct {
	Status string `json:"status"`
}

// SupplierReturnRequest body para POST /api/supplier-returns.
type SupplierReturnRequest struct {
	SupplierID  string          `json:"supplier_id"`
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id,omitempty"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Note        string          `json:"note,omitempty"`
}

// SupplierReturnResponse respuesta con el estado de la devolución.
type SupplierReturnResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
