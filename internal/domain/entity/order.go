package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de una venta o pedido en línea.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusReturned  OrderStatus = "RETURNED"
)

// KnownOrderStatus indica si el estado pertenece al ciclo de vida del pedido.
func KnownOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCompleted,
		OrderStatusShipped, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

// Order es la vista mínima de un pedido que necesita el adaptador de
// cumplimiento: estado, bodega de despacho y renglones. El CRUD completo de
// pedidos vive fuera del núcleo de inventario.
type Order struct {
	ID          string
	AccountID   string
	WarehouseID string // bodega designada de despacho de la cuenta
	Status      OrderStatus
	Items       []OrderItem
	UpdatedAt   time.Time
}

// OrderItem renglón de pedido.
type OrderItem struct {
	ProductID string
	VariantID string
	Quantity  decimal.Decimal // > 0
}
