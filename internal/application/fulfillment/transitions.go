package fulfillment

import (
	"github.com/dfcamargo/trastienda-api/internal/domain"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// Action efecto de una transición de estado de pedido sobre el libro de inventario.
type Action int

const (
	ActionNone    Action = iota // la transición no cruza la frontera de stock
	ActionDeduct                // entra a un estado que afecta stock: descontar renglones
	ActionRestock               // sale de un estado que afecta stock: revertir la referencia
)

type transitionKey struct {
	from, to entity.OrderStatus
}

// transitions declara, una sola vez, el efecto de cada transición que cruza la
// frontera de estados que afectan stock ({COMPLETED, SHIPPED}). Toda transición
// entre estados conocidos que no aparece aquí es ActionNone; en particular,
// reentrar al mismo estado no vuelve a descontar.
var transitions = map[transitionKey]Action{
	{entity.OrderStatusPending, entity.OrderStatusCompleted}:   ActionDeduct,
	{entity.OrderStatusPending, entity.OrderStatusShipped}:     ActionDeduct,
	{entity.OrderStatusPaid, entity.OrderStatusCompleted}:      ActionDeduct,
	{entity.OrderStatusPaid, entity.OrderStatusShipped}:        ActionDeduct,
	{entity.OrderStatusCancelled, entity.OrderStatusCompleted}: ActionDeduct,
	{entity.OrderStatusCancelled, entity.OrderStatusShipped}:   ActionDeduct,
	{entity.OrderStatusReturned, entity.OrderStatusCompleted}:  ActionDeduct,
	{entity.OrderStatusReturned, entity.OrderStatusShipped}:    ActionDeduct,

	{entity.OrderStatusCompleted, entity.OrderStatusPending}:   ActionRestock,
	{entity.OrderStatusCompleted, entity.OrderStatusPaid}:      ActionRestock,
	{entity.OrderStatusCompleted, entity.OrderStatusCancelled}: ActionRestock,
	{entity.OrderStatusCompleted, entity.OrderStatusReturned}:  ActionRestock,
	{entity.OrderStatusShipped, entity.OrderStatusPending}:     ActionRestock,
	{entity.OrderStatusShipped, entity.OrderStatusPaid}:        ActionRestock,
	{entity.OrderStatusShipped, entity.OrderStatusCancelled}:   ActionRestock,
	{entity.OrderStatusShipped, entity.OrderStatusReturned}:    ActionRestock,
}

// TransitionAction devuelve el efecto declarado para la transición from→to.
// Error si alguno de los estados es desconocido.
func TransitionAction(from, to entity.OrderStatus) (Action, error) {
	if !entity.KnownOrderStatus(from) || !entity.KnownOrderStatus(to) {
		return ActionNone, domain.ErrInvalidInput
	}
	return transitions[transitionKey{from, to}], nil
}
