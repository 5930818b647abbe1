package fulfillment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfcamargo/trastienda-api/internal/application/fulfillment"
	"github.com/dfcamargo/trastienda-api/internal/domain"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// La tabla declara el efecto de cada transición una sola vez: cruzar hacia
// {COMPLETED, SHIPPED} descuenta, salir de ellos repone, el resto no toca stock.
func TestTransitionAction_TablaDeclarativa(t *testing.T) {
	cases := []struct {
		from, to entity.OrderStatus
		want     fulfillment.Action
	}{
		// Entradas a la frontera de stock.
		{entity.OrderStatusPending, entity.OrderStatusCompleted, fulfillment.ActionDeduct},
		{entity.OrderStatusPending, entity.OrderStatusShipped, fulfillment.ActionDeduct},
		{entity.OrderStatusPaid, entity.OrderStatusCompleted, fulfillment.ActionDeduct},
		{entity.OrderStatusPaid, entity.OrderStatusShipped, fulfillment.ActionDeduct},
		{entity.OrderStatusCancelled, entity.OrderStatusCompleted, fulfillment.ActionDeduct},
		{entity.OrderStatusReturned, entity.OrderStatusShipped, fulfillment.ActionDeduct},

		// Salidas de la frontera de stock.
		{entity.OrderStatusCompleted, entity.OrderStatusCancelled, fulfillment.ActionRestock},
		{entity.OrderStatusCompleted, entity.OrderStatusReturned, fulfillment.ActionRestock},
		{entity.OrderStatusCompleted, entity.OrderStatusPending, fulfillment.ActionRestock},
		{entity.OrderStatusShipped, entity.OrderStatusCancelled, fulfillment.ActionRestock},
		{entity.OrderStatusShipped, entity.OrderStatusPaid, fulfillment.ActionRestock},

		// Movimientos dentro del mismo lado de la frontera: sin efecto.
		{entity.OrderStatusPending, entity.OrderStatusPaid, fulfillment.ActionNone},
		{entity.OrderStatusPaid, entity.OrderStatusCancelled, fulfillment.ActionNone},
		{entity.OrderStatusCancelled, entity.OrderStatusReturned, fulfillment.ActionNone},

		// Dentro de la frontera (COMPLETED↔SHIPPED): el stock ya está descontado.
		{entity.OrderStatusCompleted, entity.OrderStatusShipped, fulfillment.ActionNone},
		{entity.OrderStatusShipped, entity.OrderStatusCompleted, fulfillment.ActionNone},

		// Reentrar al mismo estado no vuelve a descontar ni a reponer.
		{entity.OrderStatusCompleted, entity.OrderStatusCompleted, fulfillment.ActionNone},
		{entity.OrderStatusShipped, entity.OrderStatusShipped, fulfillment.ActionNone},
		{entity.OrderStatusPending, entity.OrderStatusPending, fulfillment.ActionNone},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"→"+string(tc.to), func(t *testing.T) {
			got, err := fulfillment.TransitionAction(tc.from, tc.to)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTransitionAction_EstadoDesconocido(t *testing.T) {
	_, err := fulfillment.TransitionAction("LIMBO", entity.OrderStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fulfillment.TransitionAction(entity.OrderStatusCompleted, "LIMBO")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
