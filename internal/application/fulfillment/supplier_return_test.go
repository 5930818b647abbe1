package fulfillment_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfcamargo/trastienda-api/internal/application/fulfillment"
	"github.com/dfcamargo/trastienda-api/internal/application/ledger"
	"github.com/dfcamargo/trastienda-api/internal/domain"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

const testSupplierID = "00000000-0000-0000-0000-0000000000s1"

func returnInput(qty int64) fulfillment.SupplierReturnInput {
	return fulfillment.SupplierReturnInput{
		AccountID:   testAccountID,
		RequestedBy: testActorID,
		SupplierID:  testSupplierID,
		ProductID:   testProductID,
		WarehouseID: testWarehouse,
		Quantity:    decimal.NewFromInt(qty),
	}
}

func TestSupplierReturn_RequestNoMueveStock(t *testing.T) {
	env := newTestEnv()
	env.seedStock(testProductID, testWarehouse, dec(10))

	returns := fulfillment.NewSupplierReturnUseCase(env.tx)
	ret, err := returns.Request(context.Background(), returnInput(4))
	require.NoError(t, err)

	assert.Equal(t, entity.SupplierReturnStatusRequested, ret.Status)
	assert.True(t, env.quantity(t, testProductID).Equal(dec(10)),
		"solicitar no debe descontar stock")
}

func TestSupplierReturn_RequestRechazaSinDisponibilidad(t *testing.T) {
	env := newTestEnv()
	env.seedStock(testProductID, testWarehouse, dec(2))

	returns := fulfillment.NewSupplierReturnUseCase(env.tx)
	_, err := returns.Request(context.Background(), returnInput(4))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "disponible 2",
		"el rechazo debe informar la cantidad disponible")
}

func TestSupplierReturn_SendDescuenta(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedStock(testProductID, testWarehouse, dec(10))

	returns := fulfillment.NewSupplierReturnUseCase(env.tx)
	ret, err := returns.Request(ctx, returnInput(4))
	require.NoError(t, err)

	require.NoError(t, returns.Send(ctx, testAccountID, testActorID, ret.ID))
	assert.True(t, env.quantity(t, testProductID).Equal(dec(6)))
}

// Entre la solicitud y el envío una venta pudo consumir el stock: el envío
// revalida la suficiencia bajo bloqueo y rechaza sin cambiar el estado.
func TestSupplierReturn_SendRevalidaBajoBloqueo(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedStock(testProductID, testWarehouse, dec(10))

	returns := fulfillment.NewSupplierReturnUseCase(env.tx)
	ret, err := returns.Request(ctx, returnInput(8))
	require.NoError(t, err)

	// Una venta consume el stock después de la solicitud.
	engine := ledger.NewEngine(env.tx)
	_, err = engine.ApplyMovement(ctx, ledger.MovementInput{
		AccountID:   testAccountID,
		ActorID:     testActorID,
		ProductID:   testProductID,
		WarehouseID: testWarehouse,
		Kind:        entity.MovementKindOutbound,
		Quantity:    dec(5),
		Reference:   entity.Reference{Kind: entity.ReferenceManual, ID: uuid.New().String()},
	})
	require.NoError(t, err)

	err = returns.Send(ctx, testAccountID, testActorID, ret.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, env.quantity(t, testProductID).Equal(dec(5)), "el envío rechazado no debe descontar")

	// La devolución sigue en REQUESTED y puede anularse.
	require.NoError(t, returns.Void(ctx, testAccountID, testActorID, ret.ID))
}

func TestSupplierReturn_SendSoloDesdeRequested(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedStock(testProductID, testWarehouse, dec(10))

	returns := fulfillment.NewSupplierReturnUseCase(env.tx)
	ret, err := returns.Request(ctx, returnInput(4))
	require.NoError(t, err)
	require.NoError(t, returns.Send(ctx, testAccountID, testActorID, ret.ID))

	err = returns.Send(ctx, testAccountID, testActorID, ret.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "reenviar una devolución ya enviada debe fallar")
	assert.True(t, env.quantity(t, testProductID).Equal(dec(6)), "sin doble descuento")
}

func TestSupplierReturn_VoidTrasEnvioRepone(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedStock(testProductID, testWarehouse, dec(10))

	returns := fulfillment.NewSupplierReturnUseCase(env.tx)
	ret, err := returns.Request(ctx, returnInput(4))
	require.NoError(t, err)
	require.NoError(t, returns.Send(ctx, testAccountID, testActorID, ret.ID))
	require.True(t, env.quantity(t, testProductID).Equal(dec(6)))

	require.NoError(t, returns.Void(ctx, testAccountID, testActorID, ret.ID))
	assert.True(t, env.quantity(t, testProductID).Equal(dec(10)), "anular tras el envío debe reponer")
}

func TestSupplierReturn_VoidAntesDeEnvioNoMueveStock(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedStock(testProductID, testWarehouse, dec(10))

	returns := fulfillment.NewSupplierReturnUseCase(env.tx)
	ret, err := returns.Request(ctx, returnInput(4))
	require.NoError(t, err)

	require.NoError(t, returns.Void(ctx, testAccountID, testActorID, ret.ID))
	assert.True(t, env.quantity(t, testProductID).Equal(dec(10)))
}

func TestSupplierReturn_VoidDobleConflict(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedStock(testProductID, testWarehouse, dec(10))

	returns := fulfillment.NewSupplierReturnUseCase(env.tx)
	ret, err := returns.Request(ctx, returnInput(4))
	require.NoError(t, err)
	require.NoError(t, returns.Void(ctx, testAccountID, testActorID, ret.ID))

	err = returns.Void(ctx, testAccountID, testActorID, ret.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSupplierReturn_NotFound(t *testing.T) {
	env := newTestEnv()
	returns := fulfillment.NewSupplierReturnUseCase(env.tx)
	ctx := context.Background()

	assert.ErrorIs(t, returns.Send(ctx, testAccountID, testActorID, uuid.New().String()), domain.ErrNotFound)
	assert.ErrorIs(t, returns.Void(ctx, testAccountID, testActorID, uuid.New().String()), domain.ErrNotFound)
}
