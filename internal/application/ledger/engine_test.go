package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfcamargo/trastienda-api/internal/application/ledger"
	"github.com/dfcamargo/trastienda-api/internal/domain"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
	"github.com/dfcamargo/trastienda-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testAccountID  = "00000000-0000-0000-0000-00000000000a"
	testActorID    = "00000000-0000-0000-0000-00000000000b"
	testProductID  = "00000000-0000-0000-0000-0000000000p1"
	testWarehouse  = "00000000-0000-0000-0000-0000000000w1"
	testWarehouse2 = "00000000-0000-0000-0000-0000000000w2"
)

type testEnv struct {
	store  *memory.Store
	tx     *memory.TxRunner
	engine *ledger.Engine
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	return &testEnv{store: store, tx: tx, engine: ledger.NewEngine(tx)}
}

// seedStock crea un registro con la cantidad indicada y devuelve su id.
func (e *testEnv) seedStock(productID, variantID, warehouseID string, qty decimal.Decimal) string {
	id := uuid.New().String()
	e.store.SeedStockRecord(&entity.StockRecord{
		ID:          id,
		AccountID:   testAccountID,
		ProductID:   productID,
		VariantID:   variantID,
		WarehouseID: warehouseID,
		Quantity:    qty,
	})
	return id
}

func (e *testEnv) quantity(t *testing.T, productID, variantID, warehouseID string) decimal.Decimal {
	t.Helper()
	queries := ledger.NewQueryUseCase(e.tx, nil)
	qty, err := queries.CurrentQuantity(context.Background(), testAccountID, productID, variantID, warehouseID)
	require.NoError(t, err)
	return qty
}

func manualRef() entity.Reference {
	return entity.Reference{Kind: entity.ReferenceManual, ID: uuid.New().String()}
}

func movementInput(kind string, qty int64, ref entity.Reference) ledger.MovementInput {
	return ledger.MovementInput{
		AccountID:   testAccountID,
		ActorID:     testActorID,
		ProductID:   testProductID,
		WarehouseID: testWarehouse,
		Kind:        kind,
		Quantity:    decimal.NewFromInt(qty),
		Reference:   ref,
	}
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// ──────────────────────────────────────────────────────────────────────────────
// Motor de mutaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_EntradaCreaRegistroPerezoso(t *testing.T) {
	env := newTestEnv()

	// La tupla no existe: el movimiento la crea en cero y aplica el delta.
	res, err := env.engine.ApplyMovement(context.Background(), movementInput(entity.MovementKindInbound, 5, manualRef()))
	require.NoError(t, err)
	assert.True(t, res.NewQuantity.Equal(dec(5)))
	assert.NotEmpty(t, res.MovementID)
	assert.True(t, env.quantity(t, testProductID, "", testWarehouse).Equal(dec(5)))
}

func TestApplyMovement_SalidaDescuenta(t *testing.T) {
	env := newTestEnv()
	env.seedStock(testProductID, "", testWarehouse, dec(10))

	res, err := env.engine.ApplyMovement(context.Background(), movementInput(entity.MovementKindOutbound, 4, manualRef()))
	require.NoError(t, err)
	assert.True(t, res.NewQuantity.Equal(dec(6)))
}

func TestApplyMovement_RechazaCantidadNegativaResultante(t *testing.T) {
	env := newTestEnv()
	env.seedStock(testProductID, "", testWarehouse, dec(3))

	// Rechaza sin recortar a cero y sin efecto parcial.
	_, err := env.engine.ApplyMovement(context.Background(), movementInput(entity.MovementKindOutbound, 4, manualRef()))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, env.quantity(t, testProductID, "", testWarehouse).Equal(dec(3)),
		"un movimiento rechazado no debe tener efecto alguno")
}

func TestApplyMovement_InsuficienteReportaDisponible(t *testing.T) {
	env := newTestEnv()
	env.seedStock(testProductID, "", testWarehouse, dec(3))

	_, err := env.engine.ApplyMovement(context.Background(), movementInput(entity.MovementKindOutbound, 4, manualRef()))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "disponible 3",
		"el rechazo debe informar la cantidad disponible al usuario")
}

func TestApplyMovement_ValidaEntrada(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*ledger.MovementInput)
	}{
		{"sin cuenta", func(in *ledger.MovementInput) { in.AccountID = "" }},
		{"sin actor", func(in *ledger.MovementInput) { in.ActorID = "" }},
		{"sin producto", func(in *ledger.MovementInput) { in.ProductID = "" }},
		{"sin bodega", func(in *ledger.MovementInput) { in.WarehouseID = "" }},
		{"cantidad cero", func(in *ledger.MovementInput) { in.Quantity = decimal.Zero }},
		{"cantidad negativa", func(in *ledger.MovementInput) { in.Quantity = dec(-1) }},
		{"tipo desconocido", func(in *ledger.MovementInput) { in.Kind = "TELEPORT" }},
		{"tipo REVERSAL directo", func(in *ledger.MovementInput) { in.Kind = entity.MovementKindReversal }},
		{"TRANSFER_IN con referencia manual", func(in *ledger.MovementInput) { in.Kind = entity.MovementKindTransferIn }},
		{"TRANSFER_OUT con referencia manual", func(in *ledger.MovementInput) { in.Kind = entity.MovementKindTransferOut }},
		{"referencia sin id", func(in *ledger.MovementInput) { in.Reference.ID = "" }},
		{"costo unitario negativo", func(in *ledger.MovementInput) { c := dec(-1); in.UnitCost = &c }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := movementInput(entity.MovementKindInbound, 5, manualRef())
			tc.mutate(&in)
			_, err := env.engine.ApplyMovement(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestApplyMovement_EscribeHistorialAntesDespues(t *testing.T) {
	env := newTestEnv()
	recordID := env.seedStock(testProductID, "", testWarehouse, dec(10))

	_, err := env.engine.ApplyMovement(context.Background(), movementInput(entity.MovementKindOutbound, 4, manualRef()))
	require.NoError(t, err)

	queries := ledger.NewQueryUseCase(env.tx, nil)
	snaps, err := queries.HistoryForRecord(context.Background(), testAccountID, recordID, 0, 0)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.True(t, snaps[0].QuantityBefore.Equal(dec(10)))
	assert.True(t, snaps[0].QuantityChange.Equal(dec(-4)))
	assert.True(t, snaps[0].QuantityAfter.Equal(dec(6)))
	assert.Equal(t, entity.MovementKindOutbound, snaps[0].Kind)
}

func TestApplyMovement_AislaCuentas(t *testing.T) {
	env := newTestEnv()
	env.seedStock(testProductID, "", testWarehouse, dec(10))

	// Misma tupla bajo otra cuenta: el registro es otro y nace en cero.
	in := movementInput(entity.MovementKindInbound, 2, manualRef())
	in.AccountID = "otra-cuenta"
	res, err := env.engine.ApplyMovement(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, res.NewQuantity.Equal(dec(2)))
	assert.True(t, env.quantity(t, testProductID, "", testWarehouse).Equal(dec(10)))
}

func TestApplyMovement_VariantesTienenStockPropio(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	inTallaM := movementInput(entity.MovementKindInbound, 3, manualRef())
	inTallaM.VariantID = "talla-m"
	_, err := env.engine.ApplyMovement(ctx, inTallaM)
	require.NoError(t, err)

	inSinVariante := movementInput(entity.MovementKindInbound, 8, manualRef())
	_, err = env.engine.ApplyMovement(ctx, inSinVariante)
	require.NoError(t, err)

	assert.True(t, env.quantity(t, testProductID, "talla-m", testWarehouse).Equal(dec(3)))
	assert.True(t, env.quantity(t, testProductID, "", testWarehouse).Equal(dec(8)))
}

// Reconstrucción del libro: la suma prefija de los snapshots, partiendo de cero,
// reproduce la cantidad actual en cada punto.
func TestHistorial_SumaPrefijaReconstruyeCantidad(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	moves := []struct {
		kind string
		qty  int64
	}{
		{entity.MovementKindInbound, 10},
		{entity.MovementKindOutbound, 4},
		{entity.MovementKindInbound, 7},
		{entity.MovementKindLoss, 2},
		{entity.MovementKindOutbound, 5},
	}
	for _, m := range moves {
		_, err := env.engine.ApplyMovement(ctx, movementInput(m.kind, m.qty, manualRef()))
		require.NoError(t, err)
	}

	// Localizar el id del registro vía el primer snapshot.
	queries := ledger.NewQueryUseCase(env.tx, nil)
	qty := env.quantity(t, testProductID, "", testWarehouse)
	require.True(t, qty.Equal(dec(6)))

	var recordID string
	err := env.tx.Run(ctx, testAccountID, func(r ledger.Repos) error {
		rec, err := r.Stock.Get(ctx, testProductID, "", testWarehouse)
		require.NotNil(t, rec)
		recordID = rec.ID
		return err
	})
	require.NoError(t, err)

	snaps, err := queries.HistoryForRecord(ctx, testAccountID, recordID, 0, 0)
	require.NoError(t, err)
	require.Len(t, snaps, len(moves))

	running := decimal.Zero
	for i, snap := range snaps {
		assert.True(t, snap.QuantityBefore.Equal(running), "snapshot %d: before debe igualar la suma prefija", i)
		running = running.Add(snap.QuantityChange)
		assert.True(t, snap.QuantityAfter.Equal(running), "snapshot %d: after debe igualar before+change", i)
	}
	assert.True(t, running.Equal(qty), "la suma prefija completa debe reproducir la cantidad actual")
}

// Serialización: dos salidas concurrentes que individualmente caben pero juntas
// dejarían la cantidad negativa → exactamente una gana.
func TestApplyMovement_ConcurrenciaSerializada(t *testing.T) {
	env := newTestEnv()
	env.seedStock(testProductID, "", testWarehouse, dec(10))

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.engine.ApplyMovement(context.Background(), movementInput(entity.MovementKindOutbound, 7, manualRef()))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, insufficient int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
			insufficient++
		}
	}
	assert.Equal(t, 1, ok, "exactamente una salida debe aplicarse")
	assert.Equal(t, 1, insufficient, "la otra debe rechazarse por stock insuficiente")
	assert.True(t, env.quantity(t, testProductID, "", testWarehouse).Equal(dec(3)))
}

// Escenario de punta a punta: salida, rechazo, traslado y reversión del traslado.
func TestEscenario_SalidaTrasladoYReversion(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedStock(testProductID, "", testWarehouse, dec(10))

	// Salida de 4 → cantidad 6.
	res, err := env.engine.ApplyMovement(ctx, movementInput(entity.MovementKindOutbound, 4, manualRef()))
	require.NoError(t, err)
	require.True(t, res.NewQuantity.Equal(dec(6)))

	// Salida de 7 → rechazada, cantidad sigue en 6.
	_, err = env.engine.ApplyMovement(ctx, movementInput(entity.MovementKindOutbound, 7, manualRef()))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	require.True(t, env.quantity(t, testProductID, "", testWarehouse).Equal(dec(6)))

	// Traslado W→W2 de 6 → origen 0, destino 6.
	transfers := ledger.NewTransferUseCase(env.tx)
	transfer, err := transfers.Transfer(ctx, ledger.TransferInput{
		AccountID:       testAccountID,
		RequestedBy:     testActorID,
		ProductID:       testProductID,
		FromWarehouseID: testWarehouse,
		ToWarehouseID:   testWarehouse2,
		Quantity:        dec(6),
	})
	require.NoError(t, err)
	require.True(t, env.quantity(t, testProductID, "", testWarehouse).IsZero())
	require.True(t, env.quantity(t, testProductID, "", testWarehouse2).Equal(dec(6)))

	// Reversión del traslado → origen vuelve a 6, destino a 0.
	reversals := ledger.NewReversalUseCase(env.tx)
	ref := entity.Reference{Kind: entity.ReferenceTransfer, ID: transfer.ID}
	require.NoError(t, reversals.Reverse(ctx, testAccountID, testActorID, ref))
	assert.True(t, env.quantity(t, testProductID, "", testWarehouse).Equal(dec(6)))
	assert.True(t, env.quantity(t, testProductID, "", testWarehouse2).IsZero())
}
