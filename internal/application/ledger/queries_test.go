package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfcamargo/trastienda-api/internal/application/ledger"
	"github.com/dfcamargo/trastienda-api/internal/domain"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// fakeCache implementación trivial de CacheStore para observar hits y sets.
type fakeCache struct {
	data map[string][]byte
	sets int
	hits int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, ok := c.data[key]
	if ok {
		c.hits++
	}
	return raw, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	c.sets++
	return nil
}

func TestCurrentQuantity_CeroSiNoExisteElRegistro(t *testing.T) {
	env := newTestEnv()
	queries := ledger.NewQueryUseCase(env.tx, nil)

	qty, err := queries.CurrentQuantity(context.Background(), testAccountID, testProductID, "", testWarehouse)
	require.NoError(t, err)
	assert.True(t, qty.IsZero(), "una tupla sin registro debe leerse como cero")
}

func TestCurrentQuantity_ValidaEntrada(t *testing.T) {
	env := newTestEnv()
	queries := ledger.NewQueryUseCase(env.tx, nil)
	ctx := context.Background()

	_, err := queries.CurrentQuantity(ctx, "", testProductID, "", testWarehouse)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = queries.CurrentQuantity(ctx, testAccountID, "", "", testWarehouse)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = queries.CurrentQuantity(ctx, testAccountID, testProductID, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLowStock_DevuelveRegistrosEnONivelMinimo(t *testing.T) {
	env := newTestEnv()
	seedWithLevels := func(productID string, qty, minLevel int64) {
		env.store.SeedStockRecord(&entity.StockRecord{
			ID:          uuid.New().String(),
			AccountID:   testAccountID,
			ProductID:   productID,
			WarehouseID: testWarehouse,
			Quantity:    dec(qty),
			MinLevel:    dec(minLevel),
		})
	}
	seedWithLevels("prod-bajo", 2, 5)    // bajo mínimo
	seedWithLevels("prod-justo", 5, 5)   // en el mínimo: también cuenta
	seedWithLevels("prod-sano", 20, 5)   // sobre el mínimo
	seedWithLevels("prod-sin-min", 0, 0) // sin mínimo configurado: no alerta

	queries := ledger.NewQueryUseCase(env.tx, nil)
	records, err := queries.LowStock(context.Background(), testAccountID, testWarehouse)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "prod-bajo", records[0].ProductID)
	assert.Equal(t, "prod-justo", records[1].ProductID)
}

func TestLowStock_UsaCache(t *testing.T) {
	env := newTestEnv()
	env.store.SeedStockRecord(&entity.StockRecord{
		ID:          uuid.New().String(),
		AccountID:   testAccountID,
		ProductID:   testProductID,
		WarehouseID: testWarehouse,
		Quantity:    dec(1),
		MinLevel:    dec(5),
	})

	cache := newFakeCache()
	queries := ledger.NewQueryUseCase(env.tx, cache)
	ctx := context.Background()

	first, err := queries.LowStock(ctx, testAccountID, testWarehouse)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, cache.sets, "la primera lectura debe poblar la caché")

	second, err := queries.LowStock(ctx, testAccountID, testWarehouse)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, cache.hits, "la segunda lectura debe servirse de la caché")
	assert.Equal(t, 1, cache.sets, "un hit no debe reescribir la caché")
}

func TestListMovements_FiltraYPagina(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := env.engine.ApplyMovement(ctx, movementInput(entity.MovementKindInbound, 1, manualRef()))
		require.NoError(t, err)
	}
	otherWarehouse := movementInput(entity.MovementKindInbound, 1, manualRef())
	otherWarehouse.WarehouseID = testWarehouse2
	_, err := env.engine.ApplyMovement(ctx, otherWarehouse)
	require.NoError(t, err)

	queries := ledger.NewQueryUseCase(env.tx, nil)

	movs, err := queries.ListMovements(ctx, testAccountID, testWarehouse, "", nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 5, "el filtro por bodega no debe incluir otras bodegas")

	page, err := queries.ListMovements(ctx, testAccountID, testWarehouse, "", nil, nil, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	byProduct, err := queries.ListMovements(ctx, testAccountID, "", testProductID, nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, byProduct, 6, "el filtro por producto cruza bodegas")
}

func TestListMovements_RequiereBodegaOProducto(t *testing.T) {
	env := newTestEnv()
	queries := ledger.NewQueryUseCase(env.tx, nil)

	_, err := queries.ListMovements(context.Background(), testAccountID, "", "", nil, nil, 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReplenishment_SugiereYPriorizaPorDeficit(t *testing.T) {
	env := newTestEnv()
	seed := func(productID string, qty, reorderPoint, reorderQty int64) {
		env.store.SeedStockRecord(&entity.StockRecord{
			ID:              uuid.New().String(),
			AccountID:       testAccountID,
			ProductID:       productID,
			WarehouseID:     testWarehouse,
			Quantity:        dec(qty),
			ReorderPoint:    dec(reorderPoint),
			ReorderQuantity: dec(reorderQty),
		})
	}
	seed("prod-critico", 1, 10, 20) // déficit 9, pide la cantidad configurada
	seed("prod-leve", 8, 10, 0)     // déficit 2, sin cantidad configurada: pide el déficit
	seed("prod-sano", 50, 10, 20)   // sobre el punto de reorden: no aparece

	replenishment := ledger.NewReplenishmentUseCase(env.tx)
	suggestions, err := replenishment.GenerateReplenishmentList(context.Background(), testAccountID, testWarehouse)
	require.NoError(t, err)

	require.Len(t, suggestions, 2)
	assert.Equal(t, "prod-critico", suggestions[0].ProductID, "el mayor déficit va primero")
	assert.Equal(t, 1, suggestions[0].Priority)
	assert.True(t, suggestions[0].SuggestedQty.Equal(dec(20)))
	assert.True(t, suggestions[0].Deficit.Equal(dec(9)))

	assert.Equal(t, "prod-leve", suggestions[1].ProductID)
	assert.Equal(t, 2, suggestions[1].Priority)
	assert.True(t, suggestions[1].SuggestedQty.Equal(dec(2)), "sin cantidad configurada se sugiere el déficit")
}
