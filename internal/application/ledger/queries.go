package ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dfcamargo/trastienda-api/internal/domain"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// CacheStore puerto mínimo de caché para lecturas calientes (implementado con
// Redis en infraestructura). Puede ser nil: las consultas van directo a la BD.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

const lowStockCacheTTL = 30 * time.Second

// QueryUseCase lecturas del libro: cantidad actual, stock bajo y listados de
// movimientos. Las lecturas no bloquean y pueden observar un valor pre o post
// mutación (la caché de stock bajo añade a lo sumo lowStockCacheTTL de rezago).
type QueryUseCase struct {
	tx    TxRunner
	cache CacheStore
}

// NewQueryUseCase construye las consultas. cache puede ser nil.
func NewQueryUseCase(tx TxRunner, cache CacheStore) *QueryUseCase {
	return &QueryUseCase{tx: tx, cache: cache}
}

// CurrentQuantity devuelve la cantidad actual de la tupla, o cero si el
// registro aún no existe.
func (uc *QueryUseCase) CurrentQuantity(ctx context.Context, accountID, productID, variantID, warehouseID string) (decimal.Decimal, error) {
	if accountID == "" || productID == "" || warehouseID == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	qty := decimal.Zero
	err := uc.tx.Run(ctx, accountID, func(r Repos) error {
		record, err := r.Stock.Get(ctx, productID, variantID, warehouseID)
		if err != nil {
			return err
		}
		if record != nil {
			qty = record.Quantity
		}
		return nil
	})
	return qty, err
}

// LowStock devuelve los registros con cantidad <= nivel mínimo, con caché
// corta por cuenta+bodega. warehouseID vacío = todas las bodegas.
func (uc *QueryUseCase) LowStock(ctx context.Context, accountID, warehouseID string) ([]*entity.StockRecord, error) {
	if accountID == "" {
		return nil, domain.ErrInvalidInput
	}
	cacheKey := "lowstock:" + accountID + ":" + warehouseID
	if uc.cache != nil {
		if raw, ok, err := uc.cache.Get(ctx, cacheKey); err == nil && ok {
			var cached []*entity.StockRecord
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	var records []*entity.StockRecord
	err := uc.tx.Run(ctx, accountID, func(r Repos) error {
		var err error
		records, err = r.Stock.ListLowStock(ctx, warehouseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(records); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, raw, lowStockCacheTTL)
		}
	}
	return records, nil
}

// ListMovements devuelve movimientos del libro filtrados por bodega o producto,
// con rango de fechas y paginación.
func (uc *QueryUseCase) ListMovements(ctx context.Context, accountID, warehouseID, productID string, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error) {
	if accountID == "" || (warehouseID == "" && productID == "") {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	var movs []*entity.MovementEntry
	err := uc.tx.Run(ctx, accountID, func(r Repos) error {
		var err error
		if warehouseID != "" {
			movs, err = r.Movements.ListByWarehouse(ctx, warehouseID, from, to, limit, offset)
		} else {
			movs, err = r.Movements.ListByProduct(ctx, productID, from, to, limit, offset)
		}
		return err
	})
	return movs, err
}

// HistoryForRecord devuelve los snapshots de auditoría de un registro de stock
// en orden de creación.
func (uc *QueryUseCase) HistoryForRecord(ctx context.Context, accountID, stockRecordID string, limit, offset int) ([]*entity.HistorySnapshot, error) {
	if accountID == "" || stockRecordID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var snaps []*entity.HistorySnapshot
	err := uc.tx.Run(ctx, accountID, func(r Repos) error {
		var err error
		snaps, err = r.History.ListByRecord(ctx, stockRecordID, limit, offset)
		return err
	})
	return snaps, err
}
