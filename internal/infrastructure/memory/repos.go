package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dfcamargo/trastienda-api/internal/domain"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
	"github.com/dfcamargo/trastienda-api/internal/domain/repository"
)

var (
	_ repository.StockRecordRepository    = (*stockRecordRepo)(nil)
	_ repository.MovementRepository       = (*movementRepo)(nil)
	_ repository.HistoryRepository        = (*historyRepo)(nil)
	_ repository.TransferRepository       = (*transferRepo)(nil)
	_ repository.OrderRepository          = (*orderRepo)(nil)
	_ repository.SupplierReturnRepository = (*supplierReturnRepo)(nil)
)

// Los repositorios asumen que TxRunner ya tiene tomado el lock del Store.

type stockRecordRepo struct {
	store     *Store
	accountID string
}

func (r *stockRecordRepo) Get(_ context.Context, productID, variantID, warehouseID string) (*entity.StockRecord, error) {
	rec, ok := r.store.records[recordKey(r.accountID, productID, variantID, warehouseID)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *stockRecordRepo) GetOrCreateForUpdate(_ context.Context, productID, variantID, warehouseID string) (*entity.StockRecord, error) {
	key := recordKey(r.accountID, productID, variantID, warehouseID)
	rec, ok := r.store.records[key]
	if !ok {
		rec = &entity.StockRecord{
			ID:               uuid.New().String(),
			AccountID:        r.accountID,
			ProductID:        productID,
			VariantID:        variantID,
			WarehouseID:      warehouseID,
			Quantity:         decimal.Zero,
			ReservedQuantity: decimal.Zero,
			UpdatedAt:        time.Now(),
		}
		r.store.records[key] = rec
		r.store.recordIDs[rec.ID] = key
	}
	cp := *rec
	return &cp, nil
}

func (r *stockRecordRepo) GetByIDForUpdate(_ context.Context, id string) (*entity.StockRecord, error) {
	key, ok := r.store.recordIDs[id]
	if !ok {
		return nil, nil
	}
	rec := r.store.records[key]
	if rec == nil || rec.AccountID != r.accountID {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *stockRecordRepo) UpdateQuantity(_ context.Context, record *entity.StockRecord) error {
	key, ok := r.store.recordIDs[record.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *record
	r.store.records[key] = &cp
	return nil
}

func (r *stockRecordRepo) ListLowStock(_ context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	return r.list(warehouseID, func(rec *entity.StockRecord) bool {
		return rec.MinLevel.GreaterThan(decimal.Zero) && rec.Quantity.LessThanOrEqual(rec.MinLevel)
	})
}

func (r *stockRecordRepo) ListBelowReorderPoint(_ context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	return r.list(warehouseID, func(rec *entity.StockRecord) bool {
		return rec.ReorderPoint.GreaterThan(decimal.Zero) && rec.Quantity.LessThanOrEqual(rec.ReorderPoint)
	})
}

func (r *stockRecordRepo) list(warehouseID string, match func(*entity.StockRecord) bool) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	for _, rec := range r.store.records {
		if rec.AccountID != r.accountID {
			continue
		}
		if warehouseID != "" && rec.WarehouseID != warehouseID {
			continue
		}
		if match(rec) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].WarehouseID < out[j].WarehouseID
	})
	return out, nil
}

type movementRepo struct {
	store     *Store
	accountID string
}

func (r *movementRepo) Create(_ context.Context, movement *entity.MovementEntry) error {
	cp := *movement
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *movementRepo) ExistsByReference(_ context.Context, ref entity.Reference) (bool, error) {
	for _, m := range r.store.movements {
		if m.AccountID == r.accountID && m.Reference == ref {
			return true, nil
		}
	}
	return false, nil
}

func (r *movementRepo) ListByWarehouse(_ context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error) {
	return r.list(func(m *entity.MovementEntry) bool { return m.WarehouseID == warehouseID }, from, to, limit, offset)
}

func (r *movementRepo) ListByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error) {
	return r.list(func(m *entity.MovementEntry) bool { return m.ProductID == productID }, from, to, limit, offset)
}

func (r *movementRepo) list(match func(*entity.MovementEntry) bool, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error) {
	var filtered []*entity.MovementEntry
	// Orden descendente de creación, como el listado SQL.
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		m := r.store.movements[i]
		if m.AccountID != r.accountID || !match(m) {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := *m
		filtered = append(filtered, &cp)
	}
	if offset >= len(filtered) {
		return nil, nil
	}
	filtered = filtered[offset:]
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

type historyRepo struct {
	store     *Store
	accountID string
}

func (r *historyRepo) Create(_ context.Context, snapshot *entity.HistorySnapshot) error {
	cp := *snapshot
	r.store.history = append(r.store.history, &cp)
	return nil
}

func (r *historyRepo) ListByReference(_ context.Context, ref entity.Reference) ([]*entity.HistorySnapshot, error) {
	var out []*entity.HistorySnapshot
	for _, h := range r.store.history {
		if h.AccountID == r.accountID && h.Reference == ref {
			cp := *h
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *historyRepo) ListByRecord(_ context.Context, stockRecordID string, limit, offset int) ([]*entity.HistorySnapshot, error) {
	var out []*entity.HistorySnapshot
	for _, h := range r.store.history {
		if h.AccountID == r.accountID && h.StockRecordID == stockRecordID {
			cp := *h
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *historyRepo) DeleteByReference(_ context.Context, ref entity.Reference) (int64, error) {
	var kept []*entity.HistorySnapshot
	var deleted int64
	for _, h := range r.store.history {
		if h.AccountID == r.accountID && h.Reference == ref {
			deleted++
			continue
		}
		kept = append(kept, h)
	}
	r.store.history = kept
	return deleted, nil
}

type transferRepo struct {
	store     *Store
	accountID string
}

func (r *transferRepo) Create(_ context.Context, transfer *entity.WarehouseTransfer) error {
	if _, exists := r.store.transfers[transfer.ID]; exists {
		return domain.ErrDuplicate
	}
	cp := *transfer
	r.store.transfers[transfer.ID] = &cp
	return nil
}

func (r *transferRepo) GetByID(_ context.Context, id string) (*entity.WarehouseTransfer, error) {
	t, ok := r.store.transfers[id]
	if !ok || t.AccountID != r.accountID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *transferRepo) ListByWarehouse(_ context.Context, warehouseID string, limit, offset int) ([]*entity.WarehouseTransfer, error) {
	var out []*entity.WarehouseTransfer
	for _, t := range r.store.transfers {
		if t.AccountID != r.accountID {
			continue
		}
		if warehouseID != "" && t.FromWarehouseID != warehouseID && t.ToWarehouseID != warehouseID {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type orderRepo struct {
	store     *Store
	accountID string
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.store.orders[id]
	if !ok || o.AccountID != r.accountID {
		return nil, nil
	}
	return copyOrder(o), nil
}

func (r *orderRepo) UpdateStatus(_ context.Context, id string, status entity.OrderStatus) error {
	o, ok := r.store.orders[id]
	if !ok || o.AccountID != r.accountID {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

type supplierReturnRepo struct {
	store     *Store
	accountID string
}

func (r *supplierReturnRepo) Create(_ context.Context, ret *entity.SupplierReturn) error {
	if _, exists := r.store.supReturns[ret.ID]; exists {
		return domain.ErrDuplicate
	}
	cp := *ret
	r.store.supReturns[ret.ID] = &cp
	return nil
}

func (r *supplierReturnRepo) GetByID(_ context.Context, id string) (*entity.SupplierReturn, error) {
	ret, ok := r.store.supReturns[id]
	if !ok || ret.AccountID != r.accountID {
		return nil, nil
	}
	cp := *ret
	return &cp, nil
}

func (r *supplierReturnRepo) UpdateStatus(_ context.Context, ret *entity.SupplierReturn) error {
	stored, ok := r.store.supReturns[ret.ID]
	if !ok || stored.AccountID != r.accountID {
		return domain.ErrNotFound
	}
	cp := *ret
	r.store.supReturns[ret.ID] = &cp
	return nil
}
