package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
	"github.com/dfcamargo/trastienda-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

const stockRecordColumns = `id, account_id, product_id, variant_id, warehouse_id,
	quantity, reserved_quantity, min_level, max_level, reorder_point, reorder_quantity,
	location, updated_at`

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL,
// acotada a una cuenta. Pasar pool o tx (Querier); las operaciones FOR UPDATE
// requieren tx.
type StockRecordRepo struct {
	q         Querier
	accountID string
}

// NewStockRecordRepository construye el adaptador acotado a la cuenta.
func NewStockRecordRepository(q Querier, accountID string) *StockRecordRepo {
	return &StockRecordRepo{q: q, accountID: accountID}
}

// Get devuelve el registro de la tupla o nil si aún no existe. Lectura pura.
func (r *StockRecordRepo) Get(ctx context.Context, productID, variantID, warehouseID string) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records
		WHERE account_id = $1 AND product_id = $2 AND variant_id = $3 AND warehouse_id = $4`
	rec, err := r.scanOne(r.q.QueryRow(ctx, query, r.accountID, productID, variantID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return rec, nil
}

// GetOrCreateForUpdate crea la tupla en cero si no existe y la devuelve con
// bloqueo exclusivo. El INSERT ... ON CONFLICT DO NOTHING seguido del SELECT
// FOR UPDATE garantiza que dos transacciones concurrentes sobre la misma tupla
// se serialicen en la fila, nunca sobre una fila inexistente.
func (r *StockRecordRepo) GetOrCreateForUpdate(ctx context.Context, productID, variantID, warehouseID string) (*entity.StockRecord, error) {
	insert := `
		INSERT INTO stock_records (id, account_id, product_id, variant_id, warehouse_id,
			quantity, reserved_quantity, min_level, max_level, reorder_point, reorder_quantity,
			location, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, 0, 0, 0, 0, 0, 0, '', now())
		ON CONFLICT (account_id, product_id, variant_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, r.accountID, productID, variantID, warehouseID); err != nil {
		return nil, fmt.Errorf("create stock record: %w", err)
	}

	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records
		WHERE account_id = $1 AND product_id = $2 AND variant_id = $3 AND warehouse_id = $4
		FOR UPDATE`
	rec, err := r.scanOne(r.q.QueryRow(ctx, query, r.accountID, productID, variantID, warehouseID))
	if err != nil {
		return nil, fmt.Errorf("lock stock record: %w", err)
	}
	return rec, nil
}

// GetByIDForUpdate bloquea y devuelve un registro por id, o nil si no existe.
func (r *StockRecordRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records
		WHERE id = $1 AND account_id = $2
		FOR UPDATE`
	rec, err := r.scanOne(r.q.QueryRow(ctx, query, id, r.accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock stock record by id: %w", err)
	}
	return rec, nil
}

// UpdateQuantity persiste la cantidad de un registro ya bloqueado.
func (r *StockRecordRepo) UpdateQuantity(ctx context.Context, record *entity.StockRecord) error {
	query := `
		UPDATE stock_records
		SET quantity = $1, updated_at = $2
		WHERE id = $3 AND account_id = $4`
	tag, err := r.q.Exec(ctx, query, record.Quantity, record.UpdatedAt, record.ID, r.accountID)
	if err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock quantity: fila no encontrada")
	}
	return nil
}

// ListLowStock devuelve los registros con cantidad <= nivel mínimo (solo
// registros con mínimo configurado). warehouseID vacío = todas las bodegas.
func (r *StockRecordRepo) ListLowStock(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	return r.listThreshold(ctx, "min_level", warehouseID)
}

// ListBelowReorderPoint devuelve los registros con cantidad <= punto de reorden.
func (r *StockRecordRepo) ListBelowReorderPoint(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	return r.listThreshold(ctx, "reorder_point", warehouseID)
}

func (r *StockRecordRepo) listThreshold(ctx context.Context, column, warehouseID string) ([]*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records
		WHERE account_id = $1 AND ` + column + ` > 0 AND quantity <= ` + column
	args := []any{r.accountID}
	if warehouseID != "" {
		query += ` AND warehouse_id = $2`
		args = append(args, warehouseID)
	}
	query += ` ORDER BY product_id, warehouse_id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock records: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockRecord
	for rows.Next() {
		rec, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *StockRecordRepo) scanOne(row pgx.Row) (*entity.StockRecord, error) {
	var rec entity.StockRecord
	err := row.Scan(
		&rec.ID, &rec.AccountID, &rec.ProductID, &rec.VariantID, &rec.WarehouseID,
		&rec.Quantity, &rec.ReservedQuantity, &rec.MinLevel, &rec.MaxLevel,
		&rec.ReorderPoint, &rec.ReorderQuantity, &rec.Location, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
