package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
	"github.com/dfcamargo/trastienda-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, account_id, warehouse_id, product_id, variant_id, kind,
	quantity, unit_cost, reference_kind, reference_id, actor_id, note, created_at`

// MovementRepo implementación del libro de movimientos sobre PostgreSQL,
// acotada a una cuenta. Append-only: solo inserta y consulta.
type MovementRepo struct {
	q         Querier
	accountID string
}

// NewMovementRepository construye el adaptador acotado a la cuenta.
func NewMovementRepository(q Querier, accountID string) *MovementRepo {
	return &MovementRepo{q: q, accountID: accountID}
}

// Create inserta un movimiento en el libro.
func (r *MovementRepo) Create(ctx context.Context, m *entity.MovementEntry) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, r.accountID, m.WarehouseID, m.ProductID, m.VariantID, m.Kind,
		m.Quantity, m.UnitCost, m.Reference.Kind, m.Reference.ID, m.ActorID, m.Note, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ExistsByReference indica si el libro ya registra movimientos de la referencia.
func (r *MovementRepo) ExistsByReference(ctx context.Context, ref entity.Reference) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM stock_movements
			WHERE account_id = $1 AND reference_kind = $2 AND reference_id = $3
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, r.accountID, ref.Kind, ref.ID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists movement by reference: %w", err)
	}
	return exists, nil
}

// ListByWarehouse devuelve movimientos de una bodega, más recientes primero.
func (r *MovementRepo) ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error) {
	return r.list(ctx, "warehouse_id", warehouseID, from, to, limit, offset)
}

// ListByProduct devuelve movimientos de un producto, más recientes primero.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error) {
	return r.list(ctx, "product_id", productID, from, to, limit, offset)
}

func (r *MovementRepo) list(ctx context.Context, column, value string, from, to *time.Time, limit, offset int) ([]*entity.MovementEntry, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE account_id = $1 AND ` + column + ` = $2`
	args := []any{r.accountID, value}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.MovementEntry
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.MovementEntry, error) {
	var m entity.MovementEntry
	err := row.Scan(
		&m.ID, &m.AccountID, &m.WarehouseID, &m.ProductID, &m.VariantID, &m.Kind,
		&m.Quantity, &m.UnitCost, &m.Reference.Kind, &m.Reference.ID, &m.ActorID, &m.Note, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
