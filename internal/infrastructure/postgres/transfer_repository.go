package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dfcamargo/trastienda-api/internal/domain"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
	"github.com/dfcamargo/trastienda-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

const transferColumns = `id, account_id, from_warehouse_id, to_warehouse_id, product_id,
	variant_id, quantity, status, requested_by, note, created_at, completed_at`

// TransferRepo implementación de traslados entre bodegas sobre PostgreSQL,
// acotada a una cuenta.
type TransferRepo struct {
	q         Querier
	accountID string
}

// NewTransferRepository construye el adaptador acotado a la cuenta.
func NewTransferRepository(q Querier, accountID string) *TransferRepo {
	return &TransferRepo{q: q, accountID: accountID}
}

// Create inserta el traslado.
func (r *TransferRepo) Create(ctx context.Context, t *entity.WarehouseTransfer) error {
	query := `
		INSERT INTO warehouse_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		t.ID, r.accountID, t.FromWarehouseID, t.ToWarehouseID, t.ProductID,
		t.VariantID, t.Quantity, t.Status, t.RequestedBy, t.Note, t.CreatedAt, t.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// GetByID devuelve el traslado o nil si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.WarehouseTransfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM warehouse_transfers
		WHERE id = $1 AND account_id = $2`
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id, r.accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

// ListByWarehouse devuelve traslados donde la bodega participa como origen o
// destino, más recientes primero. warehouseID vacío = todos los de la cuenta.
func (r *TransferRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.WarehouseTransfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM warehouse_transfers
		WHERE account_id = $1`
	args := []any{r.accountID}
	if warehouseID != "" {
		args = append(args, warehouseID)
		query += ` AND (from_warehouse_id = $2 OR to_warehouse_id = $2)`
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var out []*entity.WarehouseTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.WarehouseTransfer, error) {
	var t entity.WarehouseTransfer
	err := row.Scan(
		&t.ID, &t.AccountID, &t.FromWarehouseID, &t.ToWarehouseID, &t.ProductID,
		&t.VariantID, &t.Quantity, &t.Status, &t.RequestedBy, &t.Note, &t.CreatedAt, &t.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
