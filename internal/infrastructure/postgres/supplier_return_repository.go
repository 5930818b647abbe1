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

var _ repository.SupplierReturnRepository = (*SupplierReturnRepo)(nil)

const supplierReturnColumns = `id, account_id, supplier_id, warehouse_id, product_id,
	variant_id, quantity, status, requested_by, note, created_at, sent_at`

// SupplierReturnRepo implementación de devoluciones a proveedor sobre
// PostgreSQL, acotada a una cuenta.
type SupplierReturnRepo struct {
	q         Querier
	accountID string
}

// NewSupplierReturnRepository construye el adaptador acotado a la cuenta.
func NewSupplierReturnRepository(q Querier, accountID string) *SupplierReturnRepo {
	return &SupplierReturnRepo{q: q, accountID: accountID}
}

// Create inserta la devolución.
func (r *SupplierReturnRepo) Create(ctx context.Context, ret *entity.SupplierReturn) error {
	query := `
		INSERT INTO supplier_returns (` + supplierReturnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		ret.ID, r.accountID, ret.SupplierID, ret.WarehouseID, ret.ProductID,
		ret.VariantID, ret.Quantity, ret.Status, ret.RequestedBy, ret.Note, ret.CreatedAt, ret.SentAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier return: %w", err)
	}
	return nil
}

// GetByID devuelve la devolución o nil si no existe.
func (r *SupplierReturnRepo) GetByID(ctx context.Context, id string) (*entity.SupplierReturn, error) {
	query := `
		SELECT ` + supplierReturnColumns + `
		FROM supplier_returns
		WHERE id = $1 AND account_id = $2`
	var ret entity.SupplierReturn
	err := r.q.QueryRow(ctx, query, id, r.accountID).Scan(
		&ret.ID, &ret.AccountID, &ret.SupplierID, &ret.WarehouseID, &ret.ProductID,
		&ret.VariantID, &ret.Quantity, &ret.Status, &ret.RequestedBy, &ret.Note, &ret.CreatedAt, &ret.SentAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier return: %w", err)
	}
	return &ret, nil
}

// UpdateStatus persiste el estado (y sent_at) de la devolución.
func (r *SupplierReturnRepo) UpdateStatus(ctx context.Context, ret *entity.SupplierReturn) error {
	query := `
		UPDATE supplier_returns
		SET status = $1, sent_at = $2
		WHERE id = $3 AND account_id = $4`
	tag, err := r.q.Exec(ctx, query, ret.Status, ret.SentAt, ret.ID, r.accountID)
	if err != nil {
		return fmt.Errorf("update supplier return: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
