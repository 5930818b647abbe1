package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dfcamargo/trastienda-api/internal/domain"
	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
	"github.com/dfcamargo/trastienda-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo vista mínima de pedidos para el adaptador de cumplimiento,
// acotada a una cuenta. El CRUD completo de pedidos vive en otro módulo.
type OrderRepo struct {
	q         Querier
	accountID string
}

// NewOrderRepository construye el adaptador acotado a la cuenta.
func NewOrderRepository(q Querier, accountID string) *OrderRepo {
	return &OrderRepo{q: q, accountID: accountID}
}

// GetByID devuelve el pedido con sus renglones, o nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `
		SELECT id, account_id, warehouse_id, status, updated_at
		FROM orders
		WHERE id = $1 AND account_id = $2`
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id, r.accountID).Scan(
		&o.ID, &o.AccountID, &o.WarehouseID, &o.Status, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	itemsQuery := `
		SELECT product_id, variant_id, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY line_no`
	rows, err := r.q.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.OrderItem
		if err := rows.Scan(&item.ProductID, &item.VariantID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateStatus persiste el nuevo estado del pedido.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3 AND account_id = $4`
	tag, err := r.q.Exec(ctx, query, status, time.Now(), id, r.accountID)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
