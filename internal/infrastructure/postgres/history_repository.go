package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
	"github.com/dfcamargo/trastienda-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

const historyColumns = `id, account_id, stock_record_id, quantity_before, quantity_change,
	quantity_after, kind, reference_kind, reference_id, actor_id, note, created_at`

// HistoryRepo implementación del historial de auditoría sobre PostgreSQL,
// acotada a una cuenta. El delete existe únicamente para la reversión mediada
// por el motor.
type HistoryRepo struct {
	q         Querier
	accountID string
}

// NewHistoryRepository construye el adaptador acotado a la cuenta.
func NewHistoryRepository(q Querier, accountID string) *HistoryRepo {
	return &HistoryRepo{q: q, accountID: accountID}
}

// Create inserta un snapshot antes/después.
func (r *HistoryRepo) Create(ctx context.Context, s *entity.HistorySnapshot) error {
	query := `
		INSERT INTO stock_history (` + historyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		s.ID, r.accountID, s.StockRecordID, s.QuantityBefore, s.QuantityChange,
		s.QuantityAfter, s.Kind, s.Reference.Kind, s.Reference.ID, s.ActorID, s.Note, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert history snapshot: %w", err)
	}
	return nil
}

// ListByReference devuelve los snapshots de una referencia en orden de creación.
func (r *HistoryRepo) ListByReference(ctx context.Context, ref entity.Reference) ([]*entity.HistorySnapshot, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM stock_history
		WHERE account_id = $1 AND reference_kind = $2 AND reference_id = $3
		ORDER BY created_at, id`
	return r.listQuery(ctx, query, r.accountID, ref.Kind, ref.ID)
}

// ListByRecord devuelve los snapshots de un registro de stock en orden de creación.
func (r *HistoryRepo) ListByRecord(ctx context.Context, stockRecordID string, limit, offset int) ([]*entity.HistorySnapshot, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM stock_history
		WHERE account_id = $1 AND stock_record_id = $2
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4`
	return r.listQuery(ctx, query, r.accountID, stockRecordID, limit, offset)
}

// DeleteByReference elimina los snapshots de una referencia.
func (r *HistoryRepo) DeleteByReference(ctx context.Context, ref entity.Reference) (int64, error) {
	query := `
		DELETE FROM stock_history
		WHERE account_id = $1 AND reference_kind = $2 AND reference_id = $3`
	tag, err := r.q.Exec(ctx, query, r.accountID, ref.Kind, ref.ID)
	if err != nil {
		return 0, fmt.Errorf("delete history by reference: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *HistoryRepo) listQuery(ctx context.Context, query string, args ...any) ([]*entity.HistorySnapshot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history snapshots: %w", err)
	}
	defer rows.Close()

	var out []*entity.HistorySnapshot
	for rows.Next() {
		s, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history snapshot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanHistory(row pgx.Row) (*entity.HistorySnapshot, error) {
	var s entity.HistorySnapshot
	err := row.Scan(
		&s.ID, &s.AccountID, &s.StockRecordID, &s.QuantityBefore, &s.QuantityChange,
		&s.QuantityAfter, &s.Kind, &s.Reference.Kind, &s.Reference.ID, &s.ActorID, &s.Note, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
