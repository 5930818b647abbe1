package repository

import (
	"context"

	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// HistoryRepository define el puerto de persistencia del historial de auditoría
// (snapshots antes/después). Delete solo existe para la reversión mediada por el
// motor; nunca se llama fuera de ella.
type HistoryRepository interface {
	Create(ctx context.Context, snapshot *entity.HistorySnapshot) error

	// ListByReference devuelve los snapshots de una referencia en orden de creación.
	ListByReference(ctx context.Context, ref entity.Reference) ([]*entity.HistorySnapshot, error)

	// ListByRecord devuelve los snapshots de un registro de stock en orden de creación.
	ListByRecord(ctx context.Context, stockRecordID string, limit, offset int) ([]*entity.HistorySnapshot, error)

	// DeleteByReference elimina los snapshots de una referencia y devuelve cuántos borró.
	DeleteByReference(ctx context.Context, ref entity.Reference) (int64, error)
}
