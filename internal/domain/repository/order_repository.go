package repository

import (
	"context"

	"github.com/dfcamargo/trastienda-api/internal/domain/entity"
)

// OrderRepository puerto mínimo sobre pedidos para el adaptador de cumplimiento.
// El CRUD completo de pedidos es responsabilidad de otro módulo.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error
}
