package ledger

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dfcamargo/trastienda-api/internal/application/dto"
	"github.com/dfcamargo/trastienda-api/internal/domain"
)

// ReplenishmentUseCase genera la lista de reposición de una bodega: registros
// en o por debajo de su punto de reorden, con la cantidad sugerida de pedido.
type ReplenishmentUseCase struct {
	tx TxRunner
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(tx TxRunner) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{tx: tx}
}

// GenerateReplenishmentList devuelve las sugerencias ordenadas por mayor
// déficit relativo primero. warehouseID vacío = todas las bodegas de la cuenta.
// Cantidad sugerida: ReorderQuantity si está configurada; si no, el déficit
// hasta el punto de reorden.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, accountID, warehouseID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	if accountID == "" {
		return nil, domain.ErrInvalidInput
	}
	var suggestions []dto.ReplenishmentSuggestionDTO
	err := uc.tx.Run(ctx, accountID, func(r Repos) error {
		records, err := r.Stock.ListBelowReorderPoint(ctx, warehouseID)
		if err != nil {
			return err
		}
		suggestions = make([]dto.ReplenishmentSuggestionDTO, 0, len(records))
		for _, rec := range records {
			deficit := rec.ReorderPoint.Sub(rec.Quantity)
			if deficit.IsNegative() {
				deficit = decimal.Zero
			}
			suggested := rec.ReorderQuantity
			if !suggested.GreaterThan(decimal.Zero) {
				suggested = deficit
			}
			suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
				ProductID:    rec.ProductID,
				VariantID:    rec.VariantID,
				WarehouseID:  rec.WarehouseID,
				CurrentStock: rec.Quantity,
				ReorderPoint: rec.ReorderPoint,
				SuggestedQty: suggested,
				Deficit:      deficit,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Mayor déficit primero; desempate por producto para un orden estable.
	sort.SliceStable(suggestions, func(i, j int) bool {
		if !suggestions[i].Deficit.Equal(suggestions[j].Deficit) {
			return suggestions[i].Deficit.GreaterThan(suggestions[j].Deficit)
		}
		return suggestions[i].ProductID < suggestions[j].ProductID
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
