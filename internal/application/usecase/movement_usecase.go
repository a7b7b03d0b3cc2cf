package usecase

import (
	"context"

	"github.com/jhoicas/inventario-ti/internal/application/dto"
	"github.com/jhoicas/inventario-ti/internal/domain"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
	"github.com/jhoicas/inventario-ti/internal/domain/repository"
)

// MovementUseCase consulta del historial de movimientos (solo lectura).
type MovementUseCase struct {
	repo  repository.MovementRepository
	items repository.ItemRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(repo repository.MovementRepository, items repository.ItemRepository) *MovementUseCase {
	return &MovementUseCase{repo: repo, items: items}
}

// List historial del más reciente al más antiguo. Limit por defecto y máximo: 100.
func (uc *MovementUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.MovementListResponse{
		Items: toMovementResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListByItem historial de un artículo.
func (uc *MovementUseCase) ListByItem(ctx context.Context, itemID string, limit int) ([]dto.MovementResponse, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	list, err := uc.repo.ListByItem(ctx, itemID, limit)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(list), nil
}

func toMovementResponses(list []*entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID:                m.ID,
			BatchID:           m.BatchID,
			ItemID:            m.ItemID,
			ItemName:          m.ItemName,
			Change:            m.Change,
			Type:              m.Type,
			Reason:            m.Reason,
			Recipient:         m.RecipientName(),
			Department:        m.RecipientDepartment,
			Issuer:            m.IssuerName(),
			InventoryNumber:   m.InventoryNumber,
			SerialNumber:      m.SerialNumber,
			HasKeyboard:       m.HasKeyboard,
			HasDamage:         m.HasDamage,
			DamageDescription: m.DamageDescription,
			HasReceipt:        m.ReceiptPath != "",
			CreatedAt:         m.CreatedAt,
		})
	}
	return out
}
