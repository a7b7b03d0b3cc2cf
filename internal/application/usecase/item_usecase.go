package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/inventario-ti/internal/application/dto"
	"github.com/jhoicas/inventario-ti/internal/application/inventory"
	"github.com/jhoicas/inventario-ti/internal/domain"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
	"github.com/jhoicas/inventario-ti/internal/domain/repository"
	"github.com/jhoicas/inventario-ti/pkg/logger"
)

// LowStockLimit máximo de artículos en la lista de stock bajo.
const LowStockLimit = 100

// ItemUseCase casos de uso del catálogo. Quantity solo cambia vía movimientos:
// una edición que la modifica registra un ajuste en la misma transacción.
type ItemUseCase struct {
	repo      repository.ItemRepository
	movements repository.MovementRepository
	txRunner  inventory.TxRunner
	log       *logger.Logger
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	repo repository.ItemRepository,
	movements repository.MovementRepository,
	txRunner inventory.TxRunner,
	log *logger.Logger,
) *ItemUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ItemUseCase{repo: repo, movements: movements, txRunner: txRunner, log: log.Component("items")}
}

// Create da de alta un artículo. SKU y código de barras, si vienen, no pueden chocar
// con los de otro artículo (ErrDuplicate, sin insertar nada).
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	now := time.Now()
	item := &entity.Item{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(in.Name),
		SKU:             strings.TrimSpace(in.SKU),
		Barcode:         strings.TrimSpace(in.Barcode),
		Quantity:        in.Quantity,
		MinQuantity:     in.MinQuantity,
		Category:        strings.TrimSpace(in.Category),
		Subcategory:     strings.TrimSpace(in.Subcategory),
		InventoryNumber: strings.TrimSpace(in.InventoryNumber),
		SerialNumber:    strings.TrimSpace(in.SerialNumber),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueCodes(ctx, item); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	uc.log.Info().Str("item_id", item.ID).Str("name", item.Name).Int("quantity", item.Quantity).Msg("artículo creado")
	return toItemResponse(item), nil
}

// Get obtiene un artículo por ID.
func (uc *ItemUseCase) Get(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// Update aplica una edición parcial. Si cambia la cantidad se registra un movimiento
// de tipo adjustment con la diferencia, atribuido a operator.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest, operator inventory.Operator) (*dto.ItemResponse, error) {
	var updated *entity.Item
	var delta int
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		item, err := items.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		previous := item.Quantity
		applyItemUpdate(item, in)
		if err := validateItem(item); err != nil {
			return err
		}
		if err := uc.ensureUniqueCodesWith(ctx, items, item); err != nil {
			return err
		}
		item.UpdatedAt = time.Now()
		if err := items.Update(ctx, item); err != nil {
			return err
		}
		delta = item.Quantity - previous
		if delta != 0 {
			reason := strings.TrimSpace(in.Reason)
			if reason == "" {
				reason = "Ajuste manual"
			}
			if err := movements.Create(ctx, &entity.Movement{
				ID:              uuid.New().String(),
				BatchID:         uuid.New().String(),
				ItemID:          item.ID,
				Change:          delta,
				Type:            entity.MovementTypeAdjustment,
				Reason:          reason,
				IssuerID:        operator.UserID,
				IssuerFirstName: operator.FirstName,
				IssuerLastName:  operator.LastName,
				CreatedAt:       item.UpdatedAt,
			}); err != nil {
				return err
			}
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	if delta != 0 {
		uc.log.Info().Str("item_id", id).Int("change", delta).Str("operator", operator.UserID).Msg("ajuste de stock registrado")
	}
	return toItemResponse(updated), nil
}

// Delete elimina un artículo sin historial. Con movimientos registrados devuelve ErrConflict.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	n, err := uc.movements.CountByItem(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el artículo tiene %d movimientos registrados", domain.ErrConflict, n)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("item_id", id).Msg("artículo eliminado")
	return nil
}

// List busca en el catálogo y ordena por categoría, subcategoría y nombre
// con reglas de ordenamiento del español.
func (uc *ItemUseCase) List(ctx context.Context, query, category string) (*dto.ItemListResponse, error) {
	list, err := uc.repo.List(ctx, repository.ItemFilter{
		Query:    strings.TrimSpace(query),
		Category: strings.TrimSpace(category),
	})
	if err != nil {
		return nil, err
	}
	SortItems(list)
	return &dto.ItemListResponse{Items: toItemResponses(list), Total: len(list)}, nil
}

// LowStock artículos con cantidad estrictamente menor al mínimo.
func (uc *ItemUseCase) LowStock(ctx context.Context) ([]dto.ItemResponse, error) {
	list, err := uc.repo.ListLowStock(ctx, LowStockLimit)
	if err != nil {
		return nil, err
	}
	SortItems(list)
	return toItemResponses(list), nil
}

// SortItems orden estable por (categoría, subcategoría, nombre) con colación en español;
// tildes y mayúsculas no alteran el orden.
func SortItems(items []*entity.Item) {
	col := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if c := col.CompareString(a.Category, b.Category); c != 0 {
			return c < 0
		}
		if c := col.CompareString(a.Subcategory, b.Subcategory); c != 0 {
			return c < 0
		}
		return col.CompareString(a.Name, b.Name) < 0
	})
}

func (uc *ItemUseCase) ensureUniqueCodes(ctx context.Context, item *entity.Item) error {
	return uc.ensureUniqueCodesWith(ctx, uc.repo, item)
}

func (uc *ItemUseCase) ensureUniqueCodesWith(ctx context.Context, repo repository.ItemRepository, item *entity.Item) error {
	for _, code := range []string{item.SKU, item.Barcode} {
		if code == "" {
			continue
		}
		other, err := repo.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if other != nil && other.ID != item.ID {
			return fmt.Errorf("%w: el código %q ya pertenece a %q", domain.ErrDuplicate, code, other.Name)
		}
	}
	return nil
}

func applyItemUpdate(item *entity.Item, in dto.UpdateItemRequest) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&item.Name, in.Name)
	set(&item.SKU, in.SKU)
	set(&item.Barcode, in.Barcode)
	set(&item.Category, in.Category)
	set(&item.Subcategory, in.Subcategory)
	set(&item.InventoryNumber, in.InventoryNumber)
	set(&item.SerialNumber, in.SerialNumber)
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.MinQuantity != nil {
		item.MinQuantity = *in.MinQuantity
	}
}

func validateItem(item *entity.Item) error {
	if item.Name == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if item.Quantity < 0 || item.MinQuantity < 0 {
		return fmt.Errorf("%w: las cantidades no pueden ser negativas", domain.ErrInvalidInput)
	}
	if item.Category == "" {
		item.Category = entity.DefaultCategory
	}
	if !entity.ValidCategory(item.Category, item.Subcategory) {
		return fmt.Errorf("%w: categoría %q / subcategoría %q", domain.ErrInvalidInput, item.Category, item.Subcategory)
	}
	return nil
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:              i.ID,
		Name:            i.Name,
		SKU:             i.SKU,
		Barcode:         i.Barcode,
		Quantity:        i.Quantity,
		MinQuantity:     i.MinQuantity,
		LowStock:        i.IsLowStock(),
		Category:        i.Category,
		Subcategory:     i.Subcategory,
		InventoryNumber: i.InventoryNumber,
		SerialNumber:    i.SerialNumber,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

// ToItemResponses convierte entidades a DTOs (también lo usa el dashboard).
func ToItemResponses(list []*entity.Item) []dto.ItemResponse {
	return toItemResponses(list)
}

func toItemResponses(list []*entity.Item) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(list))
	for _, i := range list {
		out = append(out, *toItemResponse(i))
	}
	return out
}
