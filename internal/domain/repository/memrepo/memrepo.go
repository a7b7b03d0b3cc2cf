// Package memrepo implementa los puertos de repository en memoria, para tests.
// Store.Run imita una transacción: si fn falla, se restaura la copia previa.
package memrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ti/internal/domain"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
	"github.com/jhoicas/inventario-ti/internal/domain/repository"
)

// Store guarda artículos, movimientos y usuarios en mapas.
type Store struct {
	mu        sync.Mutex
	items     map[string]entity.Item
	movements []entity.Movement
	users     map[string]entity.User

	// Calls cuenta las operaciones recibidas (lecturas y escrituras).
	Calls int
	// TxCount cuenta las transacciones abiertas con Run.
	TxCount int
	// FailCreateMovementAt hace fallar el Create de movimiento número n (1-based). 0 = nunca.
	FailCreateMovementAt int

	movementCreates int
}

// ErrInjected error provocado por FailCreateMovementAt.
var ErrInjected = errors.New("memrepo: fallo inyectado")

// New crea un Store vacío.
func New() *Store {
	return &Store{items: map[string]entity.Item{}, users: map[string]entity.User{}}
}

// Items repositorio de artículos sobre el Store.
func (s *Store) Items() repository.ItemRepository { return itemRepo{s} }

// Movements repositorio de movimientos sobre el Store.
func (s *Store) Movements() repository.MovementRepository { return movementRepo{s} }

// Users repositorio de usuarios sobre el Store.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Seed inserta artículos directamente, sin validar.
func (s *Store) Seed(items ...entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.items[it.ID] = it
	}
}

// Quantity stock actual de un artículo (-1 si no existe).
func (s *Store) Quantity(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return -1
	}
	return it.Quantity
}

// SetQuantity cambia el stock fuera de cualquier transacción.
func (s *Store) SetQuantity(id string, q int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.items[id]
	it.Quantity = q
	s.items[id] = it
}

// RemoveItem borra un artículo ignorando el historial.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

// AllMovements copia de los movimientos en orden de inserción.
func (s *Store) AllMovements() []entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Movement, len(s.movements))
	copy(out, s.movements)
	return out
}

// Run ejecuta fn con repositorios sobre el Store y restaura el estado si falla.
func (s *Store) Run(_ context.Context, fn func(
	items repository.ItemRepository,
	movements repository.MovementRepository,
) error) error {
	s.mu.Lock()
	s.TxCount++
	itemsSnap := make(map[string]entity.Item, len(s.items))
	for k, v := range s.items {
		itemsSnap[k] = v
	}
	movSnap := make([]entity.Movement, len(s.movements))
	copy(movSnap, s.movements)
	s.mu.Unlock()

	if err := fn(itemRepo{s}, movementRepo{s}); err != nil {
		s.mu.Lock()
		s.items = itemsSnap
		s.movements = movSnap
		s.mu.Unlock()
		return err
	}
	return nil
}

// ── items ─────────────────────────────────────────────────────────────────────

type itemRepo struct{ s *Store }

func (r itemRepo) Create(_ context.Context, item *entity.Item) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	for _, it := range s.items {
		if (item.SKU != "" && it.SKU == item.SKU) || (item.Barcode != "" && it.Barcode == item.Barcode) {
			return domain.ErrDuplicate
		}
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	s.items[item.ID] = *item
	return nil
}

func (r itemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	it, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r itemRepo) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	var bySKU *entity.Item
	for _, it := range s.items {
		if !it.Matches(code) {
			continue
		}
		cp := it
		if cp.Barcode == code {
			return &cp, nil
		}
		bySKU = &cp
	}
	return bySKU, nil
}

func (r itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r itemRepo) Update(_ context.Context, item *entity.Item) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if _, ok := s.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, it := range s.items {
		if id == item.ID {
			continue
		}
		if (item.SKU != "" && it.SKU == item.SKU) || (item.Barcode != "" && it.Barcode == item.Barcode) {
			return domain.ErrDuplicate
		}
	}
	s.items[item.ID] = *item
	return nil
}

func (r itemRepo) UpdateQuantity(_ context.Context, id string, quantity int) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	it, ok := s.items[id]
	if !ok {
		return domain.ErrItemVanished
	}
	it.Quantity = quantity
	it.UpdatedAt = time.Now()
	s.items[id] = it
	return nil
}

func (r itemRepo) Delete(_ context.Context, id string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if _, ok := s.items[id]; !ok {
		return domain.ErrNotFound
	}
	for _, m := range s.movements {
		if m.ItemID == id {
			return domain.ErrConflict
		}
	}
	delete(s.items, id)
	return nil
}

func (r itemRepo) List(_ context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	var out []*entity.Item
	for _, it := range s.items {
		if filter.Category != "" && it.Category != filter.Category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(it.Name), q) &&
			!strings.Contains(strings.ToLower(it.SKU), q) &&
			it.Barcode != strings.TrimSpace(filter.Query) {
			continue
		}
		cp := it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r itemRepo) ListLowStock(_ context.Context, limit int) ([]*entity.Item, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	var out []*entity.Item
	for _, it := range s.items {
		if it.IsLowStock() {
			cp := it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r itemRepo) ListRecent(_ context.Context, limit int) ([]*entity.Item, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	out := make([]*entity.Item, 0, len(s.items))
	for _, it := range s.items {
		cp := it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r itemRepo) Count(_ context.Context) (int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	return len(s.items), nil
}

func (r itemRepo) CountLowStock(_ context.Context) (int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	n := 0
	for _, it := range s.items {
		if it.IsLowStock() {
			n++
		}
	}
	return n, nil
}

// ── movements ─────────────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r movementRepo) Create(_ context.Context, m *entity.Movement) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	s.movementCreates++
	if s.FailCreateMovementAt > 0 && s.movementCreates == s.FailCreateMovementAt {
		return ErrInjected
	}
	if m.Change == 0 {
		return domain.ErrInvalidInput
	}
	// batch_id es UUID NOT NULL en la tabla.
	if _, err := uuid.Parse(m.BatchID); err != nil {
		return fmt.Errorf("%w: batch_id %q no es un UUID", domain.ErrInvalidInput, m.BatchID)
	}
	if _, ok := s.items[m.ItemID]; !ok {
		return domain.ErrItemVanished
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.movements = append(s.movements, *m)
	return nil
}

func (r movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	for _, m := range s.movements {
		if m.ID == id {
			cp := m
			cp.ItemName = s.items[m.ItemID].Name
			return &cp, nil
		}
	}
	return nil, nil
}

func (r movementRepo) SetReceiptPath(_ context.Context, id, path string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	for i := range s.movements {
		if s.movements[i].ID == id {
			s.movements[i].ReceiptPath = path
			return nil
		}
	}
	return domain.ErrNotFound
}

// List devuelve los movimientos del más reciente al más antiguo.
func (r movementRepo) List(_ context.Context, limit, offset int) ([]*entity.Movement, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	var out []*entity.Movement
	for i := len(s.movements) - 1; i >= 0; i-- {
		cp := s.movements[i]
		cp.ItemName = s.items[cp.ItemID].Name
		out = append(out, &cp)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r movementRepo) ListByItem(_ context.Context, itemID string, limit int) ([]*entity.Movement, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	var out []*entity.Movement
	for i := len(s.movements) - 1; i >= 0; i-- {
		if s.movements[i].ItemID != itemID {
			continue
		}
		cp := s.movements[i]
		cp.ItemName = s.items[cp.ItemID].Name
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r movementRepo) ListByBatch(_ context.Context, batchID string) ([]*entity.Movement, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	var out []*entity.Movement
	for _, m := range s.movements {
		if m.BatchID != batchID {
			continue
		}
		cp := m
		cp.ItemName = s.items[cp.ItemID].Name
		out = append(out, &cp)
	}
	return out, nil
}

func (r movementRepo) CountByItem(_ context.Context, itemID string) (int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	n := 0
	for _, m := range s.movements {
		if m.ItemID == itemID {
			n++
		}
	}
	return n, nil
}

// ── users ─────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	for _, u := range s.users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}
