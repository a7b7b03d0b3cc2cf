package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-ti/internal/domain"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
	"github.com/jhoicas/inventario-ti/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `m.id, m.batch_id, m.item_id, m.quantity_change, m.type, m.reason,
	m.recipient_firstname, m.recipient_lastname, m.recipient_department, m.recipient_email,
	m.issuer_id, m.issuer_firstname, m.issuer_lastname,
	m.inventory_number, m.serial_number, m.has_keyboard, m.has_damage, m.damage_description,
	m.signature, m.receipt_path, m.created_at, i.name`

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento. Asigna ID si viene vacío.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.Change == 0 {
		return domain.ErrInvalidInput
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, batch_id, item_id, quantity_change, type, reason,
			recipient_firstname, recipient_lastname, recipient_department, recipient_email,
			issuer_id, issuer_firstname, issuer_lastname,
			inventory_number, serial_number, has_keyboard, has_damage, damage_description,
			signature, receipt_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.BatchID, m.ItemID, m.Change, m.Type, m.Reason,
		m.RecipientFirstName, m.RecipientLastName, m.RecipientDepartment, m.RecipientEmail,
		nullIfEmpty(m.IssuerID), m.IssuerFirstName, m.IssuerLastName,
		m.InventoryNumber, m.SerialNumber, m.HasKeyboard, m.HasDamage, m.DamageDescription,
		m.Signature, m.ReceiptPath, m.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrItemVanished
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID (con el nombre del artículo).
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + movementColumns + ` FROM movements m JOIN items i ON i.id = m.item_id WHERE m.id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// SetReceiptPath guarda la ruta del PDF generado.
func (r *MovementRepo) SetReceiptPath(ctx context.Context, id, path string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE movements SET receipt_path = $2 WHERE id = $1`, id, path)
	if err != nil {
		return fmt.Errorf("set receipt path: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista el historial, más reciente primero.
func (r *MovementRepo) List(ctx context.Context, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements m JOIN items i ON i.id = m.item_id
		ORDER BY m.created_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

// ListByItem lista el historial de un artículo.
func (r *MovementRepo) ListByItem(ctx context.Context, itemID string, limit int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements m JOIN items i ON i.id = m.item_id
		WHERE m.item_id = $1 ORDER BY m.created_at DESC LIMIT $2`
	return r.list(ctx, query, itemID, limit)
}

// ListByBatch lista los movimientos de un checkout en el orden en que se registraron.
func (r *MovementRepo) ListByBatch(ctx context.Context, batchID string) ([]*entity.Movement, error) {
	if !isUUID(batchID) {
		return nil, nil
	}
	query := `SELECT ` + movementColumns + ` FROM movements m JOIN items i ON i.id = m.item_id
		WHERE m.batch_id = $1 ORDER BY m.created_at, m.id`
	return r.list(ctx, query, batchID)
}

// CountByItem cuenta los movimientos que referencian un artículo.
func (r *MovementRepo) CountByItem(ctx context.Context, itemID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM movements WHERE item_id = $1`, itemID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var issuerID *string
	err := row.Scan(
		&m.ID, &m.BatchID, &m.ItemID, &m.Change, &m.Type, &m.Reason,
		&m.RecipientFirstName, &m.RecipientLastName, &m.RecipientDepartment, &m.RecipientEmail,
		&issuerID, &m.IssuerFirstName, &m.IssuerLastName,
		&m.InventoryNumber, &m.SerialNumber, &m.HasKeyboard, &m.HasDamage, &m.DamageDescription,
		&m.Signature, &m.ReceiptPath, &m.CreatedAt, &m.ItemName,
	)
	if err != nil {
		return nil, err
	}
	m.IssuerID = derefString(issuerID)
	return &m, nil
}
