package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/repository/base"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
	"github.com/jackc/pgx/v5"
)

const slotColumns = `id, owner_id, title, start_time, end_time, status, created_at, updated_at`

type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(db base.DBTX) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(db)}
}

// Create создаёт новый слот
func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	query := `
		INSERT INTO slots (owner_id, title, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		slot.OwnerID,
		slot.Title,
		slot.StartTime,
		slot.EndTime,
		slot.Status,
	).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)

	return base.Translate("create slot", err)
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`

	slot, err := scanSlot(r.QueryRow(ctx, query, id))
	if err != nil {
		return nil, base.Translate(fmt.Sprintf("get slot %d", id), err)
	}

	return slot, nil
}

// Update перезаписывает слот целиком (последняя запись побеждает)
func (r *SlotRepository) Update(ctx context.Context, slot *model.Slot) error {
	query := `
		UPDATE slots
		SET owner_id = $1, title = $2, start_time = $3, end_time = $4, status = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		slot.OwnerID,
		slot.Title,
		slot.StartTime,
		slot.EndTime,
		slot.Status,
		slot.ID,
	).Scan(&slot.UpdatedAt)

	return base.Translate(fmt.Sprintf("update slot %d", slot.ID), err)
}

// Delete удаляет слот
func (r *SlotRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM slots WHERE id = $1`, id)
	if err != nil {
		return base.Translate(fmt.Sprintf("delete slot %d", id), err)
	}

	if affected == 0 {
		return fmt.Errorf("delete slot %d: %w", id, swap.ErrNotFound)
	}

	return nil
}

// ListByOwner получает все слоты пользователя
func (r *SlotRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE owner_id = $1 ORDER BY start_time, id`

	return r.list(ctx, "list slots by owner", query, ownerID)
}

// ListByStatus получает все слоты с указанным статусом
func (r *SlotRepository) ListByStatus(ctx context.Context, status model.SlotStatus) ([]*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE status = $1 ORDER BY start_time, id`

	return r.list(ctx, "list slots by status", query, status)
}

// ListByStatusExcludingOwner получает слоты с указанным статусом, кроме слотов пользователя
func (r *SlotRepository) ListByStatusExcludingOwner(ctx context.Context, status model.SlotStatus, excludedOwnerID int64) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE status = $1 AND owner_id <> $2
		ORDER BY start_time, id
	`

	return r.list(ctx, "list slots by status", query, status, excludedOwnerID)
}

func (r *SlotRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Slot, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, base.Translate(op, err)
	}
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, base.Translate(op, rows.Err())
}

func scanSlot(row pgx.Row) (*model.Slot, error) {
	var slot model.Slot
	err := row.Scan(
		&slot.ID,
		&slot.OwnerID,
		&slot.Title,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Status,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
