package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const proposalColumns = `id, requester_slot_id, target_slot_id, requester_user_id, target_user_id, status, created_at, updated_at`

// SwapRepository журнал предложений обмена
type SwapRepository struct {
	*base.Repository
}

func NewSwapRepository(db base.DBTX) *SwapRepository {
	return &SwapRepository{Repository: base.NewRepository(db)}
}

// Create создаёт новое предложение обмена
func (r *SwapRepository) Create(ctx context.Context, p *model.SwapProposal) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	query := `
		INSERT INTO swap_proposals (id, requester_slot_id, target_slot_id, requester_user_id, target_user_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		p.ID,
		p.RequesterSlotID,
		p.TargetSlotID,
		p.RequesterUserID,
		p.TargetUserID,
		p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	return base.Translate("create swap proposal", err)
}

// GetByID получает предложение по ID
func (r *SwapRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SwapProposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM swap_proposals WHERE id = $1`

	p, err := scanProposal(r.QueryRow(ctx, query, id))
	if err != nil {
		return nil, base.Translate(fmt.Sprintf("get swap proposal %s", id), err)
	}

	return p, nil
}

// Update обновляет статус предложения
func (r *SwapRepository) Update(ctx context.Context, p *model.SwapProposal) error {
	query := `
		UPDATE swap_proposals
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`

	err := r.QueryRow(ctx, query, p.Status, p.ID).Scan(&p.UpdatedAt)

	return base.Translate(fmt.Sprintf("update swap proposal %s", p.ID), err)
}

// ListPendingByTarget входящие предложения, ожидающие ответа пользователя
func (r *SwapRepository) ListPendingByTarget(ctx context.Context, userID int64) ([]*model.SwapProposal, error) {
	query := `
		SELECT ` + proposalColumns + `
		FROM swap_proposals
		WHERE target_user_id = $1 AND status = 'PENDING'
		ORDER BY created_at DESC
	`

	return r.list(ctx, "list incoming swap proposals", query, userID)
}

// ListByRequester все исходящие предложения пользователя
func (r *SwapRepository) ListByRequester(ctx context.Context, userID int64) ([]*model.SwapProposal, error) {
	query := `
		SELECT ` + proposalColumns + `
		FROM swap_proposals
		WHERE requester_user_id = $1
		ORDER BY created_at DESC
	`

	return r.list(ctx, "list outgoing swap proposals", query, userID)
}

// ListByStatus все предложения с указанным статусом
func (r *SwapRepository) ListByStatus(ctx context.Context, status model.ProposalStatus) ([]*model.SwapProposal, error) {
	query := `
		SELECT ` + proposalColumns + `
		FROM swap_proposals
		WHERE status = $1
		ORDER BY created_at DESC
	`

	return r.list(ctx, "list swap proposals by status", query, status)
}

func (r *SwapRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.SwapProposal, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, base.Translate(op, err)
	}
	defer rows.Close()

	var proposals []*model.SwapProposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan swap proposal: %w", err)
		}
		proposals = append(proposals, p)
	}

	return proposals, base.Translate(op, rows.Err())
}

func scanProposal(row pgx.Row) (*model.SwapProposal, error) {
	var p model.SwapProposal
	err := row.Scan(
		&p.ID,
		&p.RequesterSlotID,
		&p.TargetSlotID,
		&p.RequesterUserID,
		&p.TargetUserID,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
