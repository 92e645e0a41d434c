package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
	"github.com/google/uuid"
)

type SwapLedger struct {
	s *Store
}

func (r *SwapLedger) GetByID(ctx context.Context, id uuid.UUID) (*model.SwapProposal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.proposals[id]
	if !ok {
		return nil, fmt.Errorf("swap proposal %s: %w", id, swap.ErrNotFound)
	}
	return copyProposal(p), nil
}

func (r *SwapLedger) Create(ctx context.Context, proposal *model.SwapProposal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.ProposalCreateHook != nil {
		if err := r.s.ProposalCreateHook(proposal); err != nil {
			return err
		}
	}
	if proposal.ID == uuid.Nil {
		proposal.ID = uuid.New()
	}
	if _, exists := r.s.proposals[proposal.ID]; exists {
		return fmt.Errorf("swap proposal %s: %w", proposal.ID, swap.ErrConflict)
	}
	r.s.proposals[proposal.ID] = copyProposal(proposal)
	return nil
}

func (r *SwapLedger) Update(ctx context.Context, proposal *model.SwapProposal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.proposals[proposal.ID]; !ok {
		return fmt.Errorf("swap proposal %s: %w", proposal.ID, swap.ErrNotFound)
	}
	r.s.proposals[proposal.ID] = copyProposal(proposal)
	return nil
}

func (r *SwapLedger) ListPendingByTarget(ctx context.Context, userID int64) ([]*model.SwapProposal, error) {
	return r.filter(func(p *model.SwapProposal) bool {
		return p.TargetUserID == userID && p.IsPending()
	}), nil
}

func (r *SwapLedger) ListByRequester(ctx context.Context, userID int64) ([]*model.SwapProposal, error) {
	return r.filter(func(p *model.SwapProposal) bool { return p.RequesterUserID == userID }), nil
}

func (r *SwapLedger) ListByStatus(ctx context.Context, status model.ProposalStatus) ([]*model.SwapProposal, error) {
	return r.filter(func(p *model.SwapProposal) bool { return p.Status == status }), nil
}

// filter возвращает копии подходящих предложений, новые первыми
func (r *SwapLedger) filter(match func(*model.SwapProposal) bool) []*model.SwapProposal {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var proposals []*model.SwapProposal
	for _, p := range r.s.proposals {
		if match(p) {
			proposals = append(proposals, copyProposal(p))
		}
	}
	sort.Slice(proposals, func(i, j int) bool {
		return proposals[i].CreatedAt.After(proposals[j].CreatedAt)
	})
	return proposals
}
