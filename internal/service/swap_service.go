package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SwapStore отдаёт обработчики хранилищ вне транзакции и умеет открывать транзакцию
type SwapStore interface {
	swap.TxRunner
	Stores() swap.Stores
}

// ProposalLists входящие и исходящие предложения пользователя
type ProposalLists struct {
	Incoming []*model.SwapProposal `json:"incoming"`
	Outgoing []*model.SwapProposal `json:"outgoing"`
}

type SwapService struct {
	store  SwapStore
	users  UserStore
	logger *zap.Logger
}

func NewSwapService(store SwapStore, users UserStore, logger *zap.Logger) *SwapService {
	return &SwapService{
		store:  store,
		users:  users,
		logger: logger,
	}
}

// ProposeSwap предлагает обменять свой слот на чужой
func (s *SwapService) ProposeSwap(ctx context.Context, callerID, mySlotID, theirSlotID int64) (*model.SwapProposal, error) {
	var proposal *model.SwapProposal
	err := s.store.InTx(ctx, func(st swap.Stores) error {
		p, err := swap.Propose(ctx, st, callerID, mySlotID, theirSlotID)
		if err != nil {
			return err
		}
		proposal = p
		return nil
	})
	if err != nil {
		s.logger.Warn("Swap proposal refused",
			zap.Int64("caller_id", callerID),
			zap.Int64("requester_slot_id", mySlotID),
			zap.Int64("target_slot_id", theirSlotID),
			zap.String("kind", swap.Kind(err)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("propose swap: %w", err)
	}

	s.logger.Info("Swap proposed",
		zap.String("proposal_id", proposal.ID.String()),
		zap.Int64("requester_slot_id", proposal.RequesterSlotID),
		zap.Int64("target_slot_id", proposal.TargetSlotID),
		zap.Int64("target_user_id", proposal.TargetUserID),
	)

	if err := s.attach(ctx, []*model.SwapProposal{proposal}); err != nil {
		return nil, err
	}
	return proposal, nil
}

// RespondToSwap принимает или отклоняет входящее предложение
func (s *SwapService) RespondToSwap(ctx context.Context, callerID int64, proposalID uuid.UUID, accept bool) (*swap.Resolution, error) {
	var res *swap.Resolution
	err := s.store.InTx(ctx, func(st swap.Stores) error {
		r, err := swap.Respond(ctx, st, callerID, proposalID, accept)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		s.logger.Warn("Swap response refused",
			zap.Int64("caller_id", callerID),
			zap.String("proposal_id", proposalID.String()),
			zap.Bool("accept", accept),
			zap.String("kind", swap.Kind(err)),
			zap.Bool("retriable", swap.Retriable(err)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("respond to swap: %w", err)
	}

	if len(res.Skipped) > 0 {
		s.logger.Warn("Rejected swap left slots untouched",
			zap.String("proposal_id", proposalID.String()),
			zap.Int64s("skipped_slot_ids", res.Skipped),
		)
	}
	s.logger.Info("Swap resolved",
		zap.String("proposal_id", proposalID.String()),
		zap.String("status", string(res.Proposal.Status)),
	)

	if err := s.attach(ctx, []*model.SwapProposal{res.Proposal}); err != nil {
		return nil, err
	}
	return res, nil
}

// ListSwappableSlots возвращает чужие слоты, выставленные на обмен
func (s *SwapService) ListSwappableSlots(ctx context.Context, callerID int64) ([]*model.Slot, error) {
	slots, err := s.store.Stores().Slots.ListByStatusExcludingOwner(ctx, model.SlotStatusSwappable, callerID)
	if err != nil {
		return nil, fmt.Errorf("list swappable slots: %w", err)
	}

	ownerIDs := make([]int64, 0, len(slots))
	for _, slot := range slots {
		ownerIDs = append(ownerIDs, slot.OwnerID)
	}
	owners, err := s.users.GetByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("get slot owners: %w", err)
	}
	for _, slot := range slots {
		slot.Owner = owners[slot.OwnerID]
	}

	return slots, nil
}

// ListSwapProposals возвращает входящие PENDING и все исходящие предложения
func (s *SwapService) ListSwapProposals(ctx context.Context, callerID int64) (*ProposalLists, error) {
	ledger := s.store.Stores().Ledger

	incoming, err := ledger.ListPendingByTarget(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list incoming proposals: %w", err)
	}
	outgoing, err := ledger.ListByRequester(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list outgoing proposals: %w", err)
	}

	all := make([]*model.SwapProposal, 0, len(incoming)+len(outgoing))
	all = append(all, incoming...)
	all = append(all, outgoing...)
	if err := s.attach(ctx, all); err != nil {
		return nil, err
	}

	return &ProposalLists{Incoming: incoming, Outgoing: outgoing}, nil
}

// attach заполняет снимки слотов и пользователей для показа.
// Удалённые слоты остаются nil.
func (s *SwapService) attach(ctx context.Context, proposals []*model.SwapProposal) error {
	slotStore := s.store.Stores().Slots
	slots := make(map[int64]*model.Slot)
	userIDs := make([]int64, 0, 2*len(proposals))

	for _, p := range proposals {
		for _, id := range []int64{p.RequesterSlotID, p.TargetSlotID} {
			if _, ok := slots[id]; ok {
				continue
			}
			slot, err := slotStore.GetByID(ctx, id)
			if errors.Is(err, swap.ErrNotFound) {
				slots[id] = nil
				continue
			}
			if err != nil {
				return fmt.Errorf("get slot %d: %w", id, err)
			}
			slots[id] = slot
		}
		userIDs = append(userIDs, p.RequesterUserID, p.TargetUserID)
	}

	users, err := s.users.GetByIDs(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("get users: %w", err)
	}

	for _, p := range proposals {
		if p.RequesterSlot == nil {
			p.RequesterSlot = slots[p.RequesterSlotID]
		}
		if p.TargetSlot == nil {
			p.TargetSlot = slots[p.TargetSlotID]
		}
		p.Requester = users[p.RequesterUserID]
		p.Target = users[p.TargetUserID]
	}
	return nil
}
