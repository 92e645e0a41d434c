// Package swap implements the slot-swap negotiation protocol.
//
// The coordinator keeps no state between calls: every operation receives the
// store handles it works on. Propose moves two SWAPPABLE slots into
// SWAP_PENDING under a new PENDING proposal; Respond resolves that proposal
// by exchanging the owners (accept) or releasing the slots (reject).
package swap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/google/uuid"
)

// Resolution is the outcome of Respond.
type Resolution struct {
	Proposal *model.SwapProposal
	// Skipped lists slots a rejection could not return to SWAPPABLE because
	// they were missing or no longer SWAP_PENDING.
	Skipped []int64
}

// Propose creates a PENDING proposal to exchange requesterSlotID (owned by the
// caller) for targetSlotID, and locks both slots in SWAP_PENDING.
// Either all three writes become visible or none of them do.
func Propose(ctx context.Context, st Stores, callerID, requesterSlotID, targetSlotID int64) (*model.SwapProposal, error) {
	requesterSlot, err := st.Slots.GetByID(ctx, requesterSlotID)
	if err != nil {
		return nil, fmt.Errorf("get requester slot %d: %w", requesterSlotID, err)
	}
	targetSlot, err := st.Slots.GetByID(ctx, targetSlotID)
	if err != nil {
		return nil, fmt.Errorf("get target slot %d: %w", targetSlotID, err)
	}

	if requesterSlot.OwnerID != callerID {
		return nil, fmt.Errorf("%w: slot %d belongs to another user", ErrForbidden, requesterSlotID)
	}
	if requesterSlot.Status != model.SlotStatusSwappable {
		return nil, fmt.Errorf("%w: your slot must be SWAPPABLE, it is %s", ErrInvalidState, requesterSlot.Status)
	}
	if targetSlot.Status != model.SlotStatusSwappable {
		return nil, fmt.Errorf("%w: target slot is %s", ErrInvalidState, targetSlot.Status)
	}
	if requesterSlot.OwnerID == targetSlot.OwnerID {
		return nil, ErrSelfSwap
	}

	uow := newUnitOfWork(st)
	for _, slot := range []*model.Slot{requesterSlot, targetSlot} {
		next := *slot
		next.Status = model.SlotStatusSwapPending
		if err := uow.saveSlot(ctx, slot, &next); err != nil {
			return nil, uow.abort(ctx, conflictAs(ErrInvalidState, err))
		}
	}

	now := time.Now()
	proposal := &model.SwapProposal{
		ID:              uuid.New(),
		RequesterSlotID: requesterSlot.ID,
		TargetSlotID:    targetSlot.ID,
		RequesterUserID: requesterSlot.OwnerID,
		TargetUserID:    targetSlot.OwnerID,
		Status:          model.ProposalStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := st.Ledger.Create(ctx, proposal); err != nil {
		return nil, uow.abort(ctx, fmt.Errorf("create proposal: %w", err))
	}

	return proposal, nil
}

// Respond resolves a PENDING proposal. Only the target user may respond.
//
// On accept both slots are re-read and must still be SWAP_PENDING, otherwise
// ErrStaleState is returned and the proposal stays PENDING. On reject every
// slot that is still SWAP_PENDING goes back to SWAPPABLE; missing or changed
// slots are reported in Resolution.Skipped and do not fail the call.
func Respond(ctx context.Context, st Stores, callerID int64, proposalID uuid.UUID, accept bool) (*Resolution, error) {
	proposal, err := st.Ledger.GetByID(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("get proposal %s: %w", proposalID, err)
	}
	if proposal.TargetUserID != callerID {
		return nil, fmt.Errorf("%w: only the target user may respond", ErrForbidden)
	}
	if !proposal.IsPending() {
		return nil, fmt.Errorf("%w: status is %s", ErrAlreadyResolved, proposal.Status)
	}

	if accept {
		return acceptProposal(ctx, st, proposal)
	}
	return rejectProposal(ctx, st, proposal)
}

func acceptProposal(ctx context.Context, st Stores, proposal *model.SwapProposal) (*Resolution, error) {
	requesterSlot, err := pendingSlot(ctx, st.Slots, proposal.RequesterSlotID)
	if err != nil {
		return nil, err
	}
	targetSlot, err := pendingSlot(ctx, st.Slots, proposal.TargetSlotID)
	if err != nil {
		return nil, err
	}

	swappedRequester := *requesterSlot
	swappedRequester.OwnerID = targetSlot.OwnerID
	swappedRequester.Status = model.SlotStatusBusy

	swappedTarget := *targetSlot
	swappedTarget.OwnerID = requesterSlot.OwnerID
	swappedTarget.Status = model.SlotStatusBusy

	uow := newUnitOfWork(st)
	if err := uow.saveSlot(ctx, requesterSlot, &swappedRequester); err != nil {
		return nil, uow.abort(ctx, conflictAs(ErrStaleState, err))
	}
	if err := uow.saveSlot(ctx, targetSlot, &swappedTarget); err != nil {
		return nil, uow.abort(ctx, conflictAs(ErrStaleState, err))
	}

	resolved := *proposal
	resolved.Status = model.ProposalStatusAccepted
	resolved.UpdatedAt = time.Now()
	if err := st.Ledger.Update(ctx, &resolved); err != nil {
		return nil, uow.abort(ctx, fmt.Errorf("update proposal: %w", conflictAs(ErrStaleState, err)))
	}

	resolved.RequesterSlot = &swappedRequester
	resolved.TargetSlot = &swappedTarget
	return &Resolution{Proposal: &resolved}, nil
}

func rejectProposal(ctx context.Context, st Stores, proposal *model.SwapProposal) (*Resolution, error) {
	res := &Resolution{}
	released := make(map[int64]*model.Slot, 2)

	for _, slotID := range []int64{proposal.RequesterSlotID, proposal.TargetSlotID} {
		slot, err := st.Slots.GetByID(ctx, slotID)
		if errors.Is(err, ErrNotFound) {
			res.Skipped = append(res.Skipped, slotID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get slot %d: %w", slotID, err)
		}
		if !slot.IsPending() {
			res.Skipped = append(res.Skipped, slotID)
			continue
		}

		slot.Status = model.SlotStatusSwappable
		slot.UpdatedAt = time.Now()
		err = st.Slots.Update(ctx, slot)
		if errors.Is(err, ErrNotFound) {
			res.Skipped = append(res.Skipped, slotID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("release slot %d: %w", slotID, err)
		}
		released[slotID] = slot
	}

	resolved := *proposal
	resolved.Status = model.ProposalStatusRejected
	resolved.UpdatedAt = time.Now()
	if err := st.Ledger.Update(ctx, &resolved); err != nil {
		return nil, fmt.Errorf("update proposal: %w", err)
	}

	resolved.RequesterSlot = released[proposal.RequesterSlotID]
	resolved.TargetSlot = released[proposal.TargetSlotID]
	res.Proposal = &resolved
	return res, nil
}

// pendingSlot re-reads a slot for the accept path and requires SWAP_PENDING.
func pendingSlot(ctx context.Context, slots SlotStore, id int64) (*model.Slot, error) {
	slot, err := slots.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: slot %d no longer exists", ErrStaleState, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %d: %w", id, err)
	}
	if !slot.IsPending() {
		return nil, fmt.Errorf("%w: slot %d is %s", ErrStaleState, id, slot.Status)
	}
	return slot, nil
}

// conflictAs reports a store conflict as the given protocol error kind.
func conflictAs(kind, err error) error {
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return err
}

// unitOfWork remembers the slots written during one call so that they can be
// restored when a later write fails on a store without transactions.
type unitOfWork struct {
	st      Stores
	written []*model.Slot
}

func newUnitOfWork(st Stores) *unitOfWork {
	return &unitOfWork{st: st}
}

func (u *unitOfWork) saveSlot(ctx context.Context, before, after *model.Slot) error {
	after.UpdatedAt = time.Now()
	if err := u.st.Slots.Update(ctx, after); err != nil {
		return fmt.Errorf("update slot %d: %w", after.ID, err)
	}
	u.written = append(u.written, before)
	return nil
}

// abort undoes the recorded writes in reverse order and returns cause, joined
// with any error hit while undoing.
func (u *unitOfWork) abort(ctx context.Context, cause error) error {
	if u.st.Transactional {
		return cause
	}
	errs := []error{cause}
	for i := len(u.written) - 1; i >= 0; i-- {
		if err := u.st.Slots.Update(ctx, u.written[i]); err != nil {
			errs = append(errs, fmt.Errorf("restore slot %d: %w", u.written[i].ID, err))
		}
	}
	u.written = nil
	return errors.Join(errs...)
}
