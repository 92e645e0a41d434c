package swap_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/repository/memory"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	u1 int64 = 1
	u2 int64 = 2
	u3 int64 = 3
)

type fixture struct {
	store *memory.Store
	st    swap.Stores
	a, b  *model.Slot
}

func newFixture(t *testing.T, statusA, statusB model.SlotStatus) *fixture {
	t.Helper()
	store := memory.New()
	f := &fixture{store: store, st: store.Stores()}
	f.a = f.addSlot(t, u1, "Standup", statusA)
	f.b = f.addSlot(t, u2, "Dentist", statusB)
	return f
}

func (f *fixture) addSlot(t *testing.T, owner int64, title string, status model.SlotStatus) *model.Slot {
	t.Helper()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	slot := &model.Slot{
		OwnerID:   owner,
		Title:     title,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    status,
	}
	require.NoError(t, f.st.Slots.Create(context.Background(), slot))
	return slot
}

func (f *fixture) slot(t *testing.T, id int64) *model.Slot {
	t.Helper()
	slot, err := f.st.Slots.GetByID(context.Background(), id)
	require.NoError(t, err)
	return slot
}

func (f *fixture) proposal(t *testing.T, id uuid.UUID) *model.SwapProposal {
	t.Helper()
	p, err := f.st.Ledger.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (f *fixture) propose(t *testing.T) *model.SwapProposal {
	t.Helper()
	p, err := swap.Propose(context.Background(), f.st, u1, f.a.ID, f.b.ID)
	require.NoError(t, err)
	return p
}

func (f *fixture) assertUntouched(t *testing.T) {
	t.Helper()
	assert.Equal(t, f.a.Status, f.slot(t, f.a.ID).Status)
	assert.Equal(t, f.b.Status, f.slot(t, f.b.ID).Status)
	proposals, err := f.st.Ledger.ListByRequester(context.Background(), u1)
	require.NoError(t, err)
	assert.Empty(t, proposals)
}

func TestPropose_LocksBothSlots(t *testing.T) {
	f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)

	p := f.propose(t)

	assert.Equal(t, model.ProposalStatusPending, p.Status)
	assert.Equal(t, f.a.ID, p.RequesterSlotID)
	assert.Equal(t, f.b.ID, p.TargetSlotID)
	assert.Equal(t, u1, p.RequesterUserID)
	assert.Equal(t, u2, p.TargetUserID)
	assert.NotEqual(t, uuid.Nil, p.ID)

	assert.Equal(t, model.SlotStatusSwapPending, f.slot(t, f.a.ID).Status)
	assert.Equal(t, model.SlotStatusSwapPending, f.slot(t, f.b.ID).Status)
	assert.Equal(t, model.ProposalStatusPending, f.proposal(t, p.ID).Status)
}

func TestPropose_Failures(t *testing.T) {
	tests := []struct {
		name     string
		statusA  model.SlotStatus
		statusB  model.SlotStatus
		caller   int64
		slotA    func(f *fixture) int64
		slotB    func(f *fixture) int64
		expected error
	}{
		{
			name:     "requester slot missing",
			statusA:  model.SlotStatusSwappable,
			statusB:  model.SlotStatusSwappable,
			caller:   u1,
			slotA:    func(*fixture) int64 { return 999 },
			slotB:    func(f *fixture) int64 { return f.b.ID },
			expected: swap.ErrNotFound,
		},
		{
			name:     "target slot missing",
			statusA:  model.SlotStatusSwappable,
			statusB:  model.SlotStatusSwappable,
			caller:   u1,
			slotA:    func(f *fixture) int64 { return f.a.ID },
			slotB:    func(*fixture) int64 { return 999 },
			expected: swap.ErrNotFound,
		},
		{
			name:     "caller does not own requester slot",
			statusA:  model.SlotStatusSwappable,
			statusB:  model.SlotStatusSwappable,
			caller:   u3,
			slotA:    func(f *fixture) int64 { return f.a.ID },
			slotB:    func(f *fixture) int64 { return f.b.ID },
			expected: swap.ErrForbidden,
		},
		{
			name:     "requester slot busy",
			statusA:  model.SlotStatusBusy,
			statusB:  model.SlotStatusSwappable,
			caller:   u1,
			slotA:    func(f *fixture) int64 { return f.a.ID },
			slotB:    func(f *fixture) int64 { return f.b.ID },
			expected: swap.ErrInvalidState,
		},
		{
			name:     "target slot busy",
			statusA:  model.SlotStatusSwappable,
			statusB:  model.SlotStatusBusy,
			caller:   u1,
			slotA:    func(f *fixture) int64 { return f.a.ID },
			slotB:    func(f *fixture) int64 { return f.b.ID },
			expected: swap.ErrInvalidState,
		},
		{
			name:     "target slot already pending",
			statusA:  model.SlotStatusSwappable,
			statusB:  model.SlotStatusSwapPending,
			caller:   u1,
			slotA:    func(f *fixture) int64 { return f.a.ID },
			slotB:    func(f *fixture) int64 { return f.b.ID },
			expected: swap.ErrInvalidState,
		},
		{
			name:     "same slot on both sides",
			statusA:  model.SlotStatusSwappable,
			statusB:  model.SlotStatusSwappable,
			caller:   u1,
			slotA:    func(f *fixture) int64 { return f.a.ID },
			slotB:    func(f *fixture) int64 { return f.a.ID },
			expected: swap.ErrSelfSwap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.statusA, tt.statusB)

			p, err := swap.Propose(context.Background(), f.st, tt.caller, tt.slotA(f), tt.slotB(f))

			require.ErrorIs(t, err, tt.expected)
			assert.Nil(t, p)
			assert.False(t, swap.Retriable(err))
			f.assertUntouched(t)
		})
	}
}

func TestPropose_SelfSwapBetweenOwnSlots(t *testing.T) {
	f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)
	own := f.addSlot(t, u1, "Gym", model.SlotStatusSwappable)

	_, err := swap.Propose(context.Background(), f.st, u1, f.a.ID, own.ID)

	require.ErrorIs(t, err, swap.ErrSelfSwap)
	assert.Equal(t, model.SlotStatusSwappable, f.slot(t, f.a.ID).Status)
	assert.Equal(t, model.SlotStatusSwappable, f.slot(t, own.ID).Status)
}

func TestPropose_SlotCannotJoinSecondProposal(t *testing.T) {
	f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)
	f.propose(t)
	c := f.addSlot(t, u3, "Lunch", model.SlotStatusSwappable)

	_, err := swap.Propose(context.Background(), f.st, u3, c.ID, f.b.ID)
	require.ErrorIs(t, err, swap.ErrInvalidState)

	_, err = swap.Propose(context.Background(), f.st, u1, f.a.ID, c.ID)
	require.ErrorIs(t, err, swap.ErrInvalidState)

	incoming, err := f.st.Ledger.ListPendingByTarget(context.Background(), u2)
	require.NoError(t, err)
	assert.Len(t, incoming, 1)
	assert.Equal(t, model.SlotStatusSwappable, f.slot(t, c.ID).Status)
}

func TestPropose_RestoresSlotsWhenLedgerFails(t *testing.T) {
	f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)
	boom := errors.New("ledger unavailable")
	f.store.ProposalCreateHook = func(*model.SwapProposal) error { return boom }

	_, err := swap.Propose(context.Background(), f.st, u1, f.a.ID, f.b.ID)

	require.ErrorIs(t, err, boom)
	f.assertUntouched(t)
}

func TestPropose_RestoresFirstSlotWhenSecondUpdateConflicts(t *testing.T) {
	f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)
	f.store.SlotUpdateHook = func(slot *model.Slot) error {
		if slot.ID == f.b.ID && slot.Status == model.SlotStatusSwapPending {
			return swap.ErrConflict
		}
		return nil
	}

	_, err := swap.Propose(context.Background(), f.st, u1, f.a.ID, f.b.ID)

	require.ErrorIs(t, err, swap.ErrInvalidState)
	assert.True(t, swap.Retriable(err))
	f.assertUntouched(t)
}

func TestPropose_InTxRollsBack(t *testing.T) {
	f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)
	f.store.ProposalCreateHook = func(*model.SwapProposal) error { return swap.ErrConflict }

	err := f.store.InTx(context.Background(), func(st swap.Stores) error {
		_, err := swap.Propose(context.Background(), st, u1, f.a.ID, f.b.ID)
		return err
	})

	require.ErrorIs(t, err, swap.ErrConflict)
	f.assertUntouched(t)
}

func TestRespond_AcceptExchangesOwners(t *testing.T) {
	f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)
	p := f.propose(t)

	res, err := swap.Respond(context.Background(), f.st, u2, p.ID, true)
	require.NoError(t, err)

	assert.Equal(t, model.ProposalStatusAccepted, res.Proposal.Status)
	assert.Equal(t, model.ProposalStatusAccepted, f.proposal(t, p.ID).Status)

	a := f.slot(t, f.a.ID)
	b := f.slot(t, f.b.ID)
	assert.Equal(t, u2, a.OwnerID)
	assert.Equal(t, model.SlotStatusBusy, a.Status)
	assert.Equal(t, u1, b.OwnerID)
	assert.Equal(t, model.SlotStatusBusy, b.Status)

	// Захваченные владельцы не пересчитываются после обмена
	stored := f.proposal(t, p.ID)
	assert.Equal(t, u1, stored.RequesterUserID)
	assert.Equal(t, u2, stored.TargetUserID)
}

func TestRespond_RejectReleasesSlots(t *testing.T) {
	f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)
	p := f.propose(t)

	res, err := swap.Respond(context.Background(), f.st, u2, p.ID, false)
	require.NoError(t, err)

	assert.Equal(t, model.ProposalStatusRejected, res.Proposal.Status)
	assert.Empty(t, res.Skipped)

	a := f.slot(t, f.a.ID)
	b := f.slot(t, f.b.ID)
	assert.Equal(t, u1, a.OwnerID)
	assert.Equal(t, model.SlotStatusSwappable, a.Status)
	assert.Equal(t, u2, b.OwnerID)
	assert.Equal(t, model.SlotStatusSwappable, b.Status)
}

func TestRespond_SecondResponseIsAlreadyResolved(t *testing.T) {
	for _, first := range []bool{true, false} {
		f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)
		p := f.propose(t)

		_, err := swap.Respond(context.Background(), f.st, u2, p.ID, first)
		require.NoError(t, err)
		before := f.proposal(t, p.ID)
		a, b := f.slot(t, f.a.ID), f.slot(t, f.b.ID)

		for _, second := range []bool{true, false} {
			_, err = swap.Respond(context.Background(), f.st, u2, p.ID, second)
			require.ErrorIs(t, err, swap.ErrAlreadyResolved)
			assert.False(t, swap.Retriable(err))
		}

		assert.Equal(t, before.Status, f.proposal(t, p.ID).Status)
		assert.Equal(t, a, f.slot(t, f.a.ID))
		assert.Equal(t, b, f.slot(t, f.b.ID))
	}
}

func TestRespond_OnlyTargetMayRespond(t *testing.T) {
	f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)
	p := f.propose(t)

	for _, caller := range []int64{u1, u3} {
		_, err := swap.Respond(context.Background(), f.st, caller, p.ID, true)
		require.ErrorIs(t, err, swap.ErrForbidden)
	}

	assert.Equal(t, model.ProposalStatusPending, f.proposal(t, p.ID).Status)
	assert.Equal(t, model.SlotStatusSwapPending, f.slot(t, f.a.ID).Status)
	assert.Equal(t, u1, f.slot(t, f.a.ID).OwnerID)
}

func TestRespond_UnknownProposal(t *testing.T) {
	f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)

	_, err := swap.Respond(context.Background(), f.st, u2, uuid.New(), true)

	require.ErrorIs(t, err, swap.ErrNotFound)
}

func TestRespond_AcceptWithVanishedSlotIsStale(t *testing.T) {
	f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)
	p := f.propose(t)
	require.NoError(t, f.st.Slots.Delete(context.Background(), f.a.ID))

	_, err := swap.Respond(context.Background(), f.st, u2, p.ID, true)

	require.ErrorIs(t, err, swap.ErrStaleState)
	assert.True(t, swap.Retriable(err))
	assert.Equal(t, model.ProposalStatusPending, f.proposal(t, p.ID).Status)
	b := f.slot(t, f.b.ID)
	assert.Equal(t, u2, b.OwnerID)
	assert.Equal(t, model.SlotStatusSwapPending, b.Status)
}

func TestRespond_AcceptWithChangedSlotIsStale(t *testing.T) {
	f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)
	p := f.propose(t)
	changed := f.slot(t, f.b.ID)
	changed.Status = model.SlotStatusBusy
	require.NoError(t, f.st.Slots.Update(context.Background(), changed))

	_, err := swap.Respond(context.Background(), f.st, u2, p.ID, true)
	require.ErrorIs(t, err, swap.ErrStaleState)
	assert.Equal(t, model.ProposalStatusPending, f.proposal(t, p.ID).Status)
	assert.Equal(t, u1, f.slot(t, f.a.ID).OwnerID)

	// После StaleState предложение можно отклонить вручную
	res, err := swap.Respond(context.Background(), f.st, u2, p.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{f.b.ID}, res.Skipped)
	assert.Equal(t, model.SlotStatusSwappable, f.slot(t, f.a.ID).Status)
	assert.Equal(t, model.SlotStatusBusy, f.slot(t, f.b.ID).Status)
}

func TestRespond_RejectToleratesMissingSlot(t *testing.T) {
	f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)
	p := f.propose(t)
	require.NoError(t, f.st.Slots.Delete(context.Background(), f.b.ID))

	res, err := swap.Respond(context.Background(), f.st, u2, p.ID, false)

	require.NoError(t, err)
	assert.Equal(t, []int64{f.b.ID}, res.Skipped)
	assert.Equal(t, model.ProposalStatusRejected, f.proposal(t, p.ID).Status)
	assert.Equal(t, model.SlotStatusSwappable, f.slot(t, f.a.ID).Status)
}

func TestRespond_AcceptRestoresFirstSlotOnConflict(t *testing.T) {
	f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)
	p := f.propose(t)
	f.store.SlotUpdateHook = func(slot *model.Slot) error {
		if slot.ID == f.b.ID && slot.Status == model.SlotStatusBusy {
			return swap.ErrConflict
		}
		return nil
	}

	_, err := swap.Respond(context.Background(), f.st, u2, p.ID, true)

	require.ErrorIs(t, err, swap.ErrStaleState)
	a := f.slot(t, f.a.ID)
	assert.Equal(t, u1, a.OwnerID)
	assert.Equal(t, model.SlotStatusSwapPending, a.Status)
	assert.Equal(t, model.ProposalStatusPending, f.proposal(t, p.ID).Status)
}

func TestRespond_RejectedSlotsCanBeProposedAgain(t *testing.T) {
	f := newFixture(t, model.SlotStatusSwappable, model.SlotStatusSwappable)
	p := f.propose(t)
	_, err := swap.Respond(context.Background(), f.st, u2, p.ID, false)
	require.NoError(t, err)

	again := f.propose(t)

	assert.NotEqual(t, p.ID, again.ID)
	assert.Equal(t, model.ProposalStatusRejected, f.proposal(t, p.ID).Status)
	assert.Equal(t, model.ProposalStatusPending, f.proposal(t, again.ID).Status)
}
