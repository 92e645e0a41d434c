package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/repository/memory"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type swapFixture struct {
	store        *memory.Store
	svc          *SwapService
	alice, bob   *model.User
	aSlot, bSlot *model.Slot
}

func newSwapFixture(t *testing.T) *swapFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	f := &swapFixture{
		store: store,
		svc:   NewSwapService(store, store.Users(), zap.NewNop()),
		alice: &model.User{Name: "Alice"},
		bob:   &model.User{Name: "Bob"},
	}
	require.NoError(t, store.Users().Create(ctx, f.alice))
	require.NoError(t, store.Users().Create(ctx, f.bob))

	slots := store.Stores().Slots
	f.aSlot = &model.Slot{OwnerID: f.alice.ID, Title: "Standup", StartTime: monday, EndTime: monday.Add(time.Hour), Status: model.SlotStatusSwappable}
	f.bSlot = &model.Slot{OwnerID: f.bob.ID, Title: "Review", StartTime: monday.Add(2 * time.Hour), EndTime: monday.Add(3 * time.Hour), Status: model.SlotStatusSwappable}
	require.NoError(t, slots.Create(ctx, f.aSlot))
	require.NoError(t, slots.Create(ctx, f.bSlot))
	return f
}

func TestSwapService_ProposeAttachesSnapshots(t *testing.T) {
	f := newSwapFixture(t)

	p, err := f.svc.ProposeSwap(context.Background(), f.alice.ID, f.aSlot.ID, f.bSlot.ID)
	require.NoError(t, err)

	assert.Equal(t, model.ProposalStatusPending, p.Status)
	require.NotNil(t, p.RequesterSlot)
	require.NotNil(t, p.TargetSlot)
	assert.Equal(t, model.SlotStatusSwapPending, p.RequesterSlot.Status)
	assert.Equal(t, "Alice", p.Requester.Name)
	assert.Equal(t, "Bob", p.Target.Name)
}

func TestSwapService_ProposeErrorsKeepKind(t *testing.T) {
	f := newSwapFixture(t)

	_, err := f.svc.ProposeSwap(context.Background(), f.bob.ID, f.aSlot.ID, f.bSlot.ID)
	assert.ErrorIs(t, err, swap.ErrForbidden)
	assert.Equal(t, "forbidden", swap.Kind(err))
}

func TestSwapService_ProposeRollsBackOnLedgerFailure(t *testing.T) {
	f := newSwapFixture(t)
	f.store.ProposalCreateHook = func(*model.SwapProposal) error { return swap.ErrConflict }

	_, err := f.svc.ProposeSwap(context.Background(), f.alice.ID, f.aSlot.ID, f.bSlot.ID)
	require.Error(t, err)

	for _, id := range []int64{f.aSlot.ID, f.bSlot.ID} {
		slot, err := f.store.Stores().Slots.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, model.SlotStatusSwappable, slot.Status)
	}
}

func TestSwapService_AcceptFlow(t *testing.T) {
	f := newSwapFixture(t)
	ctx := context.Background()
	p, err := f.svc.ProposeSwap(ctx, f.alice.ID, f.aSlot.ID, f.bSlot.ID)
	require.NoError(t, err)

	res, err := f.svc.RespondToSwap(ctx, f.bob.ID, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.ProposalStatusAccepted, res.Proposal.Status)
	assert.Equal(t, f.bob.ID, res.Proposal.RequesterSlot.OwnerID)
	assert.Equal(t, f.alice.ID, res.Proposal.TargetSlot.OwnerID)

	_, err = f.svc.RespondToSwap(ctx, f.bob.ID, p.ID, false)
	assert.ErrorIs(t, err, swap.ErrAlreadyResolved)
}

func TestSwapService_RespondUnknownProposal(t *testing.T) {
	f := newSwapFixture(t)

	_, err := f.svc.RespondToSwap(context.Background(), f.bob.ID, uuid.New(), true)
	assert.ErrorIs(t, err, swap.ErrNotFound)
}

func TestSwapService_ListSwappableSlots(t *testing.T) {
	f := newSwapFixture(t)

	slots, err := f.svc.ListSwappableSlots(context.Background(), f.alice.ID)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, f.bSlot.ID, slots[0].ID)
	require.NotNil(t, slots[0].Owner)
	assert.Equal(t, "Bob", slots[0].Owner.Name)
}

func TestSwapService_ListSwapProposals(t *testing.T) {
	f := newSwapFixture(t)
	ctx := context.Background()
	p, err := f.svc.ProposeSwap(ctx, f.alice.ID, f.aSlot.ID, f.bSlot.ID)
	require.NoError(t, err)

	bobs, err := f.svc.ListSwapProposals(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, bobs.Incoming, 1)
	assert.Empty(t, bobs.Outgoing)
	assert.Equal(t, p.ID, bobs.Incoming[0].ID)
	assert.Equal(t, "Standup", bobs.Incoming[0].RequesterSlot.Title)

	alices, err := f.svc.ListSwapProposals(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, alices.Incoming)
	require.Len(t, alices.Outgoing, 1)

	_, err = f.svc.RespondToSwap(ctx, f.bob.ID, p.ID, false)
	require.NoError(t, err)

	bobs, err = f.svc.ListSwapProposals(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobs.Incoming)

	alices, err = f.svc.ListSwapProposals(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, alices.Outgoing, 1)
	assert.Equal(t, model.ProposalStatusRejected, alices.Outgoing[0].Status)
}
