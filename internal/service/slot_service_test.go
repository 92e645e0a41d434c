package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/repository/memory"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var monday = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func newSlotService(t *testing.T) (*SlotService, *memory.Store) {
	t.Helper()
	store := memory.New()
	return NewSlotService(store.Stores().Slots, zap.NewNop()), store
}

func createSlot(t *testing.T, svc *SlotService, owner int64, status string) *model.Slot {
	t.Helper()
	slot, err := svc.Create(context.Background(), owner, SlotInput{
		Title:     "Team sync",
		StartTime: monday,
		EndTime:   monday.Add(time.Hour),
		Status:    status,
	})
	require.NoError(t, err)
	return slot
}

func TestSlotService_CreateDefaultsToBusy(t *testing.T) {
	svc, _ := newSlotService(t)

	slot := createSlot(t, svc, 1, "")

	assert.Equal(t, model.SlotStatusBusy, slot.Status)
	assert.Equal(t, int64(1), slot.OwnerID)
	assert.NotZero(t, slot.ID)
}

func TestSlotService_CreateValidation(t *testing.T) {
	svc, _ := newSlotService(t)

	tests := []struct {
		name string
		in   SlotInput
	}{
		{"empty title", SlotInput{Title: "  ", StartTime: monday, EndTime: monday.Add(time.Hour)}},
		{"end before start", SlotInput{Title: "x", StartTime: monday, EndTime: monday.Add(-time.Hour)}},
		{"zero length", SlotInput{Title: "x", StartTime: monday, EndTime: monday}},
		{"missing times", SlotInput{Title: "x"}},
		{"pending status", SlotInput{Title: "x", StartTime: monday, EndTime: monday.Add(time.Hour), Status: "SWAP_PENDING"}},
		{"unknown status", SlotInput{Title: "x", StartTime: monday, EndTime: monday.Add(time.Hour), Status: "FREE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, tt.in)
			assert.ErrorIs(t, err, swap.ErrValidation)
		})
	}
}

func TestSlotService_ListMineSortedByStart(t *testing.T) {
	svc, _ := newSlotService(t)
	ctx := context.Background()

	late, err := svc.Create(ctx, 1, SlotInput{Title: "late", StartTime: monday.Add(5 * time.Hour), EndTime: monday.Add(6 * time.Hour)})
	require.NoError(t, err)
	early, err := svc.Create(ctx, 1, SlotInput{Title: "early", StartTime: monday, EndTime: monday.Add(time.Hour)})
	require.NoError(t, err)
	createSlot(t, svc, 2, "")

	slots, err := svc.ListMine(ctx, 1)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, early.ID, slots[0].ID)
	assert.Equal(t, late.ID, slots[1].ID)
}

func TestSlotService_Update(t *testing.T) {
	svc, _ := newSlotService(t)
	ctx := context.Background()
	slot := createSlot(t, svc, 1, "")

	title := "Renamed"
	status := "swappable"
	updated, err := svc.Update(ctx, 1, slot.ID, SlotPatch{Title: &title, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, model.SlotStatusSwappable, updated.Status)

	early := monday.Add(2 * time.Hour)
	_, err = svc.Update(ctx, 1, slot.ID, SlotPatch{StartTime: &early})
	assert.ErrorIs(t, err, swap.ErrValidation)

	_, err = svc.Update(ctx, 2, slot.ID, SlotPatch{Title: &title})
	assert.ErrorIs(t, err, swap.ErrForbidden)

	_, err = svc.Update(ctx, 1, 999, SlotPatch{Title: &title})
	assert.ErrorIs(t, err, swap.ErrNotFound)
}

func TestSlotService_PendingSlotIsLocked(t *testing.T) {
	svc, store := newSlotService(t)
	ctx := context.Background()
	mine := createSlot(t, svc, 1, "SWAPPABLE")
	theirs := createSlot(t, svc, 2, "SWAPPABLE")
	_, err := swap.Propose(ctx, store.Stores(), 1, mine.ID, theirs.ID)
	require.NoError(t, err)

	title := "x"
	_, err = svc.Update(ctx, 1, mine.ID, SlotPatch{Title: &title})
	assert.ErrorIs(t, err, swap.ErrInvalidState)

	_, err = svc.SetStatus(ctx, 1, mine.ID, "BUSY")
	assert.ErrorIs(t, err, swap.ErrInvalidState)

	assert.ErrorIs(t, svc.Delete(ctx, 2, theirs.ID), swap.ErrInvalidState)

	got, err := store.Stores().Slots.GetByID(ctx, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusSwapPending, got.Status)
}

func TestSlotService_SetStatus(t *testing.T) {
	svc, _ := newSlotService(t)
	ctx := context.Background()
	slot := createSlot(t, svc, 1, "")

	updated, err := svc.SetStatus(ctx, 1, slot.ID, "SWAPPABLE")
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusSwappable, updated.Status)

	_, err = svc.SetStatus(ctx, 1, slot.ID, "SWAP_PENDING")
	assert.ErrorIs(t, err, swap.ErrValidation)

	_, err = svc.SetStatus(ctx, 2, slot.ID, "BUSY")
	assert.ErrorIs(t, err, swap.ErrForbidden)
}

func TestSlotService_Delete(t *testing.T) {
	svc, store := newSlotService(t)
	ctx := context.Background()
	slot := createSlot(t, svc, 1, "")

	assert.ErrorIs(t, svc.Delete(ctx, 2, slot.ID), swap.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, 1, slot.ID))

	_, err := store.Stores().Slots.GetByID(ctx, slot.ID)
	assert.ErrorIs(t, err, swap.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 1, slot.ID), swap.ErrNotFound)
}
