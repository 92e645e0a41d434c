package app

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

func addSlot(t *testing.T, st swap.Stores, owner int64, status model.SlotStatus) *model.Slot {
	t.Helper()
	start := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	slot := &model.Slot{OwnerID: owner, Title: "slot", StartTime: start, EndTime: start.Add(time.Hour), Status: status}
	require.NoError(t, st.Slots.Create(context.Background(), slot))
	return slot
}

func TestAuditor_CleanAfterProtocolOperations(t *testing.T) {
	st := memory.New().Stores()
	a := addSlot(t, st, 1, model.SlotStatusSwappable)
	b := addSlot(t, st, 2, model.SlotStatusSwappable)
	_, err := swap.Propose(context.Background(), st, 1, a.ID, b.ID)
	require.NoError(t, err)

	report, err := NewAuditor(st, time.Hour, zap.NewNop()).Check(context.Background())

	require.NoError(t, err)
	assert.True(t, report.Clean())
}

func TestAuditor_ReportsOrphansAndStaleProposals(t *testing.T) {
	st := memory.New().Stores()
	orphan := addSlot(t, st, 1, model.SlotStatusSwapPending)
	a := addSlot(t, st, 1, model.SlotStatusSwappable)
	b := addSlot(t, st, 2, model.SlotStatusSwappable)
	p, err := swap.Propose(context.Background(), st, 1, a.ID, b.ID)
	require.NoError(t, err)
	require.NoError(t, st.Slots.Delete(context.Background(), b.ID))

	report, err := NewAuditor(st, time.Hour, zap.NewNop()).Check(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int64{orphan.ID}, report.OrphanedSlots)
	assert.Equal(t, []string{p.ID.String()}, report.StaleProposals)
}
