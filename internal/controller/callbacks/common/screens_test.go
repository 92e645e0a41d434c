package common

import (
	"testing"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func slot(id int64, title string, status model.SlotStatus) *model.Slot {
	return &model.Slot{ID: id, Title: title, StartTime: start, EndTime: start.Add(time.Hour), Status: status}
}

func TestBuildMySlotsScreen(t *testing.T) {
	text, kb := BuildMySlotsScreen([]*model.Slot{
		slot(1, "Standup <daily>", model.SlotStatusBusy),
		slot(2, "Review", model.SlotStatusSwappable),
		slot(3, "Dentist", model.SlotStatusSwapPending),
	})

	assert.Contains(t, text, "Standup &lt;daily&gt;")
	require.Len(t, kb.InlineKeyboard, 4)
	assert.Equal(t, "slot_toggle:1", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "slot_delete:1", kb.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "slot_toggle:2", kb.InlineKeyboard[1][0].CallbackData)
	// Слот в обмене нельзя ни переключить, ни удалить
	require.Len(t, kb.InlineKeyboard[2], 1)
	assert.Equal(t, CbRequests, kb.InlineKeyboard[2][0].CallbackData)
}

func TestBuildMySlotsScreen_Empty(t *testing.T) {
	_, kb := BuildMySlotsScreen(nil)

	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, CbSlotNew, kb.InlineKeyboard[0][0].CallbackData)
}

func TestBuildOfferScreen(t *testing.T) {
	target := slot(10, "Their slot", model.SlotStatusSwappable)

	_, kb := BuildOfferScreen(target, []*model.Slot{
		slot(1, "Busy", model.SlotStatusBusy),
		slot(2, "Mine", model.SlotStatusSwappable),
	})
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "swap_propose:2:10", kb.InlineKeyboard[0][0].CallbackData)

	text, _ := BuildOfferScreen(target, nil)
	assert.Contains(t, text, "нет слотов")
}

func TestBuildRequestsScreen(t *testing.T) {
	id := uuid.New()
	lists := &service.ProposalLists{
		Incoming: []*model.SwapProposal{{
			ID:            id,
			Status:        model.ProposalStatusPending,
			RequesterSlot: slot(1, "Standup", model.SlotStatusSwapPending),
			Requester:     &model.User{Name: "Alice"},
		}},
		Outgoing: []*model.SwapProposal{{
			ID:     uuid.New(),
			Status: model.ProposalStatusRejected,
			Target: &model.User{Name: "Bob"},
		}},
	}

	text, kb := BuildRequestsScreen(lists)

	assert.Contains(t, text, "Alice")
	assert.Contains(t, text, "слот удалён")
	assert.Contains(t, text, "Отклонено")
	assert.Equal(t, "swap_accept:"+id.String(), kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "swap_reject:"+id.String(), kb.InlineKeyboard[0][1].CallbackData)
}
