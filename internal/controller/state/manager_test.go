package state

import (
	"testing"

	"github.com/Freeeeeet/slot_swapper/internal/controller/callbacks/callbacktypes"
	"github.com/stretchr/testify/assert"
)

func TestManager_DialogLifecycle(t *testing.T) {
	sm := NewManager()
	const tgID int64 = 42

	assert.Equal(t, StateNone, sm.GetState(tgID))

	sm.SetState(tgID, StateNewSlotTitle)
	sm.SetData(tgID, DataSlotTitle, "Standup")
	sm.SetState(tgID, StateNewSlotTime)

	assert.Equal(t, StateNewSlotTime, sm.GetState(tgID))
	title, ok := sm.GetString(tgID, DataSlotTitle)
	assert.True(t, ok)
	assert.Equal(t, "Standup", title)

	data := sm.GetAllData(tgID)
	data[DataSlotTitle] = "changed"
	title, _ = sm.GetString(tgID, DataSlotTitle)
	assert.Equal(t, "Standup", title)

	sm.SetState(tgID, StateNone)
	_, ok = sm.GetData(tgID, DataSlotTitle)
	assert.False(t, ok)
}

func TestManager_ClearState(t *testing.T) {
	sm := NewManager()
	sm.SetData(1, "k", 10)

	_, ok := sm.GetString(1, "k")
	assert.False(t, ok)

	sm.ClearState(1)
	assert.Nil(t, sm.GetAllData(1))
}

func TestAdapter(t *testing.T) {
	sm := NewManager()
	a := NewAdapter(sm)

	a.SetState(7, "new_slot_title")
	assert.Equal(t, StateNewSlotTitle, sm.GetState(7))
	assert.EqualValues(t, StateNewSlotTitle, a.GetState(7))
}

func TestAdapter_SharesStateWithManager(t *testing.T) {
	sm := NewManager()
	a := NewAdapter(sm)
	const tgID int64 = 7

	a.SetState(tgID, callbacktypes.UserState(StateNewSlotTitle))
	assert.Equal(t, StateNewSlotTitle, sm.GetState(tgID))

	a.ClearState(tgID)
	assert.Equal(t, StateNone, sm.GetState(tgID))
}
