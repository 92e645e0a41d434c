package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
)

type SlotStore struct {
	s *Store
}

func (r *SlotStore) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[id]
	if !ok {
		return nil, fmt.Errorf("slot %d: %w", id, swap.ErrNotFound)
	}
	return copySlot(slot), nil
}

func (r *SlotStore) Create(ctx context.Context, slot *model.Slot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextSlotID++
	now := time.Now()
	slot.ID = r.s.nextSlotID
	slot.CreatedAt = now
	slot.UpdatedAt = now
	r.s.slots[slot.ID] = copySlot(slot)
	return nil
}

func (r *SlotStore) Update(ctx context.Context, slot *model.Slot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.slots[slot.ID]; !ok {
		return fmt.Errorf("slot %d: %w", slot.ID, swap.ErrNotFound)
	}
	if r.s.SlotUpdateHook != nil {
		if err := r.s.SlotUpdateHook(slot); err != nil {
			return err
		}
	}
	r.s.slots[slot.ID] = copySlot(slot)
	return nil
}

func (r *SlotStore) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.slots[id]; !ok {
		return fmt.Errorf("slot %d: %w", id, swap.ErrNotFound)
	}
	delete(r.s.slots, id)
	return nil
}

func (r *SlotStore) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Slot, error) {
	return r.filter(func(slot *model.Slot) bool { return slot.OwnerID == ownerID }), nil
}

func (r *SlotStore) ListByStatus(ctx context.Context, status model.SlotStatus) ([]*model.Slot, error) {
	return r.filter(func(slot *model.Slot) bool { return slot.Status == status }), nil
}

func (r *SlotStore) ListByStatusExcludingOwner(ctx context.Context, status model.SlotStatus, excludedOwnerID int64) ([]*model.Slot, error) {
	return r.filter(func(slot *model.Slot) bool {
		return slot.Status == status && slot.OwnerID != excludedOwnerID
	}), nil
}

// filter возвращает копии подходящих слотов по возрастанию start_time
func (r *SlotStore) filter(match func(*model.Slot) bool) []*model.Slot {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var slots []*model.Slot
	for _, slot := range r.s.slots {
		if match(slot) {
			slots = append(slots, copySlot(slot))
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].StartTime.Equal(slots[j].StartTime) {
			return slots[i].ID < slots[j].ID
		}
		return slots[i].StartTime.Before(slots[j].StartTime)
	})
	return slots
}
