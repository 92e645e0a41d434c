package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
	"go.uber.org/zap"
)

// SlotInput данные нового слота
type SlotInput struct {
	Title     string
	StartTime time.Time
	EndTime   time.Time
	Status    string // пусто = BUSY
}

// SlotPatch частичное обновление слота, nil поля не меняются
type SlotPatch struct {
	Title     *string
	StartTime *time.Time
	EndTime   *time.Time
	Status    *string
}

type SlotService struct {
	slots  swap.SlotStore
	logger *zap.Logger
}

func NewSlotService(slots swap.SlotStore, logger *zap.Logger) *SlotService {
	return &SlotService{
		slots:  slots,
		logger: logger,
	}
}

// ListMine возвращает слоты пользователя по возрастанию начала
func (s *SlotService) ListMine(ctx context.Context, callerID int64) ([]*model.Slot, error) {
	slots, err := s.slots.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// Create создаёт слот пользователя
func (s *SlotService) Create(ctx context.Context, callerID int64, in SlotInput) (*model.Slot, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", swap.ErrValidation)
	}
	if err := validateInterval(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	status := model.SlotStatusBusy
	if in.Status != "" {
		parsed, err := parseOwnerStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	slot := &model.Slot{
		OwnerID:   callerID,
		Title:     title,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Status:    status,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}

	s.logger.Info("Slot created",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("owner_id", callerID),
		zap.String("status", string(slot.Status)),
	)

	return slot, nil
}

// Update меняет поля слота, пока он не участвует в обмене
func (s *SlotService) Update(ctx context.Context, callerID, slotID int64, patch SlotPatch) (*model.Slot, error) {
	slot, err := s.ownedSlot(ctx, callerID, slotID)
	if err != nil {
		return nil, err
	}
	if slot.IsPending() {
		return nil, fmt.Errorf("%w: slot %d is part of a pending swap", swap.ErrInvalidState, slotID)
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", swap.ErrValidation)
		}
		slot.Title = title
	}
	if patch.StartTime != nil {
		slot.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		slot.EndTime = *patch.EndTime
	}
	if err := validateInterval(slot.StartTime, slot.EndTime); err != nil {
		return nil, err
	}
	if patch.Status != nil {
		status, err := parseOwnerStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		slot.Status = status
	}

	slot.UpdatedAt = time.Now()
	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, fmt.Errorf("update slot: %w", err)
	}

	s.logger.Info("Slot updated",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("owner_id", callerID),
	)

	return slot, nil
}

// SetStatus переключает слот между BUSY и SWAPPABLE
func (s *SlotService) SetStatus(ctx context.Context, callerID, slotID int64, status string) (*model.Slot, error) {
	next, err := parseOwnerStatus(status)
	if err != nil {
		return nil, err
	}

	slot, err := s.ownedSlot(ctx, callerID, slotID)
	if err != nil {
		return nil, err
	}
	if slot.IsPending() {
		return nil, fmt.Errorf("%w: slot %d is part of a pending swap", swap.ErrInvalidState, slotID)
	}
	if slot.Status == next {
		return slot, nil
	}

	slot.Status = next
	slot.UpdatedAt = time.Now()
	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, fmt.Errorf("update slot status: %w", err)
	}

	s.logger.Info("Slot status changed",
		zap.Int64("slot_id", slot.ID),
		zap.String("status", string(next)),
	)

	return slot, nil
}

// Delete удаляет слот, если он не участвует в обмене
func (s *SlotService) Delete(ctx context.Context, callerID, slotID int64) error {
	slot, err := s.ownedSlot(ctx, callerID, slotID)
	if err != nil {
		return err
	}
	if slot.IsPending() {
		return fmt.Errorf("%w: slot %d is part of a pending swap", swap.ErrInvalidState, slotID)
	}

	if err := s.slots.Delete(ctx, slotID); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	s.logger.Info("Slot deleted",
		zap.Int64("slot_id", slotID),
		zap.Int64("owner_id", callerID),
	)

	return nil
}

func (s *SlotService) ownedSlot(ctx context.Context, callerID, slotID int64) (*model.Slot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot.OwnerID != callerID {
		return nil, fmt.Errorf("%w: slot %d belongs to another user", swap.ErrForbidden, slotID)
	}
	return slot, nil
}

func validateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end time are required", swap.ErrValidation)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end time must be after start time", swap.ErrValidation)
	}
	return nil
}

// parseOwnerStatus допускает только статусы, которые владелец может выставить сам
func parseOwnerStatus(raw string) (model.SlotStatus, error) {
	status, err := model.ParseSlotStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", swap.ErrValidation, err)
	}
	if !status.OwnerSettable() {
		return "", fmt.Errorf("%w: status %s is set only by swap requests", swap.ErrValidation, status)
	}
	return status, nil
}
