package model

import (
	"fmt"
	"time"
)

type SlotStatus string

const (
	SlotStatusBusy        SlotStatus = "BUSY"         // Занят владельцем
	SlotStatusSwappable   SlotStatus = "SWAPPABLE"    // Выставлен на обмен
	SlotStatusSwapPending SlotStatus = "SWAP_PENDING" // Участвует в активном предложении обмена
)

// ParseSlotStatus разбирает статус слота, неизвестные значения отклоняются
func ParseSlotStatus(s string) (SlotStatus, error) {
	switch status := SlotStatus(s); status {
	case SlotStatusBusy, SlotStatusSwappable, SlotStatusSwapPending:
		return status, nil
	default:
		return "", fmt.Errorf("unknown slot status %q", s)
	}
}

// OwnerSettable сообщает, может ли владелец сам выставить этот статус
func (s SlotStatus) OwnerSettable() bool {
	return s == SlotStatusBusy || s == SlotStatusSwappable
}

type Slot struct {
	ID        int64      `json:"id"`
	OwnerID   int64      `json:"owner_id"`
	Title     string     `json:"title"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	Status    SlotStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Заполняется при выдаче списков (не из таблицы slots)
	Owner *User `json:"owner,omitempty"`
}

// IsPending проверяет, заблокирован ли слот активным предложением
func (s *Slot) IsPending() bool {
	return s.Status == SlotStatusSwapPending
}
