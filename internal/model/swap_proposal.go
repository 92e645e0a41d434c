package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "PENDING"  // Ожидает ответа владельца целевого слота
	ProposalStatusAccepted ProposalStatus = "ACCEPTED" // Слоты обменены
	ProposalStatusRejected ProposalStatus = "REJECTED" // Отклонено, слоты снова доступны
)

// ParseProposalStatus разбирает статус предложения
func ParseProposalStatus(s string) (ProposalStatus, error) {
	switch status := ProposalStatus(s); status {
	case ProposalStatusPending, ProposalStatusAccepted, ProposalStatusRejected:
		return status, nil
	default:
		return "", fmt.Errorf("unknown proposal status %q", s)
	}
}

// SwapProposal предложение обменять слот инициатора на слот другого пользователя.
// Владельцы фиксируются в момент создания и потом не пересчитываются.
type SwapProposal struct {
	ID              uuid.UUID      `json:"id"`
	RequesterSlotID int64          `json:"requester_slot_id"`
	TargetSlotID    int64          `json:"target_slot_id"`
	RequesterUserID int64          `json:"requester_user_id"`
	TargetUserID    int64          `json:"target_user_id"`
	Status          ProposalStatus `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	// Дополнительные поля для отображения (не из БД)
	RequesterSlot *Slot `json:"requester_slot,omitempty"`
	TargetSlot    *Slot `json:"target_slot,omitempty"`
	Requester     *User `json:"requester,omitempty"`
	Target        *User `json:"target,omitempty"`
}

// IsPending проверяет, ожидает ли предложение ответа
func (p *SwapProposal) IsPending() bool {
	return p.Status == ProposalStatusPending
}

// References проверяет, ссылается ли предложение на слот
func (p *SwapProposal) References(slotID int64) bool {
	return p.RequesterSlotID == slotID || p.TargetSlotID == slotID
}
