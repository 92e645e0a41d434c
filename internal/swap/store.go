package swap

import (
	"context"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/google/uuid"
)

// SlotStore is the persistence contract for slots.
// GetByID returns ErrNotFound for a missing slot; Update is last-writer-wins per
// slot and returns ErrConflict when the backing store detects a concurrent write.
type SlotStore interface {
	GetByID(ctx context.Context, id int64) (*model.Slot, error)
	Create(ctx context.Context, slot *model.Slot) error
	Update(ctx context.Context, slot *model.Slot) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*model.Slot, error)
	ListByStatus(ctx context.Context, status model.SlotStatus) ([]*model.Slot, error)
	ListByStatusExcludingOwner(ctx context.Context, status model.SlotStatus, excludedOwnerID int64) ([]*model.Slot, error)
}

// SwapLedger is the persistence contract for swap proposals.
type SwapLedger interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.SwapProposal, error)
	Create(ctx context.Context, proposal *model.SwapProposal) error
	Update(ctx context.Context, proposal *model.SwapProposal) error
	ListPendingByTarget(ctx context.Context, userID int64) ([]*model.SwapProposal, error)
	ListByRequester(ctx context.Context, userID int64) ([]*model.SwapProposal, error)
	ListByStatus(ctx context.Context, status model.ProposalStatus) ([]*model.SwapProposal, error)
}

// Stores bundles the handles one coordinator call operates on.
// Transactional is set when every write through these handles is discarded
// on error, so the coordinator does not need to compensate by hand.
type Stores struct {
	Slots         SlotStore
	Ledger        SwapLedger
	Transactional bool
}

// TxRunner runs fn with store handles bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Stores) error) error
}
