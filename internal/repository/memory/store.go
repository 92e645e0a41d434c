// Package memory provides in-memory implementations of the slot store, the
// swap ledger and the user repository. It is used by tests and local runs
// without PostgreSQL.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
	"github.com/google/uuid"
)

// Store keeps all records in maps guarded by one mutex.
// InTx serialises transactions and restores a snapshot when fn fails.
type Store struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	slots     map[int64]*model.Slot
	proposals map[uuid.UUID]*model.SwapProposal
	users     map[int64]*model.User

	nextSlotID int64
	nextUserID int64

	// SlotUpdateHook, when set, runs before every slot update and may fail it.
	SlotUpdateHook func(slot *model.Slot) error
	// ProposalCreateHook, when set, runs before every proposal insert and may fail it.
	ProposalCreateHook func(proposal *model.SwapProposal) error
}

// New создаёт пустое хранилище
func New() *Store {
	return &Store{
		slots:     make(map[int64]*model.Slot),
		proposals: make(map[uuid.UUID]*model.SwapProposal),
		users:     make(map[int64]*model.User),
	}
}

// Stores возвращает обработчики без транзакции
func (s *Store) Stores() swap.Stores {
	return swap.Stores{
		Slots:  &SlotStore{s: s},
		Ledger: &SwapLedger{s: s},
	}
}

// Users возвращает репозиторий пользователей
func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

// InTx выполняет fn атомарно относительно других транзакций этого хранилища
func (s *Store) InTx(ctx context.Context, fn func(swap.Stores) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()

	st := s.Stores()
	st.Transactional = true
	if err := fn(st); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	slots      map[int64]*model.Slot
	proposals  map[uuid.UUID]*model.SwapProposal
	users      map[int64]*model.User
	nextSlotID int64
	nextUserID int64
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		slots:      make(map[int64]*model.Slot, len(s.slots)),
		proposals:  make(map[uuid.UUID]*model.SwapProposal, len(s.proposals)),
		users:      maps.Clone(s.users),
		nextSlotID: s.nextSlotID,
		nextUserID: s.nextUserID,
	}
	for id, slot := range s.slots {
		snap.slots[id] = copySlot(slot)
	}
	for id, p := range s.proposals {
		snap.proposals[id] = copyProposal(p)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots = snap.slots
	s.proposals = snap.proposals
	s.users = snap.users
	s.nextSlotID = snap.nextSlotID
	s.nextUserID = snap.nextUserID
}

func copySlot(slot *model.Slot) *model.Slot {
	c := *slot
	c.Owner = nil
	return &c
}

func copyProposal(p *model.SwapProposal) *model.SwapProposal {
	c := *p
	c.RequesterSlot, c.TargetSlot, c.Requester, c.Target = nil, nil, nil, nil
	return &c
}

func copyUser(u *model.User) *model.User {
	c := *u
	return &c
}
