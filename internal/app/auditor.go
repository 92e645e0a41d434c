package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
	"go.uber.org/zap"
)

// AuditReport результат одной проверки согласованности
type AuditReport struct {
	// Слоты в SWAP_PENDING, на которые не ссылается ни одно PENDING предложение
	OrphanedSlots []int64
	// PENDING предложения, чьи слоты пропали или вышли из SWAP_PENDING
	StaleProposals []string
}

// Clean сообщает, что расхождений не найдено
func (r AuditReport) Clean() bool {
	return len(r.OrphanedSlots) == 0 && len(r.StaleProposals) == 0
}

// Auditor периодически сверяет статусы слотов и предложений.
// Только читает и пишет в лог: выводить слоты из SWAP_PENDING может лишь координатор.
type Auditor struct {
	stores   swap.Stores
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewAuditor создаёт новый фоновый аудитор
func NewAuditor(stores swap.Stores, interval time.Duration, logger *zap.Logger) *Auditor {
	return &Auditor{
		stores:   stores,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновую проверку
func (a *Auditor) Start(ctx context.Context) {
	a.logger.Info("Starting consistency auditor", zap.Duration("interval", a.interval))

	go a.run(ctx)
}

// Stop останавливает фоновую проверку
func (a *Auditor) Stop() {
	a.logger.Info("Stopping consistency auditor")
	close(a.stopChan)
}

func (a *Auditor) run(ctx context.Context) {
	// Первый запуск сразу при старте
	a.audit(ctx)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.audit(ctx)
		case <-a.stopChan:
			a.logger.Info("Consistency auditor stopped")
			return
		case <-ctx.Done():
			a.logger.Info("Consistency auditor cancelled")
			return
		}
	}
}

func (a *Auditor) audit(ctx context.Context) {
	report, err := a.Check(ctx)
	if err != nil {
		a.logger.Error("Consistency audit failed", zap.Error(err))
		return
	}

	if report.Clean() {
		a.logger.Debug("Consistency audit passed")
		return
	}

	a.logger.Warn("Consistency audit found mismatches",
		zap.Int64s("orphaned_slots", report.OrphanedSlots),
		zap.Strings("stale_proposals", report.StaleProposals),
	)
}

// Check выполняет одну проверку
func (a *Auditor) Check(ctx context.Context) (AuditReport, error) {
	var report AuditReport

	pendingSlots, err := a.stores.Slots.ListByStatus(ctx, model.SlotStatusSwapPending)
	if err != nil {
		return report, fmt.Errorf("list pending slots: %w", err)
	}
	proposals, err := a.stores.Ledger.ListByStatus(ctx, model.ProposalStatusPending)
	if err != nil {
		return report, fmt.Errorf("list pending proposals: %w", err)
	}

	pending := make(map[int64]bool, len(pendingSlots))
	for _, slot := range pendingSlots {
		pending[slot.ID] = true
	}

	referenced := make(map[int64]bool, 2*len(proposals))
	for _, p := range proposals {
		referenced[p.RequesterSlotID] = true
		referenced[p.TargetSlotID] = true
		if !pending[p.RequesterSlotID] || !pending[p.TargetSlotID] {
			report.StaleProposals = append(report.StaleProposals, p.ID.String())
		}
	}

	for _, slot := range pendingSlots {
		if !referenced[slot.ID] {
			report.OrphanedSlots = append(report.OrphanedSlots, slot.ID)
		}
	}

	return report, nil
}
