package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_swapper/internal/repository/base"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store собирает репозитории поверх пула соединений
type Store struct {
	pool *pgxpool.Pool
}

// NewStore создаёт хранилище на основе пула
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Stores возвращает обработчики без транзакции: каждый запрос коммитится сам
func (s *Store) Stores() swap.Stores {
	return stores(s.pool, false)
}

// Users возвращает репозиторий пользователей поверх пула
func (s *Store) Users() *UserRepository {
	return NewUserRepository(s.pool)
}

// InTx выполняет fn в транзакции REPEATABLE READ.
// Одновременная запись в ту же строку приводит к ошибке сериализации,
// которая возвращается как swap.ErrConflict.
func (s *Store) InTx(ctx context.Context, fn func(swap.Stores) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(stores(tx, true)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return base.Translate("commit transaction", err)
	}

	return nil
}

func stores(db base.DBTX, transactional bool) swap.Stores {
	return swap.Stores{
		Slots:         NewSlotRepository(db),
		Ledger:        NewSwapRepository(db),
		Transactional: transactional,
	}
}
