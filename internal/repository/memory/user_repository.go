package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUnique(user); err != nil {
		return err
	}
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	user.CreatedAt = time.Now()
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return fmt.Errorf("user %d: %w", user.ID, swap.ErrNotFound)
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, swap.ErrNotFound)
	}
	return copyUser(user), nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := make(map[int64]*model.User, len(ids))
	for _, id := range ids {
		if user, ok := r.s.users[id]; ok {
			users[id] = copyUser(user)
		}
	}
	return users, nil
}

func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return r.find(func(u *model.User) bool {
		return u.TelegramID != nil && *u.TelegramID == telegramID
	}, fmt.Sprintf("telegram user %d", telegramID))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool {
		return u.Email != nil && *u.Email == email
	}, fmt.Sprintf("user %q", email))
}

func (r *UserRepository) find(match func(*model.User) bool, what string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.users {
		if match(user) {
			return copyUser(user), nil
		}
	}
	return nil, fmt.Errorf("%s: %w", what, swap.ErrNotFound)
}

// checkUnique повторяет уникальные индексы таблицы users
func (r *UserRepository) checkUnique(user *model.User) error {
	for id, other := range r.s.users {
		if id == user.ID {
			continue
		}
		if user.Email != nil && other.Email != nil && *user.Email == *other.Email {
			return fmt.Errorf("email %q: %w", *user.Email, swap.ErrConflict)
		}
		if user.TelegramID != nil && other.TelegramID != nil && *user.TelegramID == *other.TelegramID {
			return fmt.Errorf("telegram id %d: %w", *user.TelegramID, swap.ErrConflict)
		}
	}
	return nil
}
