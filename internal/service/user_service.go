package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/slot_swapper/internal/auth"
	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const minPasswordLength = 6

// UserStore хранилище пользователей
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type UserService struct {
	users     UserStore
	passwords *auth.PasswordHasher
	logger    *zap.Logger
}

func NewUserService(users UserStore, passwords *auth.PasswordHasher, logger *zap.Logger) *UserService {
	return &UserService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// RegisterTelegramUser регистрирует или обновляет пользователя бота
func (s *UserService) RegisterTelegramUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*model.User, error) {
	name := strings.TrimSpace(firstName + " " + lastName)

	existingUser, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil && !errors.Is(err, swap.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	// Если пользователь уже существует, обновляем данные
	if existingUser != nil {
		if existingUser.Username == username && existingUser.Name == name {
			return existingUser, nil
		}
		existingUser.Username = username
		existingUser.Name = name

		if err := s.users.Update(ctx, existingUser); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}

		s.logger.Info("User updated",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
		)

		return existingUser, nil
	}

	user := &model.User{
		TelegramID: &telegramID,
		Username:   username,
		Name:       name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
	)

	return user, nil
}

// Signup регистрирует пользователя HTTP API
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = model.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", swap.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", swap.ErrValidation, minPasswordLength)
	}

	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        &email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", duplicateEmail(err))
	}

	s.logger.Info("User signed up", zap.Int64("user_id", user.ID))

	return user, nil
}

// Login проверяет email и пароль
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, model.NormalizeEmail(email))
	if errors.Is(err, swap.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ResetPassword задаёт новый пароль; для неизвестного email ничего не делает
func (s *UserService) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = model.NormalizeEmail(email)
	if email == "" || newPassword == "" {
		return fmt.Errorf("%w: email and new password are required", swap.ErrValidation)
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", swap.ErrValidation, minPasswordLength)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, swap.ErrNotFound) {
		s.logger.Debug("Password reset for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("Password reset", zap.Int64("user_id", user.ID))
	return nil
}

// UpdateProfile меняет имя и email
func (s *UserService) UpdateProfile(ctx context.Context, callerID int64, name, email string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = model.NormalizeEmail(email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", swap.ErrValidation)
	}

	user, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.ensureEmailFree(ctx, email, callerID); err != nil {
		return nil, err
	}

	user.Name = name
	user.Email = &email
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", duplicateEmail(err))
	}

	s.logger.Info("Profile updated", zap.Int64("user_id", user.ID))
	return user, nil
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByTelegramID получает пользователя по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.users.GetByTelegramID(ctx, telegramID)
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, ownerID int64) error {
	other, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, swap.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if other.ID != ownerID {
		return fmt.Errorf("%w: email is already in use", swap.ErrValidation)
	}
	return nil
}

// duplicateEmail переводит нарушение уникальности в ошибку валидации
func duplicateEmail(err error) error {
	if errors.Is(err, swap.ErrConflict) {
		return fmt.Errorf("%w: email is already in use", swap.ErrValidation)
	}
	return err
}
