package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/slot_swapper/internal/auth"
	"github.com/Freeeeeet/slot_swapper/internal/repository/memory"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(memory.New().Users(), auth.NewPasswordHasher(bcrypt.MinCost), zap.NewNop())
}

func TestUserService_SignupAndLogin(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "Alice", "  Alice@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.EmailValue())
	assert.NotEqual(t, "secret1", user.PasswordHash)

	logged, err := svc.Login(ctx, "ALICE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_SignupValidation(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	_, err := svc.Signup(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	tests := []struct {
		name, userName, email, password string
	}{
		{"missing name", "", "bob@example.com", "secret1"},
		{"missing email", "Bob", "", "secret1"},
		{"short password", "Bob", "bob@example.com", "12345"},
		{"duplicate email", "Bob", "ALICE@example.com", "secret1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, swap.ErrValidation)
		})
	}
}

func TestUserService_ResetPassword(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	_, err := svc.Signup(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, "alice@example.com", "newsecret"))
	require.NoError(t, svc.ResetPassword(ctx, "ghost@example.com", "newsecret"))
	assert.ErrorIs(t, svc.ResetPassword(ctx, "alice@example.com", "123"), swap.ErrValidation)

	_, err = svc.Login(ctx, "alice@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "alice@example.com", "newsecret")
	assert.NoError(t, err)
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	alice, err := svc.Signup(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	_, err = svc.Signup(ctx, "Bob", "bob@example.com", "secret1")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, alice.ID, "Alice B.", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", updated.Name)

	_, err = svc.UpdateProfile(ctx, alice.ID, "Alice", "bob@example.com")
	assert.ErrorIs(t, err, swap.ErrValidation)

	_, err = svc.UpdateProfile(ctx, 999, "Ghost", "ghost@example.com")
	assert.ErrorIs(t, err, swap.ErrNotFound)
}

func TestUserService_RegisterTelegramUser(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	first, err := svc.RegisterTelegramUser(ctx, 1001, "alice", "Alice", "")
	require.NoError(t, err)
	assert.Equal(t, "Alice", first.Name)

	again, err := svc.RegisterTelegramUser(ctx, 1001, "alice_new", "Alice", "Smith")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "alice_new", again.Username)
	assert.Equal(t, "Alice Smith", again.Name)

	got, err := svc.GetByTelegramID(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", got.Name)
}
