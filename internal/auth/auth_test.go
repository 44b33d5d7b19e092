package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/settlewise/internal/models"
)

type memoryUsers struct {
	byEmail map[string]*models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: make(map[string]*models.User)}
}

func (m *memoryUsers) CreateUser(_ context.Context, user *models.User) error {
	m.byEmail[user.Email] = user
	return nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.byEmail[email], nil
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret-with-enough-bytes", time.Hour)
	user := &models.User{ID: "user-1", Email: "alice@example.com", DisplayName: "Alice"}

	token, err := m.Generate(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.DisplayName)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestJWTRejectsBadTokens(t *testing.T) {
	m := NewJWTManager("test-secret-with-enough-bytes", time.Hour)
	user := &models.User{ID: "user-1", Email: "alice@example.com"}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("another-secret-entirely", time.Hour)
		token, err := other.Generate(user)
		require.NoError(t, err)
		_, err = m.Validate(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewJWTManager("test-secret-with-enough-bytes", time.Minute)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := past.Generate(user)
		require.NoError(t, err)
		_, err = m.Validate(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not-a-token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(newMemoryUsers()).WithCost(bcrypt.MinCost)

	user, err := a.Register(ctx, "  Alice@Example.com ", " Alice ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.DisplayName)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	_, err = a.Register(ctx, "alice@example.com", "Again", "correct horse")
	require.ErrorIs(t, err, ErrEmailExists)

	_, err = a.Register(ctx, "bob@example.com", "Bob", "short")
	require.ErrorIs(t, err, ErrWeakPassword)

	_, err = a.Register(ctx, "not an email", "Bob", "long enough password")
	require.ErrorIs(t, err, ErrInvalidEmail)

	got, err := a.Authenticate(ctx, "ALICE@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = a.Authenticate(ctx, "alice@example.com", "wrong password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Authenticate(ctx, "nobody@example.com", "correct horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
