package auth

import (
	"testing"
	"time"

	"equiplend/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenUser = &entity.User{
	ID:    42,
	Email: "user@example.com",
	Role:  entity.UserRoleUser,
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", 30*time.Minute)

	token, err := m.Issue(tokenUser, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, tokenUser.ID, claims.UserID)
	assert.Equal(t, tokenUser.Email, claims.Email)
	assert.Equal(t, tokenUser.Email, claims.Subject)
	assert.Equal(t, entity.UserRoleUser, claims.Role)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute)

	token, err := m.Issue(tokenUser, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Minute)
	verifier := NewTokenManager("secret-b", time.Minute)

	token, err := issuer.Issue(tokenUser, time.Now())
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestGarbageTokenRejected(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute)

	_, err := m.Parse("not.a.token")
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}
