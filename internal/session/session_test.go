package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := Claims{Email: sub + "@example.com", RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	s, err := New(signToken(t, "user-1", exp))
	require.NoError(t, err)

	assert.Equal(t, "user-1", s.UserID())
	assert.Equal(t, "user-1@example.com", s.Email())
	assert.True(t, s.ExpiresAt().Equal(exp))
	assert.False(t, s.Expired(time.Now()))
	assert.True(t, s.Expired(exp.Add(time.Second)))
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()

	_, err := New("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = New(signToken(t, "", time.Time{}))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNoExpiry(t *testing.T) {
	t.Parallel()

	s, err := New(signToken(t, "u", time.Time{}))
	require.NoError(t, err)
	assert.True(t, s.ExpiresAt().IsZero())
	assert.False(t, s.Expired(time.Now().Add(100*365*24*time.Hour)))
}

func TestAccessToken_Lifecycle(t *testing.T) {
	t.Parallel()

	tok := signToken(t, "u", time.Time{})
	s, err := New(tok)
	require.NoError(t, err)

	got, err := s.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tok, got)

	var order []string
	s.OnClose(func() { order = append(order, "first") })
	s.OnClose(func() { order = append(order, "second") })

	s.Close()
	s.Close()
	assert.True(t, s.Closed())
	assert.Equal(t, []string{"second", "first"}, order)

	_, err = s.AccessToken(context.Background())
	assert.ErrorIs(t, err, ErrSignedOut)

	ran := false
	s.OnClose(func() { ran = true })
	assert.True(t, ran)
}
