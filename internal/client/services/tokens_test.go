package services

import (
	"testing"
	"time"

	"github.com/agentfree/sessionkit/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpaqueIssuer(t *testing.T) {
	tok, err := OpaqueIssuer{}.Issue("12", time.UnixMilli(1700000000123))
	require.NoError(t, err)
	assert.Equal(t, "mock-jwt-token-12-1700000000123", tok)

	id, err := OpaqueIssuer{}.UserID(tok)
	require.NoError(t, err)
	assert.Equal(t, "12", id)

	_, err = OpaqueIssuer{}.Issue("", time.Now())
	assert.Error(t, err)
}

func TestOpaqueIssuer_UserIDWithDash(t *testing.T) {
	tok, err := OpaqueIssuer{}.Issue("a-b", time.UnixMilli(5))
	require.NoError(t, err)

	id, err := OpaqueIssuer{}.UserID(tok)
	require.NoError(t, err)
	assert.Equal(t, "a-b", id)
}

func TestOpaqueIssuer_UserIDRejectsForeignTokens(t *testing.T) {
	for _, tok := range []string{
		"",
		"garbage",
		"mock-jwt-token-",
		"mock-jwt-token-1",
		"mock-jwt-token-1-abc",
		"mock-jwt-token--123",
	} {
		_, err := OpaqueIssuer{}.UserID(tok)
		assert.ErrorIs(t, err, common.ErrInvalidToken, tok)
	}
}

func TestJWTIssuer_RoundTrip(t *testing.T) {
	j := NewJWTIssuer([]byte("k"), time.Hour)
	j.now = func() time.Time { return fixedNow.Add(30 * time.Minute) }

	a, err := j.Issue("7", fixedNow)
	require.NoError(t, err)
	b, err := j.Issue("7", fixedNow)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "tokens carry a unique id")

	id, err := j.UserID(a)
	require.NoError(t, err)
	assert.Equal(t, "7", id)
}

func TestJWTIssuer_Rejects(t *testing.T) {
	j := NewJWTIssuer([]byte("k"), time.Hour)
	j.now = func() time.Time { return fixedNow }

	tok, err := j.Issue("7", fixedNow)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTIssuer([]byte("other"), time.Hour)
		other.now = j.now
		_, err := other.UserID(tok)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewJWTIssuer([]byte("k"), time.Hour)
		late.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }
		_, err := late.UserID(tok)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "7"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = j.UserID(none)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("opaque token", func(t *testing.T) {
		_, err := j.UserID("mock-jwt-token-1-1")
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})
}
