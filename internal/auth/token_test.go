package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailbook/backend/internal/auth"
	"github.com/pkordes/trailbook/backend/internal/domain"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	id := uuid.New()

	raw, err := tokens.Issue(id)
	require.NoError(t, err)

	got, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokens_Expired(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := auth.NewTokens("test-secret", time.Hour).WithClock(func() time.Time { return issuedAt })
	raw, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	later := issuer.WithClock(func() time.Time { return issuedAt.Add(2 * time.Hour) })
	_, err = later.Parse(raw)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokens_WrongSecret(t *testing.T) {
	raw, err := auth.NewTokens("one", time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	_, err = auth.NewTokens("two", time.Hour).Parse(raw)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokens_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = auth.NewTokens("test-secret", time.Hour).Parse(raw)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokens_RejectsNonUUIDSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = auth.NewTokens("test-secret", time.Hour).Parse(raw)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokens_Garbage(t *testing.T) {
	_, err := auth.NewTokens("test-secret", time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
