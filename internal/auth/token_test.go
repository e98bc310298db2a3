package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, secret, userID string, expiresIn time.Duration) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	})

	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	v := NewVerifier(testSecret)

	userID, err := v.Verify(mintToken(t, testSecret, "alice", time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)
}

// Every failure mode collapses into the same opaque error.
func TestVerifyFailures(t *testing.T) {
	v := NewVerifier(testSecret)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", mintToken(t, testSecret, "alice", -time.Hour)},
		{"wrong secret", mintToken(t, "other-secret", "alice", time.Hour)},
		{"missing user id", mintToken(t, testSecret, "", time.Hour)},
		{"malformed", "not.a.token"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	v := NewVerifier(testSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "alice"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
