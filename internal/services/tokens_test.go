package services

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/clinic-auth/internal/models"
)

var testKey = []byte("unit-test-signing-key")

func testTokenConfig() TokenConfig {
	return TokenConfig{
		SigningKey: testKey,
		Issuer:     "clinic-auth",
		Audience:   "clinic-api",
		AccessTTL:  15 * time.Minute,
	}
}

func testPrincipal() Principal {
	return Principal{
		ID:    "64b0c1f2a1b2c3d4e5f60718",
		Name:  "Jane Doe",
		Email: "jane@clinic.test",
		Role:  models.UserTypeDoctor,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewTokenService(testTokenConfig())

	token, err := svc.IssueAccessToken(testPrincipal())
	require.NoError(t, err)

	got, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, testPrincipal(), got)
}

func TestExpiredTokenStillYieldsPrincipal(t *testing.T) {
	issuer := NewTokenService(testTokenConfig())
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := issuer.IssueAccessToken(testPrincipal())
	require.NoError(t, err)

	verifier := NewTokenService(testTokenConfig())

	// Full validation rejects the stale token.
	_, err = verifier.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The refresh entry point ignores lifetime but still checks the
	// signature.
	got, err := verifier.ParseExpiredAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, testPrincipal(), got)
}

func TestWrongKeyRejected(t *testing.T) {
	issuer := NewTokenService(testTokenConfig())
	token, err := issuer.IssueAccessToken(testPrincipal())
	require.NoError(t, err)

	cfg := testTokenConfig()
	cfg.SigningKey = []byte("a-different-key")
	verifier := NewTokenService(cfg)

	_, err = verifier.ParseExpiredAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAlgorithmSubstitutionRejected(t *testing.T) {
	svc := NewTokenService(testTokenConfig())

	claims := &accessClaims{
		Name:  "Jane Doe",
		Email: "jane@clinic.test",
		Role:  "Doctor",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "64b0c1f2a1b2c3d4e5f60718",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	}

	t.Run("different MAC algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString(testKey)
		require.NoError(t, err)

		_, err = svc.ParseExpiredAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("alg none", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ParseExpiredAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ParseExpiredAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIssuerCheckOptional(t *testing.T) {
	otherIssuer := testTokenConfig()
	otherIssuer.Issuer = "someone-else"
	token, err := NewTokenService(otherIssuer).IssueAccessToken(testPrincipal())
	require.NoError(t, err)

	t.Run("off by default", func(t *testing.T) {
		_, err := NewTokenService(testTokenConfig()).ParseExpiredAccessToken(token)
		assert.NoError(t, err)
	})

	t.Run("rejects foreign issuer when enabled", func(t *testing.T) {
		cfg := testTokenConfig()
		cfg.VerifyIssuer = true
		_, err := NewTokenService(cfg).ParseExpiredAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("accepts own issuer when enabled", func(t *testing.T) {
		cfg := testTokenConfig()
		cfg.VerifyIssuer = true
		own, err := NewTokenService(cfg).IssueAccessToken(testPrincipal())
		require.NoError(t, err)

		_, err = NewTokenService(cfg).ParseExpiredAccessToken(own)
		assert.NoError(t, err)
	})
}

func TestIssueRefreshToken(t *testing.T) {
	svc := NewTokenService(testTokenConfig())

	first, err := svc.IssueRefreshToken()
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(first)
	require.NoError(t, err, "refresh token must be URL-safe base64")
	assert.Len(t, raw, 32, "refresh token must carry 256 bits of entropy")

	second, err := svc.IssueRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
