package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{Secret: "test-secret", Issuer: "lifeboard.identity"}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestParseAcceptsSignedToken(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	token := signToken(t, testConfig.Secret, jwt.MapClaims{
		"sub":    "user-1",
		"iss":    testConfig.Issuer,
		"exp":    expiry.Unix(),
		"scopes": []string{"life:read", "life:write"},
	})

	claims, err := Parse(token, testConfig)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID())
	require.True(t, claims.HasScope("life:read"))
	require.True(t, claims.HasScope("life:write"))
	require.WithinDuration(t, expiry, claims.ExpiresAt, time.Second)
}

func TestParseRejectsTokenWithoutExpiry(t *testing.T) {
	// jwt/v5 validates expiry only when the claim is present, so a signed
	// token without exp reaches claim extraction.
	token := signToken(t, testConfig.Secret, jwt.MapClaims{
		"sub":    "user-1",
		"iss":    testConfig.Issuer,
		"scopes": []string{"life:read"},
	})

	claims, err := Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.Nil(t, claims)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token := signToken(t, testConfig.Secret, jwt.MapClaims{
		"sub": "user-1",
		"iss": testConfig.Issuer,
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongSignature(t *testing.T) {
	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "user-1",
		"iss": testConfig.Issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsMissingSubject(t *testing.T) {
	token := signToken(t, testConfig.Secret, jwt.MapClaims{
		"iss": testConfig.Issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseNormalizesSpaceDelimitedScopes(t *testing.T) {
	token := signToken(t, testConfig.Secret, jwt.MapClaims{
		"sub":    "user-2",
		"iss":    testConfig.Issuer,
		"exp":    time.Now().Add(time.Hour).Unix(),
		"scopes": "life:read life:write",
	})

	claims, err := Parse(token, testConfig)
	require.NoError(t, err)
	require.True(t, claims.HasScope("life:read"))
	require.True(t, claims.HasScope("life:write"))
}
