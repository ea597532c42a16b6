package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTTokenService_IssueAndValidate(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "wager-ledger-analytics")

	tokenString, expiresAt, err := svc.Issue("admin")
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestJWTTokenService_Validate_WrongSecret(t *testing.T) {
	issuer := NewJWTTokenService("secret-a", time.Hour, "wager-ledger-analytics")
	validator := NewJWTTokenService("secret-b", time.Hour, "wager-ledger-analytics")

	tokenString, _, err := issuer.Issue("admin")
	require.NoError(t, err)

	_, err = validator.Validate(tokenString)
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_Expired(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", -time.Minute, "wager-ledger-analytics")

	tokenString, _, err := svc.Issue("admin")
	require.NoError(t, err)

	_, err = svc.Validate(tokenString)
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_Garbage(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "wager-ledger-analytics")

	_, err := svc.Validate("not-a-token")
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_WrongSigningMethod(t *testing.T) {
	svc := NewJWTTokenService("test-secret-key", time.Hour, "wager-ledger-analytics")

	// alg=none tokens must be rejected outright.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "admin"})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Validate(tokenString)
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_MissingSubject(t *testing.T) {
	secret := "test-secret-key"
	svc := NewJWTTokenService(secret, time.Hour, "wager-ledger-analytics")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = svc.Validate(tokenString)
	assert.Error(t, err)
}
