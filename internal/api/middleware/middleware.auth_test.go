package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JennyYuanZW/JianshanPortal/config"
	"github.com/JennyYuanZW/JianshanPortal/internal/common"
	"github.com/JennyYuanZW/JianshanPortal/internal/global"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, claims AuthClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func setupTestConfig(t *testing.T) {
	t.Helper()
	prev := global.ServerConfig
	global.ServerConfig = &config.Configuration{JwtSecret: testSecret}
	t.Cleanup(func() { global.ServerConfig = prev })
}

func TestValidateTokenAcceptsValidToken(t *testing.T) {
	setupTestConfig(t)

	signed := signToken(t, AuthClaims{
		UserID: "user-1",
		Email:  "mei@example.com",
		Name:   "Mei Chen",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSecret)

	claims, err := ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "mei@example.com", claims.Email)
}

func TestValidateTokenRejectsExpiredToken(t *testing.T) {
	setupTestConfig(t)

	signed := signToken(t, AuthClaims{
		UserID: "user-1",
		Email:  "mei@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}, testSecret)

	_, err := ValidateToken(signed)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	setupTestConfig(t)

	signed := signToken(t, AuthClaims{
		UserID: "user-1",
		Email:  "mei@example.com",
	}, "some-other-secret")

	_, err := ValidateToken(signed)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestValidateTokenRequiresIdentityClaims(t *testing.T) {
	setupTestConfig(t)

	signed := signToken(t, AuthClaims{Email: "mei@example.com"}, testSecret)
	_, err := ValidateToken(signed)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)

	signed = signToken(t, AuthClaims{UserID: "user-1"}, testSecret)
	_, err = ValidateToken(signed)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	setupTestConfig(t)

	_, err := ValidateToken("not-a-token")
	assert.ErrorIs(t, err, common.ErrTokenInvalid)
}
