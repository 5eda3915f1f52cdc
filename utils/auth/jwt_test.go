package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(now time.Time) *JWTManager {
	m := NewJWTManager(JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "shikshachain-api"})
	m.now = func() time.Time { return now }
	return m
}

func TestGenerateAndValidateIssuerToken(t *testing.T) {
	now := time.Now()
	m := newTestManager(now)

	token, jti, err := m.GenerateIssuerToken("bput", RoleIssuer)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "bput", claims.Subject)
	assert.Equal(t, RoleIssuer, claims.Role)
	assert.Equal(t, jti, claims.ID)
}

func TestValidateTokenExpired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	token, _, err := newTestManager(issued).GenerateIssuerToken("bput", RoleIssuer)
	require.NoError(t, err)

	_, err = newTestManager(time.Now()).ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsForeignTokens(t *testing.T) {
	now := time.Now()
	other := NewJWTManager(JWTConfig{Secret: "other-secret", Expiry: time.Hour, Issuer: "shikshachain-api"})
	other.now = func() time.Time { return now }
	token, _, err := other.GenerateIssuerToken("bput", RoleIssuer)
	require.NoError(t, err)

	_, err = newTestManager(now).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := NewJWTManager(JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "someone-else"})
	token, _, err = wrongIssuer.GenerateIssuerToken("bput", RoleIssuer)
	require.NoError(t, err)

	_, err = newTestManager(now).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = newTestManager(now).ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
