package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siwes-backend-go/internal/models"
)

func testTokenService() TokenService {
	return TokenService{
		Secret:     []byte("test-secret"),
		Issuer:     "siwes-logbook",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
}

func testUser() models.User {
	return models.User{
		ID:    "user-1",
		Name:  "Ada Obi",
		Email: "ada@example.com",
		Role:  models.RoleStudent,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tokens := testTokenService()

	raw, exp, err := tokens.CreateAccessToken(testUser())
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	claims, err := tokens.VerifyAccessToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestVerifyAccessTokenRejectsRefreshToken(t *testing.T) {
	tokens := testTokenService()

	raw, err := tokens.CreateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = tokens.VerifyAccessToken(raw)
	assert.Equal(t, ErrTokenInvalid, err)
}

func TestVerifyRefreshTokenRejectsAccessToken(t *testing.T) {
	tokens := testTokenService()

	raw, _, err := tokens.CreateAccessToken(testUser())
	require.NoError(t, err)

	_, err = tokens.VerifyRefreshToken(raw)
	assert.Equal(t, ErrTokenInvalid, err)
}

func TestVerifyAccessTokenRejectsWrongSecret(t *testing.T) {
	tokens := testTokenService()
	other := testTokenService()
	other.Secret = []byte("different-secret")

	raw, _, err := tokens.CreateAccessToken(testUser())
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(raw)
	assert.Equal(t, ErrTokenInvalid, err)
}

func TestVerifyAccessTokenRejectsExpired(t *testing.T) {
	tokens := testTokenService()
	tokens.AccessTTL = -time.Minute

	raw, _, err := tokens.CreateAccessToken(testUser())
	require.NoError(t, err)

	_, err = tokens.VerifyAccessToken(raw)
	assert.Equal(t, ErrTokenExpired, err)
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	tokens := testTokenService()

	_, err := tokens.VerifyAccessToken("not-a-token")
	assert.Equal(t, ErrTokenInvalid, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	tokens := testTokenService()

	raw, err := tokens.CreateRefreshToken("user-9")
	require.NoError(t, err)

	userID, err := tokens.VerifyRefreshToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-9", userID)
}
