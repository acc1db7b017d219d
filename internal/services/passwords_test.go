package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2"))

	assert.True(t, VerifyPassword("correct horse battery staple", hash))
	assert.False(t, VerifyPassword("wrong password", hash))
}

func TestVerifyPasswordAcceptsLegacyBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword("legacy-pass", string(hash)))
	assert.False(t, VerifyPassword("other", string(hash)))
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("anything", "not-a-hash"))
	assert.False(t, VerifyPassword("anything", "$argon2id$v=19$garbage"))
}
