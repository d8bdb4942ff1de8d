// AngelaMos | 2026
// security_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := VerifyPassword("correct horse battery", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("pw", "not-a-hash")
	assert.Error(t, err)

	_, err = VerifyPassword("pw", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA")
	assert.Error(t, err)
}

func TestVerifyPasswordWithRehashUpgradesOldParams(t *testing.T) {
	old := currentParams
	currentParams = argonParams{memory: 8 * 1024, time: 1, threads: 1, keyLen: 32}
	weak, err := HashPassword("secret-password")
	currentParams = old
	require.NoError(t, err)

	ok, newHash, err := VerifyPasswordWithRehash("secret-password", weak)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, newHash)

	ok, newHash, err = VerifyPasswordWithRehash("secret-password", newHash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, newHash)
}

func TestVerifyPasswordTimingSafeWithoutHash(t *testing.T) {
	ok, newHash, err := VerifyPasswordTimingSafe("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, newHash)
}

func TestHashTokenIsStable(t *testing.T) {
	token, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Equal(t, HashToken(token), HashToken(token))
	assert.Len(t, HashToken(token), 64)
}
