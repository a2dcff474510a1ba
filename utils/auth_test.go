package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("secret")
	require.NoError(t, err)

	assert.NotEqual(t, "secret", hashed)
	assert.True(t, IsHashed(hashed))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("secret")))

	again, err := HashPassword(hashed)
	require.NoError(t, err)
	assert.Equal(t, hashed, again, "an existing hash is kept")
}

func TestIsHashed(t *testing.T) {
	assert.False(t, IsHashed(""))
	assert.False(t, IsHashed("secret"))
	assert.False(t, IsHashed("$2a$10$tooshort"))
}
