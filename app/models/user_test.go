package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	user, err := CreateUser("Jamie", "Lee", "jamie@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, "Jamie", user.FirstName)
	assert.Equal(t, "Lee", user.LastName)
	assert.Equal(t, ROLE_USER, user.Role)
	assert.Equal(t, STATUS_INACTIVE, user.Status)
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, CheckPasswordHash("secret123", user.Password))
}

func TestCreateUserRejectsInvalidInput(t *testing.T) {
	_, err := CreateUser("Jamie", "Lee", "not-an-email", "secret123")
	assert.Error(t, err)

	_, err = CreateUser("Jamie", "Lee", "jamie@example.com", "short")
	assert.Error(t, err)

	_, err = CreateUser("", "Lee", "jamie@example.com", "secret123")
	assert.Error(t, err)

	// Six characters is the minimum, and the length check applies to the
	// raw password rather than the stored hash.
	_, err = CreateUser("Jamie", "Lee", "jamie@example.com", "sixsix")
	assert.NoError(t, err)
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong horse", hash))
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Jamie Lee", (&User{FirstName: "Jamie", LastName: "Lee"}).FullName())
	assert.Equal(t, "Jamie", (&User{FirstName: "Jamie"}).FullName())
	assert.Equal(t, "Lee", (&User{LastName: "Lee"}).FullName())
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
