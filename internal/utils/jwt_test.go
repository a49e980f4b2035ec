package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

func TestGenerateAndValidateToken(t *testing.T) {
	userID := primitive.NewObjectID()

	token, err := GenerateToken(userID, "tourist", "asha@example.com", "Asha", testJWTSecret, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ValidateToken(token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, userID.Hex(), claims.UserID)
	assert.Equal(t, "tourist", claims.Role)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "Asha", claims.Name)
	assert.Equal(t, AppName, claims.Issuer)

	parsed, err := claims.UserObjectID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestValidateToken_Expired(t *testing.T) {
	userID := primitive.NewObjectID()

	token, err := GenerateToken(userID, "tourist", "asha@example.com", "Asha", testJWTSecret, -time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testJWTSecret)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	userID := primitive.NewObjectID()

	token, err := GenerateToken(userID, "admin", "admin@example.com", "Admin", testJWTSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "some-other-secret")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateToken_Tampered(t *testing.T) {
	userID := primitive.NewObjectID()

	token, err := GenerateToken(userID, "guide", "guide@example.com", "Guide", testJWTSecret, time.Hour)
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "AAAA"
	claims, err := ValidateToken(tampered, testJWTSecret)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateToken_Garbage(t *testing.T) {
	claims, err := ValidateToken("not-a-token", testJWTSecret)
	assert.Error(t, err)
	assert.Nil(t, claims)
}
