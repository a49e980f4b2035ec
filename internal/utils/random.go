package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	letterBytes  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberBytes  = "0123456789"
	alphanumeric = letterBytes + numberBytes
	specialChars = "!@#$%^&*()_+-="
	allChars     = alphanumeric + specialChars
)

func GenerateRandomString(length int) string {
	return generateRandom(length, alphanumeric)
}

// GenerateRandomPassword is used for admin-created guide accounts; the
// password is emailed and expected to be changed on first login.
func GenerateRandomPassword(length int) string {
	return generateRandom(length, allChars)
}

func GeneratePasswordResetToken() string {
	return GenerateRandomString(ResetTokenLength)
}

func generateRandom(length int, charset string) string {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := range result {
		num, _ := rand.Int(rand.Reader, charsetLength)
		result[i] = charset[num.Int64()]
	}

	return string(result)
}
