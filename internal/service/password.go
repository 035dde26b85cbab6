package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the original credential records so existing hashes
// keep verifying
const bcryptCost = 10

// HashPassword hashes a plaintext password with a randomized salt
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// VerifyPassword checks a plaintext password against a stored hash
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
