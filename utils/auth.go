package utils

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain password with bcrypt. Values that already look like
// a bcrypt hash are returned unchanged so re-imported users are not hashed twice.
func HashPassword(password string) (string, error) {
	if IsHashed(password) {
		return password, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// IsHashed reports whether s is a bcrypt hash
func IsHashed(s string) bool {
	if len(s) != 60 || !strings.HasPrefix(s, "$2") {
		return false
	}
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
