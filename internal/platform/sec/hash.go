// Copyright (c) 2026 Robin CRM. All rights reserved.

package sec

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// bcrypt salts internally, so hashing the same input twice yields different
// strings. [CheckPasswordHash] is the only valid comparison path.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// CheckLegacyPassword compares a plain-text password against a plain-text
// stored value in constant time.
//
// # Legacy Only
//
// A handful of accounts imported from the previous dashboard carry no hash,
// only a plain-text password column. This comparison exists solely so those
// accounts can log in ONCE more; the auth service immediately hashes the
// password and clears the plain-text column on a successful match.
func CheckLegacyPassword(plainTextPassword, storedPlainText string) bool {
	if storedPlainText == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(plainTextPassword), []byte(storedPlainText)) == 1
}
