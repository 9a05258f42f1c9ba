package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltLen      = 16
)

// ErrInvalidHash signals a stored password that is not "hash.salt".
var ErrInvalidHash = errors.New("invalid password hash")

// HashPassword derives a scrypt key over a fresh random salt and encodes it
// as hex(key) + "." + hex(salt).
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key, err := derive(password, salt)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// CheckPassword recomputes the key with the stored salt and compares in
// constant time.
func CheckPassword(stored, password string) (bool, error) {
	hashPart, saltPart, ok := strings.Cut(stored, ".")
	if !ok {
		return false, ErrInvalidHash
	}
	want, err := hex.DecodeString(hashPart)
	if err != nil || len(want) != scryptKeyLen {
		return false, ErrInvalidHash
	}
	salt, err := hex.DecodeString(saltPart)
	if err != nil || len(salt) == 0 {
		return false, ErrInvalidHash
	}

	got, err := derive(password, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

func derive(password string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}
