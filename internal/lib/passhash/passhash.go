package passhash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Пароли хранятся одной строкой в формате salt:hash, где соль случайная
// на каждый пароль, а hash это PBKDF2-SHA256 от пароля с этой солью.
// Открытый текст никогда не пишется в базу.

const (
	saltLen    = 16
	keyLen     = 32
	iterations = 10000
)

var ErrMalformedHash = errors.New("malformed password hash")

func Hash(password string) (string, error) {
	const op = "lib.passhash.Hash"

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	digest := pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(digest), nil
}

func Verify(stored, password string) (bool, error) {
	const op = "lib.passhash.Verify"

	saltHex, digestHex, found := strings.Cut(stored, ":")
	if !found {
		return false, fmt.Errorf("%s: %w", op, ErrMalformedHash)
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, ErrMalformedHash)
	}

	digest, err := hex.DecodeString(digestHex)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, ErrMalformedHash)
	}

	candidate := pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)

	return subtle.ConstantTimeCompare(digest, candidate) == 1, nil
}
