// Package passhash derives and verifies salted password hashes. The same
// primitive also protects collection challenge keys, so the parameters are
// deliberately slow: PBKDF2 over HMAC-SHA512 with a million iterations.
package passhash

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"

	"github.com/passkeeper/server/internal/keygen"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// Iterations is the PBKDF2 iteration count.
	Iterations = 1_000_000

	// SaltSize is the number of random salt bytes generated when no salt
	// is supplied.
	SaltSize = 32

	// KeySize is the derived key length in bytes.
	KeySize = 64
)

// Hash derives a digest from the password and salt. If salt is nil a fresh
// random salt is generated and returned alongside the digest. The digest is
// base64-encoded for storage.
func Hash(password string, salt []byte) (digest string, usedSalt []byte, err error) {
	if salt == nil {
		salt, err = keygen.RandomBytes(SaltSize)
		if err != nil {
			return "", nil, err
		}
	}

	key := pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha512.New)
	return base64.StdEncoding.EncodeToString(key), salt, nil
}

// Verify recomputes the digest for the password with the stored salt and
// compares it against the stored digest in constant time.
func Verify(password string, digest string, salt []byte) bool {
	candidate, _, err := Hash(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}
