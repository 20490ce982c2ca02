// Package keygen produces random high-entropy keys: human-typeable grouped
// access keys for collections and raw byte keys for token signing.
package keygen

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// alphabet is the character set used for grouped keys. Uppercase letters and
// digits only, so keys survive being read aloud or typed.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// groupSize is the number of characters per dash-separated block.
const groupSize = 6

// CreateRandomKey generates a random key of the given length drawn from
// [A-Z0-9], grouped into blocks of six characters separated by dashes.
// The length is rounded up to the nearest multiple of six, so
// CreateRandomKey(36) returns a 41-character string of six groups.
//
// The random source is crypto/rand.
func CreateRandomKey(keyLength int) (string, error) {
	if keyLength < 1 {
		keyLength = groupSize
	}
	for keyLength%groupSize != 0 {
		keyLength++
	}

	var b strings.Builder
	b.Grow(keyLength + keyLength/groupSize - 1)

	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < keyLength; i++ {
		if i > 0 && i%groupSize == 0 {
			b.WriteByte('-')
		}
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[n.Int64()])
	}

	return b.String(), nil
}

// RandomBytes returns n cryptographically secure random bytes.
// Used for salts and for the server's token signing key.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
