// Package cryptox derives and checks password hashes.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/scribe/internal/common"
	"golang.org/x/crypto/argon2"
)

// argon2id parameters. Changing them invalidates every stored hash.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32

	// SaltSize is the length of salts produced by NewSalt.
	SaltSize = 16
)

// NewSalt returns a fresh random salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// HashPassword derives the argon2id hash of password under salt.
func HashPassword(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// CheckPassword reports whether password hashes to hash under salt. The
// comparison is constant-time. An empty password never matches.
func CheckPassword(hash, salt []byte, password string) bool {
	if password == "" || len(hash) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(hash, HashPassword(password, salt)) == 1
}
