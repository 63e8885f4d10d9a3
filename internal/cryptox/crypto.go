// Package cryptox derives and checks password verifiers for locally stored
// accounts. The plaintext secret is never persisted: an account record keeps
// a random salt and sha256(argon2id(secret, salt)).
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/trivision/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of the random per-account salt.
const SaltSize = 16

func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// NewVerifier generates a fresh salt and the matching verifier for secret.
func NewVerifier(secret []byte) (salt, verifier []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	return salt, MakeVerifier(DeriveKey(secret, salt))
}

// CheckSecret reports whether secret matches the stored salt/verifier pair.
// The comparison is constant-time.
func CheckSecret(secret, salt, verifier []byte) bool {
	candidate := MakeVerifier(DeriveKey(secret, salt))
	return subtle.ConstantTimeCompare(candidate, verifier) == 1
}
