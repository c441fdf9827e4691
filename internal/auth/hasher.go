package auth

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a plaintext password into a stored digest and checks
// candidates against it.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// NewHasher returns the hasher for the configured scheme. Unknown schemes
// fall back to sha256.
func NewHasher(scheme string) Hasher {
	if scheme == "bcrypt" {
		return BcryptHasher{}
	}
	return SHA256Hasher{}
}

// SHA256Hasher produces base64(sha256(password)). The digest is deterministic
// and unsalted, so identical passwords share a digest and brute forcing is
// cheap. It is kept for compatibility with digests already in the users
// table; new deployments should set AUTH_HASH_SCHEME=bcrypt.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(password, digest string) bool {
	computed, err := h.Hash(password)
	if err != nil {
		return false
	}
	return computed == digest
}

// BcryptHasher is the salted, slow alternative.
type BcryptHasher struct{}

func (BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
