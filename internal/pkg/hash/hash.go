package hash

import (
	"fmt"
	"strings"
)

// Hash produces and checks one-way digests of secrets.
type Hash interface {
	// Hash returns the encoded digest of str.
	Hash(str string) ([]byte, error)
	// Verify reports whether str matches the encoded digest.
	Verify(hashed, str string) bool
}

const (
	// AlgorithmBcrypt selects bcrypt for password storage.
	AlgorithmBcrypt = "bcrypt"
	// AlgorithmArgon2id selects Argon2id for password storage.
	AlgorithmArgon2id = "argon2id"
)

// PasswordOptions configures NewPassword.
type PasswordOptions struct {
	Algorithm    string
	BcryptCost   int
	BcryptPepper string
	ArgonPepper  string
}

// NewPassword builds the password hasher named by opts.Algorithm.
func NewPassword(opts PasswordOptions) (Hash, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Algorithm)) {
	case "", AlgorithmBcrypt:
		return NewBcrypt(opts.BcryptCost, opts.BcryptPepper), nil
	case AlgorithmArgon2id:
		return NewArgon2id(opts.ArgonPepper), nil
	default:
		return nil, fmt.Errorf("hash: unknown password algorithm %q", opts.Algorithm)
	}
}
