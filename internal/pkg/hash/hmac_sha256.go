package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACSHA256 is a keyed digest for short-lived secrets such as one-time codes.
// Unlike the password hashers it is deterministic, which keeps verification
// cheap.
type HMACSHA256 struct {
	secret []byte
}

// NewHMACSHA256 returns a digest keyed with secret.
func NewHMACSHA256(secret string) *HMACSHA256 {
	return &HMACSHA256{secret: []byte(secret)}
}

// Hash returns the hex encoded digest of str.
func (s *HMACSHA256) Hash(str string) ([]byte, error) {
	return []byte(hex.EncodeToString(s.sum(str))), nil
}

// Verify compares in constant time. A digest that is not valid hex never
// matches.
func (s *HMACSHA256) Verify(hashed, str string) bool {
	want, err := hex.DecodeString(hashed)
	if err != nil || len(want) != sha256.Size {
		return false
	}
	return hmac.Equal(want, s.sum(str))
}

func (s *HMACSHA256) sum(str string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(str))
	return mac.Sum(nil)
}
