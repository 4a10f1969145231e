package hash

import (
	"strings"
	"testing"
)

func TestPasswordHashers(t *testing.T) {
	tests := []struct {
		name string
		opts PasswordOptions
	}{
		{name: "bcrypt", opts: PasswordOptions{Algorithm: AlgorithmBcrypt, BcryptCost: 4, BcryptPepper: "pep"}},
		{name: "argon2id", opts: PasswordOptions{Algorithm: AlgorithmArgon2id, ArgonPepper: "pep"}},
		{name: "default", opts: PasswordOptions{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewPassword(tt.opts)
			if err != nil {
				t.Fatalf("NewPassword() error = %v", err)
			}

			hashed, err := h.Hash("p1-correct-horse")
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if strings.Contains(string(hashed), "p1-correct-horse") {
				t.Fatal("digest must not contain the plaintext")
			}
			if !h.Verify(string(hashed), "p1-correct-horse") {
				t.Fatal("Verify() rejected the right password")
			}
			if h.Verify(string(hashed), "p1-wrong") {
				t.Fatal("Verify() accepted a wrong password")
			}
			if h.Verify("", "p1-correct-horse") {
				t.Fatal("Verify() accepted an empty digest")
			}
		})
	}
}

func TestNewPasswordUnknown(t *testing.T) {
	if _, err := NewPassword(PasswordOptions{Algorithm: "md5"}); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

func TestBcryptCostFloor(t *testing.T) {
	if got := NewBcrypt(4, "").Cost(); got != MinBcryptCost {
		t.Fatalf("Cost() = %d, want %d", got, MinBcryptCost)
	}
	if got := NewBcrypt(12, "").Cost(); got != 12 {
		t.Fatalf("Cost() = %d, want 12", got)
	}
}

func TestBcryptPepperMatters(t *testing.T) {
	a := NewBcrypt(10, "pepper-a")
	b := NewBcrypt(10, "pepper-b")

	hashed, err := a.Hash("secret-value")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if b.Verify(string(hashed), "secret-value") {
		t.Fatal("different pepper must not verify")
	}
}

func TestHMACSHA256(t *testing.T) {
	h := NewHMACSHA256("otp-secret")

	digest, err := h.Hash("123456")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if len(digest) != 64 {
		t.Fatalf("hex digest length = %d, want 64", len(digest))
	}

	again, _ := h.Hash("123456")
	if string(digest) != string(again) {
		t.Fatal("HMAC digest must be deterministic")
	}
	if !h.Verify(string(digest), "123456") {
		t.Fatal("Verify() rejected the right code")
	}
	if h.Verify(string(digest), "654321") {
		t.Fatal("Verify() accepted a wrong code")
	}
	if NewHMACSHA256("other").Verify(string(digest), "123456") {
		t.Fatal("different secret must not verify")
	}
}
