package entity

import (
	"strings"
	"time"
)

// VerificationState gates signup and login.
type VerificationState int16

const (
	// VerificationUnverified means no OTP has been accepted since the last issue.
	VerificationUnverified VerificationState = 0

	// VerificationVerified means the most recently issued OTP was accepted.
	VerificationVerified VerificationState = 1
)

func (vs VerificationState) String() string {
	if vs == VerificationVerified {
		return "VERIFIED"
	}
	return "UNVERIFIED"
}

// VerificationStateOf maps the stored flag to a state.
func VerificationStateOf(verified bool) VerificationState {
	if verified {
		return VerificationVerified
	}
	return VerificationUnverified
}

// Channel is how an OTP reaches its owner.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

func (c Channel) String() string {
	return string(c)
}

// ChannelOf picks the delivery channel for an identifier. E.164 numbers start
// with "+", everything else is treated as an email address.
func ChannelOf(identifier string) Channel {
	if strings.HasPrefix(identifier, "+") {
		return ChannelPhone
	}
	return ChannelEmail
}

// Profile is the public view of an identity.
type Profile struct {
	ID          int64
	Identifier  string
	FullName    string
	Phone       string
	State       VerificationState
	HasPassword bool
	HasDevice   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
