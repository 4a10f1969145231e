package entity

import "testing"

func TestChannelOf(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       Channel
	}{
		{name: "email", identifier: "a@x.com", want: ChannelEmail},
		{name: "phone", identifier: "+6281234567890", want: ChannelPhone},
		{name: "empty", identifier: "", want: ChannelEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChannelOf(tt.identifier); got != tt.want {
				t.Fatalf("ChannelOf(%q) = %q, want %q", tt.identifier, got, tt.want)
			}
		})
	}
}

func TestVerificationState(t *testing.T) {
	if VerificationStateOf(true) != VerificationVerified {
		t.Fatal("verified flag must map to VERIFIED")
	}
	if VerificationStateOf(false).String() != "UNVERIFIED" {
		t.Fatal("unverified flag must map to UNVERIFIED")
	}
}
