package credential

import "testing"

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  A@X.com ", want: "a@x.com"},
		{in: " +628123 ", want: "+628123"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeIdentifier(tt.in); got != tt.want {
			t.Errorf("NormalizeIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
