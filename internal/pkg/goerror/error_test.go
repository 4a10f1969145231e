package goerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "server", err: NewServer(errors.New("db down")), want: http.StatusInternalServerError},
		{name: "rejection", err: NewRejection("Invalid OTP"), want: http.StatusOK},
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "invalid input", err: NewInvalidInput(nil, "identifier", "required"), want: http.StatusBadRequest},
		{name: "not found", err: NewBusiness("Recipient not found", CodeNotFound), want: http.StatusNotFound},
		{name: "unavailable", err: NewBusiness("Push disabled", CodeUnavailable), want: http.StatusServiceUnavailable},
		{name: "conflict", err: NewBusiness("Duplicate", CodeConflict), want: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			if !errors.As(tt.err, &gerr) {
				t.Fatalf("expected *Error, got %T", tt.err)
			}
			if got := gerr.StatusCode(); got != tt.want {
				t.Fatalf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsRejection(t *testing.T) {
	if !IsRejection(NewRejection("OTP not verified")) {
		t.Fatal("expected rejection")
	}
	if !IsRejection(fmt.Errorf("wrapped: %w", NewRejection("Invalid credentials"))) {
		t.Fatal("expected wrapped rejection")
	}
	if IsRejection(NewServer(errors.New("boom"))) {
		t.Fatal("server error is not a rejection")
	}
	if IsRejection(nil) {
		t.Fatal("nil is not a rejection")
	}
}

func TestNewInvalidInputFields(t *testing.T) {
	err := NewInvalidInput(nil, "identifier", "identifier is required", "code")
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gerr.Code() != CodeInvalidFormat {
		t.Fatalf("odd kv pairs must produce invalid format, got %s", gerr.Code())
	}

	err = NewInvalidInput(nil, "identifier", "identifier is required")
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gerr.Fields()["identifier"] != "identifier is required" {
		t.Fatalf("unexpected fields: %v", gerr.Fields())
	}
}
