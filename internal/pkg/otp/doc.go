// Package otp generates short numeric one-time codes and checks their
// validity window.
//
// Codes are drawn uniformly with crypto/rand from the full range of the
// configured width (a 6-digit code lies in 100000-999999), so they never carry
// a leading zero.
package otp
