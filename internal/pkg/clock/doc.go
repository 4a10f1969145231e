// Package clock lets usecases read the time through Clocker so tests can pin
// OTP expiry and timestamps with Fixed.
package clock
