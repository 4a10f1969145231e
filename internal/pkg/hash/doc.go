// Package hash hashes and verifies secrets.
//
// Passwords go through NewPassword (bcrypt or Argon2id, both salted and
// peppered). One-time codes use HMACSHA256 so they can be stored without the
// plain value.
package hash
