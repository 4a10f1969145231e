// Package jwt issues and verifies the HS512 access tokens returned by login,
// and carries verified Claims on the request context.
package jwt
