// Package push sends device notifications.
//
// The FCM driver talks to the Firebase Cloud Messaging HTTP v1 API. Provider
// errors that prove the device token is dead are reported as ErrInvalidToken
// so callers can forget the token.
package push
