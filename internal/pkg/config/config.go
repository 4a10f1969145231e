// Package config exposes typed read access to the service configuration.
//
// Missing keys and values that cannot be converted yield the zero value of
// the requested type, so callers apply their own defaults.
package config

import (
	"io"
	"time"
)

// Config is the read-only view every module receives.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string

	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint(key string) uint
	GetUint32(key string) uint32
	GetUint64(key string) uint64
	GetFloat64(key string) float64

	// GetSecond and GetMinute read an integer and scale it to a duration.
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration

	// GetBinary decodes a base64 value.
	GetBinary(key string) []byte

	// GetArray accepts a YAML list or a comma separated string.
	GetArray(key string) []string

	// GetMap parses "k1:v1,k2:v2".
	GetMap(key string) map[string]string
}
