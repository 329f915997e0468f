// Package config reads application settings by dotted key, for example
// "modules.authenticator.verify.max_attempts".
package config

import (
	"io"
	"time"
)

// Config is a read-only view over the loaded settings. Missing keys return
// the zero value of the requested type.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt64(key string) int64
	GetUint(key string) uint
	GetFloat64(key string) float64

	// GetDuration parses Go duration strings such as "5m" or "300ms".
	GetDuration(key string) time.Duration
	// GetSecond reads an integer number of seconds.
	GetSecond(key string) time.Duration

	// GetBinary decodes a base64 value.
	GetBinary(key string) []byte
	// GetArray splits "a,b,c", trimming blanks and dropping empty entries.
	GetArray(key string) []string
}
