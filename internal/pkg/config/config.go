package config

import (
	"io"
	"time"
)

// Config is the read-only view of runtime configuration handed to every
// component. Implementations convert raw values to the requested type and
// fall back to the zero value when a key is missing or malformed.
type Config interface {
	io.Closer

	// GetString returns the value for key as a string.
	GetString(key string) string

	// GetBool returns the value for key as a bool.
	GetBool(key string) bool

	// GetInt returns the value for key as an int.
	GetInt(key string) int

	// GetInt32 returns the value for key as an int32.
	GetInt32(key string) int32

	// GetUint returns the value for key as a uint.
	GetUint(key string) uint

	// GetFloat64 returns the value for key as a float64.
	GetFloat64(key string) float64

	// GetSecond interprets the integer value for key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute interprets the integer value for key as a number of minutes.
	GetMinute(key string) time.Duration

	// GetArray returns the value for key split on commas.
	GetArray(key string) []string

	// GetMap parses the value for key from "k1:v1,k2:v2" pairs.
	GetMap(key string) map[string]string
}
