package config

import "time"

// Environment defines the interface for environment variable access
type Environment interface {
	Lookup(key string) (string, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetDuration(key string) time.Duration
}

// Error types for config operations
var (
	ErrInvalidValue   = Error{"invalid value"}
	ErrInvalidConfig  = Error{"invalid configuration"}
	ErrUnsupportedVer = Error{"unsupported configuration version"}
)

// Error represents a configuration error
type Error struct {
	Message string
}

func (e Error) Error() string {
	return e.Message
}
