// Package env reads typed values from environment variables.
package env

import (
	"os"
	"strconv"
	"time"
)

// Environment implements config.Environment over a lookup function
type Environment struct {
	lookup func(string) (string, bool)
}

// New creates an accessor for the process environment
func New() *Environment {
	return &Environment{lookup: os.LookupEnv}
}

// FromMap creates an accessor over a fixed set of variables
func FromMap(vars map[string]string) *Environment {
	return &Environment{lookup: func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}}
}

// Lookup returns the raw value and whether the variable is set
func (e *Environment) Lookup(key string) (string, bool) {
	return e.lookup(key)
}

// Has returns true if an environment variable is set
func (e *Environment) Has(key string) bool {
	_, ok := e.lookup(key)
	return ok
}

// GetString returns an environment variable as a string
func (e *Environment) GetString(key string) string {
	v, _ := e.lookup(key)
	return v
}

// GetInt returns an environment variable as an integer, or 0
func (e *Environment) GetInt(key string) int {
	return e.GetIntWithDefault(key, 0)
}

// GetBool returns an environment variable as a boolean, or false
func (e *Environment) GetBool(key string) bool {
	return e.GetBoolWithDefault(key, false)
}

// GetDuration returns an environment variable as a duration, or 0
func (e *Environment) GetDuration(key string) time.Duration {
	return e.GetDurationWithDefault(key, 0)
}

// GetStringWithDefault returns an environment variable as a string with a default value
func (e *Environment) GetStringWithDefault(key string, defaultValue string) string {
	if v := e.GetString(key); v != "" {
		return v
	}
	return defaultValue
}

// GetIntWithDefault returns an environment variable as an integer with a default value
func (e *Environment) GetIntWithDefault(key string, defaultValue int) int {
	val, err := strconv.Atoi(e.GetString(key))
	if err != nil {
		return defaultValue
	}
	return val
}

// GetBoolWithDefault returns an environment variable as a boolean with a default value
func (e *Environment) GetBoolWithDefault(key string, defaultValue bool) bool {
	val, err := strconv.ParseBool(e.GetString(key))
	if err != nil {
		return defaultValue
	}
	return val
}

// GetDurationWithDefault returns an environment variable as a duration with a default value
func (e *Environment) GetDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	val, err := time.ParseDuration(e.GetString(key))
	if err != nil {
		return defaultValue
	}
	return val
}
