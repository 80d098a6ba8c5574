package config

import (
	"reflect"
)

// SetThen returns value if it is set, otherwise defaultValue.
func SetThen[T any](value T, defaultValue T) T {
	if reflect.ValueOf(value).IsZero() {
		return defaultValue
	}
	return value
}

// GetBoolPtr dereferences an optional boolean directive, falling back to the
// provided default when the directive was not present in the config file.
func GetBoolPtr(value *bool, defaultValue bool) bool {
	if value == nil {
		return defaultValue
	}
	return *value
}
