// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package descriptor

import "fmt"

// ConfigError reports a fatal configuration mistake made by a descriptor
// author: an unrecognized dependency entry, a reserved name, a purpose
// requested before setup, and the like. A build never retries past one.
type ConfigError struct {
	Descriptor string
	Msg        string
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	if e.Descriptor == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Descriptor, e.Msg)
}

// Errorf builds a ConfigError for the named descriptor.
func Errorf(descriptor, format string, args ...any) error {
	return &ConfigError{Descriptor: descriptor, Msg: fmt.Sprintf(format, args...)}
}
