// Package tomlutil wraps TOML parsing to isolate the external dependency.
// This allows swapping the underlying TOML library without modifying callers.
package tomlutil

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// MaxInputSize limits TOML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("tomlutil: nil or empty data")
	ErrNilDestination = errors.New("tomlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("tomlutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := toml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("tomlutil: %w", err)
	}
	return nil
}

func Marshal(v any) ([]byte, error) {
	result, err := toml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("tomlutil: %w", err)
	}
	return result, nil
}
