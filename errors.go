package dmforge

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the source yields no text lines.
	ErrEmptyInput = errors.New("dmforge: empty input")

	// ErrNoSections is returned when no line classifies as a main heading.
	ErrNoSections = errors.New("dmforge: no sections detected")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("dmforge: invalid configuration")
)

// ModuleError records a single module whose serialization failed while
// the rest of the run continued.
type ModuleError struct {
	Sequence int
	Filename string
	Err      error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %d (%s): %v", e.Sequence, e.Filename, e.Err)
}

func (e ModuleError) Unwrap() error { return e.Err }
