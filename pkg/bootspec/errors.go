package bootspec

import (
	"errors"
	"fmt"
)

var (
	ErrKernelNotSet     = errors.New("kernel not set")
	ErrKernelDirMissing = errors.New("kernel path has no directory component")
	ErrEmptyModule      = errors.New("empty module spec")
)

// ConfigurationError reports a call made on a BootSpec that is not ready for it,
// e.g. rendering the menu before a kernel was chosen.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configError(op string, err error) error {
	return &ConfigurationError{Op: op, Err: err}
}
