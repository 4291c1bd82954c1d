package emulator

import (
	"errors"

	"github.com/ezrec/rvsoc/translate"
)

var f = translate.From

var (
	// Configuration errors
	ErrConfigRamSize = errors.New(f("ram size must be a positive multiple of 4"))
	ErrConfigClock   = errors.New(f("clock must be positive"))
	ErrConfigBaud    = errors.New(f("baud rate must be positive, and no more than the clock"))

	// Runtime errors
	ErrTickLimit = errors.New(f("tick limit reached"))
)

// ErrConfigKey lists configuration keys that are not recognized.
type ErrConfigKey string

func (err ErrConfigKey) Error() string {
	return f("unknown configuration keys: %v", string(err))
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Pc     uint32
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d pc 0x%08x %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
