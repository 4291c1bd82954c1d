package io

import (
	"errors"

	"github.com/ezrec/rvsoc/translate"
)

var f = translate.From

var (
	// Ram errors
	ErrRamOverflow = errors.New(f("image larger than ram"))
	ErrRamEmpty    = errors.New(f("ram has no words"))

	// Uart errors
	ErrUartFraming = errors.New(f("uart stop bit missing"))
)
