package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUartTx_Frame(t *testing.T) {
	assert := assert.New(t)

	ut := &UartTx{ClocksPerBit: 3}
	assert.True(ut.Ready())
	assert.True(ut.Tx())

	ut.Clock(0x41, true)
	assert.False(ut.Ready())

	var line []bool
	for !ut.Ready() {
		line = append(line, ut.Tx())
		// Data is ignored while busy.
		ut.Clock(0xff, true)
	}

	assert.Equal(UART_FRAME_BITS*3, len(line))

	// 0x41: start, 1000_0010 LSB first, stop
	bits := []bool{false, true, false, false, false, false, false, true, false, true}
	for n, bit := range bits {
		for c := range 3 {
			assert.Equal(bit, line[n*3+c], "bit %d clock %d", n, c)
		}
	}

	assert.True(ut.Tx())

	ut.Clock(0, false)
	assert.True(ut.Ready())
}

func TestUartTx_Reset(t *testing.T) {
	assert := assert.New(t)

	ut := &UartTx{ClocksPerBit: 2}
	ut.Clock('x', true)
	assert.False(ut.Ready())

	ut.Reset()
	assert.True(ut.Ready())
	assert.True(ut.Tx())
}

func TestUartRx_Loopback(t *testing.T) {
	for _, cpb := range []int{1, 2, 3, 8, 104} {
		assert := assert.New(t)

		var buf bytes.Buffer
		ut := &UartTx{ClocksPerBit: cpb}
		ur := &UartRx{ClocksPerBit: cpb, Output: &buf}

		message := []byte("Hello, world!\n\x00\xff")
		pending := message
		for range len(message) * (UART_FRAME_BITS + 2) * cpb {
			valid := len(pending) > 0 && ut.Ready()
			var data byte
			if valid {
				data = pending[0]
				pending = pending[1:]
			}
			ut.Clock(data, valid)
			err := ur.Clock(ut.Tx())
			assert.NoError(err)
		}

		assert.Equal(message, buf.Bytes(), "clocks per bit %d", cpb)
	}
}

func TestUartRx_Framing(t *testing.T) {
	assert := assert.New(t)

	ur := &UartRx{ClocksPerBit: 1}

	// start, eight zero bits, no stop bit
	var err error
	for range 10 {
		err = ur.Clock(false)
	}
	assert.ErrorIs(err, ErrUartFraming)

	// Glitch shorter than half a bit is ignored.
	ur = &UartRx{ClocksPerBit: 4}
	assert.NoError(ur.Clock(false))
	assert.NoError(ur.Clock(true))
	assert.NoError(ur.Clock(true))
	for range 40 {
		assert.NoError(ur.Clock(true))
	}
}
