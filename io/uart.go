package io

import (
	"io"
)

// UART frame: start bit, 8 data bits LSB first, stop bit.
const (
	UART_FRAME_BITS = 10
)

// UartTx is a UART transmitter. The line idles high.
type UartTx struct {
	ClocksPerBit int // Clocks each bit is held on the line.

	shift uint32 // Frame bits not yet completed, current bit in bit 0.
	bits  int    // Frame bits remaining.
	count int    // Clocks remaining in the current bit.
}

// Reset returns the transmitter to idle.
func (ut *UartTx) Reset() {
	ut.shift = 0
	ut.bits = 0
	ut.count = 0
}

// Ready returns true if a byte can be accepted.
func (ut *UartTx) Ready() bool {
	return ut.bits == 0
}

// Tx returns the line state.
func (ut *UartTx) Tx() bool {
	if ut.bits == 0 {
		return true
	}
	return ut.shift&1 != 0
}

// Clock advances the transmitter by one clock. When valid is asserted
// and the transmitter is ready, data is accepted.
func (ut *UartTx) Clock(data byte, valid bool) {
	if ut.bits == 0 {
		if valid {
			ut.shift = (1 << 9) | (uint32(data) << 1)
			ut.bits = UART_FRAME_BITS
			ut.count = max(ut.ClocksPerBit, 1)
		}
		return
	}

	ut.count--
	if ut.count == 0 {
		ut.shift >>= 1
		ut.bits--
		ut.count = max(ut.ClocksPerBit, 1)
	}
}

// UartRx monitors a UART line, and writes every received byte to Output.
type UartRx struct {
	ClocksPerBit int       // Clocks per bit of the monitored line.
	Output       io.Writer // Destination of received bytes.

	busy  bool
	index int
	wait  int
	next  byte
}

// Reset returns the receiver to idle.
func (ur *UartRx) Reset() {
	ur.busy = false
	ur.index = 0
	ur.wait = 0
	ur.next = 0
}

// Clock samples the line once. Each bit is sampled in its middle.
func (ur *UartRx) Clock(line bool) (err error) {
	cpb := max(ur.ClocksPerBit, 1)

	if !ur.busy {
		if line {
			return
		}
		ur.busy = true
		ur.index = 0
		ur.wait = cpb / 2
		ur.next = 0
	}

	if ur.wait > 0 {
		ur.wait--
		return
	}

	ur.wait = cpb - 1

	switch {
	case ur.index == 0:
		if line {
			// Glitch, not a start bit.
			ur.busy = false
			return
		}
	case ur.index <= 8:
		if line {
			ur.next |= 1 << (ur.index - 1)
		}
	default:
		ur.busy = false
		if !line {
			err = ErrUartFraming
			return
		}
		if ur.Output != nil {
			_, err = ur.Output.Write([]byte{ur.next})
		}
		return
	}

	ur.index++

	return
}
