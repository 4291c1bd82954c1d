// Package io provides the bus-side devices of the RV32I system on chip.
//
// The Cpu drives a single memory port. Each clock it asserts a Request
// (address, read strobe, write data and byte write mask) which the Bus
// decodes into either the Ram or the memory mapped I/O registers: the
// Leds output register and the UartTx data and control registers.
package io

import (
	"fmt"
	"iter"
	"maps"
)

// Memory map. Bit 22 of the byte address selects I/O space, and within
// I/O space each register is selected by one bit of the word address.
const (
	IO_BASE = uint32(1 << 22) // I/O space select.

	IO_LEDS_BIT      = 0 // Word address bit of the LED register.
	IO_UART_DATA_BIT = 1 // Word address bit of the UART data register.
	IO_UART_CNTL_BIT = 2 // Word address bit of the UART control register.

	IO_LEDS      = IO_BASE | (4 << IO_LEDS_BIT)
	IO_UART_DATA = IO_BASE | (4 << IO_UART_DATA_BIT)
	IO_UART_CNTL = IO_BASE | (4 << IO_UART_CNTL_BIT)

	UART_BUSY = uint32(1 << 9) // UART control bit, set while not ready.

	LEDS_MASK = uint32(0b11111) // LED register width.
)

var _io_defines = map[string]string{
	"IO_BASE":      fmt.Sprintf("0x%x", IO_BASE),
	"IO_LEDS":      fmt.Sprintf("0x%x", IO_LEDS),
	"IO_UART_DATA": fmt.Sprintf("0x%x", IO_UART_DATA),
	"IO_UART_CNTL": fmt.Sprintf("0x%x", IO_UART_CNTL),
	"UART_BUSY":    fmt.Sprintf("0x%x", UART_BUSY),
}

// Defines returns the memory map as assembler equates.
func Defines() iter.Seq2[string, string] {
	return maps.All(_io_defines)
}

// Request is the memory request asserted for one clock.
type Request struct {
	Addr      uint32 // Byte address.
	Read      bool   // Read strobe.
	WriteData uint32 // Data to write, in byte lanes.
	WriteMask uint32 // Byte write enables, bit n enables byte lane n.
}

// Write returns true if any byte lane is written.
func (req Request) Write() bool {
	return req.WriteMask&0xf != 0
}

// Device is a clocked memory port.
type Device interface {
	// ReadData returns the read data visible this clock for addr.
	ReadData(addr uint32) uint32
	// Clock applies the request at the clock edge.
	Clock(req Request)
}
