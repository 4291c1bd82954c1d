package io

// Bus decodes Cpu requests into Ram and the memory mapped registers.
type Bus struct {
	Ram  *Ram
	Leds *Leds
	Uart *UartTx
}

var _ Device = (*Bus)(nil)

// IsIo returns true if the byte address is in I/O space.
func IsIo(addr uint32) bool {
	return addr&IO_BASE != 0
}

// ioSelect returns true if the I/O register word address bit is set.
func ioSelect(addr uint32, bit int) bool {
	return (addr>>2)&(1<<bit) != 0
}

// ReadData returns registered Ram data, or the combinational I/O
// register value. Only the UART control register is readable.
func (bus *Bus) ReadData(addr uint32) (data uint32) {
	if !IsIo(addr) {
		if bus.Ram != nil {
			data = bus.Ram.ReadData(addr)
		}
		return
	}

	if ioSelect(addr, IO_UART_CNTL_BIT) && bus.Uart != nil && !bus.Uart.Ready() {
		data = UART_BUSY
	}

	return
}

// Clock forwards a request to the selected device, and clocks the UART.
func (bus *Bus) Clock(req Request) {
	is_io := IsIo(req.Addr)
	wstrb := req.Write()

	if !is_io && bus.Ram != nil {
		bus.Ram.Clock(req)
	}

	if is_io && wstrb && ioSelect(req.Addr, IO_LEDS_BIT) && bus.Leds != nil {
		bus.Leds.Write(req.WriteData)
	}

	if bus.Uart != nil {
		valid := is_io && wstrb && ioSelect(req.Addr, IO_UART_DATA_BIT)
		bus.Uart.Clock(byte(req.WriteData), valid)
	}
}
