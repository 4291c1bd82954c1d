// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/rvsoc/cpu"
	"github.com/ezrec/rvsoc/internal"
	"github.com/ezrec/rvsoc/io"
)

// Emulator state. CPU + Ram + I/O devices.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
	Config   Config       // Board configuration.

	Ram     *io.Ram   // Program and data store.
	Leds    io.Leds   // LED register.
	Uart    io.UartTx // UART transmitter.
	Monitor io.UartRx // UART line monitor, writes to Monitor.Output.
	Bus     io.Bus    // Memory bus.
}

// NewEmulator creates a new emulator for a board.
func NewEmulator(config Config) (emu *Emulator, err error) {
	err = config.Validate()
	if err != nil {
		return
	}

	emu = &Emulator{
		Program: &cpu.Program{},
		Config:  config,
		Ram:     io.NewRam(config.RamSize),
	}

	emu.Uart.ClocksPerBit = config.ClocksPerBit()
	emu.Monitor.ClocksPerBit = config.ClocksPerBit()

	emu.Bus = io.Bus{
		Ram:  emu.Ram,
		Leds: &emu.Leds,
		Uart: &emu.Uart,
	}

	emu.Cpu = cpu.NewCpu(&emu.Bus)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	board := map[string]string{
		"RAM_SIZE": fmt.Sprintf("%v", emu.Config.RamSize),
		"CLOCK_HZ": fmt.Sprintf("%v", emu.Config.ClockHz),
	}

	return internal.IterSeq2Concat(maps.All(board), io.Defines())
}

// Assembler returns an assembler with the defines predefined.
func (emu *Emulator) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	return
}

// Reset loads the program into Ram, and resets the CPU and devices.
func (emu *Emulator) Reset() (err error) {
	emu.Ram.Reset()
	err = emu.Ram.Load(emu.Program.Binary())
	if err != nil {
		return
	}

	emu.Leds.Reset()
	emu.Uart.Reset()
	emu.Monitor.Reset()
	emu.Cpu.Reset()

	emu.Cpu.Verbose = emu.Verbose

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns current instruction address.
func (emu *Emulator) Pc() uint32 {
	return emu.Cpu.Pc
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	return emu.Cpu.Instr
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator. It is done once EBREAK
// has been reached and the UART has finished transmitting.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	pc := emu.Cpu.Pc
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		}
	}()

	leds := len(emu.Leds.History)

	err = emu.Cpu.Step()
	if err != nil {
		return
	}

	err = emu.Monitor.Clock(emu.Uart.Tx())
	if err != nil {
		return
	}

	if emu.Verbose && len(emu.Leds.History) != leds {
		log.Printf("leds: %v", &emu.Leds)
	}

	done = emu.Cpu.Halted() && emu.Uart.Ready()

	return
}

// Run ticks until done. A positive limit bounds the total ticks since reset.
func (emu *Emulator) Run(limit int) (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
		if limit > 0 && emu.Ticks() >= limit {
			err = ErrTickLimit
			return
		}
	}
}
