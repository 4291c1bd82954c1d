package cpu

import (
	"errors"
	"fmt"
	"log"

	"github.com/ezrec/rvsoc/io"
)

// Memory is the memory port driven by the CPU.
type Memory io.Device

// State is the control state machine state.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_FETCH_INSTR = State(0) // fetch_instr
	STATE_WAIT_INSTR  = State(1) // wait_instr
	STATE_FETCH_REGS  = State(2) // fetch_regs
	STATE_EXECUTE     = State(3) // execute
	STATE_LOAD        = State(4) // load
	STATE_WAIT_DATA   = State(5) // wait_data
	STATE_STORE       = State(6) // store
)

// Cpu is the simulation context of a multi-cycle RV32I core.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory Memory // Memory port.

	Pc       uint32     // Address of the current instruction.
	Instr    Code       // Latched instruction.
	Rs1      uint32     // Latched rs1 value.
	Rs2      uint32     // Latched rs2 value.
	State    State      // Control state.
	Register [32]uint32 // Register file. Register 0 is always zero.

	Ticks int // CPU ticks counter.
}

// NewCpu creates a new CPU attached to a memory port.
func NewCpu(memory Memory) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: memory,
	}
	cpu.Reset()

	return
}

// Reset the CPU state.
// - Clears the registers.
// - Zeros the tick counter.
// - Sets pc to zero, and starts at instruction fetch.
func (cpu *Cpu) Reset() {
	cpu.Pc = 0
	cpu.Instr = CODE_RESET
	cpu.Rs1 = 0
	cpu.Rs2 = 0
	cpu.State = STATE_FETCH_INSTR
	clear(cpu.Register[:])
	cpu.Ticks = 0
}

// Registers returns a snapshot of the register file.
func (cpu *Cpu) Registers() (regs [32]uint32) {
	return cpu.Register
}

// GetRegister returns a register value, by number or ABI name.
func (cpu *Cpu) GetRegister(name string) (value uint32, err error) {
	reg, err := Register(name)
	if err != nil {
		return
	}

	value = cpu.Register[reg]

	return
}

// Halted returns true once EBREAK has been latched. The CPU keeps
// cycling, but pc no longer advances.
func (cpu *Cpu) Halted() bool {
	return cpu.Instr == CODE_EBREAK
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %08x\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %v\n", "state", cpu.State)
	text += fmt.Sprintf("% 5s: %v\n", "instr", cpu.Instr)
	for n, name := range abiNames {
		val := cpu.Register[n]
		text += fmt.Sprintf("% 5s: %04X_%04X\n", name, val>>16, val&0xffff)
	}

	return
}

// memAddr is the address driven onto the memory port.
func (cpu *Cpu) memAddr() uint32 {
	switch cpu.State {
	case STATE_FETCH_INSTR, STATE_WAIT_INSTR:
		return cpu.Pc
	}
	return loadStoreAddr(cpu.Instr, cpu.Rs1)
}

// supported returns true if the instruction has defined behaviour.
func supported(code Code) bool {
	switch code.Class() {
	case CLASS_UNSUPPORTED:
		return false
	case CLASS_SYSTEM:
		return code == CODE_EBREAK || code == CODE_ECALL || code == CODE_FENCE_I
	}
	return true
}

// setRegister writes back a register, discarding writes to register 0.
func (cpu *Cpu) setRegister(rd uint32, value uint32) {
	if rd == 0 {
		return
	}
	if cpu.Verbose {
		log.Printf("  %v <= 0x%08x", abiNames[rd], value)
	}
	cpu.Register[rd] = value
}

// Step advances the CPU by one clock.
//
// The read data of the memory port is sampled first, then the state
// transition is computed, and finally the request for this clock is
// applied to the memory port.
func (cpu *Cpu) Step() (err error) {
	code := cpu.Instr
	addr := cpu.memAddr()

	var rdata uint32
	if cpu.Memory != nil {
		rdata = cpu.Memory.ReadData(addr)
	}

	req := io.Request{Addr: addr}
	next_state := cpu.State

	switch cpu.State {
	case STATE_FETCH_INSTR:
		req.Read = true
		next_state = STATE_WAIT_INSTR
	case STATE_WAIT_INSTR:
		cpu.Instr = Code(rdata)
		next_state = STATE_FETCH_REGS
	case STATE_FETCH_REGS:
		cpu.Rs1 = cpu.Register[code.Rs1()]
		cpu.Rs2 = cpu.Register[code.Rs2()]
		next_state = STATE_EXECUTE
	case STATE_EXECUTE:
		if cpu.Verbose {
			log.Printf("%03x: %v", cpu.Pc, code)
		}
		class := code.Class()
		if !supported(code) {
			err = errors.Join(ErrOpcode(code), ErrOpcodeUnsupported)
		}
		data, enable := writeBack(code, cpu.Pc, cpu.Rs1, cpu.Rs2)
		if enable {
			cpu.setRegister(code.Rd(), data)
		}
		if class != CLASS_SYSTEM {
			cpu.Pc = nextPc(code, cpu.Pc, cpu.Rs1, cpu.Rs2)
		}
		switch class {
		case CLASS_LOAD:
			next_state = STATE_LOAD
		case CLASS_STORE:
			next_state = STATE_STORE
		default:
			next_state = STATE_FETCH_INSTR
		}
	case STATE_LOAD:
		req.Read = true
		next_state = STATE_WAIT_DATA
	case STATE_WAIT_DATA:
		cpu.setRegister(code.Rd(), loadData(code, addr, rdata))
		next_state = STATE_FETCH_INSTR
	case STATE_STORE:
		req.WriteData, req.WriteMask = storeData(code, addr, cpu.Rs2)
		if cpu.Verbose {
			log.Printf("  [%08x] <= 0x%08x/%04b", addr, req.WriteData, req.WriteMask)
		}
		next_state = STATE_FETCH_INSTR
	}

	if cpu.Memory != nil {
		cpu.Memory.Clock(req)
	}

	cpu.State = next_state
	cpu.Ticks++

	return
}
