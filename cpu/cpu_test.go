package cpu

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rvsoc/io"
)

// newSystem assembles a program into a Ram attached to a Bus.
func newSystem(t *testing.T, program ...string) (cpu *Cpu, bus *io.Bus) {
	asm := &Assembler{}
	for key, value := range io.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	ram := io.NewRam(4096)
	err = ram.Load(prog.Binary())
	if err != nil {
		t.Fatal(err)
	}

	bus = &io.Bus{
		Ram:  ram,
		Leds: &io.Leds{},
		Uart: &io.UartTx{ClocksPerBit: 4},
	}

	cpu = NewCpu(bus)

	return
}

// runUntilHalted steps until EBREAK is latched.
func runUntilHalted(t *testing.T, cpu *Cpu, limit int) {
	for !cpu.Halted() {
		if cpu.Ticks >= limit {
			t.Fatalf("not halted after %d ticks\n%v", limit, cpu)
		}
		err := cpu.Step()
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestCpuReset(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	assert.Equal(uint32(0), cpu.Pc)
	assert.Equal(STATE_FETCH_INSTR, cpu.State)
	assert.Equal(CODE_RESET, cpu.Instr)
	assert.False(cpu.Halted())

	cpu.Register[5] = 1
	cpu.Pc = 0x40
	cpu.Ticks = 10
	cpu.Reset()
	assert.Equal([32]uint32{}, cpu.Registers())
	assert.Equal(uint32(0), cpu.Pc)
	assert.Equal(0, cpu.Ticks)
}

func TestCpuStates(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newSystem(t,
		"  ADDI x1, x0, 7",
		"  SW x1, x0, 0x100",
		"  LW x2, x0, 0x100",
		"  EBREAK",
	)

	expected := []State{
		// ADDI
		STATE_WAIT_INSTR, STATE_FETCH_REGS, STATE_EXECUTE, STATE_FETCH_INSTR,
		// SW
		STATE_WAIT_INSTR, STATE_FETCH_REGS, STATE_EXECUTE, STATE_STORE, STATE_FETCH_INSTR,
		// LW
		STATE_WAIT_INSTR, STATE_FETCH_REGS, STATE_EXECUTE, STATE_LOAD, STATE_WAIT_DATA, STATE_FETCH_INSTR,
		// EBREAK
		STATE_WAIT_INSTR, STATE_FETCH_REGS, STATE_EXECUTE, STATE_FETCH_INSTR,
	}

	var states []State
	for range expected {
		err := cpu.Step()
		assert.NoError(err)
		states = append(states, cpu.State)
	}
	assert.Equal(expected, states)

	assert.Equal(uint32(7), cpu.Register[1])
	assert.Equal(uint32(7), cpu.Register[2])
	assert.Equal(uint32(12), cpu.Pc)
	assert.True(cpu.Halted())
	assert.Equal("execute", STATE_EXECUTE.String())
}

func TestCpuCount(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newSystem(t,
		"  ADD x1, x0, x0",
		"  ADDI x1, x1, 1",
		"  ADDI x1, x1, 1",
		"  ADDI x1, x1, 1",
		"  ADDI x1, x1, 1",
		"  EBREAK",
	)

	runUntilHalted(t, cpu, 1000)

	assert.Equal(uint32(4), cpu.Register[1])
	assert.Equal(5*4+2, cpu.Ticks)
	assert.Equal(uint32(20), cpu.Pc)
}

func TestCpuLoop(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newSystem(t,
		"  LI a6, 16",
		"  LI a0, 0",
		"loop:",
		"  ADDI a0, a0, 1",
		"  BNE a0, a6, loop",
		"  EBREAK",
	)

	runUntilHalted(t, cpu, 10000)

	a0, err := cpu.GetRegister("a0")
	assert.NoError(err)
	assert.Equal(uint32(16), a0)

	// Two setup instructions, sixteen iterations of two instructions.
	assert.Equal((2+16*2)*4+2, cpu.Ticks)

	// EBREAK holds the pc.
	for range 20 {
		assert.NoError(cpu.Step())
	}
	assert.Equal(uint32(16), cpu.Pc)
	assert.True(cpu.Halted())
}

func TestCpuLi(t *testing.T) {
	assert := assert.New(t)

	values := []uint32{0, 100, 0x800, 0xfffff800, 0x12345678, 0x12345800, 0x80000000, 0xffffffff}

	var program []string
	for n, value := range values {
		program = append(program, fmt.Sprintf("  LI %v, %#x", abiNames[10+n], value))
	}
	program = append(program, "  EBREAK")

	cpu, _ := newSystem(t, program...)
	runUntilHalted(t, cpu, 1000)

	for n, value := range values {
		assert.Equal(value, cpu.Register[10+n], abiNames[10+n])
	}
}

func TestCpuLoadStore(t *testing.T) {
	assert := assert.New(t)

	cpu, bus := newSystem(t,
		"  LI sp, 0x100",
		"  LI t0, 0x11223344",
		"  SW t0, 0(sp)",
		"  LI t1, 0xAB",
		"  SB t1, 1(sp)",
		"  LW a0, 0(sp)",
		"  LBU a1, 1(sp)",
		"  LB a2, 1(sp)",
		"  LH a3, 2(sp)",
		"  SH t1, 2(sp)",
		"  LW a4, 0(sp)",
		"  LHU a5, 2(sp)",
		"  LH a6, -254(sp)",
		"  EBREAK",
	)

	runUntilHalted(t, cpu, 1000)

	assert.Equal(uint32(0x1122AB44), cpu.Register[10])
	assert.Equal(uint32(0xAB), cpu.Register[11])
	assert.Equal(uint32(0xFFFFFFAB), cpu.Register[12])
	assert.Equal(uint32(0x1122), cpu.Register[13])
	assert.Equal(uint32(0x00ABAB44), cpu.Register[14])
	assert.Equal(uint32(0x00AB), cpu.Register[15])
	assert.Equal(uint32(0x00ABAB44), bus.Ram.Peek(0x100))
	// LH from 0x2, the upper half of the first instruction.
	assert.Equal(signExtend(bus.Ram.Peek(0)>>16, 16), cpu.Register[16])
}

func TestCpuCall(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newSystem(t,
		"  LI sp, 0x400",
		"  CALL func",
		"  ADDI a1, a0, 1",
		"  EBREAK",
		"func:",
		"  ADDI sp, sp, -4",
		"  SW ra, 0(sp)",
		"  LI a0, 42",
		"  LW ra, 0(sp)",
		"  ADDI sp, sp, 4",
		"  RET",
	)

	runUntilHalted(t, cpu, 1000)

	assert.Equal(uint32(42), cpu.Register[10])
	assert.Equal(uint32(43), cpu.Register[11])
	assert.Equal(uint32(12), cpu.Register[1])
	assert.Equal(uint32(0x400), cpu.Register[2])
}

func TestCpuJumps(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newSystem(t,
		"  LI t0, 12",
		"  JALR ra, t0, 1", // bit 0 is cleared
		"  LI a0, 1",
		"target:",
		"  AUIPC a1, 0",
		"  LUI a2, 0xabcde000",
		"  J done",
		"  LI a0, 2",
		"done:",
		"  EBREAK",
	)

	runUntilHalted(t, cpu, 1000)

	assert.Equal(uint32(0), cpu.Register[10])
	assert.Equal(uint32(8), cpu.Register[1])
	assert.Equal(uint32(12), cpu.Register[11])
	assert.Equal(uint32(0xabcde000), cpu.Register[12])
}

func TestCpuZeroRegister(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newSystem(t,
		"  ADDI x0, x0, 5",
		"  LUI zero, 0x1000",
		"  JAL x0, 4",
		"  ADD a0, x0, x0",
		"  EBREAK",
	)

	runUntilHalted(t, cpu, 1000)

	assert.Equal(uint32(0), cpu.Register[0])
	assert.Equal(uint32(0), cpu.Register[10])
}

func TestCpuIo(t *testing.T) {
	assert := assert.New(t)

	cpu, bus := newSystem(t,
		"  LI s0, IO_BASE",
		"  LI t0, 0x3f",
		"  SW t0, 4(s0)", // LEDs
		"  LI t0, 'H'",
		"  SB t0, 8(s0)", // UART data
		"  LW a0, 16(s0)", // UART control, busy
		"wait:",
		"  LW a1, 16(s0)",
		"  ANDI a1, a1, UART_BUSY",
		"  BNEZ a1, wait",
		"  EBREAK",
	)

	runUntilHalted(t, cpu, 10000)

	assert.Equal(uint32(0x1f), bus.Leds.Value())
	assert.Equal([]uint32{0x1f}, bus.Leds.History)
	assert.Equal(io.UART_BUSY, cpu.Register[10])
	assert.Equal(uint32(0), cpu.Register[11])
	assert.True(bus.Uart.Ready())
	assert.Less(10*4, cpu.Ticks)
}

func TestCpuUnsupported(t *testing.T) {
	table := [](struct {
		line string
		pc   uint32
	}){
		{"DATAW 0x0000000b", 4},
		{"DATAW 0x30002573", 0},
	}

	for _, entry := range table {
		t.Run(entry.line, func(t *testing.T) {
			assert := assert.New(t)

			cpu, _ := newSystem(t, entry.line)
			cpu.Register[10] = 0x55

			var err error
			for err == nil && cpu.Ticks < 10 {
				err = cpu.Step()
			}

			assert.ErrorIs(err, ErrOpcodeUnsupported)
			assert.True(errors.Is(err, ErrOpcode(0)))
			assert.Equal(4, cpu.Ticks)
			assert.Equal(entry.pc, cpu.Pc)
			assert.Equal(uint32(0x55), cpu.Register[10])
		})
	}
}

func TestCpuString(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	cpu.Register[2] = 0x12345678

	text := cpu.String()
	assert.Contains(text, "   pc: 00000000\n")
	assert.Contains(text, "state: fetch_instr\n")
	assert.Contains(text, "   sp: 1234_5678\n")
}
