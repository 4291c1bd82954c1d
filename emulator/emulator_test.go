package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rvsoc/cpu"
	"github.com/ezrec/rvsoc/io"
)

func testConfig() Config {
	return Config{
		RamSize:  1024,
		ClockHz:  1000,
		BaudRate: 250,
	}
}

func newLoaded(t *testing.T, config Config, program []string) (emu *Emulator) {
	emu, err := NewEmulator(config)
	if err != nil {
		t.Fatal(err)
	}

	asm := emu.Assembler()
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	emu.Program = prog

	err = emu.Reset()
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(DefaultConfig())
	assert.NoError(err)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(6144/4, len(emu.Ram.Data))
	assert.Equal(104, emu.Uart.ClocksPerBit)
	assert.Equal(104, emu.Monitor.ClocksPerBit)

	_, err = NewEmulator(Config{})
	assert.ErrorIs(err, ErrConfigRamSize)
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(testConfig())
	assert.NoError(err)

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}

	assert.Equal("1024", defines["RAM_SIZE"])
	assert.Equal("1000", defines["CLOCK_HZ"])
	assert.Equal("0x400008", defines["IO_UART_DATA"])

	asm := emu.Assembler()
	_, err = asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(int64(1024), asm.Equate["RAM_SIZE"])
	assert.Equal(int64(io.IO_LEDS), asm.Equate["IO_LEDS"])
}

func TestEmulatorLineNo(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"  LI a0, 0x12345678",
		"",
		"  ADDI a0, a0, 1",
		"  EBREAK",
	}

	emu := newLoaded(t, testConfig(), program)

	var lines []int
	for {
		lines = append(lines, emu.LineNo())
		done, err := emu.Tick()
		assert.NoError(err)
		if done {
			break
		}
	}

	// Four clocks per instruction, then two to latch EBREAK.
	expected := []int{
		1, 1, 1, 1,
		1, 1, 1, 1,
		3, 3, 3, 3,
		4, 4,
	}
	assert.Equal(expected, lines)
	assert.Equal(cpu.CODE_EBREAK, emu.Code())
	assert.Equal(uint32(0x12345679), emu.Cpu.Register[10])
	assert.Equal(uint32(12), emu.Pc())
	assert.Equal(14, emu.Ticks())
}

func TestEmulatorHello(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"  JAL s1, start ; s1 = message",
		"  DATAB 'H', 'i', ',', ' '",
		"  DATAB 'R', 'V', '!', '\\n'",
		"  DATAB 0, 0, 0, 0",
		"start:",
		"  LI s0, IO_BASE",
		"loop:",
		"  LBU a0, 0(s1)",
		"  BEQZ a0, done",
		"wait:",
		"  LW t0, $(IO_UART_CNTL - IO_BASE)(s0)",
		"  ANDI t0, t0, UART_BUSY",
		"  BNEZ t0, wait",
		"  SB a0, $(IO_UART_DATA - IO_BASE)(s0)",
		"  ADDI s1, s1, 1",
		"  J loop",
		"done:",
		"  EBREAK",
	}

	emu := newLoaded(t, testConfig(), program)

	var output bytes.Buffer
	emu.Monitor.Output = &output

	err := emu.Run(100_000)
	assert.NoError(err)
	assert.Equal("Hi, RV!\n", output.String())
	assert.True(emu.Halted())
	assert.True(emu.Uart.Ready())

	// Reset and run again.
	output.Reset()
	err = emu.Reset()
	assert.NoError(err)
	err = emu.Run(100_000)
	assert.NoError(err)
	assert.Equal("Hi, RV!\n", output.String())
}

func TestEmulatorLeds(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"  LI s0, IO_LEDS",
		"  LI a0, 1",
		"  LI a1, 0x20",
		"shift:",
		"  SW a0, 0(s0)",
		"  SLLI a0, a0, 1",
		"  BNE a0, a1, shift",
		"  EBREAK",
	}

	emu := newLoaded(t, testConfig(), program)
	emu.Verbose = true

	err := emu.Run(0)
	assert.NoError(err)
	assert.Equal([]uint32{1, 2, 4, 8, 16}, emu.Leds.History)
	assert.Equal("*....", emu.Leds.String())
}

func TestEmulatorErrors(t *testing.T) {
	assert := assert.New(t)

	emu := newLoaded(t, testConfig(), []string{"  NOP", "  DATAW 0x0000000b"})
	err := emu.Run(1000)
	assert.ErrorIs(err, cpu.ErrOpcodeUnsupported)

	var err_runtime *ErrRuntime
	assert.True(errors.As(err, &err_runtime))
	assert.Equal(2, err_runtime.LineNo)
	assert.Equal(uint32(4), err_runtime.Pc)

	emu = newLoaded(t, testConfig(), []string{"loop: J loop"})
	err = emu.Run(100)
	assert.ErrorIs(err, ErrTickLimit)
	assert.Equal(100, emu.Ticks())

	small := testConfig()
	small.RamSize = 8
	emu, err = NewEmulator(small)
	assert.NoError(err)
	emu.Program, err = emu.Assembler().Parse(strings.NewReader("NOP\nNOP\nNOP"))
	assert.NoError(err)
	err = emu.Reset()
	assert.ErrorIs(err, io.ErrRamOverflow)
}
