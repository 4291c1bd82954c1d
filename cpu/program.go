package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Opcode is a single assembled source line.
type Opcode struct {
	LineNo       int           // Source line number.
	Pc           uint32        // Byte address of the first instruction.
	Line         string        // Source text.
	Pseudo       string        // Pseudo-instruction mnemonic, if expanded.
	Instructions []Instruction // Instructions before encoding.
	Codes        []Code        // Encoded instruction words.
}

// Program is an assembled program, loaded at address zero.
type Program struct {
	Opcodes []Opcode
	Labels  map[string]uint32 // Upper-case label names to byte addresses.
	Pseudos map[uint32]string // Pseudo-instruction mnemonic by expansion address.
}

// Debug locates the source of an instruction address.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the source opcode for the instruction at byte address pc.
func (prog *Program) Debug(pc uint32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if pc >= op.Pc && pc < op.Pc+4*uint32(len(op.Codes)) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(pc-op.Pc) / 4,
			}
			break
		}
	}

	return
}

// Binary returns the program image as little-endian instruction words.
func (prog *Program) Binary() (bins []uint32) {
	for _, code := range prog.Codes() {
		bins = append(bins, uint32(code))
	}

	return
}

// Codes iterates over all instruction words, by byte address.
func (prog *Program) Codes() iter.Seq2[uint32, Code] {
	return func(yield func(pc uint32, code Code) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Pc+4*uint32(n), code) {
					return
				}
			}
		}
	}
}

// WriteHex writes the program image, one hex word per line, suitable
// for $readmemh.
func (prog *Program) WriteHex(w io.Writer) (err error) {
	for _, code := range prog.Codes() {
		_, err = fmt.Fprintf(w, "%08x\n", uint32(code))
		if err != nil {
			return
		}
	}
	return
}

// ReadHex reads a program image written by WriteHex. Blank lines and
// '//' comments are ignored.
func ReadHex(r io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(r)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{
		Labels:  map[string]uint32{},
		Pseudos: map[uint32]string{},
	}

	pc := uint32(0)
	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		text, _, _ := strings.Cut(line, "//")
		for _, word := range strings.Fields(text) {
			var value uint64
			value, err = strconv.ParseUint(word, 16, 32)
			if err != nil {
				err = ErrParseNumber(word)
				prog = nil
				return
			}
			code := Code(value)
			prog.Opcodes = append(prog.Opcodes, Opcode{
				LineNo: lineno,
				Pc:     pc,
				Line:   code.String(),
				Codes:  []Code{code},
			})
			pc += 4
		}
	}

	err = scanner.Err()
	if err != nil {
		prog = nil
	}

	return
}
