package cpu

import (
	"errors"

	"github.com/ezrec/rvsoc/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrOpcodeUnsupported = errors.New(f("opcode unsupported"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f("equ syntax"))
	ErrEquateDuplicate    = errors.New(f("equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelSyntax        = errors.New(f("label syntax"))
	ErrOperandCount       = errors.New(f("wrong number of operands"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrQuoteUnbalanced    = errors.New(f("unbalanced quotes"))
)

// ErrOpcode identifies the instruction word that failed to execute.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%08x %v", uint32(eo), Code(eo).Class().String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrLabelMissing is returned when a referenced symbol is never defined.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrRegisterUnknown is returned for an unknown register name.
type ErrRegisterUnknown string

func (er ErrRegisterUnknown) Error() string {
	return f("unknown register '%v'", string(er))
}

// ErrSyntax locates an assembly failure in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrParseNumber is returned for a malformed immediate token.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrParseCharacter is returned for a malformed quoted character.
type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

// ErrParseExpression is returned when a $(...) expression does not
// evaluate to an integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrImmediateRange is returned when an immediate does not fit its field.
type ErrImmediateRange struct {
	Value int64
	Min   int64
	Max   int64
}

func (err ErrImmediateRange) Error() string {
	return f("immediate %d outside of [%d, %d]", err.Value, err.Min, err.Max)
}

// ErrImmediateAlign is returned for an odd branch or jump offset.
type ErrImmediateAlign int64

func (err ErrImmediateAlign) Error() string {
	return f("offset %d is not even", int64(err))
}
