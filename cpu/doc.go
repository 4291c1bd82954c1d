// Package cpu implements a multi-cycle RV32I core and its assembler.
//
// The CPU is a single state machine stepped once per clock. Each
// instruction is fetched, has its registers read, and is executed over
// at least four clocks; loads and stores take additional clocks to
// drive the memory port. There are 32 registers, with x0 fixed at zero.
//
// The assembler is a two pass assembler for the base integer
// instruction set, with pseudo-instructions (LI, CALL, RET, MV, J, NOP,
// BEQZ, BNEZ, BGT), labels, equates, and compile-time expression
// evaluation.
package cpu
