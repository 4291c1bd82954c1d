package cpu

import (
	"math/bits"
)

// aluIn2 returns the second ALU operand: rs2 for register and branch
// instructions, the I-type immediate otherwise.
func aluIn2(code Code, rs2 uint32) uint32 {
	switch code.Class() {
	case CLASS_ALU_REG, CLASS_BRANCH:
		return rs2
	}
	return code.ImmI()
}

// aluMinus computes the 33 bit in1 - in2. Bit 32 is the unsigned borrow.
func aluMinus(in1, in2 uint32) uint64 {
	return ((1<<32 | uint64(^in2)) + uint64(in1) + 1) & (1<<33 - 1)
}

// compare returns the eq, lt and ltu flags of in1 against in2.
func compare(in1, in2 uint32) (eq, lt, ltu bool) {
	minus := aluMinus(in1, in2)
	eq = uint32(minus) == 0
	ltu = minus&(1<<32) != 0
	if (in1^in2)&(1<<31) != 0 {
		lt = in1&(1<<31) != 0
	} else {
		lt = ltu
	}
	return
}

// shifter is the single right shifter. Left shifts bit reverse its input
// and output. Arithmetic shifts fill from a 33rd bit.
func shifter(code Code, in1, shamt uint32) (right, left uint32) {
	shift_in := in1
	if code.Funct3() == FUNCT3_SLL {
		shift_in = bits.Reverse32(in1)
	}

	wide := int64(shift_in)
	if (uint32(code)>>30)&1 != 0 && in1&(1<<31) != 0 {
		wide |= -1 << 32
	}

	right = uint32(wide >> (shamt & 0x1f))
	left = bits.Reverse32(right)

	return
}

// aluOut computes the ALU result for an ALU class instruction.
func aluOut(code Code, in1, in2 uint32) (out uint32) {
	_, lt, ltu := compare(in1, in2)
	right, left := shifter(code, in1, in2)

	switch code.Funct3() {
	case FUNCT3_ADD:
		if code.Funct7()&FUNCT7_ALT != 0 && uint32(code)&(1<<5) != 0 {
			out = uint32(aluMinus(in1, in2))
		} else {
			out = in1 + in2
		}
	case FUNCT3_SLL:
		out = left
	case FUNCT3_SLT:
		if lt {
			out = 1
		}
	case FUNCT3_SLTU:
		if ltu {
			out = 1
		}
	case FUNCT3_XOR:
		out = in1 ^ in2
	case FUNCT3_SR:
		out = right
	case FUNCT3_OR:
		out = in1 | in2
	case FUNCT3_AND:
		out = in1 & in2
	}

	return
}

// taken returns the branch predicate selected by funct3.
func taken(code Code, in1, in2 uint32) bool {
	eq, lt, ltu := compare(in1, in2)

	switch code.Funct3() {
	case FUNCT3_BEQ:
		return eq
	case FUNCT3_BNE:
		return !eq
	case FUNCT3_BLT:
		return lt
	case FUNCT3_BGE:
		return !lt
	case FUNCT3_BLTU:
		return ltu
	case FUNCT3_BGEU:
		return !ltu
	}

	return false
}

// pcPlusImm is the shared pc adder: J, U or B immediate by opcode bits 3 and 4.
func pcPlusImm(code Code, pc uint32) uint32 {
	word := uint32(code)
	switch {
	case word&(1<<3) != 0:
		return pc + code.ImmJ()
	case word&(1<<4) != 0:
		return pc + code.ImmU()
	}
	return pc + code.ImmB()
}

// nextPc selects the address of the next instruction.
func nextPc(code Code, pc, rs1, rs2 uint32) uint32 {
	class := code.Class()

	switch {
	case class == CLASS_BRANCH && taken(code, rs1, rs2), class == CLASS_JAL:
		return pcPlusImm(code, pc)
	case class == CLASS_JALR:
		return (rs1 + code.ImmI()) &^ 1
	}

	return pc + 4
}

// writeBack returns the register write-back value and enable for an
// instruction leaving EXECUTE. Loads write back from WAIT_DATA instead.
func writeBack(code Code, pc, rs1, rs2 uint32) (data uint32, enable bool) {
	enable = true

	switch code.Class() {
	case CLASS_JAL, CLASS_JALR:
		data = pc + 4
	case CLASS_LUI:
		data = code.ImmU()
	case CLASS_AUIPC:
		data = pcPlusImm(code, pc)
	case CLASS_ALU_REG, CLASS_ALU_IMM:
		data = aluOut(code, rs1, aluIn2(code, rs2))
	default:
		enable = false
	}

	return
}
