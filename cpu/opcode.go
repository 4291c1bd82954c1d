package cpu

import (
	"fmt"
)

// Major opcodes, bits [6:0] of an instruction word.
const (
	OPCODE_ALU_REG = uint32(0b0110011)
	OPCODE_ALU_IMM = uint32(0b0010011)
	OPCODE_BRANCH  = uint32(0b1100011)
	OPCODE_JALR    = uint32(0b1100111)
	OPCODE_JAL     = uint32(0b1101111)
	OPCODE_AUIPC   = uint32(0b0010111)
	OPCODE_LUI     = uint32(0b0110111)
	OPCODE_LOAD    = uint32(0b0000011)
	OPCODE_STORE   = uint32(0b0100011)
	OPCODE_SYSTEM  = uint32(0b1110011)
)

// ALU funct3 values.
const (
	FUNCT3_ADD  = uint32(0b000) // ADD, SUB, ADDI
	FUNCT3_SLL  = uint32(0b001)
	FUNCT3_SLT  = uint32(0b010)
	FUNCT3_SLTU = uint32(0b011)
	FUNCT3_XOR  = uint32(0b100)
	FUNCT3_SR   = uint32(0b101) // SRL, SRA
	FUNCT3_OR   = uint32(0b110)
	FUNCT3_AND  = uint32(0b111)
)

// Branch funct3 values.
const (
	FUNCT3_BEQ  = uint32(0b000)
	FUNCT3_BNE  = uint32(0b001)
	FUNCT3_BLT  = uint32(0b100)
	FUNCT3_BGE  = uint32(0b101)
	FUNCT3_BLTU = uint32(0b110)
	FUNCT3_BGEU = uint32(0b111)
)

// Load and store width funct3 values. Bit 2 selects zero extension.
const (
	FUNCT3_BYTE     = uint32(0b000)
	FUNCT3_HALF     = uint32(0b001)
	FUNCT3_WORD     = uint32(0b010)
	FUNCT3_BYTE_U   = uint32(0b100)
	FUNCT3_HALF_U   = uint32(0b101)
	FUNCT3_UNSIGNED = uint32(0b100)
)

// FUNCT7_ALT selects SUB and SRA/SRAI.
const FUNCT7_ALT = uint32(0b0100000)

// Fixed system instruction words.
const (
	CODE_FENCE   = Code(0x0000_0073)
	CODE_FENCE_I = Code(0x0000_1073)
	CODE_ECALL   = Code(0x0000_0073)
	CODE_EBREAK  = Code(0x0010_0073)

	// CODE_RESET is the instruction latched at reset: ADD x0, x0, x0.
	CODE_RESET = Code(OPCODE_ALU_REG)
)

// CodeClass is the decoded class of an instruction's major opcode.
type CodeClass int

//go:generate go tool stringer -linecomment -type=CodeClass
const (
	CLASS_UNSUPPORTED = CodeClass(0)  // unsupported
	CLASS_ALU_REG     = CodeClass(1)  // alu_reg
	CLASS_ALU_IMM     = CodeClass(2)  // alu_imm
	CLASS_BRANCH      = CodeClass(3)  // branch
	CLASS_JALR        = CodeClass(4)  // jalr
	CLASS_JAL         = CodeClass(5)  // jal
	CLASS_AUIPC       = CodeClass(6)  // auipc
	CLASS_LUI         = CodeClass(7)  // lui
	CLASS_LOAD        = CodeClass(8)  // load
	CLASS_STORE       = CodeClass(9)  // store
	CLASS_SYSTEM      = CodeClass(10) // system
)

// Code is a single 32-bit RV32I instruction word.
type Code uint32

// signExtend sign-extends the low 'bits' bits of value.
func signExtend(value uint32, bits int) uint32 {
	shift := 32 - bits
	return uint32(int32(value<<shift) >> shift)
}

// MakeCodeR creates an R-type instruction.
func MakeCodeR(opcode, funct3, funct7, rd, rs1, rs2 uint32) Code {
	return Code(((funct7 & 0x7f) << 25) | ((rs2 & 0x1f) << 20) | ((rs1 & 0x1f) << 15) |
		((funct3 & 0x7) << 12) | ((rd & 0x1f) << 7) | (opcode & 0x7f))
}

// MakeCodeI creates an I-type instruction. Only the low 12 bits of imm are encoded.
func MakeCodeI(opcode, funct3, rd, rs1 uint32, imm int32) Code {
	return Code(((uint32(imm) & 0xfff) << 20) | ((rs1 & 0x1f) << 15) |
		((funct3 & 0x7) << 12) | ((rd & 0x1f) << 7) | (opcode & 0x7f))
}

// MakeCodeS creates an S-type instruction.
func MakeCodeS(opcode, funct3, rs1, rs2 uint32, imm int32) Code {
	u := uint32(imm)
	return Code((((u >> 5) & 0x7f) << 25) | ((rs2 & 0x1f) << 20) | ((rs1 & 0x1f) << 15) |
		((funct3 & 0x7) << 12) | ((u & 0x1f) << 7) | (opcode & 0x7f))
}

// MakeCodeB creates a branch instruction. Bit 0 of imm is dropped.
func MakeCodeB(funct3, rs1, rs2 uint32, imm int32) Code {
	u := uint32(imm)
	return Code((((u >> 12) & 1) << 31) | (((u >> 5) & 0x3f) << 25) |
		((rs2 & 0x1f) << 20) | ((rs1 & 0x1f) << 15) | ((funct3 & 0x7) << 12) |
		(((u >> 1) & 0xf) << 8) | (((u >> 11) & 1) << 7) | OPCODE_BRANCH)
}

// MakeCodeU creates a U-type instruction from the upper 20 bits of imm.
func MakeCodeU(opcode, rd uint32, imm uint32) Code {
	return Code((imm & 0xffff_f000) | ((rd & 0x1f) << 7) | (opcode & 0x7f))
}

// MakeCodeJ creates a JAL instruction. Bit 0 of imm is dropped.
func MakeCodeJ(rd uint32, imm int32) Code {
	u := uint32(imm)
	return Code((((u >> 20) & 1) << 31) | (((u >> 1) & 0x3ff) << 21) |
		(((u >> 11) & 1) << 20) | (((u >> 12) & 0xff) << 12) |
		((rd & 0x1f) << 7) | OPCODE_JAL)
}

// Opcode returns the major opcode, bits [6:0].
func (code Code) Opcode() uint32 {
	return uint32(code) & 0x7f
}

// Rd returns the destination register id, bits [11:7].
func (code Code) Rd() uint32 {
	return (uint32(code) >> 7) & 0x1f
}

// Rs1 returns the first source register id, bits [19:15].
func (code Code) Rs1() uint32 {
	return (uint32(code) >> 15) & 0x1f
}

// Rs2 returns the second source register id, bits [24:20].
func (code Code) Rs2() uint32 {
	return (uint32(code) >> 20) & 0x1f
}

// Funct3 returns bits [14:12].
func (code Code) Funct3() uint32 {
	return (uint32(code) >> 12) & 0x7
}

// Funct7 returns bits [31:25].
func (code Code) Funct7() uint32 {
	return (uint32(code) >> 25) & 0x7f
}

// ImmI returns the sign-extended I-type immediate.
func (code Code) ImmI() uint32 {
	return signExtend(uint32(code)>>20, 12)
}

// ImmS returns the sign-extended S-type immediate.
func (code Code) ImmS() uint32 {
	word := uint32(code)
	return signExtend(((word>>25)<<5)|((word>>7)&0x1f), 12)
}

// ImmB returns the sign-extended B-type immediate.
func (code Code) ImmB() uint32 {
	word := uint32(code)
	imm := ((word >> 31) << 12) | (((word >> 7) & 1) << 11) |
		(((word >> 25) & 0x3f) << 5) | (((word >> 8) & 0xf) << 1)
	return signExtend(imm, 13)
}

// ImmU returns the U-type immediate, low 12 bits zero.
func (code Code) ImmU() uint32 {
	return uint32(code) & 0xffff_f000
}

// ImmJ returns the sign-extended J-type immediate.
func (code Code) ImmJ() uint32 {
	word := uint32(code)
	imm := ((word >> 31) << 20) | (((word >> 12) & 0xff) << 12) |
		(((word >> 20) & 1) << 11) | (((word >> 21) & 0x3ff) << 1)
	return signExtend(imm, 21)
}

// Class returns the class of the instruction's major opcode.
func (code Code) Class() CodeClass {
	switch code.Opcode() {
	case OPCODE_ALU_REG:
		return CLASS_ALU_REG
	case OPCODE_ALU_IMM:
		return CLASS_ALU_IMM
	case OPCODE_BRANCH:
		return CLASS_BRANCH
	case OPCODE_JALR:
		return CLASS_JALR
	case OPCODE_JAL:
		return CLASS_JAL
	case OPCODE_AUIPC:
		return CLASS_AUIPC
	case OPCODE_LUI:
		return CLASS_LUI
	case OPCODE_LOAD:
		return CLASS_LOAD
	case OPCODE_STORE:
		return CLASS_STORE
	case OPCODE_SYSTEM:
		return CLASS_SYSTEM
	}

	return CLASS_UNSUPPORTED
}

// mnemonicOf finds the mnemonic in a table of encodings.
func mnemonicOf[T comparable](table map[string]T, want T) (name string, ok bool) {
	for name, enc := range table {
		if enc == want {
			return name, true
		}
	}
	return
}

// String returns the assembly language representation of this instruction.
// Words that do not decode to a known instruction are shown as DATAW.
func (code Code) String() (out string) {
	out = fmt.Sprintf("DATAW 0x%08x", uint32(code))

	rd, rs1, rs2 := code.Rd(), code.Rs1(), code.Rs2()
	funct3, funct7 := code.Funct3(), code.Funct7()

	switch code.Class() {
	case CLASS_ALU_REG:
		name, ok := mnemonicOf(rMap, rEncoding{funct3, funct7})
		if ok {
			out = fmt.Sprintf("%v x%d, x%d, x%d", name, rd, rs1, rs2)
		}
	case CLASS_ALU_IMM:
		if funct3 == FUNCT3_SLL || funct3 == FUNCT3_SR {
			name, ok := mnemonicOf(shiftMap, rEncoding{funct3, funct7})
			if ok {
				out = fmt.Sprintf("%v x%d, x%d, %d", name, rd, rs1, rs2)
			}
			break
		}
		name, _ := mnemonicOf(iMap, funct3)
		out = fmt.Sprintf("%v x%d, x%d, %d", name, rd, rs1, int32(code.ImmI()))
	case CLASS_BRANCH:
		name, ok := mnemonicOf(bMap, funct3)
		if ok {
			out = fmt.Sprintf("%v x%d, x%d, %d", name, rs1, rs2, int32(code.ImmB()))
		}
	case CLASS_JALR:
		if funct3 == 0 {
			out = fmt.Sprintf("JALR x%d, x%d, %d", rd, rs1, int32(code.ImmI()))
		}
	case CLASS_JAL:
		out = fmt.Sprintf("JAL x%d, %d", rd, int32(code.ImmJ()))
	case CLASS_AUIPC:
		out = fmt.Sprintf("AUIPC x%d, %#x", rd, code.ImmU())
	case CLASS_LUI:
		out = fmt.Sprintf("LUI x%d, %#x", rd, code.ImmU())
	case CLASS_LOAD:
		name, ok := mnemonicOf(loadMap, funct3)
		if ok {
			out = fmt.Sprintf("%v x%d, x%d, %d", name, rd, rs1, int32(code.ImmI()))
		}
	case CLASS_STORE:
		name, ok := mnemonicOf(storeMap, funct3)
		if ok {
			out = fmt.Sprintf("%v x%d, x%d, %d", name, rs2, rs1, int32(code.ImmS()))
		}
	case CLASS_SYSTEM:
		switch code {
		case CODE_EBREAK:
			out = "EBREAK"
		case CODE_ECALL:
			out = "ECALL"
		case CODE_FENCE_I:
			out = "FENCE_I"
		}
	}

	return
}
