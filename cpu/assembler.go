// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Instruction is a single machine instruction, or data word, before encoding.
type Instruction struct {
	Mnemonic string   // Upper-case mnemonic.
	Operands []string // Operand tokens, in source order.
	Link     LinkKind // Label relocation applied to the last operand.
	LinkBase uint32   // Address the relocation is relative to.
}

// LinkKind selects how a pseudo-instruction's label operand is split
// across the instructions it expands to.
type LinkKind int

const (
	LINK_NONE = LinkKind(0) // Operand is resolved relative to its own pc.
	LINK_HI20 = LinkKind(1) // Upper 20 bits of (label - LinkBase), rounded.
	LINK_LO12 = LinkKind(2) // Low 12 bits of (label - LinkBase).
)

func (inst Instruction) String() string {
	if len(inst.Operands) == 0 {
		return inst.Mnemonic
	}
	return fmt.Sprintf("%v %v", inst.Mnemonic, strings.Join(inst.Operands, ", "))
}

// rEncoding is a funct3/funct7 pair.
type rEncoding struct {
	funct3 uint32
	funct7 uint32
}

// rMap maps register-register ALU mnemonics.
var rMap = map[string]rEncoding{
	"ADD":  {FUNCT3_ADD, 0},
	"SUB":  {FUNCT3_ADD, FUNCT7_ALT},
	"SLL":  {FUNCT3_SLL, 0},
	"SLT":  {FUNCT3_SLT, 0},
	"SLTU": {FUNCT3_SLTU, 0},
	"XOR":  {FUNCT3_XOR, 0},
	"SRL":  {FUNCT3_SR, 0},
	"SRA":  {FUNCT3_SR, FUNCT7_ALT},
	"OR":   {FUNCT3_OR, 0},
	"AND":  {FUNCT3_AND, 0},
}

// iMap maps register-immediate ALU mnemonics.
var iMap = map[string]uint32{
	"ADDI":  FUNCT3_ADD,
	"SLTI":  FUNCT3_SLT,
	"SLTIU": FUNCT3_SLTU,
	"XORI":  FUNCT3_XOR,
	"ORI":   FUNCT3_OR,
	"ANDI":  FUNCT3_AND,
}

// shiftMap maps shift-by-immediate mnemonics.
var shiftMap = map[string]rEncoding{
	"SLLI": {FUNCT3_SLL, 0},
	"SRLI": {FUNCT3_SR, 0},
	"SRAI": {FUNCT3_SR, FUNCT7_ALT},
}

// bMap maps conditional branch mnemonics.
var bMap = map[string]uint32{
	"BEQ":  FUNCT3_BEQ,
	"BNE":  FUNCT3_BNE,
	"BLT":  FUNCT3_BLT,
	"BGE":  FUNCT3_BGE,
	"BLTU": FUNCT3_BLTU,
	"BGEU": FUNCT3_BGEU,
}

// loadMap maps load mnemonics.
var loadMap = map[string]uint32{
	"LB":  FUNCT3_BYTE,
	"LH":  FUNCT3_HALF,
	"LW":  FUNCT3_WORD,
	"LBU": FUNCT3_BYTE_U,
	"LHU": FUNCT3_HALF_U,
}

// storeMap maps store mnemonics.
var storeMap = map[string]uint32{
	"SB": FUNCT3_BYTE,
	"SH": FUNCT3_HALF,
	"SW": FUNCT3_WORD,
}

// uMap maps upper-immediate mnemonics.
var uMap = map[string]uint32{
	"LUI":   OPCODE_LUI,
	"AUIPC": OPCODE_AUIPC,
}

// sysMap maps system mnemonics to their fixed encodings.
var sysMap = map[string]Code{
	"FENCE":   CODE_FENCE,
	"FENCE_I": CODE_FENCE_I,
	"ECALL":   CODE_ECALL,
	"EBREAK":  CODE_EBREAK,
}

// pseudoOps are expanded by the assembler before encoding.
var pseudoOps = []string{"NOP", "LI", "CALL", "RET", "MV", "J", "BEQZ", "BNEZ", "BGT"}

// abiNames are the ABI register names, by register number.
var abiNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// registerMap maps register names to register numbers.
var registerMap map[string]uint32

func init() {
	registerMap = map[string]uint32{"fp": 8}
	for n, name := range abiNames {
		registerMap[name] = uint32(n)
		registerMap[fmt.Sprintf("x%d", n)] = uint32(n)
	}
}

// Register returns the register number for a numeric (x0-x31) or ABI name.
func Register(word string) (reg uint32, err error) {
	reg, ok := registerMap[strings.ToLower(strings.TrimSpace(word))]
	if !ok {
		err = ErrRegisterUnknown(word)
	}
	return
}

// knownMnemonic returns true if the mnemonic can be encoded.
func knownMnemonic(mnemonic string) bool {
	_, isR := rMap[mnemonic]
	_, isI := iMap[mnemonic]
	_, isShift := shiftMap[mnemonic]
	_, isB := bMap[mnemonic]
	_, isL := loadMap[mnemonic]
	_, isS := storeMap[mnemonic]
	_, isU := uMap[mnemonic]
	_, isSys := sysMap[mnemonic]
	switch mnemonic {
	case "JAL", "JALR", "DATAW", "DATAB":
		return true
	}
	return isR || isI || isShift || isB || isL || isS || isU || isSys
}

// Assembler is a two pass assembler for the RV32I subset.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]uint32 // Map of labels to byte addresses.
	Equate    map[string]int64  // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{}
	}
	asm.predefine[strings.ToUpper(equ)] = value
}

// parseNumber parses a literal integer.
//
// Accepted forms, each with an optional sign: decimal digits, 0x hex,
// 0b binary, and binary digits with a 'b' suffix.
func parseNumber(word string) (value int64, err error) {
	body := word
	negative := false
	switch {
	case strings.HasPrefix(body, "-"):
		negative = true
		body = body[1:]
	case strings.HasPrefix(body, "+"):
		body = body[1:]
	}

	base := 10
	lower := strings.ToLower(body)
	switch {
	case strings.HasPrefix(lower, "0x"):
		base = 16
		body = body[2:]
	case strings.HasPrefix(lower, "0b"):
		base = 2
		body = body[2:]
	case len(lower) > 1 && strings.HasSuffix(lower, "b") && strings.Trim(lower[:len(lower)-1], "01") == "":
		base = 2
		body = body[:len(body)-1]
	}

	if len(body) == 0 || strings.ContainsAny(body, "+-_") {
		err = ErrParseNumber(word)
		return
	}

	u64, perr := strconv.ParseUint(body, base, 64)
	if perr != nil {
		err = ErrParseNumber(word)
		return
	}

	if u64 > 0xffff_ffff {
		err = ErrImmediateRange{Value: int64(min(u64, 1<<62)), Min: -(1 << 31), Max: 0xffff_ffff}
		return
	}

	value = int64(u64)
	if negative {
		value = -value
		if value < -(1 << 31) {
			err = ErrImmediateRange{Value: value, Min: -(1 << 31), Max: 0xffff_ffff}
			return
		}
	}

	return
}

// valueOf returns the value of a constant or a literal.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	word = strings.TrimSpace(word)
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}

	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}

	value, ok := asm.Equate[strings.ToUpper(word)]
	if !ok {
		value, err = parseNumber(word)
		if err != nil {
			if isSymbol(word) {
				err = ErrLabelMissing(word)
			}
			return
		}
	}

	if invert {
		value = int64(int32(^uint32(value)))
	}

	return
}

// immediate resolves an operand to a value. Constants and literals are
// taken as-is; labels resolve to their offset from pc.
func (asm *Assembler) immediate(word string, pc uint32) (value int64, err error) {
	word = strings.TrimSpace(word)
	if _, ok := asm.Equate[strings.ToUpper(word)]; !ok {
		if addr, ok := asm.Label[strings.ToUpper(word)]; ok {
			value = int64(addr) - int64(pc)
			return
		}
	}

	return asm.valueOf(word)
}

// checkRange verifies an immediate fits within [lo, hi].
func checkRange(value, lo, hi int64) (err error) {
	if value < lo || value > hi {
		err = ErrImmediateRange{Value: value, Min: lo, Max: hi}
	}
	return
}

// isSymbol returns true if word is a valid label or constant name.
var isSymbol = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`).MatchString

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string, lineno int) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"LINENO": starlark.MakeInt(lineno),
		"PC":     starlark.MakeUint(uint(asm.currentPc())),
	}
	for key, value := range asm.Equate {
		pred[key] = starlark.MakeInt64(value)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var (
	reCharacter  = regexp.MustCompile(`'(\\.|[^'\\])'|"(\\.|[^"\\])"`)
	reExpression = regexp.MustCompile(`\$\(([^()]|\([^()]*\))*\)`)
	reMemory     = regexp.MustCompile(`^(.*)\(\s*([A-Za-z0-9]+)\s*\)$`)
)

// characterValue decodes a quoted character, with optional escape.
func characterValue(quoted string) (value int, ok bool) {
	str := quoted[1 : len(quoted)-1]
	if str[0] != '\\' {
		return int(str[0]), true
	}
	switch str[1] {
	case '\\':
		value = '\\'
	case 'n':
		value = '\n'
	case 'r':
		value = '\r'
	case 't':
		value = '\t'
	case 'e':
		value = '\033'
	case '0':
		value = 0
	case '\'', '"':
		value = int(str[1])
	default:
		return
	}
	return value, true
}

// parseLine parses a single line, records its labels and equates, and
// returns the mnemonic and operands of any instruction on it.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		value, ok := characterValue(word)
		if !ok {
			err = ErrParseCharacter(word)
			return word
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	line, _, _ = strings.Cut(line, ";")
	if strings.ContainsAny(line, `'"`) {
		err = ErrQuoteUnbalanced
		return
	}

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2:len(str)-1], lineno)
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	line = strings.TrimSpace(line)

	// NAME equ VALUE
	fields := strings.Fields(line)
	if len(fields) >= 2 && strings.EqualFold(fields[1], "equ") {
		if len(fields) < 3 || !isSymbol(fields[0]) {
			err = ErrEquateSyntax
			return
		}
		name := strings.ToUpper(fields[0])
		if _, ok := asm.Equate[name]; ok {
			err = ErrEquateDuplicate
			return
		}
		var value int64
		value, err = asm.valueOf(strings.Join(fields[2:], ""))
		if err != nil {
			return
		}
		asm.Equate[name] = value
		if asm.Verbose {
			log.Printf("  equ %v = %d", name, value)
		}
		return
	}

	// label: [label: ...] [instruction]
	for {
		label, rest, ok := strings.Cut(line, ":")
		if !ok {
			break
		}
		label = strings.TrimSpace(label)
		if !isSymbol(label) {
			err = ErrLabelSyntax
			return
		}
		label = strings.ToUpper(label)
		if _, ok := asm.Label[label]; ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.currentPc()
		if asm.Verbose {
			log.Printf("  label %v = 0x%03x", label, asm.currentPc())
		}
		line = strings.TrimSpace(rest)
	}

	if len(line) == 0 {
		return
	}

	mnemonic, rest := line, ""
	if n := strings.IndexAny(line, " \t"); n >= 0 {
		mnemonic, rest = line[:n], line[n+1:]
	}
	mnemonic = strings.ToUpper(mnemonic)
	words = []string{mnemonic}

	rest = strings.TrimSpace(rest)
	if len(rest) > 0 {
		for _, operand := range strings.Split(rest, ",") {
			words = append(words, strings.TrimSpace(operand))
		}
	}

	// LW rd, imm(rs1) => LW rd, rs1, imm
	_, isLoad := loadMap[mnemonic]
	_, isStore := storeMap[mnemonic]
	if (isLoad || isStore || mnemonic == "JALR") && len(words) == 3 {
		match := reMemory.FindStringSubmatch(words[2])
		if match != nil {
			imm := strings.TrimSpace(match[1])
			if len(imm) == 0 {
				imm = "0"
			}
			words = []string{mnemonic, words[1], match[2], imm}
		}
	}

	return
}

// currentPc gets the byte address of the next instruction.
func (asm *Assembler) currentPc() uint32 {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Pc + 4*uint32(len(last.Instructions))
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.Label = make(map[string]uint32, 16)
	asm.Equate = make(map[string]int64, len(asm.predefine))
	for _, attr := range slices.Sorted(maps.Keys(asm.predefine)) {
		var value int64
		value, err = asm.valueOf(asm.predefine[attr])
		if err != nil {
			line = attr
			return
		}
		asm.Equate[attr] = value
	}

	// Pass 1: labels, equates and pseudo-instruction expansion.
	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, line)
		}

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno, line)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Pass 2: encoding, with all labels known.
	pseudos := map[uint32]string{}
	for n := range asm.Opcode {
		op := &asm.Opcode[n]
		lineno = op.LineNo
		line = op.Line

		if len(op.Pseudo) != 0 {
			pseudos[op.Pc] = op.Pseudo
		}

		op.Codes = make([]Code, 0, len(op.Instructions))
		for i, inst := range op.Instructions {
			pc := op.Pc + 4*uint32(i)
			var code Code
			code, err = asm.encode(inst, pc)
			if err != nil {
				return
			}
			if asm.Verbose {
				log.Printf("  enc@pc=0x%03x %v -> 0x%08x", pc, inst, uint32(code))
			}
			op.Codes = append(op.Codes, code)
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
		Labels:  maps.Clone(asm.Label),
		Pseudos: pseudos,
	}

	return
}

// parseWords expands the words of a line into instructions.
func (asm *Assembler) parseWords(words []string, lineno int, line string) (err error) {
	var insts []Instruction
	var pseudo string

	// no-op
	if len(words) == 0 {
		return
	}

	mnemonic := words[0]
	args := words[1:]
	pc := asm.currentPc()

	defer func() {
		if err != nil || len(insts) == 0 {
			return
		}
		for _, inst := range insts {
			if !knownMnemonic(inst.Mnemonic) {
				err = ErrInstructionInvalid
				return
			}
		}
		if asm.Verbose && len(pseudo) != 0 {
			log.Printf("  pseudo %v @ 0x%03x -> %v", pseudo, pc, insts)
		}
		opcode := Opcode{LineNo: lineno, Pc: pc, Line: strings.TrimSpace(line), Pseudo: pseudo, Instructions: insts}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	need := func(count int) bool {
		if len(args) != count {
			err = ErrOperandCount
			return false
		}
		return true
	}

	instr := func(mnemonic string, operands ...string) Instruction {
		return Instruction{Mnemonic: mnemonic, Operands: operands}
	}

	if slices.Contains(pseudoOps, mnemonic) {
		pseudo = mnemonic
	}

	switch mnemonic {
	case "NOP":
		if !need(0) {
			return
		}
		insts = append(insts, instr("ADD", "x0", "x0", "x0"))
	case "LI":
		if !need(2) {
			return
		}
		var imm int64
		imm, err = asm.valueOf(args[1])
		if err != nil {
			return
		}
		rd := args[0]
		value := int32(uint32(imm))
		switch {
		case value == 0:
			insts = append(insts, instr("ADD", rd, "zero", "zero"))
		case value >= -2048 && value < 2048:
			insts = append(insts, instr("ADDI", rd, "zero", fmt.Sprintf("%d", value)))
		default:
			hi := uint32(value) + ((uint32(value) & 0x800) << 1)
			lo := uint32(value) & 0xfff
			insts = append(insts, instr("LUI", rd, fmt.Sprintf("%#x", hi&0xffff_f000)))
			if lo != 0 {
				insts = append(insts, instr("ADDI", rd, rd, fmt.Sprintf("%#x", lo)))
			}
		}
	case "CALL":
		if !need(1) {
			return
		}
		insts = append(insts,
			Instruction{Mnemonic: "AUIPC", Operands: []string{"x6", args[0]}, Link: LINK_HI20, LinkBase: pc},
			Instruction{Mnemonic: "JALR", Operands: []string{"x1", "x6", args[0]}, Link: LINK_LO12, LinkBase: pc},
		)
	case "RET":
		if !need(0) {
			return
		}
		insts = append(insts, instr("JALR", "x0", "x1", "0"))
	case "MV":
		if !need(2) {
			return
		}
		insts = append(insts, instr("ADD", args[0], args[1], "zero"))
	case "J":
		if !need(1) {
			return
		}
		insts = append(insts, instr("JAL", "zero", args[0]))
	case "BEQZ":
		if !need(2) {
			return
		}
		insts = append(insts, instr("BEQ", args[0], "x0", args[1]))
	case "BNEZ":
		if !need(2) {
			return
		}
		insts = append(insts, instr("BNE", args[0], "x0", args[1]))
	case "BGT":
		if !need(3) {
			return
		}
		insts = append(insts, instr("BLT", args[1], args[0], args[2]))
	default:
		insts = append(insts, instr(mnemonic, args...))
	}

	return
}

// linkValue resolves a relocated operand for a pseudo-instruction expansion.
func (asm *Assembler) linkValue(inst Instruction, word string) (value int64, err error) {
	offset, err := asm.immediate(word, inst.LinkBase)
	if err != nil {
		return
	}

	off := uint32(offset)
	switch inst.Link {
	case LINK_HI20:
		value = int64((off + ((off & 0x800) << 1)) & 0xffff_f000)
	case LINK_LO12:
		value = int64(off & 0xfff)
	}

	return
}

// encode encodes a single instruction located at pc.
func (asm *Assembler) encode(inst Instruction, pc uint32) (code Code, err error) {
	args := inst.Operands
	mnemonic := inst.Mnemonic

	need := func(count int) bool {
		if len(args) != count {
			err = ErrOperandCount
			return false
		}
		return true
	}

	// regs resolves the leading register operands.
	regs := func(count int) (ids []uint32) {
		for _, word := range args[:count] {
			var id uint32
			id, err = Register(word)
			if err != nil {
				return nil
			}
			ids = append(ids, id)
		}
		return
	}

	// imm resolves the trailing immediate operand, and checks its range.
	imm := func(lo, hi int64) (value int64) {
		word := args[len(args)-1]
		if inst.Link != LINK_NONE {
			value, err = asm.linkValue(inst, word)
		} else {
			value, err = asm.immediate(word, pc)
		}
		if err != nil {
			return
		}
		err = checkRange(value, lo, hi)
		return
	}

	// offset resolves a pc-relative branch or jump target.
	offset := func(bits uint) (value int64) {
		limit := int64(1) << bits
		value = imm(-limit, limit-2)
		if err == nil && value&1 != 0 {
			err = ErrImmediateAlign(value)
		}
		return
	}

	if sys, ok := sysMap[mnemonic]; ok {
		if need(0) {
			code = sys
		}
		return
	}

	if f3, ok := iMap[mnemonic]; ok {
		if !need(3) {
			return
		}
		r := regs(2)
		if err != nil {
			return
		}
		value := imm(-2048, 4095)
		if err != nil {
			return
		}
		code = MakeCodeI(OPCODE_ALU_IMM, f3, r[0], r[1], int32(value))
		return
	}

	if enc, ok := rMap[mnemonic]; ok {
		if !need(3) {
			return
		}
		r := regs(3)
		if err != nil {
			return
		}
		code = MakeCodeR(OPCODE_ALU_REG, enc.funct3, enc.funct7, r[0], r[1], r[2])
		return
	}

	if enc, ok := shiftMap[mnemonic]; ok {
		if !need(3) {
			return
		}
		r := regs(2)
		if err != nil {
			return
		}
		shamt := imm(0, 31)
		if err != nil {
			return
		}
		code = MakeCodeR(OPCODE_ALU_IMM, enc.funct3, enc.funct7, r[0], r[1], uint32(shamt))
		return
	}

	if f3, ok := bMap[mnemonic]; ok {
		if !need(3) {
			return
		}
		r := regs(2)
		if err != nil {
			return
		}
		value := offset(12)
		if err != nil {
			return
		}
		code = MakeCodeB(f3, r[0], r[1], int32(value))
		return
	}

	if f3, ok := loadMap[mnemonic]; ok {
		if !need(3) {
			return
		}
		r := regs(2)
		if err != nil {
			return
		}
		value := imm(-2048, 4095)
		if err != nil {
			return
		}
		code = MakeCodeI(OPCODE_LOAD, f3, r[0], r[1], int32(value))
		return
	}

	if f3, ok := storeMap[mnemonic]; ok {
		if !need(3) {
			return
		}
		// Operand order matches loads: SW rs2, rs1, imm
		r := regs(2)
		if err != nil {
			return
		}
		value := imm(-2048, 4095)
		if err != nil {
			return
		}
		code = MakeCodeS(OPCODE_STORE, f3, r[1], r[0], int32(value))
		return
	}

	if op, ok := uMap[mnemonic]; ok {
		if !need(2) {
			return
		}
		r := regs(1)
		if err != nil {
			return
		}
		value := imm(-(1 << 31), 0xffff_ffff)
		if err != nil {
			return
		}
		code = MakeCodeU(op, r[0], uint32(value))
		return
	}

	switch mnemonic {
	case "JAL":
		if !need(2) {
			return
		}
		r := regs(1)
		if err != nil {
			return
		}
		value := offset(20)
		if err != nil {
			return
		}
		code = MakeCodeJ(r[0], int32(value))
	case "JALR":
		if !need(3) {
			return
		}
		r := regs(2)
		if err != nil {
			return
		}
		value := imm(-2048, 4095)
		if err != nil {
			return
		}
		code = MakeCodeI(OPCODE_JALR, 0, r[0], r[1], int32(value))
	case "DATAW":
		if !need(1) {
			return
		}
		value := imm(-(1 << 31), 0xffff_ffff)
		if err != nil {
			return
		}
		code = Code(uint32(value))
	case "DATAB":
		if !need(4) {
			return
		}
		var word uint32
		for n, arg := range args {
			var value int64
			value, err = asm.valueOf(arg)
			if err != nil {
				return
			}
			err = checkRange(value, -128, 255)
			if err != nil {
				return
			}
			word |= (uint32(value) & 0xff) << (8 * n)
		}
		code = Code(word)
	default:
		err = ErrInstructionInvalid
	}

	return
}
