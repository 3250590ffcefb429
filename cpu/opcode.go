package cpu

import (
	"strings"
)

// Opcode is the one byte tag at the start of every encoded instruction.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_MOVIMM = Opcode(0x01) // movimm
	OP_MOV    = Opcode(0x02) // mov
	OP_LOAD   = Opcode(0x03) // load
	OP_STORE  = Opcode(0x04) // store
	OP_ADD    = Opcode(0x05) // add
	OP_SUB    = Opcode(0x06) // sub
	OP_CMP    = Opcode(0x07) // cmp
	OP_JMP    = Opcode(0x08) // jmp
	OP_JMPZ   = Opcode(0x09) // jmpz
	OP_JMPNZ  = Opcode(0x0a) // jmpnz
	OP_HALT   = Opcode(0xff) // halt
)

// Field is the kind of an encoded operand.
type Field int

const (
	FIELD_REG  = Field(1) // One byte register index.
	FIELD_WORD = Field(2) // Two byte big-endian address or immediate.
)

// Operand describes one encoded operand of an opcode.
type Operand struct {
	Name  string // Name used in decode errors.
	Field Field
}

// Size returns the number of encoded bytes of the operand.
func (op Operand) Size() int {
	return int(op.Field)
}

var (
	opReg  = Operand{"reg", FIELD_REG}
	opDst  = Operand{"dst", FIELD_REG}
	opSrc  = Operand{"src", FIELD_REG}
	opA    = Operand{"a", FIELD_REG}
	opB    = Operand{"b", FIELD_REG}
	opImm  = Operand{"imm", FIELD_WORD}
	opAddr = Operand{"addr", FIELD_WORD}
)

// opcodeOperands is the encoded operand layout of every opcode, in order.
var opcodeOperands = map[Opcode][]Operand{
	OP_MOVIMM: {opReg, opImm},
	OP_MOV:    {opDst, opSrc},
	OP_LOAD:   {opReg, opAddr},
	OP_STORE:  {opAddr, opReg},
	OP_ADD:    {opDst, opSrc},
	OP_SUB:    {opDst, opSrc},
	OP_CMP:    {opA, opB},
	OP_JMP:    {opAddr},
	OP_JMPZ:   {opAddr},
	OP_JMPNZ:  {opAddr},
	OP_HALT:   nil,
}

// mnemonicMap maps lower case mnemonics to opcodes.
var mnemonicMap = map[string]Opcode{}

func init() {
	for op := range opcodeOperands {
		mnemonicMap[op.String()] = op
	}
}

// Valid returns true if the opcode is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := opcodeOperands[op]
	return ok
}

// Operands returns the encoded operand layout of the opcode.
func (op Opcode) Operands() []Operand {
	return opcodeOperands[op]
}

// Len returns the encoded length in bytes of an instruction with this opcode,
// or 0 for an invalid opcode.
func (op Opcode) Len() (length int) {
	operands, ok := opcodeOperands[op]
	if !ok {
		return
	}

	length = 1
	for _, operand := range operands {
		length += operand.Size()
	}

	return
}

// IsJump returns true for the control flow opcodes.
func (op Opcode) IsJump() bool {
	return op == OP_JMP || op == OP_JMPZ || op == OP_JMPNZ
}

// OpcodeOf looks up a mnemonic, ignoring case.
func OpcodeOf(mnemonic string) (op Opcode, ok bool) {
	op, ok = mnemonicMap[strings.ToLower(mnemonic)]
	return
}
