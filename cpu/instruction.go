package cpu

import (
	"fmt"
)

// Instruction is one decoded risa16 instruction. The set of implementations
// is closed: MoveImmediate, MoveRegister, LoadFromMemory, StoreToMemory, Add,
// Subtract, Compare, Jump, JumpIfZero, JumpIfNotZero and Halt.
type Instruction interface {
	// Opcode returns the opcode tag of the instruction.
	Opcode() Opcode
	// Len returns the encoded length in bytes.
	Len() int
	// Bytes returns the encoding: opcode byte then operand bytes,
	// 16-bit fields high byte first.
	Bytes() []byte
	// String returns assembly text that assembles back to Bytes().
	String() string

	instruction()
}

// MoveImmediate loads a 16-bit constant into a register.
type MoveImmediate struct {
	Reg uint8
	Imm uint16
}

// MoveRegister copies Src into Dst.
type MoveRegister struct {
	Dst, Src uint8
}

// LoadFromMemory reads the big-endian word at Addr into Reg.
type LoadFromMemory struct {
	Reg  uint8
	Addr uint16
}

// StoreToMemory writes Reg as a big-endian word at Addr.
type StoreToMemory struct {
	Addr uint16
	Reg  uint8
}

// Add adds Src to Dst, setting zero and carry.
type Add struct {
	Dst, Src uint8
}

// Subtract subtracts Src from Dst, setting zero and carry (borrow).
type Subtract struct {
	Dst, Src uint8
}

// Compare sets zero if A == B and carry if A < B.
type Compare struct {
	A, B uint8
}

// Jump sets the program counter to Addr.
type Jump struct {
	Addr uint16
}

// JumpIfZero sets the program counter to Addr when zero is set.
type JumpIfZero struct {
	Addr uint16
}

// JumpIfNotZero sets the program counter to Addr when zero is clear.
type JumpIfNotZero struct {
	Addr uint16
}

// Halt stops the machine.
type Halt struct{}

var (
	_ Instruction = MoveImmediate{}
	_ Instruction = MoveRegister{}
	_ Instruction = LoadFromMemory{}
	_ Instruction = StoreToMemory{}
	_ Instruction = Add{}
	_ Instruction = Subtract{}
	_ Instruction = Compare{}
	_ Instruction = Jump{}
	_ Instruction = JumpIfZero{}
	_ Instruction = JumpIfNotZero{}
	_ Instruction = Halt{}
)

func (MoveImmediate) Opcode() Opcode  { return OP_MOVIMM }
func (MoveRegister) Opcode() Opcode   { return OP_MOV }
func (LoadFromMemory) Opcode() Opcode { return OP_LOAD }
func (StoreToMemory) Opcode() Opcode  { return OP_STORE }
func (Add) Opcode() Opcode            { return OP_ADD }
func (Subtract) Opcode() Opcode       { return OP_SUB }
func (Compare) Opcode() Opcode        { return OP_CMP }
func (Jump) Opcode() Opcode           { return OP_JMP }
func (JumpIfZero) Opcode() Opcode     { return OP_JMPZ }
func (JumpIfNotZero) Opcode() Opcode  { return OP_JMPNZ }
func (Halt) Opcode() Opcode           { return OP_HALT }

func (in MoveImmediate) Len() int  { return in.Opcode().Len() }
func (in MoveRegister) Len() int   { return in.Opcode().Len() }
func (in LoadFromMemory) Len() int { return in.Opcode().Len() }
func (in StoreToMemory) Len() int  { return in.Opcode().Len() }
func (in Add) Len() int            { return in.Opcode().Len() }
func (in Subtract) Len() int       { return in.Opcode().Len() }
func (in Compare) Len() int        { return in.Opcode().Len() }
func (in Jump) Len() int           { return in.Opcode().Len() }
func (in JumpIfZero) Len() int     { return in.Opcode().Len() }
func (in JumpIfNotZero) Len() int  { return in.Opcode().Len() }
func (in Halt) Len() int           { return in.Opcode().Len() }

func (MoveImmediate) instruction()  {}
func (MoveRegister) instruction()   {}
func (LoadFromMemory) instruction() {}
func (StoreToMemory) instruction()  {}
func (Add) instruction()            {}
func (Subtract) instruction()       {}
func (Compare) instruction()        {}
func (Jump) instruction()           {}
func (JumpIfZero) instruction()     {}
func (JumpIfNotZero) instruction()  {}
func (Halt) instruction()           {}

// encode appends operands to the opcode byte. Register operands are
// uint8, word operands are uint16.
func encode(op Opcode, args ...any) (out []byte) {
	out = make([]byte, 1, op.Len())
	out[0] = byte(op)
	for _, arg := range args {
		switch v := arg.(type) {
		case uint8:
			out = append(out, v)
		case uint16:
			out = append(out, byte(v>>8), byte(v))
		default:
			panic(fmt.Sprintf("encode: %T operand", arg))
		}
	}
	return
}

func (in MoveImmediate) Bytes() []byte  { return encode(OP_MOVIMM, in.Reg, in.Imm) }
func (in MoveRegister) Bytes() []byte   { return encode(OP_MOV, in.Dst, in.Src) }
func (in LoadFromMemory) Bytes() []byte { return encode(OP_LOAD, in.Reg, in.Addr) }
func (in StoreToMemory) Bytes() []byte  { return encode(OP_STORE, in.Addr, in.Reg) }
func (in Add) Bytes() []byte            { return encode(OP_ADD, in.Dst, in.Src) }
func (in Subtract) Bytes() []byte       { return encode(OP_SUB, in.Dst, in.Src) }
func (in Compare) Bytes() []byte        { return encode(OP_CMP, in.A, in.B) }
func (in Jump) Bytes() []byte           { return encode(OP_JMP, in.Addr) }
func (in JumpIfZero) Bytes() []byte     { return encode(OP_JMPZ, in.Addr) }
func (in JumpIfNotZero) Bytes() []byte  { return encode(OP_JMPNZ, in.Addr) }
func (in Halt) Bytes() []byte           { return encode(OP_HALT) }

func (in MoveImmediate) String() string {
	return fmt.Sprintf("%v r%d %#04x", in.Opcode(), in.Reg, in.Imm)
}

func (in MoveRegister) String() string {
	return fmt.Sprintf("%v r%d r%d", in.Opcode(), in.Dst, in.Src)
}

func (in LoadFromMemory) String() string {
	return fmt.Sprintf("%v r%d %#04x", in.Opcode(), in.Reg, in.Addr)
}

func (in StoreToMemory) String() string {
	return fmt.Sprintf("%v %#04x r%d", in.Opcode(), in.Addr, in.Reg)
}

func (in Add) String() string {
	return fmt.Sprintf("%v r%d r%d", in.Opcode(), in.Dst, in.Src)
}

func (in Subtract) String() string {
	return fmt.Sprintf("%v r%d r%d", in.Opcode(), in.Dst, in.Src)
}

func (in Compare) String() string {
	return fmt.Sprintf("%v r%d r%d", in.Opcode(), in.A, in.B)
}

func (in Jump) String() string {
	return fmt.Sprintf("%v %#04x", in.Opcode(), in.Addr)
}

func (in JumpIfZero) String() string {
	return fmt.Sprintf("%v %#04x", in.Opcode(), in.Addr)
}

func (in JumpIfNotZero) String() string {
	return fmt.Sprintf("%v %#04x", in.Opcode(), in.Addr)
}

func (in Halt) String() string {
	return in.Opcode().String()
}
