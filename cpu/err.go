package cpu

import (
	"errors"

	"github.com/ezrec/risa16/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrProgramSize = errors.New(f("program exceeds memory"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLabelInvalid    = errors.New(f("label name empty"))
)

// ErrOpcode is an opcode byte outside of the instruction set.
type ErrOpcode struct {
	Pc   uint16
	Byte byte
}

func (eo ErrOpcode) Error() string {
	return f("pc 0x%04x: invalid opcode 0x%02x", eo.Pc, eo.Byte)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrOutOfBounds is an instruction whose bytes run past the end of memory.
type ErrOutOfBounds struct {
	Pc    uint16
	Field string // Missing field.
}

func (err *ErrOutOfBounds) Error() string {
	return f("pc 0x%04x: %v byte out of bounds", err.Pc, err.Field)
}

// ErrRegisterInvalid is a decoded register index outside of the register file.
type ErrRegisterInvalid struct {
	Reg uint8
}

func (err *ErrRegisterInvalid) Error() string {
	return f("register r%d out of bounds", err.Reg)
}

// ErrAddressInvalid is a decoded address outside of memory.
type ErrAddressInvalid struct {
	Addr uint16
}

func (err *ErrAddressInvalid) Error() string {
	return f("address 0x%04x out of bounds", err.Addr)
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrMnemonicUnknown string

func (err ErrMnemonicUnknown) Error() string {
	return f("unknown instruction '%v'", string(err))
}

// ErrOperandCount is a mnemonic with the wrong number of operands.
type ErrOperandCount struct {
	Opcode Opcode
	Want   int
	Got    int
}

func (err *ErrOperandCount) Error() string {
	return f("%v expects %d operands, got %d", err.Opcode, err.Want, err.Got)
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register (r0-r15)", string(err))
}

type ErrRegisterRange string

func (err ErrRegisterRange) Error() string {
	return f("register '%v' out of bounds", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a 16-bit number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax is an assembly error, located at a line of source.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
