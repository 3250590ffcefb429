package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Line is one assembled source line and the instruction it generated.
type Line struct {
	LineNo      int      // Source line number, starting at 1.
	Pc          uint16   // Address of the instruction.
	Words       []string // Mnemonic and operands, as written.
	Instruction Instruction
}

// Program is an assembled listing, in address order.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int // Byte offset of the address into the instruction.
}

// Debug finds the line whose instruction covers pc.
func (prog *Program) Debug(pc uint16) (dbg Debug) {
	for n, line := range prog.Lines {
		if pc >= line.Pc && int(pc) < int(line.Pc)+line.Instruction.Len() {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(pc - line.Pc),
			}
			break
		}
	}

	return
}

// Binary returns the program byte stream, to be loaded at address 0.
func (prog *Program) Binary() (bins []byte) {
	for _, inst := range prog.Codes() {
		bins = append(bins, inst.Bytes()...)
	}

	return
}

// Codes iterates over the instructions of the program by address.
func (prog *Program) Codes() iter.Seq2[uint16, Instruction] {
	return func(yield func(pc uint16, inst Instruction) bool) {
		for _, line := range prog.Lines {
			if !yield(line.Pc, line.Instruction) {
				return
			}
		}
	}
}

// String returns the listing: address, encoding, source line number and
// disassembly.
func (prog *Program) String() (text string) {
	for _, line := range prog.Lines {
		var hex []string
		for _, b := range line.Instruction.Bytes() {
			hex = append(hex, fmt.Sprintf("%02X", b))
		}
		text += fmt.Sprintf("%04X  %-11s % 5d  %v\n", line.Pc, strings.Join(hex, " "), line.LineNo, line.Instruction)
	}

	return
}
