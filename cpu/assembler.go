// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/risa16/internal"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a two pass assembler for the risa16 instruction set.
//
// The first pass sizes every line and records label addresses, the second
// pass emits instructions with all labels known, so labels may be used
// before they are declared.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Line    []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]uint16 // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// source is a tokenized line of source text.
type source struct {
	LineNo int
	Text   string
	Words  []string
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Assemble assembles source text into a byte stream. Assembly is all or
// nothing: on error no bytes are returned.
func Assemble(text string) (code []byte, err error) {
	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(text))
	if err != nil {
		return
	}

	code = prog.Binary()
	return
}

// splitWords splits a line on whitespace, keeping each $(...) expression
// as a single word.
func splitWords(text string) (words []string) {
	var pending string
	for _, field := range strings.Fields(text) {
		if len(pending) != 0 {
			pending += " " + field
		} else {
			pending = field
		}
		if strings.HasPrefix(pending, "$(") && strings.Count(pending, "(") > strings.Count(pending, ")") {
			continue
		}
		words = append(words, pending)
		pending = ""
	}

	if len(pending) != 0 {
		words = append(words, pending)
	}

	return
}

// tokenize reads source text, dropping comments, blank lines and comment
// only lines.
func (asm *Assembler) tokenize(input io.Reader) (lines []source, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v\n", lineno, text)
		}

		line, _, _ := strings.Cut(text, "//")
		words := splitWords(line)
		if len(words) == 0 {
			continue
		}

		lines = append(lines, source{
			LineNo: lineno,
			Text:   strings.TrimSpace(line),
			Words:  words,
		})
	}

	err = scanner.Err()

	return
}

// parseNumber parses a 16-bit decimal, or 0x prefixed hexadecimal, literal.
func parseNumber(word string) (value uint16, err error) {
	var v64 uint64
	if hex, ok := strings.CutPrefix(word, "0x"); ok {
		v64, err = strconv.ParseUint(hex, 16, 16)
	} else {
		v64, err = strconv.ParseUint(word, 10, 16)
	}
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = uint16(v64)
	return
}

// parseRegister parses a register name, r0 through r15.
func parseRegister(word string) (reg uint8, err error) {
	index, ok := strings.CutPrefix(word, "r")
	if !ok {
		err = ErrParseRegister(word)
		return
	}

	v64, err := strconv.ParseUint(index, 10, 64)
	if errors.Is(err, strconv.ErrRange) || (err == nil && v64 >= REGISTER_COUNT) {
		err = ErrRegisterRange(word)
		return
	}
	if err != nil {
		err = ErrParseRegister(word)
		return
	}

	reg = uint8(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		value16, err := parseNumber(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value16))
	}
	for key, pc := range asm.Label {
		pred[key] = starlark.MakeInt(int(pc))
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 || st_int64 > 0xffff {
		err = ErrParseExpression(expr)
		return
	}

	value = uint16(st_int64)
	return
}

// expand substitutes equates in an operand, and evaluates $(...)
// expressions to their decimal value.
func (asm *Assembler) expand(word string) (expanded string, err error) {
	expanded = word
	if equate, ok := asm.Equate[word]; ok {
		expanded = equate
	}

	if strings.HasPrefix(expanded, "$(") && strings.HasSuffix(expanded, ")") {
		var value uint16
		value, err = asm.parenEval(expanded[2 : len(expanded)-1])
		if err != nil {
			return
		}
		expanded = strconv.Itoa(int(value))
	}

	return
}

// register parses a register operand.
func (asm *Assembler) register(word string) (reg uint8, err error) {
	word, err = asm.expand(word)
	if err != nil {
		return
	}

	return parseRegister(word)
}

// number parses an immediate or address operand.
func (asm *Assembler) number(word string) (value uint16, err error) {
	word, err = asm.expand(word)
	if err != nil {
		return
	}

	return parseNumber(word)
}

// target parses a jump operand, either a label, or a number. Labels take
// precedence over equates of the same name.
func (asm *Assembler) target(word string) (addr uint16, err error) {
	addr, ok := asm.Label[word]
	if ok {
		return
	}

	word, err = asm.expand(word)
	if err != nil {
		return
	}

	addr, err = parseNumber(word)
	if err == nil {
		return
	}

	addr, ok = asm.Label[word]
	if !ok {
		err = ErrLabelMissing(word)
		return
	}

	err = nil
	return
}

// size is the first pass over a line. Records labels and equates, and
// returns the words of the instruction, if any.
func (asm *Assembler) size(src source, pc int) (words []string, err error) {
	words = src.Words

	if label, ok := strings.CutSuffix(words[0], ":"); ok {
		if len(label) == 0 {
			err = ErrLabelInvalid
			return
		}
		if _, ok := asm.Label[label]; ok {
			err = ErrLabelDuplicate
			return
		}
		if pc > 0xffff {
			err = ErrProgramSize
			return
		}
		asm.Label[label] = uint16(pc)
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		if _, ok := asm.Equate[words[1]]; ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = nil
		return
	}

	if _, ok := OpcodeOf(words[0]); !ok {
		err = ErrMnemonicUnknown(words[0])
		return
	}

	return
}

// emit is the second pass over an instruction.
func (asm *Assembler) emit(words []string) (inst Instruction, err error) {
	op, _ := OpcodeOf(words[0])
	args := words[1:]

	want := len(op.Operands())
	if len(args) != want {
		err = &ErrOperandCount{Opcode: op, Want: want, Got: len(args)}
		return
	}

	var a, b uint8
	var word uint16

	if op.IsJump() {
		if word, err = asm.target(args[0]); err != nil {
			return
		}
	}

	switch op {
	case OP_MOVIMM, OP_LOAD:
		if a, err = asm.register(args[0]); err != nil {
			return
		}
		if word, err = asm.number(args[1]); err != nil {
			return
		}
		if op == OP_MOVIMM {
			inst = MoveImmediate{Reg: a, Imm: word}
		} else {
			inst = LoadFromMemory{Reg: a, Addr: word}
		}
	case OP_STORE:
		if word, err = asm.number(args[0]); err != nil {
			return
		}
		if a, err = asm.register(args[1]); err != nil {
			return
		}
		inst = StoreToMemory{Addr: word, Reg: a}
	case OP_MOV, OP_ADD, OP_SUB, OP_CMP:
		if a, err = asm.register(args[0]); err != nil {
			return
		}
		if b, err = asm.register(args[1]); err != nil {
			return
		}
		switch op {
		case OP_MOV:
			inst = MoveRegister{Dst: a, Src: b}
		case OP_ADD:
			inst = Add{Dst: a, Src: b}
		case OP_SUB:
			inst = Subtract{Dst: a, Src: b}
		case OP_CMP:
			inst = Compare{A: a, B: b}
		}
	case OP_JMP:
		inst = Jump{Addr: word}
	case OP_JMPZ:
		inst = JumpIfZero{Addr: word}
	case OP_JMPNZ:
		inst = JumpIfNotZero{Addr: word}
	case OP_HALT:
		inst = Halt{}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	var src source

	defer func() {
		if err != nil && src.LineNo != 0 {
			err = &ErrSyntax{LineNo: src.LineNo, Line: src.Text, Err: err}
		}
	}()

	lines, err := asm.tokenize(input)
	if err != nil {
		return
	}

	asm.Line = asm.Line[:0]
	asm.Label = make(map[string]uint16, 16)
	asm.Equate = maps.Collect(internal.IterSeq2Concat(
		maps.All(sysEquate),
		maps.All(_machine_defines),
		maps.All(asm.predefine),
	))

	// Pass 1: label addresses.
	words := make([][]string, len(lines))
	pc := 0
	for n := range lines {
		src = lines[n]
		words[n], err = asm.size(src, pc)
		if err != nil {
			return
		}
		if len(words[n]) == 0 {
			continue
		}
		op, _ := OpcodeOf(words[n][0])
		pc += op.Len()
		if pc > 0x10000 {
			err = ErrProgramSize
			return
		}
	}

	// Pass 2: emit.
	pc = 0
	for n := range lines {
		src = lines[n]
		if len(words[n]) == 0 {
			continue
		}

		asm.Equate["LINENO"] = fmt.Sprintf("%v", src.LineNo)

		var inst Instruction
		inst, err = asm.emit(words[n])
		if err != nil {
			return
		}

		asm.Line = append(asm.Line, Line{
			LineNo:      src.LineNo,
			Pc:          uint16(pc),
			Words:       words[n],
			Instruction: inst,
		})
		pc += inst.Len()
	}

	prog = &Program{
		Lines: slices.Clone(asm.Line),
	}

	return
}
