package cpu

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Lines))
	assert.Equal(0, len(prog.Binary()))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("0x1000", asm.Equate["MEMORY_SIZE"])
	assert.Equal("16", asm.Equate["REGISTER_COUNT"])
}

func TestAssemble(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		source string
		code   []byte
	}){
		{"movimm", "movimm r3 0x1234", []byte{0x01, 0x03, 0x12, 0x34}},
		{"add", "add r1 r2", []byte{0x05, 0x01, 0x02}},
		{"halt", "halt", []byte{0xff}},
		{"store", "store 0x0100 r1", []byte{0x04, 0x01, 0x00, 0x01}},
		{"load", "load r2 256", []byte{0x03, 0x02, 0x01, 0x00}},
		{"case", "MovImm r1 2\nHALT", []byte{0x01, 0x01, 0x00, 0x02, 0xff}},
		{"comment", "// header\n\n   \nmovimm r1 2 // two\nhalt// done\n", []byte{0x01, 0x01, 0x00, 0x02, 0xff}},
		{"crlf", "mov r1 r2\r\nhalt\r\n", []byte{0x02, 0x01, 0x02, 0xff}},
		{"tabs", "\tcmp\tr15\tr0", []byte{0x07, 0x0f, 0x00}},
		{"empty", "// nothing\n", nil},
	}

	for _, entry := range table {
		code, err := Assemble(entry.source)
		assert.NoError(err, entry.name)
		assert.Equal(entry.code, code, entry.name)
	}
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"start:",
		"    movimm r0 1", // 0
		"    jmp end",     // 4
		"loop: add r0 r0", // 7
		"    jmpnz loop",  // 10
		"    jmpz start",  // 13
		"end: halt",       // 16
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	assert.Equal(map[string]uint16{"start": 0, "loop": 7, "end": 16}, asm.Label)
	assert.Equal([]byte{
		0x01, 0x00, 0x00, 0x01,
		0x08, 0x00, 0x10,
		0x05, 0x00, 0x00,
		0x0a, 0x00, 0x07,
		0x09, 0x00, 0x00,
		0xff,
	}, prog.Binary())

	expected := []Line{
		{2, 0, []string{"movimm", "r0", "1"}, MoveImmediate{Reg: 0, Imm: 1}},
		{3, 4, []string{"jmp", "end"}, Jump{Addr: 16}},
		{4, 7, []string{"add", "r0", "r0"}, Add{Dst: 0, Src: 0}},
		{5, 10, []string{"jmpnz", "loop"}, JumpIfNotZero{Addr: 7}},
		{6, 13, []string{"jmpz", "start"}, JumpIfZero{Addr: 0}},
		{7, 16, []string{"halt"}, Halt{}},
	}
	assert.Equal(expected, prog.Lines)

	// Labels shadow equates of the same name.
	asm = &Assembler{}
	asm.Predefine("LOAD_BASE", "0x0")
	for _, name := range []string{"MEMORY_SIZE", "REGISTER_COUNT", "LINENO", "LOAD_BASE"} {
		source := "halt\n" + name + ":\n  jmp " + name
		prog, err := asm.Parse(strings.NewReader(source))
		if assert.NoError(err, name) {
			assert.Equal([]byte{0xff, 0x08, 0x00, 0x01}, prog.Binary(), name)
		}
	}

	code, err := Assemble(".equ there 0x20\nhalt\nthere: jmpz there\njmp $(there)")
	assert.NoError(err)
	assert.Equal([]byte{0xff, 0x09, 0x00, 0x01, 0x08, 0x00, 0x01}, code)
}

func TestAssemblerForwardLabel(t *testing.T) {
	assert := assert.New(t)

	code, err := Assemble(`
        jmp end
        movimm r0 1
        end:
            halt
    `)
	assert.NoError(err)
	assert.Equal([]byte{0x08, 0x00, 0x07, 0x01, 0x00, 0x00, 0x01, 0xff}, code)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		source string
		lineno int
		err    error
	}){
		{"unknown", "bogus r1", 1, ErrMnemonicUnknown("bogus")},
		{"unknown-late", "halt\nhalt\nnop", 3, ErrMnemonicUnknown("nop")},
		{"unknown-before-bad-operand", "movimm r99 1\nbogus", 2, ErrMnemonicUnknown("bogus")},
		{"register-range", "movimm r16 1", 1, ErrRegisterRange("r16")},
		{"register-huge", "mov r1 r99999999999999999999999", 1, ErrRegisterRange("r99999999999999999999999")},
		{"register-letter", "movimm x1 1", 1, ErrParseRegister("x1")},
		{"register-bare", "add r r1", 1, ErrParseRegister("r")},
		{"register-upper", "movimm R1 1", 1, ErrParseRegister("R1")},
		{"register-number", "store 0x10 5", 1, ErrParseRegister("5")},
		{"number-hex-range", "movimm r1 0x10000", 1, ErrParseNumber("0x10000")},
		{"number-dec-range", "load r1 65536", 1, ErrParseNumber("65536")},
		{"number-negative", "movimm r1 -1", 1, ErrParseNumber("-1")},
		{"number-garbage", "movimm r1 12ab", 1, ErrParseNumber("12ab")},
		{"label-missing", "jmp missing", 1, ErrLabelMissing("missing")},
		{"label-duplicate", "a:\nhalt\na: halt", 3, ErrLabelDuplicate},
		{"label-empty", ": halt", 1, ErrLabelInvalid},
		{"equ-syntax", ".equ X", 1, ErrEquateSyntax},
		{"equ-duplicate", ".equ X 1\n.equ X 2", 2, ErrEquateDuplicate},
		{"equ-system", ".equ MEMORY_SIZE 2", 1, ErrEquateDuplicate},
		{"expr-syntax", "movimm r1 $(1 +)", 1, ErrParseExpression("1 +")},
		{"expr-range", "movimm r1 $(0x10000)", 1, ErrParseExpression("0x10000")},
		{"expr-type", "movimm r1 $('a')", 1, ErrParseExpression("'a'")},
	}

	for _, entry := range table {
		code, err := Assemble(entry.source)
		assert.Nil(code, entry.name)
		assert.ErrorIs(err, entry.err, entry.name)

		var syn *ErrSyntax
		if assert.ErrorAs(err, &syn, entry.name) {
			assert.Equal(entry.lineno, syn.LineNo, entry.name)
		}
	}
}

func TestAssemblerProgramSize(t *testing.T) {
	assert := assert.New(t)

	// Exactly 64KiB of code.
	full := strings.Repeat("movimm r0 0\n", 0x10000/4)

	code, err := Assemble(full)
	assert.NoError(err)
	assert.Len(code, 0x10000)

	table := [](struct {
		name   string
		source string
	}){
		{"label-after-end", full + "end:"},
		{"instruction-after-end", full + "halt"},
		{"labeled-instruction-after-end", full + "end: halt"},
	}

	for _, entry := range table {
		code, err := Assemble(entry.source)
		assert.Nil(code, entry.name)
		assert.ErrorIs(err, ErrProgramSize, entry.name)

		var syn *ErrSyntax
		if assert.ErrorAs(err, &syn, entry.name) {
			assert.Equal(0x10000/4+1, syn.LineNo, entry.name)
		}
	}
}

func TestAssemblerOperandCount(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		source string
		opcode Opcode
		want   int
		got    int
	}){
		{"add r1", OP_ADD, 2, 1},
		{"movimm r1 1 2", OP_MOVIMM, 2, 3},
		{"jmp", OP_JMP, 1, 0},
		{"halt now", OP_HALT, 0, 1},
		{"store 0x10", OP_STORE, 2, 1},
	}

	for _, entry := range table {
		_, err := Assemble(entry.source)
		var count *ErrOperandCount
		if assert.ErrorAs(err, &count, entry.source) {
			assert.Equal(entry.opcode, count.Opcode, entry.source)
			assert.Equal(entry.want, count.Want, entry.source)
			assert.Equal(entry.got, count.Got, entry.source)
		}
	}
}

func TestAssemblerAllOrNothing(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("movimm r1 1\nadd r1 r1\njmp nowhere\nhalt"))
	assert.Nil(prog)
	assert.True(errors.Is(err, ErrLabelMissing("nowhere")))
}

func TestParseRegister(t *testing.T) {
	assert := assert.New(t)

	for n := range REGISTER_COUNT {
		word := "r" + strconv.Itoa(n)
		reg, err := parseRegister(word)
		assert.NoError(err, word)
		assert.Equal(uint8(n), reg, word)
	}

	for _, word := range []string{"r16", "r255", "r256"} {
		_, err := parseRegister(word)
		assert.ErrorIs(err, ErrRegisterRange(word), word)
	}

	for _, word := range []string{"", "r", "x3", "R3", "r-1", "r1a", "3", "rr1"} {
		_, err := parseRegister(word)
		assert.ErrorIs(err, ErrParseRegister(word), word)
	}
}

func TestParseNumber(t *testing.T) {
	assert := assert.New(t)

	good := map[string]uint16{
		"0":      0,
		"42":     42,
		"65535":  0xffff,
		"0x0":    0,
		"0x1234": 0x1234,
		"0xABCD": 0xabcd,
		"0xffff": 0xffff,
		"007":    7,
	}
	for word, value := range good {
		got, err := parseNumber(word)
		assert.NoError(err, word)
		assert.Equal(value, got, word)
	}

	for _, word := range []string{"65536", "0x10000", "0x", "", "abc", "-1", "+1", "0X10", "0b101", "1_000"} {
		_, err := parseNumber(word)
		assert.ErrorIs(err, ErrParseNumber(word), word)
	}
}

func TestAssemblerEquate(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".equ COUNT 3",
		".equ ACC r2",
		"movimm ACC COUNT",           // 0
		"movimm r1 $(COUNT * 2 + 1)", // 4
		"movimm r3 MEMORY_SIZE",      // 8
		"jmp $( end )",               // 12
		"movimm r4 $(LINENO)",        // 15
		"store BASE ACC",             // 19
		"end: halt",                  // 23
	}

	asm := &Assembler{}
	asm.Predefine("BASE", "0x100")

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	var insts []Instruction
	for _, inst := range prog.Codes() {
		insts = append(insts, inst)
	}

	assert.Equal([]Instruction{
		MoveImmediate{Reg: 2, Imm: 3},
		MoveImmediate{Reg: 1, Imm: 7},
		MoveImmediate{Reg: 3, Imm: 0x1000},
		Jump{Addr: 23},
		MoveImmediate{Reg: 4, Imm: 7},
		StoreToMemory{Addr: 0x100, Reg: 2},
		Halt{},
	}, insts)
}

func TestSplitWords(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]string{"movimm", "r1", "$(1 + (2 * 3))"}, splitWords("movimm r1 $(1 + (2 * 3))"))
	assert.Equal([]string{"jmp", "$(a"}, splitWords("  jmp  $(a  "))
	assert.Nil(splitWords(" \t "))
}
