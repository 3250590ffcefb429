package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"// store and loop",
		"start: movimm r1 0xABCD",
		"       store 0x0100 r1",
		"",
		"       jmp start",
		"       halt",
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal([]byte{
		0x01, 0x01, 0xab, 0xcd,
		0x04, 0x01, 0x00, 0x01,
		0x08, 0x00, 0x00,
		0xff,
	}, prog.Binary())

	var pcs []uint16
	for pc := range prog.Codes() {
		pcs = append(pcs, pc)
	}
	assert.Equal([]uint16{0, 4, 8, 11}, pcs)

	expected := strings.Join([]string{
		"0000  01 01 AB CD     2  movimm r1 0xabcd",
		"0004  04 01 00 01     3  store 0x0100 r1",
		"0008  08 00 00        5  jmp 0x0000",
		"000B  FF              6  halt",
		"",
	}, "\n")
	assert.Equal(expected, prog.String())
}

func TestProgramDebug(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("movimm r1 1\n\nadd r1 r1\nhalt"))
	if err != nil {
		t.Fatal(err)
	}

	table := [](struct {
		pc     uint16
		lineno int
		index  int
	}){
		{0, 1, 0},
		{3, 1, 3},
		{4, 3, 0},
		{6, 3, 2},
		{7, 4, 0},
	}

	for _, entry := range table {
		dbg := prog.Debug(entry.pc)
		if assert.NotNil(dbg.Line, entry.pc) {
			assert.Equal(entry.lineno, dbg.LineNo, entry.pc)
			assert.Equal(entry.index, dbg.Index, entry.pc)
		}
	}

	dbg := prog.Debug(8)
	assert.Nil(dbg.Line)

	dbg = (&Program{}).Debug(0)
	assert.Nil(dbg.Line)
}
