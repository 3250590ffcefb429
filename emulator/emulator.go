// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"iter"
	"log"
	"log/slog"
	"maps"

	"github.com/ezrec/risa16/cpu"
	"github.com/ezrec/risa16/internal"
)

const (
	LevelTrace = slog.LevelDebug - 4 // Per instruction trace records.
	LOAD_BASE  = 0                   // Address programs are loaded at.
)

var _emulator_defines = map[string]string{
	"LOAD_BASE": fmt.Sprintf("%#x", LOAD_BASE),
}

// Emulator state. Machine + assembled program.
type Emulator struct {
	Verbose      bool         // If set, enables verbose logging.
	*cpu.Machine              // Reference to the machine simulation.
	Program      *cpu.Program // Reference to the currently running program listing.

	Trace *slog.Logger // If set, receives a record for every executed instruction.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine: cpu.NewMachine(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Machine.Defines(),
	)
}

// Reset the machine, and load the program.
func (emu *Emulator) Reset() (err error) {
	emu.Machine.Verbose = emu.Verbose
	emu.Machine.Reset()

	err = emu.Machine.Load(emu.Program.Binary())
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: %d lines loaded", len(emu.Program.Lines))
	}

	return
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Machine.Pc)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick executes a single instruction. done is set once the machine has
// halted, either by a halt instruction or an error.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set machine verbosity
	emu.Machine.Verbose = emu.Verbose

	if emu.Machine.Halted() {
		done = true
		return
	}

	pc := emu.Machine.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		}
	}()

	err = emu.Machine.Step()

	if emu.Trace != nil {
		emu.Trace.Log(context.Background(), LevelTrace, "Tick",
			"Pc", pc,
			"LineNo", lineno,
			"Next", emu.Machine.Pc,
			"Zero", emu.Machine.Zero,
			"Carry", emu.Machine.Carry,
			"State", emu.Machine.State.String(),
			"Error", err,
		)
	}

	done = emu.Machine.Halted()

	return
}

// Run ticks until the machine halts. If limit is positive, at most limit
// instructions are executed before ErrTickLimit is returned.
func (emu *Emulator) Run(limit int) (err error) {
	for ticks := 0; ; ticks++ {
		if limit > 0 && ticks >= limit {
			err = ErrTickLimit
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
