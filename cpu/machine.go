// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

const (
	REGISTER_COUNT = 16   // General purpose 16-bit registers.
	MEMORY_SIZE    = 4096 // Bytes of linear memory.
)

var _machine_defines = map[string]string{
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
	"MEMORY_SIZE":    fmt.Sprintf("%#x", MEMORY_SIZE),
}

// State is the run state of a machine.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING = State(0) // running
	STATE_HALTED  = State(1) // halted
)

// Machine is the complete state of a risa16 processor: register file,
// program counter, memory, flags and run state. A machine is only mutated by
// Step and Execute.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Register [REGISTER_COUNT]uint16 // Register file.
	Pc       uint16                 // Program counter.
	Memory   [MEMORY_SIZE]byte      // Linear memory.
	Zero     bool                   // Zero flag.
	Carry    bool                   // Carry (or borrow) flag.
	State    State                  // Run state.

	Ticks int // Instructions executed since reset.
}

// NewMachine creates a zeroed, running machine.
func NewMachine() (m *Machine) {
	m = &Machine{}
	m.Reset()

	return
}

// Defines for the machine
func (m *Machine) Defines() iter.Seq2[string, string] {
	return maps.All(_machine_defines)
}

// Reset clears registers, memory and flags, sets the program counter to 0
// and the run state to running.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("cpu: reset")
	}

	clear(m.Register[:])
	clear(m.Memory[:])
	m.Pc = 0
	m.Zero = false
	m.Carry = false
	m.State = STATE_RUNNING
	m.Ticks = 0
}

// Load copies a program byte stream into memory at address 0.
func (m *Machine) Load(code []byte) (err error) {
	if len(code) > len(m.Memory) {
		err = ErrProgramSize
		return
	}

	copy(m.Memory[:], code)

	if m.Verbose {
		log.Printf("cpu: loaded %d bytes", len(code))
	}

	return
}

// Halted returns true once the machine has stopped.
func (m *Machine) Halted() bool {
	return m.State == STATE_HALTED
}

// Word returns the big-endian word at addr.
func (m *Machine) Word(addr uint16) (value uint16, err error) {
	err = checkWord(addr)
	if err != nil {
		return
	}

	value = uint16(m.Memory[addr])<<8 | uint16(m.Memory[addr+1])
	return
}

// setWord stores value big-endian at addr.
func (m *Machine) setWord(addr uint16, value uint16) (err error) {
	err = checkWord(addr)
	if err != nil {
		return
	}

	m.Memory[addr] = byte(value >> 8)
	m.Memory[addr+1] = byte(value)
	return
}

// checkRegister validates register indices.
func checkRegister(regs ...uint8) (err error) {
	for _, reg := range regs {
		if int(reg) >= REGISTER_COUNT {
			err = &ErrRegisterInvalid{Reg: reg}
			return
		}
	}
	return
}

// checkAddress validates a jump target.
func checkAddress(addr uint16) (err error) {
	if int(addr) >= MEMORY_SIZE {
		err = &ErrAddressInvalid{Addr: addr}
	}
	return
}

// checkWord validates both bytes of a word access.
func checkWord(addr uint16) (err error) {
	if int(addr) >= MEMORY_SIZE || int(addr)+1 >= MEMORY_SIZE {
		err = &ErrAddressInvalid{Addr: addr}
	}
	return
}

// String returns the current machine state as a register dump.
func (m *Machine) String() (text string) {
	flag := func(set bool) string {
		if set {
			return "1"
		}
		return "0"
	}

	text += fmt.Sprintf("% 5s: %v\n", "state", m.State)
	text += fmt.Sprintf("% 5s: %04X\n", "pc", m.Pc)
	text += fmt.Sprintf("% 5s: %v\n", "zero", flag(m.Zero))
	text += fmt.Sprintf("% 5s: %v\n", "carry", flag(m.Carry))
	for n, val := range m.Register {
		text += fmt.Sprintf("% 5s: %04X\n", fmt.Sprintf("r%d", n), val)
	}

	return
}
