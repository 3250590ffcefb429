package cpu

import (
	"log"
)

// Step executes one instruction: decode at the program counter, execute,
// then advance the program counter by the instruction length unless the
// instruction moved it.
//
// Any decode or execute error halts the machine and is returned. Stepping a
// halted machine does nothing.
func (m *Machine) Step() (err error) {
	if m.State == STATE_HALTED {
		return
	}

	inst, length, err := Decode(m.Memory[:], m.Pc)
	if err != nil {
		m.halt(err)
		return
	}

	pc := m.Pc

	err = m.Execute(inst)
	if err != nil {
		return
	}

	m.Ticks++

	if m.State == STATE_HALTED {
		return
	}

	if m.Pc == pc {
		m.Pc += uint16(length)
	}

	return
}

// halt stops the machine after an error.
func (m *Machine) halt(err error) {
	if m.Verbose {
		log.Printf("cpu: halted: %v", err)
	}
	m.State = STATE_HALTED
}

// Execute applies a single decoded instruction to the machine. Operands are
// validated first; an invalid register or address halts the machine, leaves
// registers, memory and flags unchanged, and is returned.
func (m *Machine) Execute(inst Instruction) (err error) {
	defer func() {
		if err != nil {
			m.halt(err)
		}
	}()

	if m.Verbose {
		log.Printf("cpu: %04X: %v", m.Pc, inst)
	}

	reg := &m.Register

	switch in := inst.(type) {
	case MoveImmediate:
		if err = checkRegister(in.Reg); err != nil {
			return
		}
		reg[in.Reg] = in.Imm
	case MoveRegister:
		if err = checkRegister(in.Dst, in.Src); err != nil {
			return
		}
		reg[in.Dst] = reg[in.Src]
	case Add:
		if err = checkRegister(in.Dst, in.Src); err != nil {
			return
		}
		sum := uint32(reg[in.Dst]) + uint32(reg[in.Src])
		m.Carry = sum > 0xffff
		reg[in.Dst] = uint16(sum)
		m.Zero = reg[in.Dst] == 0
	case Subtract:
		if err = checkRegister(in.Dst, in.Src); err != nil {
			return
		}
		m.Carry = reg[in.Dst] < reg[in.Src]
		reg[in.Dst] -= reg[in.Src]
		m.Zero = reg[in.Dst] == 0
	case Compare:
		if err = checkRegister(in.A, in.B); err != nil {
			return
		}
		m.Zero = reg[in.A] == reg[in.B]
		m.Carry = reg[in.A] < reg[in.B]
	case Jump:
		if err = checkAddress(in.Addr); err != nil {
			return
		}
		m.Pc = in.Addr
	case JumpIfZero:
		if err = checkAddress(in.Addr); err != nil {
			return
		}
		if m.Zero {
			m.Pc = in.Addr
		}
	case JumpIfNotZero:
		if err = checkAddress(in.Addr); err != nil {
			return
		}
		if !m.Zero {
			m.Pc = in.Addr
		}
	case StoreToMemory:
		if err = checkWord(in.Addr); err != nil {
			return
		}
		if err = checkRegister(in.Reg); err != nil {
			return
		}
		err = m.setWord(in.Addr, reg[in.Reg])
	case LoadFromMemory:
		if err = checkWord(in.Addr); err != nil {
			return
		}
		if err = checkRegister(in.Reg); err != nil {
			return
		}
		var value uint16
		if value, err = m.Word(in.Addr); err != nil {
			return
		}
		reg[in.Reg] = value
	case Halt:
		m.State = STATE_HALTED
	default:
		err = ErrOpcode{Pc: m.Pc, Byte: byte(inst.Opcode())}
	}

	return
}
