package cpu

// Decode decodes the instruction at pc in mem, returning the instruction and
// its encoded length. Decode never modifies mem.
//
// Errors are ErrOpcode for an opcode outside the instruction set, and
// *ErrOutOfBounds when the opcode or one of its operand bytes lies past the
// end of mem.
func Decode(mem []byte, pc uint16) (inst Instruction, length int, err error) {
	index := int(pc)
	if index >= len(mem) {
		err = &ErrOutOfBounds{Pc: pc, Field: "opcode"}
		return
	}

	op := Opcode(mem[index])
	if !op.Valid() {
		err = ErrOpcode{Pc: pc, Byte: byte(op)}
		return
	}

	index++

	var regs []uint8
	var words []uint16
	for _, operand := range op.Operands() {
		switch operand.Field {
		case FIELD_REG:
			if index >= len(mem) {
				err = &ErrOutOfBounds{Pc: pc, Field: operand.Name}
				return
			}
			regs = append(regs, mem[index])
		case FIELD_WORD:
			if index >= len(mem) {
				err = &ErrOutOfBounds{Pc: pc, Field: operand.Name + "_hi"}
				return
			}
			if index+1 >= len(mem) {
				err = &ErrOutOfBounds{Pc: pc, Field: operand.Name + "_lo"}
				return
			}
			words = append(words, uint16(mem[index])<<8|uint16(mem[index+1]))
		}
		index += operand.Size()
	}

	switch op {
	case OP_MOVIMM:
		inst = MoveImmediate{Reg: regs[0], Imm: words[0]}
	case OP_MOV:
		inst = MoveRegister{Dst: regs[0], Src: regs[1]}
	case OP_LOAD:
		inst = LoadFromMemory{Reg: regs[0], Addr: words[0]}
	case OP_STORE:
		inst = StoreToMemory{Addr: words[0], Reg: regs[0]}
	case OP_ADD:
		inst = Add{Dst: regs[0], Src: regs[1]}
	case OP_SUB:
		inst = Subtract{Dst: regs[0], Src: regs[1]}
	case OP_CMP:
		inst = Compare{A: regs[0], B: regs[1]}
	case OP_JMP:
		inst = Jump{Addr: words[0]}
	case OP_JMPZ:
		inst = JumpIfZero{Addr: words[0]}
	case OP_JMPNZ:
		inst = JumpIfNotZero{Addr: words[0]}
	case OP_HALT:
		inst = Halt{}
	}

	length = op.Len()

	return
}

// Disassemble decodes mem from address 0 until the end of the buffer or the
// first decode error. Decode errors are returned along with the
// instructions decoded before them.
func Disassemble(mem []byte) (insts []Instruction, err error) {
	var pc int
	for pc < len(mem) && pc <= 0xffff {
		var inst Instruction
		var length int
		inst, length, err = Decode(mem, uint16(pc))
		if err != nil {
			return
		}
		insts = append(insts, inst)
		pc += length
	}

	return
}
