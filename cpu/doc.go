// Package cpu implements the processor and assembler for the risa16 system.
//
// The processor has sixteen 16-bit registers (r0-r15), a 16-bit program
// counter, 4096 bytes of big-endian memory, and zero and carry flags. Every
// instruction is a one byte opcode followed by register bytes and 16-bit
// words, from one to four bytes in total.
//
// The assembler translates risa16 assembly text into a byte stream in two
// passes, supporting forward labels, equates and compile-time $(...)
// expression evaluation. Decode and Disassemble recover instructions from
// a byte stream.
package cpu
