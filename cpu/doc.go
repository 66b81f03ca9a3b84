// Package cpu implements the LS-8 microprocessor, its program loader and
// its assembler.
//
// The CPU consists of a program counter (PC), 256 bytes of memory, eight
// 8-bit registers (r0-r7, where r7 is the stack pointer), a flags register,
// and an ALU. Every instruction is a single opcode byte followed by zero,
// one or two operand bytes. The opcode byte is a set of bitfields:
//
//	AABCDDDD
//	|| | +--- identifier, indexes a dispatch table
//	|| +----- sets PC: the instruction moves the PC itself
//	|+------- ALU: identifier indexes the ALU table
//	+-------- operand count (0-2)
//
// The assembler accepts a mnemonic assembly language with labels, equates,
// and compile-time expression evaluation.
package cpu
