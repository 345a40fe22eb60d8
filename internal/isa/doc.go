// Package isa describes the 8086 MOV subset: register and effective address
// tables, bit field extraction and the decoded instruction model.
//
// Instruction layout (Intel 8086 Family User's Manual, table 4-12):
//
//	[opcode|d|w] [mod|reg|r/m] [disp-lo] [disp-hi] [data-lo] [data-hi]
//
// Multi-byte fields are little endian, the low byte comes first.
package isa
