package nes

import "fmt"

// UnknownOpcodeError is returned by the decoder when it encounters a byte
// that has no entry in the instruction catalog.
type UnknownOpcodeError struct {
	Opcode byte
	Addr   uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode $%02X at $%04X", e.Opcode, e.Addr)
}

// AssemblerError is returned by the assembler for any syntactic or semantic
// problem in a source listing: unknown mnemonic, illegal addressing mode,
// unresolved label, or an unparseable integer literal.
type AssemblerError struct {
	Line   int
	Detail string
}

func (e *AssemblerError) Error() string {
	return fmt.Sprintf("assembler error (line %d): %s", e.Line, e.Detail)
}

// RangeError is returned when a relative branch target does not fit in a
// signed 8-bit displacement.
type RangeError struct {
	Line   int
	Target int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("branch target out of range on line %d: displacement %d does not fit in -128..127", e.Line, e.Target)
}

// HaltError is surfaced at the Step/RunWithCallback boundary when the CPU
// halts, either because it executed KIL or because the driving callback
// requested a stop. It is not necessarily a failure; callers distinguish
// intentional halts from real errors via errors.As.
type HaltError struct {
	PC     uint16
	Reason string
}

func (e *HaltError) Error() string {
	return fmt.Sprintf("cpu halted at $%04X: %s", e.PC, e.Reason)
}

// TestFailed is returned by the trace comparator on the first mismatch
// between a golden log line and the CPU's actual state.
type TestFailed struct {
	LineNo   int
	Expected *CPUState
	Actual   *CPUState
	Detail   string
}

func (e *TestFailed) Error() string {
	return fmt.Sprintf("trace mismatch at line %d: %s", e.LineNo, e.Detail)
}
