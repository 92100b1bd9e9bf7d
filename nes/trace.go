package nes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// reTraceLine parses a golden-log line of the form:
//
//	PC  BB BB BB  MNEMONIC OPERAND  A:hh X:hh Y:hh P:hh SP:hh
//
// A trailing "PPU:..." column, if present, is ignored.
var reTraceLine = regexp.MustCompile(
	`^([0-9A-Fa-f]{4})\s+((?:[0-9A-Fa-f]{2}\s*){1,3})\s+(.*?)\s+` +
		`A:([0-9A-Fa-f]{2})\s+X:([0-9A-Fa-f]{2})\s+Y:([0-9A-Fa-f]{2})\s+` +
		`P:([0-9A-Fa-f]{2})\s+SP:([0-9A-Fa-f]{2})(?:\s+PPU:.*)?\s*$`)

// ParseTraceLine parses one golden-log line into the CPUState it describes.
// The disassembly column holds the mnemonic, its operand (at most one more
// whitespace-free token — RenderInstruction never puts a space inside an
// operand), and optionally a trailing effective-address annotation some
// loggers emit (e.g. "@ 80 = 0200 = 80"), which is always introduced by a
// literal "@" token. Instruction keeps the full mnemonic+operand text so
// CompareTrace can tell apart instructions that share a mnemonic but decode
// to different addressing modes or operands; Mnemonic keeps just the first
// token for callers that only care about the opcode family.
func ParseTraceLine(line string) (CPUState, error) {
	m := reTraceLine.FindStringSubmatch(line)
	if m == nil {
		return CPUState{}, fmt.Errorf("nes: unparseable trace line: %q", line)
	}

	pc := hex16(m[1])
	fields := strings.Fields(m[3])

	var mnemonic, instruction string
	switch {
	case len(fields) == 0:
	case len(fields) == 1 || fields[1] == "@":
		mnemonic = fields[0]
		instruction = fields[0]
	default:
		mnemonic = fields[0]
		instruction = fields[0] + " " + fields[1]
	}

	opcode, operand, _ := parseByteColumn(m[2])

	return CPUState{
		PC:          pc,
		Opcode:      opcode,
		Operand:     operand,
		Mnemonic:    mnemonic,
		Instruction: instruction,
		A:           hex8(m[4]),
		X:           hex8(m[5]),
		Y:           hex8(m[6]),
		P:           hex8(m[7]),
		SP:          hex8(m[8]),
	}, nil
}

// parseByteColumn parses the golden log's raw instruction-bytes column
// ("BB", "BB BB", or "BB BB BB") into an opcode byte and, for 2- or 3-byte
// forms, a little-endian operand — the same encoding CPU.Step fetches
// straight off the bus, so the two are directly comparable.
func parseByteColumn(col string) (opcode byte, operand uint16, hasOperand bool) {
	fields := strings.Fields(col)
	if len(fields) == 0 {
		return 0, 0, false
	}
	opcode = hex8(fields[0])
	switch len(fields) {
	case 2:
		operand = uint16(hex8(fields[1]))
		hasOperand = true
	case 3:
		operand = uint16(hex8(fields[1])) | uint16(hex8(fields[2]))<<8
		hasOperand = true
	}
	return opcode, operand, hasOperand
}

func hex8(s string) byte {
	v, _ := strconv.ParseUint(s, 16, 8)
	return byte(v)
}

func hex16(s string) uint16 {
	v, _ := strconv.ParseUint(s, 16, 16)
	return uint16(v)
}

// CompareTrace steps cpu once per non-blank line of golden, asserting that
// the resulting CPUState matches the line's parsed fields. It stops and
// returns a *TestFailed on the first mismatch, and also a *TestFailed (with
// the step error in Detail) if cpu.Step fails before the golden log is
// exhausted. A line that does not parse is returned as ParseTraceLine's error.
func CompareTrace(golden string, cpu *CPU) error {
	lineNo := 0
	for _, raw := range strings.Split(golden, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lineNo++

		expected, err := ParseTraceLine(line)
		if err != nil {
			return err
		}

		actual, stepErr := cpu.Step()
		if stepErr != nil {
			return &TestFailed{
				LineNo: lineNo,
				Detail: fmt.Sprintf("cpu halted before golden log was exhausted: %v", stepErr),
			}
		}

		if mismatch := diffState(expected, actual); mismatch != "" {
			expCopy, actCopy := expected, actual
			return &TestFailed{
				LineNo:   lineNo,
				Expected: &expCopy,
				Actual:   &actCopy,
				Detail:   fmt.Sprintf("%s\n%s", mismatch, spew.Sdump(expected, actual)),
			}
		}
	}
	return nil
}

func diffState(expected, actual CPUState) string {
	switch {
	case expected.PC != actual.PC:
		return fmt.Sprintf("PC: expected $%04X, got $%04X", expected.PC, actual.PC)
	case expected.Opcode != actual.Opcode:
		return fmt.Sprintf("opcode: expected $%02X, got $%02X", expected.Opcode, actual.Opcode)
	case expected.Operand != actual.Operand:
		return fmt.Sprintf("operand: expected $%04X, got $%04X", expected.Operand, actual.Operand)
	case expected.Instruction != actual.Instruction:
		return fmt.Sprintf("instruction: expected %q, got %q", expected.Instruction, actual.Instruction)
	case expected.A != actual.A:
		return fmt.Sprintf("A: expected $%02X, got $%02X", expected.A, actual.A)
	case expected.X != actual.X:
		return fmt.Sprintf("X: expected $%02X, got $%02X", expected.X, actual.X)
	case expected.Y != actual.Y:
		return fmt.Sprintf("Y: expected $%02X, got $%02X", expected.Y, actual.Y)
	case expected.P != actual.P:
		return fmt.Sprintf("P: expected $%02X, got $%02X", expected.P, actual.P)
	case expected.SP != actual.SP:
		return fmt.Sprintf("SP: expected $%02X, got $%02X", expected.SP, actual.SP)
	}
	return ""
}
