package nes

// AddressingMode identifies one of the thirteen operand-fetch shapes an
// instruction can use. Unlike the teacher's original enum, Accumulator gets
// its own value instead of being folded into Implied.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	Relative
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

// operandSize is the number of bytes consumed after the opcode byte itself.
var operandSize = map[AddressingMode]int{
	Implied:         0,
	Accumulator:     0,
	Immediate:       1,
	Relative:        1,
	ZeroPage:        1,
	ZeroPageX:       1,
	ZeroPageY:       1,
	Absolute:        2,
	AbsoluteX:       2,
	AbsoluteY:       2,
	Indirect:        2,
	IndexedIndirect: 1,
	IndirectIndexed: 1,
}

// InstructionSize returns the total encoded length (opcode + operand) of an
// instruction using the given mode.
func InstructionSize(mode AddressingMode) int {
	return 1 + operandSize[mode]
}

// ReadParam pulls the operand bytes for mode out of mem starting at pc+1 and
// returns them packed little-endian, along with whether the mode reads an
// operand at all.
func ReadParam(mode AddressingMode, mem []byte, pc uint16) (uint16, bool) {
	n := operandSize[mode]
	switch n {
	case 0:
		return 0, false
	case 1:
		return uint16(mem[int(pc)+1]), true
	case 2:
		lo := uint16(mem[int(pc)+1])
		hi := uint16(mem[int(pc)+2])
		return lo | hi<<8, true
	}
	return 0, false
}

// OperandAddr computes the effective address for modes that have one.
// It is meaningless (and returns 0) for Implied, Accumulator, Immediate, and
// Relative.
func OperandAddr(mode AddressingMode, c *CPU, param uint16) uint16 {
	switch mode {
	case ZeroPage:
		return param & 0xFF
	case ZeroPageX:
		return (param + uint16(c.X)) & 0xFF
	case ZeroPageY:
		return (param + uint16(c.Y)) & 0xFF
	case Absolute:
		return param
	case AbsoluteX:
		return param + uint16(c.X)
	case AbsoluteY:
		return param + uint16(c.Y)
	case Indirect:
		return readIndirectWithPageBug(c, param)
	case IndexedIndirect:
		ptr := (param + uint16(c.X)) & 0xFF
		lo := uint16(c.bus.Read(ptr))
		hi := uint16(c.bus.Read((ptr + 1) & 0xFF))
		return lo | hi<<8
	case IndirectIndexed:
		lo := uint16(c.bus.Read(param & 0xFF))
		hi := uint16(c.bus.Read((param + 1) & 0xFF))
		base := lo | hi<<8
		// Y is added to the full 16-bit pointer, after the zero-page-wrapped
		// fetch above, not to the pointer's low byte before widening.
		return base + uint16(c.Y)
	}
	return 0
}

// readIndirectWithPageBug resolves the target of JMP ($xxxx), reproducing
// the original hardware bug: if the pointer's low byte is 0xFF, the high
// byte is fetched from the start of the same page instead of the next one.
func readIndirectWithPageBug(c *CPU, ptr uint16) uint16 {
	lo := uint16(c.bus.Read(ptr))
	var hiAddr uint16
	if ptr&0xFF == 0xFF {
		hiAddr = ptr & 0xFF00
	} else {
		hiAddr = ptr + 1
	}
	hi := uint16(c.bus.Read(hiAddr))
	return lo | hi<<8
}

// OperandValue returns the byte value an instruction operates on for the
// given mode. For Accumulator it returns A; for Immediate it returns the raw
// param byte; for everything else it dereferences OperandAddr.
func OperandValue(mode AddressingMode, c *CPU, param uint16) byte {
	switch mode {
	case Accumulator:
		return c.A
	case Immediate, Relative:
		return byte(param)
	default:
		return c.bus.Read(OperandAddr(mode, c, param))
	}
}
