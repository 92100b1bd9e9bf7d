package nes

// regAccessor is the closed getter/setter pair the Design Notes call for in
// place of trait-object dispatch: instruction groups (loads, stores,
// transfers, compares, increments) are written once as higher-order
// functions parameterized over one of these instead of being duplicated per
// register.
type regAccessor struct {
	Get func(c *CPU) byte
	Set func(c *CPU, v byte)
}

var (
	regA = regAccessor{
		Get: func(c *CPU) byte { return c.A },
		Set: func(c *CPU, v byte) { c.A = v },
	}
	regX = regAccessor{
		Get: func(c *CPU) byte { return c.X },
		Set: func(c *CPU, v byte) { c.X = v },
	}
	regY = regAccessor{
		Get: func(c *CPU) byte { return c.Y },
		Set: func(c *CPU, v byte) { c.Y = v },
	}
	regSP = regAccessor{
		Get: func(c *CPU) byte { return c.SP },
		Set: func(c *CPU, v byte) { c.SP = v },
	}
)

func bool2byte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// opcodeEntry pairs one addressing mode with the opcode byte that selects
// it for some mnemonic.
type opcodeEntry struct {
	mode   AddressingMode
	opcode byte
}

func m(mode AddressingMode, opcode byte) opcodeEntry { return opcodeEntry{mode, opcode} }

// decl expands one mnemonic's exec body across every addressing mode it
// supports, instead of writing one struct literal per opcode byte by hand.
func decl(name string, exec ExecFunc, entries ...opcodeEntry) []Instruction {
	out := make([]Instruction, len(entries))
	for i, e := range entries {
		out[i] = Instruction{Opcode: e.opcode, Name: name, Mode: e.mode, Exec: exec}
	}
	return out
}

// rwTarget abstracts over "operate on the accumulator" vs "operate on a
// memory cell", which ASL/LSR/ROL/ROR (and every unofficial read-modify-
// write opcode) need without duplicating the Accumulator-vs-memory branch
// in each one.
func rwTarget(c *CPU, mode AddressingMode, param uint16) (get func() byte, set func(byte)) {
	if mode == Accumulator {
		return func() byte { return c.A }, func(v byte) { c.A = v }
	}
	addr := OperandAddr(mode, c, param)
	return func() byte { return c.bus.Read(addr) },
		func(v byte) { c.bus.Write(addr, v) }
}

func loadExec(dst regAccessor) ExecFunc {
	return func(c *CPU, mode AddressingMode, param uint16) {
		v := OperandValue(mode, c, param)
		dst.Set(c, v)
		c.setZN(v)
	}
}

func storeExec(src regAccessor) ExecFunc {
	return func(c *CPU, mode AddressingMode, param uint16) {
		addr := OperandAddr(mode, c, param)
		c.bus.Write(addr, src.Get(c))
	}
}

func transferExec(src, dst regAccessor, updateFlags bool) ExecFunc {
	return func(c *CPU, mode AddressingMode, param uint16) {
		v := src.Get(c)
		dst.Set(c, v)
		if updateFlags {
			c.setZN(v)
		}
	}
}

func incDecRegExec(sel regAccessor, delta byte) ExecFunc {
	return func(c *CPU, mode AddressingMode, param uint16) {
		v := sel.Get(c) + delta
		sel.Set(c, v)
		c.setZN(v)
	}
}

func incDecMemExec(delta byte) ExecFunc {
	return func(c *CPU, mode AddressingMode, param uint16) {
		get, set := rwTarget(c, mode, param)
		v := get() + delta
		set(v)
		c.setZN(v)
	}
}

func compareExec(sel regAccessor) ExecFunc {
	return func(c *CPU, mode AddressingMode, param uint16) {
		v := OperandValue(mode, c, param)
		reg := sel.Get(c)
		t := reg - v
		c.SetFlag(FlagC, reg >= v)
		c.SetFlag(FlagZ, reg == v)
		c.SetFlag(FlagN, t&0x80 != 0)
	}
}

func logicalExec(op func(a, b byte) byte) ExecFunc {
	return func(c *CPU, mode AddressingMode, param uint16) {
		v := OperandValue(mode, c, param)
		c.A = op(c.A, v)
		c.setZN(c.A)
	}
}

// adcCore implements ADC's carry/overflow arithmetic; SBC is defined in
// terms of it as ADC against the bitwise complement of the operand, and the
// unofficial RRA/ISB opcodes reuse it too.
func adcCore(c *CPU, v byte) {
	sum := uint16(c.A) + uint16(v) + uint16(bool2byte(c.GetFlag(FlagC)))
	result := byte(sum)
	c.SetFlag(FlagC, sum > 0xFF)
	c.SetFlag(FlagV, (c.A^result)&(v^result)&0x80 != 0)
	c.A = result
	c.setZN(result)
}

func sbcCore(c *CPU, v byte) {
	adcCore(c, ^v)
}

func adcExec(c *CPU, mode AddressingMode, param uint16) {
	adcCore(c, OperandValue(mode, c, param))
}

func sbcExec(c *CPU, mode AddressingMode, param uint16) {
	sbcCore(c, OperandValue(mode, c, param))
}

func aslExec(c *CPU, mode AddressingMode, param uint16) {
	get, set := rwTarget(c, mode, param)
	v := get()
	c.SetFlag(FlagC, v&0x80 != 0)
	v <<= 1
	set(v)
	c.setZN(v)
}

// lsrExec always clears N: the bit shifted into position 7 is always 0, so
// the result can never be negative. A generic setZN would get this right
// too, but the invariant is explicit here because it is easy to break.
func lsrExec(c *CPU, mode AddressingMode, param uint16) {
	get, set := rwTarget(c, mode, param)
	v := get()
	c.SetFlag(FlagC, v&0x01 != 0)
	v >>= 1
	set(v)
	c.SetFlag(FlagZ, v == 0)
	c.SetFlag(FlagN, false)
}

func rolExec(c *CPU, mode AddressingMode, param uint16) {
	get, set := rwTarget(c, mode, param)
	v := get()
	carryIn := bool2byte(c.GetFlag(FlagC))
	c.SetFlag(FlagC, v&0x80 != 0)
	v = (v << 1) | carryIn
	set(v)
	c.setZN(v)
}

func rorExec(c *CPU, mode AddressingMode, param uint16) {
	get, set := rwTarget(c, mode, param)
	v := get()
	carryIn := bool2byte(c.GetFlag(FlagC))
	c.SetFlag(FlagC, v&0x01 != 0)
	v = (v >> 1) | (carryIn << 7)
	set(v)
	c.setZN(v)
}

func bitExec(c *CPU, mode AddressingMode, param uint16) {
	v := OperandValue(mode, c, param)
	c.SetFlag(FlagZ, c.A&v == 0)
	c.SetFlag(FlagV, v&0x40 != 0)
	c.SetFlag(FlagN, v&0x80 != 0)
}

func flagExec(f StatusFlag, on bool) ExecFunc {
	return func(c *CPU, mode AddressingMode, param uint16) {
		c.SetFlag(f, on)
	}
}

func branchExec(cond func(c *CPU) bool) ExecFunc {
	return func(c *CPU, mode AddressingMode, param uint16) {
		if cond(c) {
			disp := int8(byte(param))
			c.PC = uint16(int32(c.PC) + int32(disp))
		}
	}
}

func phaExec(c *CPU, mode AddressingMode, param uint16) { c.Push8(c.A) }

func phpExec(c *CPU, mode AddressingMode, param uint16) {
	c.Push8(c.P | byte(FlagB) | byte(flagU))
}

func plaExec(c *CPU, mode AddressingMode, param uint16) {
	c.A = c.Pop8()
	c.setZN(c.A)
}

func plpExec(c *CPU, mode AddressingMode, param uint16) {
	c.setFlagByte(c.Pop8() &^ byte(FlagB))
}

func jmpExec(c *CPU, mode AddressingMode, param uint16) {
	c.PC = OperandAddr(mode, c, param)
}

// jsrExec pushes the address of JSR's own last byte. Step has already
// advanced PC by the instruction's size (3) before calling Exec, so that
// address is c.PC-1.
func jsrExec(c *CPU, mode AddressingMode, param uint16) {
	retAddr := c.PC - 1
	target := param
	c.Push16(retAddr)
	c.PC = target
}

// rtsExec pops the address JSR pushed and adds one, landing on the
// instruction right after the original JSR.
func rtsExec(c *CPU, mode AddressingMode, param uint16) {
	c.PC = c.Pop16() + 1
}

// brkExec treats BRK as consuming a padding byte beyond its own opcode, so
// the pushed return address is PC+1 past where Step already advanced it.
func brkExec(c *CPU, mode AddressingMode, param uint16) {
	c.Push16(c.PC + 1)
	c.Push8(c.P | byte(FlagB) | byte(flagU))
	c.SetFlag(FlagI, true)
	c.PC = c.Read16(irqVector)
}

func rtiExec(c *CPU, mode AddressingMode, param uint16) {
	c.setFlagByte(c.Pop8() &^ byte(FlagB))
	c.PC = c.Pop16()
}

func nopExec(c *CPU, mode AddressingMode, param uint16) {}

// buildInstructions declares the official instruction set as data: one
// decl() call per mnemonic, covering every addressing mode it supports.
// This replaces the macro-expansion approach the reference implementation
// used for near-identical groups (loads, stores, transfers, branches,
// compares) with a single parameterized body per group.
func buildInstructions() []Instruction {
	var all []Instruction

	all = append(all, decl("LDA", loadExec(regA),
		m(Immediate, 0xA9), m(ZeroPage, 0xA5), m(ZeroPageX, 0xB5), m(Absolute, 0xAD),
		m(AbsoluteX, 0xBD), m(AbsoluteY, 0xB9), m(IndexedIndirect, 0xA1), m(IndirectIndexed, 0xB1))...)
	all = append(all, decl("LDX", loadExec(regX),
		m(Immediate, 0xA2), m(ZeroPage, 0xA6), m(ZeroPageY, 0xB6), m(Absolute, 0xAE), m(AbsoluteY, 0xBE))...)
	all = append(all, decl("LDY", loadExec(regY),
		m(Immediate, 0xA0), m(ZeroPage, 0xA4), m(ZeroPageX, 0xB4), m(Absolute, 0xAC), m(AbsoluteX, 0xBC))...)

	all = append(all, decl("STA", storeExec(regA),
		m(ZeroPage, 0x85), m(ZeroPageX, 0x95), m(Absolute, 0x8D),
		m(AbsoluteX, 0x9D), m(AbsoluteY, 0x99), m(IndexedIndirect, 0x81), m(IndirectIndexed, 0x91))...)
	all = append(all, decl("STX", storeExec(regX),
		m(ZeroPage, 0x86), m(ZeroPageY, 0x96), m(Absolute, 0x8E))...)
	all = append(all, decl("STY", storeExec(regY),
		m(ZeroPage, 0x84), m(ZeroPageX, 0x94), m(Absolute, 0x8C))...)

	all = append(all, decl("TAX", transferExec(regA, regX, true), m(Implied, 0xAA))...)
	all = append(all, decl("TAY", transferExec(regA, regY, true), m(Implied, 0xA8))...)
	all = append(all, decl("TSX", transferExec(regSP, regX, true), m(Implied, 0xBA))...)
	all = append(all, decl("TXA", transferExec(regX, regA, true), m(Implied, 0x8A))...)
	all = append(all, decl("TXS", transferExec(regX, regSP, false), m(Implied, 0x9A))...)
	all = append(all, decl("TYA", transferExec(regY, regA, true), m(Implied, 0x98))...)

	all = append(all, decl("PHA", phaExec, m(Implied, 0x48))...)
	all = append(all, decl("PHP", phpExec, m(Implied, 0x08))...)
	all = append(all, decl("PLA", plaExec, m(Implied, 0x68))...)
	all = append(all, decl("PLP", plpExec, m(Implied, 0x28))...)

	all = append(all, decl("ADC", adcExec,
		m(Immediate, 0x69), m(ZeroPage, 0x65), m(ZeroPageX, 0x75), m(Absolute, 0x6D),
		m(AbsoluteX, 0x7D), m(AbsoluteY, 0x79), m(IndexedIndirect, 0x61), m(IndirectIndexed, 0x71))...)
	all = append(all, decl("SBC", sbcExec,
		m(Immediate, 0xE9), m(ZeroPage, 0xE5), m(ZeroPageX, 0xF5), m(Absolute, 0xED),
		m(AbsoluteX, 0xFD), m(AbsoluteY, 0xF9), m(IndexedIndirect, 0xE1), m(IndirectIndexed, 0xF1))...)

	all = append(all, decl("AND", logicalExec(func(a, b byte) byte { return a & b }),
		m(Immediate, 0x29), m(ZeroPage, 0x25), m(ZeroPageX, 0x35), m(Absolute, 0x2D),
		m(AbsoluteX, 0x3D), m(AbsoluteY, 0x39), m(IndexedIndirect, 0x21), m(IndirectIndexed, 0x31))...)
	all = append(all, decl("ORA", logicalExec(func(a, b byte) byte { return a | b }),
		m(Immediate, 0x09), m(ZeroPage, 0x05), m(ZeroPageX, 0x15), m(Absolute, 0x0D),
		m(AbsoluteX, 0x1D), m(AbsoluteY, 0x19), m(IndexedIndirect, 0x01), m(IndirectIndexed, 0x11))...)
	all = append(all, decl("EOR", logicalExec(func(a, b byte) byte { return a ^ b }),
		m(Immediate, 0x49), m(ZeroPage, 0x45), m(ZeroPageX, 0x55), m(Absolute, 0x4D),
		m(AbsoluteX, 0x5D), m(AbsoluteY, 0x59), m(IndexedIndirect, 0x41), m(IndirectIndexed, 0x51))...)

	all = append(all, decl("ASL", aslExec,
		m(Accumulator, 0x0A), m(ZeroPage, 0x06), m(ZeroPageX, 0x16), m(Absolute, 0x0E), m(AbsoluteX, 0x1E))...)
	all = append(all, decl("LSR", lsrExec,
		m(Accumulator, 0x4A), m(ZeroPage, 0x46), m(ZeroPageX, 0x56), m(Absolute, 0x4E), m(AbsoluteX, 0x5E))...)
	all = append(all, decl("ROL", rolExec,
		m(Accumulator, 0x2A), m(ZeroPage, 0x26), m(ZeroPageX, 0x36), m(Absolute, 0x2E), m(AbsoluteX, 0x3E))...)
	all = append(all, decl("ROR", rorExec,
		m(Accumulator, 0x6A), m(ZeroPage, 0x66), m(ZeroPageX, 0x76), m(Absolute, 0x6E), m(AbsoluteX, 0x7E))...)

	all = append(all, decl("INC", incDecMemExec(1),
		m(ZeroPage, 0xE6), m(ZeroPageX, 0xF6), m(Absolute, 0xEE), m(AbsoluteX, 0xFE))...)
	all = append(all, decl("DEC", incDecMemExec(0xFF),
		m(ZeroPage, 0xC6), m(ZeroPageX, 0xD6), m(Absolute, 0xCE), m(AbsoluteX, 0xDE))...)
	all = append(all, decl("INX", incDecRegExec(regX, 1), m(Implied, 0xE8))...)
	all = append(all, decl("INY", incDecRegExec(regY, 1), m(Implied, 0xC8))...)
	all = append(all, decl("DEX", incDecRegExec(regX, 0xFF), m(Implied, 0xCA))...)
	all = append(all, decl("DEY", incDecRegExec(regY, 0xFF), m(Implied, 0x88))...)

	all = append(all, decl("CMP", compareExec(regA),
		m(Immediate, 0xC9), m(ZeroPage, 0xC5), m(ZeroPageX, 0xD5), m(Absolute, 0xCD),
		m(AbsoluteX, 0xDD), m(AbsoluteY, 0xD9), m(IndexedIndirect, 0xC1), m(IndirectIndexed, 0xD1))...)
	all = append(all, decl("CPX", compareExec(regX),
		m(Immediate, 0xE0), m(ZeroPage, 0xE4), m(Absolute, 0xEC))...)
	all = append(all, decl("CPY", compareExec(regY),
		m(Immediate, 0xC0), m(ZeroPage, 0xC4), m(Absolute, 0xCC))...)

	all = append(all, decl("BIT", bitExec, m(ZeroPage, 0x24), m(Absolute, 0x2C))...)

	all = append(all, decl("CLC", flagExec(FlagC, false), m(Implied, 0x18))...)
	all = append(all, decl("SEC", flagExec(FlagC, true), m(Implied, 0x38))...)
	all = append(all, decl("CLD", flagExec(FlagD, false), m(Implied, 0xD8))...)
	all = append(all, decl("SED", flagExec(FlagD, true), m(Implied, 0xF8))...)
	all = append(all, decl("CLI", flagExec(FlagI, false), m(Implied, 0x58))...)
	all = append(all, decl("SEI", flagExec(FlagI, true), m(Implied, 0x78))...)
	all = append(all, decl("CLV", flagExec(FlagV, false), m(Implied, 0xB8))...)

	all = append(all, decl("BCC", branchExec(func(c *CPU) bool { return !c.GetFlag(FlagC) }), m(Relative, 0x90))...)
	all = append(all, decl("BCS", branchExec(func(c *CPU) bool { return c.GetFlag(FlagC) }), m(Relative, 0xB0))...)
	all = append(all, decl("BEQ", branchExec(func(c *CPU) bool { return c.GetFlag(FlagZ) }), m(Relative, 0xF0))...)
	all = append(all, decl("BNE", branchExec(func(c *CPU) bool { return !c.GetFlag(FlagZ) }), m(Relative, 0xD0))...)
	all = append(all, decl("BMI", branchExec(func(c *CPU) bool { return c.GetFlag(FlagN) }), m(Relative, 0x30))...)
	all = append(all, decl("BPL", branchExec(func(c *CPU) bool { return !c.GetFlag(FlagN) }), m(Relative, 0x10))...)
	all = append(all, decl("BVC", branchExec(func(c *CPU) bool { return !c.GetFlag(FlagV) }), m(Relative, 0x50))...)
	all = append(all, decl("BVS", branchExec(func(c *CPU) bool { return c.GetFlag(FlagV) }), m(Relative, 0x70))...)

	all = append(all, decl("JMP", jmpExec, m(Absolute, 0x4C), m(Indirect, 0x6C))...)
	all = append(all, decl("JSR", jsrExec, m(Absolute, 0x20))...)
	all = append(all, decl("RTS", rtsExec, m(Implied, 0x60))...)
	all = append(all, decl("BRK", brkExec, m(Implied, 0x00))...)
	all = append(all, decl("RTI", rtiExec, m(Implied, 0x40))...)

	// 0x1A/0x3A/0x5A/0x7A/0xDA/0xFA are the unofficial single-byte "dead NOP"
	// duplicates of $EA: no documented mnemonic distinguishes them, so they
	// share nopExec and the NOP name.
	all = append(all, decl("NOP", nopExec,
		m(Implied, 0xEA), m(Implied, 0x1A), m(Implied, 0x3A),
		m(Implied, 0x5A), m(Implied, 0x7A), m(Implied, 0xDA), m(Implied, 0xFA))...)

	return all
}
