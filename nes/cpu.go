package nes

import (
	"fmt"
	"log"
)

// Status flag bit positions within the packed P register.
type StatusFlag byte

const (
	FlagC StatusFlag = 1 << 0 // Carry
	FlagZ StatusFlag = 1 << 1 // Zero
	FlagI StatusFlag = 1 << 2 // Interrupt disable
	FlagD StatusFlag = 1 << 3 // Decimal (inert, still stored)
	FlagB StatusFlag = 1 << 4 // Break (pushed-copy only)
	flagU StatusFlag = 1 << 5 // Unused, always reads 1
	FlagV StatusFlag = 1 << 6 // Overflow
	FlagN StatusFlag = 1 << 7 // Negative
)

const (
	resetVector uint16 = 0xFFFC
	irqVector   uint16 = 0xFFFE
	nmiVector   uint16 = 0xFFFA
	stackBase   uint16 = 0x0100
)

// CPU is a MOS 6502-family execution engine. It owns only the architectural
// register file; all memory lives behind the Bus interface.
type CPU struct {
	A, X, Y byte
	SP      byte
	PC      uint16
	P       byte

	bus        Bus
	halted     bool
	haltReason string
	Logger     *log.Logger

	catalog *Catalog

	// lastState is the snapshot captured after the most recently executed
	// instruction; Step returns it again once the CPU has halted.
	lastState CPUState
}

// Bus is the memory interface the CPU core requires. The full 64KiB
// flat-address-space implementation lives in bus.go; CPU depends only on
// this narrow interface so it can be driven by a stub in tests.
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// NewCPU constructs a CPU wired to bus, using the package-wide instruction
// catalog. logger may be nil; a nil logger disables step tracing.
func NewCPU(bus Bus, logger *log.Logger) *CPU {
	return &CPU{
		bus:     bus,
		catalog: DefaultCatalog(),
		Logger:  logger,
	}
}

// Read16 performs a little-endian 16-bit read through the bus.
func (c *CPU) Read16(addr uint16) uint16 {
	lo := uint16(c.bus.Read(addr))
	hi := uint16(c.bus.Read(addr + 1))
	return lo | hi<<8
}

// Write16 performs a little-endian 16-bit write through the bus.
func (c *CPU) Write16(addr uint16, v uint16) {
	c.bus.Write(addr, byte(v))
	c.bus.Write(addr+1, byte(v>>8))
}

// Push8 pushes a byte onto the stack and decrements SP.
func (c *CPU) Push8(v byte) {
	c.bus.Write(stackBase+uint16(c.SP), v)
	c.SP--
}

// Pop8 increments SP and pops a byte off the stack.
func (c *CPU) Pop8() byte {
	c.SP++
	return c.bus.Read(stackBase + uint16(c.SP))
}

// Push16 pushes a 16-bit value high-byte-first, matching real hardware push
// order, so Pop16 can read it back as a single little-endian value.
func (c *CPU) Push16(v uint16) {
	c.Push8(byte(v >> 8))
	c.Push8(byte(v))
}

// Pop16 pops a 16-bit value pushed by Push16.
func (c *CPU) Pop16() uint16 {
	lo := uint16(c.Pop8())
	hi := uint16(c.Pop8())
	return lo | hi<<8
}

// GetFlag reports whether the named flag is set in P.
func (c *CPU) GetFlag(f StatusFlag) bool {
	return c.P&byte(f) != 0
}

// SetFlag sets or clears the named flag in P, always forcing the unused bit
// 5 to 1.
func (c *CPU) SetFlag(f StatusFlag, on bool) {
	if on {
		c.P |= byte(f)
	} else {
		c.P &^= byte(f)
	}
	c.P |= byte(flagU)
}

// setFlagByte replaces P wholesale (used by PLP/RTI), forcing bit 5 to 1.
func (c *CPU) setFlagByte(p byte) {
	c.P = p | byte(flagU)
}

// setZN updates the Z and N flags from v, the canonical "result" update used
// by loads, transfers, logical ops, and increments/decrements.
func (c *CPU) setZN(v byte) {
	c.SetFlag(FlagZ, v == 0)
	c.SetFlag(FlagN, v&0x80 != 0)
}

// Halted reports whether the CPU has stopped executing (via KIL or an
// external halt request).
func (c *CPU) Halted() bool {
	return c.halted
}

// Halt stops the CPU; subsequent Step calls return a HaltError.
func (c *CPU) Halt(reason string) {
	c.halted = true
	c.haltReason = reason
}

// Reset sets the CPU to its documented power-up register state and loads PC
// from the reset vector.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = byte(flagU) | byte(FlagI)
	c.PC = c.Read16(resetVector)
	c.halted = false
}

// LoadProgram copies program into memory starting at startAddr and points
// the reset vector at it, mirroring the external load contract: callers
// still need to call Reset afterward to pick up PC.
func (c *CPU) LoadProgram(program []byte, startAddr uint16) {
	for i, b := range program {
		c.bus.Write(startAddr+uint16(i), b)
	}
	c.Write16(resetVector, startAddr)
}

// IRQ services a maskable interrupt request unless I is set.
func (c *CPU) IRQ() {
	if c.GetFlag(FlagI) {
		return
	}
	c.Push16(c.PC)
	c.Push8(c.P &^ byte(FlagB))
	c.SetFlag(FlagI, true)
	c.PC = c.Read16(irqVector)
}

// NMI services a non-maskable interrupt unconditionally.
func (c *CPU) NMI() {
	c.Push16(c.PC)
	c.Push8(c.P &^ byte(FlagB))
	c.SetFlag(FlagI, true)
	c.PC = c.Read16(nmiVector)
}

// CPUState is a point-in-time snapshot of the CPU, used by the trace
// comparator and debug displays.
type CPUState struct {
	PC          uint16
	Opcode      byte
	Operand     uint16
	Mnemonic    string
	Instruction string // full rendered form, e.g. "CMP ($80,X)"
	Mode        AddressingMode
	A, X, Y, SP byte
	P           byte
	HaltReason  string
}

// Step decodes and executes exactly one instruction at PC. It returns the
// decoded instruction's mnemonic-level state and any error; a HaltError is
// returned (and the state still populated) when a KIL opcode executes.
func (c *CPU) Step() (CPUState, error) {
	if c.halted {
		return c.lastState, &HaltError{PC: c.PC, Reason: c.haltReason}
	}

	pc := c.PC
	opcode := c.bus.Read(pc)
	inst, ok := c.catalog.ByOpcode[opcode]
	if !ok {
		return CPUState{}, &UnknownOpcodeError{Opcode: opcode, Addr: pc}
	}

	// ReadParam wants a contiguous byte slice, which the bus doesn't expose;
	// fetch operand bytes one at a time instead.
	var operand uint16
	switch operandSize[inst.Mode] {
	case 1:
		operand = uint16(c.bus.Read(pc + 1))
	case 2:
		lo := uint16(c.bus.Read(pc + 1))
		hi := uint16(c.bus.Read(pc + 2))
		operand = lo | hi<<8
	}

	size := uint16(InstructionSize(inst.Mode))
	c.PC += size

	inst.Exec(c, inst.Mode, operand)

	rendered := RenderInstruction(inst.Name, inst.Mode, pc, operand)
	state := CPUState{
		PC:          pc,
		Opcode:      opcode,
		Operand:     operand,
		Mnemonic:    inst.Name,
		Instruction: rendered,
		Mode:        inst.Mode,
		A:           c.A, X: c.X, Y: c.Y, SP: c.SP, P: c.P,
		HaltReason: c.haltReason,
	}
	c.lastState = state

	if c.Logger != nil {
		c.Logger.Println(rendered + fmt.Sprintf("  A:%02X X:%02X Y:%02X P:%02X SP:%02X", c.A, c.X, c.Y, c.P, c.SP))
	}

	if c.halted {
		return state, &HaltError{PC: c.PC, Reason: c.haltReason}
	}
	return state, nil
}

// RunWithCallback steps the CPU repeatedly, invoking before each step, until
// the CPU halts or before returns false. It returns the terminal error: a
// HaltError on a normal stop, or a decode error.
func (c *CPU) RunWithCallback(before func(c *CPU) bool) error {
	for {
		if before != nil && !before(c) {
			return &HaltError{PC: c.PC, Reason: "callback requested stop"}
		}
		_, err := c.Step()
		if err != nil {
			return err
		}
	}
}
