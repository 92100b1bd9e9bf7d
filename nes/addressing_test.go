package nes

import "testing"

func TestZeroPageXWrapsWithinZeroPage(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	c.X = 0xFF

	addr := OperandAddr(ZeroPageX, c, 0x80)
	if addr != 0x7F {
		t.Errorf("ZeroPageX EA = $%04X, want $007F (wrapped)", addr)
	}
}

func TestIndexedIndirectWrapsPointerFetchWithinZeroPage(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	c.X = 0x01
	// zp operand 0xFF, + X wraps to 0x00; pointer bytes at $00/$01 within
	// the zero page, not $100/$101.
	c.bus.Write(0x00, 0x34)
	c.bus.Write(0x01, 0x12)

	addr := OperandAddr(IndexedIndirect, c, 0xFF)
	if addr != 0x1234 {
		t.Errorf("IndexedIndirect EA = $%04X, want $1234", addr)
	}
}

func TestIndirectIndexedAddsYAfterWideningNotBeforeWrap(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	c.Y = 0x10
	// Pointer stored at zp $10, zero-page-wrapped fetch (no wrap needed
	// here), widened to $12FF, then Y added to the full 16-bit value.
	c.bus.Write(0x10, 0xFF)
	c.bus.Write(0x11, 0x12)

	addr := OperandAddr(IndirectIndexed, c, 0x10)
	if addr != 0x130F {
		t.Errorf("IndirectIndexed EA = $%04X, want $130F ($12FF + $10)", addr)
	}
}

func TestIndirectIndexedPointerFetchWrapsInZeroPage(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	c.Y = 0x00
	// zp operand is $FF: low byte at $FF, high byte must wrap to $00, not
	// spill into $0100.
	c.bus.Write(0xFF, 0x00)
	c.bus.Write(0x00, 0x80)

	addr := OperandAddr(IndirectIndexed, c, 0xFF)
	if addr != 0x8000 {
		t.Errorf("IndirectIndexed EA = $%04X, want $8000 (pointer fetch wraps at zero page boundary)", addr)
	}
}

func TestIndirectPageBoundaryBug(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	c.bus.Write(0x02FF, 0x34)
	c.bus.Write(0x0200, 0x12) // NOT 0x0300 — the bug reads from the same page
	c.bus.Write(0x0300, 0xFF) // sentinel: if the bug were absent, this would be read instead

	addr := OperandAddr(Indirect, c, 0x02FF)
	if addr != 0x1234 {
		t.Errorf("Indirect EA = $%04X, want $1234 (page-wrap bug)", addr)
	}
}

func TestAbsoluteXWrapsAtSixteenBits(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	c.X = 0x02

	addr := OperandAddr(AbsoluteX, c, 0xFFFF)
	if addr != 0x0001 {
		t.Errorf("AbsoluteX EA = $%04X, want $0001 (16-bit wrap)", addr)
	}
}

func TestOperandValueAccumulatorAndImmediate(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	c.A = 0x42

	if v := OperandValue(Accumulator, c, 0); v != 0x42 {
		t.Errorf("Accumulator operand value = $%02X, want $42", v)
	}
	if v := OperandValue(Immediate, c, 0x91); v != 0x91 {
		t.Errorf("Immediate operand value = $%02X, want $91", v)
	}
}
