package nes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCPU() *CPU {
	bus := NewBus(false, false)
	return bus.Cpu
}

func TestLDAImmediateSetsZeroFlag(t *testing.T) {
	c := newTestCPU()
	c.LoadProgram([]byte{0xA9, 0x00}, 0x8000)
	c.Reset()

	_, err := c.Step()
	require.NoError(t, err)

	require.EqualValues(t, 0, c.A)
	require.True(t, c.GetFlag(FlagZ))
	require.False(t, c.GetFlag(FlagN))
}

func TestLDAImmediateSetsNegativeFlag(t *testing.T) {
	c := newTestCPU()
	c.LoadProgram([]byte{0xA9, 0x91}, 0x8000)
	c.Reset()

	_, err := c.Step()
	require.NoError(t, err)

	require.EqualValues(t, 0x91, c.A)
	require.False(t, c.GetFlag(FlagZ))
	require.True(t, c.GetFlag(FlagN))
}

func TestADCOverflowCorners(t *testing.T) {
	c := newTestCPU()
	c.LoadProgram([]byte{0x69, 0x01}, 0x8000)
	c.Reset()
	c.A = 0x7F
	c.SetFlag(FlagC, false)

	_, err := c.Step()
	require.NoError(t, err)
	require.EqualValues(t, 0x80, c.A)
	require.False(t, c.GetFlag(FlagC))
	require.False(t, c.GetFlag(FlagZ))
	require.True(t, c.GetFlag(FlagV))
	require.True(t, c.GetFlag(FlagN))
}

func TestADCCarryOut(t *testing.T) {
	c := newTestCPU()
	c.LoadProgram([]byte{0x69, 0x01}, 0x8000)
	c.Reset()
	c.A = 0xFF
	c.SetFlag(FlagC, false)

	_, err := c.Step()
	require.NoError(t, err)
	require.EqualValues(t, 0x00, c.A)
	require.True(t, c.GetFlag(FlagC))
	require.True(t, c.GetFlag(FlagZ))
	require.False(t, c.GetFlag(FlagV))
	require.False(t, c.GetFlag(FlagN))
}

func TestBCCForwardAndWrap(t *testing.T) {
	c := newTestCPU()
	c.LoadProgram([]byte{0x90, 0x01}, 0x8000)
	c.Reset()
	c.PC = 0x8000
	c.SetFlag(FlagC, false)
	_, err := c.Step()
	require.NoError(t, err)
	require.EqualValues(t, 0x8003, c.PC)

	c2 := newTestCPU()
	c2.LoadProgram([]byte{0x90, 0x80}, 0x8000)
	c2.Reset()
	c2.PC = 0x8000
	c2.SetFlag(FlagC, false)
	_, err = c2.Step()
	require.NoError(t, err)
	require.EqualValues(t, 0x7F82, c2.PC)

	c3 := newTestCPU()
	c3.LoadProgram([]byte{0x90, 0xFF}, 0x8000)
	c3.Reset()
	c3.PC = 0x8000
	c3.SetFlag(FlagC, true)
	_, err = c3.Step()
	require.NoError(t, err)
	require.EqualValues(t, 0x8002, c3.PC)
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c := newTestCPU()
	c.LoadProgram([]byte{0x6C, 0xFF, 0x30}, 0x8000)
	c.Reset()
	c.bus.Write(0x30FF, 0x34)
	c.bus.Write(0x3000, 0x12)

	_, err := c.Step()
	require.NoError(t, err)
	require.EqualValues(t, 0x1234, c.PC)
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c := newTestCPU()
	c.LoadProgram([]byte{0x20, 0x12, 0x34}, 0x8000)
	c.Reset()
	c.bus.Write(0x3412, 0x60) // RTS

	_, err := c.Step()
	require.NoError(t, err)
	require.EqualValues(t, 0x3412, c.PC)

	_, err = c.Step()
	require.NoError(t, err)
	require.EqualValues(t, 0x8003, c.PC)
}

func TestStackDiscipline(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	startSP := c.SP

	c.Push8(0x11)
	c.Push8(0x22)
	c.Push8(0x33)

	require.EqualValues(t, 0x33, c.Pop8())
	require.EqualValues(t, 0x22, c.Pop8())
	require.EqualValues(t, 0x11, c.Pop8())
	require.Equal(t, startSP, c.SP)
}

func TestStatusReservedBitAlwaysSet(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	c.SetFlag(FlagC, true)
	require.NotZero(t, c.P&0x20)

	c.setFlagByte(0x00)
	require.NotZero(t, c.P&0x20)
}

func TestUnknownOpcodeIsReported(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	// $12 is one of the duplicate KIL/JAM slots real 6502 hardware exposes;
	// this catalog only models the canonical $02 KIL and leaves it (along
	// with the other duplicate-KIL bytes and unstable opcodes like XAA,
	// ARR, and TAS) unassigned.
	c.bus.Write(0x8000, 0x12)
	c.PC = 0x8000

	_, err := c.Step()
	require.Error(t, err)
	var unk *UnknownOpcodeError
	require.ErrorAs(t, err, &unk)
	require.EqualValues(t, 0x12, unk.Opcode)
}

func TestKILHalts(t *testing.T) {
	c := newTestCPU()
	c.LoadProgram([]byte{0x02}, 0x8000)
	c.Reset()

	_, err := c.Step()
	require.Error(t, err)
	var halt *HaltError
	require.ErrorAs(t, err, &halt)
	require.True(t, c.Halted())
}
