package nes

import (
	"fmt"
	"log"
	"time"

	"github.com/faiface/pixel/pixelgl"
)

// NesBus is the 64KiB flat address space the CPU core executes against. It
// implements the narrow nes.Bus interface the CPU depends on, and adds the
// mirroring and MMIO delegation the full console needs: the CPU core itself
// never knows about RAM mirroring, the PPU, or the cartridge.
type NesBus struct {
	Cpu  *CPU
	Ppu  *Ppu
	Ram  [64 * 1024]byte
	Cart *Cartridge
	Disp *Display

	halted    bool
	isDebug   bool
	isLogging bool
}

const (
	ramMinAddr uint16 = 0x0000
	ramMaxAddr uint16 = 0x1FFF
	ramMirror  uint16 = 0x07FF // mirror every 2KB

	ppuMinAddr uint16 = 0x2000
	ppuMaxAddr uint16 = 0x3FFF
	ppuMirror  uint16 = 0x0007 // mirror every 8 bytes

	cartMinAddr uint16 = 0x4020
	cartMaxAddr uint16 = 0xFFFF

	fps float64 = 30.0
)

// NewBus builds a bus with a fresh CPU and PPU register shadow attached.
func NewBus(isDebug, isLogging bool) *NesBus {
	bus := &NesBus{
		Ppu:       NewPpu(),
		isDebug:   isDebug,
		isLogging: isLogging,
	}

	var logger *log.Logger
	if isLogging {
		logger = log.Default()
	}
	bus.Cpu = NewCPU(bus, logger)

	return bus
}

// Read implements nes.Bus: internal RAM is mirrored every 2KiB, PPU
// registers are mirrored every 8 bytes, and everything at or above the
// cartridge window delegates to the inserted cartridge. A halted bus reads
// back 0xFF everywhere, modeling an open/stalled bus rather than silently
// returning stale RAM contents.
func (b *NesBus) Read(addr uint16) byte {
	if b.halted {
		return 0xFF
	}

	switch {
	case addr >= ramMinAddr && addr <= ramMaxAddr:
		return b.Ram[addr&ramMirror]
	case addr >= ppuMinAddr && addr <= ppuMaxAddr:
		return b.Ppu.cpuRead(addr & ppuMirror)
	case addr >= cartMinAddr && addr <= cartMaxAddr && b.Cart != nil:
		var data byte
		if b.Cart.cpuRead(addr, &data) {
			return data
		}
		return b.Ram[addr]
	default:
		return b.Ram[addr]
	}
}

// Write implements nes.Bus, mirroring Read's address decoding.
func (b *NesBus) Write(addr uint16, data byte) {
	if b.halted {
		return
	}

	switch {
	case addr >= ramMinAddr && addr <= ramMaxAddr:
		b.Ram[addr&ramMirror] = data
	case addr >= ppuMinAddr && addr <= ppuMaxAddr:
		b.Ppu.cpuWrite(addr&ppuMirror, data)
	case addr >= cartMinAddr && addr <= cartMaxAddr && b.Cart != nil:
		if !b.Cart.cpuWrite(addr, data) {
			b.Ram[addr] = data
		}
	default:
		b.Ram[addr] = data
	}
}

// Halt stalls the bus so subsequent reads return 0xFF, modeling the core
// spec's single halt flag rather than full open-bus emulation.
func (b *NesBus) Halt() { b.halted = true }

// InsertCartridge attaches a cartridge to both the CPU-visible bus and the
// PPU's CHR-ROM window.
func (b *NesBus) InsertCartridge(cart *Cartridge) {
	b.Cart = cart
	b.Ppu.ConnectCartridge(cart)
}

// Reset resets the CPU.
func (b *NesBus) Reset() {
	b.Cpu.Reset()
}

// Load copies a flat program image into RAM at 0x8000, the window the NROM
// mapper treats as cartridge PRG ROM.
func (b *NesBus) Load(rom []byte) {
	const romOffset = 0x8000
	for i, by := range rom {
		b.Ram[romOffset+i] = by
	}
}

// Run drives a debug window at a fixed frame rate, stepping the CPU a batch
// of instructions per frame via stepFrame and redrawing the
// register/disassembly panel each frame.
// It is the adapted, simplified descendant of the teacher's PPU-clock-
// driven main loop: this repository's PPU is a register shadow only, so the
// loop here paces CPU steps directly instead of waiting on a pixel-exact
// PPU frame-complete signal.
func (b *NesBus) Run() {
	display := NewDisplay(b.isDebug)
	b.Disp = display

	interval := time.Duration((1/fps)*1000) * time.Millisecond

	for !display.window.Closed() {
		t := time.Now()

		b.stepFrame()

		if b.isDebug {
			b.drawDebugPanel()
		}

		display.UpdateScreen()
		time.Sleep(interval - time.Since(t))

		if display.window.JustPressed(pixelgl.KeyEscape) {
			return
		}
	}
}

// stepFrame runs up to stepsPerFrame CPU steps. When logging is enabled it
// reports how long the frame's batch of steps took, through the same logger
// CPU.Step traces instructions with.
func (b *NesBus) stepFrame() {
	defer TimeTrack(b.Cpu.Logger, time.Now())

	const stepsPerFrame = 1000
	for i := 0; i < stepsPerFrame && !b.Cpu.Halted(); i++ {
		if _, err := b.Cpu.Step(); err != nil {
			break
		}
	}

	if b.Ppu.SetVBlank(true) {
		b.Cpu.NMI()
	}
	b.Ppu.SetVBlank(false)
}

func (b *NesBus) drawDebugPanel() {
	b.Disp.WriteRegDebugString(b.cpuDebugString())
	b.Disp.WriteInstDebugString(b.disassemblyWindow())
}

func (b *NesBus) cpuDebugString() string {
	c := b.Cpu
	return fmt.Sprintf(
		"Flags: %08b\nPC: $%04X\nA: $%02X\nX: $%02X\nY: $%02X\nSP: $%02X\n",
		c.P, c.PC, c.A, c.X, c.Y, c.SP,
	)
}

func (b *NesBus) disassemblyWindow() string {
	end := b.Cpu.PC + 48
	if end < b.Cpu.PC {
		end = 0xFFFF
	}
	lines := Disassemble(b.Ram[:], b.Cpu.PC, end)
	var out string
	for addr := b.Cpu.PC; addr <= end && addr != 0; addr++ {
		if line, ok := lines[addr]; ok {
			out += line + "\n"
		}
	}
	return out
}
