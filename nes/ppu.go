package nes

// Ppu is a minimal memory-mapped register shadow for the eight PPU
// registers at $2000-$2007. It exists only to satisfy the core's MMIO
// contract (reads return the PPU's current value for that address, writes
// delegate) — there is no pixel pipeline, nametable rendering, or sprite
// evaluation here; those are explicitly out of scope.
type Ppu struct {
	Cart *Cartridge

	regs [8]byte // PPUCTRL, PPUMASK, PPUSTATUS, OAMADDR, OAMDATA, PPUSCROLL, PPUADDR, PPUDATA

	tblName    [2][1024]byte
	tblPalette [32]byte
}

func NewPpu() *Ppu {
	return &Ppu{}
}

func (p *Ppu) ConnectCartridge(c *Cartridge) {
	p.Cart = c
}

// cpuRead returns the PPU's current shadow value for a CPU-visible register
// address (already reduced mod 8 by the bus). PPUSTATUS reading clears the
// vblank flag, matching documented hardware behavior; every other register
// is a plain read-back of the shadow.
func (p *Ppu) cpuRead(addr uint16) byte {
	v := p.regs[addr&0x7]
	if addr&0x7 == 2 {
		p.clearFlag(2, statusVBlank)
	}
	return v
}

// cpuWrite delegates a CPU-side register write to the shadow.
func (p *Ppu) cpuWrite(addr uint16, data byte) {
	p.regs[addr&0x7] = data
}

// SetVBlank sets or clears the PPUSTATUS vblank flag, and reports whether
// NMI-on-vblank is enabled in PPUCTRL so the caller can decide whether to
// raise one.
func (p *Ppu) SetVBlank(on bool) (nmiEnabled bool) {
	if on {
		p.setFlag(2, statusVBlank)
	} else {
		p.clearFlag(2, statusVBlank)
	}
	return p.isFlagSet(0, ctrlNmi)
}

// ppuRead/ppuWrite access the PPU's own address space (nametables/palette),
// masked to the PPU's 14-bit address range. Nothing in this package calls
// them; the CHR tile dumper reads CHR data through Cartridge.CHRByte.
func (p *Ppu) ppuRead(addr uint16) byte {
	addr &= 0x3FFF
	if addr >= 0x3F00 {
		return p.tblPalette[addr&0x1F]
	}
	return p.tblName[(addr>>10)&1][addr&0x3FF]
}

func (p *Ppu) ppuWrite(addr uint16, data byte) {
	addr &= 0x3FFF
	if addr >= 0x3F00 {
		p.tblPalette[addr&0x1F] = data
		return
	}
	p.tblName[(addr>>10)&1][addr&0x3FF] = data
}
