package nes

import "fmt"

// Decoded is one decoded instruction: enough to render, assemble, or trace
// it, but with no execution behavior attached.
type Decoded struct {
	Addr     uint16
	Opcode   byte
	Name     string
	Mode     AddressingMode
	Operand  uint16
	HasParam bool
	Size     int
}

// Decode reads one instruction out of mem at pc using cat. It returns
// UnknownOpcodeError if the byte at pc has no catalog entry.
func Decode(cat *Catalog, mem []byte, pc uint16) (Decoded, error) {
	opcode := mem[pc]
	inst := cat.ByOpcode[opcode]
	if inst == nil {
		return Decoded{}, &UnknownOpcodeError{Opcode: opcode, Addr: pc}
	}
	operand, hasParam := ReadParam(inst.Mode, mem, pc)
	return Decoded{
		Addr:     pc,
		Opcode:   opcode,
		Name:     inst.Name,
		Mode:     inst.Mode,
		Operand:  operand,
		HasParam: hasParam,
		Size:     InstructionSize(inst.Mode),
	}, nil
}

// Disassembler is a stateful, non-restartable cursor over a byte slice,
// modeled as a plain Next() method rather than a generator/iterator: each
// call advances state that belongs to the Disassembler value itself, and a
// caller who wants to start over constructs a new one from the same bytes.
type Disassembler struct {
	mem     []byte
	cursor  uint16
	end     uint16
	catalog *Catalog
}

// NewDisassembler builds a cursor over mem[start:end].
func NewDisassembler(mem []byte, start, end uint16) *Disassembler {
	return &Disassembler{mem: mem, cursor: start, end: end, catalog: DefaultCatalog()}
}

// Next decodes the instruction at the cursor and advances past it. ok is
// false once the cursor has reached end; err is non-nil if the cursor is
// sitting on a byte with no catalog entry (the cursor does not advance past
// the bad byte in that case, so the caller can inspect it).
func (d *Disassembler) Next() (inst Decoded, err error, ok bool) {
	if d.cursor >= d.end {
		return Decoded{}, nil, false
	}
	inst, err = Decode(d.catalog, d.mem, d.cursor)
	if err != nil {
		return Decoded{}, err, true
	}
	d.cursor += uint16(inst.Size)
	return inst, nil, true
}

// RenderInstruction produces the canonical textual form of an instruction,
// the same form both the disassembler and the trace comparator use.
func RenderInstruction(name string, mode AddressingMode, pc uint16, operand uint16) string {
	switch mode {
	case Implied:
		return name
	case Accumulator:
		return fmt.Sprintf("%s A", name)
	case Immediate:
		return fmt.Sprintf("%s #$%02X", name, operand)
	case ZeroPage:
		return fmt.Sprintf("%s $%02X", name, operand)
	case ZeroPageX:
		return fmt.Sprintf("%s $%02X,X", name, operand)
	case ZeroPageY:
		return fmt.Sprintf("%s $%02X,Y", name, operand)
	case Absolute:
		return fmt.Sprintf("%s $%04X", name, operand)
	case AbsoluteX:
		return fmt.Sprintf("%s $%04X,X", name, operand)
	case AbsoluteY:
		return fmt.Sprintf("%s $%04X,Y", name, operand)
	case Indirect:
		return fmt.Sprintf("%s ($%04X)", name, operand)
	case IndexedIndirect:
		return fmt.Sprintf("%s ($%02X,X)", name, operand)
	case IndirectIndexed:
		return fmt.Sprintf("%s ($%02X),Y", name, operand)
	case Relative:
		target := pc + 2 + uint16(int8(byte(operand)))
		return fmt.Sprintf("%s $%04X", name, target)
	}
	return name
}

// Disassemble renders every instruction between start and end (exclusive)
// as "$ADDR: TEXT" lines, keyed by address, stopping silently at the first
// unknown opcode. This bulk form exists for the debug display; code that
// wants to walk the stream incrementally (including the CLI `disassemble`
// subcommand) uses Disassembler directly.
func Disassemble(mem []byte, start, end uint16) map[uint16]string {
	out := make(map[uint16]string)
	d := NewDisassembler(mem, start, end)
	for {
		inst, err, ok := d.Next()
		if !ok {
			break
		}
		if err != nil {
			break
		}
		out[inst.Addr] = fmt.Sprintf("$%04X: %s", inst.Addr, RenderInstruction(inst.Name, inst.Mode, inst.Addr, inst.Operand))
	}
	return out
}
