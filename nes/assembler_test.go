package nes

import (
	"bytes"
	"testing"
)

func TestAssembleLabelLoop(t *testing.T) {
	src := "loop: DEX\nBNE loop\n"
	got, err := Assemble(src, 0x0600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0xCA, 0xD0, 0xFD}
	if !bytes.Equal(got, want) {
		t.Errorf("Assemble(%q) = % X, want % X", src, got, want)
	}
}

func TestAssembleAddressingModeDisambiguation(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []byte
	}{
		{"immediate hex", "LDA #$91", []byte{0xA9, 0x91}},
		{"immediate decimal", "LDA #10", []byte{0xA9, 0x0A}},
		{"zero page", "LDA $10", []byte{0xA5, 0x10}},
		{"zero page X", "LDA $10,X", []byte{0xB5, 0x10}},
		{"absolute", "LDA $1234", []byte{0xAD, 0x34, 0x12}},
		{"absolute Y", "LDA $1234,Y", []byte{0xB9, 0x34, 0x12}},
		{"indexed indirect", "LDA ($80,X)", []byte{0xA1, 0x80}},
		{"indirect indexed", "LDA ($80),Y", []byte{0xB1, 0x80}},
		{"jmp indirect", "JMP ($1234)", []byte{0x6C, 0x34, 0x12}},
		{"accumulator bare", "ASL", []byte{0x0A}},
		{"accumulator explicit", "ASL A", []byte{0x0A}},
		{"accumulator memory", "ASL $10", []byte{0x06, 0x10}},
		{"implied", "INX", []byte{0xE8}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Assemble(tc.src, 0x0600)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Errorf("Assemble(%q) = % X, want % X", tc.src, got, tc.want)
			}
		})
	}
}

func TestAssembleUnknownMnemonicFails(t *testing.T) {
	_, err := Assemble("FOO #$01", 0x0600)
	if err == nil {
		t.Fatal("expected an error for an unknown mnemonic")
	}
	if _, ok := err.(*AssemblerError); !ok {
		t.Errorf("expected *AssemblerError, got %T: %v", err, err)
	}
}

func TestAssembleUndefinedLabelFails(t *testing.T) {
	_, err := Assemble("BNE nowhere", 0x0600)
	if err == nil {
		t.Fatal("expected an error for an undefined label")
	}
	if _, ok := err.(*AssemblerError); !ok {
		t.Errorf("expected *AssemblerError, got %T: %v", err, err)
	}
}

func TestAssembleRelativeOutOfRangeFails(t *testing.T) {
	// A branch whose target is 200 bytes past the branch site doesn't fit
	// in a signed 8-bit displacement.
	var b bytes.Buffer
	b.WriteString("BNE far\n")
	for i := 0; i < 200; i++ {
		b.WriteString("NOP\n")
	}
	b.WriteString("far: NOP\n")

	_, err := Assemble(b.String(), 0x0600)
	if err == nil {
		t.Fatal("expected a RangeError for an out-of-range branch")
	}
	if _, ok := err.(*RangeError); !ok {
		t.Errorf("expected *RangeError, got %T: %v", err, err)
	}
}

func TestAssembleDisassembleRoundTrip(t *testing.T) {
	src := "start:\nLDA #$01\nSTA $10\nloop:\nINX\nCPX #$05\nBNE loop\nJMP start\n"

	code, err := Assemble(src, 0x0600)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	mem := make([]byte, 0x10000)
	copy(mem[0x0600:], code)

	d := NewDisassembler(mem, 0x0600, 0x0600+uint16(len(code)))
	var rendered []string
	for {
		inst, derr, ok := d.Next()
		if !ok {
			break
		}
		if derr != nil {
			t.Fatalf("disassemble: %v", derr)
		}
		rendered = append(rendered, RenderInstruction(inst.Name, inst.Mode, inst.Addr, inst.Operand))
	}

	want := []string{
		"LDA #$01",
		"STA $10",
		"INX",
		"CPX #$05",
		"BNE $0604", // loop: is at $0604
		"JMP $0600", // start: is at $0600
	}
	if len(rendered) != len(want) {
		t.Fatalf("got %v, want %v", rendered, want)
	}
	for i := range want {
		if rendered[i] != want[i] {
			t.Errorf("instruction %d: got %q, want %q", i, rendered[i], want[i])
		}
	}
}
