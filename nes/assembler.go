package nes

import (
	"regexp"
	"strconv"
	"strings"
)

var branchMnemonics = map[string]bool{
	"BCC": true, "BCS": true, "BEQ": true, "BNE": true,
	"BMI": true, "BPL": true, "BVC": true, "BVS": true,
}

var accumulatorShiftMnemonics = map[string]bool{
	"ASL": true, "LSR": true, "ROL": true, "ROR": true,
}

var (
	reImmediate       = regexp.MustCompile(`^#\$?([0-9A-Fa-f]+)$`)
	reZeroPage        = regexp.MustCompile(`^\$([0-9A-Fa-f]{1,2})$`)
	reZeroPageX       = regexp.MustCompile(`^\$([0-9A-Fa-f]{1,2}),[Xx]$`)
	reZeroPageY       = regexp.MustCompile(`^\$([0-9A-Fa-f]{1,2}),[Yy]$`)
	reAbsolute        = regexp.MustCompile(`^\$([0-9A-Fa-f]{3,4})$`)
	reAbsoluteX       = regexp.MustCompile(`^\$([0-9A-Fa-f]{3,4}),[Xx]$`)
	reAbsoluteY       = regexp.MustCompile(`^\$([0-9A-Fa-f]{3,4}),[Yy]$`)
	reIndirect        = regexp.MustCompile(`^\(\$([0-9A-Fa-f]{3,4})\)$`)
	reIndexedIndirect = regexp.MustCompile(`^\(\$([0-9A-Fa-f]{1,2}),[Xx]\)$`)
	reIndirectIndexed = regexp.MustCompile(`^\(\$([0-9A-Fa-f]{1,2})\),[Yy]$`)
	reLabel           = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reLabelDef        = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):\s*(.*)$`)
)

// operandRef is a pass-1 parse of one instruction's operand: either a
// literal numeric value, known immediately, or a label reference resolved
// in pass 2.
type operandRef struct {
	mode    AddressingMode
	literal uint16
	isLabel bool
	label   string
}

// asmLine is one non-blank, non-label-only source line, already bound to
// the address it will assemble to.
type asmLine struct {
	lineNo   int
	addr     uint16
	mnemonic string
	operand  operandRef
}

// Assemble performs the two-pass compile of src into bytes starting at
// startAddr: pass one computes instruction sizes and the label->address
// table, pass two emits bytes with labels resolved.
func Assemble(src string, startAddr uint16) ([]byte, error) {
	cat := DefaultCatalog()
	labels := make(map[string]uint16)
	var lines []asmLine

	addr := startAddr
	for lineNo, raw := range strings.Split(src, "\n") {
		lineNo++ // 1-indexed for error messages

		text := stripComment(raw)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if m := reLabelDef.FindStringSubmatch(text); m != nil {
			labels[m[1]] = addr
			text = strings.TrimSpace(m[2])
			if text == "" {
				continue
			}
		}

		mnemonic, operandText := splitInstruction(text)
		mode, ref, err := parseOperand(mnemonic, operandText, lineNo)
		if err != nil {
			return nil, err
		}
		if _, ok := cat.Lookup(mnemonic, mode); !ok {
			return nil, &AssemblerError{Line: lineNo, Detail: "unknown mnemonic/mode combination: " + mnemonic}
		}

		lines = append(lines, asmLine{lineNo: lineNo, addr: addr, mnemonic: mnemonic, operand: ref})
		addr += uint16(InstructionSize(mode))
	}

	var out []byte
	for _, l := range lines {
		inst, _ := cat.Lookup(l.mnemonic, l.operand.mode)

		param := l.operand.literal
		if l.operand.isLabel {
			target, ok := labels[l.operand.label]
			if !ok {
				return nil, &AssemblerError{Line: l.lineNo, Detail: "undefined label: " + l.operand.label}
			}
			if l.operand.mode == Relative {
				disp := int(target) - int(l.addr+2)
				if disp < -128 || disp > 127 {
					return nil, &RangeError{Line: l.lineNo, Target: disp}
				}
				param = uint16(byte(int8(disp)))
			} else {
				param = target
			}
		}

		out = append(out, inst.Opcode)
		switch operandSize[l.operand.mode] {
		case 1:
			out = append(out, byte(param))
		case 2:
			out = append(out, byte(param), byte(param>>8))
		}
	}

	return out, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

func splitInstruction(text string) (mnemonic, operand string) {
	fields := strings.SplitN(text, " ", 2)
	mnemonic = strings.ToUpper(strings.TrimSpace(fields[0]))
	if len(fields) == 2 {
		operand = strings.TrimSpace(fields[1])
	}
	return
}

// parseOperand applies the mode-disambiguation rules from the addressing
// table (branches are always Relative, JMP (...) is Indirect, bare
// ASL/LSR/ROL/ROR default to Accumulator, literal length picks zero-page vs
// absolute) and returns either a resolved literal or a pending label
// reference.
func parseOperand(mnemonic, operand string, lineNo int) (AddressingMode, operandRef, error) {
	if branchMnemonics[mnemonic] {
		if reLabel.MatchString(operand) {
			return Relative, operandRef{mode: Relative, isLabel: true, label: operand}, nil
		}
		v, err := parseInt(operand, lineNo)
		if err != nil {
			return 0, operandRef{}, err
		}
		return Relative, operandRef{mode: Relative, literal: v}, nil
	}

	if operand == "" {
		if accumulatorShiftMnemonics[mnemonic] {
			return Accumulator, operandRef{mode: Accumulator}, nil
		}
		return Implied, operandRef{mode: Implied}, nil
	}

	if accumulatorShiftMnemonics[mnemonic] && (operand == "A" || operand == "a") {
		return Accumulator, operandRef{mode: Accumulator}, nil
	}

	if mnemonic == "JMP" && strings.HasPrefix(operand, "(") {
		if m := reIndirect.FindStringSubmatch(operand); m != nil {
			v, err := parseHex(m[1], lineNo)
			return Indirect, operandRef{mode: Indirect, literal: v}, err
		}
		return 0, operandRef{}, &AssemblerError{Line: lineNo, Detail: "malformed indirect operand: " + operand}
	}

	switch {
	case reImmediate.MatchString(operand):
		m := reImmediate.FindStringSubmatch(operand)
		v, err := parseHexOrDec(operand, m[1], lineNo)
		return Immediate, operandRef{mode: Immediate, literal: v}, err
	case reIndexedIndirect.MatchString(operand):
		m := reIndexedIndirect.FindStringSubmatch(operand)
		v, err := parseHex(m[1], lineNo)
		return IndexedIndirect, operandRef{mode: IndexedIndirect, literal: v}, err
	case reIndirectIndexed.MatchString(operand):
		m := reIndirectIndexed.FindStringSubmatch(operand)
		v, err := parseHex(m[1], lineNo)
		return IndirectIndexed, operandRef{mode: IndirectIndexed, literal: v}, err
	case reZeroPageX.MatchString(operand):
		m := reZeroPageX.FindStringSubmatch(operand)
		v, err := parseHex(m[1], lineNo)
		return ZeroPageX, operandRef{mode: ZeroPageX, literal: v}, err
	case reZeroPageY.MatchString(operand):
		m := reZeroPageY.FindStringSubmatch(operand)
		v, err := parseHex(m[1], lineNo)
		return ZeroPageY, operandRef{mode: ZeroPageY, literal: v}, err
	case reAbsoluteX.MatchString(operand):
		m := reAbsoluteX.FindStringSubmatch(operand)
		v, err := parseHex(m[1], lineNo)
		return AbsoluteX, operandRef{mode: AbsoluteX, literal: v}, err
	case reAbsoluteY.MatchString(operand):
		m := reAbsoluteY.FindStringSubmatch(operand)
		v, err := parseHex(m[1], lineNo)
		return AbsoluteY, operandRef{mode: AbsoluteY, literal: v}, err
	case reZeroPage.MatchString(operand):
		m := reZeroPage.FindStringSubmatch(operand)
		v, err := parseHex(m[1], lineNo)
		return ZeroPage, operandRef{mode: ZeroPage, literal: v}, err
	case reAbsolute.MatchString(operand):
		m := reAbsolute.FindStringSubmatch(operand)
		v, err := parseHex(m[1], lineNo)
		return Absolute, operandRef{mode: Absolute, literal: v}, err
	case reLabel.MatchString(operand):
		// Bare identifier with no addressing-mode markers: defaults to
		// Absolute and is resolved against the label table in pass two.
		return Absolute, operandRef{mode: Absolute, isLabel: true, label: operand}, nil
	}

	return 0, operandRef{}, &AssemblerError{Line: lineNo, Detail: "unparseable operand: " + operand}
}

func parseHex(digits string, lineNo int) (uint16, error) {
	v, err := strconv.ParseUint(digits, 16, 16)
	if err != nil {
		return 0, &AssemblerError{Line: lineNo, Detail: "bad hex literal: " + digits}
	}
	return uint16(v), nil
}

// parseHexOrDec parses an immediate's digits as hex if the operand used the
// "#$" prefix, or decimal if it used bare "#".
func parseHexOrDec(operand, digits string, lineNo int) (uint16, error) {
	if strings.Contains(operand, "$") {
		return parseHex(digits, lineNo)
	}
	v, err := strconv.ParseUint(digits, 10, 16)
	if err != nil {
		return 0, &AssemblerError{Line: lineNo, Detail: "bad decimal literal: " + digits}
	}
	return uint16(v), nil
}

func parseInt(token string, lineNo int) (uint16, error) {
	token = strings.TrimPrefix(token, "$")
	v, err := strconv.ParseUint(token, 16, 16)
	if err != nil {
		return 0, &AssemblerError{Line: lineNo, Detail: "bad numeric literal: " + token}
	}
	return uint16(v), nil
}
