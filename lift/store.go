package lift

import (
	"fmt"

	"github.com/MrSapps/SUDM-sub000/cfg"
	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/expr"
)

// processStore implements spec §4.5's Store rule: read bank+address
// parameter pairs positionally (opcode-specific arity), format the
// operation as a single `dst = dst op src;` or `dst = rand();` line.
func (s *Stack) processStore(insn *disasm.Instruction, grp *cfg.Group) error {
	switch insn.Mnemonic {
	case "SETBYTE", "SETWORD":
		bank, addr := bankAddrParam(insn.Params, 0)
		value := insn.Params[2].(expr.Int)
		addOutputLine(grp, fmt.Sprintf("%s = %s%s", s.VarName(bank, addr), value.String(), s.terminator()), false, false)

	case "PLUS", "PLUS2":
		s.binaryStoreLine(insn, grp, "+")
	case "MINUS", "MINUS2":
		s.binaryStoreLine(insn, grp, "-")
	case "MOD", "MOD2":
		s.binaryStoreLine(insn, grp, "%")

	case "INC", "INC2":
		bank, addr := bankAddrParam(insn.Params, 0)
		dst := s.VarName(bank, addr)
		addOutputLine(grp, fmt.Sprintf("%s = %s + 1%s", dst, dst, s.terminator()), false, false)
	case "DEC", "DEC2":
		bank, addr := bankAddrParam(insn.Params, 0)
		dst := s.VarName(bank, addr)
		addOutputLine(grp, fmt.Sprintf("%s = %s - 1%s", dst, dst, s.terminator()), false, false)

	case "RANDOM":
		bank, addr := bankAddrParam(insn.Params, 0)
		addOutputLine(grp, fmt.Sprintf("%s = rand()%s", s.VarName(bank, addr), s.terminator()), false, false)

	default:
		return fmt.Errorf("lift: unhandled store opcode %s at %#08x", insn.Mnemonic, insn.Addr)
	}
	return nil
}

func (s *Stack) binaryStoreLine(insn *disasm.Instruction, grp *cfg.Group, op string) {
	dstBank, dstAddr := bankAddrParam(insn.Params, 0)
	srcBank, srcAddr := bankAddrParam(insn.Params, 2)
	dst := s.VarName(dstBank, dstAddr)
	src := s.VarName(srcBank, srcAddr)
	addOutputLine(grp, fmt.Sprintf("%s = %s %s %s%s", dst, dst, op, src, s.terminator()), false, false)
}

// terminator returns the target surface's statement terminator (";" for
// C-like, "" for Lua-like), falling back to ";" when no surface was
// configured.
func (s *Stack) terminator() string {
	if s.sfc == nil {
		return ";"
	}
	return s.sfc.StatementTerminator()
}
