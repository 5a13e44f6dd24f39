package lift

import (
	"fmt"

	"github.com/MrSapps/SUDM-sub000/cfg"
	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/expr"
)

// processKernelCall implements spec §4.5's Kernel-call rule: render the
// opcode's resolved function name applied to its parameters, formatted
// per Def.KernelFormat (b/n/f/_), or, for bank-addressed variants
// (BGON/BGOFF/GETAI) and KAWAI's raw byte-parameter form, using the
// bank/offset variable-naming rule or plain decimal integers respectively.
func (s *Stack) processKernelCall(insn *disasm.Instruction, grp *cfg.Group) {
	name := insn.Def.KernelFunc
	if name == "" {
		name = fmt.Sprintf("UnknownKernelFunction_%s", insn.Mnemonic)
	}

	var args []string
	switch {
	case insn.Def.BankAddressed:
		args = s.bankAddressedArgs(insn.Params)
	case insn.Def.Variadic:
		// KAWAI: no format string, every remaining byte is a plain integer.
		for _, p := range insn.Params {
			args = append(args, p.String())
		}
	default:
		args = s.formattedArgs(insn.Def.KernelFormat, insn.Params)
	}

	addOutputLine(grp, s.renderCall(name, args), false, false)
}

func (s *Stack) bankAddressedArgs(params []expr.Value) []string {
	var args []string
	for i := 0; i+1 < len(params); i += 2 {
		bank, addr := bankAddrParam(params, i)
		args = append(args, s.VarName(bank, addr))
	}
	return args
}

// formattedArgs renders params according to spec §4.5's compact kernel
// call format-character language: one character per positional argument.
func (s *Stack) formattedArgs(format string, params []expr.Value) []string {
	var args []string
	for i := 0; i < len(format) && i < len(params); i++ {
		iv, ok := params[i].(expr.Int)
		if !ok {
			args = append(args, params[i].String())
			continue
		}
		switch format[i] {
		case 'b':
			if iv.Value != 0 {
				args = append(args, "true")
			} else {
				args = append(args, "false")
			}
		case 'n':
			args = append(args, fmt.Sprintf("%d", iv.Value))
		case 'f':
			args = append(args, fmt.Sprintf("%g", float64(iv.Value)/30.0))
		case '_':
			// discarded: the argument is consumed from the wire but never
			// rendered.
		default:
			args = append(args, iv.String())
		}
	}
	return args
}
