package lift

import (
	"fmt"
	"strings"

	"github.com/MrSapps/SUDM-sub000/cfg"
	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/surface"
)

// processCall renders the simple "fire and forget"/"fire and wait" request
// opcodes (REQ, REQSW, REQEW, PREQ, PRQSW, PRQEW, RETTO) as a statement
// call over their raw integer parameters. Spec §4.5 doesn't single these
// out with a dedicated rule the way it does load/store/cond-jump/kernel-
// call, so they're rendered the same way as an ordinary kernel-call with
// an all-decimal argument format — consistent with every other opcode
// category in this table being expressed as a named function call.
func (s *Stack) processCall(insn *disasm.Instruction, grp *cfg.Group) {
	args := make([]string, len(insn.Params))
	for i, p := range insn.Params {
		args[i] = p.String()
	}
	name := strings.ToLower(insn.Mnemonic)
	addOutputLine(grp, s.renderCall(name, args), false, false)
}

// renderCall joins a resolved function name and its already-rendered
// argument strings using the target surface's call punctuation, applying
// its configured call-argument order (spec §9's FIFO/LIFO quirk: the
// engine always pushes call arguments FIFO, so these args are already in
// the right order unless a backend opts into LIFO).
func (s *Stack) renderCall(name string, args []string) string {
	if s.sfc == nil {
		return fmt.Sprintf("%s(%s);", name, strings.Join(args, ", "))
	}
	ordered := args
	if s.sfc.CallArgOrder() == surface.LIFO {
		ordered = reverseStrings(args)
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(s.sfc.CallOpen())
	for i, a := range ordered {
		if i > 0 {
			b.WriteString(s.sfc.CallSep())
			b.WriteByte(' ')
		}
		b.WriteString(a)
	}
	b.WriteString(s.sfc.CallClose())
	return b.String()
}

func reverseStrings(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
