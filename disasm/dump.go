package disasm

import (
	"fmt"
	"strings"
)

// Dump renders an instruction sequence as a flat text listing, one line per
// instruction: "MNEMONIC param, param" or, with addresses set, "%08X:
// MNEMONIC param, param". This is the format the "disasm" CLI command and
// its golden tests compare against; the decompiler pipeline itself never
// calls this (it goes straight from Instruction to codegen.Emit).
func Dump(instrs []*Instruction, addresses bool) string {
	var b strings.Builder
	for _, in := range instrs {
		if addresses {
			fmt.Fprintf(&b, "%08X: ", in.Addr)
		}
		b.WriteString(in.Mnemonic)
		for i, p := range in.Params {
			if i == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteString(", ")
			}
			b.WriteString(p.String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
