package maincmd

import (
	"context"
	"fmt"

	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/mna/mainer"
)

// Disasm prints each file's raw instruction listing, grouped by script
// descriptor, one line per instruction.
func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	t := tables()
	var lastErr error
	for _, path := range args {
		fc, err := parseFile(path, c.Raw)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			lastErr = err
			continue
		}

		fmt.Fprintf(stdio.Stdout, "-- %s --\n", path)
		for _, sd := range fc.Scripts() {
			fmt.Fprintf(stdio.Stdout, "entity %d script %d @ 0x%08X-0x%08X:\n",
				sd.EntityIndex, sd.ScriptIndex, sd.EntryPoint, sd.EndAddress)
			instrs, err := disasm.Disassemble(t, fc.Body(), sd.EntryPoint, sd.EndAddress)
			if err != nil {
				fmt.Fprintln(stdio.Stderr, err)
				lastErr = err
				continue
			}
			fmt.Fprint(stdio.Stdout, disasm.Dump(instrs, c.Addresses))
		}
	}
	return lastErr
}
