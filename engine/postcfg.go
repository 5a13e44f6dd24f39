// Package engine implements the target-specific cleanups spec §4.7 layers
// on top of the generic cfg.Graph: marking a trailing unconditional jump
// as a wrapping do-while loop, and aggregating per-function metadata tags
// into an entity summary. Stripping a trailing RET or a trailing
// self-jump happens earlier, at disasm.ApplyPostDisassemblyTransforms,
// since both are instruction-level rewrites that must settle before
// cfg.Build ever partitions the function into blocks.
package engine

import (
	"github.com/MrSapps/SUDM-sub000/cfg"
	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/internal/opcodes"
)

// MarkWrappingInfiniteLoops implements the third post-CFG cleanup: if a
// function's last instruction is an unconditional jump (and therefore, by
// construction, not a self-jump — disasm.ApplyPostDisassemblyTransforms
// already turned those into a trailing NOP), this is a best-effort
// heuristic that assumes the engine compiled a top-level
// "while (true) { ... }" with no test, closed by a plain backward jump
// rather than a cond-jump. It marks the group holding
// that trailing jump as cfg.DoWhileCond so the emitter wraps everything
// the jump reaches back over in a do/while(true) rather than rendering it
// as a raw goto loop.
//
// It locates the group by its last instruction's address rather than its
// start address: cfg.Build's single-predecessor merge will typically have
// already folded the trailing jump into the same group as the straight-line
// code that precedes it, so the group holding the jump is identified by
// where it ends, not where it begins.
//
// This can produce misleading output for jump targets that aren't
// actually loop headers; the heuristic trades that risk for more readable
// output in the common case, matching the original engine's own
// admission that "quite a few loops will still end up as gotos".
func MarkWrappingInfiniteLoops(g *cfg.Graph, fn *disasm.Function) {
	if len(fn.Instructions) == 0 {
		return
	}
	last := fn.Instructions[len(fn.Instructions)-1]
	if last.Kind != opcodes.KindUncondJump {
		return
	}
	for _, grp := range g.Groups {
		if grp.LastInstruction(fn).Addr == last.Addr {
			grp.Type = cfg.DoWhileCond
			return
		}
	}
}
