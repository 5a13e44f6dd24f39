package ff7field

import (
	"github.com/MrSapps/SUDM-sub000/cfg"
	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/engine"
)

// cfgBuild runs the full post-disassembly, pre-emit pipeline over one
// function: build the group graph, validate the value-stack depth is
// consistent at every join, classify structural shape, detect
// else/coalesced-else relationships, then apply the engine-specific
// wrapping-infinite-loop cleanup (spec §4.4, §4.7). The other two §4.7
// cleanups (trailing RET, trailing self-jump) already ran at the
// instruction level, in disasm.ApplyPostDisassemblyTransforms, before this
// function was ever called.
//
// A stack-depth mismatch (cfg.ErrStackMismatch) aborts this function: the
// emitter's structural passes (Classify/DetectElse) assume every cond-jump
// group carries exactly its two branch edges, and the only degraded
// rendering the existing emitter supports for a Normal group (codegen's
// default case in emitGroup) follows a single out edge — good for a
// left-over unconditional jump, not for silently dropping one side of a
// conditional branch. There is no rendering this codebase can fall back to
// that doesn't risk losing code, so the mismatch is reported as a real
// error instead (consistent with the pipeline's fail-fast error model).
func cfgBuild(fn *disasm.Function) (*cfg.Graph, error) {
	g := cfg.Build(fn)
	if err := cfg.ValidateStack(g, fn); err != nil {
		return nil, err
	}
	cfg.Classify(g, fn)
	cfg.DetectElse(g, fn)
	engine.MarkWrappingInfiniteLoops(g, fn)
	return g, nil
}
