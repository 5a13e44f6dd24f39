package cfg

import (
	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/internal/opcodes"
)

type loopCtx struct {
	headerAddr disasm.Address
	afterAddr  disasm.Address
}

// Classify walks the graph from its entry vertex and assigns each group's
// structural Type, per spec §4.4:
//
//   - a forward cond-jump whose body contains a back-edge to this group is
//     a while-cond (the loop header);
//   - a backward cond-jump (target at or before this group's own start) is
//     a do-while-cond;
//   - any other cond-jump is an if-cond;
//   - an uncond-jump that targets the immediate successor of the innermost
//     enclosing loop is a break;
//   - an uncond-jump that targets the innermost enclosing loop's header is
//     a continue;
//   - any other uncond-jump is left Normal and rendered as a goto.
func Classify(g *Graph, fn *disasm.Function) {
	if g == nil || len(g.Groups) == 0 {
		return
	}
	visited := make(map[VertexID]bool, len(g.Groups))
	walk(g, fn, g.EntryGroup(), nil, visited)
}

func walk(g *Graph, fn *disasm.Function, grp *Group, loops []loopCtx, visited map[VertexID]bool) {
	if grp == nil || visited[grp.ID] {
		return
	}
	visited[grp.ID] = true

	last := grp.LastInstruction(fn)
	switch {
	case last.IsJump() && isCondJump(last):
		classifyCondJump(g, fn, grp, last, loops, visited)
	case last.IsJump():
		classifyUncondJump(grp, last, loops)
		for _, e := range grp.Out {
			walk(g, fn, g.ByID(e.To), loops, visited)
		}
	default:
		grp.Type = Normal
		for _, e := range grp.Out {
			walk(g, fn, g.ByID(e.To), loops, visited)
		}
	}
}

func classifyCondJump(g *Graph, fn *disasm.Function, grp *Group, last *disasm.Instruction, loops []loopCtx, visited map[VertexID]bool) {
	dest := last.DestAddress()
	header := grp.StartAddr(fn)

	if dest <= header {
		// Backward: a do-while tail test. The true/jump edge returns to an
		// earlier, already-visited dominator; the false/fallthrough edge
		// exits the loop.
		grp.Type = DoWhileCond
		for _, e := range grp.Out {
			walk(g, fn, g.ByID(e.To), loops, visited)
		}
		return
	}

	// Forward: either a plain if, or a while whose body jumps back to this
	// header (detected by scanning for a backward uncond-jump that targets
	// this group's start address, anywhere strictly between this group and
	// the jump's own target).
	if hasBackEdgeToHeader(fn, grp, dest) {
		grp.Type = WhileCond
		newLoops := append(append([]loopCtx{}, loops...), loopCtx{headerAddr: header, afterAddr: dest})
		for _, e := range grp.Out {
			if e.IsJump {
				// false-edge: jumps straight past the loop body, to its exit.
				walk(g, fn, g.ByID(e.To), loops, visited)
			} else {
				// fallthrough into the loop body.
				walk(g, fn, g.ByID(e.To), newLoops, visited)
			}
		}
		return
	}

	grp.Type = IfCond
	for _, e := range grp.Out {
		walk(g, fn, g.ByID(e.To), loops, visited)
	}
}

func classifyUncondJump(grp *Group, last *disasm.Instruction, loops []loopCtx) {
	dest := last.DestAddress()
	if len(loops) > 0 {
		top := loops[len(loops)-1]
		switch dest {
		case top.afterAddr:
			grp.Type = Break
			return
		case top.headerAddr:
			grp.Type = Continue
			return
		}
	}
	grp.Type = Normal
}

// hasBackEdgeToHeader reports whether any group whose instructions lie in
// [header.End, limit) ends in an uncond-jump back to header's start
// address, which is what turns a forward cond-jump into a while loop
// rather than a plain if.
func hasBackEdgeToHeader(fn *disasm.Function, header *Group, limit disasm.Address) bool {
	headerAddr := header.StartAddr(fn)
	for cur := header.Next; cur != nil; cur = cur.Next {
		if cur.StartAddr(fn) >= limit {
			break
		}
		last := cur.LastInstruction(fn)
		if last.Kind == opcodes.KindUncondJump && last.DestAddress() == headerAddr {
			return true
		}
	}
	return false
}
