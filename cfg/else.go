package cfg

import (
	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/internal/opcodes"
	"golang.org/x/exp/slices"
)

// DetectElse finds if-cond groups whose true (fallthrough) branch ends in
// a plain goto that skips over the false-edge target to land somewhere
// further along, per spec §4.4's else/coalesced-else rule: that skip is
// what an else clause compiles down to — the if-body jumps past the
// else-body to the real join point. It marks the false-edge target
// StartElse and records the join point on the if-cond group's own EndElse
// list, then marks the inner group CoalescedElse wherever two or more
// if-cond groups share the same join point (an else-if chain), so the
// emitter can print `} else if (…) {` instead of `} else { if (…) {`.
//
// Must run after Classify, since it only considers groups already marked
// IfCond.
func DetectElse(g *Graph, fn *disasm.Function) {
	closingRefs := make(map[VertexID][]*Group)

	for _, ifGroup := range g.Groups {
		if ifGroup.Type != IfCond || len(ifGroup.Out) != 2 {
			continue
		}

		var trueEdge, falseEdge Edge
		haveTrue, haveFalse := false, false
		for _, e := range ifGroup.Out {
			if e.IsJump {
				falseEdge, haveFalse = e, true
			} else {
				trueEdge, haveTrue = e, true
			}
		}
		if !haveTrue || !haveFalse {
			continue
		}

		tail := trailingGoto(g, fn, g.ByID(trueEdge.To))
		if tail == nil {
			continue
		}

		closing := g.ByID(tail.Out[0].To)
		elseStart := g.ByID(falseEdge.To)
		if closing.ID == elseStart.ID {
			continue // the goto lands exactly where the false-edge already does: a plain if, no else.
		}
		if elseStart.Start >= closing.Start {
			continue // not a forward skip-over: doesn't fit the else pattern.
		}

		elseStart.StartElse = true
		ifGroup.EndElse = append(ifGroup.EndElse, closing)
		tail.SuppressGoto = true
		closingRefs[closing.ID] = append(closingRefs[closing.ID], ifGroup)
	}

	for _, ifGroups := range closingRefs {
		if len(ifGroups) < 2 {
			continue
		}
		slices.SortFunc(ifGroups, func(a, b *Group) int { return a.Start - b.Start })
		for _, inner := range ifGroups[1:] {
			inner.CoalescedElse = true
		}
	}
}

// trailingGoto follows a single-successor chain of Normal groups starting
// at start and returns the first one whose own last instruction is a plain
// unconditional goto (Type == Normal, one jump-typed out edge). It returns
// nil if the chain branches, loops back on itself, or never ends in such a
// goto before running out of single-successor groups.
func trailingGoto(g *Graph, fn *disasm.Function, start *Group) *Group {
	seen := make(map[VertexID]bool)
	cur := start
	for cur != nil && !seen[cur.ID] {
		seen[cur.ID] = true
		last := cur.LastInstruction(fn)
		if cur.Type == Normal && last.Kind == opcodes.KindUncondJump && len(cur.Out) == 1 && cur.Out[0].IsJump {
			return cur
		}
		if len(cur.Out) != 1 || cur.Out[0].IsJump {
			return nil
		}
		cur = g.ByID(cur.Out[0].To)
	}
	return nil
}
