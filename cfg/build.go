package cfg

import (
	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/internal/opcodes"
	"golang.org/x/exp/slices"
)

// block is a pre-merge basic block: a contiguous instruction run with at
// most two outgoing edges.
type block struct {
	id      VertexID
	start   int // instruction index, inclusive
	end     int // instruction index, exclusive
	out     []Edge
	inCount int
}

// Build constructs the merged group graph for fn (spec §4.4).
//
// A basic block begins at instruction 0, at every jump target, and
// immediately after every jump. Two blocks are merged into one group iff
// the earlier block has exactly one outgoing edge (to the later block) and
// the later block has exactly one incoming edge overall — i.e. the edge
// between them is the only way in or out at that point.
func Build(fn *disasm.Function) *Graph {
	instrs := fn.Instructions
	if len(instrs) == 0 {
		return &Graph{}
	}

	addrToIdx := make(map[disasm.Address]int, len(instrs))
	for i, insn := range instrs {
		addrToIdx[insn.Addr] = i
	}

	boundaries := map[int]bool{0: true}
	for i, insn := range instrs {
		if insn.IsJump() {
			if i+1 < len(instrs) {
				boundaries[i+1] = true
			}
			if idx, ok := addrToIdx[insn.DestAddress()]; ok {
				boundaries[idx] = true
			}
		}
	}

	var starts []int
	for idx := range boundaries {
		starts = append(starts, idx)
	}
	slices.Sort(starts)

	blocks := make([]*block, len(starts))
	for i, s := range starts {
		end := len(instrs)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		blocks[i] = &block{id: VertexID(i), start: s, end: end}
	}

	blockOfInstr := func(instrIdx int) VertexID {
		lo, hi := 0, len(blocks)-1
		for lo <= hi {
			mid := (lo + hi) / 2
			if instrIdx < blocks[mid].start {
				hi = mid - 1
			} else if instrIdx >= blocks[mid].end {
				lo = mid + 1
			} else {
				return blocks[mid].id
			}
		}
		panic("cfg: instruction index not covered by any block")
	}

	for _, b := range blocks {
		last := instrs[b.end-1]
		switch {
		case last.IsJump() && isCondJump(last):
			if b.end < len(instrs) {
				b.out = append(b.out, Edge{To: blockOfInstr(b.end), IsJump: false})
			}
			if destIdx, ok := addrToIdx[last.DestAddress()]; ok {
				b.out = append(b.out, Edge{To: blockOfInstr(destIdx), IsJump: true})
			}
		case last.IsJump():
			if destIdx, ok := addrToIdx[last.DestAddress()]; ok {
				b.out = append(b.out, Edge{To: blockOfInstr(destIdx), IsJump: true})
			}
		default:
			if b.end < len(instrs) {
				b.out = append(b.out, Edge{To: blockOfInstr(b.end), IsJump: false})
			}
		}
	}

	for _, b := range blocks {
		for _, e := range b.out {
			blocks[e.To].inCount++
		}
	}

	return mergeBlocks(blocks)
}

func isCondJump(insn *disasm.Instruction) bool {
	return insn.Kind == opcodes.KindCondJump
}

// mergeBlocks coalesces chains of blocks connected by a single edge with no
// other in/out traffic at the join point into Groups, per spec §4.4. blocks
// must already be sorted by address (block id == address-order index).
func mergeBlocks(blocks []*block) *Graph {
	merged := make([]bool, len(blocks))
	rootGroup := make(map[VertexID]*Group, len(blocks)) // root block id -> its group
	blockToRoot := make([]VertexID, len(blocks))         // every block id -> its root block id

	var groups []*Group
	for _, b := range blocks {
		if merged[b.id] {
			continue
		}
		g := &Group{ID: VertexID(len(groups)), Start: b.start, End: b.end}
		blockToRoot[b.id] = b.id

		cur := b
		for len(cur.out) == 1 {
			next := blocks[cur.out[0].To]
			// next.id > cur.id holds iff next starts after cur, since block
			// ids are assigned in address order: this rules out merging a
			// block into a later one via a back-edge (e.g. a while loop's
			// header block, whose only other incoming edge is its own body's
			// back-edge, would otherwise look like a valid single-predecessor
			// merge target from the body's perspective).
			if next.id <= cur.id || next.inCount != 1 || merged[next.id] {
				break
			}
			merged[next.id] = true
			blockToRoot[next.id] = b.id
			g.End = next.end
			cur = next
		}
		rootGroup[b.id] = g
		groups = append(groups, g)
	}

	for _, b := range blocks {
		root := blockToRoot[b.id]
		g := rootGroup[root]
		if b.end != g.End {
			continue // not this group's final block
		}
		g.Out = make([]Edge, len(b.out))
		for i, e := range b.out {
			g.Out[i] = Edge{To: rootGroup[blockToRoot[e.To]].ID, IsJump: e.IsJump}
		}
	}

	for i, g := range groups {
		if i > 0 {
			g.Prev = groups[i-1]
			groups[i-1].Next = g
		}
	}

	graph := &Graph{Groups: groups, Entry: groups[0].ID}
	graph.index()
	return graph
}
