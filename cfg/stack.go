package cfg

import (
	"fmt"

	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/internal/opcodes"
)

// ErrStackMismatch is returned by ValidateStack when two edges into the
// same group disagree on the value-stack depth they leave it with. The
// caller (ff7field.cfgBuild) aborts decompilation of the affected function
// rather than guessing at a degraded rendering: nothing downstream knows
// how to safely unfold a cond-jump group once its assumed two-edge shape
// can't be trusted (spec §4.4).
type ErrStackMismatch struct {
	GroupID  VertexID
	Address  disasm.Address
	Expected int
	Got      int
}

func (e *ErrStackMismatch) Error() string {
	return fmt.Sprintf("cfg: stack depth mismatch entering group %d at %#08x: expected %d, got %d",
		e.GroupID, e.Address, e.Expected, e.Got)
}

// ValidateStack computes each group's StackLevel — the value-stack depth on
// entry — by propagating per-instruction push/pop counts along Out edges
// from the entry group, and confirms every group is reached with a
// consistent depth regardless of path (spec §4.4, §8's join-vertex
// invariant).
//
// A mismatch is reported via the returned error rather than panicking: the
// caller (ff7field.cfgBuild) treats it as fatal to the function being
// decompiled and aborts, consistent with the pipeline's single-error,
// no-partial-recovery model.
func ValidateStack(g *Graph, fn *disasm.Function) error {
	if g == nil || len(g.Groups) == 0 {
		return nil
	}
	entry := g.EntryGroup()
	entry.StackLevel = 0

	visited := make(map[VertexID]bool, len(g.Groups))
	var walk func(grp *Group) error
	walk = func(grp *Group) error {
		if visited[grp.ID] {
			return nil
		}
		visited[grp.ID] = true

		level := grp.StackLevel
		for i := grp.Start; i < grp.End; i++ {
			level += stackEffect(fn.Instructions[i])
		}

		for _, e := range grp.Out {
			next := g.ByID(e.To)
			if !visited[next.ID] {
				next.StackLevel = level
				if err := walk(next); err != nil {
					return err
				}
				continue
			}
			if next.StackLevel != level {
				return &ErrStackMismatch{GroupID: next.ID, Address: next.StartAddr(fn), Expected: next.StackLevel, Got: level}
			}
		}
		return nil
	}
	return walk(entry)
}

// stackEffect returns the net value-stack depth change an instruction
// leaves behind. Only load opcodes (PUSH) push a lasting value: every other
// kind either carries its operands positionally in Params (store,
// cond-jump, kernel-call — see the lift package) rather than popping the
// value stack, or produces a value the lifter consumes and discards within
// the same instruction (a cond-jump's condition, folded straight into the
// emitted `if (...)`/`while (...)` header), so it leaves the depth
// unchanged.
func stackEffect(insn *disasm.Instruction) int {
	if insn.Kind == opcodes.KindLoad {
		return 1
	}
	return 0
}
