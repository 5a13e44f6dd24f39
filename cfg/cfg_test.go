package cfg_test

import (
	"testing"

	"github.com/MrSapps/SUDM-sub000/cfg"
	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/expr"
	"github.com/MrSapps/SUDM-sub000/internal/opcodes"
	"github.com/stretchr/testify/require"
)

func jump(addr disasm.Address, size int, kind opcodes.Kind, dir opcodes.JumpDir, disp int64) *disasm.Instruction {
	return &disasm.Instruction{
		Addr: addr, Size: size, Kind: kind,
		Def:    opcodes.Def{JumpDir: dir},
		Params: []expr.Value{expr.Int{Value: disp}},
	}
}

func plain(addr disasm.Address, size int, kind opcodes.Kind) *disasm.Instruction {
	return &disasm.Instruction{Addr: addr, Size: size, Kind: kind}
}

func edgeTo(out []cfg.Edge, isJump bool) cfg.Edge {
	for _, e := range out {
		if e.IsJump == isJump {
			return e
		}
	}
	panic("no matching edge")
}

// TestBuildPlainIf covers spec §4.4's block-merge rule for the simplest
// shape: a forward cond-jump whose false edge lands directly on the merge
// point reached by the true edge falling through.
func TestBuildPlainIf(t *testing.T) {
	fn := &disasm.Function{Instructions: []*disasm.Instruction{
		jump(0, 4, opcodes.KindCondJump, opcodes.JumpNone, 4), // dest=8
		plain(4, 4, opcodes.KindStore),
		plain(8, 4, opcodes.KindNoOutput),
	}}

	g := cfg.Build(fn)
	require.Len(t, g.Groups, 3)

	g0 := g.ByID(g.Entry)
	require.Equal(t, 0, g0.Start)
	require.Equal(t, 1, g0.End)
	require.Len(t, g0.Out, 2)

	trueEdge := edgeTo(g0.Out, false)
	falseEdge := edgeTo(g0.Out, true)

	g1 := g.ByID(trueEdge.To)
	require.Equal(t, 1, g1.Start)
	require.Equal(t, 2, g1.End)
	require.Equal(t, []cfg.Edge{{To: falseEdge.To, IsJump: false}}, g1.Out)

	g2 := g.ByID(falseEdge.To)
	require.Equal(t, 2, g2.Start)
	require.Equal(t, 3, g2.End)
	require.Empty(t, g2.Out)

	cfg.Classify(g, fn)
	require.Equal(t, cfg.IfCond, g0.Type)
	require.Equal(t, cfg.Normal, g1.Type)
	require.Equal(t, cfg.Normal, g2.Type)
}

// TestBuildWhileHeaderIsEntry regression-tests a block-merge edge case: a
// while loop's header is the function's entry, so its only other
// predecessor is its own body's back-edge. A naive single-predecessor
// merge check would fold the header block into its own body block (the
// body's sole out edge targets the header, and the header's in-count from
// that edge alone is 1), corrupting the group boundaries. The merge must
// only ever walk forward in address order.
func TestBuildWhileHeaderIsEntry(t *testing.T) {
	fn := &disasm.Function{Instructions: []*disasm.Instruction{
		jump(0, 4, opcodes.KindCondJump, opcodes.JumpNone, 8),         // dest=12 (loop exit)
		plain(4, 4, opcodes.KindStore),                                // body
		jump(8, 4, opcodes.KindUncondJump, opcodes.JumpBackward, 8),   // dest=0 (back-edge)
		plain(12, 4, opcodes.KindNoOutput),                            // exit
	}}

	g := cfg.Build(fn)
	require.Len(t, g.Groups, 3)

	g0 := g.ByID(g.Entry)
	require.Equal(t, 0, g0.Start)
	require.Equal(t, 1, g0.End)

	bodyEdge := edgeTo(g0.Out, false)
	exitEdge := edgeTo(g0.Out, true)

	g1 := g.ByID(bodyEdge.To)
	require.Equal(t, 1, g1.Start, "body+back-edge must not be folded into the header block")
	require.Equal(t, 3, g1.End)
	require.Equal(t, []cfg.Edge{{To: g0.ID, IsJump: true}}, g1.Out)

	g2 := g.ByID(exitEdge.To)
	require.Equal(t, 3, g2.Start)
	require.Equal(t, 4, g2.End)

	cfg.Classify(g, fn)
	require.Equal(t, cfg.WhileCond, g0.Type)
	require.Equal(t, cfg.Continue, g1.Type, "the loop's own natural back-edge classifies as continue per spec §4.4")
	require.Equal(t, cfg.Normal, g2.Type)
}

// TestClassifyNestedBreakContinue builds a while loop containing an if
// whose true branch breaks out of the loop, exercising if-cond, while-cond,
// break and continue classification together in one graph.
func TestClassifyNestedBreakContinue(t *testing.T) {
	fn := &disasm.Function{Instructions: []*disasm.Instruction{
		jump(0, 4, opcodes.KindCondJump, opcodes.JumpNone, 16),        // 0: while-header, dest=20 (exit)
		jump(4, 4, opcodes.KindCondJump, opcodes.JumpNone, 4),         // 1: inner if, dest=12 (skip break)
		jump(8, 4, opcodes.KindUncondJump, opcodes.JumpForward, 8),    // 2: break, dest=20
		plain(12, 4, opcodes.KindStore),                               // 3: body continue
		jump(16, 4, opcodes.KindUncondJump, opcodes.JumpBackward, 16), // 4: back-edge, dest=0
		plain(20, 4, opcodes.KindNoOutput),                            // 5: exit
	}}

	g := cfg.Build(fn)
	require.Len(t, g.Groups, 5)
	cfg.Classify(g, fn)

	g0 := g.ByID(g.Entry)
	require.Equal(t, cfg.WhileCond, g0.Type)

	g1 := g.ByID(edgeTo(g0.Out, false).To)
	require.Equal(t, cfg.IfCond, g1.Type)

	g2 := g.ByID(edgeTo(g1.Out, false).To)
	require.Equal(t, cfg.Break, g2.Type)

	g3 := g.ByID(edgeTo(g1.Out, true).To)
	require.Equal(t, cfg.Continue, g3.Type)

	g4 := g.ByID(edgeTo(g0.Out, true).To)
	require.Equal(t, cfg.Normal, g4.Type)
}

// TestClassifyDoWhile covers a backward cond-jump whose target is at or
// before its own group's start address.
func TestClassifyDoWhile(t *testing.T) {
	fn := &disasm.Function{Instructions: []*disasm.Instruction{
		plain(0, 4, opcodes.KindStore),
		jump(4, 4, opcodes.KindCondJump, opcodes.JumpNone, -8), // dest=0
		plain(8, 4, opcodes.KindNoOutput),
	}}

	g := cfg.Build(fn)
	cfg.Classify(g, fn)

	g0 := g.ByID(g.Entry)
	require.Equal(t, cfg.DoWhileCond, g0.Type)
}

// TestDetectElse drives Build, Classify and DetectElse together over a
// plain if/else shape: the true branch ends in a goto skipping past the
// false-edge target to the real join point.
func TestDetectElse(t *testing.T) {
	fn := &disasm.Function{Instructions: []*disasm.Instruction{
		jump(0, 4, opcodes.KindCondJump, opcodes.JumpNone, 8),      // 0: if-cond, dest=12 (else body)
		plain(4, 4, opcodes.KindStore),                             // 1: true body
		jump(8, 4, opcodes.KindUncondJump, opcodes.JumpForward, 4), // 2: trailing goto, dest=16 (join)
		plain(12, 4, opcodes.KindStore),                            // 3: else body
		plain(16, 4, opcodes.KindNoOutput),                         // 4: join
	}}

	g := cfg.Build(fn)
	require.Len(t, g.Groups, 4)
	cfg.Classify(g, fn)
	cfg.DetectElse(g, fn)

	g0 := g.ByID(g.Entry)
	require.Equal(t, cfg.IfCond, g0.Type)

	trueGrp := g.ByID(edgeTo(g0.Out, false).To)
	elseGrp := g.ByID(edgeTo(g0.Out, true).To)

	require.True(t, trueGrp.SuppressGoto)
	require.True(t, elseGrp.StartElse)
	require.False(t, elseGrp.CoalescedElse)
	require.Len(t, g0.EndElse, 1)
	require.Equal(t, elseGrp.Out[0].To, g0.EndElse[0].ID)
}

// TestValidateStackMismatch builds a graph by hand (no Build/Classify
// needed) where one predecessor of a join group leaves one more value on
// the stack than the other, and confirms ValidateStack reports it.
func TestValidateStackMismatch(t *testing.T) {
	fn := &disasm.Function{Instructions: []*disasm.Instruction{
		plain(0, 4, opcodes.KindLoad),       // 0: in g0, pushes
		jump(4, 4, opcodes.KindCondJump, opcodes.JumpNone, 0), // 1: in g0
		plain(8, 4, opcodes.KindStore),      // 2: in g1, no push
		plain(12, 4, opcodes.KindLoad),      // 3: in g2, pushes
		plain(16, 4, opcodes.KindNoOutput),  // 4: in g3, join
	}}

	g0 := &cfg.Group{ID: 0, Start: 0, End: 2, Out: []cfg.Edge{{To: 1, IsJump: false}, {To: 2, IsJump: true}}}
	g1 := &cfg.Group{ID: 1, Start: 2, End: 3, Out: []cfg.Edge{{To: 3, IsJump: false}}}
	g2 := &cfg.Group{ID: 2, Start: 3, End: 4, Out: []cfg.Edge{{To: 3, IsJump: false}}}
	g3 := &cfg.Group{ID: 3, Start: 4, End: 5}
	graph := cfg.NewGraph([]*cfg.Group{g0, g1, g2, g3})

	err := cfg.ValidateStack(graph, fn)
	require.Error(t, err)
	var mismatch *cfg.ErrStackMismatch
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, cfg.VertexID(3), mismatch.GroupID)
	require.Equal(t, 1, mismatch.Expected)
	require.Equal(t, 2, mismatch.Got)
}

// TestValidateStackConsistent covers the non-mismatch path over the same
// plain-if shape TestBuildPlainIf uses, where neither branch pushes
// anything so every group is reached at depth 0.
func TestValidateStackConsistent(t *testing.T) {
	fn := &disasm.Function{Instructions: []*disasm.Instruction{
		jump(0, 4, opcodes.KindCondJump, opcodes.JumpNone, 4),
		plain(4, 4, opcodes.KindStore),
		plain(8, 4, opcodes.KindNoOutput),
	}}

	g := cfg.Build(fn)
	require.NoError(t, cfg.ValidateStack(g, fn))
	for _, grp := range g.Groups {
		require.Equal(t, 0, grp.StackLevel)
	}
}
