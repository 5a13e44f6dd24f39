// Package codegen implements the two-pass emitter described in spec §4.6:
// a label pass that marks which goto targets need a visible label, and an
// address-DFS emit pass that walks the cfg.Graph once, invoking the
// semantic lifter per instruction and attaching structural tokens (if,
// while, do-while, break, continue, else) to the right group via a
// surface.Surface. A final linear pass over the group's address-order
// prev/next chain flushes every group's code buffer into text, applying
// each line's indentation delta.
package codegen

import (
	"fmt"
	"strings"

	"github.com/MrSapps/SUDM-sub000/cfg"
	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/lift"
	"github.com/MrSapps/SUDM-sub000/surface"
)

// Options configures one Emit call.
type Options struct {
	Surface           surface.Surface
	Formatter         *lift.Formatter
	VarPrefix         string // e.g. "FFVII.Data"
	IndentWidth       int    // spaces per level; 0 defaults to 2
	AnnotateAddresses bool   // prefix every line with "%08X: "
}

// Emit runs the label pass and the emit pass over fn/g and returns the
// rendered function body.
func Emit(g *cfg.Graph, fn *disasm.Function, opts Options) (string, error) {
	if opts.IndentWidth == 0 {
		opts.IndentWidth = 2
	}
	RunLabelPass(g, fn)

	e := &emitter{
		graph:   g,
		fn:      fn,
		surface: opts.Surface,
		lifter:  lift.New(opts.Formatter, opts.VarPrefix, opts.Surface),

		visited:        make(map[cfg.VertexID]bool),
		pendingPrepend: make(map[cfg.VertexID][]cfg.CodeLine),
		closedChains:   make(map[cfg.VertexID]bool),
	}

	if entry := g.EntryGroup(); entry != nil {
		if err := e.emitGroup(entry); err != nil {
			return "", err
		}
	}
	e.flushPending()

	return flushText(g, fn, opts)
}

// RunLabelPass walks every group's trailing goto (a Normal group whose
// last instruction is an unconditional jump not already consumed as a
// break or continue) and marks its target instruction LabelRequired, per
// spec §4.6. Structural edges (if/while/do-while/break/continue) never
// need a label: the surrounding braces already express them.
func RunLabelPass(g *cfg.Graph, fn *disasm.Function) {
	for _, grp := range g.Groups {
		if grp.Type != cfg.Normal || grp.SuppressGoto {
			continue
		}
		last := grp.LastInstruction(fn)
		if !last.IsJump() {
			continue
		}
		target := g.ByID(grp.Out[0].To)
		if target == nil {
			continue
		}
		fn.Instructions[target.Start].LabelRequired = true
	}
}

type emitter struct {
	graph   *cfg.Graph
	fn      *disasm.Function
	surface surface.Surface
	lifter  *lift.Stack

	visited        map[cfg.VertexID]bool
	pendingPrepend map[cfg.VertexID][]cfg.CodeLine
	closedChains   map[cfg.VertexID]bool
}

func (e *emitter) prepend(id cfg.VertexID, text string, unindentBefore, indentAfter bool) {
	e.pendingPrepend[id] = append(e.pendingPrepend[id], cfg.CodeLine{Text: text, UnindentBefore: unindentBefore, IndentAfter: indentAfter})
}

// flushPending merges every scheduled prepend into each group's own Code
// buffer, in the fixed order: scheduled prepends (outermost, structural —
// do-header, if/while terminators, else close/open sequences), then the
// group's goto label (if any), then the group's own statements.
func (e *emitter) flushPending() {
	for _, grp := range e.graph.Groups {
		var out []cfg.CodeLine
		out = append(out, e.pendingPrepend[grp.ID]...)
		if e.fn.Instructions[grp.Start].LabelRequired {
			out = append(out, cfg.CodeLine{Text: e.surface.Label(grp.StartAddr(e.fn))})
		}
		out = append(out, grp.Code...)
		grp.Code = out
	}
}

func (e *emitter) emitGroup(grp *cfg.Group) error {
	if e.visited[grp.ID] {
		return nil
	}
	e.visited[grp.ID] = true

	if grp.StartElse {
		e.prepend(grp.ID, e.surface.BlockClose(), true, false)
		e.prepend(grp.ID, e.surface.Else(), false, false)
		if !grp.CoalescedElse {
			e.prepend(grp.ID, e.surface.BlockOpen(), false, true)
		}
	}

	switch grp.Type {
	case cfg.Break:
		if err := e.processInstructions(grp); err != nil {
			return err
		}
		grp.Code = append(grp.Code, cfg.CodeLine{Text: e.surface.Break()})
	case cfg.Continue:
		if err := e.processInstructions(grp); err != nil {
			return err
		}
		grp.Code = append(grp.Code, cfg.CodeLine{Text: e.surface.Continue()})
	case cfg.IfCond:
		return e.emitIfCond(grp)
	case cfg.WhileCond:
		return e.emitWhileCond(grp)
	case cfg.DoWhileCond:
		return e.emitDoWhileCond(grp)
	default:
		if err := e.processInstructions(grp); err != nil {
			return err
		}
		last := grp.LastInstruction(e.fn)
		if last.IsJump() {
			target := e.graph.ByID(grp.Out[0].To)
			if !grp.SuppressGoto {
				grp.Code = append(grp.Code, cfg.CodeLine{Text: e.surface.Goto(target.StartAddr(e.fn))})
			}
			return e.emitGroup(target)
		}
		for _, out := range grp.Out {
			if err := e.emitGroup(e.graph.ByID(out.To)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *emitter) processInstructions(grp *cfg.Group) error {
	for i := grp.Start; i < grp.End; i++ {
		if err := e.lifter.Process(e.fn.Instructions[i], grp); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) edges(grp *cfg.Group) (trueEdge, falseEdge cfg.Edge, ok bool) {
	if len(grp.Out) != 2 {
		return cfg.Edge{}, cfg.Edge{}, false
	}
	for _, out := range grp.Out {
		if out.IsJump {
			falseEdge = out
		} else {
			trueEdge = out
		}
	}
	return trueEdge, falseEdge, true
}

func (e *emitter) emitIfCond(grp *cfg.Group) error {
	if err := e.processInstructions(grp); err != nil {
		return err
	}
	cond := e.lifter.PopCondition()
	grp.Code = append(grp.Code, cfg.CodeLine{Text: e.surface.IfHeader(cond.String()), IndentAfter: true})

	trueEdge, falseEdge, ok := e.edges(grp)
	if !ok {
		return fmt.Errorf("codegen: if-cond group %d does not have exactly two out edges", grp.ID)
	}

	snap := e.lifter.Snapshot()
	if err := e.emitGroup(e.graph.ByID(trueEdge.To)); err != nil {
		return err
	}
	e.lifter.Restore(snap)

	falseTarget := e.graph.ByID(falseEdge.To)
	if !falseTarget.StartElse {
		e.prepend(falseTarget.ID, e.surface.IfTerminator(), true, false)
	}
	if err := e.emitGroup(falseTarget); err != nil {
		return err
	}

	for _, closing := range grp.EndElse {
		if e.closedChains[closing.ID] {
			continue
		}
		e.closedChains[closing.ID] = true
		e.prepend(closing.ID, e.surface.IfTerminator(), true, false)
	}
	return nil
}

func (e *emitter) emitWhileCond(grp *cfg.Group) error {
	if err := e.processInstructions(grp); err != nil {
		return err
	}
	cond := e.lifter.PopCondition()
	grp.Code = append(grp.Code, cfg.CodeLine{Text: e.surface.WhileHeader(cond.String()), IndentAfter: true})

	trueEdge, falseEdge, ok := e.edges(grp)
	if !ok {
		return fmt.Errorf("codegen: while-cond group %d does not have exactly two out edges", grp.ID)
	}

	snap := e.lifter.Snapshot()
	if err := e.emitGroup(e.graph.ByID(trueEdge.To)); err != nil {
		return err
	}
	e.lifter.Restore(snap)

	exitTarget := e.graph.ByID(falseEdge.To)
	e.prepend(exitTarget.ID, e.surface.WhileTerminator(), true, false)
	return e.emitGroup(exitTarget)
}

func (e *emitter) emitDoWhileCond(grp *cfg.Group) error {
	var backEdge, exitEdge cfg.Edge
	haveBack, haveExit := false, false
	for _, out := range grp.Out {
		if out.IsJump {
			backEdge, haveBack = out, true
		} else {
			exitEdge, haveExit = out, true
		}
	}
	if !haveBack {
		return fmt.Errorf("codegen: do-while-cond group %d has no back-edge", grp.ID)
	}

	entry := e.graph.ByID(backEdge.To)
	e.prepend(entry.ID, e.surface.DoHeader(), false, true)

	if err := e.processInstructions(grp); err != nil {
		return err
	}

	// A wrapping infinite-loop group (engine.MarkWrappingInfiniteLoops) has
	// only the back-edge: its trailing instruction is an unconditional
	// jump, so the lifter never pushed a condition to pop. Render it as
	// do { ... } while (true) and stop; there is no exit edge to follow.
	if !haveExit {
		grp.Code = append(grp.Code, cfg.CodeLine{Text: e.surface.DoFooter(e.surface.True()), UnindentBefore: true})
		return nil
	}

	cond := e.lifter.PopCondition()
	grp.Code = append(grp.Code, cfg.CodeLine{Text: e.surface.DoFooter(cond.String()), UnindentBefore: true})

	return e.emitGroup(e.graph.ByID(exitEdge.To))
}

// flushText walks the graph's address-order prev/next chain, applying
// each group's code buffer's indentation deltas, and renders the result.
func flushText(g *cfg.Graph, fn *disasm.Function, opts Options) (string, error) {
	var b strings.Builder
	indent := 0

	var first *cfg.Group
	for _, grp := range g.Groups {
		if grp.Prev == nil {
			first = grp
			break
		}
	}

	for grp := first; grp != nil; grp = grp.Next {
		for _, line := range grp.Code {
			if line.UnindentBefore && indent > 0 {
				indent--
			}
			if opts.AnnotateAddresses {
				fmt.Fprintf(&b, "%08X: ", grp.StartAddr(fn))
			}
			if line.Text != "" {
				b.WriteString(strings.Repeat(" ", indent*opts.IndentWidth))
				b.WriteString(line.Text)
			}
			b.WriteByte('\n')
			if line.IndentAfter {
				indent++
			}
		}
	}
	return b.String(), nil
}
