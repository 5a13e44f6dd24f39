// Package cfg builds the basic-block / group graph described in spec §4.4:
// it partitions a function's instruction stream into basic blocks, merges
// linear runs into groups, classifies each group by structured-control
// shape (normal, if-cond, while-cond, do-while-cond, break, continue), and
// detects else/coalesced-else relationships between groups.
package cfg

import (
	"github.com/MrSapps/SUDM-sub000/disasm"
)

// VertexID identifies a group (and, before merging, a basic block) within
// one function's graph.
type VertexID int

// Type classifies a group by its structured-control shape.
type Type uint8

const (
	Normal Type = iota
	IfCond
	WhileCond
	DoWhileCond
	Break
	Continue
)

func (t Type) String() string {
	switch t {
	case IfCond:
		return "if-cond"
	case WhileCond:
		return "while-cond"
	case DoWhileCond:
		return "do-while-cond"
	case Break:
		return "break"
	case Continue:
		return "continue"
	default:
		return "normal"
	}
}

// Edge is a directed graph edge, typed by whether it originates from a jump
// (spec §3: every cond-jump contributes a true-edge/fallthrough and a
// false-edge/target; every uncond-jump contributes one jump edge).
type Edge struct {
	To     VertexID
	IsJump bool
}

// Group is a basic block extended with structural classification and the
// address-order prev/next links used for the emitter's final flush pass
// (spec §3, §4.4, §4.6).
type Group struct {
	ID VertexID

	// Start/End are instruction indices into the owning function's
	// Instructions slice, [Start,End).
	Start, End int

	Type Type
	Out  []Edge

	// Prev/Next link groups in address order — a separate axis from Out,
	// which links them in control-flow order.
	Prev, Next *Group

	// StackLevel is the value-stack depth on entry to this group, used by
	// the stack-effect validation pass (spec §4.4).
	StackLevel int

	StartElse     bool
	EndElse       []*Group
	CoalescedElse bool

	// SuppressGoto marks a group whose trailing unconditional jump
	// DetectElse has consumed as an else's skip-over-the-else-body
	// transfer: the emitter must not render it as a literal goto, since
	// the close/else/open sequence it attaches to the jump's target
	// already expresses the same control transfer structurally.
	SuppressGoto bool

	// Code is filled in by the lift package during the emitter's DFS.
	Code []CodeLine
}

// CodeLine is one line of emitted source text, with the indentation deltas
// the emitter's flush pass applies around it (spec §4.6).
type CodeLine struct {
	Text           string
	UnindentBefore bool
	IndentAfter    bool
}

// StartAddr returns the address of this group's first instruction.
func (g *Group) StartAddr(fn *disasm.Function) disasm.Address {
	return fn.Instructions[g.Start].Addr
}

// LastInstruction returns this group's final instruction.
func (g *Group) LastInstruction(fn *disasm.Function) *disasm.Instruction {
	return fn.Instructions[g.End-1]
}

// Graph is the complete group graph for one function.
type Graph struct {
	Groups []*Group
	Entry  VertexID

	byID map[VertexID]*Group
}

// NewGraph builds a Graph from pre-built groups, indexing them by ID and
// setting the entry vertex to the first group. Groups must already carry
// correct Prev/Next and Out links; this exists for callers that construct
// groups directly rather than through Build (tests, and any pass that
// rebuilds a graph's vertex set wholesale).
func NewGraph(groups []*Group) *Graph {
	g := &Graph{Groups: groups}
	if len(groups) > 0 {
		g.Entry = groups[0].ID
	}
	g.index()
	return g
}

// ByID returns the group with the given id, or nil.
func (g *Graph) ByID(id VertexID) *Group { return g.byID[id] }

// EntryGroup returns the function's entry group.
func (g *Graph) EntryGroup() *Group { return g.byID[g.Entry] }

func (g *Graph) index() {
	g.byID = make(map[VertexID]*Group, len(g.Groups))
	for _, grp := range g.Groups {
		g.byID[grp.ID] = grp
	}
}
