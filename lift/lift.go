// Package lift implements the semantic lifter (spec §4.5): a symbolic
// execution pass that walks one function's instructions in address-DFS
// order, maintaining a value stack, and turns each instruction into either
// a pushed expr.Value (load, cond-jump) or an emitted statement line
// (store, call, kernel-call) appended to the current cfg.Group's code
// buffer.
package lift

import (
	"fmt"

	"github.com/MrSapps/SUDM-sub000/cfg"
	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/expr"
	"github.com/MrSapps/SUDM-sub000/internal/opcodes"
	"github.com/MrSapps/SUDM-sub000/surface"
)

// ErrNonDeterministicLabel is returned if a lifter routine is ever caught
// branching on a value-stack *value* (rather than purely on control-flow
// shape) while deciding whether an address needs a label. No handler in
// this package does that; it exists so a future one that needs to must
// fail loudly instead of letting label selection flicker between DFS
// orders (spec §9).
type ErrNonDeterministicLabel struct {
	Address disasm.Address
}

func (e *ErrNonDeterministicLabel) Error() string {
	return fmt.Sprintf("lift: non-deterministic label decision at %#08x", e.Address)
}

// ErrUnknownComparator is returned when a cond-jump's inline comparator
// selector falls outside the documented 0..10 range (spec §4.5).
type ErrUnknownComparator struct {
	Address disasm.Address
	Value   int64
}

func (e *ErrUnknownComparator) Error() string {
	return fmt.Sprintf("lift: unknown comparator %d at %#08x", e.Value, e.Address)
}

// Formatter is the injected naming/comment collaborator (spec §6). Every
// field is optional; a nil field (or one returning "") requests default
// naming from Stack.
type Formatter struct {
	VarName         func(bank uint8, addr uint32) string
	EntityName      func(raw string) string
	AnimationName   func(id int) string
	FunctionName    func(entity, raw string) string
	FunctionComment func(entity, fn string) string
}

func (f *Formatter) varName(bank uint8, addr uint32) string {
	if f == nil || f.VarName == nil {
		return ""
	}
	return f.VarName(bank, addr)
}

// Stack is the per-function lifter state: the value stack itself plus the
// collaborators (Formatter, variable-name prefix, target surface) every
// instruction handler needs.
type Stack struct {
	values []expr.Value
	fmt    *Formatter
	prefix string // e.g. "FFVII.Data", prepended to every rendered variable name
	sfc    surface.Surface
}

// New creates an empty Stack for one function. sfc may be nil, in which
// case call rendering uses plain C-style punctuation and binary-operand
// order is left as encountered in the instruction's parameters.
func New(f *Formatter, prefix string, sfc surface.Surface) *Stack {
	return &Stack{fmt: f, prefix: prefix, sfc: sfc}
}

// Snapshot copies the current stack contents, for the per-edge copies the
// emitter's DFS takes when it schedules a successor group (spec §3: value
// stack snapshots are taken per edge so sibling branches never alias).
func (s *Stack) Snapshot() []expr.Value {
	out := make([]expr.Value, len(s.values))
	copy(out, s.values)
	return out
}

// Restore replaces the current stack contents with a prior Snapshot.
func (s *Stack) Restore(snap []expr.Value) {
	s.values = append(s.values[:0], snap...)
}

func (s *Stack) push(v expr.Value) { s.values = append(s.values, v) }

func (s *Stack) pop() expr.Value {
	v := s.values[len(s.values)-1]
	s.values = s.values[:len(s.values)-1]
	return v
}

// PopCondition pops and returns the value a cond-jump pushed, for the
// emitter to fold directly into an if/while/do-while header. It is the
// only pop operation anything outside this package needs: every other
// kind either never pushes (store, call, kernel-call) or pushes a value
// nothing pops (load: cond-jump and kernel-call read their operands from
// Instruction.Params, not from the stack).
func (s *Stack) PopCondition() expr.Value { return s.pop() }

// Process executes one instruction's lifting rule, appending any emitted
// statement to grp's code buffer (via addOutputLine) and/or pushing a
// value onto the stack, per spec §4.5's per-kind rules.
func (s *Stack) Process(insn *disasm.Instruction, grp *cfg.Group) error {
	switch insn.Kind {
	case opcodes.KindLoad:
		s.push(s.loadValue(insn))
	case opcodes.KindStore:
		return s.processStore(insn, grp)
	case opcodes.KindCondJump:
		return s.processCondJump(insn)
	case opcodes.KindUncondJump, opcodes.KindNoOutput:
		// No stack effect; the emitter decides break/continue/goto/nothing
		// from the group's structural Type, not from anything the lifter
		// leaves behind.
	case opcodes.KindCall:
		s.processCall(insn, grp)
	case opcodes.KindKernelCall:
		s.processKernelCall(insn, grp)
	}
	return nil
}

func (s *Stack) loadValue(insn *disasm.Instruction) expr.Value {
	bank, addr := bankAddrParam(insn.Params, 0)
	return s.variable(bank, addr)
}

func addOutputLine(grp *cfg.Group, text string, unindentBefore, indentAfter bool) {
	grp.Code = append(grp.Code, cfg.CodeLine{Text: text, UnindentBefore: unindentBefore, IndentAfter: indentAfter})
}

// bankAddrParam reads the (bank, addr) Int pair starting at params[i],
// the positional encoding every store/load/cond-jump opcode in this table
// uses for a variable reference (spec §4.3's `wB` pair convention).
func bankAddrParam(params []expr.Value, i int) (bank uint8, addr uint32) {
	b := params[i].(expr.Int)
	a := params[i+1].(expr.Int)
	return uint8(b.Value), uint32(a.Value)
}

// variable resolves a bank/addr pair to an expr.Value: bank 0 is always a
// literal, not a variable reference (addr doubles as the literal value at
// the disassembly layer); any other bank becomes an unnamed expr.Variable.
// The bank naming rule (persistent, temporary, unknown) is applied by
// VarName, not here.
func (s *Stack) variable(bank uint8, addr uint32) expr.Value {
	if bank == 0 {
		return expr.Int{Signed: false, Width: 32, Value: int64(addr)}
	}
	return expr.Variable{Bank: bank, Addr: addr, FromLoad: true}
}

// VarName renders a bank/addr pair as the identifier text spec §4.5
// describes, for use by store/kernel-call rendering (which need the string
// form, not an expr.Variable node, since they build Call/assignment text
// directly).
func (s *Stack) VarName(bank uint8, addr uint32) string {
	low8 := addr & 0xFF
	switch {
	case bank == 0:
		return fmt.Sprintf("%d", addr)
	case isPersistentBank(bank):
		if name := s.fmt.varName(bank, addr); name != "" {
			return fmt.Sprintf("%s.%s", s.prefix, name)
		}
		return fmt.Sprintf("%s.var_%d_%d", s.prefix, bank, low8)
	case isTempBank(bank):
		if name := s.fmt.varName(bank, addr); name != "" {
			return fmt.Sprintf("%s.%s", s.prefix, name)
		}
		return fmt.Sprintf("%s.tmp_%d_%d", s.prefix, bank, low8)
	default:
		return fmt.Sprintf("%s.unknown_%d_%d", s.prefix, bank, low8)
	}
}

func isPersistentBank(bank uint8) bool {
	switch bank {
	case 1, 2, 3, 13, 15:
		return true
	}
	return false
}

func isTempBank(bank uint8) bool {
	return bank == 5 || bank == 6
}
