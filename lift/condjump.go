package lift

import (
	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/expr"
	"github.com/MrSapps/SUDM-sub000/surface"
)

// comparatorOps maps the cond-jump's inline comparator selector (0..10) to
// its expr.Op, in the exact order spec §4.5 lists them.
var comparatorOps = []expr.Op{
	expr.OpEQ, expr.OpNE, expr.OpGT, expr.OpLT, expr.OpGE, expr.OpLE,
	expr.OpAnd, expr.OpXor, expr.OpOr, expr.OpBitOn, expr.OpBitOff,
}

// fullComparatorOpcodes take two bank/addr operands and an inline
// comparator selector: IFUB/IFUBL/IFSW/IFSWL/IFUW/IFUWL.
var fullComparatorOpcodes = map[string]bool{
	"IFUB": true, "IFUBL": true, "IFSW": true, "IFSWL": true, "IFUW": true, "IFUWL": true,
}

// processCondJump implements spec §4.5's Cond-jump rule: consume the
// operands plus comparator selector, push the negated comparison so the
// emitter renders `if (!(a op b))` (the jump fires to *skip* the body when
// the condition is false, so the body's guard is the negation).
func (s *Stack) processCondJump(insn *disasm.Instruction) error {
	if fullComparatorOpcodes[insn.Mnemonic] {
		return s.processFullComparator(insn)
	}
	return s.processDisplacementComparator(insn)
}

func (s *Stack) processFullComparator(insn *disasm.Instruction) error {
	firstBank, firstAddr := bankAddrParam(insn.Params, 0)
	secondBank, secondAddr := bankAddrParam(insn.Params, 2)
	selector := insn.Params[4].(expr.Int).Value

	if selector < 0 || int(selector) >= len(comparatorOps) {
		return &ErrUnknownComparator{Address: insn.Addr, Value: selector}
	}
	op := comparatorOps[selector]

	first := s.operandValue(firstBank, firstAddr)
	second := s.operandValue(secondBank, secondAddr)

	// A surface may opt into reading binary-operation operands off a LIFO
	// stack (spec §9's argument-order quirk) instead of encounter order;
	// neither shipped surface does (the original builds BinaryOpValue(src,
	// dst, op) with no reordering — spec §8 scenario 3's `!(10 == 5)` is
	// exactly encounter order), but the opt-in path is kept for a future
	// backend. BitOn/BitOff render as the non-commutative call-style
	// `BitOn(value, bit)`; swapping their operands with no compensating
	// rewrite would silently change which operand is the bit index, so
	// they never participate in the flip.
	left, right := first, second
	if s.sfc != nil && s.sfc.BinaryOperandOrder() == surface.LIFO && !op.IsFunctionStyle() {
		left, right = second, first
		op = flipComparator(op)
	}

	cond := expr.BinaryOp{Left: left, Right: right, Op: op}
	s.push(cond.Negate())
	return nil
}

// flipComparator returns the comparator that keeps a swapped operand
// pair's meaning: a>b flipped to b<a reads the same. Symmetric operators
// (equality, bitwise tests) are returned unchanged.
func flipComparator(op expr.Op) expr.Op {
	switch op {
	case expr.OpGT:
		return expr.OpLT
	case expr.OpLT:
		return expr.OpGT
	case expr.OpGE:
		return expr.OpLE
	case expr.OpLE:
		return expr.OpGE
	default:
		return op
	}
}

// displacementComparatorFuncs names the pseudo-predicate each single-operand
// conditional jump renders as when folded into an expression (IFKEY* tests
// a key's state, IFPRTYQ/IFMEMBQ test party/member membership). These have
// no comparator selector of their own — spec §9 only requires that they
// participate in structural classification as conditional jumps, so this
// rendering is this implementation's own choice, consistent with how every
// other kernel-style predicate in this table is named.
var displacementComparatorFuncs = map[string]string{
	"IFKEY":     "keyDown",
	"IFKEYON":   "keyOn",
	"IFKEYOFF":  "keyOff",
	"IFPRTYQ":   "partyContains",
	"IFMEMBQ":   "memberInParty",
}

func (s *Stack) processDisplacementComparator(insn *disasm.Instruction) error {
	operand := insn.Params[0].(expr.Int)
	name := displacementComparatorFuncs[insn.Mnemonic]
	call := expr.Call{Name: name, Args: []expr.Value{operand}}
	s.push(call.Negate())
	return nil
}

// operandValue resolves a bank/addr pair to the expr.Value form used inside
// a condition: a bare literal for bank 0, or the already-rendered variable
// name wrapped in expr.Raw otherwise (the name depends on this Stack's
// Formatter/prefix, which expr.Variable's own String() has no access to).
func (s *Stack) operandValue(bank uint8, addr uint32) expr.Value {
	if bank == 0 {
		return expr.Int{Signed: false, Width: 32, Value: int64(addr)}
	}
	return expr.Raw{Text: s.VarName(bank, addr)}
}
