// Package opcodes holds the per-target opcode table (mnemonic, size,
// argument-format string, and instruction kind) together with the
// argument-format codec described in spec §4.3. It knows nothing about
// control flow or symbolic execution; it is purely the wire-format layer
// the disassembler drives.
package opcodes

import (
	"fmt"

	swiss "github.com/dolthub/swiss"
)

// Kind classifies an opcode the way the disassembler needs to: which
// downstream stage (control-flow analyzer or semantic lifter) treats it
// specially.
type Kind uint8

const (
	KindNormal Kind = iota
	KindCondJump
	KindUncondJump
	KindCall
	KindKernelCall
	KindLoad
	KindStore
	KindStack
	KindNoOutput
)

func (k Kind) String() string {
	switch k {
	case KindCondJump:
		return "cond-jump"
	case KindUncondJump:
		return "uncond-jump"
	case KindCall:
		return "call"
	case KindKernelCall:
		return "kernel-call"
	case KindLoad:
		return "load"
	case KindStore:
		return "store"
	case KindStack:
		return "stack"
	case KindNoOutput:
		return "no-output"
	default:
		return "normal"
	}
}

// JumpDir describes whether a cond/uncond-jump opcode's relative offset is
// added to or subtracted from the instruction's address (spec §3: backward
// jumps compute address-signedParam0, forward jumps address+unsignedParam+
// opcodeSize).
type JumpDir uint8

const (
	JumpNone JumpDir = iota
	JumpForward
	JumpBackward
)

// Special-case primary opcode bytes with dedicated disassembler handling
// (spec §4.3): SPECIAL dispatches on a second byte, KAWAI is a
// length-prefixed variable-arity instruction.
const (
	SpecialPrimary byte = 0x0F
	KawaiPrimary   byte = 0x28
)

// Key uniquely identifies an opcode: a plain primary byte, or for the
// SPECIAL (0x0F) family, (0x0F<<8)|sub.
type Key uint16

// MakeKey builds a composite key for a SPECIAL sub-opcode.
func MakeKey(primary, sub byte) Key { return Key(primary)<<8 | Key(sub) }

// Def describes one opcode: how to decode its arguments and which pipeline
// stage should treat it specially.
type Def struct {
	Key       Key
	Mnemonic  string
	ArgFormat string // see format-character table in spec §4.3
	Kind      Kind

	// JumpDir/JumpWidth apply only to Kind == KindCondJump/KindUncondJump:
	// the jump displacement is always the *last* parameter decoded from
	// ArgFormat, but its direction determines how DestAddress is computed.
	JumpDir   JumpDir
	JumpWidth int // bits in the displacement field: 8, 16 or 32

	// KernelFunc/KernelFormat apply only to Kind == KindKernelCall: the
	// rendered function name and the compact per-argument format string
	// described in spec §4.5 (b/n/f/_).
	KernelFunc   string
	KernelFormat string

	// BankAddressed marks kernel-calls whose arguments must be rendered
	// with the bank/offset variable-naming rule instead of KernelFormat
	// (spec §4.5: "BGON/BGOFF/GETAI").
	BankAddressed bool

	// Variadic marks the KAWAI length-prefixed family (spec §4.3): the
	// disassembler reads a length byte and a sub-opcode byte itself and
	// does not consult ArgFormat/Size for these.
	Variadic bool
}

// Size returns the total encoded size in bytes of an instruction with this
// definition, including the opcode byte(s) themselves. It is only valid for
// opcodes with a fixed size; KAWAI (variable-arity) opcodes compute their
// own size from a length prefix and ignore this.
func (d Def) Size() int {
	n := 1
	if d.Key > 0xFF {
		n = 2 // SPECIAL: primary + sub byte
	}
	return n + ArgWidth(d.ArgFormat)
}

// Table is the opcode table for one target (currently only the FF7 field
// engine; the world-map family is a documented future backend, see spec
// §1). It is backed by a swiss-table hash map because it is consulted once
// per decoded instruction and the key space (a single byte, or a 16-bit
// composite for SPECIAL sub-opcodes) makes open addressing a good fit.
type Table struct {
	defs *swiss.Map[Key, Def]
}

// NewTable builds a Table from a list of definitions. It panics on a
// duplicate key, which would indicate a bug in the table construction, not
// a runtime/input condition.
func NewTable(defs []Def) *Table {
	m := swiss.NewMap[Key, Def](uint32(len(defs)))
	for _, d := range defs {
		if _, ok := m.Get(d.Key); ok {
			panic(fmt.Sprintf("opcodes: duplicate opcode key %#04x (%s)", d.Key, d.Mnemonic))
		}
		m.Put(d.Key, d)
	}
	return &Table{defs: m}
}

// Lookup returns the definition for key, if any.
func (t *Table) Lookup(key Key) (Def, bool) {
	return t.defs.Get(key)
}

// Len returns the number of opcodes registered in the table.
func (t *Table) Len() int { return t.defs.Count() }
