// Package disasm turns a container.ScriptDescriptor's byte range into a
// flat, address-keyed sequence of typed Instructions (spec §4.3), and
// groups that sequence into Functions delimited by entry points / first
// RET heuristics.
package disasm

import (
	"fmt"

	"github.com/MrSapps/SUDM-sub000/expr"
	"github.com/MrSapps/SUDM-sub000/internal/opcodes"
)

// Address is a 32-bit offset into the decompressed script body.
type Address = uint32

// Instruction is immutable after disassembly except for LabelRequired,
// which the emitter's label pass (codegen) sets once it knows which
// addresses are reachable only via goto.
type Instruction struct {
	Addr     Address
	Key      opcodes.Key
	Mnemonic string
	Params   []expr.Value
	Size     int
	Kind     opcodes.Kind
	Def      opcodes.Def

	// LabelRequired is true when this instruction's address is the target
	// of a goto edge the emitter cannot express structurally (spec §4.6).
	LabelRequired bool
}

// DestAddress computes the jump target for a cond-jump or uncond-jump
// instruction (spec §3's Instruction invariant). It panics if called on a
// non-jump instruction, which would be a disassembler or CFG analyzer bug.
func (i *Instruction) DestAddress() Address {
	switch i.Kind {
	case opcodes.KindCondJump:
		// Always a signed relative offset: a negative displacement yields
		// a backward (do-while-style) target, a positive one a forward
		// (if-skip-style) target. Direction is a property the CFG analyzer
		// derives by comparing the result to i.Addr, not of the opcode.
		disp := lastInt(i.Params)
		return uint32(int64(i.Addr) + disp.Value + int64(i.Size))
	case opcodes.KindUncondJump:
		disp := lastInt(i.Params)
		switch i.Def.JumpDir {
		case opcodes.JumpForward:
			return uint32(int64(i.Addr) + disp.Value + int64(i.Size))
		case opcodes.JumpBackward:
			return uint32(int64(i.Addr) - disp.Value)
		}
		panic(fmt.Sprintf("disasm: uncond-jump %s at %#08x has no JumpDir", i.Mnemonic, i.Addr))
	default:
		panic(fmt.Sprintf("disasm: DestAddress called on non-jump instruction %s (kind %s)", i.Mnemonic, i.Kind))
	}
}

// IsJump reports whether this instruction is a cond-jump or uncond-jump.
func (i *Instruction) IsJump() bool {
	return i.Kind == opcodes.KindCondJump || i.Kind == opcodes.KindUncondJump
}

func lastInt(params []expr.Value) expr.Int {
	iv, ok := params[len(params)-1].(expr.Int)
	if !ok {
		panic("disasm: jump instruction's trailing parameter is not an integer displacement")
	}
	return iv
}
