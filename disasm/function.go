package disasm

import (
	"fmt"

	"github.com/MrSapps/SUDM-sub000/expr"
	"github.com/MrSapps/SUDM-sub000/internal/opcodes"
)

// Function is one disassembled function: either a whole script (script
// index > 0) or one half of script 0's init/main split.
type Function struct {
	Name         string
	StartAddress Address
	EndAddress   Address
	Instructions []*Instruction
	Metadata     string // opaque "[start_][end_]<characterId>_<entityName>" tag
	ReturnHas    bool
	ArgCount     int
}

// SplitScript0 splits script index 0's instruction stream into init (up to
// and including the first RET) and main (the remainder), per spec §4.3. If
// a second RET appears in main with instructions still following it,
// ErrTooManyReturns is raised — scripts 0 may contain at most two
// functions.
func SplitScript0(instrs []*Instruction) (init, main []*Instruction, err error) {
	firstRet := -1
	for i, insn := range instrs {
		if insn.Mnemonic == "RET" {
			firstRet = i
			break
		}
	}
	if firstRet == -1 {
		return instrs, nil, nil
	}
	init = instrs[:firstRet+1]
	rest := instrs[firstRet+1:]
	if len(rest) == 0 {
		return init, nil, nil
	}

	secondRet := -1
	for i, insn := range rest {
		if insn.Mnemonic == "RET" {
			secondRet = i
			break
		}
	}
	if secondRet != -1 && secondRet != len(rest)-1 {
		return nil, nil, &ErrTooManyReturns{Address: rest[secondRet+1].Addr}
	}
	return init, rest, nil
}

// ApplyPostDisassemblyTransforms implements the two engine-specific
// cleanups spec §4.3 requires before CFG construction:
//
//  1. if the function's last instruction is RET, shorten EndAddress by one
//     instruction and overwrite the last slot with a NOP sentinel (the CFG
//     analyzer needs a trailing node to attach structural closers to);
//  2. if the function's last instruction is an unconditional jump that
//     targets itself (a trailing infinite loop), apply the same
//     replacement.
//
// It mutates fn.Instructions in place and returns fn for chaining.
func ApplyPostDisassemblyTransforms(fn *Function) *Function {
	if len(fn.Instructions) == 0 {
		return fn
	}
	last := fn.Instructions[len(fn.Instructions)-1]

	isTrailingRet := last.Mnemonic == "RET"
	isTrailingSelfJump := last.Kind == opcodes.KindUncondJump && last.DestAddress() == last.Addr

	if isTrailingRet || isTrailingSelfJump {
		fn.Instructions[len(fn.Instructions)-1] = &Instruction{
			Addr:     last.Addr,
			Key:      opcodes.Key(0x5F),
			Mnemonic: "NOP",
			Kind:     opcodes.KindNoOutput,
			Size:     last.Size,
		}
		fn.EndAddress = last.Addr
	}
	return fn
}

// FindCharacterID walks fn's instructions looking for the first CHAR
// opcode, returning its character id parameter. ok is false if fn never
// sets a character id (e.g. a non-entity trigger script).
func FindCharacterID(fn *Function) (id int, ok bool) {
	for _, insn := range fn.Instructions {
		if insn.Mnemonic == "CHAR" && len(insn.Params) > 0 {
			if iv, ok := insn.Params[0].(expr.Int); ok {
				return int(iv.Value), true
			}
		}
	}
	return -1, false
}

// BuildMetadata composes the opaque
// "[start_][end_]<characterId>_<entityName>" tag spec §4.3 describes, given
// this function's position within its containing entity's script list.
func BuildMetadata(isFirstInEntity, isLastInEntity bool, characterID int, entityName string) string {
	var prefix string
	if isFirstInEntity {
		prefix += "start_"
	}
	if isLastInEntity {
		prefix += "end_"
	}
	return fmt.Sprintf("%s%d_%s", prefix, characterID, entityName)
}
