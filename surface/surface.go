// Package surface implements the target-language capability set spec §4.6
// describes: a small interface with one concrete record per backend
// (C-like, Lua-like), injected into the emitter so it never hard-codes a
// token.
package surface

import "fmt"

// ArgOrder selects whether the emitter reads a call's argument list (and a
// binary operator's operands) in the order the original engine pushed
// them — spec §9's design notes call this out as a configurable asymmetry.
// The original engine builds both call arguments and binary-operation
// operands in encounter order (FIFO); LIFO exists for a hypothetical
// backend that reads its operand stack the other way and is not used by
// either shipped surface.
type ArgOrder uint8

const (
	FIFO ArgOrder = iota
	LIFO
)

// Surface is the capability set the emitter consults for every structural
// token and statement terminator. Two implementations exist: CLike and
// LuaLike.
type Surface interface {
	Break() string
	Continue() string
	Goto(addr uint32) string
	Label(addr uint32) string

	DoHeader() string
	DoFooter(cond string) string

	IfHeader(cond string) string
	IfTerminator() string

	WhileHeader(cond string) string
	WhileTerminator() string

	Else() string

	BlockOpen() string
	BlockClose() string

	StatementTerminator() string

	CallOpen() string
	CallSep() string
	CallClose() string

	CallArgOrder() ArgOrder
	BinaryOperandOrder() ArgOrder

	// True is the literal boolean-true token, used for a do-while wrapping
	// an unconditional loop that never pushed a real condition (spec §4.7).
	True() string

	// FunctionHeader/FunctionFooter wrap one emitted function body (spec
	// §6's "Entity wrapper" scenario). EntityHeader/EntityFooter wrap every
	// function belonging to one entity.
	FunctionHeader(name string) string
	FunctionFooter() string
	EntityHeader(name string) string
	EntityFooter() string
}

func labelText(addr uint32) string { return fmt.Sprintf("label_0x%08X", addr) }
