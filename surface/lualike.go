package surface

import "fmt"

// LuaLike is the Lua-like target-language capability set (spec §4.6 table,
// right column). continue has no native Lua 5.1 spelling, so it degrades
// to a visible TODO rather than silently emitting wrong control flow.
type LuaLike struct{}

func (LuaLike) Break() string         { return "break" }
func (LuaLike) Continue() string      { return "-- TODO continue not supported" }
func (LuaLike) Goto(addr uint32) string { return fmt.Sprintf("goto %s", labelText(addr)) }
func (LuaLike) Label(addr uint32) string { return fmt.Sprintf("::%s::", labelText(addr)) }

func (LuaLike) DoHeader() string            { return "repeat" }
func (LuaLike) DoFooter(cond string) string { return fmt.Sprintf("until (%s)", cond) }

func (LuaLike) IfHeader(cond string) string { return fmt.Sprintf("if (%s) then", cond) }
func (LuaLike) IfTerminator() string        { return "end" }

func (LuaLike) WhileHeader(cond string) string { return fmt.Sprintf("while (%s) do", cond) }
func (LuaLike) WhileTerminator() string        { return "end" }

func (LuaLike) Else() string { return "else" }

func (LuaLike) BlockOpen() string  { return "" }
func (LuaLike) BlockClose() string { return "end" }

func (LuaLike) StatementTerminator() string { return "" }

func (LuaLike) CallOpen() string  { return "(" }
func (LuaLike) CallSep() string   { return "," }
func (LuaLike) CallClose() string { return ")" }

func (LuaLike) CallArgOrder() ArgOrder       { return FIFO }
func (LuaLike) BinaryOperandOrder() ArgOrder { return FIFO }

func (LuaLike) True() string { return "true" }

func (LuaLike) FunctionHeader(name string) string { return fmt.Sprintf("function %s()", name) }
func (LuaLike) FunctionFooter() string             { return "end" }

func (LuaLike) EntityHeader(name string) string { return fmt.Sprintf("-- entity: %s", name) }
func (LuaLike) EntityFooter() string            { return "-- end entity" }
