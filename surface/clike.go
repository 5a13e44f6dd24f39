package surface

import "fmt"

// CLike is the C-like target-language capability set (spec §4.6 table,
// left column).
type CLike struct{}

func (CLike) Break() string    { return "break;" }
func (CLike) Continue() string { return "continue;" }
func (CLike) Goto(addr uint32) string { return fmt.Sprintf("goto %s;", labelText(addr)) }
func (CLike) Label(addr uint32) string { return labelText(addr) + ":" }

func (CLike) DoHeader() string            { return "do {" }
func (CLike) DoFooter(cond string) string { return fmt.Sprintf("} while (%s);", cond) }

func (CLike) IfHeader(cond string) string { return fmt.Sprintf("if (%s) {", cond) }
func (CLike) IfTerminator() string        { return "}" }

func (CLike) WhileHeader(cond string) string { return fmt.Sprintf("while (%s) {", cond) }
func (CLike) WhileTerminator() string        { return "}" }

func (CLike) Else() string { return "else" }

func (CLike) BlockOpen() string  { return "{" }
func (CLike) BlockClose() string { return "}" }

func (CLike) StatementTerminator() string { return ";" }

func (CLike) CallOpen() string  { return "(" }
func (CLike) CallSep() string   { return "," }
func (CLike) CallClose() string { return ");" }

func (CLike) CallArgOrder() ArgOrder       { return FIFO }
func (CLike) BinaryOperandOrder() ArgOrder { return FIFO }

func (CLike) True() string { return "true" }

func (CLike) FunctionHeader(name string) string { return fmt.Sprintf("void %s() {", name) }
func (CLike) FunctionFooter() string             { return "}" }

func (CLike) EntityHeader(name string) string { return fmt.Sprintf("class %s {", name) }
func (CLike) EntityFooter() string            { return "};" }
