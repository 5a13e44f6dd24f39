package ff7field

import (
	"fmt"
	"strings"

	"github.com/MrSapps/SUDM-sub000/codegen"
	"github.com/MrSapps/SUDM-sub000/container"
	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/engine"
	"github.com/MrSapps/SUDM-sub000/lift"
	"github.com/MrSapps/SUDM-sub000/surface"
)

// Decompiler holds everything needed to turn a Container's scripts into
// decompiled source: the opcode tables (target-specific, spec §4.3), the
// target-language surface (spec §4.6), and the injected formatter (spec
// §6). A Decompiler is reusable across containers; it holds no per-call
// state (spec §5: the pipeline is single-threaded and synchronous, one
// call chain per script).
type Decompiler struct {
	Tables    disasm.Tables
	Surface   surface.Surface
	Formatter *lift.Formatter
	VarPrefix string // e.g. "FFVII.Data"

	IndentWidth       int  // spaces per level; 0 defaults to 2
	AnnotateAddresses bool // prefix every emitted line with "%08X: "
}

// New creates a Decompiler with sensible defaults: the C-like surface if
// sfc is nil, no formatter (default naming throughout), and "FFVII.Data" as
// the variable-name prefix.
func New(tables disasm.Tables, sfc surface.Surface) *Decompiler {
	if sfc == nil {
		sfc = surface.CLike{}
	}
	return &Decompiler{Tables: tables, Surface: sfc, VarPrefix: "FFVII.Data"}
}

func (d *Decompiler) indentWidth() int {
	if d.IndentWidth == 0 {
		return 2
	}
	return d.IndentWidth
}

// Decompile disassembles and emits every script in c, grouped by entity, and
// returns one rendered string per entity, keyed by the entity's
// formatter-resolved friendly name (spec §6's "Entity wrapper" scenario).
func (d *Decompiler) Decompile(c *Container) (map[string]string, error) {
	groups, order, err := d.entityFunctions(c)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(order))
	for _, e := range order {
		fns := groups[e]
		rawName := c.EntityName(e)
		friendly := d.entityName(rawName)

		tagFunctions(fns, rawName)

		var b strings.Builder
		b.WriteString(d.Surface.EntityHeader(friendly))
		b.WriteByte('\n')
		for _, fn := range fns {
			text, err := d.emitFunction(fn, friendly)
			if err != nil {
				return nil, fmt.Errorf("ff7field: entity %q function %q: %w", rawName, fn.Name, err)
			}
			b.WriteString(text)
		}
		b.WriteString(d.Surface.EntityFooter())
		b.WriteByte('\n')
		out[friendly] = b.String()
	}
	return out, nil
}

// Entities aggregates every function's character id by entity name (spec
// §4.7, §12): {entityName -> characterId}, the first non-(-1) id seen for
// an entity winning over any blank one that follows it.
func (d *Decompiler) Entities(c *Container) (map[string]int, error) {
	groups, order, err := d.entityFunctions(c)
	if err != nil {
		return nil, err
	}

	var all []*disasm.Function
	for _, e := range order {
		fns := groups[e]
		tagFunctions(fns, c.EntityName(e))
		all = append(all, fns...)
	}
	return engine.GetEntities(all), nil
}

// entityFunctions disassembles every script descriptor in c and groups the
// resulting functions by entity index, in table order.
func (d *Decompiler) entityFunctions(c *Container) (groups map[int][]*disasm.Function, order []int, err error) {
	groups = make(map[int][]*disasm.Function)
	for _, sd := range c.Scripts() {
		fns, err := d.buildFunctions(c, sd)
		if err != nil {
			return nil, nil, fmt.Errorf("ff7field: entity %d script %d: %w", sd.EntityIndex, sd.ScriptIndex, err)
		}
		if _, ok := groups[sd.EntityIndex]; !ok {
			order = append(order, sd.EntityIndex)
		}
		groups[sd.EntityIndex] = append(groups[sd.EntityIndex], fns...)
	}
	return groups, order, nil
}

// buildFunctions disassembles one script descriptor's byte range and splits
// it into one or two functions per spec §4.3: script index 0 always yields
// both an "init" and a "main" function — even when the container's bytes
// provide no instructions after the first RET, a synthesized empty "main"
// is still emitted, matching spec §8's "Empty init / main split" scenario.
// Every other script index yields exactly one function.
func (d *Decompiler) buildFunctions(c *Container, sd container.ScriptDescriptor) ([]*disasm.Function, error) {
	instrs, err := disasm.Disassemble(d.Tables, c.body, sd.EntryPoint, sd.EndAddress)
	if err != nil {
		return nil, err
	}

	if sd.ScriptIndex != 0 {
		fn := disasm.ApplyPostDisassemblyTransforms(buildFunction(scriptName(sd.ScriptIndex), instrs, sd.EntryPoint, sd.EndAddress))
		return []*disasm.Function{fn}, nil
	}

	init, main, err := disasm.SplitScript0(instrs)
	if err != nil {
		return nil, err
	}

	initEnd := sd.EndAddress
	if len(main) > 0 {
		initEnd = main[0].Addr
	}

	initFn := disasm.ApplyPostDisassemblyTransforms(buildFunction("init", init, sd.EntryPoint, initEnd))
	mainFn := disasm.ApplyPostDisassemblyTransforms(buildFunction("main", main, initEnd, sd.EndAddress))
	return []*disasm.Function{initFn, mainFn}, nil
}

func scriptName(scriptIndex int) string {
	return fmt.Sprintf("script_%d", scriptIndex)
}

// buildFunction assembles a Function from an already-sliced instruction
// run. start/end are used verbatim when instrs is empty (the synthesized
// empty "main" case); otherwise the addresses are read straight off the
// instructions themselves.
func buildFunction(name string, instrs []*disasm.Instruction, start, end disasm.Address) *disasm.Function {
	fn := &disasm.Function{Name: name, StartAddress: start, EndAddress: end, Instructions: instrs}
	if len(instrs) > 0 {
		fn.StartAddress = instrs[0].Addr
	}
	return fn
}

// tagFunctions fills in each function's opaque metadata tag (spec §4.3,
// §4.7): the first function in the slice is marked IsFirstInEntity, the
// last IsLastInEntity, and each carries its own CHAR opcode's character id
// if it sets one.
func tagFunctions(fns []*disasm.Function, rawEntityName string) {
	for i, fn := range fns {
		charID, ok := disasm.FindCharacterID(fn)
		if !ok {
			charID = -1
		}
		fn.Metadata = disasm.BuildMetadata(i == 0, i == len(fns)-1, charID, rawEntityName)
	}
}

func (d *Decompiler) entityName(raw string) string {
	if d.Formatter != nil && d.Formatter.EntityName != nil {
		if n := d.Formatter.EntityName(raw); n != "" {
			return n
		}
	}
	return raw
}

// emitFunction runs the control-flow analyzer, the engine post-CFG
// cleanups, and the two-pass emitter over one function, then wraps the
// result in the surface's function header/footer (spec §4.6, §4.7).
func (d *Decompiler) emitFunction(fn *disasm.Function, entityFriendlyName string) (string, error) {
	g, err := cfgBuild(fn)
	if err != nil {
		return "", err
	}

	body, err := codegen.Emit(g, fn, codegen.Options{
		Surface:           d.Surface,
		Formatter:         d.Formatter,
		VarPrefix:         d.VarPrefix,
		IndentWidth:       d.indentWidth(),
		AnnotateAddresses: d.AnnotateAddresses,
	})
	if err != nil {
		return "", err
	}

	name := fn.Name
	if d.Formatter != nil && d.Formatter.FunctionName != nil {
		if n := d.Formatter.FunctionName(entityFriendlyName, fn.Name); n != "" {
			name = n
		}
	}

	var b strings.Builder
	if d.Formatter != nil && d.Formatter.FunctionComment != nil {
		if c := d.Formatter.FunctionComment(entityFriendlyName, name); c != "" {
			b.WriteString(c)
			b.WriteByte('\n')
		}
	}
	b.WriteString(d.Surface.FunctionHeader(name))
	b.WriteByte('\n')
	b.WriteString(indentLines(body, d.indentWidth()))
	b.WriteString(d.Surface.FunctionFooter())
	b.WriteByte('\n')
	return b.String(), nil
}

// indentLines prefixes every non-empty line of text (which always ends in
// its own trailing newline, or is itself empty) with width spaces.
func indentLines(text string, width int) string {
	if text == "" {
		return ""
	}
	pad := strings.Repeat(" ", width)
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
