// Package maincmd implements the ff7dc command-line tool: a Cmd struct
// with flag:"..." struct tags parsed by mna/mainer, dispatching to one
// method per subcommand via reflection, exactly as the teacher's own
// nenuphar CLI does it.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/mna/mainer"
)

const binName = "ff7dc"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> <file>...
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> <file>... [-- <arg>...]
       %[1]s -h|--help
       %[1]s -v|--version

Decompiler for FF7 field-script containers.

The <command> can be one of:
       disasm                    Disassemble each file's scripts and print
                                  the raw instruction listing.
       decompile                 Decompile each file's scripts into source
                                  text, one section per entity.
       entities                  Print the {entity -> character id}
                                  summary for each file.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --raw                     Treat input as an already-extracted script
                                  section rather than a full container
                                  (skips the PSX-RAM-pointer prelude).
       --lang=c|lua              Target surface for "decompile" (default lua,
                                  or FF7DC_LANG).
       --addresses               Prefix every emitted line with its address
                                  for "decompile" and "disasm".
       -o --output                Write each file's decompiled entities to
                                  <output>/<entity>.<ext> instead of stdout
                                  (default: stdout, or
                                  FF7DC_OUTPUT_DIR).

More information on the ff7dc repository:
       https://github.com/MrSapps/SUDM-sub000
`, binName)
)

// EnvConfig holds the environment-sourced defaults loaded before flag
// parsing (spec §10.3): a flag the caller actually passes always wins,
// since Validate only falls back to these when SetFlags reports the
// corresponding flag was never set.
type EnvConfig struct {
	Lang      string `env:"FF7DC_LANG" envDefault:"lua"`
	OutputDir string `env:"FF7DC_OUTPUT_DIR" envDefault:""`
}

type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Raw       bool   `flag:"raw"`
	Lang      string `flag:"lang"`
	Addresses bool   `flag:"addresses"`
	Output    string `flag:"o,output"`

	env EnvConfig

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]

	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", c.args[0])
	}

	if len(c.args[1:]) == 0 {
		return fmt.Errorf("%s: at least one file must be provided", cmdName)
	}

	if !c.flags["lang"] {
		c.Lang = c.env.Lang
	}
	if c.Lang != "c" && c.Lang != "lua" {
		return fmt.Errorf("%s: invalid --lang %q, must be c or lua", cmdName, c.Lang)
	}
	if !c.flags["o"] && !c.flags["output"] {
		c.Output = c.env.OutputDir
	}

	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	if err := env.Parse(&c.env); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid environment: %s\n", err)
		return mainer.InvalidArgs
	}

	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: strings.ToUpper(binName) + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		// each command takes care of printing its errors, just return with an error code
		return mainer.Failure
	}
	return mainer.Success
}

// valid commands are those that take a mainer.Stdio and a slice of strings as
// input, and return an error as output.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		// must take 4 parameters (including receiver) and return 1
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}

		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
