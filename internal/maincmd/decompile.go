package maincmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mna/mainer"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Decompile renders each file's scripts into source text, one section per
// entity (spec §6's Output composition). With no --output, every entity's
// text is written to stdout; with --output, each entity is written to its
// own <output>/<entity><ext> file instead.
func (c *Cmd) Decompile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	d := newDecompiler(c.Lang, c.Addresses)
	ext := surfaceExt(c.Lang)

	var lastErr error
	for _, path := range args {
		fc, err := parseFile(path, c.Raw)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			lastErr = err
			continue
		}

		entities, err := d.Decompile(fc)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
			lastErr = err
			continue
		}

		if err := writeEntities(stdio, c.Output, ext, entities); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
			lastErr = err
		}
	}
	return lastErr
}

func writeEntities(stdio mainer.Stdio, outDir, ext string, entities map[string]string) error {
	if outDir == "" {
		for _, name := range sortedKeys(entities) {
			fmt.Fprint(stdio.Stdout, entities[name])
		}
		return nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, name := range sortedKeys(entities) {
		dest := filepath.Join(outDir, name+ext)
		if err := os.WriteFile(dest, []byte(entities[name]), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
