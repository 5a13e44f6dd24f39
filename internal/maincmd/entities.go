package maincmd

import (
	"context"
	"fmt"

	"github.com/MrSapps/SUDM-sub000/ff7field"
	"github.com/mna/mainer"
)

// Entities prints each file's {entity -> character id} summary (spec §12:
// engine.getEntities() promoted to a first-class CLI operation).
func (c *Cmd) Entities(ctx context.Context, stdio mainer.Stdio, args []string) error {
	d := newDecompiler(c.Lang, c.Addresses)

	var lastErr error
	for _, path := range args {
		fc, err := parseFile(path, c.Raw)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			lastErr = err
			continue
		}

		entities, err := d.Entities(fc)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
			lastErr = err
			continue
		}

		fmt.Fprintf(stdio.Stdout, "-- %s --\n", path)
		for _, name := range ff7field.SortedEntityNames(entities) {
			fmt.Fprintf(stdio.Stdout, "%s: %d\n", name, entities[name])
		}
	}
	return lastErr
}
