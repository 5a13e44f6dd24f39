package ff7field

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SortedEntityNames returns entities' keys (as produced by Decompiler.
// Entities / engine.GetEntities) in deterministic, alphabetically-sorted
// order, for any caller that needs a stable iteration order — a plain
// map range is not one (the CLI's `ff7dc entities` subcommand, per spec
// §12, needs reproducible output across runs).
func SortedEntityNames(entities map[string]int) []string {
	names := maps.Keys(entities)
	slices.Sort(names)
	return names
}
