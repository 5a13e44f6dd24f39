package engine

import "github.com/MrSapps/SUDM-sub000/disasm"

// GetEntities aggregates every function's metadata tag into a
// per-entity character-id summary (spec §4.7, §12): the first non-(-1)
// character id seen for an entity name wins, and later functions never
// overwrite it with a blank (-1) one.
func GetEntities(fns []*disasm.Function) map[string]int {
	r := make(map[string]int)
	for _, fn := range fns {
		md := ParseMetadata(fn.Metadata)
		if existing, ok := r[md.EntityName]; ok {
			if existing == -1 {
				r[md.EntityName] = md.CharacterID
			}
			continue
		}
		r[md.EntityName] = md.CharacterID
	}
	return r
}
