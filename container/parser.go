package container

import (
	swiss "github.com/dolthub/swiss"
)

// ScriptDescriptor is one (entity,script) byte range to disassemble.
type ScriptDescriptor struct {
	EntityIndex int
	ScriptIndex int // 0..31
	EntryPoint  uint32
	EndAddress  uint32
}

// Scripts flattens the header's per-entity script entry-point table into a
// sequence of (entityIndex, scriptIndex, entryPoint, endAddress)
// descriptors, per spec §4.2:
//
//   - entries are visited in table order (entity 0's 32 scripts, then
//     entity 1's, and so on);
//   - a duplicate entry point within the same entity is elided — it marks
//     an empty alias script, and only the first occurrence produces a
//     descriptor;
//   - the end of a script is the first strictly-greater entry point in
//     table order, wrapping across entities; the very last script (in
//     table order, after eliding duplicates) ends at offsetToStrings.
func (h *Header) Scripts() []ScriptDescriptor {
	type flat struct {
		entity, script int
		entry          uint32
	}

	var all []flat
	for e, table := range h.EntityScriptEntries {
		seen := swiss.NewMap[uint16, struct{}](NumScriptsPerEntity)
		for s, entry := range table {
			if _, ok := seen.Get(entry); ok {
				continue // duplicate within this entity: empty alias, elided
			}
			seen.Put(entry, struct{}{})
			all = append(all, flat{entity: e, script: s, entry: uint32(entry)})
		}
	}

	descs := make([]ScriptDescriptor, len(all))
	for i, f := range all {
		end := uint32(h.OffsetToStrings)
		for j := i + 1; j < len(all); j++ {
			if all[j].entry > f.entry {
				end = all[j].entry
				break
			}
		}
		descs[i] = ScriptDescriptor{
			EntityIndex: f.entity,
			ScriptIndex: f.script,
			EntryPoint:  f.entry,
			EndAddress:  end,
		}
	}
	return descs
}

// EntityName returns the friendly name for entity index e, or "" if e is
// out of range.
func (h *Header) EntityName(e int) string {
	if e < 0 || e >= len(h.EntityNames) {
		return ""
	}
	return h.EntityNames[e]
}
