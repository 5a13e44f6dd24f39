package engine

import (
	"strconv"
	"strings"
)

// Metadata is the parsed form of a disasm.Function's opaque metadata tag,
// as produced by disasm.BuildMetadata: "[start_][end_]<characterId>_<entityName>".
type Metadata struct {
	IsFirstInEntity bool
	IsLastInEntity  bool
	CharacterID     int // -1 if the tag carries no character id
	EntityName      string
}

// ParseMetadata decodes a disasm.Function's Metadata string. Malformed or
// empty fields degrade gracefully: a missing character id field yields -1,
// an entirely empty tag yields a zero Metadata with CharacterID -1.
func ParseMetadata(tag string) Metadata {
	parts := strings.Split(tag, "_")
	md := Metadata{CharacterID: -1}

	i := 0
	if i < len(parts) && parts[i] == "start" {
		md.IsFirstInEntity = true
		i++
	}
	if i < len(parts) && parts[i] == "end" {
		md.IsLastInEntity = true
		i++
	}
	if i < len(parts) {
		if id, err := strconv.Atoi(parts[i]); err == nil {
			md.CharacterID = id
		}
		i++
	}
	if i < len(parts) {
		md.EntityName = strings.Join(parts[i:], "_")
	}
	return md
}
