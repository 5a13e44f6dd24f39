// Package container parses the field-script container header (spec §3, §4.2):
// validates the magic number, decodes the per-entity script entry-point
// table, and exposes per-(entity,script) byte ranges to the disassembler.
// It never interprets bytecode; that is the disassembler's job.
package container

import (
	"fmt"

	"github.com/MrSapps/SUDM-sub000/internal/bytesio"
)

// Magic is the required first two bytes of a field-script header.
const Magic = 0x0502

// NumScriptsPerEntity is the fixed size of each entity's script entry-point
// table; duplicate entries mean empty scripts to skip (spec §3).
const NumScriptsPerEntity = 32

// preludeWords is the number of little-endian u32 PSX-RAM pointers at the
// start of a full (non-raw) container, used to normalize offsets to file
// positions (spec §4.2).
const preludeWords = 7

// ErrInvalidHeader is returned when the magic number does not match.
type ErrInvalidHeader struct {
	Got uint16
}

func (e *ErrInvalidHeader) Error() string {
	return fmt.Sprintf("invalid header: magic %#04x does not match expected %#04x", e.Got, Magic)
}

// Header is the parsed field-script header.
type Header struct {
	NumEntities     uint8
	NumModels       uint8
	OffsetToStrings uint16
	NumAkao         uint16
	Scale           uint16
	Creator         string
	Name            string

	EntityNames []string // len == NumEntities
	AkaoOffsets []uint32 // len == NumAkao

	// EntityScriptEntries[e][s] is the raw entry-point offset (relative to
	// the start of the script body, i.e. already normalized for full
	// containers) of entity e's script s.
	EntityScriptEntries [][NumScriptsPerEntity]uint16
}

// ParseHeader reads a Header from r. fromRaw distinguishes a
// preview-extracted script section (the header starts at r's current
// position, already normalized) from a full container, which is prefixed
// by a 7xu32 PSX-RAM-pointer prelude that must be normalized to file
// offsets by subtracting the first pointer and adding the prelude size.
func ParseHeader(r *bytesio.Reader, fromRaw bool) (*Header, error) {
	var preludeBase uint32
	var normalize func(uint32) uint32 = func(v uint32) uint32 { return v }

	if !fromRaw {
		ptrs := make([]uint32, preludeWords)
		for i := range ptrs {
			v, err := r.U32()
			if err != nil {
				return nil, err
			}
			ptrs[i] = v
		}
		preludeBase = ptrs[0]
		preludeSize := uint32(preludeWords * 4)
		normalize = func(v uint32) uint32 { return v - preludeBase + preludeSize }
	}

	magic, err := r.U16()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, &ErrInvalidHeader{Got: magic}
	}

	numEntities, err := r.U8()
	if err != nil {
		return nil, err
	}
	numModels, err := r.U8()
	if err != nil {
		return nil, err
	}
	offsetToStrings, err := r.U16()
	if err != nil {
		return nil, err
	}
	numAkao, err := r.U16()
	if err != nil {
		return nil, err
	}
	scale, err := r.U16()
	if err != nil {
		return nil, err
	}
	if _, err := r.Bytes(6); err != nil { // reserved
		return nil, err
	}
	creator, err := r.Bytes(8)
	if err != nil {
		return nil, err
	}
	name, err := r.Bytes(8)
	if err != nil {
		return nil, err
	}

	h := &Header{
		NumEntities:     numEntities,
		NumModels:       numModels,
		OffsetToStrings: normalizeU16(offsetToStrings, normalize),
		NumAkao:         numAkao,
		Scale:           scale,
		Creator:         cString(creator),
		Name:            cString(name),
	}

	h.EntityNames = make([]string, numEntities)
	for i := range h.EntityNames {
		b, err := r.Bytes(8)
		if err != nil {
			return nil, err
		}
		h.EntityNames[i] = cString(b)
	}

	h.AkaoOffsets = make([]uint32, numAkao)
	for i := range h.AkaoOffsets {
		v, err := r.U32()
		if err != nil {
			return nil, err
		}
		h.AkaoOffsets[i] = normalize(v)
	}

	h.EntityScriptEntries = make([][NumScriptsPerEntity]uint16, numEntities)
	for e := range h.EntityScriptEntries {
		for s := 0; s < NumScriptsPerEntity; s++ {
			v, err := r.U16()
			if err != nil {
				return nil, err
			}
			h.EntityScriptEntries[e][s] = normalizeU16(v, normalize)
		}
	}

	return h, nil
}

func normalizeU16(v uint16, normalize func(uint32) uint32) uint16 {
	return uint16(normalize(uint32(v)))
}

// cString trims a fixed-width, NUL-padded byte field to a Go string.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
