// Package ff7field is the top-level Decompiler: it wires the container
// parser, disassembler, control-flow analyzer, semantic lifter, emitter and
// engine post-CFG cleanup (spec §2's stages a-d, plus §4.7) into the one
// call chain a caller actually wants — "give me a container's bytes, get
// back decompiled source".
package ff7field

import (
	"fmt"

	"github.com/MrSapps/SUDM-sub000/container"
	"github.com/MrSapps/SUDM-sub000/internal/bytesio"
)

// Container is a parsed field-script container: its header plus the raw
// buffer the disassembler reads instructions from (spec §4.2). Addresses
// recorded in the header and in every descriptor are offsets into this same
// buffer, already normalized by ParseHeader if fromRaw was false.
type Container struct {
	Header *container.Header
	body   []byte
}

// ParseContainer validates and parses a container's header (spec §3, §4.2).
// fromRaw distinguishes a preview-extracted script section from a full
// container carrying the 7xu32 PSX-RAM-pointer prelude; see
// container.ParseHeader.
func ParseContainer(data []byte, fromRaw bool) (*Container, error) {
	r := bytesio.New(data)
	h, err := container.ParseHeader(r, fromRaw)
	if err != nil {
		return nil, fmt.Errorf("ff7field: parse container: %w", err)
	}
	return &Container{Header: h, body: data}, nil
}

// Scripts returns the container's flattened, deduplicated script
// descriptors (spec §4.2).
func (c *Container) Scripts() []container.ScriptDescriptor {
	return c.Header.Scripts()
}

// EntityName returns entity e's raw (un-friendly-named) name.
func (c *Container) EntityName(e int) string {
	return c.Header.EntityName(e)
}

// Body returns the raw buffer every script address is an offset into, for
// callers (chiefly the "disasm" CLI command) that want the instruction
// listing without going through the full Decompiler pipeline.
func (c *Container) Body() []byte {
	return c.body
}
