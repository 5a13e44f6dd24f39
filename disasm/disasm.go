package disasm

import (
	"github.com/MrSapps/SUDM-sub000/expr"
	"github.com/MrSapps/SUDM-sub000/internal/bytesio"
	"github.com/MrSapps/SUDM-sub000/internal/opcodes"
)

// Tables bundles the three lookup tables the disassembler consults: the
// primary opcode table, the SPECIAL (0x0F) sub-opcode table, and the KAWAI
// (0x28) sub-opcode function-name map (spec §4.3's four special cases).
type Tables struct {
	Primary   *opcodes.Table
	Special   *opcodes.Table
	KawaiFunc map[byte]string
}

// Disassemble reads opcodes from body starting at entryPoint until it
// reaches endAddress, producing a flat, address-ordered instruction
// sequence. It does not split the result into functions; see SplitScript0
// for the script-0 init/main split.
func Disassemble(t Tables, body []byte, entryPoint, endAddress Address) ([]*Instruction, error) {
	r := bytesio.New(body)
	r.Seek(int(entryPoint))

	var out []*Instruction
	for uint32(r.Position()) < endAddress {
		addr := Address(r.Position())
		op, err := r.U8()
		if err != nil {
			return nil, err
		}

		switch op {
		case opcodes.KawaiPrimary:
			insn, err := decodeKawai(t, r, addr)
			if err != nil {
				return nil, err
			}
			out = append(out, insn)
			continue
		case opcodes.SpecialPrimary:
			sub, err := r.U8()
			if err != nil {
				return nil, err
			}
			key := opcodes.MakeKey(opcodes.SpecialPrimary, sub)
			def, ok := t.Special.Lookup(key)
			if !ok {
				return nil, &ErrUnknownSubOpcode{Address: addr, Opcode: sub}
			}
			insn, err := decodeFixed(r, addr, def, 2)
			if err != nil {
				return nil, err
			}
			out = append(out, insn)
			continue
		}

		def, ok := t.Primary.Lookup(opcodes.Key(op))
		if !ok {
			return nil, &ErrUnknownOpcode{Address: addr, Opcode: op}
		}
		insn, err := decodeFixed(r, addr, def, 1)
		if err != nil {
			return nil, err
		}
		out = append(out, insn)
	}
	return out, nil
}

// decodeFixed decodes a fixed-size (non-KAWAI) instruction whose opcode
// byte(s) (headerBytes of them) have already been consumed from r.
func decodeFixed(r *bytesio.Reader, addr Address, def opcodes.Def, headerBytes int) (*Instruction, error) {
	params, err := opcodes.DecodeArgs(def.ArgFormat, r)
	if err != nil {
		return nil, err
	}
	return &Instruction{
		Addr:     addr,
		Key:      def.Key,
		Mnemonic: def.Mnemonic,
		Params:   params,
		Size:     headerBytes + opcodes.ArgWidth(def.ArgFormat),
		Kind:     def.Kind,
		Def:      def,
	}, nil
}

// decodeKawai decodes the length-prefixed, variable-arity KAWAI instruction
// family (spec §4.3): a length byte L, a sub-opcode byte, and L-3 raw
// byte-parameters, rendered as plain unsigned integers (KAWAI carries no
// ArgFormat string — its sub-opcodes are too irregular to describe with
// one).
func decodeKawai(t Tables, r *bytesio.Reader, addr Address) (*Instruction, error) {
	length, err := r.U8()
	if err != nil {
		return nil, err
	}
	if length < 3 {
		return nil, &bytesio.ErrTruncated{Position: r.Position() - 1, Want: 3, Size: r.Size()}
	}
	sub, err := r.U8()
	if err != nil {
		return nil, err
	}
	params := make([]expr.Value, 0, int(length)-3)
	for i := 0; i < int(length)-3; i++ {
		b, err := r.U8()
		if err != nil {
			return nil, err
		}
		params = append(params, expr.Int{Signed: false, Width: 8, Value: int64(b)})
	}

	fn, ok := t.KawaiFunc[sub]
	if !ok {
		fn = "UnknownKernelFunction_KAWAI_" + byteHex(sub)
	}

	return &Instruction{
		Addr:     addr,
		Key:      opcodes.MakeKey(opcodes.KawaiPrimary, sub),
		Mnemonic: "KAWAI",
		Params:   params,
		Size:     int(length),
		Kind:     opcodes.KindKernelCall,
		Def:      opcodes.Def{Mnemonic: "KAWAI", Kind: opcodes.KindKernelCall, KernelFunc: fn, Variadic: true},
	}, nil
}

func byteHex(b byte) string {
	const hex = "0123456789ABCDEF"
	return string([]byte{hex[b>>4], hex[b&0xF]})
}
