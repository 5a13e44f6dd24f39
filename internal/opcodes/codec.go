package opcodes

import (
	"fmt"

	"github.com/MrSapps/SUDM-sub000/expr"
	"github.com/MrSapps/SUDM-sub000/internal/bytesio"
)

// ErrUnknownFormatChar is returned by DecodeArgs/EncodeArgs (and is the
// value ArgWidth panics with) when an ArgFormat string contains a character
// outside the set documented in spec §4.3 (B b w s d i N U).
type ErrUnknownFormatChar struct {
	Char byte
}

func (e *ErrUnknownFormatChar) Error() string {
	return fmt.Sprintf("opcodes: unknown argument format character %q", e.Char)
}

// charWidth returns the number of bytes a single format character consumes
// from the wire. N and U both consume one byte but decode to two values.
func charWidth(c byte) (int, error) {
	switch c {
	case 'B', 'b', 'N', 'U':
		return 1, nil
	case 'w', 's':
		return 2, nil
	case 'd', 'i':
		return 4, nil
	}
	return 0, &ErrUnknownFormatChar{Char: c}
}

// ArgWidth returns the total number of wire bytes consumed by the given
// argument-format string.
func ArgWidth(format string) int {
	n := 0
	for i := 0; i < len(format); i++ {
		w, err := charWidth(format[i])
		if err != nil {
			panic(err) // format strings are compile-time constants in the opcode table
		}
		n += w
	}
	return n
}

// DecodeArgs reads len(format) fields from r according to format and
// returns one expr.Value per *pushed* value — N and U push two values each,
// every other character pushes exactly one, in the order described in spec
// §4.3.
func DecodeArgs(format string, r *bytesio.Reader) ([]expr.Value, error) {
	var out []expr.Value
	for i := 0; i < len(format); i++ {
		switch c := format[i]; c {
		case 'B':
			v, err := r.U8()
			if err != nil {
				return nil, err
			}
			out = append(out, expr.Int{Signed: false, Width: 8, Value: int64(v)})
		case 'b':
			v, err := r.S8()
			if err != nil {
				return nil, err
			}
			out = append(out, expr.Int{Signed: true, Width: 8, Value: int64(v)})
		case 'w':
			v, err := r.U16()
			if err != nil {
				return nil, err
			}
			out = append(out, expr.Int{Signed: false, Width: 16, Value: int64(v)})
		case 's':
			v, err := r.S16()
			if err != nil {
				return nil, err
			}
			out = append(out, expr.Int{Signed: true, Width: 16, Value: int64(v)})
		case 'd':
			v, err := r.U32()
			if err != nil {
				return nil, err
			}
			out = append(out, expr.Int{Signed: false, Width: 32, Value: int64(v)})
		case 'i':
			v, err := r.S32()
			if err != nil {
				return nil, err
			}
			out = append(out, expr.Int{Signed: true, Width: 32, Value: int64(v)})
		case 'N':
			v, err := r.U8()
			if err != nil {
				return nil, err
			}
			out = append(out,
				expr.Int{Signed: true, Width: 8, Value: int64(v >> 4)},
				expr.Int{Signed: true, Width: 8, Value: int64(v & 0x0F)},
			)
		case 'U':
			v, err := r.U8()
			if err != nil {
				return nil, err
			}
			out = append(out,
				expr.Int{Signed: false, Width: 8, Value: int64(v >> 4)},
				expr.Int{Signed: false, Width: 8, Value: int64(v & 0x0F)},
			)
		default:
			return nil, &ErrUnknownFormatChar{Char: c}
		}
	}
	return out, nil
}

// EncodeArgs is the inverse of DecodeArgs: given the values DecodeArgs would
// have produced for format, it reconstructs the original wire bytes. It
// exists solely to make the round-trip property in spec §8 testable, not
// because the decompilation pipeline itself ever re-encodes anything (see
// SPEC_FULL.md §12 — decompilation is one-directional).
func EncodeArgs(format string, vals []expr.Value) ([]byte, error) {
	var out []byte
	vi := 0
	next := func() (expr.Int, error) {
		if vi >= len(vals) {
			return expr.Int{}, fmt.Errorf("opcodes: EncodeArgs: not enough values for format %q", format)
		}
		iv, ok := vals[vi].(expr.Int)
		if !ok {
			return expr.Int{}, fmt.Errorf("opcodes: EncodeArgs: value %d is %T, want expr.Int", vi, vals[vi])
		}
		vi++
		return iv, nil
	}
	for i := 0; i < len(format); i++ {
		switch c := format[i]; c {
		case 'B', 'b':
			v, err := next()
			if err != nil {
				return nil, err
			}
			out = append(out, byte(v.Value))
		case 'w', 's':
			v, err := next()
			if err != nil {
				return nil, err
			}
			u := uint16(v.Value)
			out = append(out, byte(u), byte(u>>8))
		case 'd', 'i':
			v, err := next()
			if err != nil {
				return nil, err
			}
			u := uint32(v.Value)
			out = append(out, byte(u), byte(u>>8), byte(u>>16), byte(u>>24))
		case 'N', 'U':
			hi, err := next()
			if err != nil {
				return nil, err
			}
			lo, err := next()
			if err != nil {
				return nil, err
			}
			out = append(out, byte(hi.Value)<<4|byte(lo.Value)&0x0F)
		default:
			return nil, &ErrUnknownFormatChar{Char: c}
		}
	}
	if vi != len(vals) {
		return nil, fmt.Errorf("opcodes: EncodeArgs: %d unused value(s) for format %q", len(vals)-vi, format)
	}
	return out, nil
}
