package opcodes_test

import (
	"testing"

	"github.com/MrSapps/SUDM-sub000/expr"
	"github.com/MrSapps/SUDM-sub000/internal/bytesio"
	"github.com/MrSapps/SUDM-sub000/internal/opcodes"
	"github.com/stretchr/testify/require"
)

func TestArgWidth(t *testing.T) {
	require.Equal(t, 0, opcodes.ArgWidth(""))
	require.Equal(t, 1+1+2+2+4+4+1+1, opcodes.ArgWidth("BbwsdiNU"))
}

func TestArgWidthUnknownCharPanics(t *testing.T) {
	require.Panics(t, func() { opcodes.ArgWidth("q") })
}

func TestDecodeArgsAllFormats(t *testing.T) {
	// B=0x7F b=-1(0xFF) w=0x1234 s=-2(0xFFFE) d=0x89ABCDEF i=-3 N=0x5A(hi5,lo10->signed) U=0xA5
	buf := []byte{
		0x7F,
		0xFF,
		0x34, 0x12,
		0xFE, 0xFF,
		0xEF, 0xCD, 0xAB, 0x89,
		0xFD, 0xFF, 0xFF, 0xFF,
		0x5A,
		0xA5,
	}
	r := bytesio.New(buf)
	vals, err := opcodes.DecodeArgs("BbwsdiNU", r)
	require.NoError(t, err)
	require.Equal(t, []expr.Value{
		expr.Int{Signed: false, Width: 8, Value: 0x7F},
		expr.Int{Signed: true, Width: 8, Value: -1},
		expr.Int{Signed: false, Width: 16, Value: 0x1234},
		expr.Int{Signed: true, Width: 16, Value: -2},
		expr.Int{Signed: false, Width: 32, Value: 0x89ABCDEF},
		expr.Int{Signed: true, Width: 32, Value: -3},
		expr.Int{Signed: true, Width: 8, Value: 0x5},
		expr.Int{Signed: true, Width: 8, Value: 0xA},
		expr.Int{Signed: false, Width: 8, Value: 0xA},
		expr.Int{Signed: false, Width: 8, Value: 0x5},
	}, vals)
	require.Equal(t, len(buf), r.Position())
}

func TestDecodeArgsUnknownFormatChar(t *testing.T) {
	r := bytesio.New([]byte{0})
	_, err := opcodes.DecodeArgs("q", r)
	require.Error(t, err)
	var unk *opcodes.ErrUnknownFormatChar
	require.ErrorAs(t, err, &unk)
}

func TestDecodeArgsTruncated(t *testing.T) {
	r := bytesio.New([]byte{})
	_, err := opcodes.DecodeArgs("B", r)
	require.Error(t, err)
}

func TestEncodeArgsRoundTrips(t *testing.T) {
	format := "BbwsdiNU"
	buf := []byte{
		0x7F,
		0xFF,
		0x34, 0x12,
		0xFE, 0xFF,
		0xEF, 0xCD, 0xAB, 0x89,
		0xFD, 0xFF, 0xFF, 0xFF,
		0x5A,
		0xA5,
	}
	vals, err := opcodes.DecodeArgs(format, bytesio.New(buf))
	require.NoError(t, err)

	out, err := opcodes.EncodeArgs(format, vals)
	require.NoError(t, err)
	require.Equal(t, buf, out)
}

func TestEncodeArgsNotEnoughValues(t *testing.T) {
	_, err := opcodes.EncodeArgs("BB", []expr.Value{expr.Int{Value: 1}})
	require.Error(t, err)
}

func TestEncodeArgsUnusedValues(t *testing.T) {
	_, err := opcodes.EncodeArgs("B", []expr.Value{expr.Int{Value: 1}, expr.Int{Value: 2}})
	require.Error(t, err)
}

func TestTableLookup(t *testing.T) {
	tbl := opcodes.NewTable([]opcodes.Def{
		{Key: 0x10, Mnemonic: "RET", Kind: opcodes.KindNoOutput},
		{Key: opcodes.MakeKey(opcodes.SpecialPrimary, 0x03), Mnemonic: "BGON", Kind: opcodes.KindKernelCall},
	})
	require.Equal(t, 2, tbl.Len())

	def, ok := tbl.Lookup(0x10)
	require.True(t, ok)
	require.Equal(t, "RET", def.Mnemonic)

	def, ok = tbl.Lookup(opcodes.MakeKey(opcodes.SpecialPrimary, 0x03))
	require.True(t, ok)
	require.Equal(t, "BGON", def.Mnemonic)

	_, ok = tbl.Lookup(0xFF)
	require.False(t, ok)
}

func TestTableDuplicateKeyPanics(t *testing.T) {
	require.Panics(t, func() {
		opcodes.NewTable([]opcodes.Def{
			{Key: 0x10, Mnemonic: "A"},
			{Key: 0x10, Mnemonic: "B"},
		})
	})
}

func TestDefSize(t *testing.T) {
	d := opcodes.Def{Key: 0x10, ArgFormat: "Bw"}
	require.Equal(t, 1+1+2, d.Size())

	special := opcodes.Def{Key: opcodes.MakeKey(opcodes.SpecialPrimary, 0x03), ArgFormat: "d"}
	require.Equal(t, 2+4, special.Size())
}
