package disasm_test

import (
	"testing"

	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/expr"
	"github.com/MrSapps/SUDM-sub000/internal/opcodes"
	"github.com/stretchr/testify/require"
)

func tables() disasm.Tables {
	primary := opcodes.NewTable([]opcodes.Def{
		{Key: 0x01, Mnemonic: "SETBYTE", ArgFormat: "BBB", Kind: opcodes.KindStore},
		{Key: 0x02, Mnemonic: "RET", Kind: opcodes.KindNoOutput},
		{Key: 0x03, Mnemonic: "JMPF", ArgFormat: "B", Kind: opcodes.KindUncondJump, JumpDir: opcodes.JumpForward, JumpWidth: 8},
	})
	special := opcodes.NewTable([]opcodes.Def{
		{Key: opcodes.MakeKey(opcodes.SpecialPrimary, 0x05), Mnemonic: "BGON", ArgFormat: "BB", Kind: opcodes.KindKernelCall, KernelFunc: "bgon", BankAddressed: true},
	})
	return disasm.Tables{Primary: primary, Special: special, KawaiFunc: map[byte]string{0x02: "kawaiCmd"}}
}

func TestDisassembleFixedOpcodes(t *testing.T) {
	// SETBYTE bank=1 addr=20 value=7 ; RET
	body := []byte{0x01, 1, 20, 7, 0x02}
	insns, err := disasm.Disassemble(tables(), body, 0, uint32(len(body)))
	require.NoError(t, err)
	require.Len(t, insns, 2)

	require.Equal(t, disasm.Address(0), insns[0].Addr)
	require.Equal(t, "SETBYTE", insns[0].Mnemonic)
	require.Equal(t, []expr.Value{
		expr.Int{Signed: false, Width: 8, Value: 1},
		expr.Int{Signed: false, Width: 8, Value: 20},
		expr.Int{Signed: false, Width: 8, Value: 7},
	}, insns[0].Params)
	require.Equal(t, 4, insns[0].Size)

	require.Equal(t, disasm.Address(4), insns[1].Addr)
	require.Equal(t, "RET", insns[1].Mnemonic)
}

func TestDisassembleSpecialSubOpcode(t *testing.T) {
	// SPECIAL(0x0F) sub=0x05 (BGON) bank=1 addr=20
	body := []byte{0x0F, 0x05, 1, 20}
	insns, err := disasm.Disassemble(tables(), body, 0, uint32(len(body)))
	require.NoError(t, err)
	require.Len(t, insns, 1)
	require.Equal(t, "BGON", insns[0].Mnemonic)
	require.Equal(t, 4, insns[0].Size) // 2 header bytes + 2 arg bytes
}

func TestDisassembleKawai(t *testing.T) {
	// KAWAI(0x28) length=5 sub=0x02 two raw byte params: 9, 10
	body := []byte{0x28, 5, 0x02, 9, 10}
	insns, err := disasm.Disassemble(tables(), body, 0, uint32(len(body)))
	require.NoError(t, err)
	require.Len(t, insns, 1)
	insn := insns[0]
	require.Equal(t, "KAWAI", insn.Mnemonic)
	require.Equal(t, opcodes.KindKernelCall, insn.Kind)
	require.Equal(t, "kawaiCmd", insn.Def.KernelFunc)
	require.Equal(t, []expr.Value{
		expr.Int{Signed: false, Width: 8, Value: 9},
		expr.Int{Signed: false, Width: 8, Value: 10},
	}, insn.Params)
	require.Equal(t, 5, insn.Size)
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	body := []byte{0xEE}
	_, err := disasm.Disassemble(tables(), body, 0, uint32(len(body)))
	require.Error(t, err)
	var unk *disasm.ErrUnknownOpcode
	require.ErrorAs(t, err, &unk)
	require.Equal(t, byte(0xEE), unk.Opcode)
}

func TestDisassembleUnknownSubOpcode(t *testing.T) {
	body := []byte{0x0F, 0xEE}
	_, err := disasm.Disassemble(tables(), body, 0, uint32(len(body)))
	require.Error(t, err)
	var unk *disasm.ErrUnknownSubOpcode
	require.ErrorAs(t, err, &unk)
}

func TestInstructionDestAddressCondJumpAndUncondJump(t *testing.T) {
	cond := &disasm.Instruction{Addr: 0, Size: 4, Kind: opcodes.KindCondJump, Params: []expr.Value{expr.Int{Value: 8}}}
	require.Equal(t, disasm.Address(12), cond.DestAddress())

	forward := &disasm.Instruction{Addr: 8, Size: 4, Kind: opcodes.KindUncondJump, Def: opcodes.Def{JumpDir: opcodes.JumpForward}, Params: []expr.Value{expr.Int{Value: 8}}}
	require.Equal(t, disasm.Address(20), forward.DestAddress())

	backward := &disasm.Instruction{Addr: 16, Kind: opcodes.KindUncondJump, Def: opcodes.Def{JumpDir: opcodes.JumpBackward}, Params: []expr.Value{expr.Int{Value: 16}}}
	require.Equal(t, disasm.Address(0), backward.DestAddress())
}

func TestInstructionDestAddressPanicsOnNonJump(t *testing.T) {
	insn := &disasm.Instruction{Kind: opcodes.KindStore}
	require.Panics(t, func() { insn.DestAddress() })
}

func TestInstructionIsJump(t *testing.T) {
	require.True(t, (&disasm.Instruction{Kind: opcodes.KindCondJump}).IsJump())
	require.True(t, (&disasm.Instruction{Kind: opcodes.KindUncondJump}).IsJump())
	require.False(t, (&disasm.Instruction{Kind: opcodes.KindStore}).IsJump())
}
