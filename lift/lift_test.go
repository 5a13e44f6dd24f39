package lift_test

import (
	"testing"

	"github.com/MrSapps/SUDM-sub000/cfg"
	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/expr"
	"github.com/MrSapps/SUDM-sub000/internal/opcodes"
	"github.com/MrSapps/SUDM-sub000/lift"
	"github.com/MrSapps/SUDM-sub000/surface"
	"github.com/stretchr/testify/require"
)

// lifoCallSurface overrides CLike's call-argument order to LIFO, to
// exercise processCall/processKernelCall's reversal path without a real
// target language ever needing it (spec §9's asymmetry is opt-in per
// backend; both shipped surfaces use FIFO for calls).
type lifoCallSurface struct{ surface.CLike }

func (lifoCallSurface) CallArgOrder() surface.ArgOrder { return surface.LIFO }

// lifoCondSurface overrides CLike's binary-operand order to LIFO, to
// exercise processFullComparator's flip path — neither shipped surface
// opts into this (spec §8 scenario 3's `!(10 == 5)` is plain encounter
// order), but the opt-in path still needs coverage.
type lifoCondSurface struct{ surface.CLike }

func (lifoCondSurface) BinaryOperandOrder() surface.ArgOrder { return surface.LIFO }

func bankAddr(bank uint8, addr uint32) []expr.Value {
	return []expr.Value{expr.Int{Value: int64(bank)}, expr.Int{Value: int64(addr)}}
}

func TestVarNameNamingRule(t *testing.T) {
	s := lift.New(nil, "FFVII.Data", nil)
	require.Equal(t, "42", s.VarName(0, 42))
	require.Equal(t, "FFVII.Data.var_1_20", s.VarName(1, 20))
	require.Equal(t, "FFVII.Data.tmp_5_10", s.VarName(5, 10))
	require.Equal(t, "FFVII.Data.unknown_9_3", s.VarName(9, 3))
}

func TestVarNameFormatterOverride(t *testing.T) {
	f := &lift.Formatter{VarName: func(bank uint8, addr uint32) string {
		if bank == 1 && addr == 20 {
			return "PartyMember"
		}
		return ""
	}}
	s := lift.New(f, "FFVII.Data", nil)
	require.Equal(t, "FFVII.Data.PartyMember", s.VarName(1, 20))
	require.Equal(t, "FFVII.Data.var_1_21", s.VarName(1, 21))
}

func TestProcessStoreSetByte(t *testing.T) {
	insn := &disasm.Instruction{
		Mnemonic: "SETBYTE", Kind: opcodes.KindStore,
		Params: append(bankAddr(1, 20), expr.Int{Value: 7}),
	}

	grp := &cfg.Group{}
	s := lift.New(nil, "FFVII.Data", surface.CLike{})
	require.NoError(t, s.Process(insn, grp))
	require.Len(t, grp.Code, 1)
	require.Equal(t, "FFVII.Data.var_1_20 = 7;", grp.Code[0].Text)
}

func TestProcessStoreLuaOmitsTerminator(t *testing.T) {
	insn := &disasm.Instruction{
		Mnemonic: "SETBYTE", Kind: opcodes.KindStore,
		Params: append(bankAddr(1, 20), expr.Int{Value: 7}),
	}

	grp := &cfg.Group{}
	s := lift.New(nil, "FFVII.Data", surface.LuaLike{})
	require.NoError(t, s.Process(insn, grp))
	require.Equal(t, "FFVII.Data.var_1_20 = 7", grp.Code[0].Text)
}

func TestProcessStoreIncDecPlusRandom(t *testing.T) {
	s := lift.New(nil, "FFVII.Data", surface.CLike{})

	cases := []struct {
		insn *disasm.Instruction
		want string
	}{
		{&disasm.Instruction{Mnemonic: "INC", Kind: opcodes.KindStore, Params: bankAddr(1, 20)},
			"FFVII.Data.var_1_20 = FFVII.Data.var_1_20 + 1;"},
		{&disasm.Instruction{Mnemonic: "DEC", Kind: opcodes.KindStore, Params: bankAddr(1, 20)},
			"FFVII.Data.var_1_20 = FFVII.Data.var_1_20 - 1;"},
		{&disasm.Instruction{Mnemonic: "PLUS", Kind: opcodes.KindStore, Params: append(bankAddr(1, 20), bankAddr(1, 21)...)},
			"FFVII.Data.var_1_20 = FFVII.Data.var_1_20 + FFVII.Data.var_1_21;"},
		{&disasm.Instruction{Mnemonic: "RANDOM", Kind: opcodes.KindStore, Params: bankAddr(1, 20)},
			"FFVII.Data.var_1_20 = rand();"},
	}
	for _, c := range cases {
		grp := &cfg.Group{}
		require.NoError(t, s.Process(c.insn, grp))
		require.Equal(t, c.want, grp.Code[0].Text)
	}
}

func TestProcessCondJumpFullComparatorDefaultNoFlip(t *testing.T) {
	insn := &disasm.Instruction{
		Mnemonic: "IFUB", Kind: opcodes.KindCondJump,
		Params: append(append(bankAddr(0, 10), bankAddr(1, 20)...), expr.Int{Value: 2}), // selector 2 = OpGT
	}

	s := lift.New(nil, "FFVII.Data", surface.CLike{}) // BinaryOperandOrder() == FIFO
	require.NoError(t, s.Process(insn, &cfg.Group{}))
	require.Equal(t, "!(10 > FFVII.Data.var_1_20)", s.PopCondition().String())
}

func TestProcessCondJumpFullComparatorNoSurfaceNoFlip(t *testing.T) {
	insn := &disasm.Instruction{
		Mnemonic: "IFUB", Kind: opcodes.KindCondJump,
		Params: append(append(bankAddr(0, 10), bankAddr(1, 20)...), expr.Int{Value: 2}),
	}

	s := lift.New(nil, "FFVII.Data", nil)
	require.NoError(t, s.Process(insn, &cfg.Group{}))
	require.Equal(t, "!(10 > FFVII.Data.var_1_20)", s.PopCondition().String())
}

func TestProcessCondJumpFullComparatorLIFOFlip(t *testing.T) {
	insn := &disasm.Instruction{
		Mnemonic: "IFUB", Kind: opcodes.KindCondJump,
		Params: append(append(bankAddr(0, 10), bankAddr(1, 20)...), expr.Int{Value: 2}), // selector 2 = OpGT
	}

	s := lift.New(nil, "FFVII.Data", lifoCondSurface{})
	require.NoError(t, s.Process(insn, &cfg.Group{}))
	require.Equal(t, "!(FFVII.Data.var_1_20 < 10)", s.PopCondition().String())
}

func TestProcessCondJumpBitOnNeverFlipsEvenUnderLIFO(t *testing.T) {
	insn := &disasm.Instruction{
		Mnemonic: "IFUB", Kind: opcodes.KindCondJump,
		Params: append(append(bankAddr(0, 10), bankAddr(1, 20)...), expr.Int{Value: 9}), // selector 9 = OpBitOn
	}

	s := lift.New(nil, "FFVII.Data", lifoCondSurface{})
	require.NoError(t, s.Process(insn, &cfg.Group{}))
	require.Equal(t, "!(BitOn(10, FFVII.Data.var_1_20))", s.PopCondition().String())
}

func TestProcessCondJumpDisplacementComparator(t *testing.T) {
	insn := &disasm.Instruction{
		Mnemonic: "IFKEY", Kind: opcodes.KindCondJump,
		Params: []expr.Value{expr.Int{Value: 5}},
	}
	s := lift.New(nil, "FFVII.Data", surface.CLike{})
	require.NoError(t, s.Process(insn, &cfg.Group{}))
	require.Equal(t, "!(keyDown(5))", s.PopCondition().String())
}

func TestProcessCallArgOrder(t *testing.T) {
	insn := &disasm.Instruction{
		Mnemonic: "REQ", Kind: opcodes.KindCall,
		Params: []expr.Value{expr.Int{Value: 1}, expr.Int{Value: 2}, expr.Int{Value: 3}},
	}

	grp := &cfg.Group{}
	s := lift.New(nil, "FFVII.Data", surface.CLike{}) // CallArgOrder() == FIFO
	require.NoError(t, s.Process(insn, grp))
	require.Equal(t, "req(1, 2, 3);", grp.Code[0].Text)

	grp2 := &cfg.Group{}
	s2 := lift.New(nil, "FFVII.Data", lifoCallSurface{})
	require.NoError(t, s2.Process(insn, grp2))
	require.Equal(t, "req(3, 2, 1);", grp2.Code[0].Text)
}

func TestProcessKernelCallFormattedArgs(t *testing.T) {
	insn := &disasm.Instruction{
		Mnemonic: "SETTIMER", Kind: opcodes.KindKernelCall,
		Def:    opcodes.Def{KernelFunc: "setTimer", KernelFormat: "nbf_"},
		Params: []expr.Value{expr.Int{Value: 5}, expr.Int{Value: 1}, expr.Int{Value: 90}, expr.Int{Value: 99}},
	}
	grp := &cfg.Group{}
	s := lift.New(nil, "FFVII.Data", surface.CLike{})
	require.NoError(t, s.Process(insn, grp))
	require.Equal(t, "setTimer(5, true, 3);", grp.Code[0].Text)
}

func TestProcessKernelCallBankAddressed(t *testing.T) {
	insn := &disasm.Instruction{
		Mnemonic: "BGON", Kind: opcodes.KindKernelCall,
		Def:    opcodes.Def{KernelFunc: "bgon", BankAddressed: true},
		Params: append(bankAddr(1, 20), bankAddr(2, 30)...),
	}
	grp := &cfg.Group{}
	s := lift.New(nil, "FFVII.Data", surface.CLike{})
	require.NoError(t, s.Process(insn, grp))
	require.Equal(t, "bgon(FFVII.Data.var_1_20, FFVII.Data.var_2_30);", grp.Code[0].Text)
}

func TestProcessKernelCallVariadicAndUnknown(t *testing.T) {
	variadic := &disasm.Instruction{
		Mnemonic: "KAWAI", Kind: opcodes.KindKernelCall,
		Def:    opcodes.Def{KernelFunc: "kawaiCmd", Variadic: true},
		Params: []expr.Value{expr.Int{Value: 1}, expr.Int{Value: 2}, expr.Int{Value: 3}},
	}
	grp := &cfg.Group{}
	s := lift.New(nil, "FFVII.Data", surface.CLike{})
	require.NoError(t, s.Process(variadic, grp))
	require.Equal(t, "kawaiCmd(1, 2, 3);", grp.Code[0].Text)

	unknown := &disasm.Instruction{Mnemonic: "XYZ", Kind: opcodes.KindKernelCall}
	grp2 := &cfg.Group{}
	require.NoError(t, s.Process(unknown, grp2))
	require.Equal(t, "UnknownKernelFunction_XYZ();", grp2.Code[0].Text)
}
