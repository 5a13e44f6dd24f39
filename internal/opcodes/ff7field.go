package opcodes

// Opcode byte assignments for the FF7 field-script engine. A handful of
// values are pinned to the bytes spec.md's worked examples use verbatim
// (NOP=0x5F, JMPB=0x12, SETBYTE=0x80, SPECIAL=0x0F, KAWAI=0x28); the rest
// are this implementation's own, internally-consistent assignment — per
// spec §9's open question, published opcode tables disagree on several
// opcodes' sizes, so this table is fixed at the values this implementation
// reads, not re-derived from any external authority.
const (
	opRET   = 0x01
	opREQ   = 0x02
	opREQSW = 0x03
	opREQEW = 0x04
	opPREQ  = 0x05
	opPRQSW = 0x06
	opPRQEW = 0x07
	opRETTO = 0x08

	opJMPF  = 0x10
	opJMPFL = 0x11
	opJMPB  = 0x12
	opJMPBL = 0x13

	opIFUB  = 0x14
	opIFUBL = 0x15
	opIFSW  = 0x16
	opIFSWL = 0x17
	opIFUW  = 0x18
	opIFUWL = 0x19

	opWAIT     = 0x1A
	opIFKEY    = 0x1B
	opIFKEYON  = 0x1C
	opIFKEYOFF = 0x1D
	opIFPRTYQ  = 0x1E
	opIFMEMBQ  = 0x1F

	opCHAR = 0x20

	opSPECIAL = SpecialPrimary
	opKAWAI   = KawaiPrimary

	opNOP = 0x5F

	opSETBYTE = 0x80
	opSETWORD = 0x81
	opPLUS    = 0x82
	opPLUS2   = 0x83
	opMINUS   = 0x84
	opMINUS2  = 0x85
	opINC     = 0x86
	opINC2    = 0x87
	opDEC     = 0x88
	opDEC2    = 0x89
	opMOD     = 0x8A
	opMOD2    = 0x8B
	opRANDOM  = 0x8C
	opPUSH    = 0x8D

	opBGON  = 0x90
	opBGOFF = 0x91
	opGETAI = 0x92

	opModuleKernel     = 0xA0 // category: module
	opMathKernel       = 0xA1 // category: math
	opWindowKernel     = 0xA2 // category: window
	opPartyKernel      = 0xA3 // category: party
	opModelKernel      = 0xA4 // category: model
	opWalkmeshKernel   = 0xA5 // category: walkmesh
	opBackgroundKernel = 0xA6 // category: background
	opCameraKernel     = 0xA7 // category: camera
	opAudioVideoKernel = 0xA8 // category: audio/video
	opUncategorised    = 0xA9 // category: uncategorised
)

// condJump builds a Def for one of the inline-comparison conditional jumps:
// left bank+addr, right bank+addr, a comparator selector byte, and a
// relative jump displacement whose width depends on the short/long variant.
func condJump(key Key, mnemonic string, jumpWidth int) Def {
	argFmt := "wBwBB"
	if jumpWidth == 16 {
		argFmt += "s"
	} else {
		argFmt += "b"
	}
	return Def{
		Key:       key,
		Mnemonic:  mnemonic,
		ArgFormat: argFmt,
		Kind:      KindCondJump,
		JumpDir:   JumpForward,
		JumpWidth: jumpWidth,
	}
}

// displacementCondJump builds a Def for the simpler single-operand
// conditional jumps (IFKEY*, IFPRTYQ, IFMEMBQ) that spec §9 calls out as
// "structurally conditional jumps" despite their compact 1-byte
// displacement encoding.
func displacementCondJump(key Key, mnemonic, operandFmt string) Def {
	return Def{
		Key:       key,
		Mnemonic:  mnemonic,
		ArgFormat: operandFmt + "b",
		Kind:      KindCondJump,
		JumpDir:   JumpForward,
		JumpWidth: 8,
	}
}

func store(key Key, mnemonic, argFmt string) Def {
	return Def{Key: key, Mnemonic: mnemonic, ArgFormat: argFmt, Kind: KindStore}
}

func kernelCall(key Key, mnemonic, fn, kernelFmt string) Def {
	return Def{Key: key, Mnemonic: mnemonic, Kind: KindKernelCall, KernelFunc: fn, KernelFormat: kernelFmt}
}

func bankAddressedKernelCall(key Key, mnemonic, fn string, argFmt string) Def {
	return Def{Key: key, Mnemonic: mnemonic, ArgFormat: argFmt, Kind: KindKernelCall, KernelFunc: fn, BankAddressed: true}
}

// FF7FieldDefs returns the full set of opcode definitions for the FF7
// field-script engine.
func FF7FieldDefs() []Def {
	return []Def{
		{Key: opNOP, Mnemonic: "NOP", Kind: KindNoOutput},
		{Key: opRET, Mnemonic: "RET", Kind: KindNoOutput},

		{Key: opREQ, Mnemonic: "REQ", ArgFormat: "BB", Kind: KindCall},
		{Key: opREQSW, Mnemonic: "REQSW", ArgFormat: "BBB", Kind: KindCall},
		{Key: opREQEW, Mnemonic: "REQEW", ArgFormat: "BBB", Kind: KindCall},
		{Key: opPREQ, Mnemonic: "PREQ", ArgFormat: "BBB", Kind: KindCall},
		{Key: opPRQSW, Mnemonic: "PRQSW", ArgFormat: "BBB", Kind: KindCall},
		{Key: opPRQEW, Mnemonic: "PRQEW", ArgFormat: "BBB", Kind: KindCall},
		{Key: opRETTO, Mnemonic: "RETTO", ArgFormat: "B", Kind: KindCall},

		{Key: opJMPF, Mnemonic: "JMPF", ArgFormat: "B", Kind: KindUncondJump, JumpDir: JumpForward, JumpWidth: 8},
		{Key: opJMPFL, Mnemonic: "JMPFL", ArgFormat: "w", Kind: KindUncondJump, JumpDir: JumpForward, JumpWidth: 16},
		{Key: opJMPB, Mnemonic: "JMPB", ArgFormat: "b", Kind: KindUncondJump, JumpDir: JumpBackward, JumpWidth: 8},
		{Key: opJMPBL, Mnemonic: "JMPBL", ArgFormat: "s", Kind: KindUncondJump, JumpDir: JumpBackward, JumpWidth: 16},

		condJump(opIFUB, "IFUB", 8),
		condJump(opIFUBL, "IFUBL", 16),
		condJump(opIFSW, "IFSW", 8),
		condJump(opIFSWL, "IFSWL", 16),
		condJump(opIFUW, "IFUW", 8),
		condJump(opIFUWL, "IFUWL", 16),

		displacementCondJump(opIFKEY, "IFKEY", "w"),
		displacementCondJump(opIFKEYON, "IFKEYON", "w"),
		displacementCondJump(opIFKEYOFF, "IFKEYOFF", "w"),
		displacementCondJump(opIFPRTYQ, "IFPRTYQ", "B"),
		displacementCondJump(opIFMEMBQ, "IFMEMBQ", "B"),

		{Key: opWAIT, Mnemonic: "WAIT", ArgFormat: "w", Kind: KindNoOutput},
		{Key: opCHAR, Mnemonic: "CHAR", ArgFormat: "B", Kind: KindNoOutput},

		store(opSETBYTE, "SETBYTE", "wBw"),
		store(opSETWORD, "SETWORD", "wBw"),
		store(opPLUS, "PLUS", "wBwB"),
		store(opPLUS2, "PLUS2", "wBwB"),
		store(opMINUS, "MINUS", "wBwB"),
		store(opMINUS2, "MINUS2", "wBwB"),
		store(opINC, "INC", "wB"),
		store(opINC2, "INC2", "wB"),
		store(opDEC, "DEC", "wB"),
		store(opDEC2, "DEC2", "wB"),
		store(opMOD, "MOD", "wBwB"),
		store(opMOD2, "MOD2", "wBwB"),
		store(opRANDOM, "RANDOM", "wB"),

		{Key: opPUSH, Mnemonic: "PUSH", ArgFormat: "wB", Kind: KindLoad},

		bankAddressedKernelCall(opBGON, "BGON", "bgOn", "wBwB"),
		bankAddressedKernelCall(opBGOFF, "BGOFF", "bgOff", "wBwB"),
		bankAddressedKernelCall(opGETAI, "GETAI", "getAi", "wBwB"),

		kernelCall(opModuleKernel, "MAPJUMP", "mapJump", "nn"),
		kernelCall(opMathKernel, "SIN", "sin", "n"),
		kernelCall(opWindowKernel, "MESSAGE", "message", "bn"),
		kernelCall(opPartyKernel, "PARTYADD", "partyAdd", "n"),
		kernelCall(opModelKernel, "MODELPOS", "modelSetPos", "nnn"),
		kernelCall(opWalkmeshKernel, "LINE", "walkmeshLine", "nnnn"),
		kernelCall(opBackgroundKernel, "BGSCROLL", "bgScroll", "nn"),
		kernelCall(opCameraKernel, "CAMERA", "cameraSet", "nnn"),
		kernelCall(opAudioVideoKernel, "AKAO2", "playSound", "nf"),
		kernelCall(opUncategorised, "UNKNOWN1", "special1", "n_"),

		{Key: opSPECIAL, Mnemonic: "SPECIAL", Kind: KindNoOutput}, // placeholder; real dispatch is via SpecialSubDefs
		{Key: opKAWAI, Mnemonic: "KAWAI", Kind: KindKernelCall, Variadic: true},
	}
}

// SpecialSubDefs returns the sub-opcode table for the SPECIAL (0x0F) family;
// each key is built with MakeKey(0x0F, sub).
func SpecialSubDefs() []Def {
	return []Def{
		{Key: MakeKey(opSPECIAL, 0x01), Mnemonic: "MVCAM", ArgFormat: "B", Kind: KindKernelCall, KernelFunc: "moveCamera", KernelFormat: "n"},
		{Key: MakeKey(opSPECIAL, 0x02), Mnemonic: "FADE", ArgFormat: "BB", Kind: KindKernelCall, KernelFunc: "fade", KernelFormat: "nn"},
		{Key: MakeKey(opSPECIAL, 0x03), Mnemonic: "TUTOR", ArgFormat: "B", Kind: KindKernelCall, KernelFunc: "tutorial", KernelFormat: "n"},
	}
}

// KawaiSubFuncs maps a KAWAI sub-opcode byte to its rendered function name.
// KAWAI instructions carry their own length prefix (spec §4.3) so their
// remaining byte-parameters are rendered as raw integer arguments rather
// than decoded via an ArgFormat string.
func KawaiSubFuncs() map[byte]string {
	return map[byte]string{
		0x00: "windowOpen",
		0x01: "windowClose",
		0x02: "windowMove",
		0x03: "memberMenu",
	}
}
