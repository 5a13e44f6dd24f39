package maincmd

import (
	"fmt"
	"os"

	"github.com/MrSapps/SUDM-sub000/disasm"
	"github.com/MrSapps/SUDM-sub000/ff7field"
	"github.com/MrSapps/SUDM-sub000/internal/opcodes"
	"github.com/MrSapps/SUDM-sub000/surface"
)

func tables() disasm.Tables {
	return disasm.Tables{
		Primary:   opcodes.NewTable(opcodes.FF7FieldDefs()),
		Special:   opcodes.NewTable(opcodes.SpecialSubDefs()),
		KawaiFunc: opcodes.KawaiSubFuncs(),
	}
}

func surfaceFor(lang string) surface.Surface {
	if lang == "c" {
		return surface.CLike{}
	}
	return surface.LuaLike{}
}

func surfaceExt(lang string) string {
	if lang == "c" {
		return ".c"
	}
	return ".lua"
}

func newDecompiler(lang string, addresses bool) *ff7field.Decompiler {
	d := ff7field.New(tables(), surfaceFor(lang))
	d.AnnotateAddresses = addresses
	return d
}

func parseFile(path string, raw bool) (*ff7field.Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c, err := ff7field.ParseContainer(data, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
