package vm

import (
	"encoding/base64"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/echolang/echo/internal/object"
)

// serializedCode is the on-disk shape of a Code object: the host compilation
// facility spec.md treats as an external input is, in this port, a YAML
// document with this layout (SPEC_FULL.md §2, gopkg.in/yaml.v3 wiring).
// Instrs is base64-encoded since it's a raw bytecode stream.
type serializedCode struct {
	Name           string   `yaml:"name"`
	Filename       string   `yaml:"filename"`
	FirstLine      int      `yaml:"first_line"`
	Qualname       string   `yaml:"qualname"`
	Argcount       int      `yaml:"argcount"`
	KwOnlyArgcount int      `yaml:"kwonlyargcount"`
	Nlocals        int      `yaml:"nlocals"`
	Varnames       []string `yaml:"varnames"`
	Cellvars       []string `yaml:"cellvars"`
	Freevars       []string `yaml:"freevars"`
	Flags          int      `yaml:"flags"`
	Consts         []interface{} `yaml:"consts"`
	Names          []string `yaml:"names"`
	Instrs         string   `yaml:"instrs"`
}

// LoadFile implements imports.Loader: read a .echo YAML code-object
// document from disk, decode it into *object.Code, and execute its module
// body, returning the resulting globals.
func LoadFile(ctx *object.Context, filename string) (*object.Code, map[string]object.Value, *object.Exception) {
	code, exc := ReadCode(filename)
	if exc != nil {
		return nil, nil, exc
	}
	globals := map[string]object.Value{"__name__": object.NewStr(code.Name)}
	if _, exc := RunModule(ctx, code, globals); exc != nil {
		return nil, nil, exc
	}
	return code, globals, nil
}

// ReadCode decodes one serialized Code document from filename.
func ReadCode(filename string) (*object.Code, *object.Exception) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, object.NewException(object.ImportErrorType, "cannot read %s: %s", filename, err.Error())
	}
	var sc serializedCode
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, object.NewException(object.ImportErrorType, "malformed code object in %s: %s", filename, err.Error())
	}
	instrs, err := base64.StdEncoding.DecodeString(sc.Instrs)
	if err != nil {
		return nil, object.NewException(object.ImportErrorType, "malformed instruction stream in %s", filename)
	}
	consts := make([]object.Value, len(sc.Consts))
	for i, c := range sc.Consts {
		consts[i] = normalizeConst(c)
	}
	return &object.Code{
		Name: sc.Name, Filename: sc.Filename, FirstLine: sc.FirstLine, Qualname: sc.Qualname,
		Argcount: sc.Argcount, KwOnlyArgcount: sc.KwOnlyArgcount, Nlocals: sc.Nlocals,
		Varnames: sc.Varnames, Cellvars: sc.Cellvars, Freevars: sc.Freevars,
		Flags: sc.Flags, Consts: consts, Names: sc.Names, Instrs: instrs,
	}, nil
}

// normalizeConst maps YAML's decoded scalar types onto the echo Value
// representation (int stays int64, float64 stays float64, and so on).
func normalizeConst(c interface{}) object.Value {
	switch x := c.(type) {
	case int:
		return int64(x)
	case int64, float64, string, bool, nil:
		return x
	}
	return c
}
