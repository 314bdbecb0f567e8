package vm

import "github.com/echolang/echo/internal/object"

// asm is a minimal hand-rolled assembler for building object.Code values
// directly in tests, standing in for the "host compilation facility" spec
// §3 says produces Code objects -- there is no echo-source compiler in this
// tree to drive these tests through, so tests emit bytecode by hand.
type asm struct {
	buf    []byte
	consts []object.Value
	names  []string
}

func newAsm() *asm { return &asm{} }

func (a *asm) op(o Opcode) int {
	pos := len(a.buf)
	a.buf = append(a.buf, byte(o))
	return pos
}

func (a *asm) opArg(o Opcode, arg int) int {
	pos := len(a.buf)
	a.buf = append(a.buf, byte(o), byte(arg), byte(arg>>8))
	return pos
}

// patch overwrites the 2-byte operand of the instruction at pos (as
// returned by opArg) once a forward jump target is known.
func (a *asm) patch(pos, arg int) {
	a.buf[pos+1] = byte(arg)
	a.buf[pos+2] = byte(arg >> 8)
}

func (a *asm) here() int { return len(a.buf) }

func (a *asm) constIdx(v object.Value) int {
	a.consts = append(a.consts, v)
	return len(a.consts) - 1
}

func (a *asm) nameIdx(n string) int {
	for i, x := range a.names {
		if x == n {
			return i
		}
	}
	a.names = append(a.names, n)
	return len(a.names) - 1
}

func (a *asm) code(name string, nlocals int, varnames []string) *object.Code {
	return &object.Code{
		Name:     name,
		Nlocals:  nlocals,
		Varnames: varnames,
		Consts:   a.consts,
		Names:    a.names,
		Instrs:   a.buf,
	}
}

// newTestContext builds a ready-to-run interpreter context the same way
// NewInterpreterContext does, minus the import subsystem wiring tests here
// don't exercise.
func newTestContext() *object.Context {
	registerCoreBuiltins()
	ctx := object.NewContext("")
	ctx.InterpCallback = invokeFunction
	ctx.InterpCallbackWithLocals = invokeWithLocals
	for name, b := range object.Registry {
		ctx.Builtins[name] = b
	}
	for name, c := range builtinTypes {
		ctx.Builtins[name] = c
	}
	return ctx
}
