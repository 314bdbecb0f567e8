package vm

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echolang/echo/internal/object"
)

// runModuleWithTimeout guards every test in this file against a regression
// like the LOAD_NAME infinite loop this package once shipped: instead of
// hanging the test suite forever, a stuck dispatch loop fails the test.
func runModuleWithTimeout(t *testing.T, ctx *object.Context, code *object.Code, globals map[string]object.Value) (map[string]object.Value, *object.Exception) {
	t.Helper()
	type result struct {
		globals map[string]object.Value
		exc     *object.Exception
	}
	done := make(chan result, 1)
	go func() {
		g, exc := RunModule(ctx, code, globals)
		done <- result{g, exc}
	}()
	select {
	case r := <-done:
		return r.globals, r.exc
	case <-time.After(2 * time.Second):
		t.Fatal("RunModule did not return within 2s -- suspected dispatch loop hang")
		return nil, nil
	}
}

// TestRunModule_PrintRange is scenario S1 ("for i in range(3): print(i)"):
// a direct regression test for the LOAD_NAME infinite loop (module-level
// code resolves every name via LOAD_NAME) and for range/print actually
// being wired into the builtins table.
func TestRunModule_PrintRange(t *testing.T) {
	a := newAsm()
	rangeIdx := a.nameIdx("range")
	printIdx := a.nameIdx("print")
	iIdx := a.nameIdx("i")
	three := a.constIdx(int64(3))

	a.opArg(LOAD_NAME, rangeIdx)
	a.opArg(LOAD_CONST, three)
	a.opArg(CALL_FUNCTION, 1)
	a.op(GET_ITER)
	loopStart := a.here()
	forIterPos := a.opArg(FOR_ITER, 0)
	a.opArg(STORE_NAME, iIdx)
	a.opArg(LOAD_NAME, printIdx)
	a.opArg(LOAD_NAME, iIdx)
	a.opArg(CALL_FUNCTION, 1)
	a.op(POP_TOP)
	a.opArg(JUMP_ABSOLUTE, loopStart)
	exitPos := a.here()
	a.patch(forIterPos, exitPos-(forIterPos+3))
	none := a.constIdx(nil)
	a.opArg(LOAD_CONST, none)
	a.op(RETURN_VALUE)

	code := a.code("<module>", 0, nil)
	ctx := newTestContext()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	prevStdout := os.Stdout
	os.Stdout = w

	globals, exc := runModuleWithTimeout(t, ctx, code, map[string]object.Value{})

	os.Stdout = prevStdout
	w.Close()
	out, _ := io.ReadAll(r)

	require.Nil(t, exc)
	assert.NotNil(t, globals)
	assert.Equal(t, "0\n1\n2\n", string(out))
}

// TestFrame_BinaryAdd exercises arithmetic dispatch directly against a
// frame's return value, without going through RunModule's globals-only
// return.
func TestFrame_BinaryAdd(t *testing.T) {
	a := newAsm()
	c1 := a.constIdx(int64(2))
	c2 := a.constIdx(int64(3))
	a.opArg(LOAD_CONST, c1)
	a.opArg(LOAD_CONST, c2)
	a.op(BINARY_ADD)
	a.op(RETURN_VALUE)
	code := a.code("<test>", 0, nil)
	attrs := object.AttributesFromCode(code, code.Name)

	ctx := newTestContext()
	f := NewFrame(code.Name, code, attrs, map[string]object.Value{}, nil, nil, nil)
	v, status, exc := f.run(ctx)
	require.Nil(t, exc)
	assert.Equal(t, object.FrameReturned, status)
	assert.Equal(t, int64(5), v)
}

// TestClosure_SharedCell covers the read side of scenario S2: a module
// writes a cellvar, builds a nested function closing over it via
// MAKE_FUNCTION/LOAD_CLOSURE, and the nested function observes the write
// through LOAD_DEREF on its freevar. The nested function does not write
// the cell itself.
func TestClosure_SharedCell(t *testing.T) {
	inner := &object.Code{
		Name:     "inner",
		Freevars: []string{"x"},
		Instrs:   []byte{byte(LOAD_DEREF), 0, 0, byte(RETURN_VALUE)},
	}

	a := newAsm()
	ten := a.constIdx(int64(10))
	innerConst := a.constIdx(inner)
	qualname := a.constIdx("inner")
	innerName := a.nameIdx("inner")
	resultName := a.nameIdx("result")

	a.opArg(LOAD_CONST, ten)
	a.opArg(STORE_DEREF, 0)
	a.opArg(LOAD_CLOSURE, 0)
	a.opArg(BUILD_TUPLE, 1)
	a.opArg(LOAD_CONST, innerConst)
	a.opArg(LOAD_CONST, qualname)
	a.opArg(MAKE_FUNCTION, mkfClosure)
	a.opArg(STORE_NAME, innerName)
	a.opArg(LOAD_NAME, innerName)
	a.opArg(CALL_FUNCTION, 0)
	a.opArg(STORE_NAME, resultName)
	none := a.constIdx(nil)
	a.opArg(LOAD_CONST, none)
	a.op(RETURN_VALUE)

	code := a.code("<module>", 0, nil)
	code.Cellvars = []string{"x"}

	ctx := newTestContext()
	globals, exc := runModuleWithTimeout(t, ctx, code, map[string]object.Value{})
	require.Nil(t, exc)
	assert.Equal(t, int64(10), globals["result"])
}

// TestException_RaiseAndCatch covers the catch side of scenario S6: a
// SETUP_EXCEPT block catches a raised ValueError and records that the
// handler ran, with the module completing normally (no escaped exception).
// Re-raising from inside the handler is not exercised here.
func TestException_RaiseAndCatch(t *testing.T) {
	a := newAsm()
	valueErrName := a.nameIdx("ValueError")
	msgConst := a.constIdx("boom")
	caughtName := a.nameIdx("caught")
	trueConst := a.constIdx(true)

	setupPos := a.opArg(SETUP_EXCEPT, 0)
	a.opArg(LOAD_NAME, valueErrName)
	a.opArg(LOAD_CONST, msgConst)
	a.opArg(CALL_FUNCTION, 1)
	a.opArg(RAISE_VARARGS, 1)
	a.op(POP_BLOCK)
	jumpOverHandler := a.opArg(JUMP_FORWARD, 0)
	handlerPos := a.here()
	a.op(POP_TOP) // discard the pushed exception value
	a.op(POP_EXCEPT)
	a.opArg(LOAD_CONST, trueConst)
	a.opArg(STORE_NAME, caughtName)
	afterHandler := a.here()
	a.patch(setupPos, handlerPos-(setupPos+3))
	a.patch(jumpOverHandler, afterHandler-(jumpOverHandler+3))
	none := a.constIdx(nil)
	a.opArg(LOAD_CONST, none)
	a.op(RETURN_VALUE)

	code := a.code("<module>", 0, nil)
	ctx := newTestContext()
	globals, exc := runModuleWithTimeout(t, ctx, code, map[string]object.Value{})
	require.Nil(t, exc)
	assert.Equal(t, true, globals["caught"])
}

// TestBuiltins_IsInstanceIsSubclass exercises invariant 7: isinstance is
// true for the exact built-in type and for any ancestor via issubclass.
func TestBuiltins_IsInstanceIsSubclass(t *testing.T) {
	ctx := newTestContext()
	isInstance := ctx.Builtins["isinstance"].(object.Invokable)
	v, exc := isInstance.Invoke(ctx, []object.Value{int64(3), object.IntType}, nil)
	require.Nil(t, exc)
	assert.Equal(t, true, v)

	v, exc = isInstance.Invoke(ctx, []object.Value{int64(3), object.StrType}, nil)
	require.Nil(t, exc)
	assert.Equal(t, false, v)

	issubclass := ctx.Builtins["issubclass"].(object.Invokable)
	v, exc = issubclass.Invoke(ctx, []object.Value{object.IntType, object.ObjectType}, nil)
	require.Nil(t, exc)
	assert.Equal(t, true, v)
}

// TestBuiltins_Super is scenario S4's super() entry point: super(Leaf, obj)
// resolves to Derived per the MRO, skipping Leaf's own override.
func TestBuiltins_Super(t *testing.T) {
	ctx := newTestContext()
	base := object.NewClass("Base", []*object.Class{object.ObjectType}, map[string]object.Value{
		"f": &object.Builtin{Name: "f", Fn: func(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
			return "Base", nil
		}},
	}, object.TypeType)
	derived := object.NewClass("Derived", []*object.Class{base}, map[string]object.Value{
		"f": &object.Builtin{Name: "f", Fn: func(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
			return "Derived", nil
		}},
	}, object.TypeType)
	leaf := object.NewClass("Leaf", []*object.Class{derived}, map[string]object.Value{
		"f": &object.Builtin{Name: "f", Fn: func(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
			return "Leaf", nil
		}},
	}, object.TypeType)
	inst := object.NewInstance(leaf)

	superFn := ctx.Builtins["super"].(object.Invokable)
	s, exc := superFn.Invoke(ctx, []object.Value{leaf, inst}, nil)
	require.Nil(t, exc)
	v, exc := object.DoGetAttr(ctx, s, "f")
	require.Nil(t, exc)
	res, exc := ctx.Call(v, nil, nil)
	require.Nil(t, exc)
	assert.Equal(t, "Derived", res)

	s, exc = superFn.Invoke(ctx, []object.Value{base, inst}, nil)
	require.Nil(t, exc)
	_, exc = object.DoGetAttr(ctx, s, "f")
	require.NotNil(t, exc)
	assert.Contains(t, exc.Error(), "'super' object has no attribute 'f'")
}
