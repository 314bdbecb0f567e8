package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echolang/echo/internal/object"
)

// TestLoadName_Undefined regression-tests the LOAD_NAME infinite loop fix:
// resolving a name absent from locals/globals/builtins must raise NameError
// and return promptly, not hang.
func TestLoadName_Undefined(t *testing.T) {
	a := newAsm()
	missing := a.nameIdx("nope")
	a.opArg(LOAD_NAME, missing)
	a.op(RETURN_VALUE)
	code := a.code("<module>", 0, nil)
	ctx := newTestContext()

	_, exc := runModuleWithTimeout(t, ctx, code, map[string]object.Value{})
	require.NotNil(t, exc)
	assert.Equal(t, object.NameErrorType, exc.Type)
	assert.Contains(t, exc.Error(), "nope")
}

// TestSubscript_IndexError covers BINARY_SUBSCR's out-of-range list access.
func TestSubscript_IndexError(t *testing.T) {
	a := newAsm()
	l := object.List{int64(1), int64(2)}
	listConst := a.constIdx(&l)
	idxConst := a.constIdx(int64(5))
	a.opArg(LOAD_CONST, listConst)
	a.opArg(LOAD_CONST, idxConst)
	a.op(BINARY_SUBSCR)
	a.op(RETURN_VALUE)
	code := a.code("<module>", 0, nil)
	ctx := newTestContext()

	_, exc := runModuleWithTimeout(t, ctx, code, map[string]object.Value{})
	require.NotNil(t, exc)
	assert.Equal(t, object.IndexErrorType, exc.Type)
}

// TestSubscript_KeyError covers BINARY_SUBSCR's missing-key dict access.
func TestSubscript_KeyError(t *testing.T) {
	a := newAsm()
	d := object.NewDict()
	dictConst := a.constIdx(d)
	keyConst := a.constIdx("missing")
	a.opArg(LOAD_CONST, dictConst)
	a.opArg(LOAD_CONST, keyConst)
	a.op(BINARY_SUBSCR)
	a.op(RETURN_VALUE)
	code := a.code("<module>", 0, nil)
	ctx := newTestContext()

	_, exc := runModuleWithTimeout(t, ctx, code, map[string]object.Value{})
	require.NotNil(t, exc)
	assert.Equal(t, object.KeyErrorType, exc.Type)
}

// TestDeleteSubscr_MissingKey covers the DELETE_SUBSCR fix: deleting an
// absent dict key raises KeyError instead of silently no-op'ing.
func TestDeleteSubscr_MissingKey(t *testing.T) {
	a := newAsm()
	d := object.NewDict()
	dictConst := a.constIdx(d)
	keyConst := a.constIdx("missing")
	a.opArg(LOAD_CONST, dictConst)
	a.opArg(LOAD_CONST, keyConst)
	a.op(DELETE_SUBSCR)
	none := a.constIdx(nil)
	a.opArg(LOAD_CONST, none)
	a.op(RETURN_VALUE)
	code := a.code("<module>", 0, nil)
	ctx := newTestContext()

	_, exc := runModuleWithTimeout(t, ctx, code, map[string]object.Value{})
	require.NotNil(t, exc)
	assert.Equal(t, object.KeyErrorType, exc.Type)
}

// TestRunModule_UnhandledExceptionPropagates ensures an exception raised
// with no enclosing SETUP_EXCEPT/SETUP_FINALLY block escapes RunModule
// instead of being swallowed.
func TestRunModule_UnhandledExceptionPropagates(t *testing.T) {
	a := newAsm()
	valueErrName := a.nameIdx("ValueError")
	msgConst := a.constIdx("boom")
	a.opArg(LOAD_NAME, valueErrName)
	a.opArg(LOAD_CONST, msgConst)
	a.opArg(CALL_FUNCTION, 1)
	a.opArg(RAISE_VARARGS, 1)
	code := a.code("<module>", 0, nil)
	ctx := newTestContext()

	globals, exc := runModuleWithTimeout(t, ctx, code, map[string]object.Value{})
	require.NotNil(t, exc)
	assert.Nil(t, globals)
	assert.Equal(t, object.ValueErrorType, exc.Type)
	assert.Equal(t, "ValueError: boom", exc.Error())
}

// TestMapAdd_DictComprehension regresses the MAP_ADD no-op bug: each
// iteration's key/value pair must land in the target dict rather than being
// silently discarded.
func TestMapAdd_DictComprehension(t *testing.T) {
	a := newAsm()
	d := object.NewDict()
	dictConst := a.constIdx(d)
	keyConst := a.constIdx("k")
	valConst := a.constIdx(int64(7))
	a.opArg(LOAD_CONST, dictConst)
	a.opArg(LOAD_CONST, keyConst)
	a.opArg(LOAD_CONST, valConst)
	a.opArg(MAP_ADD, 1)
	a.op(RETURN_VALUE)
	code := a.code("<module>", 0, nil)
	ctx := newTestContext()

	_, exc := runModuleWithTimeout(t, ctx, code, map[string]object.Value{})
	require.Nil(t, exc)
	v, ok := d.Get("k")
	require.True(t, ok)
	assert.Equal(t, int64(7), v)
}

// TestSetAdd_SetComprehension regresses the SET_ADD no-op bug analogously
// for set comprehensions.
func TestSetAdd_SetComprehension(t *testing.T) {
	a := newAsm()
	s := object.NewSet()
	setConst := a.constIdx(s)
	valConst := a.constIdx(int64(9))
	a.opArg(LOAD_CONST, setConst)
	a.opArg(LOAD_CONST, valConst)
	a.opArg(SET_ADD, 1)
	a.op(RETURN_VALUE)
	code := a.code("<module>", 0, nil)
	ctx := newTestContext()

	_, exc := runModuleWithTimeout(t, ctx, code, map[string]object.Value{})
	require.Nil(t, exc)
	assert.True(t, s.Contains(int64(9)))
}
