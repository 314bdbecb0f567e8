package argresolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echolang/echo/internal/object"
)

func attrs(argcount, kwonly int, varnames []string, starArgs, starKwargs bool) object.Attributes {
	return object.Attributes{
		Argcount: argcount, KwOnlyArgcount: kwonly, Varnames: varnames,
		StarArgs: starArgs, StarKwargs: starKwargs, Name: "f",
	}
}

func TestResolve_SimplePositional(t *testing.T) {
	a := attrs(2, 0, []string{"x", "y"}, false, false)
	slots, _, exc := Resolve(a, []object.Value{int64(1), int64(2)}, nil, nil, nil)
	require.Nil(t, exc)
	assert.Equal(t, []object.Value{int64(1), int64(2)}, slots)
}

func TestResolve_TooManyPositional(t *testing.T) {
	a := attrs(1, 0, []string{"x"}, false, false)
	_, _, exc := Resolve(a, []object.Value{int64(1), int64(2)}, nil, nil, nil)
	require.NotNil(t, exc)
	assert.Equal(t, "TypeError: f() takes 1 positional arguments but 2 were given", exc.Error())
}

func TestResolve_MissingRequiredPositional(t *testing.T) {
	a := attrs(2, 0, []string{"x", "y"}, false, false)
	_, _, exc := Resolve(a, nil, nil, nil, nil)
	require.NotNil(t, exc)
	assert.Contains(t, exc.Error(), "missing 2 required positional arguments: 'x' and 'y'")
}

func TestResolve_MissingKeywordOnly(t *testing.T) {
	a := attrs(0, 2, []string{"a", "b"}, false, false)
	_, _, exc := Resolve(a, nil, nil, nil, nil)
	require.NotNil(t, exc)
	assert.Contains(t, exc.Error(), "missing 2 required keyword-only arguments: 'a' and 'b'")
}

func TestResolve_StarArgsCollectsOverflow(t *testing.T) {
	a := attrs(1, 0, []string{"x", "args"}, true, false)
	slots, _, exc := Resolve(a, []object.Value{int64(1), int64(2), int64(3)}, nil, nil, nil)
	require.Nil(t, exc)
	assert.Equal(t, int64(1), slots[0])
	assert.Equal(t, object.Tuple{int64(2), int64(3)}, slots[1])
}

func TestResolve_StarKwargsCollectsUnexpected(t *testing.T) {
	a := attrs(1, 0, []string{"x", "kwargs"}, false, true)
	slots, _, exc := Resolve(a, []object.Value{int64(1)}, map[string]object.Value{"extra": int64(9)}, nil, nil)
	require.Nil(t, exc)
	d, ok := slots[1].(*object.Dict)
	require.True(t, ok)
	v, found := d.Get(object.NewStr("extra"))
	require.True(t, found)
	assert.Equal(t, int64(9), v)
}

func TestResolve_UnexpectedKeywordWithoutStarKwargs(t *testing.T) {
	a := attrs(1, 0, []string{"x"}, false, false)
	_, _, exc := Resolve(a, []object.Value{int64(1)}, map[string]object.Value{"y": int64(2)}, nil, nil)
	require.NotNil(t, exc)
	assert.Contains(t, exc.Error(), "got an unexpected keyword argument 'y'")
}

func TestResolve_PositionalDefaultsRightAligned(t *testing.T) {
	a := attrs(3, 0, []string{"x", "y", "z"}, false, false)
	slots, _, exc := Resolve(a, []object.Value{int64(1)}, nil, []object.Value{int64(20), int64(30)}, nil)
	require.Nil(t, exc)
	assert.Equal(t, []object.Value{int64(1), int64(20), int64(30)}, slots)
}

func TestJoinNames(t *testing.T) {
	assert.Equal(t, "'a'", joinNames([]string{"a"}))
	assert.Equal(t, "'a' and 'b'", joinNames([]string{"a", "b"}))
	assert.Equal(t, "'a', 'b', and 'c'", joinNames([]string{"a", "b", "c"}))
}
