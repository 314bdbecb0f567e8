package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetMRO_DiamondC3 exercises the classic diamond: O <- A,B <- C; MRO
// for C must put A before B (declaration order of bases), then O last --
// the textbook C3 result, distinguishing it from a naive preorder DFS
// which would also produce this order here but diverge on deeper diamonds.
func TestGetMRO_DiamondC3(t *testing.T) {
	o := ObjectType
	a := NewClass("A", []*Class{o}, map[string]Value{}, TypeType)
	b := NewClass("B", []*Class{o}, map[string]Value{}, TypeType)
	c := NewClass("C", []*Class{a, b}, map[string]Value{}, TypeType)

	mro, exc := c.GetMRO()
	require.Nil(t, exc)
	names := make([]string, len(mro))
	for i, cls := range mro {
		names[i] = cls.Name
	}
	assert.Equal(t, []string{"C", "A", "B", "object"}, names)
}

func TestGetMRO_InconsistentHierarchy(t *testing.T) {
	o := ObjectType
	a := NewClass("A", []*Class{o}, map[string]Value{}, TypeType)
	b := NewClass("B", []*Class{o}, map[string]Value{}, TypeType)
	// X(A, B), Y(B, A): no consistent linearization extends both orders.
	x := NewClass("X", []*Class{a, b}, map[string]Value{}, TypeType)
	y := NewClass("Y", []*Class{b, a}, map[string]Value{}, TypeType)
	z := NewClass("Z", []*Class{x, y}, map[string]Value{}, TypeType)

	_, exc := z.GetMRO()
	require.NotNil(t, exc)
	assert.Equal(t, TypeErrorType, exc.Type)
}

func TestInstance_DataDescriptorWinsOverDict(t *testing.T) {
	var fgetCalls int
	prop := &Property{
		Fget: &Builtin{Fn: func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
			fgetCalls++
			return NewStr("from-descriptor"), nil
		}},
		Fset: &Builtin{Fn: func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
			return nil, nil
		}},
	}
	cls := NewClass("HasProp", []*Class{ObjectType}, map[string]Value{"x": prop}, TypeType)
	inst := NewInstance(cls)
	inst.Dict["x"] = NewStr("from-instance-dict")

	ctx := NewContext("")
	v, exc := inst.GetAttr(ctx, "x")
	require.Nil(t, exc)
	assert.Equal(t, NewStr("from-descriptor"), v)
	assert.Equal(t, 1, fgetCalls)
}
