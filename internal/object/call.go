package object

// DoCall is the canonical call-dispatch function (spec §4.4): examine the
// callee and invoke it through whichever protocol applies.
func DoCall(ctx *Context, callee Value, args []Value, kwargs map[string]Value) (Value, *Exception) {
	if c, ok := callee.(*Class); ok {
		return c.Instantiate(ctx, args, kwargs)
	}
	if inv, ok := callee.(Invokable); ok {
		return inv.Invoke(ctx, args, kwargs)
	}
	if eo, ok := callee.(EchoObject); ok {
		if HasAttr(eo, "__call__") {
			call, exc := eo.GetAttr(ctx, "__call__")
			if exc != nil {
				return nil, exc
			}
			if inv, ok := call.(Invokable); ok {
				return inv.Invoke(ctx, args, kwargs)
			}
		}
		return nil, NewException(TypeErrorType, "'%s' object is not callable", eo.GetType().Name)
	}
	return nil, NewException(TypeErrorType, "object %v is not callable", callee)
}

// DoGetAttr is the universal getattr dispatch entry point used throughout
// the evaluator, branching on whether o is a boxed EchoObject or a native
// primitive Value (spec §4.2; reference: eobjects.py's do_getattr).
func DoGetAttr(ctx *Context, o Value, name string) (Value, *Exception) {
	if eo, ok := o.(EchoObject); ok {
		return eo.GetAttr(ctx, name)
	}
	return nil, NewException(AttributeErrorType, "'%T' object has no attribute '%s'", o, name)
}

// DoSetAttr is DoGetAttr's write-side counterpart.
func DoSetAttr(ctx *Context, o Value, name string, value Value) *Exception {
	if eo, ok := o.(EchoObject); ok {
		return eo.SetAttr(ctx, name, value)
	}
	return NewException(AttributeErrorType, "'%T' object has no attribute '%s'", o, name)
}

// DoHasAttr mirrors DoGetAttr for existence checks.
func DoHasAttr(o Value, name string) bool {
	if eo, ok := o.(EchoObject); ok {
		return HasAttr(eo, name)
	}
	return false
}

// DoType returns the echo-level type of any Value, native or boxed (spec
// §4.2; reference: eobjects.py's do_type, TYPE_TO_EBUILTIN table).
func DoType(o Value) *Class {
	switch o.(type) {
	case nil:
		return NoneType
	case bool:
		return BoolType
	case int64:
		return IntType
	case float64:
		return FloatType
	case string:
		return StrType
	case Tuple:
		return TupleType
	case *List:
		return ListType
	case *Dict:
		return DictType
	case *Set:
		return SetType
	}
	if eo, ok := o.(EchoObject); ok {
		return eo.GetType()
	}
	return ObjectType
}

// Built-in primitive type markers, completing the TYPE_TO_EBUILTIN mapping
// alluded to in spec §3 for native-Python-represented values.
var (
	NoneType  = &Class{Name: "NoneType", Bases: []*Class{ObjectType}}
	BoolType  = &Class{Name: "bool", Bases: []*Class{ObjectType}}
	IntType   = &Class{Name: "int", Bases: []*Class{ObjectType}}
	FloatType = &Class{Name: "float", Bases: []*Class{ObjectType}}
	StrType   = &Class{Name: "str", Bases: []*Class{ObjectType}}
	TupleType = &Class{Name: "tuple", Bases: []*Class{ObjectType}}
	ListType  = &Class{Name: "list", Bases: []*Class{ObjectType}}
	DictType  = &Class{Name: "dict", Bases: []*Class{ObjectType}}
	SetType   = &Class{Name: "set", Bases: []*Class{ObjectType}}
)

func init() {
	for _, c := range []*Class{NoneType, BoolType, IntType, FloatType, StrType, TupleType, ListType, DictType, SetType} {
		c.Metaclass = TypeType
	}
}

// DoIsInstance implements isinstance(x, T) (spec invariant 7): true
// whenever type(x), or any MRO ancestor of type(x), is T.
func DoIsInstance(x Value, t *Class) bool {
	return DoType(x).IsSubtypeOf(t)
}

// DoIsSubclass implements issubclass(c, T).
func DoIsSubclass(c, t *Class) bool {
	return c.IsSubtypeOf(t)
}
