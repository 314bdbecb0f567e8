package object

// Built-in type markers. Each is a *Class like any other, wired into the
// same MRO/isinstance machinery as user-defined classes -- there is no
// separate "primitive type" concept in the attribute-lookup algorithms,
// matching the reference's uniform EPyType treatment of both built-in and
// user-defined types.
var (
	ObjectType = &Class{Name: "object", Dict: map[string]Value{}}
	TypeType   = &Class{Name: "type", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}

	FunctionType  = &Class{Name: "function", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}
	MethodType    = &Class{Name: "method", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}
	ModuleType    = &Class{Name: "module", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}
	CellType      = &Class{Name: "cell", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}
	PropertyType  = &Class{Name: "property", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}
	ClassmethodT  = &Class{Name: "classmethod", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}
	Staticmethod_ = &Class{Name: "staticmethod", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}
	SuperType     = &Class{Name: "super", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}
	GeneratorType = &Class{Name: "generator", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}
	CoroutineType = &Class{Name: "coroutine", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}
	AsyncGenType  = &Class{Name: "async_generator", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}
	PartialType   = &Class{Name: "functools.partial", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}
	NativeFnType  = &Class{Name: "native_function", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}
	BuiltinType   = &Class{Name: "builtin_function_or_method", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}

	// Exception hierarchy (spec §7 taxonomy).
	BaseExceptionType       = &Class{Name: "BaseException", Bases: []*Class{ObjectType}, Dict: map[string]Value{}}
	ExceptionType           = &Class{Name: "Exception", Bases: []*Class{BaseExceptionType}, Dict: map[string]Value{}}
	TypeErrorType           = &Class{Name: "TypeError", Bases: []*Class{ExceptionType}, Dict: map[string]Value{}}
	AttributeErrorType      = &Class{Name: "AttributeError", Bases: []*Class{ExceptionType}, Dict: map[string]Value{}}
	NameErrorType           = &Class{Name: "NameError", Bases: []*Class{ExceptionType}, Dict: map[string]Value{}}
	UnboundLocalErrorType   = &Class{Name: "UnboundLocalError", Bases: []*Class{NameErrorType}, Dict: map[string]Value{}}
	ImportErrorType         = &Class{Name: "ImportError", Bases: []*Class{ExceptionType}, Dict: map[string]Value{}}
	KeyErrorType            = &Class{Name: "KeyError", Bases: []*Class{ExceptionType}, Dict: map[string]Value{}}
	IndexErrorType          = &Class{Name: "IndexError", Bases: []*Class{ExceptionType}, Dict: map[string]Value{}}
	ValueErrorType          = &Class{Name: "ValueError", Bases: []*Class{ExceptionType}, Dict: map[string]Value{}}
	NotImplementedErrorType = &Class{Name: "NotImplementedError", Bases: []*Class{ExceptionType}, Dict: map[string]Value{}}
	StopIterationType       = &Class{Name: "StopIteration", Bases: []*Class{ExceptionType}, Dict: map[string]Value{}}
)

func init() {
	ObjectType.Metaclass = TypeType
	TypeType.Metaclass = TypeType
	// BaseException.__init__ stores its constructor arguments as self.args,
	// the way the reference language's exception hierarchy does, so
	// `raise ValueError("boom")` carries "boom" through to str(exc).
	BaseExceptionType.Dict["__init__"] = &Builtin{Name: "__init__", Fn: func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
		self, ok := args[0].(*Instance)
		if !ok {
			return nil, nil
		}
		self.Dict["args"] = Tuple(args[1:])
		return nil, nil
	}}
	for _, c := range []*Class{
		FunctionType, MethodType, ModuleType, CellType, PropertyType, ClassmethodT,
		Staticmethod_, SuperType, GeneratorType, CoroutineType, AsyncGenType,
		PartialType, NativeFnType, BuiltinType, BaseExceptionType, ExceptionType,
		TypeErrorType, AttributeErrorType, NameErrorType, UnboundLocalErrorType,
		ImportErrorType, KeyErrorType, IndexErrorType, ValueErrorType,
		NotImplementedErrorType, StopIterationType,
	} {
		c.Metaclass = TypeType
	}
}

// Registry is the process-wide-at-construction-time table of builtins
// registered by name (spec §9 "Global registries"; reference:
// eobjects.py's register_builtin/EBuiltin._registry). It is populated once
// by RegisterBuiltin calls at interpreter-context construction and never
// mutated afterward.
var Registry = map[string]*Builtin{}

// Builtin is a named, optionally self-bound callable or type (spec §3
// "Built-in"). Some builtins behave as types (object, type, dict, list,
// ...); those carry a non-nil AsType.
type Builtin struct {
	Name string
	Self Value // non-nil when bound, e.g. a bound "list.append" method
	Fn   func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception)
	AsType *Class
}

func (b *Builtin) GetType() *Class {
	if b.AsType != nil {
		return TypeType
	}
	return BuiltinType
}
func (b *Builtin) HasAttrWhere(name string) AttrWhere {
	if name == "__self__" && b.Self != nil {
		return AttrSelfSpecial
	}
	if name == "__name__" {
		return AttrSelfSpecial
	}
	return AttrAbsent
}
func (b *Builtin) GetAttr(ctx *Context, name string) (Value, *Exception) {
	switch name {
	case "__self__":
		if b.Self != nil {
			return b.Self, nil
		}
	case "__name__":
		return NewStr(b.Name), nil
	}
	return nil, NewException(AttributeErrorType, "'builtin_function_or_method' object has no attribute '%s'", name)
}
func (b *Builtin) SetAttr(ctx *Context, name string, value Value) *Exception {
	return NewException(AttributeErrorType, "'builtin_function_or_method' object attribute '%s' is read-only", name)
}
func (b *Builtin) Invoke(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
	if b.Self != nil {
		args = append([]Value{b.Self}, args...)
	}
	return b.Fn(ctx, args, kwargs)
}

// RegisterBuiltin installs fn into Registry under name, the Go counterpart
// of the reference's @register_builtin(name) decorator.
func RegisterBuiltin(name string, fn func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception)) *Builtin {
	b := &Builtin{Name: name, Fn: fn}
	Registry[name] = b
	return b
}

// GetBuiltin fetches a registered builtin by name, matching the reference's
// get_guest_builtin memoized-singleton lookup.
func GetBuiltin(name string) *Builtin { return Registry[name] }

// NewBoundBuiltin wraps fn as a builtin already bound to self, used for
// e.g. a class's synthesized __subclasses__ method.
func NewBoundBuiltin(name string, self Value, fn func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception)) *Builtin {
	return &Builtin{Name: name, Self: self, Fn: fn}
}
