package object

// Function is a user-defined callable: its code, a reference to the
// globals it closes over, positional and keyword defaults, its closure
// cells, and a name (spec §3 "Function"). Invocation is delegated to the
// Context's InterpCallback, which is wired up by internal/vm at
// interpreter-context construction -- the Go equivalent of the reference's
// ictx.interp_callback indirection that lets the object model call back
// into the evaluator without importing it.
type Function struct {
	Name          string
	Code          *Code
	Globals       map[string]Value
	Defaults      []Value
	KwDefaults    map[string]Value
	Closure       []*Cell
	Dict          map[string]Value
	Qualname      string
}

func NewFunction(name string, code *Code, globals map[string]Value) *Function {
	return &Function{Name: name, Code: code, Globals: globals, Dict: map[string]Value{}}
}

func (f *Function) GetType() *Class { return FunctionType }

func (f *Function) HasAttrWhere(name string) AttrWhere {
	switch name {
	case "__code__", "__globals__", "__name__", "__get__", "__defaults__", "__kwdefaults__":
		return AttrSelfSpecial
	}
	if _, ok := f.Dict[name]; ok {
		return AttrSelfDict
	}
	return AttrAbsent
}

func (f *Function) GetAttr(ctx *Context, name string) (Value, *Exception) {
	switch name {
	case "__code__":
		return f.Code, nil
	case "__globals__":
		return f.Globals, nil
	case "__name__":
		return NewStr(f.Name), nil
	case "__defaults__":
		return Tuple(f.Defaults), nil
	case "__kwdefaults__":
		if f.KwDefaults == nil {
			return nil, nil
		}
		return f.KwDefaults, nil
	case "__get__":
		return NewBoundBuiltin("__get__", f, func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
			var obj Value
			if len(args) > 1 {
				obj = args[1]
			}
			var objType *Class
			if len(args) > 2 {
				objType, _ = args[2].(*Class)
			}
			return f.DescrGet(ctx, obj, objType)
		}), nil
	}
	if v, ok := f.Dict[name]; ok {
		return v, nil
	}
	return nil, NewException(AttributeErrorType, "'function' object has no attribute '%s'", name)
}

func (f *Function) SetAttr(ctx *Context, name string, value Value) *Exception {
	f.Dict[name] = value
	return nil
}

func (f *Function) Invoke(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
	return ctx.InterpCallback(ctx, f, args, kwargs)
}

// DescrGet implements the function-as-descriptor binding: retrieving a
// function from an instance via attribute access wraps it in a Method
// bound to that instance; retrieving from a class yields it unbound (spec
// §4.2 "Method binding").
func (f *Function) DescrGet(ctx *Context, obj Value, objType *Class) (Value, *Exception) {
	if obj == nil {
		return f, nil
	}
	return &Method{Func: f, Self: obj}, nil
}

// Method is a bound pair (function, self); invocation prepends Self to the
// positional arguments (spec §3 "Method").
type Method struct {
	Func Invokable
	Self Value
}

func (m *Method) GetType() *Class { return MethodType }
func (m *Method) HasAttrWhere(name string) AttrWhere {
	if name == "__self__" || name == "__func__" {
		return AttrSelfSpecial
	}
	return AttrAbsent
}
func (m *Method) GetAttr(ctx *Context, name string) (Value, *Exception) {
	switch name {
	case "__self__":
		return m.Self, nil
	case "__func__":
		return m.Func, nil
	}
	return nil, NewException(AttributeErrorType, "'method' object has no attribute '%s'", name)
}
func (m *Method) SetAttr(ctx *Context, name string, value Value) *Exception {
	return NewException(AttributeErrorType, "'method' object has no attribute '%s'", name)
}
func (m *Method) Invoke(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
	full := append([]Value{m.Self}, args...)
	return m.Func.Invoke(ctx, full, kwargs)
}
