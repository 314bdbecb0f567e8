package object

// Partial is a callable with some leading positional arguments already
// bound (spec §3 "Built-in"/object model; used by functools.partial-style
// call sites).
type Partial struct {
	Func    Invokable
	Args    []Value
	Kwargs  map[string]Value
}

func (p *Partial) GetType() *Class                   { return PartialType }
func (p *Partial) HasAttrWhere(name string) AttrWhere { return AttrAbsent }
func (p *Partial) GetAttr(ctx *Context, name string) (Value, *Exception) {
	return nil, NewException(AttributeErrorType, "'functools.partial' object has no attribute '%s'", name)
}
func (p *Partial) SetAttr(ctx *Context, name string, value Value) *Exception {
	return NewException(AttributeErrorType, "'functools.partial' object has no attribute '%s'", name)
}
func (p *Partial) Invoke(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
	full := append(append([]Value{}, p.Args...), args...)
	merged := map[string]Value{}
	for k, v := range p.Kwargs {
		merged[k] = v
	}
	for k, v := range kwargs {
		merged[k] = v
	}
	return p.Func.Invoke(ctx, full, merged)
}

// NativeFunction wraps a raw Go function as an EchoObject, the counterpart
// of the reference's NativeFunction/ENativeFn wrapping a raw Python
// callable so it can participate uniformly in the call-dispatch protocol
// (spec §4.4 "Host callable not derived from an echo-object").
type NativeFunction struct {
	Name string
	Fn   func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception)
}

func (n *NativeFunction) GetType() *Class                   { return NativeFnType }
func (n *NativeFunction) HasAttrWhere(name string) AttrWhere { return AttrAbsent }
func (n *NativeFunction) GetAttr(ctx *Context, name string) (Value, *Exception) {
	return nil, NewException(AttributeErrorType, "'native_function' object has no attribute '%s'", name)
}
func (n *NativeFunction) SetAttr(ctx *Context, name string, value Value) *Exception {
	return NewException(AttributeErrorType, "'native_function' object has no attribute '%s'", name)
}
func (n *NativeFunction) Invoke(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
	return n.Fn(ctx, args, kwargs)
}
