package object

// Property is the property() descriptor: optional getter, optional setter,
// optional doc string (spec §3 "Property"). Properties are copy-on-setter:
// calling .setter(f) returns a *new* Property rather than mutating this one
// in place, matching the reference implementation's eproperty.py exactly
// (SPEC_FULL.md §3 "supplemented features").
type Property struct {
	Fget Invokable
	Fset Invokable
	Doc  string
}

func (p *Property) GetType() *Class { return PropertyType }
func (p *Property) HasAttrWhere(name string) AttrWhere {
	switch name {
	case "fget", "fset", "__get__", "__set__", "setter", "__doc__":
		return AttrSelfSpecial
	}
	return AttrAbsent
}
func (p *Property) GetAttr(ctx *Context, name string) (Value, *Exception) {
	switch name {
	case "fget":
		if p.Fget != nil {
			return p.Fget, nil
		}
		return nil, nil
	case "fset":
		if p.Fset != nil {
			return p.Fset, nil
		}
		return nil, nil
	case "__doc__":
		return NewStr(p.Doc), nil
	case "setter":
		return NewBoundBuiltin("setter", p, func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
			fn, ok := args[1].(Invokable)
			if !ok {
				return nil, NewException(TypeErrorType, "setter argument must be callable")
			}
			return &Property{Fget: p.Fget, Fset: fn, Doc: p.Doc}, nil
		}), nil
	case "__get__":
		return NewBoundBuiltin("__get__", p, func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
			var obj Value
			if len(args) > 1 {
				obj = args[1]
			}
			return p.DescrGet(ctx, obj, nil)
		}), nil
	case "__set__":
		return NewBoundBuiltin("__set__", p, func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
			if len(args) != 3 {
				return nil, NewException(TypeErrorType, "__set__ expected 2 arguments, got %d", len(args)-1)
			}
			return nil, p.DescrSet(ctx, args[1], args[2])
		}), nil
	}
	return nil, NewException(AttributeErrorType, "'property' object has no attribute '%s'", name)
}
func (p *Property) SetAttr(ctx *Context, name string, value Value) *Exception {
	return NewException(AttributeErrorType, "'property' object attribute '%s' is read-only", name)
}

// DescrGet invokes the getter, matching spec's "Property holds an optional
// getter ... __get__(obj, objtype) invokes the getter".
func (p *Property) DescrGet(ctx *Context, obj Value, objType *Class) (Value, *Exception) {
	if obj == nil {
		return p, nil
	}
	if p.Fget == nil {
		return nil, NewException(AttributeErrorType, "unreadable attribute")
	}
	return p.Fget.Invoke(ctx, []Value{obj}, nil)
}

// DescrSet invokes the setter.
func (p *Property) DescrSet(ctx *Context, obj Value, value Value) *Exception {
	if p.Fset == nil {
		return NewException(AttributeErrorType, "can't set attribute")
	}
	_, exc := p.Fset.Invoke(ctx, []Value{obj, value}, nil)
	return exc
}

// Classmethod wraps a callable; __get__ rebinds to the owner class (not the
// instance), even when accessed through an instance (spec §4.4;
// SPEC_FULL.md §3 "classmethod rebinding").
type Classmethod struct {
	F Invokable
}

func (c *Classmethod) GetType() *Class                          { return ClassmethodT }
func (c *Classmethod) HasAttrWhere(name string) AttrWhere        { return AttrAbsent }
func (c *Classmethod) GetAttr(ctx *Context, name string) (Value, *Exception) {
	return nil, NewException(AttributeErrorType, "'classmethod' object has no attribute '%s'", name)
}
func (c *Classmethod) SetAttr(ctx *Context, name string, value Value) *Exception {
	return NewException(AttributeErrorType, "'classmethod' object has no attribute '%s'", name)
}
func (c *Classmethod) DescrGet(ctx *Context, obj Value, objType *Class) (Value, *Exception) {
	owner := objType
	if obj != nil {
		if eo, ok := obj.(EchoObject); ok {
			owner = eo.GetType()
		}
	}
	return &Method{Func: c.F, Self: owner}, nil
}

// Staticmethod wraps a callable; __get__ returns it unchanged regardless of
// obj/objtype (spec §3 "Staticmethod").
type Staticmethod struct {
	F Invokable
}

func (s *Staticmethod) GetType() *Class                   { return Staticmethod_ }
func (s *Staticmethod) HasAttrWhere(name string) AttrWhere { return AttrAbsent }
func (s *Staticmethod) GetAttr(ctx *Context, name string) (Value, *Exception) {
	return nil, NewException(AttributeErrorType, "'staticmethod' object has no attribute '%s'", name)
}
func (s *Staticmethod) SetAttr(ctx *Context, name string, value Value) *Exception {
	return NewException(AttributeErrorType, "'staticmethod' object has no attribute '%s'", name)
}
func (s *Staticmethod) DescrGet(ctx *Context, obj Value, objType *Class) (Value, *Exception) {
	return s.F, nil
}
