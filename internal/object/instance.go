package object

// Instance is a plain object of some user-defined class: a back-pointer to
// its class and a dict of instance attributes (spec §3 "Instance"). The
// built-in-storage side table mentioned in spec.md (for subclasses of
// primitive built-ins such as int/list) is represented by the optional
// Builtin field, populated only for instances of classes that subclass a
// primitive built-in type.
type Instance struct {
	Class   *Class
	Dict    map[string]Value
	Builtin Value // non-nil only for instances of a builtin-subclassing class
}

func NewInstance(c *Class) *Instance {
	return &Instance{Class: c, Dict: map[string]Value{}}
}

func (i *Instance) GetType() *Class { return i.Class }

// String renders an exception instance as its first constructor argument,
// matching BaseException.__str__'s "single arg -> that arg, else repr of
// the args tuple" behavior; non-exception instances fall back to a plain
// "<ClassName instance>" the way the reference's default __str__ does.
func (i *Instance) String() string {
	if i.Class.IsSubtypeOf(BaseExceptionType) {
		if args, ok := i.Dict["args"].(Tuple); ok {
			switch len(args) {
			case 0:
				return ""
			case 1:
				return Str(args[0])
			default:
				return Str(args)
			}
		}
	}
	return "<" + i.Class.Name + " instance>"
}

// searchMRO finds the first MRO entry (after the instance's own class,
// inclusive) whose dict holds name, returning both the value and the class
// that defined it, or (nil, nil, nil) if absent.
func (i *Instance) searchMRO(name string) (Value, *Class, *Exception) {
	mro, exc := i.Class.GetMRO()
	if exc != nil {
		return nil, nil, exc
	}
	for _, c := range mro {
		if v, ok := c.Dict[name]; ok {
			return v, c, nil
		}
	}
	return nil, nil, nil
}

func (i *Instance) HasAttrWhere(name string) AttrWhere {
	if _, ok := i.Dict[name]; ok {
		return AttrSelfDict
	}
	switch name {
	case "__class__", "__dict__":
		return AttrSelfSpecial
	}
	if v, _, _ := i.searchMRO(name); v != nil {
		return AttrCls
	}
	return AttrAbsent
}

// GetAttr implements "standard getattr on an instance" (spec §4.2),
// including the descriptor-vs-instance-dict precedence rule called out in
// spec §9 as an open question: a data descriptor (both __get__ and
// __set__) found in the MRO wins over an instance dict entry; a
// non-data descriptor (only __get__) loses to one.
func (i *Instance) GetAttr(ctx *Context, name string) (Value, *Exception) {
	clsAttr, _, exc := i.searchMRO(name)
	if exc != nil {
		return nil, exc
	}
	if dd, ok := asDataDescriptor(clsAttr); ok {
		return invokeDescr(ctx, dd, i, i.Class)
	}
	if v, ok := i.Dict[name]; ok {
		return v, nil
	}
	switch name {
	case "__class__":
		return i.Class, nil
	case "__dict__":
		return i.Dict, nil
	}
	if d, ok := asDescriptor(clsAttr); ok {
		return invokeDescr(ctx, d, i, i.Class)
	}
	if clsAttr != nil {
		return clsAttr, nil
	}
	return nil, NewException(AttributeErrorType, "'%s' object has no attribute '%s'", i.Class.Name, name)
}

// SetAttr implements "standard setattr on an instance" (spec §4.2).
func (i *Instance) SetAttr(ctx *Context, name string, value Value) *Exception {
	clsAttr, _, exc := i.searchMRO(name)
	if exc != nil {
		return exc
	}
	if dd, ok := asDataDescriptor(clsAttr); ok {
		return dd.DescrSet(ctx, i, value)
	}
	i.Dict[name] = value
	return nil
}
