package object

// CalculateMetaclass implements the exact metaclass-conflict-detection
// algorithm of spec §4.2 "Class construction" step 1: starting from
// type(bases[0]), for every base b, the winner is replaced if type(b) is a
// strict subtype of winner; if neither relation holds, construction fails.
func CalculateMetaclass(bases []*Class) (*Class, *Exception) {
	if len(bases) == 0 {
		return TypeType, nil
	}
	winner := bases[0].GetType()
	for _, b := range bases[1:] {
		bt := b.GetType()
		if winner.IsSubtypeOf(bt) {
			continue
		}
		if bt.IsSubtypeOf(winner) {
			winner = bt
			continue
		}
		return nil, NewException(TypeErrorType,
			"metaclass conflict: the metaclass of a derived class must be a "+
				"(non-strict) subclass of the metaclasses of all its bases")
	}
	return winner, nil
}

// BuildClass implements the __build_class__ protocol (spec §4.2 "Class
// construction"): given a body function, a name, base classes and an
// optional explicit metaclass, execute the body to collect a namespace and
// construct the resulting class.
func BuildClass(ctx *Context, body Invokable, name string, bases []*Class, metaclass *Class) (Value, *Exception) {
	if metaclass == nil {
		var exc *Exception
		metaclass, exc = CalculateMetaclass(bases)
		if exc != nil {
			return nil, exc
		}
	}
	ns := map[string]Value{}
	if prepareFn, ok := metaclass.Dict["__prepare__"]; ok {
		if inv, ok := prepareFn.(Invokable); ok {
			baseTuple := make(Tuple, len(bases))
			for i, b := range bases {
				baseTuple[i] = b
			}
			prepared, exc := inv.Invoke(ctx, []Value{NewStr(name), baseTuple}, nil)
			if exc != nil {
				return nil, exc
			}
			if m, ok := prepared.(map[string]Value); ok {
				ns = m
			}
		}
	}
	if _, exc := ctx.CallWithLocals(body, nil, nil, ns); exc != nil {
		return nil, exc
	}
	if ctorFn, ok := metaclass.Dict["__new__"]; ok {
		if inv, ok := ctorFn.(Invokable); ok {
			baseTuple := make(Tuple, len(bases))
			for i, b := range bases {
				baseTuple[i] = b
			}
			return inv.Invoke(ctx, []Value{metaclass, NewStr(name), baseTuple, ns}, nil)
		}
	}
	return NewClass(name, bases, ns, metaclass), nil
}
