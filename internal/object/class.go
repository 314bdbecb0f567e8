package object

import (
	"fmt"
	"sort"
	"weak"

	"github.com/google/uuid"
)

// Class is the echo-object representing a user-defined (or built-in,
// non-primitive) class: name, namespace dict, ordered bases, optional
// metaclass, and a weakly-held set of subclasses (spec §3 "Class",
// §9 "cycles: metaclass <-> class <-> instance").
//
// Subclasses are tracked with weak.Pointer so that a subclass whose only
// remaining reference is its base's subclass set can still be collected --
// the Go stand-in for the reference's Python weak-reference set.
type Class struct {
	ID         uuid.UUID
	Name       string
	Dict       map[string]Value
	Bases      []*Class
	Metaclass  *Class
	subclasses map[weak.Pointer[Class]]struct{}
	mro        []*Class // memoized once computed; SetAttr clears it, direct writes to Dict do not
}

// NewClass constructs a class and registers it as a subclass of each of its
// bases.
func NewClass(name string, bases []*Class, dict map[string]Value, metaclass *Class) *Class {
	if dict == nil {
		dict = map[string]Value{}
	}
	c := &Class{ID: uuid.New(), Name: name, Dict: dict, Bases: bases, Metaclass: metaclass}
	for _, b := range bases {
		b.registerSubclass(c)
	}
	return c
}

func (c *Class) registerSubclass(sub *Class) {
	if c.subclasses == nil {
		c.subclasses = map[weak.Pointer[Class]]struct{}{}
	}
	c.subclasses[weak.Make(sub)] = struct{}{}
}

// Subclasses returns the still-live direct subclasses of c, sorted by name
// for deterministic output (the reference sorts its subclasses list too,
// relying on an implicit total order).
func (c *Class) Subclasses() []*Class {
	var out []*Class
	for wp := range c.subclasses {
		if sc := wp.Value(); sc != nil {
			out = append(out, sc)
		} else {
			delete(c.subclasses, wp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *Class) GetType() *Class {
	if c.Metaclass != nil {
		return c.Metaclass
	}
	return TypeType
}

func (c *Class) String() string {
	return fmt.Sprintf("<%sclass '%s'>", EPrefix(), c.Name)
}

// GetMRO computes (and memoizes) c's method resolution order via C3
// linearization. spec §9 flags the reference implementation's MRO
// algorithm (a preorder DFS with a "ready" heuristic) as a known
// simplification and names true C3 as "the safe choice" for a conformant
// re-implementation; this chooses C3 -- see DESIGN.md.
func (c *Class) GetMRO() ([]*Class, *Exception) {
	if c.mro != nil {
		return c.mro, nil
	}
	seqs := make([][]*Class, 0, len(c.Bases)+1)
	for _, b := range c.Bases {
		bmro, exc := b.GetMRO()
		if exc != nil {
			return nil, exc
		}
		seqs = append(seqs, append([]*Class{}, bmro...))
	}
	seqs = append(seqs, append([]*Class{}, c.Bases...))
	merged, ok := c3Merge(append([][]*Class{{c}}, seqs...))
	if !ok {
		return nil, NewException(TypeErrorType,
			"Cannot create a consistent method resolution order (MRO) for bases %s", c.baseNames())
	}
	if len(merged) == 0 || merged[len(merged)-1] != ObjectType {
		found := false
		for _, m := range merged {
			if m == ObjectType {
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, ObjectType)
		}
	}
	c.mro = merged
	return merged, nil
}

func (c *Class) baseNames() string {
	s := ""
	for i, b := range c.Bases {
		if i > 0 {
			s += ", "
		}
		s += b.Name
	}
	return s
}

// c3Merge implements the standard C3 linearization merge step: repeatedly
// take the head of the first list whose head does not appear in the tail
// of any other list.
func c3Merge(seqs [][]*Class) ([]*Class, bool) {
	var result []*Class
	seqs = filterNonEmpty(seqs)
	for len(seqs) > 0 {
		var head *Class
		for _, s := range seqs {
			candidate := s[0]
			if !inAnyTail(candidate, seqs) {
				head = candidate
				break
			}
		}
		if head == nil {
			return nil, false
		}
		result = append(result, head)
		for i, s := range seqs {
			if len(s) > 0 && s[0] == head {
				seqs[i] = s[1:]
			}
		}
		seqs = filterNonEmpty(seqs)
	}
	return result, true
}

func filterNonEmpty(seqs [][]*Class) [][]*Class {
	out := seqs[:0]
	for _, s := range seqs {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func inAnyTail(c *Class, seqs [][]*Class) bool {
	for _, s := range seqs {
		for _, x := range s[1:] {
			if x == c {
				return true
			}
		}
	}
	return false
}

// IsSubtypeOf reports whether other appears in c's MRO.
func (c *Class) IsSubtypeOf(other *Class) bool {
	mro, exc := c.GetMRO()
	if exc != nil {
		return false
	}
	for _, m := range mro {
		if m == other {
			return true
		}
	}
	return false
}

func (c *Class) HasAttrWhere(name string) AttrWhere {
	if _, ok := c.Dict[name]; ok {
		return AttrSelfDict
	}
	switch name {
	case "__mro__", "__class__", "__bases__", "__subclasses__", "__dict__", "__name__":
		return AttrSelfSpecial
	}
	mro, exc := c.GetMRO()
	if exc == nil {
		for _, b := range mro[1:] {
			if _, ok := b.Dict[name]; ok {
				return AttrCls
			}
		}
	}
	return AttrAbsent
}

// GetAttr implements "standard getattr on a class" (spec §4.2).
func (c *Class) GetAttr(ctx *Context, name string) (Value, *Exception) {
	if v, ok := c.Dict[name]; ok {
		if d, ok := asDescriptor(v); ok {
			// Non-instance descriptor invocation: __get__(None, class).
			return invokeDescr(ctx, d, nil, c)
		}
		return v, nil
	}
	switch name {
	case "__mro__":
		mro, exc := c.GetMRO()
		if exc != nil {
			return nil, exc
		}
		out := make(Tuple, len(mro))
		for i, m := range mro {
			out[i] = m
		}
		return out, nil
	case "__class__":
		return c.GetType(), nil
	case "__bases__":
		out := make(Tuple, len(c.Bases))
		for i, b := range c.Bases {
			out[i] = b
		}
		return out, nil
	case "__subclasses__":
		return NewBoundBuiltin("__subclasses__", c, func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
			subs := c.Subclasses()
			out := make(List, len(subs))
			for i, s := range subs {
				out[i] = s
			}
			return &out, nil
		}), nil
	case "__dict__":
		return c.Dict, nil
	case "__name__":
		return NewStr(c.Name), nil
	}
	mro, exc := c.GetMRO()
	if exc != nil {
		return nil, exc
	}
	for _, b := range mro[1:] {
		if HasAttr(b, name) {
			return b.GetAttr(ctx, name)
		}
	}
	if c.Metaclass != nil && HasAttr(c.Metaclass, name) {
		return c.Metaclass.GetAttr(ctx, name)
	}
	return nil, NewException(AttributeErrorType, "type object '%s' has no attribute '%s'", c.Name, name)
}

func (c *Class) SetAttr(ctx *Context, name string, value Value) *Exception {
	c.Dict[name] = value
	c.mro = nil
	return nil
}

// Instantiate implements the metaclass-instantiation protocol (spec §4.2
// "Metaclass instantiation").
func (c *Class) Instantiate(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
	if newFn, ok := c.Dict["__new__"]; ok {
		inv, ok := newFn.(Invokable)
		if !ok {
			return nil, NewException(TypeErrorType, "__new__ is not callable")
		}
		newArgs := append([]Value{c}, args...)
		candidate, exc := inv.Invoke(ctx, newArgs, kwargs)
		if exc != nil {
			return nil, exc
		}
		if !isInstanceOf(ctx, candidate, c) {
			return candidate, nil
		}
		inst := candidate.(*Instance)
		if initFn, ok := c.Dict["__init__"]; ok {
			if iv, ok := initFn.(Invokable); ok {
				initArgs := append([]Value{inst}, args...)
				if _, exc := iv.Invoke(ctx, initArgs, kwargs); exc != nil {
					return nil, exc
				}
			}
		}
		return inst, nil
	}
	inst := NewInstance(c)
	if initFn, exc := lookupInMRO(c, "__init__"); exc == nil && initFn != nil {
		if iv, ok := initFn.(Invokable); ok {
			initArgs := append([]Value{Value(inst)}, args...)
			if _, exc := iv.Invoke(ctx, initArgs, kwargs); exc != nil {
				return nil, exc
			}
		}
	}
	return inst, nil
}

func lookupInMRO(c *Class, name string) (Value, *Exception) {
	mro, exc := c.GetMRO()
	if exc != nil {
		return nil, exc
	}
	for _, m := range mro {
		if v, ok := m.Dict[name]; ok {
			return v, nil
		}
	}
	return nil, nil
}

func isInstanceOf(ctx *Context, v Value, c *Class) bool {
	inst, ok := v.(*Instance)
	if !ok {
		return false
	}
	return inst.Class.IsSubtypeOf(c)
}
