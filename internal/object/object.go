package object

// Value is anything that can live on the evaluator's stack, in a local slot,
// or in a dict: either a native Go-represented primitive (int64, float64,
// bool, string, nil, Tuple, *List, *Dict, *Set) or a boxed EchoObject. Echo's
// object model, like the reference implementation, keeps these two worlds
// deliberately distinct rather than boxing every primitive -- see
// objectmodel in DESIGN.md.
type Value interface{}

// AttrWhere records which storage an attribute lookup was satisfied from,
// mirroring spec's hasattr_where contract exactly: self-dict, a
// host-controlled special attribute, or the owning class.
type AttrWhere int

const (
	AttrAbsent AttrWhere = iota
	AttrSelfDict
	AttrSelfSpecial
	AttrCls
)

// EchoObject is the trait every boxed runtime object implements: the
// attribute/descriptor protocol of spec §4.2.
type EchoObject interface {
	GetType() *Class
	HasAttrWhere(name string) AttrWhere
	GetAttr(ctx *Context, name string) (Value, *Exception)
	SetAttr(ctx *Context, name string, value Value) *Exception
}

// HasAttr reports whether o has the named attribute by any route.
func HasAttr(o EchoObject, name string) bool {
	return o.HasAttrWhere(name) != AttrAbsent
}

// Invokable is implemented by every EchoObject that can appear on the
// left-hand side of a call: functions, methods, classes, builtins, bound
// descriptors, partials, and native wrappers.
type Invokable interface {
	EchoObject
	Invoke(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception)
}

// Descriptor is implemented by anything exposing __get__ (and, for data
// descriptors, __set__). Rather than probing for dunder methods by name on
// every lookup, the evaluator type-asserts against this interface -- the Go
// equivalent of the reference's "hasattr('__get__')" checks.
type Descriptor interface {
	EchoObject
	DescrGet(ctx *Context, obj Value, objType *Class) (Value, *Exception)
}

// DataDescriptor additionally exposes __set__; its presence is what makes a
// class attribute win over an instance dict entry (spec §4.2, §9 "open
// question" -- resolved here by reproducing the reference's exact rule).
type DataDescriptor interface {
	Descriptor
	DescrSet(ctx *Context, obj Value, value Value) *Exception
}

// asDescriptor type-asserts v (which may be a native Value or an
// EchoObject) into a Descriptor, the Go stand-in for the reference's
// "hasattr(attr, '__get__')" checks sprinkled through eobjects.py.
func asDescriptor(v Value) (Descriptor, bool) {
	d, ok := v.(Descriptor)
	return d, ok
}

func asDataDescriptor(v Value) (DataDescriptor, bool) {
	d, ok := v.(DataDescriptor)
	return d, ok
}
