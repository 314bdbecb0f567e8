package object

// Super is the triple (explicit_class, obj_or_type, obj_or_type_type);
// attribute lookup walks the MRO of obj_or_type_type *after*
// explicit_class (spec §3 "Super", §4.2 "Super lookup", scenario S4).
type Super struct {
	ExplicitClass *Class
	ObjOrType     Value
	StartType     *Class
}

// NewSuper implements supercheck(type_, obj): if obj is itself a Class that
// subtypes type_, obj is the effective "start type" lookup target; else if
// type(obj) subtypes type_, type(obj) is; otherwise this is an
// unsupported super() shape.
func NewSuper(explicit *Class, objOrType Value) (*Super, *Exception) {
	if c, ok := objOrType.(*Class); ok && c.IsSubtypeOf(explicit) {
		return &Super{ExplicitClass: explicit, ObjOrType: objOrType, StartType: c}, nil
	}
	if eo, ok := objOrType.(EchoObject); ok && eo.GetType().IsSubtypeOf(explicit) {
		return &Super{ExplicitClass: explicit, ObjOrType: objOrType, StartType: eo.GetType()}, nil
	}
	return nil, NewException(TypeErrorType, "super(type, obj): obj must be an instance or subtype of type")
}

func (s *Super) GetType() *Class                   { return SuperType }
func (s *Super) HasAttrWhere(name string) AttrWhere { return AttrAbsent }
func (s *Super) SetAttr(ctx *Context, name string, value Value) *Exception {
	return NewException(AttributeErrorType, "'super' object has no attribute '%s'", name)
}

// GetAttr walks StartType's MRO, dropping everything up to and including
// ExplicitClass, and scans the tail for name. If found and it is a
// Descriptor, its getter is invoked with self=nil when the original
// operand was itself a type (spec "Super lookup").
func (s *Super) GetAttr(ctx *Context, name string) (Value, *Exception) {
	mro, exc := s.StartType.GetMRO()
	if exc != nil {
		return nil, exc
	}
	tail := mro
	for i, c := range mro {
		if c == s.ExplicitClass {
			tail = mro[i+1:]
			break
		}
	}
	for _, c := range tail {
		if v, ok := c.Dict[name]; ok {
			if d, ok := asDescriptor(v); ok {
				self := s.ObjOrType
				if _, isType := s.ObjOrType.(*Class); isType {
					self = nil
				}
				return invokeDescr(ctx, d, self, s.StartType)
			}
			return v, nil
		}
	}
	return nil, NewException(AttributeErrorType, "'super' object has no attribute '%s'", name)
}
