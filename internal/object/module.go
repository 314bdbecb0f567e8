package object

import "github.com/google/uuid"

// SpecialAttr pairs a getter/setter for a host-controlled module attribute
// (e.g. sys.modules, sys.path), so the generic Module type need not
// hardcode them (spec §3 "Module"; SPEC_FULL.md §3 "special_attrs
// extension point").
type SpecialAttr struct {
	Get func(ctx *Context) (Value, *Exception)
	Set func(ctx *Context, value Value) *Exception
}

// Module is fully-qualified-name + filename + a mutable globals mapping,
// with special cases for __dict__ and host-controlled attributes.
type Module struct {
	ID           uuid.UUID
	FQN          string
	Filename     string
	Globals      map[string]Value
	Path         []string // __path__, set only for packages
	SpecialAttrs map[string]SpecialAttr
}

func NewModule(fqn, filename string, globals map[string]Value) *Module {
	return &Module{ID: uuid.New(), FQN: fqn, Filename: filename, Globals: globals, SpecialAttrs: map[string]SpecialAttr{}}
}

func (m *Module) GetType() *Class { return ModuleType }

func (m *Module) HasAttrWhere(name string) AttrWhere {
	if name == "__dict__" {
		return AttrSelfSpecial
	}
	if _, ok := m.SpecialAttrs[name]; ok {
		return AttrSelfSpecial
	}
	if _, ok := m.Globals[name]; ok {
		return AttrSelfSpecial
	}
	return AttrAbsent
}

func (m *Module) GetAttr(ctx *Context, name string) (Value, *Exception) {
	if name == "__dict__" {
		return m.Globals, nil
	}
	if sa, ok := m.SpecialAttrs[name]; ok {
		return sa.Get(ctx)
	}
	if v, ok := m.Globals[name]; ok {
		return v, nil
	}
	return nil, NewException(AttributeErrorType, "module '%s' has no attribute '%s'", m.FQN, name)
}

func (m *Module) SetAttr(ctx *Context, name string, value Value) *Exception {
	if sa, ok := m.SpecialAttrs[name]; ok {
		return sa.Set(ctx, value)
	}
	m.Globals[name] = value
	return nil
}
