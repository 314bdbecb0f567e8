package object

// Cell is a single-slot box for a closure variable: uninitialized at birth,
// accepts one write, and thereafter reads return the stored value. Two
// cells are equal only by pointer identity, never by contained value --
// needed so that nested closures sharing a free variable observe each
// other's writes (spec §3 "Cell").
type Cell struct {
	Name        string
	value       Value
	initialized bool
}

// NewCell allocates an uninitialized cell for the named variable.
func NewCell(name string) *Cell {
	return &Cell{Name: name}
}

func (c *Cell) Initialized() bool { return c.initialized }

// Get returns the stored value, or ErrNotImplemented-shaped panic guard if
// read before being set -- callers (LOAD_DEREF) are expected to have
// checked Initialized first, matching the reference's assert-based
// contract rather than returning a recoverable error for what is an
// internal invariant violation, never a guest-visible condition.
func (c *Cell) Get() Value {
	if !c.initialized {
		panic("echo: read of uninitialized cell " + c.Name)
	}
	return c.value
}

// Set stores value into the cell. It may be called more than once --
// closures mutate cells repeatedly (see scenario S2, closure mutation via
// nonlocal) -- "write-once" in spec prose describes first-write-then-read,
// not a single-assignment restriction.
func (c *Cell) Set(value Value) {
	c.value = value
	c.initialized = true
}

func (c *Cell) GetType() *Class          { return CellType }
func (c *Cell) HasAttrWhere(string) AttrWhere { return AttrAbsent }
func (c *Cell) GetAttr(ctx *Context, name string) (Value, *Exception) {
	return nil, NewException(AttributeErrorType, "'cell' object has no attribute '%s'", name)
}
func (c *Cell) SetAttr(ctx *Context, name string, value Value) *Exception {
	return NewException(AttributeErrorType, "'cell' object has no attribute '%s'", name)
}
