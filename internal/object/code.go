package object

// Code-object flag bits, preserved verbatim from the reference language's
// co_flags layout (CPython 3.7-era bit positions); a from-scratch Go
// implementation has no reason to renumber them since the host compilation
// facility that produces Code values targets these exact positions.
const (
	FlagStarArgs       = 0x04
	FlagStarKwargs     = 0x08
	FlagGenerator      = 0x20
	FlagCoroutine      = 0x80
	FlagAsyncGenerator = 0x200
)

// Code is the compiled representation of a function or module body,
// produced by the host compilation facility and consumed, never produced,
// by this module (spec §3 "Code object (external input)").
type Code struct {
	Name       string
	Filename   string
	FirstLine  int
	Qualname   string
	Argcount   int
	KwOnlyArgcount int
	Nlocals    int
	Varnames   []string
	Cellvars   []string
	Freevars   []string
	Flags      int
	Consts     []Value
	Names      []string
	Instrs     []byte // bytecode stream; decoded by internal/vm
}

func (c *Code) StarArgs() bool       { return c.Flags&FlagStarArgs != 0 }
func (c *Code) StarKwargs() bool     { return c.Flags&FlagStarKwargs != 0 }
func (c *Code) Generator() bool      { return c.Flags&FlagGenerator != 0 }
func (c *Code) Coroutine() bool      { return c.Flags&FlagCoroutine != 0 }
func (c *Code) AsyncGenerator() bool { return c.Flags&FlagAsyncGenerator != 0 }

// Attributes is the derived view of a Code object that the argument
// resolver and evaluator actually operate on (spec §3 "Code attributes").
type Attributes struct {
	Argcount       int
	KwOnlyArgcount int
	Nlocals        int
	Varnames       []string
	Cellvars       []string
	Freevars       []string
	StarArgs       bool
	StarKwargs     bool
	Generator      bool
	Coroutine      bool
	AsyncGenerator bool
	Name           string
}

// StarargIndex is the slot index reserved for *args when StarArgs is set.
func (a Attributes) StarargIndex() int { return a.Argcount + a.KwOnlyArgcount }

// StarkwargIndex is the slot index reserved for **kwargs when StarKwargs is
// set; it sits immediately after the *args slot (or in its place, if there
// is no *args slot) -- not mid-signature.
func (a Attributes) StarkwargIndex() int {
	idx := a.StarargIndex()
	if a.StarArgs {
		idx++
	}
	return idx
}

// TotalArgcount is the number of local slots dedicated to parameters
// (positional + keyword-only + *args slot + **kwargs slot).
func (a Attributes) TotalArgcount() int {
	n := a.Argcount + a.KwOnlyArgcount
	if a.StarArgs {
		n++
	}
	if a.StarKwargs {
		n++
	}
	return n
}

// AttributesFromCode derives Attributes from a Code object.
func AttributesFromCode(c *Code, name string) Attributes {
	return Attributes{
		Argcount:       c.Argcount,
		KwOnlyArgcount: c.KwOnlyArgcount,
		Nlocals:        c.Nlocals,
		Varnames:       c.Varnames,
		Cellvars:       c.Cellvars,
		Freevars:       c.Freevars,
		StarArgs:       c.StarArgs(),
		StarKwargs:     c.StarKwargs(),
		Generator:      c.Generator(),
		Coroutine:      c.Coroutine(),
		AsyncGenerator: c.AsyncGenerator(),
		Name:           name,
	}
}
