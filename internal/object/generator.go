package object

// FrameStatus is the outcome of resuming a paused frame one step further,
// the Go stand-in for the reference's ReturnKind/WhyStatus distinction as
// observed from outside the frame.
type FrameStatus int

const (
	FrameReturned FrameStatus = iota
	FrameYielded
)

// ResumableFrame is the narrow slice of internal/vm.Frame that the object
// model needs in order to implement Generator/Coroutine without importing
// the vm package (which itself imports object) -- the Go equivalent of the
// reference's StatefulFrame being handed to EGenerator by composition
// rather than inheritance.
type ResumableFrame interface {
	RunToReturnOrYield(ctx *Context) (Value, FrameStatus, *Exception)
}

// Generator holds a paused frame; __iter__ returns itself, __next__ resumes
// the frame until the next yield or return, and a return produces
// StopIteration (spec §3 "Generator", invariant 6, §5 "Suspension points").
type Generator struct {
	Frame ResumableFrame
	done  bool
}

func NewGenerator(f ResumableFrame) *Generator { return &Generator{Frame: f} }

func (g *Generator) GetType() *Class { return GeneratorType }
func (g *Generator) HasAttrWhere(name string) AttrWhere {
	switch name {
	case "__iter__", "__next__", "close":
		return AttrSelfSpecial
	}
	return AttrAbsent
}
func (g *Generator) GetAttr(ctx *Context, name string) (Value, *Exception) {
	switch name {
	case "__iter__":
		return NewBoundBuiltin("__iter__", g, func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
			return g, nil
		}), nil
	case "__next__":
		return NewBoundBuiltin("__next__", g, func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
			return g.Next(ctx)
		}), nil
	case "close":
		return NewBoundBuiltin("close", g, func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
			// Does nothing of substance (spec §5 "close builtin").
			return nil, nil
		}), nil
	}
	return nil, NewException(AttributeErrorType, "'generator' object has no attribute '%s'", name)
}
func (g *Generator) SetAttr(ctx *Context, name string, value Value) *Exception {
	return NewException(AttributeErrorType, "'generator' object has no attribute '%s'", name)
}

// Next resumes the paused frame one step. Invariant 6: successive calls
// return yielded values until a StopIteration; resumption after
// StopIteration yields StopIteration again.
func (g *Generator) Next(ctx *Context) (Value, *Exception) {
	if g.done {
		return nil, &Exception{Type: StopIterationType}
	}
	v, status, exc := g.Frame.RunToReturnOrYield(ctx)
	if exc != nil {
		g.done = true
		return nil, exc
	}
	if status == FrameReturned {
		g.done = true
		return nil, &Exception{Type: StopIterationType, Parameter: v}
	}
	return v, nil
}

// Coroutine is a marker object around a paused frame; it supports the same
// resumption protocol as Generator plus a no-op close(), matching spec §1
// "Non-goals: async/await semantics beyond producing coroutine ... marker
// objects".
type Coroutine struct {
	Generator
}

func (c *Coroutine) GetType() *Class { return CoroutineType }

// AsyncGenerator is likewise a thin marker; beyond __aiter__/close it
// raises NotImplementedError, matching the reference's stub coverage.
type AsyncGenerator struct {
	Generator
}

func (a *AsyncGenerator) GetType() *Class { return AsyncGenType }
func (a *AsyncGenerator) HasAttrWhere(name string) AttrWhere {
	if name == "__aiter__" || name == "close" {
		return AttrSelfSpecial
	}
	return AttrAbsent
}
func (a *AsyncGenerator) GetAttr(ctx *Context, name string) (Value, *Exception) {
	switch name {
	case "__aiter__":
		return NewBoundBuiltin("__aiter__", a, func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
			return a, nil
		}), nil
	case "close":
		return NewBoundBuiltin("close", a, func(ctx *Context, args []Value, kwargs map[string]Value) (Value, *Exception) {
			return nil, nil
		}), nil
	}
	return nil, NewException(NotImplementedErrorType, "async generator does not support '%s'", name)
}
