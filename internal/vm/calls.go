package vm

import "github.com/echolang/echo/internal/object"

// doCall pops callee + n positional args off the stack (with the callee
// beneath them, as CALL_FUNCTION's stack layout requires) and dispatches
// through object.DoCall.
func (f *Frame) doCall(ctx *object.Context, n int, kwargs map[string]object.Value, width int) (object.Value, why, *object.Exception) {
	args := f.popN(n)
	callee := f.pop()
	v, exc := object.DoCall(ctx, callee, args, kwargs)
	if exc != nil {
		return nil, whyException, exc
	}
	f.push(v)
	f.PC += width
	return nil, whyNone, nil
}

// makeFunctionFlags mirror the reference compiler's MAKE_FUNCTION operand
// bits: which optional pieces were pushed ahead of (qualname, code).
const (
	mkfDefaults = 0x01
	mkfKwDefaults = 0x02
	mkfClosure = 0x08
)

func (f *Frame) makeFunction(flags int) (object.Value, why, *object.Exception) {
	_ = f.pop() // qualname string; Code already carries Name/Qualname
	code := f.pop().(*object.Code)

	var closure []*object.Cell
	if flags&mkfClosure != 0 {
		t := f.pop().(object.Tuple)
		closure = make([]*object.Cell, len(t))
		for i, c := range t {
			closure[i] = c.(*object.Cell)
		}
	}
	var kwDefaults map[string]object.Value
	if flags&mkfKwDefaults != 0 {
		d := f.pop().(*object.Dict)
		kwDefaults = map[string]object.Value{}
		for _, k := range d.Keys() {
			v, _ := d.Get(k)
			kwDefaults[object.Str(k)] = v
		}
	}
	var defaults []object.Value
	if flags&mkfDefaults != 0 {
		defaults = []object.Value(f.pop().(object.Tuple))
	}

	fn := object.NewFunction(code.Name, code, f.Globals)
	fn.Defaults = defaults
	fn.KwDefaults = kwDefaults
	fn.Closure = closure
	fn.Qualname = code.Qualname
	f.push(fn)
	f.PC += 3
	return nil, whyNone, nil
}

func (f *Frame) doUnpackSequence(n int) (object.Value, why, *object.Exception) {
	v := f.pop()
	items, exc := sequenceItems(v)
	if exc != nil {
		return nil, whyException, exc
	}
	if len(items) < n {
		return nil, whyException, object.NewException(object.ValueErrorType,
			"not enough values to unpack (expected %d, got %d)", n, len(items))
	}
	if len(items) > n {
		return nil, whyException, object.NewException(object.ValueErrorType,
			"too many values to unpack (expected %d)", n)
	}
	for i := n - 1; i >= 0; i-- {
		f.push(items[i])
	}
	f.PC += 3
	return nil, whyNone, nil
}

func (f *Frame) doUnpackEx(arg int) (object.Value, why, *object.Exception) {
	before := arg & 0xFF
	after := (arg >> 8) & 0xFF
	v := f.pop()
	items, exc := sequenceItems(v)
	if exc != nil {
		return nil, whyException, exc
	}
	if len(items) < before+after {
		return nil, whyException, object.NewException(object.ValueErrorType, "not enough values to unpack")
	}
	tail := items[len(items)-after:]
	mid := object.List(append([]object.Value{}, items[before:len(items)-after]...))
	for i := len(tail) - 1; i >= 0; i-- {
		f.push(tail[i])
	}
	f.push(&mid)
	for i := before - 1; i >= 0; i-- {
		f.push(items[i])
	}
	f.PC += 3
	return nil, whyNone, nil
}

func sequenceItems(v object.Value) ([]object.Value, *object.Exception) {
	switch c := v.(type) {
	case object.Tuple:
		return c, nil
	case *object.List:
		return *c, nil
	case string:
		items := make([]object.Value, 0, len(c))
		for _, r := range c {
			items = append(items, string(r))
		}
		return items, nil
	}
	return nil, object.NewException(object.TypeErrorType, "cannot unpack non-sequence")
}

func (f *Frame) doRaise(argc int) (object.Value, why, *object.Exception) {
	switch argc {
	case 0:
		if f.activeExc != nil {
			return nil, whyException, f.activeExc
		}
		return nil, whyException, object.NewException(object.TypeErrorType, "No active exception to re-raise")
	case 1:
		v := f.pop()
		return nil, whyException, excFromValue(v)
	default:
		cause := f.pop()
		v := f.pop()
		exc := excFromValue(v)
		_ = cause
		return nil, whyException, exc
	}
}

func excFromValue(v object.Value) *object.Exception {
	if exc, ok := v.(*object.Exception); ok {
		return exc
	}
	if c, ok := v.(*object.Class); ok {
		return &object.Exception{Type: c}
	}
	if inst, ok := v.(*object.Instance); ok {
		return &object.Exception{Type: inst.Class, Parameter: inst}
	}
	return object.NewException(object.TypeErrorType, "exceptions must derive from BaseException")
}
