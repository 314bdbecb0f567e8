package vm

import "github.com/echolang/echo/internal/object"

// Frame is one activation record of the evaluator: a value stack, a slot
// array for locals/args, cell storage for cellvars+freevars, a block stack
// for loop/except/finally bookkeeping, and a program counter. A Frame
// persists across suspension points (spec §5), which is why its stack and
// PC live on the struct rather than on the Go call stack.
type Frame struct {
	Name     string
	Code     *object.Code
	Attrs    object.Attributes
	Globals  map[string]object.Value
	Locals   []object.Value
	Cells    []*object.Cell // cellvars first, then freevars
	Stack    []object.Value
	Blocks   []BlockEntry
	PC       int
	Back     *Frame
	Lasti    int
	CallDepth int

	// LocalsDict, when non-nil, redirects LOAD_NAME/STORE_NAME/DELETE_NAME
	// at this mapping instead of Globals -- the class-body execution mode
	// (spec §4.2 "Class construction").
	LocalsDict map[string]object.Value

	// activeExc is the exception currently being handled by an except
	// block on this frame, consulted by a bare `raise` with no operand.
	activeExc *object.Exception
}

func (f *Frame) push(v object.Value) { f.Stack = append(f.Stack, v) }

func (f *Frame) pop() object.Value {
	n := len(f.Stack) - 1
	v := f.Stack[n]
	f.Stack = f.Stack[:n]
	return v
}

func (f *Frame) popN(n int) []object.Value {
	out := make([]object.Value, n)
	copy(out, f.Stack[len(f.Stack)-n:])
	f.Stack = f.Stack[:len(f.Stack)-n]
	return out
}

func (f *Frame) top() object.Value { return f.Stack[len(f.Stack)-1] }

func (f *Frame) pushBlock(kind BlockKind, handler int) {
	f.Blocks = append(f.Blocks, BlockEntry{Kind: kind, Handler: handler, StackLevel: len(f.Stack)})
}

func (f *Frame) popBlock() BlockEntry {
	n := len(f.Blocks) - 1
	b := f.Blocks[n]
	f.Blocks = f.Blocks[:n]
	return b
}

func (f *Frame) unwindTo(level int) {
	if level < len(f.Stack) {
		f.Stack = f.Stack[:level]
	}
}

// cellIndex maps a cellvars/freevars-relative index (as used by
// LOAD_DEREF/STORE_DEREF/LOAD_CLOSURE operands) onto f.Cells, where
// cellvars occupy the low indices and freevars follow, matching the
// reference's co_cellvars ++ co_freevars layout.
func (f *Frame) cellIndex(i int) *object.Cell { return f.Cells[i] }

// NewFrame builds a fresh frame for code, with locals already resolved by
// internal/argresolve and closure cells built by the caller (one Cell per
// cellvar, plus the incoming closure's cells for freevars).
func NewFrame(name string, code *object.Code, attrs object.Attributes, globals map[string]object.Value,
	locals []object.Value, cells []*object.Cell, back *Frame) *Frame {
	return &Frame{
		Name:    name,
		Code:    code,
		Attrs:   attrs,
		Globals: globals,
		Locals:  locals,
		Cells:   cells,
		Stack:   make([]object.Value, 0, 16),
		Back:    back,
	}
}

// RunToReturnOrYield implements object.ResumableFrame: it drives the
// dispatch loop from the current PC until a RETURN_VALUE or YIELD_VALUE is
// reached (or an exception escapes), letting a paused frame be resumed
// later from exactly where it left off -- the suspension mechanism
// generators and coroutines are built on (spec §5).
func (f *Frame) RunToReturnOrYield(ctx *object.Context) (object.Value, object.FrameStatus, *object.Exception) {
	return f.run(ctx)
}
