package vm

import (
	"github.com/echolang/echo/internal/argresolve"
	"github.com/echolang/echo/internal/imports"
	"github.com/echolang/echo/internal/object"
)

// NewInterpreterContext builds an object.Context with its callback seams
// wired to this package's frame machinery and the import subsystem,
// completing the indirection object.Function/object.Generator/IMPORT_NAME
// rely on without importing internal/vm themselves.
func NewInterpreterContext(scriptDir string, load imports.Loader) *object.Context {
	registerCoreBuiltins()
	ctx := object.NewContext(scriptDir)
	ctx.InterpCallback = invokeFunction
	ctx.InterpCallbackWithLocals = invokeWithLocals
	resolver := imports.NewResolver(load)
	ctx.Importer = resolver.Import
	ctx.FromListResolver = resolver.FromList
	for name, b := range object.Registry {
		ctx.Builtins[name] = b
	}
	for name, c := range builtinTypes {
		ctx.Builtins[name] = c
	}
	return ctx
}

// builtinTypes are the type/exception classes bound into global scope by
// name (spec §7 "exception taxonomy", §3 "built-in type markers") so guest
// code can reference them directly, e.g. `raise ValueError(...)` or
// `isinstance(x, int)`. "type" and "str" are deliberately absent: those
// names are bound to the registerCoreBuiltins callables instead, since
// Class.Instantiate has no primitive-coercion __new__ for them.
var builtinTypes = map[string]*object.Class{
	"object":              object.ObjectType,
	"int":                 object.IntType,
	"float":               object.FloatType,
	"bool":                object.BoolType,
	"tuple":               object.TupleType,
	"list":                object.ListType,
	"dict":                object.DictType,
	"set":                 object.SetType,
	"BaseException":       object.BaseExceptionType,
	"Exception":           object.ExceptionType,
	"TypeError":           object.TypeErrorType,
	"AttributeError":      object.AttributeErrorType,
	"NameError":           object.NameErrorType,
	"UnboundLocalError":   object.UnboundLocalErrorType,
	"ImportError":         object.ImportErrorType,
	"KeyError":            object.KeyErrorType,
	"IndexError":          object.IndexErrorType,
	"ValueError":          object.ValueErrorType,
	"NotImplementedError": object.NotImplementedErrorType,
	"StopIteration":       object.StopIterationType,
}

// buildFrame resolves args/kwargs into a slot array via internal/argresolve,
// allocates cells for cellvars, closes over the incoming closure's cells
// for freevars, and returns a ready-to-run Frame.
func buildFrame(ctx *object.Context, fn *object.Function, args []object.Value, kwargs map[string]object.Value, back *Frame) (*Frame, *object.Exception) {
	attrs := object.AttributesFromCode(fn.Code, fn.Name)
	slots, extraLocals, exc := argresolve.Resolve(attrs, args, kwargs, fn.Defaults, fn.KwDefaults)
	if exc != nil {
		return nil, exc
	}
	total := attrs.TotalArgcount()
	locals := make([]object.Value, total+extraLocals)
	copy(locals, slots)

	cells := make([]*object.Cell, len(fn.Code.Cellvars)+len(fn.Code.Freevars))
	for i, name := range fn.Code.Cellvars {
		cells[i] = object.NewCell(name)
		// A cellvar that is also a parameter starts initialized from its
		// local slot (spec §4.3 "cellvars shadowing parameters").
		for pi, pname := range fn.Code.Varnames {
			if pname == name && pi < len(locals) && locals[pi] != nil {
				cells[i].Set(locals[pi])
			}
		}
	}
	for i, cell := range fn.Closure {
		cells[len(fn.Code.Cellvars)+i] = cell
	}

	f := NewFrame(fn.Name, fn.Code, attrs, fn.Globals, locals, cells, back)
	return f, nil
}

// invokeFunction is object.Context.InterpCallback: run fn's code to
// completion, or -- for generator/coroutine/async-generator code -- return
// a paused wrapper object instead of running the body at all (spec §4.3
// "invocation of generator code produces a Generator without running any
// of the body").
func invokeFunction(ctx *object.Context, fn *object.Function, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	var back *Frame
	if lf, ok := ctx.LastFrame.(*Frame); ok {
		back = lf
	}
	f, exc := buildFrame(ctx, fn, args, kwargs, back)
	if exc != nil {
		return nil, exc
	}
	if f.Attrs.Generator || f.Attrs.Coroutine || f.Attrs.AsyncGenerator {
		switch {
		case f.Attrs.Coroutine:
			return &object.Coroutine{Generator: *object.NewGenerator(f)}, nil
		case f.Attrs.AsyncGenerator:
			return &object.AsyncGenerator{Generator: *object.NewGenerator(f)}, nil
		default:
			return object.NewGenerator(f), nil
		}
	}
	prevFrame := ctx.LastFrame
	ctx.LastFrame = f
	defer func() { ctx.LastFrame = prevFrame }()
	v, status, rexc := f.run(ctx)
	if rexc != nil {
		return nil, rexc.WithTraceback(f.Name, f.Lasti, 0)
	}
	if status == object.FrameYielded {
		// A bare-function frame that yields without being wrapped as a
		// generator indicates a compiler/flag mismatch; surface it as a
		// TypeError rather than silently dropping the value.
		return nil, object.NewException(object.TypeErrorType, "yield outside generator")
	}
	return v, nil
}

// invokeWithLocals is object.Context.InterpCallbackWithLocals, used
// exclusively for class-body execution: STORE_NAME/LOAD_NAME target
// localsDict instead of Globals.
func invokeWithLocals(ctx *object.Context, body object.Invokable, args []object.Value, kwargs map[string]object.Value, localsDict map[string]object.Value) (object.Value, *object.Exception) {
	fn, ok := body.(*object.Function)
	if !ok {
		return body.Invoke(ctx, args, kwargs)
	}
	var back *Frame
	if lf, ok := ctx.LastFrame.(*Frame); ok {
		back = lf
	}
	f, exc := buildFrame(ctx, fn, args, kwargs, back)
	if exc != nil {
		return nil, exc
	}
	f.LocalsDict = localsDict
	prevFrame := ctx.LastFrame
	ctx.LastFrame = f
	defer func() { ctx.LastFrame = prevFrame }()
	v, _, rexc := f.run(ctx)
	if rexc != nil {
		return nil, rexc
	}
	return v, nil
}

// RunModule builds the top-level frame for a module's code object and runs
// it to completion, returning the populated globals.
func RunModule(ctx *object.Context, code *object.Code, globals map[string]object.Value) (map[string]object.Value, *object.Exception) {
	attrs := object.AttributesFromCode(code, code.Name)
	cells := make([]*object.Cell, len(code.Cellvars)+len(code.Freevars))
	for i, name := range code.Cellvars {
		cells[i] = object.NewCell(name)
	}
	f := NewFrame(code.Name, code, attrs, globals, make([]object.Value, code.Nlocals), cells, nil)
	prevFrame := ctx.LastFrame
	ctx.LastFrame = f
	defer func() { ctx.LastFrame = prevFrame }()
	_, _, exc := f.run(ctx)
	if exc != nil {
		return nil, exc
	}
	return globals, nil
}
