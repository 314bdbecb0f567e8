package object

// Context is the process-wide interpreter context threaded through every
// evaluator and object-model call: module cache, search paths, current
// exception info, most-recent-frame handle, and the callback plumbing that
// lets the object model invoke user-defined functions without importing
// internal/vm (spec §3 "Interpreter state", §9 "Global registries").
type Context struct {
	Modules      map[string]*Module // sys.modules, keyed by fully-qualified name
	SearchPaths  []string
	ImportDepth  int
	CurrentExc   *Exception
	LastFrame    interface{} // most recently pushed internal/vm.Frame, opaque here
	Builtins     map[string]Value
	DescCount    int // descriptor-invocation counter; diagnostic only, never user-visible

	// InterpCallback runs a Function's code object to completion (or to its
	// first yield, for generator code) and is supplied by internal/vm at
	// startup -- the Go analogue of the reference's ictx.interp_callback.
	InterpCallback func(ctx *Context, f *Function, args []Value, kwargs map[string]Value) (Value, *Exception)

	// InterpCallbackWithLocals is InterpCallback's class-body variant: STORE_NAME
	// writes into localsDict instead of an ordinary locals slot array (spec
	// §4.3 "LOAD_NAME/STORE_NAME ... else on globals / locals-mapping for
	// class bodies"). Used exclusively by BuildClass.
	InterpCallbackWithLocals func(ctx *Context, f Invokable, args []Value, kwargs map[string]Value, localsDict map[string]Value) (Value, *Exception)

	// Importer and FromListResolver are supplied by internal/imports at
	// startup, letting IMPORT_NAME/IMPORT_FROM reach the import subsystem
	// without this package importing it (same seam pattern as
	// InterpCallback).
	Importer         func(ctx *Context, name, pkgPath string, level int) (*Module, *Exception)
	FromListResolver func(ctx *Context, mod *Module, names []string) (map[string]Value, *Exception)
}

// NewContext builds an interpreter context with an empty module cache. The
// caller (internal/vm's entry glue) is responsible for wiring
// InterpCallback and populating Builtins before running any code.
func NewContext(scriptDir string) *Context {
	ctx := &Context{
		Modules: map[string]*Module{},
		Builtins: map[string]Value{},
	}
	if scriptDir != "" {
		ctx.SearchPaths = []string{scriptDir}
	}
	return ctx
}

// Call is a convenience wrapper mirroring the reference's ICtx.call.
func (ctx *Context) Call(callee Value, args []Value, kwargs map[string]Value) (Value, *Exception) {
	return DoCall(ctx, callee, args, kwargs)
}

// CallWithLocals runs body with localsDict standing in for its locals,
// used only for class-body execution inside BuildClass.
func (ctx *Context) CallWithLocals(body Invokable, args []Value, kwargs map[string]Value, localsDict map[string]Value) (Value, *Exception) {
	return ctx.InterpCallbackWithLocals(ctx, body, args, kwargs, localsDict)
}

// invokeDescr calls d's __get__, counting the invocation the way the
// reference's _invoke_desc helper does (a debug/diagnostic counter, never
// consulted for correctness).
func invokeDescr(ctx *Context, d Descriptor, obj Value, objType *Class) (Value, *Exception) {
	ctx.DescCount++
	return d.DescrGet(ctx, obj, objType)
}
