package vm

import (
	"encoding/binary"

	"github.com/echolang/echo/internal/object"
)

// why classifies how control is leaving the current bytecode offset,
// mirroring CPython's WHY_* reasons (spec §4.3 "WhyStatus-style unwinding").
type why int

const (
	whyNone why = iota
	whyReturn
	whyBreak
	whyContinue
	whyYield
	whyException
)

func (f *Frame) readArg() int {
	lo := f.Code.Instrs[f.PC+1]
	hi := f.Code.Instrs[f.PC+2]
	return int(binary.LittleEndian.Uint16([]byte{lo, hi}))
}

// run is the dispatch loop: it executes instructions starting at f.PC until
// a return, a yield, or an unhandled exception ends the frame, exactly the
// three outcomes object.ResumableFrame distinguishes.
func (f *Frame) run(ctx *object.Context) (object.Value, object.FrameStatus, *object.Exception) {
	for {
		v, reason, exc := f.stepOne(ctx)
		switch reason {
		case whyReturn:
			return v, object.FrameReturned, nil
		case whyYield:
			return v, object.FrameYielded, nil
		case whyException:
			unwound, handled := f.unwind(exc)
			if !handled {
				return nil, object.FrameReturned, unwound
			}
			// handled: block handler has been jumped to and the exception
			// pushed for END_FINALLY/except-body use; keep looping.
			continue
		case whyBreak:
			if exc != nil {
				return nil, object.FrameReturned, exc
			}
			continue
		default:
			// whyNone/whyContinue: control stayed inside the loop
			// (PC already advanced by stepOne or by a jump handler).
		}
	}
}

// stepOne executes exactly one instruction (or, for control-flow ops that
// fully resolve themselves such as a handled jump, the PC advance that goes
// with it) and reports why the loop should treat this step as notable.
func (f *Frame) stepOne(ctx *object.Context) (object.Value, why, *object.Exception) {
	op := Opcode(f.Code.Instrs[f.PC])
	width := op.InstrWidth()
	var arg int
	if op.hasArg() {
		arg = f.readArg()
	}
	f.Lasti = f.PC

	switch op {
	case POP_TOP:
		f.pop()
	case DUP_TOP:
		f.push(f.top())
	case DUP_TOP_TWO:
		n := len(f.Stack)
		f.push(f.Stack[n-2])
		f.push(f.Stack[n-1])
	case ROT_TWO:
		n := len(f.Stack)
		f.Stack[n-1], f.Stack[n-2] = f.Stack[n-2], f.Stack[n-1]
	case ROT_THREE:
		n := len(f.Stack)
		f.Stack[n-1], f.Stack[n-2], f.Stack[n-3] = f.Stack[n-2], f.Stack[n-3], f.Stack[n-1]

	case LOAD_CONST:
		f.push(f.Code.Consts[arg])
	case LOAD_FAST:
		v := f.Locals[arg]
		if v == nil {
			name := f.Code.Varnames[arg]
			return nil, whyException, object.NewException(object.UnboundLocalErrorType,
				"local variable '%s' referenced before assignment", name)
		}
		f.push(v)
	case STORE_FAST:
		f.Locals[arg] = f.pop()
	case DELETE_FAST:
		f.Locals[arg] = nil
	case LOAD_NAME:
		if exc := f.loadName(ctx, f.Code.Names[arg]); exc != nil {
			return nil, whyException, exc
		}
	case STORE_NAME:
		f.storeName(f.Code.Names[arg], f.pop())
	case DELETE_NAME:
		f.deleteName(f.Code.Names[arg])
	case LOAD_GLOBAL:
		name := f.Code.Names[arg]
		if v, ok := f.Globals[name]; ok {
			f.push(v)
		} else if v, ok := ctx.Builtins[name]; ok {
			f.push(v)
		} else {
			return nil, whyException, object.NewException(object.NameErrorType, "name '%s' is not defined", name)
		}
	case STORE_GLOBAL:
		f.Globals[f.Code.Names[arg]] = f.pop()
	case LOAD_DEREF:
		c := f.cellIndex(arg)
		if !c.Initialized() {
			return nil, whyException, object.NewException(object.UnboundLocalErrorType,
				"free variable '%s' referenced before assignment", c.Name)
		}
		f.push(c.Get())
	case STORE_DEREF:
		f.cellIndex(arg).Set(f.pop())
	case LOAD_CLOSURE:
		f.push(f.cellIndex(arg))

	case LOAD_ATTR, LOAD_METHOD:
		obj := f.pop()
		v, exc := object.DoGetAttr(ctx, obj, f.Code.Names[arg])
		if exc != nil {
			return nil, whyException, exc
		}
		f.push(v)
	case STORE_ATTR:
		obj := f.pop()
		val := f.pop()
		if exc := object.DoSetAttr(ctx, obj, f.Code.Names[arg], val); exc != nil {
			return nil, whyException, exc
		}
	case DELETE_ATTR:
		obj := f.pop()
		if exc := object.DoSetAttr(ctx, obj, f.Code.Names[arg], nil); exc != nil {
			return nil, whyException, exc
		}

	case BINARY_SUBSCR:
		idx := f.pop()
		container := f.pop()
		v, exc := subscript(ctx, container, idx)
		if exc != nil {
			return nil, whyException, exc
		}
		f.push(v)
	case STORE_SUBSCR:
		idx := f.pop()
		container := f.pop()
		val := f.pop()
		if exc := storeSubscript(ctx, container, idx, val); exc != nil {
			return nil, whyException, exc
		}
	case DELETE_SUBSCR:
		idx := f.pop()
		container := f.pop()
		if exc := deleteSubscript(ctx, container, idx); exc != nil {
			return nil, whyException, exc
		}

	case BINARY_ADD, BINARY_SUBTRACT, BINARY_MULTIPLY, BINARY_TRUE_DIVIDE, BINARY_FLOOR_DIVIDE,
		BINARY_MODULO, BINARY_POWER, BINARY_LSHIFT, BINARY_RSHIFT, BINARY_AND, BINARY_OR, BINARY_XOR:
		b := f.pop()
		a := f.pop()
		v, exc := binaryArith(ctx, op, a, b)
		if exc != nil {
			return nil, whyException, exc
		}
		f.push(v)
	case INPLACE_ADD:
		b := f.pop()
		a := f.pop()
		v, exc := binaryArith(ctx, BINARY_ADD, a, b)
		if exc != nil {
			return nil, whyException, exc
		}
		f.push(v)
	case INPLACE_SUBTRACT:
		b := f.pop()
		a := f.pop()
		v, exc := binaryArith(ctx, BINARY_SUBTRACT, a, b)
		if exc != nil {
			return nil, whyException, exc
		}
		f.push(v)
	case INPLACE_MULTIPLY:
		b := f.pop()
		a := f.pop()
		v, exc := binaryArith(ctx, BINARY_MULTIPLY, a, b)
		if exc != nil {
			return nil, whyException, exc
		}
		f.push(v)
	case COMPARE_OP:
		b := f.pop()
		a := f.pop()
		v, exc := compare(ctx, arg, a, b)
		if exc != nil {
			return nil, whyException, exc
		}
		f.push(v)
	case UNARY_NOT:
		f.push(!object.IsTrue(f.pop()))
	case UNARY_NEGATIVE:
		switch x := f.pop().(type) {
		case int64:
			f.push(-x)
		case float64:
			f.push(-x)
		}
	case UNARY_POSITIVE:
		// no-op beyond type validation, which we skip
	case UNARY_INVERT:
		if x, ok := f.pop().(int64); ok {
			f.push(^x)
		}

	case BUILD_TUPLE:
		f.push(object.Tuple(f.popN(arg)))
	case BUILD_LIST:
		l := object.List(f.popN(arg))
		f.push(&l)
	case BUILD_SET:
		s := object.NewSet()
		for _, v := range f.popN(arg) {
			s.Add(v)
		}
		f.push(s)
	case BUILD_MAP:
		d := object.NewDict()
		pairs := f.popN(arg * 2)
		for i := 0; i < len(pairs); i += 2 {
			d.Set(pairs[i], pairs[i+1])
		}
		f.push(d)
	case BUILD_CONST_KEY_MAP:
		keysTuple := f.pop().(object.Tuple)
		values := f.popN(arg)
		d := object.NewDict()
		for i, k := range keysTuple {
			d.Set(k, values[i])
		}
		f.push(d)
	case BUILD_STRING:
		parts := f.popN(arg)
		s := ""
		for _, p := range parts {
			s += object.Str(p)
		}
		f.push(s)
	case BUILD_SLICE:
		if arg == 2 {
			stop := f.pop()
			start := f.pop()
			f.push(object.Tuple{start, stop, nil})
		} else {
			step := f.pop()
			stop := f.pop()
			start := f.pop()
			f.push(object.Tuple{start, stop, step})
		}
	case LIST_APPEND:
		val := f.pop()
		l := f.Stack[len(f.Stack)-arg].(*object.List)
		*l = append(*l, val)
	case SET_ADD:
		val := f.pop()
		s := f.Stack[len(f.Stack)-arg].(*object.Set)
		s.Add(val)
	case MAP_ADD:
		val := f.pop()
		key := f.pop()
		d := f.Stack[len(f.Stack)-arg].(*object.Dict)
		d.Set(key, val)

	case GET_ITER:
		v, exc := getIter(ctx, f.pop())
		if exc != nil {
			return nil, whyException, exc
		}
		f.push(v)
	case FOR_ITER:
		iter := f.top()
		v, exc := iterNext(ctx, iter)
		if exc != nil {
			if exc.Type == object.StopIterationType {
				f.pop()
				f.PC += width
				f.PC += arg
				return nil, whyNone, nil
			}
			return nil, whyException, exc
		}
		f.push(v)

	case JUMP_ABSOLUTE:
		f.PC = arg
		return nil, whyNone, nil
	case JUMP_FORWARD:
		f.PC += width + arg
		return nil, whyNone, nil
	case POP_JUMP_IF_TRUE:
		if object.IsTrue(f.pop()) {
			f.PC = arg
			return nil, whyNone, nil
		}
	case POP_JUMP_IF_FALSE:
		if !object.IsTrue(f.pop()) {
			f.PC = arg
			return nil, whyNone, nil
		}
	case JUMP_IF_TRUE_OR_POP:
		if object.IsTrue(f.top()) {
			f.PC = arg
			return nil, whyNone, nil
		}
		f.pop()
	case JUMP_IF_FALSE_OR_POP:
		if !object.IsTrue(f.top()) {
			f.PC = arg
			return nil, whyNone, nil
		}
		f.pop()

	case SETUP_LOOP:
		f.pushBlock(BlockSetupLoop, f.PC+width+arg)
	case BREAK_LOOP:
		return nil, whyBreak, f.doBreak()
	case CONTINUE_LOOP:
		f.PC = arg
		return nil, whyNone, nil

	case RETURN_VALUE:
		return f.pop(), whyReturn, nil
	case YIELD_VALUE:
		v := f.pop()
		f.PC += width
		return v, whyYield, nil

	case CALL_FUNCTION, CALL_METHOD:
		return f.doCall(ctx, arg, nil, width)
	case CALL_FUNCTION_KW:
		names := f.pop().(object.Tuple)
		kwargs := map[string]object.Value{}
		values := f.popN(len(names))
		for i, n := range names {
			kwargs[object.Str(n)] = values[i]
		}
		return f.doCall(ctx, arg-len(names), kwargs, width)
	case CALL_FUNCTION_EX:
		var kwargs map[string]object.Value
		if arg&0x01 != 0 {
			kd := f.pop().(*object.Dict)
			kwargs = map[string]object.Value{}
			for _, k := range kd.Keys() {
				v, _ := kd.Get(k)
				kwargs[object.Str(k)] = v
			}
		}
		posTuple := f.pop().(object.Tuple)
		callee := f.pop()
		v, exc := object.DoCall(ctx, callee, []object.Value(posTuple), kwargs)
		if exc != nil {
			return nil, whyException, exc
		}
		f.push(v)

	case MAKE_FUNCTION:
		return f.makeFunction(arg)

	case IMPORT_NAME, IMPORT_FROM, IMPORT_STAR:
		return f.doImport(ctx, op, arg)

	case SETUP_EXCEPT:
		f.pushBlock(BlockSetupExcept, f.PC+width+arg)
	case SETUP_FINALLY:
		f.pushBlock(BlockSetupFinally, f.PC+width+arg)
	case POP_BLOCK:
		f.popBlock()
	case POP_EXCEPT:
		b := f.popBlock()
		f.activeExc = b.PrevExc
		ctx.CurrentExc = b.PrevExc
	case END_FINALLY:
		// The status that was pushed ahead of the finally body decides
		// whether to keep unwinding or fall through; we modeled exception
		// re-raise by pushing the exception value itself as a marker.
		status := f.pop()
		if exc, ok := status.(*object.Exception); ok {
			return nil, whyException, exc
		}
	case RAISE_VARARGS:
		return f.doRaise(arg)
	case SETUP_WITH:
		ctxMgr := f.top()
		exitFn, exc := object.DoGetAttr(ctx, ctxMgr, "__exit__")
		if exc != nil {
			return nil, whyException, exc
		}
		enterFn, exc := object.DoGetAttr(ctx, ctxMgr, "__enter__")
		if exc != nil {
			return nil, whyException, exc
		}
		enterVal, exc := ctx.Call(enterFn, nil, nil)
		if exc != nil {
			return nil, whyException, exc
		}
		f.push(exitFn)
		f.pushBlock(BlockSetupFinally, f.PC+width+arg)
		f.push(enterVal)
	case WITH_CLEANUP_START:
		// TOS is either the marker left by the normal-exit path (nil) or
		// the exception this finally block's handler was jumped in for
		// (pushed by unwind); the __exit__ callable sits just beneath it,
		// left on the stack by SETUP_WITH for the whole with-body's
		// duration.
		excOrNone := f.pop()
		exitFn := f.pop()
		var excType, excVal object.Value
		if exc, ok := excOrNone.(*object.Exception); ok {
			excType, excVal = exc.Type, exc.Parameter
		}
		result, cexc := ctx.Call(exitFn, []object.Value{excType, excVal, nil}, nil)
		if cexc != nil {
			return nil, whyException, cexc
		}
		f.push(excOrNone)
		f.push(result)
	case WITH_CLEANUP_FINISH:
		result := f.pop()
		excOrNone := f.pop()
		if exc, ok := excOrNone.(*object.Exception); ok && !object.IsTrue(result) {
			// __exit__ did not suppress the exception: keep unwinding.
			return nil, whyException, exc
		}
		// Either no exception was active, or __exit__ returned truthy and
		// suppressed it; either way control falls through normally.

	case LOAD_BUILD_CLASS:
		f.push(object.NewBoundBuiltin("__build_class__", nil,
			func(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
				body := args[0].(object.Invokable)
				name := object.Str(args[1])
				bases := make([]*object.Class, len(args)-2)
				for i, b := range args[2:] {
					bases[i] = b.(*object.Class)
				}
				var metaclass *object.Class
				if mc, ok := kwargs["metaclass"]; ok {
					metaclass = mc.(*object.Class)
				}
				return object.BuildClass(ctx, body, name, bases, metaclass)
			}))

	case UNPACK_SEQUENCE:
		return f.doUnpackSequence(arg)
	case UNPACK_EX:
		return f.doUnpackEx(arg)

	case EXTENDED_ARG:
		// Folded into readArg's 16-bit operand already; no-op here.
	case PRINT_EXPR:
		f.pop()
	case FORMAT_VALUE:
		v := f.pop()
		f.push(object.Str(v))
	}

	f.PC += width
	return nil, whyNone, nil
}
