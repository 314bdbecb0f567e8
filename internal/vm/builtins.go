package vm

import (
	"fmt"
	"os"

	"github.com/echolang/echo/internal/object"
)

// registerCoreBuiltins installs the built-in functions and types spec §4
// lists (print, range, super, isinstance, issubclass, iter, next, type,
// repr, str, len, property, classmethod, staticmethod) into
// object.Registry, the Go counterpart of the reference's
// @register_builtin-decorated module-level functions. Called once per
// NewInterpreterContext; re-registering the same names is harmless since
// Registry is a plain map.
func registerCoreBuiltins() {
	object.RegisterBuiltin("print", builtinPrint)
	object.RegisterBuiltin("range", builtinRange)
	object.RegisterBuiltin("super", builtinSuper)
	object.RegisterBuiltin("isinstance", builtinIsInstance)
	object.RegisterBuiltin("issubclass", builtinIsSubclass)
	object.RegisterBuiltin("iter", builtinIter)
	object.RegisterBuiltin("next", builtinNext)
	object.RegisterBuiltin("type", builtinType)
	object.RegisterBuiltin("repr", builtinRepr)
	object.RegisterBuiltin("str", builtinStr)
	object.RegisterBuiltin("len", builtinLen)
	object.RegisterBuiltin("property", builtinProperty)
	object.RegisterBuiltin("classmethod", builtinClassmethod)
	object.RegisterBuiltin("staticmethod", builtinStaticmethod)
}

func builtinPrint(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	sep := " "
	end := "\n"
	if v, ok := kwargs["sep"]; ok {
		sep = object.Str(v)
	}
	if v, ok := kwargs["end"]; ok {
		end = object.Str(v)
	}
	for i, a := range args {
		if i > 0 {
			fmt.Fprint(os.Stdout, sep)
		}
		s, exc := reprForDisplay(ctx, a, false)
		if exc != nil {
			return nil, exc
		}
		fmt.Fprint(os.Stdout, s)
	}
	fmt.Fprint(os.Stdout, end)
	return nil, nil
}

// builtinRange implements range(stop) / range(start, stop) /
// range(start, stop, step), materialized eagerly as a *object.List --
// echo has no lazy-range type, matching S1's "for i in range(10)" need.
func builtinRange(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	asInt := func(v object.Value) (int64, bool) {
		i, ok := v.(int64)
		return i, ok
	}
	var start, stop, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		var ok bool
		if stop, ok = asInt(args[0]); !ok {
			return nil, object.NewException(object.TypeErrorType, "range() argument must be an int")
		}
	case 2, 3:
		var ok bool
		if start, ok = asInt(args[0]); !ok {
			return nil, object.NewException(object.TypeErrorType, "range() argument must be an int")
		}
		if stop, ok = asInt(args[1]); !ok {
			return nil, object.NewException(object.TypeErrorType, "range() argument must be an int")
		}
		if len(args) == 3 {
			if step, ok = asInt(args[2]); !ok {
				return nil, object.NewException(object.TypeErrorType, "range() argument must be an int")
			}
		}
	default:
		return nil, object.NewException(object.TypeErrorType, "range expected 1 to 3 arguments, got %d", len(args))
	}
	if step == 0 {
		return nil, object.NewException(object.ValueErrorType, "range() arg 3 must not be zero")
	}
	out := object.List{}
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, i)
		}
	}
	return &out, nil
}

func builtinSuper(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	if len(args) != 2 {
		return nil, object.NewException(object.TypeErrorType, "super() requires explicit (type, obj) arguments")
	}
	cls, ok := args[0].(*object.Class)
	if !ok {
		return nil, object.NewException(object.TypeErrorType, "super() argument 1 must be a type")
	}
	return object.NewSuper(cls, args[1])
}

func builtinIsInstance(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	if len(args) != 2 {
		return nil, object.NewException(object.TypeErrorType, "isinstance() takes 2 arguments")
	}
	for _, t := range classInfoList(args[1]) {
		if object.DoIsInstance(args[0], t) {
			return true, nil
		}
	}
	return false, nil
}

func builtinIsSubclass(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	if len(args) != 2 {
		return nil, object.NewException(object.TypeErrorType, "issubclass() takes 2 arguments")
	}
	c, ok := args[0].(*object.Class)
	if !ok {
		return nil, object.NewException(object.TypeErrorType, "issubclass() arg 1 must be a class")
	}
	for _, t := range classInfoList(args[1]) {
		if object.DoIsSubclass(c, t) {
			return true, nil
		}
	}
	return false, nil
}

// classInfoList normalizes isinstance/issubclass's second argument, which
// may be a single class or a tuple of classes.
func classInfoList(v object.Value) []*object.Class {
	if t, ok := v.(object.Tuple); ok {
		out := make([]*object.Class, 0, len(t))
		for _, e := range t {
			if c, ok := e.(*object.Class); ok {
				out = append(out, c)
			}
		}
		return out
	}
	if c, ok := v.(*object.Class); ok {
		return []*object.Class{c}
	}
	return nil
}

func builtinIter(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	if len(args) != 1 {
		return nil, object.NewException(object.TypeErrorType, "iter() takes 1 argument")
	}
	return getIter(ctx, args[0])
}

func builtinNext(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	if len(args) < 1 {
		return nil, object.NewException(object.TypeErrorType, "next() takes at least 1 argument")
	}
	v, exc := iterNext(ctx, args[0])
	if exc != nil {
		if exc.Type == object.StopIterationType && len(args) > 1 {
			return args[1], nil
		}
		return nil, exc
	}
	return v, nil
}

func builtinType(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	if len(args) != 1 {
		return nil, object.NewException(object.TypeErrorType, "type() takes 1 argument")
	}
	return object.DoType(args[0]), nil
}

func builtinRepr(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	if len(args) != 1 {
		return nil, object.NewException(object.TypeErrorType, "repr() takes 1 argument")
	}
	return reprForDisplay(ctx, args[0], true)
}

func builtinStr(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	if len(args) == 0 {
		return "", nil
	}
	return reprForDisplay(ctx, args[0], false)
}

// reprForDisplay honors a __repr__/__str__ dunder when present, else falls
// back to object.Str, quoting plain strings when asRepr is set (spec §4
// "repr/str builtins").
func reprForDisplay(ctx *object.Context, v object.Value, asRepr bool) (string, *object.Exception) {
	dunder := "__str__"
	if asRepr {
		dunder = "__repr__"
	}
	if eo, ok := v.(object.EchoObject); ok && object.HasAttr(eo, dunder) {
		fn, exc := object.DoGetAttr(ctx, eo, dunder)
		if exc != nil {
			return "", exc
		}
		res, exc := ctx.Call(fn, nil, nil)
		if exc != nil {
			return "", exc
		}
		return object.Str(res), nil
	}
	if asRepr {
		if s, ok := v.(string); ok {
			return fmt.Sprintf("'%s'", s), nil
		}
	}
	return object.Str(v), nil
}

func builtinLen(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	if len(args) != 1 {
		return nil, object.NewException(object.TypeErrorType, "len() takes 1 argument")
	}
	switch c := args[0].(type) {
	case object.Tuple:
		return int64(len(c)), nil
	case *object.List:
		return int64(len(*c)), nil
	case *object.Dict:
		return int64(c.Len()), nil
	case string:
		return int64(len(c)), nil
	}
	if eo, ok := args[0].(object.EchoObject); ok && object.HasAttr(eo, "__len__") {
		fn, exc := object.DoGetAttr(ctx, eo, "__len__")
		if exc != nil {
			return nil, exc
		}
		return ctx.Call(fn, nil, nil)
	}
	return nil, object.NewException(object.TypeErrorType, "object of type '%s' has no len()", object.DoType(args[0]).Name)
}

func builtinProperty(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	p := &object.Property{}
	if len(args) > 0 {
		if inv, ok := args[0].(object.Invokable); ok {
			p.Fget = inv
		}
	}
	if len(args) > 1 {
		if inv, ok := args[1].(object.Invokable); ok {
			p.Fset = inv
		}
	}
	if v, ok := kwargs["doc"]; ok {
		p.Doc = object.Str(v)
	}
	return p, nil
}

func builtinClassmethod(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	if len(args) != 1 {
		return nil, object.NewException(object.TypeErrorType, "classmethod() takes 1 argument")
	}
	inv, ok := args[0].(object.Invokable)
	if !ok {
		return nil, object.NewException(object.TypeErrorType, "classmethod() argument must be callable")
	}
	return &object.Classmethod{F: inv}, nil
}

func builtinStaticmethod(ctx *object.Context, args []object.Value, kwargs map[string]object.Value) (object.Value, *object.Exception) {
	if len(args) != 1 {
		return nil, object.NewException(object.TypeErrorType, "staticmethod() takes 1 argument")
	}
	inv, ok := args[0].(object.Invokable)
	if !ok {
		return nil, object.NewException(object.TypeErrorType, "staticmethod() argument must be callable")
	}
	return &object.Staticmethod{F: inv}, nil
}
