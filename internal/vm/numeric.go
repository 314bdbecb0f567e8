package vm

import (
	"fmt"
	"math"

	"github.com/echolang/echo/internal/object"
)

// binaryArith implements the handful of built-in numeric/string/sequence
// operators the dispatch loop needs inline, falling back to the operand's
// __add__-style dunder via GetAttr+DoCall for boxed objects (spec §4.3
// "Binary operators consult dunder methods before failing").
func binaryArith(ctx *object.Context, op Opcode, a, b object.Value) (object.Value, *object.Exception) {
	if _, ok := a.(object.EchoObject); ok {
		return dunderBinary(ctx, op, a, b)
	}
	switch op {
	case BINARY_ADD:
		if as, ok := a.(string); ok {
			if bs, ok := b.(string); ok {
				return as + bs, nil
			}
		}
		if at, ok := a.(object.Tuple); ok {
			if bt, ok := b.(object.Tuple); ok {
				return append(append(object.Tuple{}, at...), bt...), nil
			}
		}
		return numOp(a, b, func(x, y int64) (object.Value, bool) { return x + y, true },
			func(x, y float64) object.Value { return x + y })
	case BINARY_SUBTRACT:
		return numOp(a, b, func(x, y int64) (object.Value, bool) { return x - y, true },
			func(x, y float64) object.Value { return x - y })
	case BINARY_MULTIPLY:
		return numOp(a, b, func(x, y int64) (object.Value, bool) { return x * y, true },
			func(x, y float64) object.Value { return x * y })
	case BINARY_TRUE_DIVIDE:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if aok && bok {
			if bf == 0 {
				return nil, object.NewException(object.TypeErrorType, "division by zero")
			}
			return af / bf, nil
		}
	case BINARY_FLOOR_DIVIDE:
		return numOp(a, b, func(x, y int64) (object.Value, bool) {
			if y == 0 {
				return nil, false
			}
			q := x / y
			if (x%y != 0) && ((x < 0) != (y < 0)) {
				q--
			}
			return q, true
		}, func(x, y float64) object.Value { return x / y })
	case BINARY_MODULO:
		if as, ok := a.(string); ok {
			return fmt.Sprintf(as, b), nil
		}
		return numOp(a, b, func(x, y int64) (object.Value, bool) {
			if y == 0 {
				return nil, false
			}
			m := x % y
			if m != 0 && ((m < 0) != (y < 0)) {
				m += y
			}
			return m, true
		}, func(x, y float64) object.Value { return x - y*float64(int64(x/y)) })
	case BINARY_POWER:
		return powOp(a, b)
	case BINARY_LSHIFT:
		return intOp(a, b, func(x, y int64) int64 { return x << uint(y) })
	case BINARY_RSHIFT:
		return intOp(a, b, func(x, y int64) int64 { return x >> uint(y) })
	case BINARY_AND:
		if ab, ok := a.(bool); ok {
			if bb, ok := b.(bool); ok {
				return ab && bb, nil
			}
		}
		return intOp(a, b, func(x, y int64) int64 { return x & y })
	case BINARY_OR:
		if ab, ok := a.(bool); ok {
			if bb, ok := b.(bool); ok {
				return ab || bb, nil
			}
		}
		return intOp(a, b, func(x, y int64) int64 { return x | y })
	case BINARY_XOR:
		return intOp(a, b, func(x, y int64) int64 { return x ^ y })
	}
	return dunderBinary(ctx, op, a, b)
}

func toFloat(v object.Value) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

func numOp(a, b object.Value, ints func(x, y int64) (object.Value, bool), floats func(x, y float64) object.Value) (object.Value, *object.Exception) {
	ai, aIsInt := a.(int64)
	bi, bIsInt := b.(int64)
	if aIsInt && bIsInt {
		v, ok := ints(ai, bi)
		if !ok {
			return nil, object.NewException(object.ValueErrorType, "division by zero")
		}
		return v, nil
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return floats(af, bf), nil
	}
	return nil, object.NewException(object.TypeErrorType, "unsupported operand type(s)")
}

func intOp(a, b object.Value, f func(x, y int64) int64) (object.Value, *object.Exception) {
	ai, aok := a.(int64)
	bi, bok := b.(int64)
	if !aok || !bok {
		return nil, object.NewException(object.TypeErrorType, "unsupported operand type(s)")
	}
	return f(ai, bi), nil
}

func powOp(a, b object.Value) (object.Value, *object.Exception) {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return nil, object.NewException(object.TypeErrorType, "unsupported operand type(s)")
	}
	result := 1.0
	if bi, ok := b.(int64); ok && bi >= 0 {
		for i := int64(0); i < bi; i++ {
			result *= af
		}
		if _, aIsInt := a.(int64); aIsInt {
			return int64(result), nil
		}
		return result, nil
	}
	// Negative/fractional exponents always yield float, matching the
	// reference's int**int-negative-exponent-promotes-to-float behavior.
	return math.Pow(af, bf), nil
}

// dunderBinary dispatches to the left operand's dunder method; binaryArith
// calls it for a boxed left operand, and for operand pairs the inline fast
// paths above do not handle.
func dunderBinary(ctx *object.Context, op Opcode, a, b object.Value) (object.Value, *object.Exception) {
	name, ok := dunderNames[op]
	if !ok {
		return nil, object.NewException(object.TypeErrorType, "unsupported operand type(s)")
	}
	method, exc := object.DoGetAttr(ctx, a, name)
	if exc != nil {
		return nil, exc
	}
	return ctx.Call(method, []object.Value{b}, nil)
}

var dunderNames = map[Opcode]string{
	BINARY_ADD: "__add__", BINARY_SUBTRACT: "__sub__", BINARY_MULTIPLY: "__mul__",
	BINARY_TRUE_DIVIDE: "__truediv__", BINARY_FLOOR_DIVIDE: "__floordiv__",
	BINARY_MODULO: "__mod__", BINARY_POWER: "__pow__",
	BINARY_LSHIFT: "__lshift__", BINARY_RSHIFT: "__rshift__",
	BINARY_AND: "__and__", BINARY_OR: "__or__", BINARY_XOR: "__xor__",
}

// compare implements COMPARE_OP's operand table: 0 <, 1 <=, 2 ==, 3 !=,
// 4 >, 5 >=, matching the reference's cmp_op tuple positions.
func compare(ctx *object.Context, kind int, a, b object.Value) (object.Value, *object.Exception) {
	if kind == 2 || kind == 3 {
		eq := valuesEqual(a, b)
		if kind == 3 {
			eq = !eq
		}
		return eq, nil
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch kind {
		case 0:
			return af < bf, nil
		case 1:
			return af <= bf, nil
		case 4:
			return af > bf, nil
		case 5:
			return af >= bf, nil
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			switch kind {
			case 0:
				return as < bs, nil
			case 1:
				return as <= bs, nil
			case 4:
				return as > bs, nil
			case 5:
				return as >= bs, nil
			}
		}
	}
	return nil, object.NewException(object.TypeErrorType, "unorderable types")
}

func valuesEqual(a, b object.Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b) && object.DoType(a) == object.DoType(b)
}
