package object

import (
	"fmt"
	"os"
	"strings"
)

// Tuple and List are the native container Values (spec's "native-Python
// value" side of the object model, as opposed to boxed EchoObjects).
type Tuple []Value
type List []Value

// Dict is an insertion-ordered string-keyed... no -- guest dicts key on
// arbitrary hashable Values, so it keeps parallel slices rather than a bare
// Go map, preserving iteration order the way the reference language's dict
// does.
type Dict struct {
	keys   []Value
	values map[string]Value // keyed by a normalized repr of the key; adequate for the hashable primitives echo supports
	order  []string
}

func NewDict() *Dict {
	return &Dict{values: map[string]Value{}}
}

func dictKey(k Value) string { return fmt.Sprintf("%T:%v", k, k) }

func (d *Dict) Get(k Value) (Value, bool) {
	v, ok := d.values[dictKey(k)]
	return v, ok
}

func (d *Dict) Set(k, v Value) {
	dk := dictKey(k)
	if _, exists := d.values[dk]; !exists {
		d.keys = append(d.keys, k)
		d.order = append(d.order, dk)
	}
	d.values[dk] = v
}

func (d *Dict) Delete(k Value) bool {
	dk := dictKey(k)
	if _, ok := d.values[dk]; !ok {
		return false
	}
	delete(d.values, dk)
	for i, kk := range d.order {
		if kk == dk {
			d.order = append(d.order[:i], d.order[i+1:]...)
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	return true
}

func (d *Dict) Len() int { return len(d.keys) }

func (d *Dict) Keys() []Value { return append([]Value{}, d.keys...) }

// Set is a mutable, insertion-ordered collection keyed the same way Dict
// normalizes its keys -- echo's set literal/comprehension target (BUILD_SET,
// SET_ADD).
type Set struct {
	items []Value
	seen  map[string]struct{}
}

func NewSet() *Set {
	return &Set{seen: map[string]struct{}{}}
}

func (s *Set) Add(v Value) {
	k := dictKey(v)
	if _, ok := s.seen[k]; ok {
		return
	}
	s.seen[k] = struct{}{}
	s.items = append(s.items, v)
}

func (s *Set) Contains(v Value) bool {
	_, ok := s.seen[dictKey(v)]
	return ok
}

func (s *Set) Len() int { return len(s.items) }

func (s *Set) Items() []Value { return append([]Value{}, s.items...) }

// EPrefix returns the configured prefix used in diagnostic repr strings for
// built-in types, e.g. "<eclass 'int'>" (spec §6 "E_PREFIX", defaulting to
// "e").
func EPrefix() string {
	if v := os.Getenv("E_PREFIX"); v != "" {
		return v
	}
	return "e"
}

// Str renders v the way the evaluator's STR/repr builtins do for
// diagnostics and for str()/format() on guest values.
func Str(v Value) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int64:
		return fmt.Sprintf("%d", x)
	case float64:
		return fmt.Sprintf("%g", x)
	case string:
		return x
	case Tuple:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = Str(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *List:
		parts := make([]string, len(*x))
		for i, e := range *x {
			parts[i] = Str(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Set:
		items := x.Items()
		parts := make([]string, len(items))
		for i, e := range items {
			parts[i] = Str(e)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// NewStr is a tiny readability alias: guest strings are plain Go strings.
func NewStr(s string) Value { return s }

// IsTrue implements Python-style truthiness used by POP_JUMP_IF_FALSE and
// friends.
func IsTrue(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	case Tuple:
		return len(x) != 0
	case *List:
		return len(*x) != 0
	case *Dict:
		return x.Len() != 0
	case *Set:
		return x.Len() != 0
	default:
		return true
	}
}
