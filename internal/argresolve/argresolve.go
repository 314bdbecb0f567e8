// Package argresolve implements the call argument resolver (spec §4.1):
// binding a caller's positional and keyword arguments, plus the callee's
// declared defaults, into the callee's ordered local-slot array.
package argresolve

import (
	"fmt"
	"strings"

	"github.com/echolang/echo/internal/object"
)

type sentinel struct{}

// unbound is the slot sentinel used before a slot is populated, distinct
// from any guest-visible nil/None value.
var unbound = sentinel{}

// Resolve implements spec §4.1's algorithm exactly, including its slot
// layout (positional/kwonly mixed, then *args, then **kwargs) and its
// TypeError message shapes.
func Resolve(attrs object.Attributes, args []object.Value, kwargs map[string]object.Value,
	defaults []object.Value, kwDefaults map[string]object.Value) ([]object.Value, int, *object.Exception) {

	total := attrs.TotalArgcount()
	slots := make([]object.Value, total)
	for i := range slots {
		slots[i] = unbound
	}
	starargIdx := attrs.StarargIndex()
	starkwargIdx := attrs.StarkwargIndex()
	if attrs.StarArgs {
		slots[starargIdx] = object.Tuple{}
	}
	if attrs.StarKwargs {
		slots[starkwargIdx] = object.NewDict()
	}

	maxPositional := total - attrs.KwOnlyArgcount
	if attrs.StarKwargs {
		maxPositional--
	}
	if !attrs.StarArgs && len(args) > maxPositional {
		return nil, 0, tooManyPositional(attrs.Name, maxPositional, len(args))
	}

	// Keyword-only arguments must be satisfiable from kwargs or kwDefaults.
	var missingKwonly []string
	for i := 0; i < attrs.KwOnlyArgcount; i++ {
		name := attrs.Varnames[attrs.Argcount+i]
		if _, ok := kwargs[name]; ok {
			continue
		}
		if _, ok := kwDefaults[name]; ok {
			continue
		}
		missingKwonly = append(missingKwonly, name)
	}
	if len(missingKwonly) > 0 {
		return nil, 0, missingArgs(attrs.Name, missingKwonly, "keyword-only")
	}

	// Positional args, in order.
	starTuple := object.Tuple{}
	for i, a := range args {
		if i < attrs.Argcount {
			slots[i] = a
			continue
		}
		if attrs.StarArgs {
			starTuple = append(starTuple, a)
			continue
		}
		// Shouldn't happen: covered by tooManyPositional above unless
		// argcount < i < maxPositional, which only occurs with kwonly
		// params -- those are never filled positionally.
		slots[i] = a
	}
	if attrs.StarArgs {
		slots[starargIdx] = starTuple
	}

	// kwarg-defaults merged under explicit kwargs (explicit wins).
	merged := map[string]object.Value{}
	for k, v := range kwDefaults {
		merged[k] = v
	}
	for k, v := range kwargs {
		merged[k] = v
	}
	var extraKwargs *object.Dict
	if attrs.StarKwargs {
		if d, ok := slots[starkwargIdx].(*object.Dict); ok {
			extraKwargs = d
		}
	}
	for name, v := range merged {
		idx := paramIndex(attrs, name)
		if idx >= 0 {
			slots[idx] = v
			continue
		}
		if extraKwargs != nil {
			extraKwargs.Set(object.NewStr(name), v)
			continue
		}
		return nil, 0, &object.Exception{Type: object.TypeErrorType, Parameter: object.NewStr(
			fmt.Sprintf("%s() got an unexpected keyword argument '%s'", attrs.Name, name))}
	}

	// Positional defaults fill remaining sentinel slots, right-aligned to
	// the parameters that precede *args/kwonly.
	posParamCount := attrs.Argcount
	for i, def := range defaults {
		slot := posParamCount - len(defaults) + i
		if slot >= 0 && slot < posParamCount && slots[slot] == unbound {
			slots[slot] = def
		}
	}

	var missingPositional []string
	for i := 0; i < posParamCount; i++ {
		if slots[i] == unbound {
			missingPositional = append(missingPositional, attrs.Varnames[i])
		}
	}
	if len(missingPositional) > 0 {
		return nil, 0, missingArgs(attrs.Name, missingPositional, "positional")
	}

	return slots, attrs.Nlocals - total, nil
}

func paramIndex(attrs object.Attributes, name string) int {
	for i := 0; i < attrs.Argcount+attrs.KwOnlyArgcount; i++ {
		if attrs.Varnames[i] == name {
			return i
		}
	}
	return -1
}

func tooManyPositional(name string, max, got int) *object.Exception {
	wasWere := "was"
	if got != 1 {
		wasWere = "were"
	}
	msg := fmt.Sprintf("%s() takes %d positional arguments but %d %s given", name, max, got, wasWere)
	return &object.Exception{Type: object.TypeErrorType, Parameter: object.NewStr(msg)}
}

func missingArgs(name string, names []string, kind string) *object.Exception {
	plural := ""
	if len(names) != 1 {
		plural = "s"
	}
	msg := fmt.Sprintf("%s() missing %d required %s argument%s: %s", name, len(names), kind, plural, joinNames(names))
	if kind == "keyword-only" {
		msg = fmt.Sprintf("%s() missing %d required keyword-only argument%s: %s", name, len(names), plural, joinNames(names))
	}
	return &object.Exception{Type: object.TypeErrorType, Parameter: object.NewStr(msg)}
}

// joinNames renders names Oxford-comma style: "'a'", "'a' and 'b'", "'a',
// 'b', and 'c'" -- matching the reference's _arg_join helper.
func joinNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	case 2:
		return quoted[0] + " and " + quoted[1]
	default:
		return strings.Join(quoted[:len(quoted)-1], ", ") + ", and " + quoted[len(quoted)-1]
	}
}
