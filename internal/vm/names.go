package vm

import "github.com/echolang/echo/internal/object"

// loadName/storeName/deleteName implement LOAD_NAME/STORE_NAME/DELETE_NAME:
// ordinary frames resolve against globals then builtins; a frame running a
// class body (LocalsDict set by internal/object.BuildClass via
// CallWithLocals) resolves against that mapping first, matching the
// reference's distinction between fast-locals functions and the
// locals-as-dict semantics of class bodies (spec §4.3).
func (f *Frame) loadName(ctx *object.Context, name string) *object.Exception {
	if f.LocalsDict != nil {
		if v, ok := f.LocalsDict[name]; ok {
			f.push(v)
			return nil
		}
	}
	if v, ok := f.Globals[name]; ok {
		f.push(v)
		return nil
	}
	if v, ok := ctx.Builtins[name]; ok {
		f.push(v)
		return nil
	}
	return object.NewException(object.NameErrorType, "name '%s' is not defined", name)
}

func (f *Frame) storeName(name string, v object.Value) {
	if f.LocalsDict != nil {
		f.LocalsDict[name] = v
		return
	}
	f.Globals[name] = v
}

func (f *Frame) deleteName(name string) {
	if f.LocalsDict != nil {
		delete(f.LocalsDict, name)
		return
	}
	delete(f.Globals, name)
}
