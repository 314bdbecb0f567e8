package vm

import "github.com/echolang/echo/internal/object"

// doImport implements IMPORT_NAME/IMPORT_FROM/IMPORT_STAR by delegating to
// the object.Context's Importer/FromListResolver seam (populated by
// internal/imports at startup), keeping this package's only coupling to
// the import subsystem through that narrow interface.
func (f *Frame) doImport(ctx *object.Context, op Opcode, arg int) (object.Value, why, *object.Exception) {
	width := op.InstrWidth()
	switch op {
	case IMPORT_NAME:
		fromlist := f.pop()
		level := f.pop()
		lvl := 0
		if li, ok := level.(int64); ok {
			lvl = int(li)
		}
		var names []string
		if t, ok := fromlist.(object.Tuple); ok {
			for _, n := range t {
				names = append(names, object.Str(n))
			}
		}
		mod, exc := ctx.Importer(ctx, f.Code.Names[arg], f.pkgPath(), lvl)
		if exc != nil {
			return nil, whyException, exc
		}
		if len(names) > 0 {
			if _, exc := ctx.FromListResolver(ctx, mod, names); exc != nil {
				return nil, whyException, exc
			}
		}
		f.push(mod)
	case IMPORT_FROM:
		mod := f.top().(*object.Module)
		resolved, rexc := importFromName(ctx, mod, f.Code.Names[arg])
		if rexc != nil {
			return nil, whyException, rexc
		}
		f.push(resolved)
	case IMPORT_STAR:
		mod := f.pop().(*object.Module)
		for k, val := range mod.Globals {
			if len(k) > 0 && k[0] == '_' {
				continue
			}
			f.storeName(k, val)
		}
	}
	f.PC += width
	return nil, whyNone, nil
}

// pkgPath reports the dotted package path of the module owning this frame,
// used to resolve relative imports; module-level frames store it on Code.Name.
func (f *Frame) pkgPath() string { return f.Code.Name }

// importFromName is wired to the same resolver the Resolver.ImportFrom
// method implements; internal/vm doesn't import internal/imports directly
// to avoid tying the evaluator to a concrete resolver, so this indirects
// through the module's own GetAttr plus the Context import seam for the
// submodule fallback.
func importFromName(ctx *object.Context, mod *object.Module, name string) (object.Value, *object.Exception) {
	if v, exc := mod.GetAttr(ctx, name); exc == nil {
		return v, nil
	}
	if sub, exc := ctx.Importer(ctx, mod.FQN+"."+name, "", 0); exc == nil {
		return sub, nil
	}
	return nil, object.NewException(object.ImportErrorType,
		"cannot import name %s from %s (unknown location)", name, mod.FQN)
}
