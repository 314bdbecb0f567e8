// Package imports implements the import subsystem (spec §4.5): locating a
// module by dotted name along the search path, ascending for relative
// imports, inserting a module into the cache before its body executes so
// circular imports observe a partially-initialized module instead of
// recursing forever, and resolving a fromlist.
package imports

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/echolang/echo/internal/config"
	"github.com/echolang/echo/internal/diag"
	"github.com/echolang/echo/internal/object"
)

// Loader loads a named module's Code object from disk. internal/vm supplies
// the concrete implementation (compiling or deserializing a source file);
// this package only needs the seam so it stays free of a vm dependency.
type Loader func(ctx *object.Context, filename string) (*object.Code, map[string]object.Value, *object.Exception)

// Resolver drives module search, relative-import ascension, and fromlist
// resolution against a Context's module cache.
type Resolver struct {
	Load Loader
	mu   sync.Mutex
}

func NewResolver(load Loader) *Resolver { return &Resolver{Load: load} }

// Import implements IMPORT_NAME: locate (or reuse, from ctx.Modules) the
// named module, ascending level dots for relative imports from pkgPath,
// and execute its body exactly once.
func (r *Resolver) Import(ctx *object.Context, name string, pkgPath string, level int) (*object.Module, *object.Exception) {
	fqn := r.resolveName(name, pkgPath, level)
	if m, ok := ctx.Modules[fqn]; ok {
		diag.Imports(ctx.ImportDepth, "cache hit %s", fqn)
		return m, nil
	}

	file, exc := r.find(ctx, fqn)
	if exc != nil {
		return nil, exc
	}

	mod := object.NewModule(fqn, file, map[string]object.Value{})
	// Insert into the cache BEFORE running the body: a circular import that
	// re-enters Import for fqn sees this (still-initializing) module
	// instead of looping.
	ctx.Modules[fqn] = mod
	diag.Imports(ctx.ImportDepth, "loading %s from %s", fqn, file)

	ctx.ImportDepth++
	defer func() { ctx.ImportDepth-- }()

	_, globals, ldExc := r.Load(ctx, file)
	if ldExc != nil {
		delete(ctx.Modules, fqn)
		return nil, ldExc
	}
	for k, v := range globals {
		mod.Globals[k] = v
	}
	return mod, nil
}

// ImportFrom implements IMPORT_FROM: fetch one name out of an
// already-imported module, or fail with the reference's exact message
// shape when the name is absent (spec §4.5 "ImportError message").
func (r *Resolver) ImportFrom(ctx *object.Context, mod *object.Module, name string) (object.Value, *object.Exception) {
	if v, exc := mod.GetAttr(ctx, name); exc == nil {
		return v, nil
	}
	// A "from package import submodule" where submodule hasn't been
	// imported as an attribute yet: try importing it as mod.name.
	if sub, exc := r.Import(ctx, mod.FQN+"."+name, "", 0); exc == nil {
		return sub, nil
	}
	return nil, object.NewException(object.ImportErrorType,
		"cannot import name %s from %s (unknown location)", name, mod.FQN)
}

// FromList resolves every name in names against mod concurrently --
// each lookup is independent, so the wait group just needs to report the
// first failure.
func (r *Resolver) FromList(ctx *object.Context, mod *object.Module, names []string) (map[string]object.Value, *object.Exception) {
	results := make([]object.Value, len(names))
	var g errgroup.Group
	for i, n := range names {
		i, n := i, n
		g.Go(func() error {
			v, exc := r.ImportFrom(ctx, mod, n)
			if exc != nil {
				return exc
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if exc, ok := err.(*object.Exception); ok {
			return nil, exc
		}
		return nil, object.NewException(object.ImportErrorType, "%s", err.Error())
	}
	out := map[string]object.Value{}
	for i, n := range names {
		out[n] = results[i]
	}
	return out, nil
}

// resolveName turns a possibly-relative import (level>0) into a fully
// qualified dotted name by ascending level-1 components of pkgPath (spec
// §4.5 "relative import level-based ascension").
func (r *Resolver) resolveName(name, pkgPath string, level int) string {
	if level == 0 {
		return name
	}
	parts := strings.Split(pkgPath, ".")
	if level-1 > len(parts) {
		level = len(parts) + 1
	}
	base := parts
	if level-1 > 0 {
		base = parts[:len(parts)-(level-1)]
	}
	if name == "" {
		return strings.Join(base, ".")
	}
	return strings.Join(append(append([]string{}, base...), name), ".")
}

func (r *Resolver) find(ctx *object.Context, fqn string) (string, *object.Exception) {
	rel := strings.ReplaceAll(fqn, ".", string(filepath.Separator))
	for _, dir := range ctx.SearchPaths {
		for _, ext := range config.SourceFileExtensions {
			candidate := filepath.Join(dir, rel+ext)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		pkgInit := filepath.Join(dir, rel, "__init__"+config.SourceFileExt)
		if _, err := os.Stat(pkgInit); err == nil {
			return pkgInit, nil
		}
	}
	return "", object.NewException(object.ImportErrorType, "No module named '%s'", fqn)
}
