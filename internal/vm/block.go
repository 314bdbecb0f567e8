package vm

import "github.com/echolang/echo/internal/object"

// BlockKind is the kind of entry pushed onto a frame's block stack by
// SETUP_EXCEPT/SETUP_FINALLY/SETUP_LOOP, or synthesized around an active
// exception handler (spec §4.3 "Block stack").
type BlockKind int

const (
	BlockExceptHandler BlockKind = iota
	BlockSetupLoop
	BlockSetupExcept
	BlockSetupFinally
)

// BlockEntry records where control resumes if this block is unwound into,
// and how far to pop the value stack back to first. PrevExc is set only on
// a BlockExceptHandler entry: the exception that was active before this
// handler took over, restored by POP_EXCEPT when the handler completes --
// spec §4.3 step 2 pushes the full (old tb/value/type, new tb/value/type)
// sextuple onto the value stack for this purpose; this evaluator instead
// carries a single *Exception per handler frame and threads the
// "old" side through this field rather than the value stack (see
// DESIGN.md "Still open").
type BlockEntry struct {
	Kind       BlockKind
	Handler    int
	StackLevel int
	PrevExc    *object.Exception
}
