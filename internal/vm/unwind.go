package vm

import "github.com/echolang/echo/internal/object"

// unwind implements spec §4.3's WhyStatus-style unwinding for an escaped
// exception: walk the block stack from the top looking for a handler that
// wants to see it. SETUP_EXCEPT and SETUP_FINALLY both qualify; a
// SETUP_LOOP block is popped and skipped (exceptions pass through loops
// without executing a break/continue path). Returns (exc, true) with the
// frame's PC already moved to the handler when one is found, or
// (exc, false) when the exception must propagate out of this frame
// entirely.
func (f *Frame) unwind(exc *object.Exception) (*object.Exception, bool) {
	for len(f.Blocks) > 0 {
		b := f.popBlock()
		f.unwindTo(b.StackLevel)
		switch b.Kind {
		case BlockSetupLoop:
			continue
		case BlockSetupExcept, BlockSetupFinally:
			prevExc := f.activeExc
			f.activeExc = exc
			f.Blocks = append(f.Blocks, BlockEntry{
				Kind: BlockExceptHandler, StackLevel: len(f.Stack), PrevExc: prevExc,
			})
			f.push(exc)
			f.PC = b.Handler
			return exc, true
		case BlockExceptHandler:
			continue
		}
	}
	return exc, false
}

// doBreak implements BREAK_LOOP: unwind the block stack up to and
// including the nearest SETUP_LOOP entry, then resume after the loop.
func (f *Frame) doBreak() *object.Exception {
	for len(f.Blocks) > 0 {
		b := f.popBlock()
		f.unwindTo(b.StackLevel)
		if b.Kind == BlockSetupLoop {
			f.PC = b.Handler
			return nil
		}
	}
	return object.NewException(object.TypeErrorType, "'break' outside loop")
}
