// Package diag provides the small set of conditional trace channels the
// interpreter writes to stderr, each gated by its own environment variable
// (see internal/config) rather than a single global verbosity level --
// matching the reference implementation's independent DEBUG_PRINT_* switches.
package diag

import (
	"fmt"
	"os"
	"strings"

	"github.com/echolang/echo/internal/config"
)

// Imports traces the import subsystem: module search, cache hits/misses,
// and fromlist resolution, indented by the current import depth.
func Imports(depth int, format string, args ...interface{}) {
	if !config.DebugPrintImports() {
		return
	}
	fmt.Fprintf(os.Stderr, "%s[import] %s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

// BytecodeLine traces one evaluator instruction as it executes.
func BytecodeLine(frameName string, lasti int, op string) {
	if !config.DebugPrintBytecodeLine() {
		return
	}
	fmt.Fprintf(os.Stderr, "[%s:%d] %s\n", frameName, lasti, op)
}

// Dump prints a free-form debug message, gated on ECHO_DEBUG.
func Dump(format string, args ...interface{}) {
	if !config.Debug() {
		return
	}
	fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", args...)
}
