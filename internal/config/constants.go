// Package config holds process-wide runtime configuration: environment
// variables, recognized source extensions, and small CLI-facing constants
// shared between cmd/echo and the interpreter packages.
package config

import "os"

// Version is the current echo version, set at build time via -ldflags.
var Version = "0.1.0"

const SourceFileExt = ".echo"

// SourceFileExtensions are the recognized compiled-code-object extensions
// echo will load from disk.
var SourceFileExtensions = []string{".echo", ".ecode"}

// TrimSourceExt removes any recognized source extension from a filename.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode indicates if the process is running under its own test suite,
// set once at startup.
var IsTestMode = false

// Debug flags, each read lazily from its environment variable so tests can
// set/unset os.Setenv without re-running init().

// Debug reports whether ECHO_DEBUG is set to a non-empty value.
func Debug() bool { return os.Getenv("ECHO_DEBUG") != "" }

// DumpInsts reports whether ECHO_DUMP_INSTS requests a disassembly dump of
// every code object as it is loaded.
func DumpInsts() bool { return os.Getenv("ECHO_DUMP_INSTS") != "" }

// DumpCode reports whether ECHO_DUMP_CODE requests a dump of raw code-object
// fields (names, consts, flags) as each is loaded.
func DumpCode() bool { return os.Getenv("ECHO_DUMP_CODE") != "" }

// DebugPrintImports reports whether DEBUG_PRINT_IMPORTS requests indented
// tracing of the import subsystem's module search and cache insertions.
func DebugPrintImports() bool { return os.Getenv("DEBUG_PRINT_IMPORTS") != "" }

// DebugPrintBytecodeLine reports whether DEBUG_PRINT_BYTECODE_LINE requests
// a per-instruction trace line during evaluation.
func DebugPrintBytecodeLine() bool { return os.Getenv("DEBUG_PRINT_BYTECODE_LINE") != "" }
