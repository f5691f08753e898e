package parser

import (
	"github.com/alecthomas/repr"
)

// MaxASTDumpBytes caps the show_ast diagnostic output so a pathological
// or very large parse tree can't flood a CLI invocation's stdout.
const MaxASTDumpBytes = 1 << 20 // 1 MiB

// Dump renders a parse tree node as an indented Go-literal-like tree,
// the same textual shape the teacher's querydump.go produces for its
// own document tree, truncated to MaxASTDumpBytes.
func Dump(n Node) string {
	s := repr.String(n, repr.Indent("  "), repr.OmitEmpty(true))
	if len(s) > MaxASTDumpBytes {
		return s[:MaxASTDumpBytes] + "\n... (truncated)"
	}
	return s
}
