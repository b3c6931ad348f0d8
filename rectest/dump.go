package rectest

import "github.com/alecthomas/repr"

// Dump renders v as a fully-expanded Go literal, for assertion failure
// messages where %+v's flat output is too hard to read (nested field
// slices, schema structs).
func Dump(v interface{}) string {
	return repr.String(v, repr.Indent("  "))
}
