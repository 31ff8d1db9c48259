// Package debug exposes env-flag gated debug switches for the document
// packages. Set YDOC_DEBUG_PARSE=1 or YDOC_DEBUG_RESOLVE=1 to get traces on
// stderr.
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Parse   bool
	Resolve bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("YDOC_DEBUG_PARSE")
	d.Resolve = boolEnv("YDOC_DEBUG_RESOLVE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Resolve() bool {
	return d.Resolve
}
