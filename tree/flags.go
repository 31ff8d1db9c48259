package tree

import "strings"

// Flags is the composable type tag of a node. Map, Seq and HasVal describe
// what the node is; the remaining bits carry key presence, style, and
// reference state.
type Flags uint16

const (
	HasKey Flags = 1 << iota
	HasVal
	Map
	Seq
	Flow
	KeyQuoted
	ValQuoted
	Alias
)

// styleFlags are the bits describing presentation rather than structure.
const styleFlags = Flow | KeyQuoted | ValQuoted

func (f Flags) String() string {
	var parts []string
	for _, e := range []struct {
		bit  Flags
		name string
	}{
		{HasKey, "HasKey"},
		{HasVal, "HasVal"},
		{Map, "Map"},
		{Seq, "Seq"},
		{Flow, "Flow"},
		{KeyQuoted, "KeyQuoted"},
		{ValQuoted, "ValQuoted"},
		{Alias, "Alias"},
	} {
		if f&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "|")
}
