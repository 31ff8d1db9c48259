// Package tree provides the arena document tree for YAML-flavored
// documents.
//
// # Overview
//
// A Tree owns every node of one document. Nodes reference each other by
// integer id (tree.ID) into a single growable arena, never by pointer, and
// all key/value text lives in one shared text arena. This makes subtree
// duplication (as done by the reference resolver) free of lifetime and
// aliasing hazards: copies are appended to the arena and spliced in by id.
//
// # Node Shape
//
// A node's type is a composable flag set (tree.Flags):
//
//   - Map: children are keyed, uniquely among siblings
//   - Seq: children are unkeyed, order-significant
//   - HasVal: the node carries scalar value text
//   - HasKey: the node carries key text (it sits in a map)
//   - Flow, KeyQuoted, ValQuoted: presentation style
//   - Alias: the node stands for a same-named anchor (see package resolve)
//
// Construction is append-only: AppendChild adds nodes, SetKey/SetVal attach
// text, and nothing is ever removed from the arena. Unlinking (as done when
// the resolver splices a copy over an alias) leaves the original node
// harmlessly unreachable; it is dropped with the tree itself.
//
// # Lookup
//
// FindChild is a linear scan over a node's children. Callers doing repeated
// keyed lookups should use an indexed reader from the bind package, which
// builds a key index once per node.
//
// # Locations
//
// When EnableLocations is on, each node can record the byte offset it was
// parsed from; the bind package converts offsets to file/line/column
// diagnostics.
//
// # Related Packages
//
//   - github.com/yamldoc/go-yamldoc/parse - Parses text into trees
//   - github.com/yamldoc/go-yamldoc/resolve - Expands anchors and aliases
//   - github.com/yamldoc/go-yamldoc/bind - Typed reader/writer cursors
//   - github.com/yamldoc/go-yamldoc/encode - Encodes trees to text
package tree
