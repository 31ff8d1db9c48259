// Package resolve expands anchors and aliases in a document tree.
//
// An alias node (*name) resolves to the most recent node carrying the
// anchor &name in serialization order (depth-first pre-order), per the YAML
// rule that an alias refers to the most recent anchor preceding it. The
// resolver works in two passes:
//
//  1. Gather: one pre-order traversal collects every anchor and alias into
//     a flat entry list, chaining entries that share an anchor name.
//  2. Resolve: alias entries are processed in gather order; each one deep
//     copies its matched anchor's subtree and splices the copy into the
//     alias's slot, keeping the alias's own key.
//
// Because copies can themselves contain anchors, a document can amplify
// super-linearly ("billion laughs"). Resolve enforces an expansion budget
// (WithMaxExpansion, default DefaultMaxExpansion) and fails with
// ErrExpansion when it is exceeded. An alias with no preceding same-named
// anchor fails with ErrRefNotFound.
package resolve
