// Package encode serializes document trees back to text.
//
// Encode writes the YAML form of a subtree: block style by default, flow
// style for nodes flagged tree.Flow, quoting per node flags or wherever the
// scalar text demands it, with tags, anchors and aliases reproduced as
// flagged. EncodeFormat(format.JSONFormat) selects compact JSON output
// instead, in which tags, anchors and aliases are errors.
//
// EncodeColors enables ANSI-colored output for terminals.
package encode
