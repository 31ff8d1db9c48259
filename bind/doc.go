// Package bind is the typed access layer over parsed documents.
//
// A RootReader parses a document, resolves its anchors and aliases, and
// hands out Reader cursors. Readers navigate by key or position and decode
// scalars through the generic Read family: absence yields an invalid
// cursor (or a caller default), while present data that fails to decode is
// always an error, located when the document tracks locations.
//
// A RootWriter builds a document node by node; Writer cursors mirror the
// Reader surface with WriteVal, WriteChild, WriteSeq and WritePair, and
// Emit serializes the result. ToReader closes the loop for in-memory
// round trips.
//
// Scalars decode via a fixed set of built-in types plus the TextDecoder /
// TextEncoder interfaces, falling back to encoding.TextUnmarshaler and
// encoding.TextMarshaler.
package bind
