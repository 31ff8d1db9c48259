// Package token provides source positions and scalar text handling shared
// by the parser and the encoder: byte-offset to line/column conversion,
// quoted-scalar escaping and unescaping, and the quoting rules that keep
// emitted scalars round-trip safe.
package token
