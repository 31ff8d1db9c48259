package bind

import (
	"bytes"
	"encoding/base64"
	"strings"

	"github.com/yamldoc/go-yamldoc/encode"
	"github.com/yamldoc/go-yamldoc/token"
	"github.com/yamldoc/go-yamldoc/tree"
)

// Writer is a cursor for building one node of a document. Like Reader,
// writers are values; navigation returns new cursors over the shared tree.
type Writer struct {
	t  *tree.Tree
	id tree.ID
}

// RootWriter owns a document tree under construction and is the root
// Writer over it.
type RootWriter struct {
	Writer
}

type writerOpts struct {
	hint int
}

type WriterOption func(*writerOpts)

// WithWriterCapacity pre-sizes the node arena for documents of known
// magnitude.
func WithWriterCapacity(n int) WriterOption {
	return func(o *writerOpts) { o.hint = n }
}

// NewRootWriter returns a writer over a fresh document with an empty root.
func NewRootWriter(opts ...WriterOption) *RootWriter {
	var o writerOpts
	for _, opt := range opts {
		opt(&o)
	}
	t := tree.New(o.hint)
	return &RootWriter{Writer: Writer{t: t, id: t.Root()}}
}

func (w Writer) Valid() bool {
	return w.t != nil && w.id != tree.None
}

// Write appends an unkeyed child and returns its cursor, marking the
// current node as a sequence.
func (w Writer) Write() Writer {
	w.t.AddFlags(w.id, tree.Seq)
	return Writer{t: w.t, id: w.t.AppendChild(w.id)}
}

// Child appends a keyed child and returns its cursor, marking the current
// node as a mapping. Keys that parse ambiguously are flagged for quoting.
func (w Writer) Child(key string) Writer {
	w.t.AddFlags(w.id, tree.Map)
	id := w.t.AppendChild(w.id)
	w.t.SetKey(id, key)
	if token.NeedsKeyQuote(key) || token.Ambiguous(key) {
		w.t.AddFlags(id, tree.KeyQuoted)
	}
	return Writer{t: w.t, id: id}
}

func (w Writer) SetAsMap()   { w.t.AddFlags(w.id, tree.Map) }
func (w Writer) SetAsSeq()   { w.t.AddFlags(w.id, tree.Seq) }
func (w Writer) UnsetAsMap() { w.t.RemoveFlags(w.id, tree.Map) }
func (w Writer) UnsetAsSeq() { w.t.RemoveFlags(w.id, tree.Seq) }

// SetFlowStyle renders the node's container inline ({...} or [...]).
func (w Writer) SetFlowStyle()  { w.t.AddFlags(w.id, tree.Flow) }
func (w Writer) SetBlockStyle() { w.t.RemoveFlags(w.id, tree.Flow) }

// SetAsQuoted forces the node's scalar to be emitted quoted.
func (w Writer) SetAsQuoted() { w.t.AddFlags(w.id, tree.ValQuoted) }

// SetValTag sets the node's tag, including the leading "!".
func (w Writer) SetValTag(tag string) { w.t.SetValTag(w.id, tag) }

// SaveString copies s into the document's text arena and returns the
// arena-owned copy, whose lifetime is the document's.
func (w Writer) SaveString(s string) string {
	return w.t.SaveString(s)
}

// WriteBase64 appends a keyed child holding data encoded as standard
// base64.
func (w Writer) WriteBase64(key string, data []byte) Writer {
	c := w.Child(key)
	s := base64.StdEncoding.EncodeToString(data)
	c.t.SetVal(c.id, s)
	if token.NeedsQuote(s) || token.Ambiguous(s) {
		c.t.AddFlags(c.id, tree.ValQuoted)
	}
	return c
}

// Emit serializes the node's value and descendants to text.
func (w Writer) Emit(opts ...encode.EncodeOption) (string, error) {
	if !w.Valid() {
		return "", ErrInvalidNode
	}
	var buf bytes.Buffer
	if err := encode.Encode(w.t, w.id, &buf, opts...); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// ToReader returns a read cursor over the node as built so far. The
// resulting readers share the writer's tree and track no locations.
func (w Writer) ToReader() Reader {
	if !w.Valid() {
		return Reader{}
	}
	return Reader{doc: &docState{t: w.t}, id: w.id}
}

// WriteVal sets the node's value to the scalar form of v, quoting where
// the text would otherwise re-parse as a different type.
func WriteVal[T any](w Writer, v T) error {
	if !w.Valid() {
		return ErrInvalidNode
	}
	s, quoted, err := encodeText(v)
	if err != nil {
		return err
	}
	w.t.SetVal(w.id, s)
	if quoted {
		w.t.AddFlags(w.id, tree.ValQuoted)
	}
	return nil
}

// WriteElem appends a scalar element to the current sequence node.
func WriteElem[T any](w Writer, v T) (Writer, error) {
	c := w.Write()
	if err := WriteVal(c, v); err != nil {
		return Writer{}, err
	}
	return c, nil
}

// WriteChild appends a keyed scalar child to the current mapping node.
func WriteChild[T any](w Writer, key string, v T) (Writer, error) {
	c := w.Child(key)
	if err := WriteVal(c, v); err != nil {
		return Writer{}, err
	}
	return c, nil
}

// WriteSeq appends a keyed sequence child populated from elems. When fn is
// nil the elements are written as scalars; otherwise fn builds each
// element into a fresh child cursor. Empty slices write nothing and
// return an invalid cursor.
func WriteSeq[T any](w Writer, key string, elems []T, fn func(Writer, T) error) (Writer, error) {
	if len(elems) == 0 {
		return Writer{}, nil
	}
	c := w.Child(key)
	c.SetAsSeq()
	for _, e := range elems {
		if fn == nil {
			if _, err := WriteElem(c, e); err != nil {
				return Writer{}, err
			}
			continue
		}
		if err := fn(c.Write(), e); err != nil {
			return Writer{}, err
		}
	}
	return c, nil
}

// WritePair renders the current node as a two-element flow sequence
// [a, b].
func WritePair[A, B any](w Writer, a A, b B) error {
	if !w.Valid() {
		return ErrInvalidNode
	}
	w.SetAsSeq()
	w.SetFlowStyle()
	if _, err := WriteElem(w, a); err != nil {
		return err
	}
	if _, err := WriteElem(w, b); err != nil {
		return err
	}
	return nil
}
