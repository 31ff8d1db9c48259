package bind

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/yamldoc/go-yamldoc/encode"
	"github.com/yamldoc/go-yamldoc/parse"
	"github.com/yamldoc/go-yamldoc/resolve"
	"github.com/yamldoc/go-yamldoc/token"
	"github.com/yamldoc/go-yamldoc/tree"
)

// Config carries document-level hooks. OnError, when set, is called for
// unrecoverable parse errors before they are returned.
type Config struct {
	OnError func(msg string, loc Location)
}

// docState is the per-document context shared by every Reader cursor.
type docState struct {
	t   *tree.Tree
	pd  *token.PosDoc
	cfg Config
}

// Reader is a lightweight cursor over one node of a parsed document. The
// zero Reader is invalid. Readers are values: navigation returns new
// cursors and never mutates the document.
type Reader struct {
	doc   *docState
	id    tree.ID
	index map[string]tree.ID
}

// RootReader owns a parsed, resolved document and is the root Reader over
// it.
type RootReader struct {
	Reader
}

type readerOpts struct {
	name         string
	locations    bool
	hint         int
	maxExpansion int
	cfg          Config
}

type ReaderOption func(*readerOpts)

// WithName sets the document name used in locations and error messages.
func WithName(name string) ReaderOption {
	return func(o *readerOpts) { o.name = name }
}

// WithLocations enables per-node source location tracking, at the cost of
// one offset per node.
func WithLocations() ReaderOption {
	return func(o *readerOpts) { o.locations = true }
}

// WithConfig installs document-level hooks.
func WithConfig(cfg Config) ReaderOption {
	return func(o *readerOpts) { o.cfg = cfg }
}

// WithCapacityHint pre-sizes the node arena for documents of known
// magnitude.
func WithCapacityHint(n int) ReaderOption {
	return func(o *readerOpts) { o.hint = n }
}

// WithMaxExpansion bounds the total number of nodes alias resolution may
// create.
func WithMaxExpansion(n int) ReaderOption {
	return func(o *readerOpts) { o.maxExpansion = n }
}

// NewRootReader parses d, resolves anchors and aliases, and returns the
// root cursor.
func NewRootReader(d []byte, opts ...ReaderOption) (*RootReader, error) {
	o := readerOpts{name: "yaml", maxExpansion: resolve.DefaultMaxExpansion}
	for _, opt := range opts {
		opt(&o)
	}
	// node offsets are relative to the input after BOM stripping; trim here
	// so the location index sees the same bytes the parser does
	d = bytes.TrimPrefix(d, []byte("\xEF\xBB\xBF"))
	doc := &docState{cfg: o.cfg}
	popts := []parse.Option{parse.WithName(o.name)}
	if o.locations {
		popts = append(popts, parse.WithLocations())
	}
	if o.hint > 0 {
		popts = append(popts, parse.WithCapacityHint(o.hint))
	}
	if o.cfg.OnError != nil {
		popts = append(popts, parse.WithErrorHandler(func(msg string, pos *token.Pos) {
			line, col := pos.LineCol()
			o.cfg.OnError(msg, Location{Name: o.name, Line: line, Col: col})
		}))
	}
	t, err := parse.Parse(d, popts...)
	if err != nil {
		return nil, err
	}
	if err := resolve.Resolve(t, resolve.WithMaxExpansion(o.maxExpansion)); err != nil {
		return nil, err
	}
	doc.t = t
	if o.locations {
		doc.pd = token.NewPosDoc(o.name, d)
	}
	return &RootReader{Reader: Reader{doc: doc, id: t.Root()}}, nil
}

func (r Reader) invalid() Reader {
	return Reader{doc: r.doc, id: tree.None}
}

// Valid reports whether the cursor points at a node. Reads on an invalid
// cursor fail; navigation on one yields more invalid cursors.
func (r Reader) Valid() bool {
	return r.doc != nil && r.id != tree.None
}

func (r Reader) IsMap() bool {
	return r.Valid() && r.doc.t.IsMap(r.id)
}

func (r Reader) IsSeq() bool {
	return r.Valid() && r.doc.t.IsSeq(r.id)
}

// HasVal reports whether the node carries scalar text.
func (r Reader) HasVal() bool {
	return r.Valid() && r.doc.t.HasVal(r.id)
}

// HasNullVal reports whether the node is an explicit or implicit null: a
// valid node with no scalar text and no children structure.
func (r Reader) HasNullVal() bool {
	return r.Valid() && !r.doc.t.HasVal(r.id) &&
		!r.doc.t.IsMap(r.id) && !r.doc.t.IsSeq(r.id)
}

func (r Reader) HasKey() bool {
	return r.Valid() && r.doc.t.HasKey(r.id)
}

// Key returns the node's key text, or "" for unkeyed nodes.
func (r Reader) Key() string {
	if !r.Valid() {
		return ""
	}
	return r.doc.t.Key(r.id)
}

// Val returns the node's raw scalar text, undecoded.
func (r Reader) Val() string {
	if !r.Valid() {
		return ""
	}
	return r.doc.t.Val(r.id)
}

func (r Reader) HasValTag() bool {
	return r.Valid() && r.doc.t.HasValTag(r.id)
}

// ValTagIs reports whether the node carries exactly the given tag,
// including the leading "!".
func (r Reader) ValTagIs(tag string) bool {
	return r.HasValTag() && r.doc.t.ValTag(r.id) == tag
}

// ValTag returns the node's tag including the leading "!", or "".
func (r Reader) ValTag() string {
	if !r.Valid() {
		return ""
	}
	return r.doc.t.ValTag(r.id)
}

// Child returns the cursor for the child with the given key. The result is
// invalid when the key is absent or the current node is not a mapping.
func (r Reader) Child(key string) Reader {
	if !r.Valid() {
		return r.invalid()
	}
	if r.index != nil {
		id, ok := r.index[key]
		if !ok {
			return r.invalid()
		}
		return Reader{doc: r.doc, id: id}
	}
	if !r.doc.t.IsMap(r.id) {
		return r.invalid()
	}
	id := r.doc.t.FindChild(r.id, key)
	if id == tree.None {
		return r.invalid()
	}
	return Reader{doc: r.doc, id: id}
}

// At returns the cursor for the i-th child, invalid when out of range.
func (r Reader) At(i int) Reader {
	if !r.Valid() || i < 0 || i >= r.doc.t.NumChildren(r.id) {
		return r.invalid()
	}
	return Reader{doc: r.doc, id: r.doc.t.Child(r.id, i)}
}

// Children returns cursors for all children in document order.
func (r Reader) Children() []Reader {
	if !r.Valid() {
		return nil
	}
	ids := r.doc.t.Children(r.id)
	res := make([]Reader, len(ids))
	for i, id := range ids {
		res[i] = Reader{doc: r.doc, id: id}
	}
	return res
}

func (r Reader) ChildrenCount() int {
	if !r.Valid() {
		return 0
	}
	return r.doc.t.NumChildren(r.id)
}

// UseIndex returns a copy of the cursor with a one-time key index over its
// children, making repeated keyed lookups O(1). The index is a snapshot;
// it observes the document as of this call.
func (r Reader) UseIndex() Reader {
	if !r.Valid() {
		return r
	}
	idx := make(map[string]tree.ID, r.doc.t.NumChildren(r.id))
	for _, id := range r.doc.t.Children(r.id) {
		if r.doc.t.HasKey(id) {
			key := r.doc.t.Key(id)
			if _, dup := idx[key]; !dup {
				idx[key] = id
			}
		}
	}
	r.index = idx
	return r
}

// Location returns the node's source position. It fails with
// ErrNoLocations when the document was read without WithLocations.
func (r Reader) Location() (Location, error) {
	if !r.Valid() || r.doc.pd == nil {
		return Location{}, ErrNoLocations
	}
	off, ok := r.doc.t.LocOffset(r.id)
	if !ok {
		return Location{}, ErrNoLocations
	}
	line, col := r.doc.pd.LineCol(off)
	return Location{Name: r.doc.pd.Name(), Line: line, Col: col}, nil
}

// ReadValBase64 decodes the node's scalar text as standard base64. The
// output buffer is sized from the encoded length up front, then trimmed to
// the exact decoded size.
func (r Reader) ReadValBase64() ([]byte, error) {
	if !r.HasVal() {
		return nil, r.decodeErr("[]byte", "", ErrInvalidNode)
	}
	s := r.doc.t.Val(r.id)
	buf := make([]byte, base64.StdEncoding.DecodedLen(len(s)))
	n, err := base64.StdEncoding.Decode(buf, []byte(s))
	if err != nil {
		return nil, r.decodeErr("[]byte", "", err)
	}
	return buf[:n:n], nil
}

// Emit serializes the node's value and descendants back to text.
func (r Reader) Emit(opts ...encode.EncodeOption) (string, error) {
	if !r.Valid() {
		return "", ErrInvalidNode
	}
	var buf bytes.Buffer
	if err := encode.Encode(r.doc.t, r.id, &buf, opts...); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// EmitDescendants serializes the node's children without the node itself,
// by copying them under a fresh root of the same container kind.
func (r Reader) EmitDescendants(opts ...encode.EncodeOption) (string, error) {
	if !r.Valid() {
		return "", ErrInvalidNode
	}
	w := NewRootWriter()
	if r.IsSeq() {
		w.SetAsSeq()
	} else {
		w.SetAsMap()
	}
	tree.DuplicateChildren(w.t, w.t.Root(), r.doc.t, r.id)
	return w.Emit(opts...)
}

func (r Reader) decodeErr(typ, msg string, cause error) error {
	e := &DecodeError{Type: typ, Msg: msg, Err: cause}
	if loc, err := r.Location(); err == nil {
		e.Loc = &loc
	}
	return e
}

// readText returns the node's scalar text for decoding, or a decode error
// when the cursor does not address a scalar.
func (r Reader) readText(typ string) (string, error) {
	if !r.Valid() {
		return "", r.decodeErr(typ, "", ErrInvalidNode)
	}
	if r.doc.t.IsMap(r.id) || r.doc.t.IsSeq(r.id) {
		return "", r.decodeErr(typ, fmt.Sprintf("cannot decode a container as %s", typ), nil)
	}
	if !r.doc.t.HasVal(r.id) {
		return "", r.decodeErr(typ, fmt.Sprintf("cannot decode null as %s", typ), nil)
	}
	return r.doc.t.Val(r.id), nil
}

// ReadVal decodes the node's value as T. It fails when the cursor is
// invalid, the node is not a scalar, or the text does not parse as T.
func ReadVal[T any](r Reader) (T, error) {
	var out T
	typ := typeName[T]()
	s, err := r.readText(typ)
	if err != nil {
		return out, err
	}
	if err := decodeText(s, &out); err != nil {
		return out, r.decodeErr(typ, "", err)
	}
	return out, nil
}

// TryReadVal decodes the node's value into out. An invalid cursor reports
// (false, nil); present data that fails to decode reports the error.
func TryReadVal[T any](r Reader, out *T) (bool, error) {
	if !r.Valid() {
		return false, nil
	}
	v, err := ReadVal[T](r)
	if err != nil {
		return false, err
	}
	*out = v
	return true, nil
}

// ReadValOr decodes the node's value as T, substituting def when the
// cursor is invalid. Decode failures on present data still error.
func ReadValOr[T any](r Reader, def T) (T, error) {
	if !r.Valid() {
		return def, nil
	}
	return ReadVal[T](r)
}

// Read decodes the value of the child with the given key.
func Read[T any](r Reader, key string) (T, error) {
	return ReadVal[T](r.Child(key))
}

// TryRead decodes the keyed child's value into out. An absent key reports
// (false, nil); present data that fails to decode reports the error.
func TryRead[T any](r Reader, key string, out *T) (bool, error) {
	return TryReadVal(r.Child(key), out)
}

// ReadOr decodes the keyed child's value, substituting def when the key is
// absent. Decode failures on present data still error.
func ReadOr[T any](r Reader, key string, def T) (T, error) {
	return ReadValOr(r.Child(key), def)
}

// ReadKey decodes the node's key text as T.
func ReadKey[T any](r Reader) (T, error) {
	var out T
	typ := typeName[T]()
	if !r.Valid() {
		return out, r.decodeErr(typ, "", ErrInvalidNode)
	}
	if !r.doc.t.HasKey(r.id) {
		return out, r.decodeErr(typ, fmt.Sprintf("node has no key to decode as %s", typ), nil)
	}
	if err := decodeText(r.doc.t.Key(r.id), &out); err != nil {
		return out, r.decodeErr(typ, "", err)
	}
	return out, nil
}

// TryReadKey decodes the node's key into out. A keyless or invalid node
// reports (false, nil); a key that fails to decode reports the error.
func TryReadKey[T any](r Reader, out *T) (bool, error) {
	if !r.Valid() || !r.doc.t.HasKey(r.id) {
		return false, nil
	}
	v, err := ReadKey[T](r)
	if err != nil {
		return false, err
	}
	*out = v
	return true, nil
}

// ReadKeyOr decodes the node's key as T, substituting def when the node is
// invalid or has no key. Keys that fail to decode still error.
func ReadKeyOr[T any](r Reader, def T) (T, error) {
	if !r.Valid() || !r.doc.t.HasKey(r.id) {
		return def, nil
	}
	return ReadKey[T](r)
}

// ReadSeq decodes every child of a sequence node as T.
func ReadSeq[T any](r Reader) ([]T, error) {
	typ := "[]" + typeName[T]()
	if !r.Valid() {
		return nil, r.decodeErr(typ, "", ErrInvalidNode)
	}
	if !r.doc.t.IsSeq(r.id) {
		return nil, r.decodeErr(typ, fmt.Sprintf("cannot decode a non-sequence as %s", typ), nil)
	}
	out := make([]T, 0, r.doc.t.NumChildren(r.id))
	for _, c := range r.Children() {
		v, err := ReadVal[T](c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadPair decodes a two-element sequence node as an (A, B) pair.
func ReadPair[A, B any](r Reader) (A, B, error) {
	var a A
	var b B
	typ := fmt.Sprintf("(%s, %s)", typeName[A](), typeName[B]())
	if !r.Valid() {
		return a, b, r.decodeErr(typ, "", ErrInvalidNode)
	}
	if !r.doc.t.IsSeq(r.id) || r.doc.t.NumChildren(r.id) != 2 {
		return a, b, r.decodeErr(typ, fmt.Sprintf("pair %s requires a two-element sequence", typ), nil)
	}
	a, err := ReadVal[A](r.At(0))
	if err != nil {
		return a, b, err
	}
	b, err = ReadVal[B](r.At(1))
	if err != nil {
		return a, b, err
	}
	return a, b, nil
}
