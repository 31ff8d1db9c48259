package tree

// ID indexes a node in a Tree's arena. The zero Tree root is always id 0.
type ID int32

// None is the invalid node id.
const None ID = -1

// span locates a string in the tree's text arena.
type span struct {
	off, n int32
}

type node struct {
	flags    Flags
	key      span
	val      span
	valTag   span
	anchor   span
	ref      span
	parent   ID
	children []ID
}

// Tree owns every node of one document in a single arena. Nodes refer to
// each other by id, never by pointer, and all key/value text lives in one
// shared text arena. Construction is append-only; nodes are never removed,
// only unlinked.
type Tree struct {
	nodes []node
	text  []byte
	locs  []int32
}

// New creates an empty tree containing only the root node. hint is a
// capacity hint for the node arena; pass 0 when unknown.
func New(hint int) *Tree {
	if hint < 1 {
		hint = 1
	}
	t := &Tree{
		nodes: make([]node, 1, hint),
	}
	t.nodes[0].parent = None
	return t
}

// Root returns the id of the root node.
func (t *Tree) Root() ID { return 0 }

// Size returns the number of nodes in the arena, including unlinked ones.
func (t *Tree) Size() int { return len(t.nodes) }

func (t *Tree) valid(id ID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// AppendChild creates a new node and links it as the last child of parent.
func (t *Tree) AppendChild(parent ID) ID {
	id := ID(len(t.nodes))
	t.nodes = append(t.nodes, node{parent: parent})
	if t.locs != nil {
		t.locs = append(t.locs, -1)
	}
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

// appendDetached creates a new node with a parent but no linkage in the
// parent's child list. Used by subtree duplication.
func (t *Tree) appendDetached(parent ID) ID {
	id := ID(len(t.nodes))
	t.nodes = append(t.nodes, node{parent: parent})
	if t.locs != nil {
		t.locs = append(t.locs, -1)
	}
	return id
}

func (t *Tree) Parent(id ID) ID {
	if !t.valid(id) {
		return None
	}
	return t.nodes[id].parent
}

func (t *Tree) NumChildren(id ID) int {
	if !t.valid(id) {
		return 0
	}
	return len(t.nodes[id].children)
}

// Children returns the ordered child ids of id. The returned slice is the
// tree's own; callers must not mutate it.
func (t *Tree) Children(id ID) []ID {
	if !t.valid(id) {
		return nil
	}
	return t.nodes[id].children
}

// Child returns the i-th child of id, or None when out of range.
func (t *Tree) Child(id ID, i int) ID {
	if !t.valid(id) || i < 0 || i >= len(t.nodes[id].children) {
		return None
	}
	return t.nodes[id].children[i]
}

// FindChild returns the child of parent whose key is key, or None. The scan
// is linear in the number of children; callers doing repeated lookups
// should index (see the bind package).
func (t *Tree) FindChild(parent ID, key string) ID {
	if !t.valid(parent) {
		return None
	}
	for _, c := range t.nodes[parent].children {
		nd := &t.nodes[c]
		if nd.flags&HasKey != 0 && t.str(nd.key) == key {
			return c
		}
	}
	return None
}

func (t *Tree) str(s span) string {
	return string(t.text[s.off : s.off+s.n])
}

func (t *Tree) save(s string) span {
	off := int32(len(t.text))
	t.text = append(t.text, s...)
	return span{off: off, n: int32(len(s))}
}

// SaveString copies s into the tree's text arena and returns the arena-backed
// copy. Callers holding transient text can use this to tie the text's
// lifetime to the tree's.
func (t *Tree) SaveString(s string) string {
	return t.str(t.save(s))
}

func (t *Tree) SetKey(id ID, key string) {
	nd := &t.nodes[id]
	nd.key = t.save(key)
	nd.flags |= HasKey
}

func (t *Tree) HasKey(id ID) bool {
	return t.valid(id) && t.nodes[id].flags&HasKey != 0
}

func (t *Tree) Key(id ID) string {
	if !t.HasKey(id) {
		return ""
	}
	return t.str(t.nodes[id].key)
}

func (t *Tree) SetVal(id ID, val string) {
	nd := &t.nodes[id]
	nd.val = t.save(val)
	nd.flags |= HasVal
}

// AppendVal appends text to id's scalar value, setting it when absent.
func (t *Tree) AppendVal(id ID, val string) {
	nd := &t.nodes[id]
	if nd.flags&HasVal == 0 {
		t.SetVal(id, val)
		return
	}
	if int(nd.val.off+nd.val.n) == len(t.text) {
		t.text = append(t.text, val...)
		nd.val.n += int32(len(val))
		return
	}
	nd.val = t.save(t.str(nd.val) + val)
}

func (t *Tree) HasVal(id ID) bool {
	return t.valid(id) && t.nodes[id].flags&HasVal != 0
}

func (t *Tree) Val(id ID) string {
	if !t.HasVal(id) {
		return ""
	}
	return t.str(t.nodes[id].val)
}

func (t *Tree) ClearVal(id ID) {
	nd := &t.nodes[id]
	nd.val = span{}
	nd.flags &^= HasVal | ValQuoted
}

func (t *Tree) SetValTag(id ID, tag string) {
	t.nodes[id].valTag = t.save(tag)
}

func (t *Tree) HasValTag(id ID) bool {
	return t.valid(id) && t.nodes[id].valTag.n > 0
}

func (t *Tree) ValTag(id ID) string {
	if !t.valid(id) {
		return ""
	}
	return t.str(t.nodes[id].valTag)
}

func (t *Tree) SetAnchor(id ID, name string) {
	t.nodes[id].anchor = t.save(name)
}

func (t *Tree) HasAnchor(id ID) bool {
	return t.valid(id) && t.nodes[id].anchor.n > 0
}

func (t *Tree) Anchor(id ID) string {
	if !t.valid(id) {
		return ""
	}
	return t.str(t.nodes[id].anchor)
}

func (t *Tree) ClearAnchor(id ID) {
	t.nodes[id].anchor = span{}
}

// SetAlias marks id as an alias of the anchor named target.
func (t *Tree) SetAlias(id ID, target string) {
	nd := &t.nodes[id]
	nd.ref = t.save(target)
	nd.flags |= Alias
}

func (t *Tree) IsAlias(id ID) bool {
	return t.valid(id) && t.nodes[id].flags&Alias != 0
}

func (t *Tree) AliasTarget(id ID) string {
	if !t.IsAlias(id) {
		return ""
	}
	return t.str(t.nodes[id].ref)
}

func (t *Tree) ClearAlias(id ID) {
	nd := &t.nodes[id]
	nd.ref = span{}
	nd.flags &^= Alias
}

// AddFlags sets the given flag bits on id.
func (t *Tree) AddFlags(id ID, f Flags) {
	t.nodes[id].flags |= f
}

// RemoveFlags clears the given flag bits on id.
func (t *Tree) RemoveFlags(id ID, f Flags) {
	t.nodes[id].flags &^= f
}

func (t *Tree) Flags(id ID) Flags {
	if !t.valid(id) {
		return 0
	}
	return t.nodes[id].flags
}

func (t *Tree) IsMap(id ID) bool {
	return t.valid(id) && t.nodes[id].flags&Map != 0
}

func (t *Tree) IsSeq(id ID) bool {
	return t.valid(id) && t.nodes[id].flags&Seq != 0
}

func (t *Tree) IsFlow(id ID) bool {
	return t.valid(id) && t.nodes[id].flags&Flow != 0
}

func (t *Tree) IsValQuoted(id ID) bool {
	return t.valid(id) && t.nodes[id].flags&ValQuoted != 0
}

func (t *Tree) IsKeyQuoted(id ID) bool {
	return t.valid(id) && t.nodes[id].flags&KeyQuoted != 0
}

// EnableLocations turns on per-node source offset tracking. Offsets default
// to -1 (unknown).
func (t *Tree) EnableLocations() {
	if t.locs != nil {
		return
	}
	t.locs = make([]int32, len(t.nodes))
	for i := range t.locs {
		t.locs[i] = -1
	}
}

func (t *Tree) LocationsEnabled() bool {
	return t.locs != nil
}

func (t *Tree) SetLoc(id ID, off int) {
	if t.locs == nil {
		return
	}
	t.locs[id] = int32(off)
}

// LocOffset returns the recorded source byte offset of id. The second
// result is false when tracking is disabled or no offset was recorded.
func (t *Tree) LocOffset(id ID) (int, bool) {
	if t.locs == nil || !t.valid(id) || t.locs[id] < 0 {
		return 0, false
	}
	return int(t.locs[id]), true
}

// Visit walks the subtree at id in depth-first pre-order, calling f before
// and after each node's children. Returning false from a pre-order call
// skips the node's children.
func (t *Tree) Visit(id ID, f func(id ID, isPost bool) bool) {
	if !t.valid(id) {
		return
	}
	if f(id, false) {
		for _, c := range t.nodes[id].children {
			t.Visit(c, f)
		}
	}
	f(id, true)
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		nodes: make([]node, len(t.nodes)),
		text:  append([]byte(nil), t.text...),
	}
	for i := range t.nodes {
		c.nodes[i] = t.nodes[i]
		c.nodes[i].children = append([]ID(nil), t.nodes[i].children...)
	}
	if t.locs != nil {
		c.locs = append([]int32(nil), t.locs...)
	}
	return c
}
