package tree

import (
	"errors"
	"fmt"
)

// ErrNodeBudget is returned when a duplication would materialize more nodes
// than the caller's budget allows.
var ErrNodeBudget = errors.New("node budget exceeded")

// DuplicateAs deep-copies the content of src as a new node whose parent is
// parent, without linking it into parent's child list. The new node gets
// src's value, value tag, structural and style flags, and a full copy of
// src's subtree, alias targets included; it gets neither src's key nor
// src's anchor. budget is
// decremented once per materialized node; when it runs out the copy stops
// with ErrNodeBudget.
func (t *Tree) DuplicateAs(src, parent ID, budget *int) (ID, error) {
	if !t.valid(src) {
		return None, fmt.Errorf("duplicate of invalid node %d", src)
	}
	dst := t.appendDetached(parent)
	if err := t.copyContent(dst, src, budget); err != nil {
		return None, err
	}
	return dst, nil
}

func (t *Tree) copyContent(dst, src ID, budget *int) error {
	if *budget <= 0 {
		return ErrNodeBudget
	}
	*budget--
	// note: nodes are a slice; take values, not pointers, since the arena
	// may grow while children are appended below.
	srcN := t.nodes[src]
	keep := t.nodes[dst].flags & (HasKey | KeyQuoted)
	t.nodes[dst].flags = srcN.flags&^(HasKey|KeyQuoted) | keep
	t.nodes[dst].val = srcN.val
	t.nodes[dst].valTag = srcN.valTag
	t.nodes[dst].ref = srcN.ref
	for _, c := range srcN.children {
		cc := t.appendDetached(dst)
		t.nodes[cc].key = t.nodes[c].key
		t.nodes[cc].flags |= t.nodes[c].flags & (HasKey | KeyQuoted)
		if err := t.copyContent(cc, c, budget); err != nil {
			return err
		}
		t.nodes[dst].children = append(t.nodes[dst].children, cc)
	}
	return nil
}

// ReplaceChildAfter links repl into parent's child list in the slot held by
// old. prevSibling is the child preceding old, or None when old is the
// first child; it pins the slot so sibling order is preserved exactly.
func (t *Tree) ReplaceChildAfter(parent, prevSibling, old, repl ID) error {
	if !t.valid(parent) {
		return fmt.Errorf("replace under invalid node %d", parent)
	}
	kids := t.nodes[parent].children
	at := -1
	if prevSibling == None {
		if len(kids) > 0 && kids[0] == old {
			at = 0
		}
	} else {
		for i := 0; i < len(kids)-1; i++ {
			if kids[i] == prevSibling && kids[i+1] == old {
				at = i + 1
				break
			}
		}
	}
	if at < 0 {
		// sibling anchor moved, fall back to scanning for old
		for i, c := range kids {
			if c == old {
				at = i
				break
			}
		}
	}
	if at < 0 {
		return fmt.Errorf("node %d is not a child of %d", old, parent)
	}
	kids[at] = repl
	t.nodes[repl].parent = parent
	t.nodes[old].parent = None
	return nil
}

// DuplicateChildren deep-copies the children of srcFrom in src as new
// children of dstParent in dst, keys included. src and dst may be the same
// tree. The node budget is unbounded.
func DuplicateChildren(dst *Tree, dstParent ID, src *Tree, srcFrom ID) {
	for _, c := range src.Children(srcFrom) {
		copyAcross(dst, dstParent, src, c)
	}
}

func copyAcross(dst *Tree, dstParent ID, src *Tree, srcID ID) ID {
	id := dst.AppendChild(dstParent)
	srcN := src.nodes[srcID]
	dst.nodes[id].flags = srcN.flags
	if srcN.flags&HasKey != 0 {
		dst.nodes[id].key = dst.save(src.str(srcN.key))
	}
	if srcN.flags&HasVal != 0 {
		dst.nodes[id].val = dst.save(src.str(srcN.val))
	}
	if srcN.valTag.n > 0 {
		dst.nodes[id].valTag = dst.save(src.str(srcN.valTag))
	}
	if srcN.anchor.n > 0 {
		dst.nodes[id].anchor = dst.save(src.str(srcN.anchor))
	}
	if srcN.ref.n > 0 {
		dst.nodes[id].ref = dst.save(src.str(srcN.ref))
	}
	for _, c := range srcN.children {
		copyAcross(dst, id, src, c)
	}
	return id
}

// Equal reports structural equality of the subtrees at a's root and b's
// root: flags, keys, values, tags, anchors and child order all match.
// Source locations are ignored.
func Equal(a, b *Tree) bool {
	return equalAt(a, a.Root(), b, b.Root())
}

func equalAt(a *Tree, aid ID, b *Tree, bid ID) bool {
	if a.Flags(aid) != b.Flags(bid) {
		return false
	}
	if a.Key(aid) != b.Key(bid) || a.Val(aid) != b.Val(bid) {
		return false
	}
	if a.ValTag(aid) != b.ValTag(bid) || a.Anchor(aid) != b.Anchor(bid) {
		return false
	}
	if a.AliasTarget(aid) != b.AliasTarget(bid) {
		return false
	}
	if a.NumChildren(aid) != b.NumChildren(bid) {
		return false
	}
	for i, ac := range a.Children(aid) {
		if !equalAt(a, ac, b, b.Child(bid, i)) {
			return false
		}
	}
	return true
}
