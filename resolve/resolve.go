package resolve

import (
	"errors"
	"fmt"
	"os"

	"github.com/yamldoc/go-yamldoc/debug"
	"github.com/yamldoc/go-yamldoc/tree"
)

var (
	// ErrRefNotFound means an alias had no same-named anchor before it in
	// document order.
	ErrRefNotFound = errors.New("reference not found")
	// ErrExpansion means resolution materialized more nodes than the
	// expansion budget allows.
	ErrExpansion = errors.New("expansion budget exceeded")
)

// DefaultMaxExpansion bounds the total number of nodes materialized by one
// Resolve call. Nested anchors can amplify a small document into a huge
// tree; the budget turns that into a failure instead of an allocation
// runaway.
const DefaultMaxExpansion = 1 << 20

type Option func(*Resolver)

// WithMaxExpansion sets the expansion budget: the maximum total node count
// a single Resolve call may materialize. n <= 0 means the default.
func WithMaxExpansion(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxExpansion = n
		}
	}
}

// refEntry is the resolver's record of one anchor or alias node, in
// depth-first pre-order. prevAnchor chains entries carrying the same anchor
// name, most recent first.
type refEntry struct {
	anchor bool
	alias  bool

	node       tree.ID
	prevAnchor int
	target     tree.ID

	parent      tree.ID
	prevSibling tree.ID
}

// Resolver is a reusable object that expands aliases in a tree: each alias
// node is replaced by a deep copy of the most recent preceding anchor with
// the same name.
type Resolver struct {
	t            *tree.Tree
	refs         []refEntry
	byName       map[string]int
	maxExpansion int
}

func New(opts ...Option) *Resolver {
	r := &Resolver{maxExpansion: DefaultMaxExpansion}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve is a convenience wrapper around New(opts...).Resolve(t).
func Resolve(t *tree.Tree, opts ...Option) error {
	return New(opts...).Resolve(t)
}

// Resolve expands every alias in t. After a successful resolve the tree has
// no alias nodes and no anchors; reading a former alias yields the same
// structure as reading its matched anchor did. A tree with no aliases is
// left untouched. Resolution fails with ErrRefNotFound when an alias
// precedes every same-named anchor or sits inside the anchored subtree it
// names, and with ErrExpansion when the expansion budget runs out; either
// failure aborts the whole resolve.
func (r *Resolver) Resolve(t *tree.Tree) error {
	r.t = t
	r.refs = r.refs[:0]
	r.byName = map[string]int{}

	r.gather(t.Root(), tree.None, tree.None)
	hasAlias := false
	for i := range r.refs {
		if r.refs[i].alias {
			hasAlias = true
			break
		}
	}
	if !hasAlias {
		return nil
	}
	if err := r.resolveRefs(); err != nil {
		return err
	}
	// all aliases are expanded; drop the anchor names so the tree reads
	// and emits as plain data
	t.Visit(t.Root(), func(id tree.ID, isPost bool) bool {
		if !isPost && t.HasAnchor(id) {
			t.ClearAnchor(id)
		}
		return true
	})
	return nil
}

// gather appends one refEntry per anchor- or alias-flagged node, walking
// the tree depth-first in pre-order. This walk order is the serialization
// order the matching rule refers to: an alias may only match anchors
// gathered strictly before it.
func (r *Resolver) gather(id, parent, prevSibling tree.ID) {
	t := r.t
	if t.IsAlias(id) {
		name := t.AliasTarget(id)
		prev, ok := r.byName[name]
		if !ok {
			prev = -1
		}
		r.refs = append(r.refs, refEntry{
			alias:       true,
			node:        id,
			prevAnchor:  prev,
			target:      tree.None,
			parent:      parent,
			prevSibling: prevSibling,
		})
		if debug.Resolve() {
			fmt.Fprintf(os.Stderr, "resolve: gather alias *%s node=%d prev=%d\n", name, id, prev)
		}
	}
	if t.HasAnchor(id) {
		name := t.Anchor(id)
		prev, ok := r.byName[name]
		if !ok {
			prev = -1
		}
		r.refs = append(r.refs, refEntry{
			anchor:      true,
			node:        id,
			prevAnchor:  prev,
			target:      tree.None,
			parent:      parent,
			prevSibling: prevSibling,
		})
		r.byName[name] = len(r.refs) - 1
		if debug.Resolve() {
			fmt.Fprintf(os.Stderr, "resolve: gather anchor &%s node=%d prev=%d\n", name, id, prev)
		}
	}
	prev := tree.None
	for _, c := range t.Children(id) {
		r.gather(c, id, prev)
		prev = c
	}
}

// lookup walks the per-name anchor chain backwards from e's gather point
// and returns the index of the most recent anchor entry named name.
func (r *Resolver) lookup(e *refEntry, name string) (int, error) {
	for i := e.prevAnchor; i >= 0; i = r.refs[i].prevAnchor {
		if r.refs[i].anchor && r.t.Anchor(r.refs[i].node) == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no anchor named %q precedes alias", ErrRefNotFound, name)
}

func (r *Resolver) resolveRefs() error {
	t := r.t
	budget := r.maxExpansion
	for i := range r.refs {
		e := &r.refs[i]
		if !e.alias {
			continue
		}
		name := t.AliasTarget(e.node)
		ti, err := r.lookup(e, name)
		if err != nil {
			return err
		}
		e.target = r.refs[ti].node
		// an alias sitting inside the subtree it names would copy itself
		// forever; the anchor does not count as preceding its own content
		for p := e.node; p != tree.None; p = t.Parent(p) {
			if p == e.target {
				return fmt.Errorf("%w: alias *%s is inside the anchor it names", ErrRefNotFound, name)
			}
		}
		cp, err := t.DuplicateAs(e.target, e.parent, &budget)
		if err != nil {
			if errors.Is(err, tree.ErrNodeBudget) {
				return fmt.Errorf("%w: max %d nodes (alias *%s)", ErrExpansion, r.maxExpansion, name)
			}
			return err
		}
		// the copy takes over the alias's slot and key; the alias node
		// itself becomes unreachable in the arena
		if t.HasKey(e.node) {
			t.SetKey(cp, t.Key(e.node))
			if t.IsKeyQuoted(e.node) {
				t.AddFlags(cp, tree.KeyQuoted)
			}
		}
		if t.HasAnchor(e.node) {
			// an alias can itself be anchored; later aliases must see the
			// resolved content
			t.SetAnchor(cp, t.Anchor(e.node))
		}
		if err := t.ReplaceChildAfter(e.parent, e.prevSibling, e.node, cp); err != nil {
			return err
		}
		old := e.node
		e.node = cp
		// later entries may refer to the replaced node: the anchor entry of
		// an anchored alias shares its node, and the next sibling recorded
		// it as prevSibling
		for j := i + 1; j < len(r.refs); j++ {
			if r.refs[j].node == old {
				r.refs[j].node = cp
			}
			if r.refs[j].prevSibling == old {
				r.refs[j].prevSibling = cp
			}
		}
		if debug.Resolve() {
			fmt.Fprintf(os.Stderr, "resolve: alias *%s node=%d -> anchor node=%d as node=%d\n",
				name, old, e.target, cp)
		}
	}
	return nil
}
