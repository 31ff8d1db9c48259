package tree

import (
	"errors"
	"testing"
)

// buildAnchored builds {base: &b {hp: 30, armor: plate}} and returns the
// anchored node.
func buildAnchored(t *Tree) ID {
	t.AddFlags(t.Root(), Map)
	base := t.AppendChild(t.Root())
	t.SetKey(base, "base")
	t.SetAnchor(base, "b")
	t.AddFlags(base, Map)
	hp := t.AppendChild(base)
	t.SetKey(hp, "hp")
	t.SetVal(hp, "30")
	armor := t.AppendChild(base)
	t.SetKey(armor, "armor")
	t.SetVal(armor, "plate")
	return base
}

func TestDuplicateAs(t *testing.T) {
	tr := New(0)
	base := buildAnchored(tr)
	budget := 100
	cp, err := tr.DuplicateAs(base, tr.Root(), &budget)
	if err != nil {
		t.Fatal(err)
	}
	if budget != 97 {
		t.Errorf("budget = %d, want 97", budget)
	}
	// content copied
	if !tr.IsMap(cp) || tr.NumChildren(cp) != 2 {
		t.Fatalf("copy shape wrong")
	}
	if tr.Val(tr.FindChild(cp, "hp")) != "30" {
		t.Error("hp not copied")
	}
	if tr.Val(tr.FindChild(cp, "armor")) != "plate" {
		t.Error("armor not copied")
	}
	// key and anchor of the top node are not copied
	if tr.HasKey(cp) {
		t.Error("copy took the source key")
	}
	if tr.HasAnchor(cp) {
		t.Error("copy took the source anchor")
	}
	// child keys are copied
	if !tr.HasKey(tr.Child(cp, 0)) {
		t.Error("child key lost")
	}
	// detached: not in the parent's child list
	for _, c := range tr.Children(tr.Root()) {
		if c == cp {
			t.Error("copy was linked")
		}
	}
	if tr.Parent(cp) != tr.Root() {
		t.Error("copy parent not set")
	}
}

func TestDuplicateAsBudget(t *testing.T) {
	tr := New(0)
	base := buildAnchored(tr)
	budget := 2 // subtree has 3 nodes
	if _, err := tr.DuplicateAs(base, tr.Root(), &budget); !errors.Is(err, ErrNodeBudget) {
		t.Errorf("err = %v", err)
	}
}

func TestDuplicateAsKeepsAliasTarget(t *testing.T) {
	tr := New(0)
	tr.AddFlags(tr.Root(), Seq)
	al := tr.AppendChild(tr.Root())
	tr.SetAlias(al, "x")
	budget := 10
	cp, err := tr.DuplicateAs(al, tr.Root(), &budget)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.IsAlias(cp) || tr.AliasTarget(cp) != "x" {
		t.Errorf("copy alias target = %q", tr.AliasTarget(cp))
	}
}

func TestReplaceChildAfter(t *testing.T) {
	tr := New(0)
	tr.AddFlags(tr.Root(), Seq)
	a := tr.AppendChild(tr.Root())
	b := tr.AppendChild(tr.Root())
	c := tr.AppendChild(tr.Root())
	tr.SetVal(a, "a")
	tr.SetVal(b, "b")
	tr.SetVal(c, "c")
	repl := tr.appendDetached(tr.Root())
	tr.SetVal(repl, "B")

	if err := tr.ReplaceChildAfter(tr.Root(), a, b, repl); err != nil {
		t.Fatal(err)
	}
	kids := tr.Children(tr.Root())
	if len(kids) != 3 || kids[0] != a || kids[1] != repl || kids[2] != c {
		t.Fatalf("children = %v", kids)
	}
	if tr.Parent(repl) != tr.Root() {
		t.Error("replacement parent not set")
	}
	if tr.Parent(b) != None {
		t.Error("old child still linked")
	}
}

func TestReplaceFirstChild(t *testing.T) {
	tr := New(0)
	a := tr.AppendChild(tr.Root())
	b := tr.AppendChild(tr.Root())
	repl := tr.appendDetached(tr.Root())
	if err := tr.ReplaceChildAfter(tr.Root(), None, a, repl); err != nil {
		t.Fatal(err)
	}
	kids := tr.Children(tr.Root())
	if kids[0] != repl || kids[1] != b {
		t.Errorf("children = %v", kids)
	}
}

func TestReplaceFallbackScan(t *testing.T) {
	tr := New(0)
	a := tr.AppendChild(tr.Root())
	b := tr.AppendChild(tr.Root())
	repl := tr.appendDetached(tr.Root())
	// wrong sibling anchor: the scan fallback still finds b
	if err := tr.ReplaceChildAfter(tr.Root(), b, b, repl); err != nil {
		t.Fatal(err)
	}
	kids := tr.Children(tr.Root())
	if kids[0] != a || kids[1] != repl {
		t.Errorf("children = %v", kids)
	}
}

func TestReplaceNotAChild(t *testing.T) {
	tr := New(0)
	a := tr.AppendChild(tr.Root())
	stray := tr.appendDetached(tr.Root())
	repl := tr.appendDetached(tr.Root())
	if err := tr.ReplaceChildAfter(tr.Root(), a, stray, repl); err == nil {
		t.Error("replacing a non-child succeeded")
	}
}

func TestDuplicateChildrenAcrossTrees(t *testing.T) {
	src := New(0)
	buildAnchored(src)
	dst := New(0)
	dst.AddFlags(dst.Root(), Map)
	DuplicateChildren(dst, dst.Root(), src, src.Root())
	if dst.NumChildren(dst.Root()) != 1 {
		t.Fatalf("children = %d", dst.NumChildren(dst.Root()))
	}
	base := dst.Child(dst.Root(), 0)
	// a full copy keeps keys and anchors, unlike DuplicateAs
	if dst.Key(base) != "base" || dst.Anchor(base) != "b" {
		t.Error("key or anchor lost crossing trees")
	}
	if dst.Val(dst.FindChild(base, "hp")) != "30" {
		t.Error("value lost crossing trees")
	}
	if !Equal(src, dst) {
		t.Error("trees not equal after full copy")
	}
}

func TestEqual(t *testing.T) {
	a := New(0)
	buildAnchored(a)
	b := New(0)
	buildAnchored(b)
	if !Equal(a, b) {
		t.Fatal("identical builds not equal")
	}
	b.SetVal(b.FindChild(b.Child(b.Root(), 0), "hp"), "31")
	if Equal(a, b) {
		t.Error("value change not detected")
	}
}
