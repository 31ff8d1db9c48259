package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/yamldoc/go-yamldoc/format"
	"github.com/yamldoc/go-yamldoc/token"
	"github.com/yamldoc/go-yamldoc/tree"
)

func mustParse(t *testing.T, d string, opts ...Option) *tree.Tree {
	t.Helper()
	tr, err := Parse([]byte(d), opts...)
	if err != nil {
		t.Fatalf("parse %q: %v", d, err)
	}
	return tr
}

func childVal(t *testing.T, tr *tree.Tree, keys ...string) string {
	t.Helper()
	id := tr.Root()
	for _, k := range keys {
		id = tr.FindChild(id, k)
		if id == tree.None {
			t.Fatalf("key path %v not found", keys)
		}
	}
	return tr.Val(id)
}

func TestSimpleMap(t *testing.T) {
	tr := mustParse(t, "name: skyranger\nspeed: 760\n")
	if !tr.IsMap(tr.Root()) {
		t.Fatal("root not a map")
	}
	if got := childVal(t, tr, "name"); got != "skyranger" {
		t.Errorf("name = %q", got)
	}
	if got := childVal(t, tr, "speed"); got != "760" {
		t.Errorf("speed = %q", got)
	}
}

func TestNestedBlockMap(t *testing.T) {
	tr := mustParse(t, "stats:\n  tu: 60\n  hp: 35\nrank: 2\n")
	if got := childVal(t, tr, "stats", "tu"); got != "60" {
		t.Errorf("stats.tu = %q", got)
	}
	if got := childVal(t, tr, "rank"); got != "2" {
		t.Errorf("rank = %q", got)
	}
	stats := tr.FindChild(tr.Root(), "stats")
	if !tr.IsMap(stats) || tr.IsFlow(stats) {
		t.Error("stats not a block map")
	}
}

func TestBlockSeq(t *testing.T) {
	tr := mustParse(t, "- alpha\n- beta\n- gamma\n")
	root := tr.Root()
	if !tr.IsSeq(root) || tr.NumChildren(root) != 3 {
		t.Fatalf("root seq broken: %d children", tr.NumChildren(root))
	}
	want := []string{"alpha", "beta", "gamma"}
	for i, w := range want {
		if got := tr.Val(tr.Child(root, i)); got != w {
			t.Errorf("[%d] = %q, want %q", i, got, w)
		}
	}
}

func TestCompactSeqEntries(t *testing.T) {
	tr := mustParse(t, "crew:\n  - name: ana\n    rank: 2\n  - name: boris\n")
	crew := tr.FindChild(tr.Root(), "crew")
	if !tr.IsSeq(crew) || tr.NumChildren(crew) != 2 {
		t.Fatalf("crew shape: %d children", tr.NumChildren(crew))
	}
	first := tr.Child(crew, 0)
	if !tr.IsMap(first) {
		t.Fatal("compact entry not a map")
	}
	if tr.Val(tr.FindChild(first, "name")) != "ana" {
		t.Error("first name wrong")
	}
	if tr.Val(tr.FindChild(first, "rank")) != "2" {
		t.Error("first rank wrong")
	}
	if tr.Val(tr.FindChild(tr.Child(crew, 1), "name")) != "boris" {
		t.Error("second name wrong")
	}
}

func TestNestedSeq(t *testing.T) {
	tr := mustParse(t, "- - x\n  - y\n- z\n")
	root := tr.Root()
	inner := tr.Child(root, 0)
	if !tr.IsSeq(inner) || tr.NumChildren(inner) != 2 {
		t.Fatalf("inner seq shape")
	}
	if tr.Val(tr.Child(inner, 1)) != "y" {
		t.Error("inner value wrong")
	}
	if tr.Val(tr.Child(root, 1)) != "z" {
		t.Error("outer value wrong")
	}
}

func TestFlowCollections(t *testing.T) {
	tr := mustParse(t, "pos: [3, 4]\nstats: {tu: 60, hp: 35}\n")
	pos := tr.FindChild(tr.Root(), "pos")
	if !tr.IsSeq(pos) || !tr.IsFlow(pos) {
		t.Fatal("pos not a flow seq")
	}
	if tr.Val(tr.Child(pos, 1)) != "4" {
		t.Error("pos[1] wrong")
	}
	if got := childVal(t, tr, "stats", "hp"); got != "35" {
		t.Errorf("stats.hp = %q", got)
	}
}

func TestFlowSpansLines(t *testing.T) {
	tr := mustParse(t, "stats: {\n  tu: 60, # time units\n  hp: 35,\n}\nnext: 1\n")
	if got := childVal(t, tr, "stats", "tu"); got != "60" {
		t.Errorf("tu = %q", got)
	}
	if got := childVal(t, tr, "next"); got != "1" {
		t.Errorf("next = %q", got)
	}
}

func TestEmptyFlow(t *testing.T) {
	tr := mustParse(t, "a: {}\nb: []\n")
	a := tr.FindChild(tr.Root(), "a")
	b := tr.FindChild(tr.Root(), "b")
	if !tr.IsMap(a) || tr.NumChildren(a) != 0 {
		t.Error("a not an empty map")
	}
	if !tr.IsSeq(b) || tr.NumChildren(b) != 0 {
		t.Error("b not an empty seq")
	}
}

func TestQuotedScalars(t *testing.T) {
	tr := mustParse(t, `a: "x: y"`+"\n"+`b: 'it''s'`+"\n"+`c: "tab\there"`+"\n")
	if got := childVal(t, tr, "a"); got != "x: y" {
		t.Errorf("a = %q", got)
	}
	if got := childVal(t, tr, "b"); got != "it's" {
		t.Errorf("b = %q", got)
	}
	if got := childVal(t, tr, "c"); got != "tab\there" {
		t.Errorf("c = %q", got)
	}
	if !tr.IsValQuoted(tr.FindChild(tr.Root(), "a")) {
		t.Error("quote flag lost")
	}
}

func TestComments(t *testing.T) {
	tr := mustParse(t, "# header\na: 1 # trailing\nb: x#y\nc: \"q # r\"\n")
	if got := childVal(t, tr, "a"); got != "1" {
		t.Errorf("a = %q", got)
	}
	// '#' without a preceding space is content
	if got := childVal(t, tr, "b"); got != "x#y" {
		t.Errorf("b = %q", got)
	}
	// '#' inside quotes is content
	if got := childVal(t, tr, "c"); got != "q # r" {
		t.Errorf("c = %q", got)
	}
}

func TestNullSpellings(t *testing.T) {
	tr := mustParse(t, "a:\nb: null\nc: ~\nd: NULL\ne: \"\"\n")
	for _, k := range []string{"a", "b", "c", "d"} {
		id := tr.FindChild(tr.Root(), k)
		if id == tree.None {
			t.Fatalf("%s missing", k)
		}
		if tr.HasVal(id) {
			t.Errorf("%s has a value", k)
		}
	}
	// a quoted empty string is a value, not null
	e := tr.FindChild(tr.Root(), "e")
	if !tr.HasVal(e) || tr.Val(e) != "" {
		t.Error("quoted empty string degraded to null")
	}
}

func TestAnchorAliasTag(t *testing.T) {
	tr := mustParse(t, "a: &base !craft {v: 1}\nb: *base\n")
	a := tr.FindChild(tr.Root(), "a")
	if tr.Anchor(a) != "base" {
		t.Errorf("anchor = %q", tr.Anchor(a))
	}
	if tr.ValTag(a) != "!craft" {
		t.Errorf("tag = %q", tr.ValTag(a))
	}
	b := tr.FindChild(tr.Root(), "b")
	if !tr.IsAlias(b) || tr.AliasTarget(b) != "base" {
		t.Error("alias not recorded")
	}
}

func TestAnchorOnBlockValue(t *testing.T) {
	tr := mustParse(t, "a: &base\n  v: 1\n")
	a := tr.FindChild(tr.Root(), "a")
	if tr.Anchor(a) != "base" {
		t.Errorf("anchor = %q", tr.Anchor(a))
	}
	if !tr.IsMap(a) || tr.Val(tr.FindChild(a, "v")) != "1" {
		t.Error("anchored block value broken")
	}
}

func TestRootScalar(t *testing.T) {
	tr := mustParse(t, "hello\n")
	if !tr.HasVal(tr.Root()) || tr.Val(tr.Root()) != "hello" {
		t.Errorf("root val = %q", tr.Val(tr.Root()))
	}
}

func TestRootFlow(t *testing.T) {
	tr := mustParse(t, "[1, 2, 3]\n")
	if !tr.IsSeq(tr.Root()) || tr.NumChildren(tr.Root()) != 3 {
		t.Error("root flow seq broken")
	}
}

func TestEmptyDocument(t *testing.T) {
	for _, d := range []string{"", "\n", "# only a comment\n", "---\n"} {
		tr := mustParse(t, d)
		if tr.Size() != 1 || tr.NumChildren(tr.Root()) != 0 {
			t.Errorf("%q: not an empty tree", d)
		}
	}
}

func TestDocumentMarkers(t *testing.T) {
	tr := mustParse(t, "---\na: 1\n...\nb: ignored\n")
	if got := childVal(t, tr, "a"); got != "1" {
		t.Errorf("a = %q", got)
	}
	if tr.FindChild(tr.Root(), "b") != tree.None {
		t.Error("content after ... parsed")
	}
	if _, err := Parse([]byte("a: 1\n---\nb: 2\n")); err == nil {
		t.Error("second document accepted")
	}
}

func TestBOMAndCRLF(t *testing.T) {
	tr := mustParse(t, "\xEF\xBB\xBFa: 1\r\nb: 2\r\n")
	if got := childVal(t, tr, "a"); got != "1" {
		t.Errorf("a = %q", got)
	}
	if got := childVal(t, tr, "b"); got != "2" {
		t.Errorf("b = %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
	}{
		{"tab indent", "a:\n\tb: 1\n"},
		{"bad indent", "a: 1\n   b: 2\n"},
		{"duplicate key", "a: 1\na: 2\n"},
		{"seq in map", "a: 1\n- b\n"},
		{"map in seq", "- a\nb: 1\n"},
		{"bare scalar in map", "a: 1\nstray\n"},
		{"empty key", ": 1\n"},
		{"unterminated flow map", "a: {x: 1\n"},
		{"unterminated flow seq", "a: [1, 2\n"},
		{"content after flow", "a: [1] junk\n"},
		{"content after alias", "a: &x 1\nb: *x junk\n"},
		{"empty anchor", "a: & 1\n"},
		{"empty alias", "b: *\n"},
		{"duplicate flow key", "a: {x: 1, x: 2}\n"},
		{"unterminated quote", "a: \"oops\n"},
	} {
		_, err := Parse([]byte(tc.in))
		if err == nil {
			t.Errorf("%s: no error", tc.name)
			continue
		}
		if !errors.Is(err, format.ErrParse) {
			t.Errorf("%s: error does not wrap format.ErrParse: %v", tc.name, err)
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%s: not a ParseError: %v", tc.name, err)
		}
	}
}

func TestErrorHandlerHook(t *testing.T) {
	var gotMsg string
	var gotPos *token.Pos
	_, err := Parse([]byte("a:\n\tb\n"),
		WithName("save.yml"),
		WithErrorHandler(func(msg string, pos *token.Pos) {
			gotMsg, gotPos = msg, pos
		}))
	if err == nil {
		t.Fatal("no error")
	}
	if gotMsg == "" || gotPos == nil {
		t.Fatal("handler not called")
	}
	if gotPos.Line() != 2 {
		t.Errorf("line = %d", gotPos.Line())
	}
	if !strings.Contains(err.Error(), "save.yml") && gotPos.D.Name() != "save.yml" {
		t.Errorf("document name lost")
	}
}

func TestLocations(t *testing.T) {
	tr := mustParse(t, "a: 1\nbb: 2\n", WithLocations())
	if !tr.LocationsEnabled() {
		t.Fatal("locations off")
	}
	b := tr.FindChild(tr.Root(), "bb")
	off, ok := tr.LocOffset(b)
	if !ok {
		t.Fatal("no offset for bb")
	}
	if off != 5 {
		t.Errorf("bb offset = %d", off)
	}
}

func TestValuesKeepInteriorSpaces(t *testing.T) {
	tr := mustParse(t, "a: two words here\n")
	if got := childVal(t, tr, "a"); got != "two words here" {
		t.Errorf("a = %q", got)
	}
}

func TestKeyWithoutSpaceAfterColonIsScalar(t *testing.T) {
	tr := mustParse(t, "a: http://example.com/x\n")
	if got := childVal(t, tr, "a"); got != "http://example.com/x" {
		t.Errorf("a = %q", got)
	}
}
