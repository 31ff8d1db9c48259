package bind

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriterRoundTrip(t *testing.T) {
	w := NewRootWriter()
	if _, err := WriteChild(w.Writer, "name", "avenger"); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteChild(w.Writer, "speed", 5400); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteChild(w.Writer, "damaged", true); err != nil {
		t.Fatal(err)
	}
	crew, err := WriteSeq(w.Writer, "crew", []string{"ana", "boris"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !crew.Valid() {
		t.Fatal("crew writer invalid")
	}
	pos := w.Child("position")
	if err := WritePair(pos, 12, -7); err != nil {
		t.Fatal(err)
	}
	out, err := w.Emit()
	if err != nil {
		t.Fatal(err)
	}

	r := mustRoot(t, out+"\n")
	name, err := Read[string](r.Reader, "name")
	if err != nil {
		t.Fatal(err)
	}
	if name != "avenger" {
		t.Errorf("name = %q", name)
	}
	speed, err := Read[int](r.Reader, "speed")
	if err != nil {
		t.Fatal(err)
	}
	if speed != 5400 {
		t.Errorf("speed = %d", speed)
	}
	damaged, err := Read[bool](r.Reader, "damaged")
	if err != nil {
		t.Fatal(err)
	}
	if !damaged {
		t.Error("damaged lost")
	}
	got, err := ReadSeq[string](r.Child("crew"))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"ana", "boris"}, got); d != "" {
		t.Errorf("crew: %s", d)
	}
	x, y, err := ReadPair[int, int](r.Child("position"))
	if err != nil {
		t.Fatal(err)
	}
	if x != 12 || y != -7 {
		t.Errorf("position = (%d, %d)", x, y)
	}
}

func TestWriteEmptySeqSkipped(t *testing.T) {
	w := NewRootWriter()
	if _, err := WriteChild(w.Writer, "a", 1); err != nil {
		t.Fatal(err)
	}
	c, err := WriteSeq(w.Writer, "items", []int(nil), nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Valid() {
		t.Error("empty sequence produced a node")
	}
	out, err := w.Emit()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "items") {
		t.Errorf("empty sequence emitted: %q", out)
	}
}

func TestAmbiguousStringsStayStrings(t *testing.T) {
	w := NewRootWriter()
	for key, val := range map[string]string{
		"a": "true",
		"b": "null",
		"c": "0x1F",
		"d": "017",
	} {
		if _, err := WriteChild(w.Writer, key, val); err != nil {
			t.Fatal(err)
		}
	}
	out, err := w.Emit()
	if err != nil {
		t.Fatal(err)
	}
	r := mustRoot(t, out+"\n")
	for key, want := range map[string]string{
		"a": "true", "b": "null", "c": "0x1F", "d": "017",
	} {
		got, err := Read[string](r.Reader, key)
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
		if r.Child(key).HasNullVal() {
			t.Errorf("%s degraded to null", key)
		}
	}
}

func TestWriteBase64RoundTrip(t *testing.T) {
	for _, payload := range [][]byte{
		[]byte("hello"),
		{},
		{0, 1, 2, 0xFF, 0xFE},
	} {
		w := NewRootWriter()
		w.WriteBase64("data", payload)
		out, err := w.Emit()
		if err != nil {
			t.Fatal(err)
		}
		r := mustRoot(t, out+"\n")
		got, err := r.Child("data").ReadValBase64()
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(payload, got); d != "" && !(len(payload) == 0 && len(got) == 0) {
			t.Errorf("payload %v: %s", payload, d)
		}
	}
}

func TestToReader(t *testing.T) {
	w := NewRootWriter()
	if _, err := WriteChild(w.Writer, "hp", 35); err != nil {
		t.Fatal(err)
	}
	sub := w.Child("stats")
	if _, err := WriteChild(sub, "tu", 60); err != nil {
		t.Fatal(err)
	}
	r := w.ToReader()
	hp, err := Read[int](r, "hp")
	if err != nil {
		t.Fatal(err)
	}
	if hp != 35 {
		t.Errorf("hp = %d", hp)
	}
	tu, err := Read[int](r.Child("stats"), "tu")
	if err != nil {
		t.Fatal(err)
	}
	if tu != 60 {
		t.Errorf("tu = %d", tu)
	}
}

func TestWriteSeqWithBuilder(t *testing.T) {
	type soldier struct {
		name string
		rank int
	}
	squad := []soldier{{"ana", 2}, {"boris", 0}}
	w := NewRootWriter()
	_, err := WriteSeq(w.Writer, "crew", squad, func(ew Writer, s soldier) error {
		if _, err := WriteChild(ew, "name", s.name); err != nil {
			return err
		}
		_, err := WriteChild(ew, "rank", s.rank)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := w.Emit()
	if err != nil {
		t.Fatal(err)
	}
	r := mustRoot(t, out+"\n")
	crew := r.Child("crew")
	if crew.ChildrenCount() != 2 {
		t.Fatalf("crew count = %d", crew.ChildrenCount())
	}
	name, err := Read[string](crew.At(0), "name")
	if err != nil {
		t.Fatal(err)
	}
	if name != "ana" {
		t.Errorf("crew[0].name = %q", name)
	}
	rank, err := Read[int](crew.At(1), "rank")
	if err != nil {
		t.Fatal(err)
	}
	if rank != 0 {
		t.Errorf("crew[1].rank = %d", rank)
	}
}

func TestFlowStyleEmission(t *testing.T) {
	w := NewRootWriter()
	pos := w.Child("position")
	pos.SetFlowStyle()
	if err := WritePair(pos, 3, 4); err != nil {
		t.Fatal(err)
	}
	out, err := w.Emit()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "[3, 4]") {
		t.Errorf("pair not emitted in flow style: %q", out)
	}
}

func TestSaveString(t *testing.T) {
	w := NewRootWriter()
	src := strings.Repeat("x", 8)
	saved := w.SaveString(src)
	if saved != src {
		t.Errorf("saved = %q", saved)
	}
}
