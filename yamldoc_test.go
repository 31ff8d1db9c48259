package yamldoc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yamldoc/go-yamldoc/bind"
	"github.com/yamldoc/go-yamldoc/format"
	"github.com/yamldoc/go-yamldoc/parse"
)

const saveDoc = `base: &stats {tu: 60, hp: 35}
soldiers:
  - name: ana
    stats: *stats
  - name: boris
    stats: *stats
`

func TestReadResolves(t *testing.T) {
	r, err := Read([]byte(saveDoc))
	if err != nil {
		t.Fatal(err)
	}
	soldiers := r.Child("soldiers")
	for i := 0; i < soldiers.ChildrenCount(); i++ {
		tu, err := bind.Read[int](soldiers.At(i).Child("stats"), "tu")
		if err != nil {
			t.Fatalf("soldier %d: %v", i, err)
		}
		if tu != 60 {
			t.Errorf("soldier %d tu = %d", i, tu)
		}
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.yml")
	if err := os.WriteFile(path, []byte("a: bad int\n"), 0644); err != nil {
		t.Fatal(err)
	}
	r, err := ReadFile(path, bind.WithLocations())
	if err != nil {
		t.Fatal(err)
	}
	_, err = bind.Read[int](r.Reader, "a")
	if err == nil {
		t.Fatal("decode succeeded")
	}
	// the file name flows into the error location
	if got := err.Error(); !strings.Contains(got, path) {
		t.Errorf("error lacks file name: %v", got)
	}
}

func TestWriteEmitRead(t *testing.T) {
	w := Write()
	if _, err := bind.WriteChild(w.Writer, "name", "avenger"); err != nil {
		t.Fatal(err)
	}
	out, err := w.Emit()
	if err != nil {
		t.Fatal(err)
	}
	r, err := Read([]byte(out + "\n"))
	if err != nil {
		t.Fatal(err)
	}
	name, err := bind.Read[string](r.Reader, "name")
	if err != nil {
		t.Fatal(err)
	}
	if name != "avenger" {
		t.Errorf("name = %q", name)
	}
}

func TestEmitFormats(t *testing.T) {
	tr, err := parse.Parse([]byte("a: 1\nb: x\n"))
	if err != nil {
		t.Fatal(err)
	}
	y, err := Emit(tr, format.YAMLFormat)
	if err != nil {
		t.Fatal(err)
	}
	if y != "a: 1\nb: x\n" {
		t.Errorf("yaml = %q", y)
	}
	j, err := Emit(tr, format.JSONFormat)
	if err != nil {
		t.Fatal(err)
	}
	if j != `{"a":1,"b":"x"}`+"\n" {
		t.Errorf("json = %q", j)
	}
}
