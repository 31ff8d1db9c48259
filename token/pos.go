package token

import (
	"fmt"
	"sort"
	"strconv"
)

// PosDoc indexes the newline offsets of one input document so that byte
// offsets can be converted to line/column pairs in O(log lines).
type PosDoc struct {
	name string
	d    []byte
	n    []int
}

// NewPosDoc builds the newline index for d. The name identifies the
// document in diagnostics (typically a file name).
func NewPosDoc(name string, d []byte) *PosDoc {
	pd := &PosDoc{name: name, d: d}
	for i, b := range d {
		if b == '\n' {
			pd.n = append(pd.n, i)
		}
	}
	return pd
}

func (p *PosDoc) Name() string {
	return p.name
}

// LineCol returns the 1-based line and column of the byte offset off.
func (p *PosDoc) LineCol(off int) (int, int) {
	N := len(p.n)
	di := sort.Search(N, func(i int) bool {
		return p.n[i] >= off
	})
	if di == 0 {
		return 1, off + 1
	}
	return di + 1, off - p.n[di-1]
}

func (p *PosDoc) Pos(i int) *Pos {
	return &Pos{
		I: i,
		D: p,
	}
}

type Pos struct {
	I int
	D *PosDoc
}

func (p *Pos) LineCol() (int, int) {
	return p.D.LineCol(p.I)
}

func (p *Pos) Line() int {
	l, _ := p.LineCol()
	return l
}

func (p *Pos) Col() int {
	_, c := p.LineCol()
	return c
}

func (p Pos) String() string {
	var sample string
	if p.D != nil && len(p.D.d) > 0 {
		sample = string(p.D.d[max(0, p.I-5):min(p.I+5, len(p.D.d))])
	} else {
		sample = "?"
	}
	sample = strconv.Quote(sample)
	sample = sample[1 : len(sample)-1]
	return fmt.Sprintf("`...%s...` at offset %d (line=%d, col=%d)", sample, p.I, p.Line(), p.Col())
}
