// Package parse builds document trees from YAML-flavored text.
package parse

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yamldoc/go-yamldoc/debug"
	"github.com/yamldoc/go-yamldoc/token"
	"github.com/yamldoc/go-yamldoc/tree"
)

// Parse builds a document tree from d. The input may use block or flow
// collections, plain or quoted scalars, anchors, aliases, value tags, and
// comments. Aliases are left unexpanded; run the resolve package on the
// result before typed reading.
func Parse(d []byte, opts ...Option) (*tree.Tree, error) {
	pOpts := &parseOpts{}
	for _, f := range opts {
		f(pOpts)
	}
	d = bytes.TrimPrefix(d, []byte("\xEF\xBB\xBF"))
	p := &parser{
		d:    d,
		t:    tree.New(pOpts.hint),
		pd:   token.NewPosDoc(pOpts.name, d),
		opts: pOpts,
	}
	if pOpts.locations {
		p.t.EnableLocations()
	}
	if err := p.splitLines(); err != nil {
		return nil, err
	}
	if err := p.parseDoc(); err != nil {
		return nil, err
	}
	if debug.Parse() {
		fmt.Fprintf(os.Stderr, "parse: %q -> %d nodes\n", pOpts.name, p.t.Size())
	}
	return p.t, nil
}

type line struct {
	off    int // offset of the line's first byte
	indent int // leading space count
	start  int // offset of first content byte
	end    int // offset past last content byte (comments, trailing ws stripped)
}

type parser struct {
	d     []byte
	t     *tree.Tree
	pd    *token.PosDoc
	lines []line
	li    int
	opts  *parseOpts
}

func (p *parser) errAt(off int, msg string, args ...any) error {
	pos := p.pd.Pos(off)
	m := fmt.Sprintf(msg, args...)
	if p.opts.onError != nil {
		p.opts.onError(m, pos)
	}
	return &ParseError{Msg: m, Pos: *pos}
}

func (p *parser) loc(id tree.ID, off int) {
	if p.opts.locations {
		p.t.SetLoc(id, off)
	}
}

// splitLines indexes the document's content lines, stripping comments and
// blank lines. Comment detection is quote-aware so a '#' inside a quoted
// scalar does not truncate the line.
func (p *parser) splitLines() error {
	d := p.d
	sawDocStart := false
	for off := 0; off < len(d); {
		nl := bytes.IndexByte(d[off:], '\n')
		var raw []byte
		next := len(d)
		if nl >= 0 {
			raw = d[off : off+nl]
			next = off + nl + 1
		} else {
			raw = d[off:]
		}
		raw = bytes.TrimSuffix(raw, []byte("\r"))

		indent := 0
		for indent < len(raw) && raw[indent] == ' ' {
			indent++
		}
		if indent < len(raw) && raw[indent] == '\t' {
			return p.errAt(off+indent, "tab characters are not allowed in indentation")
		}
		end := p.stripComment(raw, indent)
		for end > indent && (raw[end-1] == ' ' || raw[end-1] == '\t') {
			end--
		}
		if end > indent {
			content := string(raw[indent:end])
			switch {
			case content == "...":
				return nil
			case content == "---":
				if sawDocStart || len(p.lines) > 0 {
					return p.errAt(off+indent, "multiple documents are not supported")
				}
				sawDocStart = true
			default:
				p.lines = append(p.lines, line{
					off:    off,
					indent: indent,
					start:  off + indent,
					end:    off + end,
				})
			}
		}
		off = next
	}
	return nil
}

// stripComment returns the end index (into raw) of the line's content,
// excluding any trailing comment.
func (p *parser) stripComment(raw []byte, indent int) int {
	var quote byte
	for i := indent; i < len(raw); i++ {
		c := raw[i]
		if quote != 0 {
			if quote == '"' && c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '#':
			if i == indent || raw[i-1] == ' ' || raw[i-1] == '\t' {
				return i
			}
		}
	}
	return len(raw)
}

func (p *parser) parseDoc() error {
	root := p.t.Root()
	if len(p.lines) == 0 {
		return nil
	}
	p.loc(root, p.lines[0].start)
	if err := p.parseBlock(root, p.lines[0].indent); err != nil {
		return err
	}
	if p.li < len(p.lines) {
		return p.errAt(p.lines[p.li].start, "unexpected content after document")
	}
	return nil
}

// parseBlock parses block-context entries at the given indentation into nd.
// It returns on dedent, leaving the dedented line for the caller.
func (p *parser) parseBlock(nd tree.ID, indent int) error {
	t := p.t
	for p.li < len(p.lines) {
		ln := p.lines[p.li]
		if ln.indent < indent {
			return nil
		}
		if ln.indent > indent {
			return p.errAt(ln.start, "bad indentation (expected %d, got %d)", indent, ln.indent)
		}
		content := p.d[ln.start:ln.end]
		switch {
		case isSeqEntry(content):
			if t.IsMap(nd) || t.HasVal(nd) {
				return p.errAt(ln.start, "sequence entry in non-sequence context")
			}
			t.AddFlags(nd, tree.Seq)
			child := t.AppendChild(nd)
			p.loc(child, ln.start)
			restOff := ln.start + 1
			for restOff < ln.end && p.d[restOff] == ' ' {
				restOff++
			}
			if restOff >= ln.end {
				p.li++
				if err := p.parseNested(child, indent); err != nil {
					return err
				}
				continue
			}
			// re-scope the rest of the line as a block of its own so that
			// "- key: val" and "- - x" entries nest naturally
			p.lines[p.li].start = restOff
			p.lines[p.li].indent = restOff - ln.off
			if err := p.parseBlock(child, restOff-ln.off); err != nil {
				return err
			}
		default:
			key, quoted, valOff, isKey, err := p.scanKey(ln)
			if err != nil {
				return err
			}
			if isKey {
				if t.IsSeq(nd) || t.HasVal(nd) {
					return p.errAt(ln.start, "mapping key in non-mapping context")
				}
				if t.FindChild(nd, key) != tree.None {
					return p.errAt(ln.start, "duplicate mapping key %q", key)
				}
				t.AddFlags(nd, tree.Map)
				child := t.AppendChild(nd)
				t.SetKey(child, key)
				if quoted {
					t.AddFlags(child, tree.KeyQuoted)
				}
				p.loc(child, ln.start)
				if err := p.parseEntryValue(child, valOff, ln, indent); err != nil {
					return err
				}
				continue
			}
			// a bare value at this indent: only valid for a node with no
			// content yet (e.g. the document root, or after props)
			if t.IsMap(nd) || t.IsSeq(nd) || t.HasVal(nd) || t.NumChildren(nd) > 0 {
				return p.errAt(ln.start, "unexpected scalar content")
			}
			if err := p.parseEntryValue(nd, ln.start, ln, indent); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseNested parses the value of an entry whose own line carried nothing:
// either a more-indented block follows, or the value is null.
func (p *parser) parseNested(child tree.ID, indent int) error {
	if p.li < len(p.lines) && p.lines[p.li].indent > indent {
		return p.parseBlock(child, p.lines[p.li].indent)
	}
	return nil
}

// parseEntryValue parses node properties (&anchor, !tag) and then the value
// body starting at off on line ln. An empty body after properties means the
// value is either a nested block or null.
func (p *parser) parseEntryValue(nd tree.ID, off int, ln line, indent int) error {
	off, err := p.parseProps(nd, off, ln.end)
	if err != nil {
		return err
	}
	if off >= ln.end {
		p.li++
		return p.parseNested(nd, indent)
	}
	return p.parseValueBody(nd, off, ln)
}

// parseProps consumes leading &anchor and !tag properties.
func (p *parser) parseProps(nd tree.ID, off, end int) (int, error) {
	t := p.t
	for off < end {
		for off < end && p.d[off] == ' ' {
			off++
		}
		if off >= end {
			break
		}
		switch p.d[off] {
		case '&':
			name, n := scanName(p.d[off+1 : end])
			if n == 0 {
				return 0, p.errAt(off, "empty anchor name")
			}
			if t.HasAnchor(nd) {
				return 0, p.errAt(off, "node already has anchor &%s", t.Anchor(nd))
			}
			t.SetAnchor(nd, name)
			off += 1 + n
		case '!':
			n := 0
			for off+n < end && p.d[off+n] != ' ' {
				n++
			}
			if t.HasValTag(nd) {
				return 0, p.errAt(off, "node already has tag %s", t.ValTag(nd))
			}
			t.SetValTag(nd, string(p.d[off:off+n]))
			off += n
		default:
			return off, nil
		}
	}
	return off, nil
}

// parseValueBody parses an inline value: alias, flow collection, quoted
// scalar, or plain scalar. It consumes the current line (or, for flow, all
// lines the flow spans).
func (p *parser) parseValueBody(nd tree.ID, off int, ln line) error {
	t := p.t
	switch c := p.d[off]; {
	case c == '*':
		name, n := scanName(p.d[off+1 : ln.end])
		if n == 0 {
			return p.errAt(off, "empty alias name")
		}
		if off+1+n != ln.end {
			return p.errAt(off+1+n, "unexpected content after alias *%s", name)
		}
		t.SetAlias(nd, name)
		p.li++
		return nil
	case c == '{' || c == '[':
		end, err := p.parseFlow(nd, off)
		if err != nil {
			return err
		}
		return p.syncAfterFlow(end)
	case c == '"' || c == '\'':
		s, err := token.Unquote(p.d[off:ln.end])
		if err != nil {
			return p.errAt(off, "%v", err)
		}
		t.SetVal(nd, s)
		t.AddFlags(nd, tree.ValQuoted)
		p.li++
		return nil
	default:
		text := strings.TrimRight(string(p.d[off:ln.end]), " ")
		if !token.IsNullText(text) {
			t.SetVal(nd, text)
		}
		p.li++
		return nil
	}
}

// syncAfterFlow advances past all lines a flow collection spanned and
// verifies nothing but blanks or a comment follows the closing bracket.
func (p *parser) syncAfterFlow(end int) error {
	rest := end
	for rest < len(p.d) && p.d[rest] != '\n' {
		if p.d[rest] == ' ' || p.d[rest] == '\t' || p.d[rest] == '\r' {
			rest++
			continue
		}
		if p.d[rest] == '#' {
			break
		}
		return p.errAt(rest, "unexpected content after flow collection")
	}
	for p.li < len(p.lines) && p.lines[p.li].off < end {
		p.li++
	}
	return nil
}

// scanKey recognizes a `key:` or `"key":` prefix on a block line. isKey is
// false when the line holds no mapping key.
func (p *parser) scanKey(ln line) (key string, quoted bool, valOff int, isKey bool, err error) {
	d := p.d
	i := ln.start
	switch d[i] {
	case '{', '[', '&', '!', '*':
		return "", false, 0, false, nil
	case '"', '\'':
		q := d[i]
		j := i + 1
		for j < ln.end {
			if q == '"' && d[j] == '\\' {
				j += 2
				continue
			}
			if d[j] == q {
				break
			}
			j++
		}
		if j >= ln.end {
			// unterminated here means this is a (bad) scalar, not a key
			return "", false, 0, false, nil
		}
		k := j + 1
		for k < ln.end && d[k] == ' ' {
			k++
		}
		if k >= ln.end || d[k] != ':' || (k+1 < ln.end && d[k+1] != ' ') {
			return "", false, 0, false, nil
		}
		s, uerr := token.Unquote(d[i : j+1])
		if uerr != nil {
			return "", false, 0, false, p.errAt(i, "%v", uerr)
		}
		return s, true, skipSpaces(d, k+1, ln.end), true, nil
	}
	for j := i; j < ln.end; j++ {
		if d[j] != ':' {
			continue
		}
		if j+1 < ln.end && d[j+1] != ' ' {
			continue
		}
		key = strings.TrimRight(string(d[i:j]), " ")
		if key == "" {
			return "", false, 0, false, p.errAt(i, "empty mapping key")
		}
		return key, false, skipSpaces(d, j+1, ln.end), true, nil
	}
	return "", false, 0, false, nil
}

func skipSpaces(d []byte, i, end int) int {
	for i < end && d[i] == ' ' {
		i++
	}
	return i
}

func isSeqEntry(content []byte) bool {
	return len(content) > 0 && content[0] == '-' &&
		(len(content) == 1 || content[1] == ' ')
}

// scanName reads an anchor or alias name.
func scanName(d []byte) (string, int) {
	n := 0
	for n < len(d) {
		c := d[n]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
			c >= '0' && c <= '9' || c == '_' || c == '-' {
			n++
			continue
		}
		break
	}
	return string(d[:n]), n
}
