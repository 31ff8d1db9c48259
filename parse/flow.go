package parse

import (
	"github.com/yamldoc/go-yamldoc/token"
	"github.com/yamldoc/go-yamldoc/tree"
)

// parseFlow parses a flow collection starting at the '{' or '[' at offset i.
// Flow collections may span lines and contain comments. Returns the offset
// just past the closing bracket.
func (p *parser) parseFlow(nd tree.ID, i int) (int, error) {
	if p.d[i] == '{' {
		return p.parseFlowMap(nd, i)
	}
	return p.parseFlowSeq(nd, i)
}

func (p *parser) parseFlowMap(nd tree.ID, i int) (int, error) {
	t := p.t
	t.AddFlags(nd, tree.Map|tree.Flow)
	i = p.skipFlowWS(i + 1)
	if i >= len(p.d) {
		return 0, p.errAt(len(p.d), "unterminated flow mapping")
	}
	if p.d[i] == '}' {
		return i + 1, nil
	}
	for {
		key, quoted, ni, err := p.scanFlowKey(i)
		if err != nil {
			return 0, err
		}
		if t.FindChild(nd, key) != tree.None {
			return 0, p.errAt(i, "duplicate mapping key %q", key)
		}
		child := t.AppendChild(nd)
		t.SetKey(child, key)
		if quoted {
			t.AddFlags(child, tree.KeyQuoted)
		}
		p.loc(child, i)
		i = p.skipFlowWS(ni)
		if i >= len(p.d) || p.d[i] != ':' {
			return 0, p.errAt(i, "expected ':' in flow mapping")
		}
		i = p.skipFlowWS(i + 1)
		i, err = p.parseFlowValue(child, i, '}')
		if err != nil {
			return 0, err
		}
		i = p.skipFlowWS(i)
		if i >= len(p.d) {
			return 0, p.errAt(len(p.d), "unterminated flow mapping")
		}
		switch p.d[i] {
		case ',':
			i = p.skipFlowWS(i + 1)
			if i < len(p.d) && p.d[i] == '}' {
				return i + 1, nil
			}
		case '}':
			return i + 1, nil
		default:
			return 0, p.errAt(i, "expected ',' or '}' in flow mapping")
		}
	}
}

func (p *parser) parseFlowSeq(nd tree.ID, i int) (int, error) {
	t := p.t
	t.AddFlags(nd, tree.Seq|tree.Flow)
	i = p.skipFlowWS(i + 1)
	if i >= len(p.d) {
		return 0, p.errAt(len(p.d), "unterminated flow sequence")
	}
	if p.d[i] == ']' {
		return i + 1, nil
	}
	for {
		child := t.AppendChild(nd)
		p.loc(child, i)
		var err error
		i, err = p.parseFlowValue(child, i, ']')
		if err != nil {
			return 0, err
		}
		i = p.skipFlowWS(i)
		if i >= len(p.d) {
			return 0, p.errAt(len(p.d), "unterminated flow sequence")
		}
		switch p.d[i] {
		case ',':
			i = p.skipFlowWS(i + 1)
			if i < len(p.d) && p.d[i] == ']' {
				return i + 1, nil
			}
		case ']':
			return i + 1, nil
		default:
			return 0, p.errAt(i, "expected ',' or ']' in flow sequence")
		}
	}
}

// parseFlowValue parses one value in flow context into nd, starting at i.
// close is the bracket that ends the enclosing collection.
func (p *parser) parseFlowValue(nd tree.ID, i int, close byte) (int, error) {
	t := p.t
	var err error
	i, err = p.parseFlowProps(nd, i)
	if err != nil {
		return 0, err
	}
	if i >= len(p.d) {
		return 0, p.errAt(len(p.d), "unterminated flow collection")
	}
	switch c := p.d[i]; {
	case c == '*':
		name, n := scanName(p.d[i+1:])
		if n == 0 {
			return 0, p.errAt(i, "empty alias name")
		}
		t.SetAlias(nd, name)
		return i + 1 + n, nil
	case c == '{' || c == '[':
		return p.parseFlow(nd, i)
	case c == '"' || c == '\'':
		j, err := p.scanQuotedEnd(i)
		if err != nil {
			return 0, err
		}
		s, uerr := token.Unquote(p.d[i:j])
		if uerr != nil {
			return 0, p.errAt(i, "%v", uerr)
		}
		t.SetVal(nd, s)
		t.AddFlags(nd, tree.ValQuoted)
		return j, nil
	case c == ',' || c == close:
		// empty element: null
		return i, nil
	default:
		j := i
		for j < len(p.d) {
			c := p.d[j]
			if c == ',' || c == close || c == '\n' {
				break
			}
			if c == '#' && j > i && p.d[j-1] == ' ' {
				break
			}
			j++
		}
		text := trimRightSpaces(string(p.d[i:j]))
		if !token.IsNullText(text) {
			t.SetVal(nd, text)
		}
		return j, nil
	}
}

// parseFlowProps consumes &anchor and !tag properties in flow context.
func (p *parser) parseFlowProps(nd tree.ID, i int) (int, error) {
	t := p.t
	for i < len(p.d) {
		switch p.d[i] {
		case '&':
			name, n := scanName(p.d[i+1:])
			if n == 0 {
				return 0, p.errAt(i, "empty anchor name")
			}
			t.SetAnchor(nd, name)
			i = p.skipFlowWS(i + 1 + n)
		case '!':
			n := 0
			for i+n < len(p.d) {
				c := p.d[i+n]
				if c == ' ' || c == '\n' || c == ',' || c == '}' || c == ']' {
					break
				}
				n++
			}
			t.SetValTag(nd, string(p.d[i:i+n]))
			i = p.skipFlowWS(i + n)
		default:
			return i, nil
		}
	}
	return i, nil
}

// scanFlowKey reads a mapping key in flow context.
func (p *parser) scanFlowKey(i int) (key string, quoted bool, next int, err error) {
	d := p.d
	if d[i] == '"' || d[i] == '\'' {
		j, err := p.scanQuotedEnd(i)
		if err != nil {
			return "", false, 0, err
		}
		s, uerr := token.Unquote(d[i:j])
		if uerr != nil {
			return "", false, 0, p.errAt(i, "%v", uerr)
		}
		return s, true, j, nil
	}
	j := i
	for j < len(d) {
		c := d[j]
		if c == ':' || c == ',' || c == '{' || c == '}' || c == '[' || c == ']' || c == '\n' {
			break
		}
		j++
	}
	key = trimRightSpaces(string(d[i:j]))
	if key == "" {
		return "", false, 0, p.errAt(i, "empty mapping key")
	}
	return key, false, j, nil
}

// scanQuotedEnd returns the offset just past the closing quote of the
// quoted scalar starting at i.
func (p *parser) scanQuotedEnd(i int) (int, error) {
	d := p.d
	q := d[i]
	j := i + 1
	for j < len(d) {
		if d[j] == '\n' {
			break
		}
		if q == '"' && d[j] == '\\' {
			j += 2
			continue
		}
		if d[j] == q {
			if q == '\'' && j+1 < len(d) && d[j+1] == '\'' {
				j += 2
				continue
			}
			return j + 1, nil
		}
		j++
	}
	return 0, p.errAt(i, "unterminated quoted scalar")
}

// skipFlowWS skips spaces, newlines, and comments in flow context.
func (p *parser) skipFlowWS(i int) int {
	d := p.d
	for i < len(d) {
		switch d[i] {
		case ' ', '\t', '\r', '\n':
			i++
		case '#':
			for i < len(d) && d[i] != '\n' {
				i++
			}
		default:
			return i
		}
	}
	return i
}

func trimRightSpaces(s string) string {
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
