package encode

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yamldoc/go-yamldoc/format"
	"github.com/yamldoc/go-yamldoc/token"
	"github.com/yamldoc/go-yamldoc/tree"
)

type EncState struct {
	indent int

	format format.Format

	Color func(attr ColorAttr, s string) string
}

// Encode serializes the subtree at id to w. Block style is the default;
// nodes flagged Flow are emitted inline. Styles, quoting, tags, anchors and
// aliases are reproduced as flagged on each node. In JSON mode tags,
// anchors and aliases are errors.
func Encode(t *tree.Tree, id tree.ID, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	if es.format.IsJSON() {
		if err := encodeJSON(t, id, w, es); err != nil {
			return err
		}
		return writeString(w, "\n")
	}
	if err := encodeRoot(t, id, w, es); err != nil {
		return err
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	_, err := w.Write([]byte(s))
	return err
}

func (es *EncState) color(attr ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(attr, s)
}

func encodeRoot(t *tree.Tree, id tree.ID, w io.Writer, es *EncState) error {
	switch {
	case t.IsFlow(id), isLeaf(t, id), t.NumChildren(id) == 0:
		line, err := inlineText(t, id, es)
		if err != nil {
			return err
		}
		return writeString(w, line+"\n")
	default:
		return encodeBlock(t, id, w, 0, es)
	}
}

func isLeaf(t *tree.Tree, id tree.ID) bool {
	return !t.IsMap(id) && !t.IsSeq(id)
}

// propsPrefix renders "&anchor !tag " for a node, empty when it has neither.
func propsPrefix(t *tree.Tree, id tree.ID, es *EncState) string {
	var sb strings.Builder
	if t.HasAnchor(id) {
		sb.WriteString(es.color(AnchorColor, "&"+t.Anchor(id)))
		sb.WriteByte(' ')
	}
	if t.HasValTag(id) {
		sb.WriteString(es.color(TagColor, t.ValTag(id)))
		sb.WriteByte(' ')
	}
	return sb.String()
}

func scalarText(t *tree.Tree, id tree.ID, es *EncState) string {
	if !t.HasVal(id) {
		return es.color(NullColor, "null")
	}
	v := t.Val(id)
	if t.IsValQuoted(id) || token.NeedsQuote(v) {
		return es.color(ValueColor, token.Quote(v))
	}
	return es.color(ValueColor, v)
}

func keyText(t *tree.Tree, id tree.ID, es *EncState) string {
	k := t.Key(id)
	if t.IsKeyQuoted(id) || token.NeedsKeyQuote(k) {
		return es.color(KeyColor, token.Quote(k))
	}
	return es.color(KeyColor, k)
}

// inlineText renders a node, props included, on a single line. Containers
// come out in flow style.
func inlineText(t *tree.Tree, id tree.ID, es *EncState) (string, error) {
	props := propsPrefix(t, id, es)
	if t.IsAlias(id) {
		return props + es.color(AnchorColor, "*"+t.AliasTarget(id)), nil
	}
	switch {
	case t.IsMap(id):
		parts := make([]string, 0, t.NumChildren(id))
		for _, c := range t.Children(id) {
			v, err := inlineText(t, c, es)
			if err != nil {
				return "", err
			}
			parts = append(parts, keyText(t, c, es)+es.color(SepColor, ":")+" "+v)
		}
		return props + "{" + strings.Join(parts, es.color(SepColor, ",")+" ") + "}", nil
	case t.IsSeq(id):
		parts := make([]string, 0, t.NumChildren(id))
		for _, c := range t.Children(id) {
			v, err := inlineText(t, c, es)
			if err != nil {
				return "", err
			}
			parts = append(parts, v)
		}
		return props + "[" + strings.Join(parts, es.color(SepColor, ",")+" ") + "]", nil
	default:
		return props + scalarText(t, id, es), nil
	}
}

// encodeBlock renders a block-style container, one entry per line.
func encodeBlock(t *tree.Tree, id tree.ID, w io.Writer, depth int, es *EncState) error {
	pad := strings.Repeat(" ", depth*es.indent)
	props := propsPrefix(t, id, es)
	if props != "" {
		// a block container's own props sit alone on the first line
		if err := writeString(w, pad+strings.TrimRight(props, " ")+"\n"); err != nil {
			return err
		}
	}
	for _, c := range t.Children(id) {
		lead := pad
		if t.IsMap(id) {
			lead += keyText(t, c, es) + es.color(SepColor, ":")
		} else {
			lead += es.color(SepColor, "-")
		}
		if err := encodeEntry(t, c, w, lead, depth, es); err != nil {
			return err
		}
	}
	return nil
}

// encodeEntry renders one map or sequence entry whose "key:" or "-" lead is
// already built.
func encodeEntry(t *tree.Tree, c tree.ID, w io.Writer, lead string, depth int, es *EncState) error {
	blockChild := (t.IsMap(c) || t.IsSeq(c)) && !t.IsFlow(c) && t.NumChildren(c) > 0
	if !blockChild {
		line, err := inlineText(t, c, es)
		if err != nil {
			return err
		}
		return writeString(w, lead+" "+line+"\n")
	}
	props := strings.TrimRight(propsPrefix(t, c, es), " ")
	if props != "" {
		props = " " + props
	}
	if err := writeString(w, lead+props+"\n"); err != nil {
		return err
	}
	return encodeChildren(t, c, w, depth+1, es)
}

// encodeChildren renders c's children in block style without re-emitting
// c's own props (the entry lead line already carried them).
func encodeChildren(t *tree.Tree, c tree.ID, w io.Writer, depth int, es *EncState) error {
	pad := strings.Repeat(" ", depth*es.indent)
	for _, cc := range t.Children(c) {
		lead := pad
		if t.IsMap(c) {
			lead += keyText(t, cc, es) + es.color(SepColor, ":")
		} else {
			lead += es.color(SepColor, "-")
		}
		if err := encodeEntry(t, cc, w, lead, depth, es); err != nil {
			return err
		}
	}
	return nil
}

// encodeJSON renders the subtree as compact JSON. Tags, anchors and aliases
// have no JSON form and are rejected.
func encodeJSON(t *tree.Tree, id tree.ID, w io.Writer, es *EncState) error {
	if t.IsAlias(id) {
		return fmt.Errorf("%w: cannot encode alias in %s", ErrEncoding, es.format)
	}
	if t.HasAnchor(id) || t.HasValTag(id) {
		return fmt.Errorf("%w: cannot encode tags or anchors in %s", ErrEncoding, es.format)
	}
	switch {
	case t.IsMap(id):
		if err := writeString(w, "{"); err != nil {
			return err
		}
		for i, c := range t.Children(id) {
			if i > 0 {
				if err := writeString(w, ","); err != nil {
					return err
				}
			}
			if err := writeString(w, strconv.Quote(t.Key(c))+":"); err != nil {
				return err
			}
			if err := encodeJSON(t, c, w, es); err != nil {
				return err
			}
		}
		return writeString(w, "}")
	case t.IsSeq(id):
		if err := writeString(w, "["); err != nil {
			return err
		}
		for i, c := range t.Children(id) {
			if i > 0 {
				if err := writeString(w, ","); err != nil {
					return err
				}
			}
			if err := encodeJSON(t, c, w, es); err != nil {
				return err
			}
		}
		return writeString(w, "]")
	case !t.HasVal(id):
		return writeString(w, "null")
	default:
		v := t.Val(id)
		if !t.IsValQuoted(id) {
			switch {
			case v == "true" || v == "false":
				return writeString(w, v)
			case isJSONNumber(v):
				return writeString(w, v)
			}
		}
		return writeString(w, strconv.Quote(v))
	}
}

// isJSONNumber reports whether v is a number JSON can carry verbatim.
func isJSONNumber(v string) bool {
	i := 0
	if i < len(v) && v[i] == '-' {
		i++
	}
	digits := func() bool {
		n := 0
		for i < len(v) && v[i] >= '0' && v[i] <= '9' {
			i++
			n++
		}
		return n > 0
	}
	if !digits() {
		return false
	}
	if i < len(v) && v[i] == '.' {
		i++
		if !digits() {
			return false
		}
	}
	if i < len(v) && (v[i] == 'e' || v[i] == 'E') {
		i++
		if i < len(v) && (v[i] == '+' || v[i] == '-') {
			i++
		}
		if !digits() {
			return false
		}
	}
	return i == len(v)
}
