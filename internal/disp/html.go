//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package disp

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLOptions - Script rewrites every text node (Mandaic mode); IDPrefix keeps span ids unique across the lines of a page
type HTMLOptions struct {
	Script   func(string) string
	IDPrefix string
}

// SpanID - the id the client hands back when it reports the layout of a variant span
func SpanID(prefix string, seq int) string {
	return fmt.Sprintf("%sv%d", prefix, seq)
}

// HTML - render the tree as a run of inline nodes
func (t *Tree) HTML(opts HTMLOptions) string {
	var sb strings.Builder
	for _, n := range t.Nodes {
		if err := html.Render(&sb, tohtml(n, opts)); err != nil {
			Msg.EC(err)
		}
	}
	return sb.String()
}

func tohtml(n DNode, opts HTMLOptions) *html.Node {
	switch x := n.(type) {
	case *Text:
		s := x.Text
		if opts.Script != nil {
			s = opts.Script(s)
		}
		return &html.Node{Type: html.TextNode, Data: s}
	case *Glyph:
		g := spannode(CLASSGLYPH, html.Attribute{Key: "data-ref", Val: x.Ref})
		g.AppendChild(&html.Node{Type: html.TextNode, Data: x.Text})
		return g
	case *Span:
		var s *html.Node
		switch {
		case x.Annotation != nil:
			s = spannode(CLASSVARIANT, variantattrs(x, opts.IDPrefix)...)
		case x.Entity != nil:
			s = spannode(CLASSENTITY,
				html.Attribute{Key: "data-ref-type", Val: x.Entity.RefType},
				html.Attribute{Key: "data-key", Val: x.Entity.Key})
		default:
			s = spannode(x.Class)
		}
		for _, c := range x.Children {
			s.AppendChild(tohtml(c, opts))
		}
		return s
	}
	return &html.Node{Type: html.TextNode}
}

func spannode(class string, aa ...html.Attribute) *html.Node {
	attrs := append([]html.Attribute{{Key: "class", Val: class}}, aa...)
	return &html.Node{Type: html.ElementNode, Data: "span", DataAtom: atom.Span, Attr: attrs}
}

func variantattrs(s *Span, prefix string) []html.Attribute {
	a := s.Annotation
	js, e := json.Marshal(a.Variants)
	Msg.EC(e)
	return []html.Attribute{
		{Key: "data-span", Val: SpanID(prefix, s.Seq)},
		{Key: "data-level", Val: strconv.Itoa(a.Level)},
		{Key: "data-lemma", Val: a.Lemma},
		{Key: "data-witnesses", Val: a.Witnesses},
		{Key: "data-rdg", Val: a.Rdg},
		{Key: "data-cause", Val: strings.Join(a.Causes, " ")},
		{Key: "data-variant-count", Val: strconv.Itoa(a.Count)},
		{Key: "data-variants", Val: string(js)},
		{Key: "data-key", Val: a.Key},
	}
}
