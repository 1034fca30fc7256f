//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package tei

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

const (
	FRAGWRAP = "<frag>%s</frag>"
)

// ParseFragment - turn the XML of a line (any number of top-level nodes) into a []Node
func ParseFragment(fragment string) ([]Node, error) {
	doc, err := xmlquery.Parse(strings.NewReader(fmt.Sprintf(FRAGWRAP, fragment)))
	if err != nil {
		return nil, &ParseError{Fragment: fragment, Err: err}
	}

	root := firstelement(doc)
	if root == nil {
		return nil, &ParseError{Fragment: fragment, Err: ErrNoRoot}
	}

	nn, err := convertchildren(root)
	if err != nil {
		return nil, &ParseError{Fragment: fragment, Err: err}
	}
	return nn, nil
}

// MustParse - ParseFragment for fixtures known to be well-formed
func MustParse(fragment string) []Node {
	nn, err := ParseFragment(fragment)
	if err != nil {
		panic(err)
	}
	return nn
}

func firstelement(n *xmlquery.Node) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

func convertchildren(n *xmlquery.Node) ([]Node, error) {
	var out []Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cn, err := convert(c)
		if err != nil {
			return nil, err
		}
		if cn != nil {
			out = append(out, cn)
		}
	}
	return out, nil
}

// convert - nil, nil for comments, declarations and the like
func convert(n *xmlquery.Node) (Node, error) {
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		return &TextNode{Text: n.Data}, nil
	case xmlquery.ElementNode:
		// handled below
	default:
		return nil, nil
	}

	switch n.Data {
	case "g":
		ref := n.SelectAttr("ref")
		if ref != "" {
			return &GlyphNode{Ref: strings.TrimPrefix(ref, "#"), Text: n.InnerText()}, nil
		}
	case "app":
		return convertapp(n)
	}

	el := &ElementNode{Name: n.Data, Attrs: convertattrs(n)}
	kids, err := convertchildren(n)
	if err != nil {
		return nil, err
	}
	el.Children = kids
	return el, nil
}

func convertapp(n *xmlquery.Node) (Node, error) {
	v := &VariantNode{Type: n.SelectAttr("type")}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case "lem":
			if v.Lemma != nil {
				// a second lem is ignored
				continue
			}
			r, err := convertreading(c, true)
			if err != nil {
				return nil, err
			}
			v.Lemma = r
		case "rdg":
			r, err := convertreading(c, false)
			if err != nil {
				return nil, err
			}
			v.Readings = append(v.Readings, r)
		default:
			// note, witDetail, etc. are not readings
		}
	}
	if v.Lemma == nil {
		return nil, ErrNoLemma
	}
	return v, nil
}

func convertreading(n *xmlquery.Node, lemma bool) (*ReadingNode, error) {
	kids, err := convertchildren(n)
	if err != nil {
		return nil, err
	}
	return &ReadingNode{
		IsLemma:   lemma,
		Witnesses: SplitWitnesses(n.SelectAttr("wit")),
		Cause:     strings.TrimSpace(n.SelectAttr("cause")),
		Children:  kids,
	}, nil
}

func convertattrs(n *xmlquery.Node) []Attr {
	if len(n.Attr) == 0 {
		return nil
	}
	aa := make([]Attr, 0, len(n.Attr))
	for _, a := range n.Attr {
		aa = append(aa, Attr{Name: attrname(a.Name.Space, a.Name.Local), Value: a.Value})
	}
	return aa
}

// attrname - keep 'xml:' prefixes; drop other namespaces
func attrname(space string, local string) string {
	const (
		XMLNS = "http://www.w3.org/XML/1998/namespace"
	)
	if space == "xml" || space == XMLNS {
		return "xml:" + local
	}
	return local
}
