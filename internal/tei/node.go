//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package tei

import (
	"strings"

	"github.com/e-gun/GinzaGoServer/internal/vv"
)

//
// THE PARSED TREE: a tagged union that knows nothing about a DOM
//

// Node - one of *TextNode, *ElementNode, *GlyphNode, *VariantNode
type Node interface {
	teinode()
}

type TextNode struct {
	Text string
}

type Attr struct {
	Name  string
	Value string
}

type ElementNode struct {
	Name     string
	Attrs    []Attr
	Children []Node
}

// GlyphNode - g[@ref]: a non-standard sign; Ref has no leading '#'
type GlyphNode struct {
	Ref  string
	Text string
}

// VariantNode - app: one lemma and any number of readings
type VariantNode struct {
	Type     string
	Lemma    *ReadingNode
	Readings []*ReadingNode
}

// ReadingNode - lem or rdg; Witnesses hold ids without the leading '#'
type ReadingNode struct {
	IsLemma   bool
	Witnesses []string
	Cause     string
	Children  []Node
}

func (*TextNode) teinode()    {}
func (*ElementNode) teinode() {}
func (*GlyphNode) teinode()   {}
func (*VariantNode) teinode() {}

// Attr - the value of the named attribute or ""
func (e *ElementNode) Attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// IsVariants - only app[@type='variants'] (or an untyped app) counts toward nesting depth
func (v *VariantNode) IsVariants() bool {
	return v.Type == "" || v.Type == vv.VARIANTTYPE
}

// HasWitness - does this reading claim the witness?
func (r *ReadingNode) HasWitness(wid string) bool {
	for _, w := range r.Witnesses {
		if w == wid {
			return true
		}
	}
	return false
}

// IsEmpty - an rdg with no content at all (or only whitespace) marks an omission
func (r *ReadingNode) IsEmpty() bool {
	for _, c := range r.Children {
		switch n := c.(type) {
		case *TextNode:
			if strings.TrimSpace(n.Text) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// SplitWitnesses - "#A #B  C" --> [A B C]
func SplitWitnesses(wit string) []string {
	ff := strings.Fields(wit)
	out := make([]string, 0, len(ff))
	for _, f := range ff {
		f = strings.TrimPrefix(f, "#")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// EntityType - persName, placeName and rs[@type='term'] carry glossary keys; "" for anything else
func EntityType(e *ElementNode) string {
	switch e.Name {
	case "persName":
		return "person"
	case "placeName":
		return "place"
	case "rs":
		if e.Attr("type") == "term" {
			return "term"
		}
	}
	return ""
}
