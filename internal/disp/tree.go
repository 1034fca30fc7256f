//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package disp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/e-gun/GinzaGoServer/internal/app"
	"github.com/e-gun/GinzaGoServer/internal/gen"
	"github.com/e-gun/GinzaGoServer/internal/mm"
	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/tei"
	"github.com/e-gun/GinzaGoServer/internal/vv"
	"github.com/google/uuid"
)

var (
	Msg      = mm.NewMessageMaker(vv.MYNAME, vv.SHORTNAME, vv.VERSION)
	keyspace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://ginza.example.org/apparatus"))
)

const (
	CLASSVARIANT = "variant"
	CLASSENTITY  = "entity"
	CLASSGLYPH   = "glyph"
	KINDTEXT     = "text"
	KINDGLYPH    = "glyph"
	KINDSPAN     = "span"
)

//
// THE DISPLAY TREE: every witness at once; the lemma is shown and the readings ride along as metadata
//

// DNode - one of *Text, *Glyph, *Span
type DNode interface {
	dispnode()
}

type Text struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type Glyph struct {
	Kind string `json:"kind"`
	Ref  string `json:"ref"`
	Text string `json:"text"`
}

// EntityRef - persName, placeName, rs[@type='term'] as the glossary layer will look them up
type EntityRef struct {
	RefType string `json:"reftype"`
	Key     string `json:"key"`
}

// Span - Annotation is set on variant spans, Entity on entity spans; Seq numbers variant spans within a tree
type Span struct {
	Kind       string                 `json:"kind"`
	Class      string                 `json:"class"`
	Seq        int                    `json:"seq,omitempty"`
	Annotation *str.VariantAnnotation `json:"annotation,omitempty"`
	Entity     *EntityRef             `json:"entity,omitempty"`
	Children   []DNode                `json:"children"`
}

func (*Text) dispnode()  {}
func (*Glyph) dispnode() {}
func (*Span) dispnode()  {}

type Tree struct {
	Nodes []DNode `json:"nodes"`
	spans []*Span
}

// Convert - parse a line and build its display tree
func Convert(fragment string) (*Tree, error) {
	nn, err := tei.ParseFragment(fragment)
	if err != nil {
		return nil, err
	}
	return ConvertNodes(nn), nil
}

// ConvertNodes - build the display tree of an already parsed line
func ConvertNodes(nn []tei.Node) *Tree {
	t := &Tree{}
	t.Nodes = t.convertlist(nn, 0)
	return t
}

// Spans - the variant spans in document order
func (t *Tree) Spans() []*Span {
	out := make([]*Span, len(t.spans))
	copy(out, t.spans)
	return out
}

// Annotations - the variant annotations in document order
func (t *Tree) Annotations() []str.VariantAnnotation {
	out := make([]str.VariantAnnotation, len(t.spans))
	for i, s := range t.spans {
		out[i] = *s.Annotation
	}
	return out
}

// convertlist - depth is the number of variants-type apparatus ancestors
func (t *Tree) convertlist(nn []tei.Node, depth int) []DNode {
	var out []DNode
	prevel := false
	for _, n := range nn {
		if tn, ok := n.(*tei.TextNode); ok {
			out = append(out, &Text{Kind: KINDTEXT, Text: tn.Text})
			prevel = false
			continue
		}
		if prevel {
			out = append(out, &Text{Kind: KINDTEXT, Text: " "})
		}
		out = append(out, t.convert(n, depth)...)
		prevel = true
	}
	return out
}

func (t *Tree) convert(n tei.Node, depth int) []DNode {
	switch x := n.(type) {
	case *tei.TextNode:
		return []DNode{&Text{Kind: KINDTEXT, Text: x.Text}}
	case *tei.GlyphNode:
		return []DNode{&Glyph{Kind: KINDGLYPH, Ref: x.Ref, Text: x.Text}}
	case *tei.ElementNode:
		et := tei.EntityType(x)
		key := x.Attr("key")
		if et == "" || key == "" {
			// formatting elements are transparent
			return t.convertlist(x.Children, depth)
		}
		return []DNode{&Span{
			Kind:     KINDSPAN,
			Class:    CLASSENTITY,
			Entity:   &EntityRef{RefType: et, Key: key},
			Children: t.convertlist(x.Children, depth),
		}}
	case *tei.VariantNode:
		if !x.IsVariants() {
			return t.convertlist(x.Lemma.Children, depth)
		}
		s := &Span{Kind: KINDSPAN, Class: CLASSVARIANT, Annotation: Annotate(x, depth+1)}
		t.spans = append(t.spans, s)
		s.Seq = len(t.spans)
		s.Children = t.convertlist(x.Lemma.Children, depth+1)
		return []DNode{s}
	}
	return nil
}

// Annotate - the variant metadata for an apparatus node at the given nesting level
func Annotate(v *tei.VariantNode, level int) *str.VariantAnnotation {
	ann := &str.VariantAnnotation{
		Level:    level,
		Lemma:    app.GlyphText(app.ResolveNodes(v.Lemma.Children, "")),
		Count:    len(v.Readings),
		Variants: make([]str.VariantReading, 0, len(v.Readings)),
		Causes:   make([]string, 0),
	}

	var ww, cc, rr []string
	for _, rd := range v.Readings {
		vr := str.VariantReading{
			Witnesses: strings.Join(rd.Witnesses, " "),
			Cause:     NormalizeCause(rd.Cause),
			Reading:   ReadingText(rd),
		}
		ann.Variants = append(ann.Variants, vr)
		ww = append(ww, rd.Witnesses...)
		cc = append(cc, vr.Cause)
		rr = append(rr, vr.Reading)
	}

	ann.Witnesses = strings.Join(gen.UniqueInOrder(ww), " ")
	ann.Causes = append(ann.Causes, gen.UniqueInOrder(cc)...)
	ann.Rdg = strings.Join(rr, vv.RDGSUMMARYSEP)
	ann.Key = AnnotationKey(ann)
	return ann
}

// ReadingText - the reading as its first witness reads it; the omission marker if there is nothing to read
func ReadingText(rd *tei.ReadingNode) string {
	if rd.IsEmpty() {
		return vv.OMISSIONMARKER
	}
	wid := ""
	if len(rd.Witnesses) > 0 {
		wid = rd.Witnesses[0]
	}
	s := app.GlyphText(app.ResolveNodes(rd.Children, wid))
	if s == "" {
		return vv.OMISSIONMARKER
	}
	return s
}

// NormalizeCause - any cause we do not know about (or no cause at all) is "unspecified"
func NormalizeCause(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if _, ok := vv.CauseLabels[c]; ok {
		return c
	}
	return vv.CAUSEUNSPECIFIED
}

// AnnotationKey - the same lemma at the same level with the same readings always yields the same key
func AnnotationKey(ann *str.VariantAnnotation) string {
	js, e := json.Marshal(ann.Variants)
	Msg.EC(e)
	name := fmt.Sprintf("%s\x00%d\x00%s", ann.Lemma, ann.Level, js)
	return uuid.NewSHA1(keyspace, []byte(name)).String()
}
