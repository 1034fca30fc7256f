//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package tei

import (
	"encoding/xml"
	"strings"
)

// Serialize - write a []Node back out as XML; ParseFragment(Serialize(nn)) rebuilds nn
func Serialize(nn []Node) string {
	var b strings.Builder
	for _, n := range nn {
		writenode(&b, n)
	}
	return b.String()
}

func writenode(b *strings.Builder, n Node) {
	switch t := n.(type) {
	case *TextNode:
		escape(b, t.Text)
	case *GlyphNode:
		b.WriteString(`<g ref="#`)
		escape(b, t.Ref)
		b.WriteString(`">`)
		escape(b, t.Text)
		b.WriteString(`</g>`)
	case *ElementNode:
		b.WriteString("<" + t.Name)
		for _, a := range t.Attrs {
			b.WriteString(" " + a.Name + `="`)
			escape(b, a.Value)
			b.WriteString(`"`)
		}
		if len(t.Children) == 0 {
			b.WriteString("/>")
			return
		}
		b.WriteString(">")
		for _, c := range t.Children {
			writenode(b, c)
		}
		b.WriteString("</" + t.Name + ">")
	case *VariantNode:
		b.WriteString("<app")
		if t.Type != "" {
			b.WriteString(` type="`)
			escape(b, t.Type)
			b.WriteString(`"`)
		}
		b.WriteString(">")
		writereading(b, t.Lemma)
		for _, r := range t.Readings {
			writereading(b, r)
		}
		b.WriteString("</app>")
	}
}

func writereading(b *strings.Builder, r *ReadingNode) {
	tag := "rdg"
	if r.IsLemma {
		tag = "lem"
	}
	b.WriteString("<" + tag)
	if len(r.Witnesses) > 0 {
		ww := make([]string, len(r.Witnesses))
		for i, w := range r.Witnesses {
			ww[i] = "#" + w
		}
		b.WriteString(` wit="`)
		escape(b, strings.Join(ww, " "))
		b.WriteString(`"`)
	}
	if r.Cause != "" {
		b.WriteString(` cause="`)
		escape(b, r.Cause)
		b.WriteString(`"`)
	}
	if len(r.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteString(">")
	for _, c := range r.Children {
		writenode(b, c)
	}
	b.WriteString("</" + tag + ">")
}

func escape(b *strings.Builder, s string) {
	// EscapeText only fails if the writer does; a strings.Builder never does
	_ = xml.EscapeText(b, []byte(s))
}
