//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package tei

import (
	"errors"
	"testing"
)

func TestParseFragmentVariant(t *testing.T) {
	nn, err := ParseFragment(`ista <app type="variants"><lem>sator</lem><rdg wit="#A #B" cause="orthographic">satur</rdg><rdg wit="#C"/></app> erat`)
	if err != nil {
		t.Fatalf("ParseFragment() failed: %v", err)
	}
	if len(nn) != 3 {
		t.Fatalf("expected 3 top-level nodes, got %d", len(nn))
	}
	v, ok := nn[1].(*VariantNode)
	if !ok {
		t.Fatalf("expected *VariantNode, got %T", nn[1])
	}
	if !v.IsVariants() {
		t.Errorf("app[@type='variants'] should count as variants")
	}
	if len(v.Readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(v.Readings))
	}
	if !v.Readings[0].HasWitness("A") || !v.Readings[0].HasWitness("B") {
		t.Errorf("witness refs not split: %v", v.Readings[0].Witnesses)
	}
	if v.Readings[0].Cause != "orthographic" {
		t.Errorf("expected cause 'orthographic', got '%s'", v.Readings[0].Cause)
	}
	if !v.Readings[1].IsEmpty() {
		t.Errorf("an rdg without content should be empty")
	}
	if v.Readings[0].IsEmpty() {
		t.Errorf("'satur' is not empty")
	}
}

func TestParseFragmentGlyphAndEntity(t *testing.T) {
	nn, err := ParseFragment(`<persName key="hibil">Hibil</persName> <g ref="#star">*</g>`)
	if err != nil {
		t.Fatalf("ParseFragment() failed: %v", err)
	}
	el, ok := nn[0].(*ElementNode)
	if !ok {
		t.Fatalf("expected *ElementNode, got %T", nn[0])
	}
	if EntityType(el) != "person" || el.Attr("key") != "hibil" {
		t.Errorf("persName not recognized: %s %s", EntityType(el), el.Attr("key"))
	}
	g, ok := nn[2].(*GlyphNode)
	if !ok {
		t.Fatalf("expected *GlyphNode, got %T", nn[2])
	}
	if g.Ref != "star" || g.Text != "*" {
		t.Errorf("glyph parsed as %+v", g)
	}
}

func TestParseFragmentErrors(t *testing.T) {
	tests := []struct {
		name string
		frag string
	}{
		{"mismatched tags", `<app><lem>x</rdg></app>`},
		{"unclosed", `<app type="variants"><lem>x</lem>`},
		{"app without lem", `<app type="variants"><rdg wit="#A">x</rdg></app>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFragment(tt.frag)
			if err == nil {
				t.Fatalf("expected a ParseError for %s", tt.frag)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("expected *ParseError, got %T", err)
			}
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	in := `a <app type="variants"><lem>b <app type="variants"><lem>c</lem><rdg wit="#B">d</rdg></app></lem><rdg wit="#A" cause="addition">e</rdg><rdg wit="#C"/></app> <g ref="#x">y</g>`
	first := MustParse(in)
	out := Serialize(first)
	second, err := ParseFragment(out)
	if err != nil {
		t.Fatalf("cannot reparse '%s': %v", out, err)
	}
	if Serialize(second) != out {
		t.Errorf("serialization is not stable:\n%s\n%s", out, Serialize(second))
	}
}

func TestSplitPages(t *testing.T) {
	doc := `<TEI xmlns="http://www.tei-c.org/ns/1.0"><text><body>
<pb n="3"/>
<p><lb n="1"/>first <app type="variants"><lem>line</lem><rdg wit="#A">lane</rdg></app>
<lb n="2"/>second line</p>
<pb n="4"/>
<lb/>third
<lb/>fourth
</body></text></TEI>`

	pp, err := SplitPages(doc)
	if err != nil {
		t.Fatalf("SplitPages() failed: %v", err)
	}
	if len(pp) != 2 {
		t.Fatalf("expected 2 pages, got %d: %+v", len(pp), pp)
	}
	if pp[0].N != 3 || pp[1].N != 4 {
		t.Errorf("expected pages 3 and 4, got %d and %d", pp[0].N, pp[1].N)
	}
	if len(pp[0].Lines) != 2 || pp[0].Lines[0].N != 1 || pp[0].Lines[1].N != 2 {
		t.Fatalf("page 3 lines wrong: %+v", pp[0].Lines)
	}
	nn, err := ParseFragment(pp[0].Lines[0].XML)
	if err != nil {
		t.Fatalf("line 3.1 does not reparse: %v", err)
	}
	found := false
	for _, n := range nn {
		if _, ok := n.(*VariantNode); ok {
			found = true
		}
	}
	if !found {
		t.Errorf("the apparatus entry went missing from line 3.1: %s", pp[0].Lines[0].XML)
	}
	if len(pp[1].Lines) != 2 || pp[1].Lines[0].N != 1 || pp[1].Lines[1].N != 2 {
		t.Errorf("unnumbered lb should count up from 1: %+v", pp[1].Lines)
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{"12a", 12, true},
		{"", 0, false},
		{"xii", 0, false},
	}
	for _, tt := range tests {
		got, ok := leadingint(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("leadingint(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
