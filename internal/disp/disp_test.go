//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package disp

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/wit"
)

const (
	nestedline = `<app type="variants"><lem>alpha <app type="variants"><lem>beta</lem><rdg wit="#A">gamma</rdg></app></lem>` +
		`<rdg wit="#B" cause="addition">delta</rdg><rdg wit="#C #A" cause="bogus"/><rdg>nobody</rdg></app>`
	typedline  = `<app type="orthography"><lem>x <app type="variants"><lem>y</lem><rdg wit="#A">z</rdg></app></lem></app>`
	entityline = `<persName key="adam">Adam</persName> and <g ref="#kd">k</g>`
)

func TestConvertAnnotations(t *testing.T) {
	tr, err := Convert(nestedline)
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	aa := tr.Annotations()
	if len(aa) != 2 {
		t.Fatalf("expected 2 variant spans, got %d", len(aa))
	}

	outer := aa[0]
	if outer.Level != 1 || outer.Lemma != "alpha beta" || outer.Count != 3 {
		t.Errorf("outer annotation wrong: %+v", outer)
	}
	if outer.Witnesses != "B C A" {
		t.Errorf("witness union = %q, want %q", outer.Witnesses, "B C A")
	}
	if outer.Rdg != "delta | [om.] | nobody" {
		t.Errorf("rdg summary = %q", outer.Rdg)
	}
	if !reflect.DeepEqual(outer.Causes, []string{"addition", "unspecified"}) {
		t.Errorf("causes = %v", outer.Causes)
	}
	want := []str.VariantReading{
		{Witnesses: "B", Cause: "addition", Reading: "delta"},
		{Witnesses: "C A", Cause: "unspecified", Reading: "[om.]"},
		{Witnesses: "", Cause: "unspecified", Reading: "nobody"},
	}
	if !reflect.DeepEqual(outer.Variants, want) {
		t.Errorf("variants = %+v", outer.Variants)
	}

	inner := aa[1]
	if inner.Level != 2 || inner.Lemma != "beta" || inner.Witnesses != "A" || inner.Rdg != "gamma" {
		t.Errorf("inner annotation wrong: %+v", inner)
	}
	if inner.Key == outer.Key {
		t.Errorf("distinct apparatus should not share a key")
	}
}

func TestConvertTypedApp(t *testing.T) {
	tr, err := Convert(typedline)
	if err != nil {
		t.Fatal(err)
	}
	ss := tr.Spans()
	if len(ss) != 1 {
		t.Fatalf("only the variants-type app should become a span; got %d", len(ss))
	}
	if ss[0].Annotation.Level != 1 {
		t.Errorf("a non-variants ancestor must not count toward depth; level = %d", ss[0].Annotation.Level)
	}
}

func TestConvertIdempotent(t *testing.T) {
	a, err := Convert(nestedline)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Convert(nestedline)
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Errorf("two conversions differ:\n%s\n%s", ja, jb)
	}
	if !reflect.DeepEqual(a.Annotations(), b.Annotations()) {
		t.Errorf("annotations differ between conversions")
	}
}

func TestAnnotationKey(t *testing.T) {
	a, _ := Convert(`<app type="variants"><lem>sator</lem><rdg wit="#A">satur</rdg></app>`)
	b, _ := Convert(`x <app type="variants"><lem>sator</lem><rdg wit="#A">satur</rdg></app> y`)
	c, _ := Convert(`<app type="variants"><lem>sator</lem><rdg wit="#B">satur</rdg></app>`)
	ka, kb, kc := a.Annotations()[0].Key, b.Annotations()[0].Key, c.Annotations()[0].Key
	if ka != kb {
		t.Errorf("same apparatus, different keys: %s %s", ka, kb)
	}
	if ka == kc {
		t.Errorf("different readings, same key: %s", ka)
	}
}

func TestConvertEntityAndGlyph(t *testing.T) {
	tr, err := Convert(entityline)
	if err != nil {
		t.Fatal(err)
	}
	sp, ok := tr.Nodes[0].(*Span)
	if !ok || sp.Entity == nil {
		t.Fatalf("expected an entity span first, got %#v", tr.Nodes[0])
	}
	if sp.Entity.RefType != "person" || sp.Entity.Key != "adam" {
		t.Errorf("entity = %+v", sp.Entity)
	}
	g, ok := tr.Nodes[len(tr.Nodes)-1].(*Glyph)
	if !ok || g.Ref != "kd" || g.Text != "k" {
		t.Errorf("expected a glyph last, got %#v", tr.Nodes[len(tr.Nodes)-1])
	}
}

func TestHTML(t *testing.T) {
	tr, _ := Convert(nestedline + " " + entityline)
	h := tr.HTML(HTMLOptions{IDPrefix: "p3l7"})
	for _, want := range []string{
		`class="variant"`,
		`data-span="p3l7v1"`,
		`data-span="p3l7v2"`,
		`data-level="2"`,
		`data-lemma="alpha beta"`,
		`data-witnesses="B C A"`,
		`data-rdg="delta | [om.] | nobody"`,
		`data-cause="addition unspecified"`,
		`data-variant-count="3"`,
		`data-ref-type="person"`,
		`class="glyph" data-ref="kd"`,
	} {
		if !strings.Contains(h, want) {
			t.Errorf("HTML() lacks %s:\n%s", want, h)
		}
	}

	up := tr.HTML(HTMLOptions{Script: strings.ToUpper})
	if !strings.Contains(up, "ALPHA") || !strings.Contains(up, `data-lemma="alpha beta"`) {
		t.Errorf("Script should rewrite text nodes only:\n%s", up)
	}
}

func TestSummarize(t *testing.T) {
	reg := wit.New([]str.Witness{{ID: "A", Siglum: "Pa"}, {ID: "B", Siglum: "Ox"}, {ID: "C", Siglum: "Ld"}})
	tr, _ := Convert(nestedline)
	ann := tr.Annotations()[0]
	rows := Summarize(&ann, reg)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Reading != "[om.]" || !reflect.DeepEqual(rows[0].Sigla, []string{"Ld", "Pa"}) {
		t.Errorf("first row = %+v", rows[0])
	}
	if rows[1].Reading != "delta" || rows[1].CauseLabel != "addition" {
		t.Errorf("second row = %+v", rows[1])
	}
	if rows[2].Reading != "nobody" || len(rows[2].Sigla) != 0 {
		t.Errorf("unclaimed reading should come last: %+v", rows[2])
	}

	h := PopupHTML(ann.Lemma, rows)
	if !strings.Contains(h, `<div class="variant-popup">`) || !strings.Contains(h, "alpha beta]") || !strings.Contains(h, "Ld Pa") {
		t.Errorf("PopupHTML() = %s", h)
	}
}

func TestStats(t *testing.T) {
	pp := []str.Page{{N: 1, Lines: []str.Line{{N: 1, XML: nestedline}, {N: 2, XML: "<app>"}, {N: 3, XML: typedline}}}}
	st := Stats(pp)
	if st.Apparatus != 3 || st.Readings != 5 || st.Unparseable != 1 {
		t.Errorf("Stats() = %+v", st)
	}
	if st.ByWitness["A"] != 3 || st.ByCause["unspecified"] != 4 {
		t.Errorf("Stats() counts = %+v", st)
	}
}
