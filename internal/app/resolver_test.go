//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/e-gun/GinzaGoServer/internal/str"
	"github.com/e-gun/GinzaGoServer/internal/tei"
	"github.com/e-gun/GinzaGoServer/internal/wit"
)

const (
	twowits = `<app type="variants"><lem>L</lem><rdg wit="#A">R1</rdg><rdg wit="#B">R2</rdg></app>`
	satur   = `<app type="variants"><lem>sator</lem><rdg wit="#A" cause="orthographic">satur</rdg></app>`
	sator   = `<app type="variants"><lem>sator</lem><rdg wit="#A" cause="orthographic">sator</rdg></app>`
	omitted = `ista <app type="variants"><lem>sator</lem><rdg wit="#A" cause="omission"/></app> erat`
	nested  = `<app type="variants"><lem>alpha <app type="variants"><lem>beta</lem><rdg wit="#A">gamma</rdg></app></lem>` +
		`<rdg wit="#B">delta <app type="variants"><lem>eps</lem><rdg wit="#B">zeta</rdg><rdg wit="#A">eta</rdg></app></rdg></app>`
	overlap = `<app type="variants"><lem>zero</lem><rdg wit="#A #B">one</rdg><rdg wit="#A">two</rdg></app>`
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		wid  string
		want string
	}{
		{"first reading", twowits, "A", "R1"},
		{"second reading", twowits, "B", "R2"},
		{"lemma fallback", twowits, "C", "L"},
		{"no witness at all", twowits, "", "L"},
		{"sator: A reads satur", satur, "A", "satur"},
		{"sator: Z falls back", satur, "Z", "sator"},
		{"sator: A reads sator", sator, "A", "sator"},
		{"omission for A", omitted, "A", "ista erat"},
		{"omission ignored for B", omitted, "B", "ista sator erat"},
		{"nested: A", nested, "A", "alpha gamma"},
		{"nested: B", nested, "B", "delta zeta"},
		{"nested: C", nested, "C", "alpha beta"},
		{"overlap: first match wins", overlap, "A", "one"},
		{"overlap: B", overlap, "B", "one"},
		{"entities are spaced", `<persName key="adam">Adam</persName><placeName key="eden">Eden</placeName>`, "A", "Adam Eden"},
		{"whitespace already separates", `<w>a</w> <w>b</w>`, "A", "a b"},
		{"glyph inside a word", `ab<g ref="#kd">c</g>d`, "A", "ab{{g:kd|c}}d"},
		{"whitespace collapsed", "  one \n\t two  ", "A", "one two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.xml, tt.wid)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.wid, got, tt.want)
			}
		})
	}
}

func TestResolveOmissionIsEmpty(t *testing.T) {
	got, err := Resolve(`<app type="variants"><lem>sator</lem><rdg wit="#A"></rdg></app>`, "A")
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("an empty reading must resolve to \"\", got %q", got)
	}
}

func TestResolveParseError(t *testing.T) {
	for _, bad := range []string{`<app type="variants"><lem>x</lem>`, `<app><rdg wit="#A">x</rdg></app>`} {
		_, err := Resolve(bad, "A")
		var pe *tei.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Resolve(%q): expected *tei.ParseError, got %v", bad, err)
		}
	}
}

func TestResolverRegistry(t *testing.T) {
	reg := wit.New([]str.Witness{{ID: "A", Siglum: "A"}, {ID: "B", Siglum: "B"}})
	r := NewResolver(reg)
	line := `<app type="variants"><lem>base</lem><rdg wit="#Q">ghost</rdg><rdg wit="#A">real</rdg></app>`

	tests := []struct {
		wid  string
		want string
	}{
		{"A", "real"},
		{"B", "base"},
		{"Q", "base"},
	}
	for _, tt := range tests {
		got, err := r.Resolve(line, tt.wid)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.wid, got, tt.want)
		}
	}

	if got := ResolveNodes(tei.MustParse(line), "Q"); got != "ghost" {
		t.Errorf("without a registry Q should match its reading; got %q", got)
	}
}

func TestResolverWarnsOnce(t *testing.T) {
	var ambig, missing []string
	oldnote, oldwarn := noteambiguous, warnmissing
	noteambiguous = func(s string) { ambig = append(ambig, s) }
	warnmissing = func(s string) { missing = append(missing, s) }
	ambigonce = sync.Once{}
	defer func() {
		noteambiguous, warnmissing = oldnote, oldwarn
	}()

	r := NewResolver(wit.New([]str.Witness{{ID: "A", Siglum: "A"}, {ID: "B", Siglum: "B"}}))
	ghosts := `<app type="variants"><lem>base</lem><rdg wit="#Q">ghost</rdg><rdg wit="#R">other</rdg></app>`

	for i := 0; i < 3; i++ {
		for _, wid := range []string{"A", "B"} {
			if _, err := r.Resolve(overlap, wid); err != nil {
				t.Fatal(err)
			}
		}
		for _, wid := range []string{"Q", "R"} {
			if _, err := r.Resolve(ghosts, wid); err != nil {
				t.Fatal(err)
			}
		}
	}

	if len(ambig) != 1 {
		t.Errorf("ambiguous readings should be noted once per process; got %d: %v", len(ambig), ambig)
	}
	if len(missing) != 2 {
		t.Errorf("each unregistered id should be reported once; got %d: %v", len(missing), missing)
	}
}

func TestGlyphs(t *testing.T) {
	s := "a {{g:kd|ḵ}} b {{g:x1|}} c"
	if got := GlyphText(s); got != "a ḵ b  c" {
		t.Errorf("GlyphText() = %q", got)
	}
	gg := GlyphTokens(s)
	if len(gg) != 2 || gg[0] != (Glyph{Ref: "kd", Text: "ḵ"}) || gg[1] != (Glyph{Ref: "x1", Text: ""}) {
		t.Errorf("GlyphTokens() = %+v", gg)
	}
	if GlyphToken("r", "t") != "{{g:r|t}}" {
		t.Errorf("GlyphToken() = %q", GlyphToken("r", "t"))
	}

	awkward := []Glyph{{Ref: "a|b", Text: "}"}, {Ref: "x{1}", Text: "50%7C|"}, {Ref: "p", Text: "{{g:q|r}}"}}
	for _, g := range awkward {
		tok := "pre " + GlyphToken(g.Ref, g.Text) + " post"
		if got := GlyphText(tok); got != "pre "+g.Text+" post" {
			t.Errorf("GlyphText(%q) = %q", tok, got)
		}
		if gg := GlyphTokens(tok); len(gg) != 1 || gg[0] != g {
			t.Errorf("GlyphTokens(%q) = %+v, want %+v", tok, gg, g)
		}
	}
}
